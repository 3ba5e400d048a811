//go:build linux

package setup

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/tensorworks/wine-gaming-setup/internal/installer"
	"github.com/tensorworks/wine-gaming-setup/internal/profile"
	"github.com/tensorworks/wine-gaming-setup/internal/scripts"
)

// Prints the final summary box with the generated files and the next steps
func printSummary(w io.Writer, summary *installer.Summary) {
	renderer := newRenderer(w)
	heading := renderer.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	label := renderer.NewStyle().Bold(true)
	box := renderer.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("10")).
		Padding(0, 1)

	lines := []string{
		heading.Render("🎮 Wine gaming environment ready"),
		"",
		label.Render("Install path: ") + summary.InstallPath,
		label.Render("GPU profile:  ") + summary.Profile.Vendor.String(),
		label.Render("Runtime:      ") + string(summary.Runtime.Form),
	}
	if summary.BackupPath != "" {
		lines = append(lines, label.Render("Backup:       ")+summary.BackupPath)
	}

	// Generated files
	lines = append(lines, "", label.Render("Generated files:"))
	for _, file := range summary.Files {
		lines = append(lines, "  • "+filepath.Base(file))
	}

	// Verification and warnings
	failures := summary.Verification.Failures()
	lines = append(lines, "", fmt.Sprintf(
		"%s %d/%d checks passed, %d warnings",
		label.Render("Verification:"),
		len(summary.Verification.Checks)-len(failures),
		len(summary.Verification.Checks),
		len(summary.Warnings),
	))

	// Next steps
	paths := profile.Paths{InstallPath: summary.InstallPath}
	lines = append(lines,
		"",
		label.Render("Next steps:"),
		"  source "+paths.EnvFile(),
		"  "+filepath.Join(summary.InstallPath, scripts.RunScript)+" /path/to/game.exe",
		"  "+filepath.Join(summary.InstallPath, scripts.ConfigureScript),
	)

	fmt.Fprintln(w, box.Render(strings.Join(lines, "\n")))
}
