//go:build linux

package scripts

import (
	"bytes"
	"os"
	"path/filepath"
	"text/template"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/tensorworks/wine-gaming-setup/internal/profile"
	"github.com/tensorworks/wine-gaming-setup/internal/wine"
)

// The helper script filenames
const (
	ConfigureScript   = "configure.sh"
	InstallMoreScript = "install_more.sh"
	CleanupScript     = "cleanup.sh"
	RunScript         = "wine_run.sh"
)

// The helper scripts in the order they are generated
var scriptTemplates = []struct {
	name string
	tmpl *template.Template
}{
	{ConfigureScript, template.Must(template.New(ConfigureScript).Parse(configureTemplate))},
	{InstallMoreScript, template.Must(template.New(InstallMoreScript).Parse(installMoreTemplate))},
	{CleanupScript, template.Must(template.New(CleanupScript).Parse(cleanupTemplate))},
	{RunScript, template.Must(template.New(RunScript).Parse(runTemplate))},
}

// The values substituted into the script templates
type templateData struct {
	EnvFile     string
	Wine        string
	Wineserver  string
	Winetricks  string
	RegistryKey string
}

// Returns the paths of the helper scripts under the install path
func Paths(paths profile.Paths) []string {
	scripts := []string{}
	for _, script := range scriptTemplates {
		scripts = append(scripts, filepath.Join(paths.InstallPath, script.name))
	}

	return scripts
}

// Writes the helper scripts into the install path
type Generator struct {
	logger *zap.SugaredLogger
}

func NewGenerator(logger *zap.SugaredLogger) *Generator {
	return &Generator{logger: logger}
}

// Renders each helper script and writes it as an executable file. The runtime determines how the
// scripts invoke wine and wineserver, and the helper runtime determines how they invoke winetricks.
func (g *Generator) Generate(paths profile.Paths, runtime wine.Runtime, helper wine.Runtime) ([]string, error) {
	data := templateData{
		EnvFile:     profile.EnvFileName,
		Wine:        runtime.ShellCommand("wine"),
		Wineserver:  runtime.ShellCommand("wineserver"),
		Winetricks:  helper.ShellCommand("winetricks"),
		RegistryKey: profile.WineSettingsKey,
	}

	written := []string{}
	for _, script := range scriptTemplates {

		// Render the script
		rendered := &bytes.Buffer{}
		if err := script.tmpl.Execute(rendered, data); err != nil {
			return written, errors.Wrapf(err, "failed to render %s", script.name)
		}

		// Write it as an executable file
		path := filepath.Join(paths.InstallPath, script.name)
		if err := os.WriteFile(path, rendered.Bytes(), 0755); err != nil {
			return written, errors.Wrapf(err, "failed to write %s", path)
		}
		if err := os.Chmod(path, 0755); err != nil {
			return written, errors.Wrapf(err, "failed to make %s executable", path)
		}

		written = append(written, path)
		g.logger.Debugw("Wrote helper script", "path", path)
	}

	g.logger.Infow("✅ Generated helper scripts", "count", len(written))
	return written, nil
}
