//go:build linux

package materialize

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/pkg/errors"

	"github.com/tensorworks/wine-gaming-setup/internal/profile"
)

// The header line that regedit requires at the top of an import file
const registryHeader = "Windows Registry Editor Version 5.00"

// Escapes a value name or string value for use inside double quotes in a registry import file
func escapeRegistryString(s string) string {
	return strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(s)
}

// Formats the data portion of a registry value
func formatRegistryData(entry profile.RegistryEntry) (string, error) {
	switch entry.Kind {
	case profile.StringValue:
		return `"` + escapeRegistryString(entry.String) + `"`, nil
	case profile.DWordValue:
		return fmt.Sprintf("dword:%08x", entry.DWord), nil
	default:
		return "", errors.Errorf("unsupported registry value type %d for %s\\%s", entry.Kind, entry.Key, entry.Name)
	}
}

// Writes registry entries in regedit import format. Consecutive entries with the same key share a section.
func WriteRegistryFile(w io.Writer, entries []profile.RegistryEntry) error {
	out := bufio.NewWriter(w)
	fmt.Fprintln(out, registryHeader)

	currentKey := ""
	for _, entry := range entries {

		// Key paths are written verbatim inside the section brackets
		if entry.Key == "" || strings.ContainsAny(entry.Key, "[]\r\n") {
			return errors.Errorf("invalid registry key path %q", entry.Key)
		}

		// Start a new section whenever the key changes
		if entry.Key != currentKey {
			fmt.Fprintf(out, "\n[%s]\n", entry.Key)
			currentKey = entry.Key
		}

		data, err := formatRegistryData(entry)
		if err != nil {
			return err
		}

		fmt.Fprintf(out, "\"%s\"=%s\n", escapeRegistryString(entry.Name), data)
	}

	return out.Flush()
}
