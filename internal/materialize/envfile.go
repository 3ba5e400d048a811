//go:build linux

package materialize

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/pkg/errors"

	"github.com/tensorworks/wine-gaming-setup/internal/profile"
)

var (
	envNamePattern   = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
	shellSafePattern = regexp.MustCompile(`^[A-Za-z0-9_./:,=+@%-]+$`)
)

// Escapes the characters that remain special inside double quotes
var doubleQuoteEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`, "$", `\$`, "`", "\\`")

// Quotes a string for POSIX shells. Strings made up only of safe characters are returned unchanged.
// Values containing a single quote are double-quoted so that dotenv readers parse them the same way a shell does.
func ShellQuote(s string) string {
	if shellSafePattern.MatchString(s) {
		return s
	}
	if strings.Contains(s, "'") {
		return `"` + doubleQuoteEscaper.Replace(s) + `"`
	}

	return "'" + s + "'"
}

// Writes environment variables as a shell-sourceable file of export statements
func WriteEnvFile(w io.Writer, vars []profile.EnvVar) error {
	out := bufio.NewWriter(w)
	fmt.Fprintln(out, "#!/bin/sh")
	fmt.Fprintln(out, "# Generated by wine-gaming-setup. Source this file before running the runtime.")

	for _, v := range vars {
		if !envNamePattern.MatchString(v.Name) {
			return errors.Errorf("invalid environment variable name %q", v.Name)
		}

		fmt.Fprintf(out, "export %s=%s\n", v.Name, ShellQuote(v.Value))
	}

	return out.Flush()
}

// Writes translation-layer options as "key = value" lines
func WriteDXVKConf(w io.Writer, options []profile.ConfigOption) error {
	out := bufio.NewWriter(w)
	for _, option := range options {
		if strings.ContainsAny(option.Key, "=\r\n") || strings.ContainsAny(option.Value, "\r\n") {
			return errors.Errorf("invalid translation-layer option %q", option.Key)
		}

		fmt.Fprintf(out, "%s = %s\n", option.Key, option.Value)
	}

	return out.Flush()
}
