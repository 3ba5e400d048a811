//go:build linux

package setup

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"
	"go.uber.org/zap/zapcore"

	"github.com/tensorworks/wine-gaming-setup/internal/dependency"
	"github.com/tensorworks/wine-gaming-setup/internal/discovery"
	"github.com/tensorworks/wine-gaming-setup/internal/installer"
	"github.com/tensorworks/wine-gaming-setup/internal/runner"
)

// The version number for the tool
const Version = "0.1.0"

// Process exit codes
const (
	ExitOK    = 0
	ExitFatal = 1
	ExitUsage = 2
)

// Runs the tool with the supplied command-line arguments (excluding the program name) and returns the exit code
func CommonMain(args []string) int {
	return run(args, runner.NewExecRunner(os.Stdout, os.Stderr), os.Stdout, os.Stderr)
}

func run(args []string, r runner.Runner, stdout io.Writer, stderr io.Writer) int {

	// Parse our command-line arguments
	flags := pflag.NewFlagSet(appName, pflag.ContinueOnError)
	flags.SetOutput(stderr)
	showHelp := flags.BoolP("help", "h", false, "print this help and exit")
	showVersion := flags.Bool("version", false, "print the version and exit")
	flags.Usage = func() {
		fmt.Fprintf(stderr, "Usage: %s [install-path]\n\n", appName)
		fmt.Fprintf(stderr, "Creates a Wine prefix tuned for gaming on this machine's GPU.\n")
		fmt.Fprintf(stderr, "The install path defaults to ~/.wine_gaming. Further options are read from %s.yaml\n", appName)
		fmt.Fprintf(stderr, "and from %s* environment variables.\n\n", envPrefix)
		flags.PrintDefaults()
	}
	if err := flags.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return ExitOK
		}
		return ExitUsage
	}
	if *showHelp {
		flags.Usage()
		return ExitOK
	}
	if *showVersion {
		fmt.Fprintln(stdout, appName, Version)
		return ExitOK
	}
	if flags.NArg() > 1 {
		fmt.Fprintln(stderr, "Error: expected at most one install path argument")
		flags.Usage()
		return ExitUsage
	}

	// Create the logger
	logger, level := NewLogger(stderr)
	sugar := logger.Sugar()
	defer sugar.Sync()
	sugar.Infof("Wine gaming environment setup, version %s", Version)

	// Load the configuration data
	config, err := LoadConfig(flags.Arg(0), sugar)
	if err != nil {
		sugar.Errorf("Error: failed to load the configuration: %v", err)
		return ExitFatal
	}
	if config.Verbose {
		level.SetLevel(zapcore.DebugLevel)
	}

	// Wire up a signal handler so an interrupt cancels any running external command
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Verify the mandatory dependencies before touching the install path
	deps, err := dependency.NewChecker(r, sugar).Check(ctx)
	if err != nil {
		sugar.Errorf("Error: %v", err)
		return ExitFatal
	}

	// Probe the host
	host := discovery.NewHostProbe(r, sugar).Probe(ctx)
	sugar.Infow("Host profile", "host", host.String())

	// Perform the installation
	summary, err := installer.NewOrchestrator(r, sugar, config.InstallerOptions()).Install(ctx, host, deps)
	if err != nil {
		sugar.Errorf("Error: %v", err)
		if errors.Is(err, installer.ErrRuntimeInit) {
			sugar.Error("Check that the runtime works by running `wine --version`, then retry")
		}
		return ExitFatal
	}

	printSummary(stdout, summary)
	return ExitOK
}
