//go:build linux

package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/spf13/pflag"
	"go.uber.org/zap/zapcore"

	"github.com/tensorworks/wine-gaming-setup/internal/dependency"
	"github.com/tensorworks/wine-gaming-setup/internal/runner"
	"github.com/tensorworks/wine-gaming-setup/internal/setup"
	"github.com/tensorworks/wine-gaming-setup/internal/wine"
)

func main() {

	// Parse our command-line arguments
	verbose := pflag.Bool("verbose", false, "enable verbose logging")
	minimum := pflag.String("minimum-version", "7.0", "the minimum supported runtime version")
	pflag.Parse()

	// Create the logger, enabling debug output if it has been requested
	logger, level := setup.NewLogger(os.Stderr)
	if *verbose {
		level.SetLevel(zapcore.DebugLevel)
	}
	sugar := logger.Sugar()
	defer sugar.Sync()

	// Check which tools are present, without treating missing ones as fatal
	r := runner.NewExecRunner(os.Stderr, os.Stderr)
	report, err := dependency.NewChecker(r, sugar).Check(context.Background())
	if err != nil {
		sugar.Warnf("%v", err)
	}

	fmt.Println("Runtime:        ", formName(report.Runtime))
	fmt.Println("Package helper: ", formName(report.PackageHelper))
	fmt.Println()
	fmt.Println("Tools:")
	for _, tool := range append([]string{"wine", "winetricks"}, toolNames()...) {
		fmt.Printf("- %-11s %t\n", tool, report.Tools[tool])
	}

	if report.Runtime == dependency.FormMissing {
		log.Fatalln("Error: the compatibility runtime is not installed")
	}

	// Query the runtime version
	rt := wine.NewRuntime(report.Runtime, os.Getenv("WINEPREFIX"))
	reported, err := rt.Version(context.Background(), r)
	if err != nil {
		log.Fatalf("Failed to retrieve the runtime version: %s", err.Error())
	}

	meets, err := wine.MeetsMinimum(reported, *minimum)
	if err != nil {
		log.Fatalf("Failed to compare the runtime version: %s", err.Error())
	}

	fmt.Println()
	fmt.Println("Runtime version:", reported)
	fmt.Printf("Meets minimum %s: %t\n", *minimum, meets)
}

func formName(form dependency.Form) string {
	if form == dependency.FormMissing {
		return "missing"
	}
	return string(form)
}

func toolNames() []string {
	names := []string{}
	for _, tool := range dependency.MandatoryTools {
		names = append(names, tool.Name)
	}
	return append(names, dependency.CompanionTool.Name)
}
