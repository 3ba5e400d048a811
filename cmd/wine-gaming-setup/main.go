//go:build linux

package main

import (
	"os"

	"github.com/tensorworks/wine-gaming-setup/internal/setup"
)

func main() {
	os.Exit(setup.CommonMain(os.Args[1:]))
}
