//go:build mage

package main

import (
	"fmt"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// Report builds the CLI and prints the intent report of an export archive.
// Usage: mage report path/to/export.zip
func Report(archive string) error {
	mg.Deps(Build)
	fmt.Printf("[report] %s\n", archive)
	return sh.RunV(binPath(), archive)
}
