//go:build mage

package main

import (
	"fmt"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// Index builds the CLI and adds an export archive to the local intent index.
// Usage: mage index path/to/export.zip
func Index(archive string) error {
	mg.Deps(Build)
	fmt.Printf("[kb] indexing %s\n", archive)
	return sh.RunV(binPath(), "kb", "store", archive)
}
