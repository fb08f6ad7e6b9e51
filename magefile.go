//go:build mage

package main

import (
	"fmt"

	"github.com/magefile/mage/sh"
)

// Default target - build the binary
var Default = Build

// Build builds the stackscope binary into bin/.
func Build() error {
	return sh.RunV("go", "build", "-o", "bin/stackscope", "./cmd/stackscope")
}

// Test runs the test suite.
func Test() error {
	return sh.RunV("go", "test", "./...")
}

// QA runs format, vet, and the test suite.
func QA() error {
	if err := sh.RunV("go", "fmt", "./..."); err != nil {
		return fmt.Errorf("format check failed: %w", err)
	}
	if err := sh.RunV("go", "vet", "./..."); err != nil {
		return fmt.Errorf("vet failed: %w", err)
	}
	return Test()
}

// Clean removes build artifacts.
func Clean() error {
	return sh.Rm("bin")
}
