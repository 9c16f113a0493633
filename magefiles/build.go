//go:build mage

// Package main provides build targets for the deeds project using Mage.
//
// Usage:
//
//	mage build         Compile the deeds binary to bin/
//	mage test:all      Run all tests
//	mage test:unit     Run tests in short mode
//	mage test:race     Run all tests with the race detector
//	mage test:cover    Write a coverage profile to bin/coverage.out
//	mage lint          Run go vet and golangci-lint
//	mage clean         Remove build artifacts
//	mage install       Install deeds to GOPATH/bin
//	mage stats         Print Go LOC and documentation word counts
package main

import (
	"os"
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	binGo      = "go"
	binaryName = "deeds"
	binaryDir  = "bin"
	cmdDir     = "./cmd/deeds"
	modulePath = "github.com/mesh-intelligence/deeds"
)

// Default target when mage runs without arguments.
var Default = Build

// Build compiles the deeds binary to bin/, stamping the git revision.
func Build() error {
	if err := os.MkdirAll(binaryDir, 0o755); err != nil {
		return err
	}
	ldflags := ""
	if rev, err := sh.Output("git", "rev-parse", "--short", "HEAD"); err == nil && rev != "" {
		ldflags = "-X " + modulePath + "/pkg/deeds.Revision=" + rev
	}
	return sh.RunV(binGo, "build", "-v", "-ldflags", ldflags, "-o", filepath.Join(binaryDir, binaryName), cmdDir)
}

// Clean removes build artifacts.
func Clean() error {
	if err := os.RemoveAll(binaryDir); err != nil {
		return err
	}
	return sh.RunV(binGo, "clean")
}

// Install builds and copies the binary to GOPATH/bin.
func Install() error {
	mg.Deps(Build)
	gopath, err := sh.Output(binGo, "env", "GOPATH")
	if err != nil {
		return err
	}
	src := filepath.Join(binaryDir, binaryName)
	dst := filepath.Join(gopath, "bin", binaryName)
	return sh.Copy(dst, src)
}

// Lint runs go vet, then golangci-lint.
func Lint() error {
	if err := sh.RunV(binGo, "vet", "./..."); err != nil {
		return err
	}
	return sh.RunV("golangci-lint", "run", "./...")
}
