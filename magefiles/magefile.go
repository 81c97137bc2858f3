//go:build mage

// Package main provides build targets for shape-qvs20 using Mage.
//
// Usage:
//
//	mage build   Compile the qvs20 binary to bin/
//	mage test    Run all tests with the race detector
//	mage fuzz    Run every fuzz target for a short time
//	mage lint    Run golangci-lint
//	mage clean   Remove build artifacts
//	mage install Install qvs20 to GOPATH/bin
package main

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	binGo      = "go"
	binLint    = "golangci-lint"
	binaryName = "qvs20"
	binaryDir  = "bin"
	cmdDir     = "./cmd/qvs20"
	fuzzTime   = "30s"
)

// fuzzTargets lists the fuzz functions by package.
var fuzzTargets = map[string][]string{
	"./internal/tokenizer": {"FuzzTokenizer"},
	"./internal/escape":    {"FuzzEscapeRoundTrip", "FuzzUnescape"},
	"./internal/parser":    {"FuzzParser"},
	"./internal/csvsource": {"FuzzReader"},
	"./pkg/qvs20":          {"FuzzParse"},
}

// ldflags stamps the version from git describe, "dev" when unavailable.
func ldflags() string {
	out, err := sh.Output("git", "describe", "--tags", "--always", "--dirty")
	version := strings.TrimSpace(out)
	if err != nil || version == "" {
		version = "dev"
	}
	return "-X main.version=" + version
}

// Build compiles the qvs20 binary to bin/.
func Build() error {
	if err := os.MkdirAll(binaryDir, 0o755); err != nil {
		return err
	}
	return sh.RunV(binGo, "build", "-v", "-ldflags", ldflags(), "-o", filepath.Join(binaryDir, binaryName), cmdDir)
}

// Install installs qvs20 to GOPATH/bin.
func Install() error {
	return sh.RunV(binGo, "install", "-ldflags", ldflags(), cmdDir)
}

// Test runs all tests with the race detector.
func Test() error {
	return sh.RunV(binGo, "test", "-race", "./...")
}

// Fuzz runs each fuzz target for a short time.
func Fuzz() error {
	mg.Deps(Test)
	for pkg, targets := range fuzzTargets {
		for _, target := range targets {
			if err := sh.RunV(binGo, "test", "-run", "^$", "-fuzz", "^"+target+"$", "-fuzztime", fuzzTime, pkg); err != nil {
				return err
			}
		}
	}
	return nil
}

// Lint runs golangci-lint.
func Lint() error {
	return sh.RunV(binLint, "run", "./...")
}

// Clean removes build artifacts.
func Clean() error {
	if err := os.RemoveAll(binaryDir); err != nil {
		return err
	}
	return sh.RunV(binGo, "clean")
}
