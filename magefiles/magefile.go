//go:build mage

// Package main provides build targets for the shopping list project using Mage.
//
// Usage:
//
//	mage build    Compile the server and shoplist binaries to bin/
//	mage test     Run all tests
//	mage lint     Run golangci-lint
//	mage run      Build and start the API against a local SQLite file
//	mage clean    Remove build artifacts
package main

import (
	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
	"os"
	"path/filepath"
)

const (
	binGo     = "go"
	binLint   = "golangci-lint"
	binaryDir = "bin"
)

var binaries = map[string]string{
	"shopping-list-api": "./cmd/server",
	"shoplist":          "./cmd/shoplist",
}

// Build compiles every binary to bin/.
func Build() error {
	if err := os.MkdirAll(binaryDir, 0o755); err != nil {
		return err
	}
	for name, pkg := range binaries {
		if err := sh.RunV(binGo, "build", "-v", "-o", filepath.Join(binaryDir, name), pkg); err != nil {
			return err
		}
	}
	return nil
}

// Test runs all tests.
func Test() error {
	return sh.RunV(binGo, "test", "./...")
}

// Lint runs golangci-lint.
func Lint() error {
	return sh.RunV(binLint, "run", "./...")
}

// Run starts the API with a SQLite database in bin/ and every origin allowed.
func Run() error {
	mg.Deps(Build)
	env := map[string]string{
		"DATABASE_CONNECTION_STRING": "sqlite://" + filepath.Join(binaryDir, "shopping.db"),
		"CORS_ALLOW_ALL":             "true",
	}
	return sh.RunWithV(env, filepath.Join(binaryDir, "shopping-list-api"))
}

// Clean removes build artifacts.
func Clean() error {
	if err := os.RemoveAll(binaryDir); err != nil {
		return err
	}
	return sh.RunV(binGo, "clean")
}
