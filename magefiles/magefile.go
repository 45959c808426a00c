// Package main contains Mage build targets for linkvet developer tooling.
package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/magefile/mage/mg"
)

const (
	binDir  = "bin"
	binName = "linkvet"
	cmdPkg  = "./cmd/linkvet"
)

// Build compiles the CLI binary into bin/ with version metadata baked
// in via ldflags.
func Build() error {
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", binDir, err)
	}
	out := filepath.Join(binDir, binName)
	ldflags := fmt.Sprintf("-X main.version=%s -X main.commit=%s -X main.date=%s",
		gitDescribe(), gitCommit(), time.Now().UTC().Format(time.RFC3339))
	cmd := exec.Command("go", "build", "-ldflags", ldflags, "-o", out, cmdPkg)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("go build: %w", err)
	}
	fmt.Printf("Built %s\n", out)
	return nil
}

// Test runs the full test suite.
func Test() error {
	return run("go", "test", "./...")
}

// Vet runs go vet across the module.
func Vet() error {
	return run("go", "vet", "./...")
}

// Lint runs staticcheck when it is installed, and says so when it is
// not instead of failing the build.
func Lint() error {
	if _, err := exec.LookPath("staticcheck"); err != nil {
		fmt.Println("staticcheck not installed, skipping lint")
		return nil
	}
	return run("staticcheck", "./...")
}

// Tidy syncs go.mod and go.sum with the source.
func Tidy() error {
	return run("go", "mod", "tidy")
}

// Check builds the binary and runs a link check over a corpus
// directory (CORPUS env var, default ".").
func Check() error {
	mg.Deps(Build)
	corpus := os.Getenv("CORPUS")
	if corpus == "" {
		corpus = "."
	}
	return run(filepath.Join(binDir, binName), "check", corpus)
}

// CacheStats builds the binary and prints verdict cache statistics.
func CacheStats() error {
	mg.Deps(Build)
	return run(filepath.Join(binDir, binName), "cache", "stats")
}

// CacheClear builds the binary and drops every cached verdict.
func CacheClear() error {
	mg.Deps(Build)
	return run(filepath.Join(binDir, binName), "cache", "clear")
}

func run(name string, args ...string) error {
	cmd := exec.Command(name, args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s %s: %w", name, strings.Join(args, " "), err)
	}
	return nil
}

func gitDescribe() string {
	out, err := exec.Command("git", "describe", "--tags", "--always", "--dirty").Output()
	if err != nil {
		return "dev"
	}
	return strings.TrimSpace(string(out))
}

func gitCommit() string {
	out, err := exec.Command("git", "rev-parse", "--short", "HEAD").Output()
	if err != nil {
		return "none"
	}
	return strings.TrimSpace(string(out))
}
