//go:build stave

package main

import (
	"cmp"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/yaklabco/stave/pkg/sh"
	"github.com/yaklabco/stave/pkg/st"
	"github.com/yaklabco/stave/pkg/target"
)

const binary = "bin/gojshint"

// Default target runs build.
var Default = Build

// Aliases for common targets.
var Aliases = map[string]any{
	"b":     Build,
	"t":     Test.Default,
	"l":     Lint.Default,
	"c":     Check,
	"bench": Test.Bench,
	"smoke": Smoke,
}

type (
	Test st.Namespace
	Lint st.Namespace
	CI   st.Namespace
)

// Build compiles bin/gojshint with version info when sources or the
// bundled engine script changed.
func Build() error {
	rebuild, err := target.Dir(binary, "cmd/", "pkg/", "internal/", "go.mod")
	if err != nil {
		return err
	}
	if !rebuild {
		fmt.Println(binary + " is up to date")
		return nil
	}
	fmt.Println("Building gojshint...")
	return sh.RunV("go", "build", "-ldflags", ldflags(), "-o", binary, "./cmd/gojshint")
}

// Check runs format, lint and tests in order.
func Check() {
	st.SerialDeps(Lint.Fmt, Lint.Default, Test.Default)
}

// Install installs gojshint to $GOBIN or $GOPATH/bin.
func Install() error {
	return sh.RunV("go", "install", "-ldflags", ldflags(), "./cmd/gojshint")
}

// Clean removes build and coverage output.
func Clean() error {
	for _, path := range []string{"bin", "coverage.out", "coverage.html"} {
		if err := sh.Rm(path); err != nil {
			return err
		}
	}
	return nil
}

// Smoke checks the bundled engine script with the built binary. The script
// is plain ES5 and must lint clean under its own rules.
func Smoke() error {
	st.Deps(Build)
	fmt.Println("Linting the bundled engine script...")
	return sh.RunV(binary, "check", "--strict", "--pretty", "pkg/engine/assets/jshint.js")
}

// Dogfood runs a full build, then lists the markers, of a throwaway project
// seeded with one clean and one broken file.
func Dogfood() error {
	st.Deps(Build)

	dir, err := os.MkdirTemp("", "gojshint-dogfood-")
	if err != nil {
		return err
	}
	defer os.RemoveAll(dir)

	files := map[string]string{
		"app.js":        "var a = 23;\n",
		"lib/broken.js": "var a == 23;\n",
		"bin/out.js":    "var skipped == true;\n",
	}
	for rel, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
			return err
		}
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			return err
		}
	}

	db := filepath.Join(dir, ".markers")
	// Exit status 1 is expected: lib/broken.js has an error.
	if err := sh.RunV(binary, "build", "--escalate-errors", "--db", db, dir); err != nil && sh.ExitStatus(err) != 1 {
		return err
	}
	return sh.RunV(binary, "markers", "--format", "lines", "--db", db, dir)
}

// gotestsum runs the test suite through the gotestsum tool.
func gotestsum(format string, args ...string) error {
	cores := cmp.Or(os.Getenv("STAVE_NUM_PROCESSORS"), "4")
	base := []string{"tool", "gotestsum", "-f", format, "--", "-race", "-p", cores, "-parallel", cores}
	return sh.RunV("go", append(base, args...)...)
}

// Default runs all tests with race detection and coverage.
func (Test) Default() error {
	return gotestsum("pkgname-and-test-fails", "./...", "-coverprofile=coverage.out", "-covermode=atomic")
}

// Verbose runs all tests with standard-verbose output.
func (Test) Verbose() error {
	return gotestsum("standard-verbose", "-v", "./...")
}

// Engine runs the engine, translator and text index tests only.
func (Test) Engine() error {
	return gotestsum("testname", "./pkg/engine/...", "./pkg/lint/...", "./pkg/textindex/...")
}

// Bench benchmarks the lint engine and the build traversal.
func (Test) Bench() error {
	return sh.RunV("go", "test", "-run=^$", "-bench=.", "-benchmem",
		"./pkg/engine/", "./pkg/build/", "./pkg/textindex/")
}

// Coverage writes coverage.html from a full test run.
func (Test) Coverage() error {
	st.Deps(Test.Default)
	return sh.RunV("go", "tool", "cover", "-html=coverage.out", "-o", "coverage.html")
}

// Default runs golangci-lint with auto-fix.
func (Lint) Default() error {
	return sh.RunV("golangci-lint", "run", "--fix", "./...")
}

// Fmt formats all Go code.
func (Lint) Fmt() error {
	return sh.RunV("gofmt", "-w", ".")
}

// FmtCheck fails when any file needs formatting.
func (Lint) FmtCheck() error {
	out, err := sh.Output("gofmt", "-l", ".")
	if err != nil {
		return fmt.Errorf("gofmt check failed: %w", err)
	}
	if out != "" {
		return fmt.Errorf("unformatted files:\n%s\nRun 'stave lint:fmt' to fix", out)
	}
	return nil
}

// Gate runs every CI check.
func (CI) Gate() error {
	st.SerialDeps(Lint.FmtCheck, CI.Vet, CI.Lint, Build, Test.Default, Smoke, CI.ModTidy, CI.Cross)
	fmt.Println("All CI gate checks passed")
	return nil
}

// Vet runs go vet.
func (CI) Vet() error {
	return sh.RunV("go", "vet", "./...")
}

// Lint runs golangci-lint without auto-fix.
func (CI) Lint() error {
	return sh.RunV("golangci-lint", "run", "./...")
}

// ModTidy fails when go mod tidy changes go.mod.
func (CI) ModTidy() error {
	before, err := os.ReadFile("go.mod")
	if err != nil {
		return fmt.Errorf("read go.mod: %w", err)
	}
	if err := sh.RunV("go", "mod", "tidy"); err != nil {
		return err
	}
	after, err := os.ReadFile("go.mod")
	if err != nil {
		return fmt.Errorf("read go.mod after tidy: %w", err)
	}
	if string(before) != string(after) {
		return errors.New("go.mod changed after 'go mod tidy'")
	}
	return nil
}

// Cross builds the release platforms. goja and badger are pure Go, so
// CGO stays off everywhere.
func (CI) Cross() error {
	for _, platform := range []string{"linux/amd64", "linux/arm64", "darwin/arm64", "windows/amd64"} {
		goos, goarch, _ := strings.Cut(platform, "/")
		env := map[string]string{"GOOS": goos, "GOARCH": goarch, "CGO_ENABLED": "0"}
		if err := sh.RunWith(env, "go", "build", "-o", os.DevNull, "./cmd/gojshint"); err != nil {
			return fmt.Errorf("build %s: %w", platform, err)
		}
	}
	return nil
}

func gitOutput(args ...string) string {
	out, err := sh.Output("git", args...)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(out)
}

// ldflags injects version, commit and build date into cmd/gojshint.
func ldflags() string {
	return fmt.Sprintf("-X main.version=%s -X main.commit=%s -X main.date=%s",
		cmp.Or(gitOutput("describe", "--tags", "--always", "--dirty"), "dev"),
		cmp.Or(gitOutput("rev-parse", "--short", "HEAD"), "none"),
		time.Now().UTC().Format(time.RFC3339))
}
