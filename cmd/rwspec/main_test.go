// Package main provides tests for the rwspec CLI.
package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/leapstack-labs/rwspec/internal/cli"
)

func writeProject(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		p := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := cli.NewRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestVersionCommand(t *testing.T) {
	output, err := run(t, "version")
	if err != nil {
		t.Fatalf("version command error = %v", err)
	}
	if !strings.Contains(output, "rwspec") {
		t.Errorf("version output should contain 'rwspec', got: %s", output)
	}
}

func TestHelpCommand(t *testing.T) {
	output, err := run(t, "--help")
	if err != nil {
		t.Fatalf("help command error = %v", err)
	}
	for _, cmd := range []string{"check", "fmt", "lint", "export", "index", "serve"} {
		if !strings.Contains(output, cmd) {
			t.Errorf("help output should mention %q", cmd)
		}
	}
}

func TestInitThenCheck(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	if _, err := run(t, "init", "--example"); err != nil {
		t.Fatalf("init error = %v", err)
	}
	output, err := run(t, "check", "-o", "markdown")
	if err != nil {
		t.Fatalf("check error = %v\n%s", err, output)
	}
	if !strings.Contains(output, "are valid") {
		t.Errorf("check output should report valid statements, got: %s", output)
	}
}

func TestCheckReportsConflict(t *testing.T) {
	dir := writeProject(t, map[string]string{
		"rwspec.yaml":         "definitions_dir: definitions\n",
		"definitions/bad.rws": "rw bad (f ?x x) => ?x\n",
	})
	t.Chdir(dir)

	output, err := run(t, "check", "-o", "markdown")
	if err == nil {
		t.Fatal("check should fail on a hole/id conflict")
	}
	if !strings.Contains(output, `Identifier "x" is used both as a hole and as a normal id`) {
		t.Errorf("check output should name the conflict, got: %s", output)
	}
}
