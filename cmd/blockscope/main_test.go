package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/lcalzada-xor/blockscope/pkg/config"
)

func TestRun(t *testing.T) {
	dir := t.TempDir()
	js := filepath.Join(dir, "a.js")
	if err := os.WriteFile(js, []byte("{ let x = 1; }\nvar x = 2;\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg := filepath.Join(dir, "blockscope.yml")
	if err := os.WriteFile(cfg, []byte("format: json\nexterns: [x]\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name     string
		args     []string
		code     int
		contains string
	}{
		{name: "lowers a file", args: []string{"-s", js}, code: 0, contains: "var x$0 = 1;"},
		{name: "version", args: []string{"--version"}, code: 0, contains: config.Version},
		{name: "config sets format", args: []string{"-s", "--config", cfg, js}, code: 0, contains: `"input":`},
		{name: "flag beats config", args: []string{"-s", "--config", cfg, "-o", "js", js}, code: 0, contains: "var x$0"},
		{name: "bad format", args: []string{"-o", "xml", js}, code: 2},
		{name: "unknown flag", args: []string{"--nope"}, code: 2},
		{name: "missing input fails", args: []string{"-s", filepath.Join(dir, "missing.js")}, code: 1},
		{name: "help", args: []string{"-h"}, code: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			code := run(tt.args, strings.NewReader(""), &stdout, &stderr)
			if code != tt.code {
				t.Fatalf("expected exit %d, got %d (stderr: %s)", tt.code, code, stderr.String())
			}
			if !strings.Contains(stdout.String(), tt.contains) {
				t.Errorf("expected stdout to contain %q, got %q", tt.contains, stdout.String())
			}
		})
	}
}

func TestListFlags(t *testing.T) {
	var l listFlags
	l.Set("a.js")
	l.Set("b.js")
	if l.String() != "a.js,b.js" {
		t.Errorf("unexpected value %q", l.String())
	}
}
