package config

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "blockscope.yml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadFile(t *testing.T) {
	path := writeFile(t, `
externs: [jQuery, $]
extern_files: [externs/browser.js]
transpile_only: false
concurrency: 4
output_dir: build
format: human
verify: true
`)
	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	dir := filepath.Dir(path)

	if !slices.Equal(cfg.Externs, []string{"jQuery", "$"}) {
		t.Errorf("unexpected externs %v", cfg.Externs)
	}
	if !slices.Equal(cfg.ExternFiles, []string{filepath.Join(dir, "externs/browser.js")}) {
		t.Errorf("extern files not resolved: %v", cfg.ExternFiles)
	}
	if cfg.OutputDir != filepath.Join(dir, "build") {
		t.Errorf("output dir not resolved: %s", cfg.OutputDir)
	}
	if cfg.TranspileOnly == nil || *cfg.TranspileOnly {
		t.Error("expected transpile_only to be set to false")
	}
	if cfg.Concurrency == nil || *cfg.Concurrency != 4 {
		t.Error("expected concurrency 4")
	}
	if cfg.Verify == nil || !*cfg.Verify {
		t.Error("expected verify")
	}
	if cfg.Format != "human" {
		t.Errorf("expected format human, got %q", cfg.Format)
	}
}

func TestLoadFile_Unset(t *testing.T) {
	cfg, err := LoadFile(writeFile(t, ""))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.TranspileOnly != nil || cfg.Concurrency != nil || cfg.Verify != nil {
		t.Error("unset keys should stay nil")
	}
}

func TestLoadFile_Errors(t *testing.T) {
	tests := []struct {
		name       string
		content    string
		validation bool
		contains   string
	}{
		{name: "unknown key", content: "extern: [a]\n", contains: "extern"},
		{name: "bad yaml", content: "externs: [a\n"},
		{name: "bad concurrency", content: "concurrency: 0\n", validation: true, contains: "concurrency"},
		{name: "bad format", content: "format: xml\n", validation: true, contains: "xml"},
		{name: "empty extern", content: "externs: ['']\n", validation: true, contains: "empty"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFile(writeFile(t, tt.content))
			if err == nil {
				t.Fatal("expected an error")
			}
			var ve *ValidationError
			if got := errors.As(err, &ve); got != tt.validation {
				t.Errorf("expected validation error %v, got %v (%v)", tt.validation, got, err)
			}
			if !strings.Contains(err.Error(), tt.contains) {
				t.Errorf("expected %q in %v", tt.contains, err)
			}
		})
	}
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.yml"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected not-exist error, got %v", err)
	}
}
