package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

// File is a YAML project file. Pointer fields distinguish "unset" from the
// zero value so the CLI can layer flags on top.
type File struct {
	Path string `yaml:"-"`

	Externs       []string `yaml:"externs"`
	ExternFiles   []string `yaml:"extern_files"`
	TranspileOnly *bool    `yaml:"transpile_only"`
	Concurrency   *int     `yaml:"concurrency"`
	OutputDir     string   `yaml:"output_dir"`
	Format        string   `yaml:"format"`
	Verify        *bool    `yaml:"verify"`
}

// ValidationError aggregates project file problems.
type ValidationError struct {
	Path   string
	Issues []string
}

func (e *ValidationError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "config: %s is invalid:", e.Path)
	for _, issue := range e.Issues {
		b.WriteString("\n- ")
		b.WriteString(issue)
	}
	return b.String()
}

// LoadFile parses and validates a project file. Relative extern_files and
// output_dir entries are resolved against the file's directory.
func LoadFile(path string) (*File, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("config: resolve %s: %w", path, err)
	}
	f, err := os.Open(absPath)
	if err != nil {
		return nil, fmt.Errorf("config: open %s: %w", absPath, err)
	}
	defer f.Close()

	cfg, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", absPath, err)
	}
	cfg.Path = absPath

	dir := filepath.Dir(absPath)
	for i, ef := range cfg.ExternFiles {
		if !filepath.IsAbs(ef) {
			cfg.ExternFiles[i] = filepath.Join(dir, ef)
		}
	}
	if cfg.OutputDir != "" && !filepath.IsAbs(cfg.OutputDir) {
		cfg.OutputDir = filepath.Join(dir, cfg.OutputDir)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Decode reads a project file from r. Unknown keys are rejected.
func Decode(r io.Reader) (*File, error) {
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)

	var cfg File
	if err := decoder.Decode(&cfg); err != nil {
		if errors.Is(err, io.EOF) {
			return &cfg, nil
		}
		return nil, err
	}
	return &cfg, nil
}

func (f *File) validate() error {
	var issues []string
	if f.Concurrency != nil && *f.Concurrency < 1 {
		issues = append(issues, fmt.Sprintf("concurrency must be positive, got %d", *f.Concurrency))
	}
	if f.Format != "" && !slices.Contains(Formats, f.Format) {
		issues = append(issues, fmt.Sprintf("format %q is not one of %s", f.Format, strings.Join(Formats, ", ")))
	}
	for _, name := range f.Externs {
		if strings.TrimSpace(name) == "" {
			issues = append(issues, "externs contains an empty name")
			break
		}
	}
	if len(issues) > 0 {
		return &ValidationError{Path: f.Path, Issues: issues}
	}
	return nil
}
