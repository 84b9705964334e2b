package runner

import (
	"time"

	"github.com/lcalzada-xor/blockscope/pkg/config"
)

// Options holds all configuration options for the runner
type Options struct {
	// Inputs are files, directories, URLs or "-" for stdin. When empty,
	// inputs are read from stdin one per line.
	Inputs []string

	// Lowering
	TranspileOnly bool
	ExternFiles   []string
	ExternNames   []string
	Verify        bool

	// Fetching
	Concurrency int
	Timeout     time.Duration
	Proxy       string
	RateLimit   float64

	// Output
	OutputDir    string
	OutputFormat string
	ConfigFile   string
	Verbose      bool
	VeryVerbose  bool
	Silent       bool
}

// DefaultOptions returns a new Options struct with default values
func DefaultOptions() *Options {
	return &Options{
		TranspileOnly: true,
		Concurrency:   config.DefaultConcurrency,
		Timeout:       config.DefaultTimeout,
		OutputFormat:  config.DefaultFormat,
	}
}

// VerboseLevel maps the verbosity flags to a logger level.
func (o *Options) VerboseLevel() int {
	switch {
	case o.VeryVerbose:
		return 2
	case o.Verbose:
		return 1
	}
	return 0
}

// Merge layers a project file under the options. Keys in explicit (long
// flag names) were set on the command line and win over the file; list
// values from both sources are combined.
func (o *Options) Merge(f *config.File, explicit map[string]bool) {
	o.ExternNames = append(o.ExternNames, f.Externs...)
	o.ExternFiles = append(o.ExternFiles, f.ExternFiles...)

	if f.TranspileOnly != nil && !explicit["transpile-only"] {
		o.TranspileOnly = *f.TranspileOnly
	}
	if f.Concurrency != nil && !explicit["concurrency"] {
		o.Concurrency = *f.Concurrency
	}
	if f.Verify != nil && !explicit["verify"] {
		o.Verify = *f.Verify
	}
	if f.OutputDir != "" && !explicit["out-dir"] {
		o.OutputDir = f.OutputDir
	}
	if f.Format != "" && !explicit["output"] {
		o.OutputFormat = f.Format
	}
}
