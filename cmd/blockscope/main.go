package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/lcalzada-xor/blockscope/pkg/config"
	"github.com/lcalzada-xor/blockscope/pkg/runner"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// listFlags allows repeating a flag
type listFlags []string

func (l *listFlags) String() string {
	return strings.Join(*l, ",")
}

func (l *listFlags) Set(value string) error {
	*l = append(*l, value)
	return nil
}

// longNames maps short flags to the long name used for config layering.
var longNames = map[string]string{
	"o": "output",
	"d": "out-dir",
	"c": "concurrency",
	"t": "timeout",
	"x": "proxy",
	"e": "externs",
	"n": "extern-name",
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	opts := runner.DefaultOptions()
	fs := flag.NewFlagSet("blockscope", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var (
		externFiles listFlags
		externNames listFlags
		veryVerbose bool
		version     bool
	)

	// Define flags with both short and long names
	fs.StringVar(&opts.OutputFormat, "o", config.DefaultFormat, "Output format: js, json, human")
	fs.StringVar(&opts.OutputFormat, "output", config.DefaultFormat, "Output format: js, json, human")

	fs.StringVar(&opts.OutputDir, "d", "", "Write lowered files to this directory")
	fs.StringVar(&opts.OutputDir, "out-dir", "", "Write lowered files to this directory")

	fs.IntVar(&opts.Concurrency, "c", config.DefaultConcurrency, "Number of concurrent workers")
	fs.IntVar(&opts.Concurrency, "concurrency", config.DefaultConcurrency, "Number of concurrent workers")

	fs.DurationVar(&opts.Timeout, "t", config.DefaultTimeout, "Remote fetch timeout")
	fs.DurationVar(&opts.Timeout, "timeout", config.DefaultTimeout, "Remote fetch timeout")

	fs.StringVar(&opts.Proxy, "x", "", "Proxy URL for remote fetches")
	fs.StringVar(&opts.Proxy, "proxy", "", "Proxy URL for remote fetches")

	fs.Float64Var(&opts.RateLimit, "rate-limit", 0, "Remote fetches per second (0 = unlimited)")

	fs.Var(&externFiles, "e", "Externs file (repeatable)")
	fs.Var(&externFiles, "externs", "Externs file (repeatable)")

	fs.Var(&externNames, "n", "Extern name (repeatable)")
	fs.Var(&externNames, "extern-name", "Extern name (repeatable)")

	fs.BoolVar(&opts.TranspileOnly, "transpile-only", true, "Treat undeclared names as taken")
	fs.BoolVar(&opts.Verify, "verify", false, "Run input and output and compare console output")
	fs.StringVar(&opts.ConfigFile, "config", "", "YAML project file")

	fs.BoolVar(&opts.Verbose, "v", false, "Verbose output")
	fs.BoolVar(&opts.Verbose, "verbose", false, "Verbose output")
	fs.BoolVar(&veryVerbose, "vv", false, "Very verbose output")

	fs.BoolVar(&opts.Silent, "s", false, "Silent mode (suppress logs and errors)")
	fs.BoolVar(&opts.Silent, "silent", false, "Silent mode (suppress logs and errors)")

	fs.BoolVar(&version, "version", false, "Print version and exit")

	fs.Usage = func() {
		fmt.Fprintf(stderr, "\n  \x1b[38;5;129mblockscope\x1b[0m \x1b[38;5;141m%s\x1b[0m | \x1b[38;5;141m%s\x1b[0m\n", config.Version, config.Author)
		h := `
USAGE:
  blockscope [flags] <file|dir|url|->...

LOWERING:
  -e,  --externs file        Externs file whose globals are never shadowed (repeatable)
  -n,  --extern-name name    Extern name (repeatable)
       --transpile-only      Treat undeclared names as taken (default true)
       --verify              Run input and output in goja and compare console output
       --config file         YAML project file (flags override it)

FETCHING:
  -c,  --concurrency int     Number of concurrent workers (default 8)
  -t,  --timeout duration    Remote fetch timeout (default 10s)
  -x,  --proxy string        Proxy URL (e.g. http://127.0.0.1:8080)
       --rate-limit float    Remote fetches per second (0 = unlimited)

OUTPUT:
  -o,  --output string       Output format: js, json, human (default "js")
  -d,  --out-dir dir         Write lowered files here instead of stdout
  -v,  --verbose             Verbose output
  -vv                        Very verbose output (every rename and rewrite)
  -s,  --silent              Silent mode (suppress logs and errors)

EXAMPLES:
  blockscope app.js > app.es5.js
  blockscope -d build -e externs.js src/
  cat urls.txt | blockscope -o human --verify
`
		fmt.Fprint(stderr, h)
	}

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	if version {
		fmt.Fprintln(stdout, config.Version)
		return 0
	}

	opts.Inputs = fs.Args()
	opts.ExternFiles = externFiles
	opts.ExternNames = externNames
	opts.VeryVerbose = veryVerbose

	if opts.ConfigFile != "" {
		file, err := config.LoadFile(opts.ConfigFile)
		if err != nil {
			fmt.Fprintf(stderr, "[!] %v\n", err)
			return 2
		}
		explicit := make(map[string]bool)
		fs.Visit(func(f *flag.Flag) {
			name := f.Name
			if long, ok := longNames[name]; ok {
				name = long
			}
			explicit[name] = true
		})
		opts.Merge(file, explicit)
	}

	if !slices.Contains(config.Formats, opts.OutputFormat) {
		fmt.Fprintf(stderr, "[!] unknown output format %q\n", opts.OutputFormat)
		return 2
	}
	if opts.Concurrency < 1 {
		fmt.Fprintf(stderr, "[!] concurrency must be positive\n")
		return 2
	}

	r := runner.NewRunner(opts)
	r.Stdin = stdin
	r.Stdout = stdout
	r.Stderr = stderr

	start := time.Now()
	sum, err := r.Run(context.Background())
	if err != nil {
		if !opts.Silent {
			fmt.Fprintf(stderr, "[!] %v\n", err)
		}
		return 1
	}
	if opts.VerboseLevel() > 0 && !opts.Silent {
		fmt.Fprintf(stderr, "[*] Processed %d inputs in %v\n", sum.Inputs, time.Since(start).Round(time.Millisecond))
	}
	if sum.Failed > 0 {
		return 1
	}
	return 0
}
