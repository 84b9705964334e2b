package runner

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/lcalzada-xor/blockscope/pkg/blockscope"
	"github.com/lcalzada-xor/blockscope/pkg/config"
	"github.com/lcalzada-xor/blockscope/pkg/emulator"
	"github.com/lcalzada-xor/blockscope/pkg/htmlscript"
	"github.com/lcalzada-xor/blockscope/pkg/jsast"
	"github.com/lcalzada-xor/blockscope/pkg/logger"
	"github.com/lcalzada-xor/blockscope/pkg/models"
	"github.com/lcalzada-xor/blockscope/pkg/network"
	"github.com/lcalzada-xor/blockscope/pkg/output"
	"github.com/lcalzada-xor/blockscope/pkg/parser"
	"github.com/lcalzada-xor/blockscope/pkg/printer"
	"github.com/lcalzada-xor/blockscope/pkg/uniqueid"
)

// Runner lowers a set of inputs with a worker pool.
type Runner struct {
	options *Options

	// Stdin, Stdout and Stderr default to the process streams.
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	log     *logger.Logger
	client  *network.Client
	ids     *uniqueid.Supplier
	externs []string
	outMu   sync.Mutex
}

// NewRunner creates a new Runner instance
func NewRunner(options *Options) *Runner {
	return &Runner{
		options: options,
		Stdin:   os.Stdin,
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
		ids:     uniqueid.NewSupplier(),
	}
}

// Run lowers every input and returns the totals. The error is non-nil only
// when the run could not start; per-input failures are counted in the summary.
func (r *Runner) Run(ctx context.Context) (models.Summary, error) {
	start := time.Now()
	var sum models.Summary

	if r.options.Silent {
		r.log = logger.NewLoggerTo(io.Discard, 0)
	} else {
		r.log = logger.NewLoggerTo(r.Stderr, r.options.VerboseLevel())
	}

	// Create root context with cancellation for graceful shutdown
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)
	go func() {
		select {
		case <-sigChan:
			r.log.Error("Received interrupt, shutting down...")
			cancel()
		case <-ctx.Done():
		}
	}()

	if err := r.loadExterns(); err != nil {
		return sum, err
	}

	r.client = network.NewClient(r.options.Timeout, r.options.Proxy, r.options.Concurrency, r.options.RateLimit)

	if r.options.OutputFormat == "human" {
		r.banner()
	}
	r.log.V("Concurrency: %d workers", r.options.Concurrency)
	r.log.V("Transpile only: %v, externs: %d", r.options.TranspileOnly, len(r.externs))
	if r.options.OutputDir != "" {
		r.log.V("Writing to %s", r.options.OutputDir)
	}

	jobs := make(chan job)
	var wg sync.WaitGroup
	var statsMutex sync.Mutex

	// Worker pool
	for i := 0; i < max(r.options.Concurrency, 1); i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case j, ok := <-jobs:
					if !ok {
						return
					}

					res := r.process(ctx, j)
					if errors.Is(ctx.Err(), context.Canceled) && res.Error != "" {
						return
					}

					statsMutex.Lock()
					sum.Record(res)
					current := sum.Inputs
					statsMutex.Unlock()

					if res.Error != "" {
						r.log.Error("%s: %s", res.Input, res.Error)
					} else {
						r.log.V("[%d] Lowered %s (%d renamed, %d loop objects)", current, res.Input, res.Stats.Renamed, res.Stats.LoopObjects)
					}
					if res.Verified == models.VerifyMismatch {
						r.log.Error("%s: lowered code behaves differently", res.Input)
					}
					r.emit(res)
				}
			}
		}()
	}

	go func() {
		defer close(jobs)
		for input := range r.inputs(ctx) {
			for _, j := range expand(input) {
				select {
				case jobs <- j:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	// Workers return on ctx.Done() as well as on a closed channel.
	wg.Wait()

	sum.Elapsed = time.Since(start)
	if out := output.FormatSummary(sum, r.options.OutputFormat); out != "" {
		r.log.Info("%s", strings.TrimSpace(out))
	}
	r.log.V("Done: %d inputs, %d failed in %v", sum.Inputs, sum.Failed, sum.Elapsed.Round(time.Millisecond))
	return sum, ctx.Err()
}

// inputs yields the configured inputs, or the lines of stdin when there are none.
func (r *Runner) inputs(ctx context.Context) <-chan string {
	ch := make(chan string)
	go func() {
		defer close(ch)
		if len(r.options.Inputs) > 0 {
			for _, in := range r.options.Inputs {
				select {
				case ch <- in:
				case <-ctx.Done():
					return
				}
			}
			return
		}
		scanner := bufio.NewScanner(r.Stdin)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if line == "" {
				continue
			}
			select {
			case ch <- line:
			case <-ctx.Done():
				return
			}
		}
	}()
	return ch
}

func (r *Runner) loadExterns() error {
	names := slices.Clone(r.options.ExternNames)
	for _, path := range r.options.ExternFiles {
		src, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading externs: %w", err)
		}
		tree, err := parser.Parse(path, string(src))
		if err != nil {
			return fmt.Errorf("parsing externs: %w", err)
		}
		found := blockscope.CollectExternNames(tree)
		r.log.VV("Externs from %s: %s", path, strings.Join(found, ", "))
		names = append(names, found...)
	}
	slices.Sort(names)
	r.externs = slices.Compact(names)
	return nil
}

func (r *Runner) banner() {
	r.log.Info("blockscope %s | %s", config.Version, config.Author)
}

// emit prints one result; the mutex keeps records from interleaving.
func (r *Runner) emit(res models.Result) {
	out := output.Format(res, r.options.OutputFormat)
	if out == "" {
		return
	}
	r.outMu.Lock()
	defer r.outMu.Unlock()
	fmt.Fprintln(r.Stdout, out)
}

func (r *Runner) process(ctx context.Context, j job) models.Result {
	start := time.Now()
	res := models.Result{Input: j.name, Kind: j.kind}

	fail := func(err error) models.Result {
		res.Error = err.Error()
		res.Duration = time.Since(start)
		return res
	}
	if j.err != nil {
		return fail(j.err)
	}

	src, err := r.read(ctx, j)
	if err != nil {
		return fail(err)
	}

	// Counters restart per input so repeated runs produce the same names.
	r.ids.Reset(j.name)

	var code string
	if j.kind == models.InputHTML {
		code, err = r.lowerHTML(j.name, src, &res)
	} else {
		var stats models.Stats
		code, stats, err = r.lower(j.name, src, r.externs)
		res.Stats = stats
		if err == nil && r.options.Verify {
			res.Verified = verify(src, code)
		}
	}
	if err != nil {
		return fail(err)
	}

	if r.options.OutputDir != "" {
		dst := filepath.Join(r.options.OutputDir, j.rel)
		if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
			return fail(fmt.Errorf("creating output dir: %w", err))
		}
		if err := os.WriteFile(dst, []byte(code), 0o644); err != nil {
			return fail(fmt.Errorf("writing output: %w", err))
		}
		res.Output = dst
	} else {
		res.Code = code
	}
	res.Duration = time.Since(start)
	return res
}

func (r *Runner) read(ctx context.Context, j job) (string, error) {
	switch j.source {
	case fromURL:
		body, err := r.client.Fetch(ctx, j.name)
		return string(body), err
	case fromStdin:
		body, err := io.ReadAll(r.Stdin)
		if err != nil {
			return "", fmt.Errorf("reading stdin: %w", err)
		}
		return string(body), nil
	}
	body, err := os.ReadFile(j.name)
	return string(body), err
}

// lower runs the pass over one compilation unit with externs off limits for
// hoisted names. Code without let or const is returned as is.
func (r *Runner) lower(name, code string, externs []string) (string, models.Stats, error) {
	tree, err := parser.Parse(name, code)
	if err != nil {
		return "", models.Stats{}, err
	}
	if !tree.Features.Has(jsast.LetDeclarations) && !tree.Features.Has(jsast.ConstDeclarations) {
		return code, models.Stats{}, nil
	}

	stats, err := blockscope.Rewrite(tree, blockscope.Config{
		TranspileOnly: r.options.TranspileOnly,
		Externs:       externs,
		IDs:           r.ids,
		Logger:        r.log,
	})
	if err != nil {
		return "", stats, err
	}
	return printer.Print(tree), stats, nil
}

// lowerHTML lowers each inline script of a document on its own. The scripts
// share one global scope, so they share the document's rename counters, and
// a script may not hoist a name that another script declares globally or
// that an earlier script hoisted.
func (r *Runner) lowerHTML(name, doc string, res *models.Result) (string, error) {
	scripts, err := htmlscript.Scripts(strings.NewReader(doc))
	if err != nil {
		return "", err
	}
	externs := slices.Clone(r.externs)
	for _, script := range scripts {
		externs = append(externs, globalNames(name, script)...)
	}

	var buf bytes.Buffer
	n, err := htmlscript.Rewrite(&buf, strings.NewReader(doc), func(i int, script string) (string, error) {
		out, stats, err := r.lower(name, script, externs)
		if err != nil {
			return "", err
		}
		if out != script {
			externs = append(externs, globalNames(name, out)...)
		}
		res.Stats = res.Stats.Add(stats)
		if r.options.Verify && res.Verified != models.VerifyMismatch {
			res.Verified = verify(script, out)
		}
		return out, nil
	})
	res.Scripts = n
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}

// globalNames returns the names code declares in the global scope. Code that
// does not parse declares nothing; lowering reports the error.
func globalNames(name, code string) []string {
	tree, err := parser.Parse(name, code)
	if err != nil {
		return nil
	}
	return blockscope.CollectExternNames(tree)
}

// verify runs the original and the lowered code and compares their console
// output. Both must also agree on whether the script throws.
func verify(original, lowered string) models.VerifyStatus {
	want, wantErr := emulator.Capture(original)
	got, gotErr := emulator.Capture(lowered)
	if (wantErr == nil) != (gotErr == nil) || !slices.Equal(want, got) {
		return models.VerifyMismatch
	}
	return models.VerifyMatch
}
