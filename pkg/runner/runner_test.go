package runner

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/lcalzada-xor/blockscope/pkg/config"
	"github.com/lcalzada-xor/blockscope/pkg/models"
)

func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		p := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func newTestRunner(opts *Options) (*Runner, *bytes.Buffer) {
	opts.Silent = true
	r := NewRunner(opts)
	var stdout bytes.Buffer
	r.Stdout = &stdout
	r.Stdin = strings.NewReader("")
	return r, &stdout
}

func decodeResults(t *testing.T, out string) []models.Result {
	t.Helper()
	var results []models.Result
	for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
		var res models.Result
		if err := json.Unmarshal([]byte(line), &res); err != nil {
			t.Fatalf("invalid json line %q: %v", line, err)
		}
		results = append(results, res)
	}
	return results
}

func TestRun_File(t *testing.T) {
	dir := writeFiles(t, map[string]string{"a.js": "let a = 1;\n"})
	opts := DefaultOptions()
	opts.Inputs = []string{filepath.Join(dir, "a.js")}
	r, stdout := newTestRunner(opts)

	sum, err := r.Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sum.Inputs != 1 || sum.Failed != 0 {
		t.Errorf("unexpected summary %+v", sum)
	}
	if stdout.String() != "var a = 1;\n" {
		t.Errorf("expected lowered code, got %q", stdout.String())
	}
}

func TestRun_UntouchedWithoutBlockScope(t *testing.T) {
	code := "var a = 1; // keep me\n"
	dir := writeFiles(t, map[string]string{"plain.js": code})
	opts := DefaultOptions()
	opts.Inputs = []string{filepath.Join(dir, "plain.js")}
	r, stdout := newTestRunner(opts)

	if _, err := r.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	if stdout.String() != code {
		t.Errorf("expected source unchanged, got %q", stdout.String())
	}
}

func TestRun_DirectoryToOutDir(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"a.js":       "const a = 1;\n",
		"sub/b.js":   "{ let b = 2; }\n",
		"page.html":  "<p>hi</p><script>let c = 3;</script>",
		"readme.txt": "let me be",
	})
	out := t.TempDir()

	opts := DefaultOptions()
	opts.Inputs = []string{dir}
	opts.OutputDir = out
	opts.Concurrency = 3
	r, stdout := newTestRunner(opts)

	sum, err := r.Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sum.Inputs != 3 || sum.Failed != 0 {
		t.Fatalf("unexpected summary %+v", sum)
	}
	if stdout.Len() != 0 {
		t.Errorf("nothing should be printed with an output dir, got %q", stdout.String())
	}

	tests := map[string]string{
		"a.js":      "/** @const */ var a = 1;\n",
		"sub/b.js":  "{\n  var b = 2;\n}\n",
		"page.html": "<p>hi</p><script>var c = 3;\n</script>",
	}
	for name, expected := range tests {
		got, err := os.ReadFile(filepath.Join(out, name))
		if err != nil {
			t.Errorf("%s: %v", name, err)
			continue
		}
		if string(got) != expected {
			t.Errorf("%s: expected %q, got %q", name, expected, got)
		}
	}
}

func TestRun_VerifyJSON(t *testing.T) {
	dir := writeFiles(t, map[string]string{"loop.js": `
var fns = [];
for (let i = 0; i < 3; i++) { fns.push(function() { return i; }); }
fns.forEach(function(f) { console.log(f()); });
`})
	opts := DefaultOptions()
	opts.Inputs = []string{filepath.Join(dir, "loop.js")}
	opts.Verify = true
	opts.OutputFormat = "json"
	r, stdout := newTestRunner(opts)

	sum, err := r.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if sum.Mismatches != 0 {
		t.Errorf("expected no mismatches, got %d", sum.Mismatches)
	}
	results := decodeResults(t, stdout.String())
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	res := results[0]
	if res.Verified != models.VerifyMatch {
		t.Errorf("expected verified match, got %q", res.Verified)
	}
	if res.Stats.LoopObjects != 1 || res.Stats.Wrapped != 1 {
		t.Errorf("unexpected stats %+v", res.Stats)
	}
	if strings.Contains(res.Code, "let ") {
		t.Errorf("let survived lowering:\n%s", res.Code)
	}
}

func TestRun_Failures(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"syntax.js": "let = ;",
		"forof.js":  "for (const x of xs) { f(() => x); }",
	})
	opts := DefaultOptions()
	opts.Inputs = []string{
		filepath.Join(dir, "missing.js"),
		filepath.Join(dir, "syntax.js"),
		filepath.Join(dir, "forof.js"),
	}
	opts.OutputFormat = "json"
	r, stdout := newTestRunner(opts)

	sum, err := r.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if sum.Failed != 3 {
		t.Errorf("expected 3 failures, got %+v", sum)
	}
	for _, res := range decodeResults(t, stdout.String()) {
		if res.Error == "" {
			t.Errorf("%s: expected an error", res.Input)
		}
	}
}

func TestRun_ExternsAndURL(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("{ let jQuery = 1; use(jQuery); }\n"))
	}))
	defer server.Close()

	dir := writeFiles(t, map[string]string{"externs.js": "var jQuery;\n"})
	opts := DefaultOptions()
	opts.Inputs = []string{server.URL + "/lib/app.js"}
	opts.ExternFiles = []string{filepath.Join(dir, "externs.js")}
	r, stdout := newTestRunner(opts)

	sum, err := r.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if sum.Failed != 0 {
		t.Fatalf("unexpected failure: %+v", sum)
	}
	expected := "{\n  var jQuery$0 = 1;\n  use(jQuery$0);\n}\n"
	if stdout.String() != expected {
		t.Errorf("expected %q, got %q", expected, stdout.String())
	}
}

func TestRun_InputsFromStdin(t *testing.T) {
	dir := writeFiles(t, map[string]string{"a.js": "let a;\n", "b.js": "let b;\n"})
	opts := DefaultOptions()
	opts.Concurrency = 1
	r, stdout := newTestRunner(opts)
	r.Stdin = strings.NewReader(filepath.Join(dir, "a.js") + "\n\n" + filepath.Join(dir, "b.js") + "\n")

	sum, err := r.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if sum.Inputs != 2 {
		t.Errorf("expected 2 inputs, got %d", sum.Inputs)
	}
	if stdout.String() != "var a;\nvar b;\n" {
		t.Errorf("unexpected output %q", stdout.String())
	}
}

func TestRun_StdinCode(t *testing.T) {
	opts := DefaultOptions()
	opts.Inputs = []string{StdinInput}
	r, stdout := newTestRunner(opts)
	r.Stdin = strings.NewReader("const x = 1;")

	if _, err := r.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	if stdout.String() != "/** @const */ var x = 1;\n" {
		t.Errorf("unexpected output %q", stdout.String())
	}
}

func TestRun_Cancelled(t *testing.T) {
	dir := writeFiles(t, map[string]string{"a.js": "let a;\n"})
	opts := DefaultOptions()
	opts.Inputs = []string{filepath.Join(dir, "a.js")}
	r, _ := newTestRunner(opts)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := r.Run(ctx); err == nil {
		t.Error("expected a context error")
	}
}

func TestOptions_Merge(t *testing.T) {
	four, off, on := 4, false, true
	file := &config.File{
		Externs:       []string{"fromFile"},
		TranspileOnly: &off,
		Concurrency:   &four,
		Verify:        &on,
		OutputDir:     "/tmp/out",
		Format:        "human",
	}

	tests := []struct {
		name     string
		explicit map[string]bool
		check    func(t *testing.T, o *Options)
	}{
		{
			name: "file fills defaults",
			check: func(t *testing.T, o *Options) {
				if o.TranspileOnly || o.Concurrency != 4 || !o.Verify || o.OutputDir != "/tmp/out" || o.OutputFormat != "human" {
					t.Errorf("file values not applied: %+v", o)
				}
			},
		},
		{
			name:     "flags win",
			explicit: map[string]bool{"concurrency": true, "output": true, "transpile-only": true},
			check: func(t *testing.T, o *Options) {
				if !o.TranspileOnly || o.Concurrency != config.DefaultConcurrency || o.OutputFormat != "js" {
					t.Errorf("flag values overridden: %+v", o)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := DefaultOptions()
			o.ExternNames = []string{"fromFlag"}
			o.Merge(file, tt.explicit)
			if strings.Join(o.ExternNames, ",") != "fromFlag,fromFile" {
				t.Errorf("externs not combined: %v", o.ExternNames)
			}
			tt.check(t, o)
		})
	}
}

func TestURLRel(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"https://cdn.example.com/lib/app.js", filepath.Join("cdn.example.com", "lib", "app.js")},
		{"https://example.com/", filepath.Join("example.com", "index.js")},
		{"https://example.com/../../etc/x.js", filepath.Join("example.com", "etc", "x.js")},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			jobs := expand(tt.input)
			if len(jobs) != 1 || jobs[0].rel != tt.expected {
				t.Errorf("expected %q, got %+v", tt.expected, jobs)
			}
		})
	}
}

func TestRun_HTMLScriptsShareGlobals(t *testing.T) {
	doc := `<script>var x = "one"; function show() { console.log(x); }</script>` +
		`<script>{ let x = "two"; } show();</script>` +
		`<script>{ let y = 1; }</script>` +
		`<script>{ let y = 2; }</script>`
	dir := writeFiles(t, map[string]string{"page.html": doc})
	opts := DefaultOptions()
	opts.Inputs = []string{filepath.Join(dir, "page.html")}
	opts.TranspileOnly = false
	r, stdout := newTestRunner(opts)

	if _, err := r.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	got := stdout.String()
	for _, want := range []string{
		`<script>var x = "one"; function show() { console.log(x); }</script>`,
		"var x$0 = ",
		"{\n  var y = 1;\n}\n",
		"{\n  var y$1 = 2;\n}\n",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("expected output to contain %q, got:\n%s", want, got)
		}
	}
	if strings.Count(got, "var x = ") != 1 {
		t.Errorf("block-scoped x must not reuse the global from another script:\n%s", got)
	}
}
