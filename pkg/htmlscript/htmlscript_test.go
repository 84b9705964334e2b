package htmlscript

import (
	"errors"
	"slices"
	"strings"
	"testing"
)

func upper(_ int, code string) (string, error) {
	return strings.ToUpper(code), nil
}

func TestRewrite(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
		count    int
	}{
		{
			name:     "inline script",
			input:    `<p>let x</p><script>let x = 1;</script>`,
			expected: `<p>let x</p><script>LET X = 1;</script>`,
			count:    1,
		},
		{
			name:     "explicit classic type",
			input:    `<SCRIPT Type="text/javascript">a()</SCRIPT>`,
			expected: `<SCRIPT Type="text/javascript">A()</SCRIPT>`,
			count:    1,
		},
		{
			name:     "module is left alone",
			input:    `<script type="module">let m;</script>`,
			expected: `<script type="module">let m;</script>`,
		},
		{
			name:     "json is left alone",
			input:    `<script type="application/json">{"a": 1}</script>`,
			expected: `<script type="application/json">{"a": 1}</script>`,
		},
		{
			name:     "external script",
			input:    `<script src="app.js">ignored</script>`,
			expected: `<script src="app.js">ignored</script>`,
		},
		{
			name:     "markup inside script is not parsed",
			input:    `<script>if (a < b) s = "<b>";</script><b>x</b>`,
			expected: `<script>IF (A < B) S = "<B>";</script><b>x</b>`,
			count:    1,
		},
		{
			name:     "empty script",
			input:    `<script></script>`,
			expected: `<script></script>`,
		},
		{
			name:     "several scripts",
			input:    "<!DOCTYPE html>\n<head><script>a</script></head><body><script>b</script></body>",
			expected: "<!DOCTYPE html>\n<head><script>A</script></head><body><script>B</script></body>",
			count:    2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out strings.Builder
			count, err := Rewrite(&out, strings.NewReader(tt.input), upper)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if count != tt.count {
				t.Errorf("expected %d scripts, got %d", tt.count, count)
			}
			if out.String() != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, out.String())
			}
		})
	}
}

func TestRewriteError(t *testing.T) {
	errBoom := errors.New("boom")
	input := `<script>ok</script><script>bad</script>`

	var seen []int
	_, err := Rewrite(&strings.Builder{}, strings.NewReader(input), func(i int, code string) (string, error) {
		seen = append(seen, i)
		if code == "bad" {
			return "", errBoom
		}
		return code, nil
	})
	if !errors.Is(err, errBoom) {
		t.Fatalf("expected wrapped error, got %v", err)
	}
	if !strings.Contains(err.Error(), "script 1") {
		t.Errorf("error should name the script index: %v", err)
	}
	if !slices.Equal(seen, []int{0, 1}) {
		t.Errorf("expected indexes [0 1], got %v", seen)
	}
}

func TestScripts(t *testing.T) {
	scripts, err := Scripts(strings.NewReader(`<script>one</script><script type="module">skip</script><script>two</script>`))
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(scripts, []string{"one", "two"}) {
		t.Errorf("expected [one two], got %v", scripts)
	}
}
