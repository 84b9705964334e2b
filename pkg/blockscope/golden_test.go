package blockscope

import (
	"path/filepath"
	"strings"
	"testing"

	"golang.org/x/tools/txtar"

	"github.com/lcalzada-xor/blockscope/pkg/parser"
	"github.com/lcalzada-xor/blockscope/pkg/printer"
)

// normalize reprints code so fixtures are compared independent of layout.
func normalize(t *testing.T, name, code string) string {
	t.Helper()
	tree, err := parser.Parse(name, code)
	if err != nil {
		t.Fatalf("reparse %s: %v\n%s", name, err, code)
	}
	return printer.Print(tree)
}

func TestGolden(t *testing.T) {
	files, err := filepath.Glob(filepath.Join("testdata", "*.txtar"))
	if err != nil {
		t.Fatal(err)
	}
	if len(files) == 0 {
		t.Fatal("no fixtures found")
	}

	for _, file := range files {
		name := strings.TrimSuffix(filepath.Base(file), ".txtar")
		t.Run(name, func(t *testing.T) {
			ar, err := txtar.ParseFile(file)
			if err != nil {
				t.Fatal(err)
			}
			sections := make(map[string]string)
			for _, f := range ar.Files {
				sections[f.Name] = string(f.Data)
			}
			input, ok := sections["input.js"]
			if !ok {
				t.Fatal("fixture has no input.js")
			}
			expected, ok := sections["output.js"]
			if !ok {
				t.Fatal("fixture has no output.js")
			}

			tree := parser.MustParse(name+".js", input)
			cfg := Config{TranspileOnly: true, Externs: strings.Fields(sections["externs.txt"])}
			if _, err := Rewrite(tree, cfg); err != nil {
				t.Fatalf("Rewrite: %v", err)
			}

			got := normalize(t, "got", printer.Print(tree))
			want := normalize(t, "want", expected)
			if got != want {
				t.Errorf("output mismatch\n--- got ---\n%s\n--- want ---\n%s", got, want)
			}
		})
	}
}
