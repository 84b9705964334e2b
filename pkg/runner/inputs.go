package runner

import (
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"github.com/lcalzada-xor/blockscope/pkg/config"
	"github.com/lcalzada-xor/blockscope/pkg/models"
)

// StdinInput names source code read from stdin.
const StdinInput = "-"

type source uint8

const (
	fromFile source = iota
	fromURL
	fromStdin
)

// job is one compilation unit (or one HTML document) to lower.
type job struct {
	name   string // as shown in results
	source source
	kind   models.InputKind
	// rel is the path of the output file below --out-dir.
	rel string
	// err is set when the input could not be expanded.
	err error
}

func isURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

func kindOf(name string) models.InputKind {
	if slices.Contains(config.HTMLExtensions, strings.ToLower(path.Ext(name))) {
		return models.InputHTML
	}
	return models.InputScript
}

// expand turns one command-line input into jobs. Directories are walked for
// script and HTML files in lexical order.
func expand(input string) []job {
	switch {
	case input == StdinInput:
		return []job{{name: "<stdin>", source: fromStdin, kind: models.InputScript, rel: "stdin.js"}}
	case isURL(input):
		u, err := url.Parse(input)
		if err != nil {
			return []job{{name: input, err: fmt.Errorf("invalid url: %w", err)}}
		}
		return []job{{name: input, source: fromURL, kind: kindOf(u.Path), rel: urlRel(u)}}
	}

	info, err := os.Stat(input)
	if err != nil {
		return []job{{name: input, err: err}}
	}
	if !info.IsDir() {
		return []job{{name: input, source: fromFile, kind: kindOf(input), rel: filepath.Base(input)}}
	}

	var jobs []job
	err = filepath.WalkDir(input, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		ext := strings.ToLower(filepath.Ext(p))
		if !slices.Contains(config.ScriptExtensions, ext) && !slices.Contains(config.HTMLExtensions, ext) {
			return nil
		}
		rel, err := filepath.Rel(input, p)
		if err != nil {
			return err
		}
		jobs = append(jobs, job{name: p, source: fromFile, kind: kindOf(p), rel: rel})
		return nil
	})
	if err != nil {
		return append(jobs, job{name: input, err: fmt.Errorf("walking %s: %w", input, err)})
	}
	return jobs
}

// urlRel maps a URL to host/path below the output directory.
func urlRel(u *url.URL) string {
	p := u.Path
	if p == "" || strings.HasSuffix(p, "/") {
		p += "index.js"
	}
	return filepath.Join(u.Host, filepath.FromSlash(path.Clean("/"+p)))
}
