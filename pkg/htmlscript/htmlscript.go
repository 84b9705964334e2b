// Package htmlscript rewrites the inline scripts of an HTML document.
package htmlscript

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
)

// RewriteFunc returns the replacement body for the index-th inline classic
// script of a document.
type RewriteFunc func(index int, code string) (string, error)

// classicTypes are the type attribute values that make a script classic.
// An absent or empty type also counts.
var classicTypes = map[string]bool{
	"":                       true,
	"text/javascript":        true,
	"application/javascript": true,
	"text/ecmascript":        true,
	"application/ecmascript": true,
}

// Rewrite copies the document in r to w byte for byte, except for the bodies
// of inline classic scripts, which are replaced with what fn returns. Scripts
// with a src attribute or a non-classic type (modules, JSON, templates) are
// copied unchanged. It returns the number of scripts handed to fn.
func Rewrite(w io.Writer, r io.Reader, fn RewriteFunc) (int, error) {
	z := html.NewTokenizer(r)
	count := 0
	inScript := false

	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			if errors.Is(z.Err(), io.EOF) {
				return count, nil
			}
			return count, fmt.Errorf("tokenizing html: %w", z.Err())
		}

		if tt == html.TextToken && inScript {
			out, err := fn(count, string(z.Raw()))
			if err != nil {
				return count, fmt.Errorf("script %d: %w", count, err)
			}
			count++
			if _, err := io.WriteString(w, out); err != nil {
				return count, err
			}
			continue
		}

		// TagName lowercases the token buffer in place, so copy the raw
		// bytes out first.
		if _, err := w.Write(z.Raw()); err != nil {
			return count, err
		}

		switch tt {
		case html.StartTagToken:
			name, hasAttr := z.TagName()
			inScript = string(name) == "script" && isClassic(z, hasAttr)
		case html.EndTagToken:
			inScript = false
		}
	}
}

// Scripts returns the bodies of the inline classic scripts in r.
func Scripts(r io.Reader) ([]string, error) {
	var scripts []string
	_, err := Rewrite(io.Discard, r, func(_ int, code string) (string, error) {
		scripts = append(scripts, code)
		return code, nil
	})
	return scripts, err
}

func isClassic(z *html.Tokenizer, hasAttr bool) bool {
	typ := ""
	for hasAttr {
		var key, val []byte
		key, val, hasAttr = z.TagAttr()
		switch string(key) {
		case "src":
			return false
		case "type":
			typ = strings.ToLower(strings.TrimSpace(string(val)))
		}
	}
	return classicTypes[typ]
}
