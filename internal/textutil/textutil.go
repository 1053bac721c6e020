// Package textutil bundles small text helpers shared by prompt building
// and output validation. It lives in internal to avoid committing to
// public API stability prematurely.
package textutil

import (
	"bytes"
	"strings"
	"text/template"
)

// WordCount returns the number of whitespace-separated words in s.
func WordCount(s string) int { return len(strings.Fields(s)) }

// RenderTemplate expands template variables using Go's text/template
// package. Inputs without template markers are returned unchanged.
func RenderTemplate(text string, data any) (string, error) {
	if !strings.Contains(text, "{{") { // fast path: no template markers
		return text, nil
	}

	tmpl, err := template.New("prompt").Funcs(template.FuncMap{
		"upper": strings.ToUpper,
		"lower": strings.ToLower,
		"join":  strings.Join,
	}).Parse(text)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}

	return buf.String(), nil
}

// Truncate shortens s to at most n runes, appending an ellipsis when the
// input was cut. Used for event messages that embed request excerpts.
func Truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}

	runes := []rune(s)
	if len(runes) <= n {
		return s
	}

	return string(runes[:n]) + "…"
}
