package textutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWordCount(t *testing.T) {
	assert.Equal(t, 0, WordCount(""))
	assert.Equal(t, 0, WordCount("   \n\t"))
	assert.Equal(t, 3, WordCount("add dark mode"))
	assert.Equal(t, 4, WordCount("  spaced   out  words   here "))
}

func TestRenderTemplate(t *testing.T) {
	out, err := RenderTemplate("no markers", nil)
	assert.NoError(t, err)
	assert.Equal(t, "no markers", out)

	out, err = RenderTemplate("Refine: {{.Request}} ({{.Min}}-{{.Max}} words)", map[string]any{
		"Request": "add dark mode",
		"Min":     100,
		"Max":     300,
	})
	assert.NoError(t, err)
	assert.Equal(t, "Refine: add dark mode (100-300 words)", out)

	_, err = RenderTemplate("{{.Broken", nil)
	assert.Error(t, err)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "", Truncate("anything", 0))
	assert.Equal(t, "short", Truncate("short", 10))
	assert.Equal(t, "ab…", Truncate("abcdef", 2))
}
