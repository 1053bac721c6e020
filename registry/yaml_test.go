package registry

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCatalog = `
agents:
  - id: reviewer
    name: Review Agent
    role: Reviewer
    focus: Code review perspective
    prompt_template: "Refine: {{.OriginalRequest}}"
    temperature: 0.4
    capabilities: [read, grep]
  - id: planner
    name: Planning Agent
    role: Planner
    focus: Planning perspective
    prompt_template: "Plan: {{.OriginalRequest}}"
    temperature: 1.1
`

func TestParse(t *testing.T) {
	r, err := Parse([]byte(sampleCatalog))
	require.NoError(t, err)

	assert.Equal(t, []string{"reviewer", "planner"}, r.IDs())

	def, err := r.Get("reviewer")
	require.NoError(t, err)
	assert.Equal(t, 0.4, def.Temperature)
	assert.Len(t, def.Capabilities, 2)
}

func TestParseRejectsBadCatalogs(t *testing.T) {
	_, err := Parse([]byte("agents: []"))
	assert.ErrorContains(t, err, "no agents")

	_, err = Parse([]byte(":::not yaml"))
	assert.Error(t, err)

	_, err = Parse([]byte("agents:\n  - id: bad\n    prompt_template: x\n    temperature: 9\n"))
	assert.Error(t, err)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "agents.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleCatalog), 0o600))

	r, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 2, r.Len())

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
