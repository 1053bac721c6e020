package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/promptforge/refinery/core"
)

func testDef(id string) core.AgentDefinition {
	return core.AgentDefinition{
		ID:             id,
		Name:           "Agent " + id,
		PromptTemplate: "Refine: {{.OriginalRequest}}",
		Temperature:    0.7,
	}
}

func TestNewRejectsDuplicatesAndInvalidDefs(t *testing.T) {
	_, err := New(testDef("a"), testDef("a"))
	assert.ErrorContains(t, err, "duplicate agent id")

	_, err = New(core.AgentDefinition{ID: "", PromptTemplate: "x"})
	assert.Error(t, err)

	_, err = New(testDef(core.SynthesisAgentID))
	assert.ErrorIs(t, err, core.ErrReservedAgentID)
}

func TestListPreservesDeclarationOrder(t *testing.T) {
	r, err := New(testDef("c"), testDef("a"), testDef("b"))
	require.NoError(t, err)

	ids := r.IDs()
	assert.Equal(t, []string{"c", "a", "b"}, ids)

	defs := r.List()
	require.Len(t, defs, 3)
	assert.Equal(t, "c", defs[0].ID)
}

func TestGet(t *testing.T) {
	r := MustNew(testDef("a"))

	def, err := r.Get("a")
	assert.NoError(t, err)
	assert.Equal(t, "a", def.ID)

	_, err = r.Get("missing")
	assert.ErrorIs(t, err, core.ErrAgentNotFound)
}

func TestGetByIDsDropsUnknown(t *testing.T) {
	r := MustNew(testDef("a"), testDef("b"), testDef("c"))

	defs := r.GetByIDs([]string{"b", "ghost", "a"})
	require.Len(t, defs, 2)
	assert.Equal(t, "b", defs[0].ID)
	assert.Equal(t, "a", defs[1].ID)
}

func TestFirst(t *testing.T) {
	r := MustNew(testDef("a"), testDef("b"), testDef("c"))

	assert.Len(t, r.First(2), 2)
	assert.Equal(t, "a", r.First(2)[0].ID)
	assert.Len(t, r.First(10), 3)
	assert.Empty(t, r.First(-1))
}

func TestDefaultCatalog(t *testing.T) {
	r := Default()

	assert.Equal(t, 6, r.Len())
	assert.Equal(t, []string{
		"technical-architect",
		"product-manager",
		"ux-designer",
		"security-engineer",
		"test-engineer",
		"user-advocate",
	}, r.IDs())

	for _, def := range r.List() {
		assert.NoError(t, def.Validate())
		assert.Contains(t, def.PromptTemplate, "{{.OriginalRequest}}")
	}
}
