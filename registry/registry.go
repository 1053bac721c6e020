// Package registry holds the static catalog of refinement agents. The
// catalog is an explicitly constructed value loaded once at startup and
// injected into the orchestrator; it has no behavior beyond lookup and
// selection. Declaration order is preserved so default agent sets are
// deterministic across runs.
package registry

import (
	"fmt"

	"github.com/promptforge/refinery/core"
)

// Registry is an immutable, ordered collection of agent definitions.
type Registry struct {
	defs  []core.AgentDefinition
	byID  map[string]int
	order []string
}

// New builds a registry from the given definitions. Every definition is
// validated and ids must be unique.
func New(defs ...core.AgentDefinition) (*Registry, error) {
	r := &Registry{
		defs: make([]core.AgentDefinition, 0, len(defs)),
		byID: make(map[string]int, len(defs)),
	}

	for _, def := range defs {
		if err := def.Validate(); err != nil {
			return nil, err
		}

		if _, exists := r.byID[def.ID]; exists {
			return nil, fmt.Errorf("duplicate agent id %q", def.ID)
		}

		r.byID[def.ID] = len(r.defs)
		r.defs = append(r.defs, def)
		r.order = append(r.order, def.ID)
	}

	return r, nil
}

// MustNew is like New but panics on error. Intended for static catalogs
// known to be valid at compile time.
func MustNew(defs ...core.AgentDefinition) *Registry {
	r, err := New(defs...)
	if err != nil {
		panic(err)
	}
	return r
}

// Len returns the number of registered agents.
func (r *Registry) Len() int { return len(r.defs) }

// List returns all definitions in declaration order.
func (r *Registry) List() []core.AgentDefinition {
	out := make([]core.AgentDefinition, len(r.defs))
	copy(out, r.defs)
	return out
}

// Get returns the definition for an id or core.ErrAgentNotFound.
func (r *Registry) Get(id string) (core.AgentDefinition, error) {
	idx, ok := r.byID[id]
	if !ok {
		return core.AgentDefinition{}, fmt.Errorf("agent %q: %w", id, core.ErrAgentNotFound)
	}
	return r.defs[idx], nil
}

// GetByIDs resolves a list of ids, silently dropping unknown ones. The
// result preserves the order of the input ids.
func (r *Registry) GetByIDs(ids []string) []core.AgentDefinition {
	out := make([]core.AgentDefinition, 0, len(ids))
	for _, id := range ids {
		if idx, ok := r.byID[id]; ok {
			out = append(out, r.defs[idx])
		}
	}
	return out
}

// First returns the first n definitions in declaration order (all of them
// when n exceeds the catalog size).
func (r *Registry) First(n int) []core.AgentDefinition {
	if n < 0 {
		n = 0
	}
	if n > len(r.defs) {
		n = len(r.defs)
	}
	out := make([]core.AgentDefinition, n)
	copy(out, r.defs[:n])
	return out
}

// IDs returns all agent ids in declaration order.
func (r *Registry) IDs() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}
