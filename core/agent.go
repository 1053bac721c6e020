package core

import "fmt"

// SynthesisAgentID is the reserved agent identifier used for the optional
// synthesis pass that merges multiple completed refinements. Catalog
// entries must not claim it.
const SynthesisAgentID = "synthesis"

// Capability names a backend feature an agent is allowed to use while
// producing its refinement. The set is a closed enumeration; free-form
// capability strings are rejected at validation time.
type Capability string

const (
	// CapabilityRead permits reading project files for context.
	CapabilityRead Capability = "read"
	// CapabilityGrep permits content search over the project.
	CapabilityGrep Capability = "grep"
	// CapabilityGlob permits file name matching over the project.
	CapabilityGlob Capability = "glob"
)

// knownCapabilities is the closed set accepted by Validate.
var knownCapabilities = map[Capability]bool{
	CapabilityRead: true,
	CapabilityGrep: true,
	CapabilityGlob: true,
}

// AgentDefinition describes one refinement perspective: who the agent is,
// what it focuses on, how its prompt is built and how it samples. Values
// are immutable after catalog load.
type AgentDefinition struct {
	ID             string       `yaml:"id" json:"id"`
	Name           string       `yaml:"name" json:"name"`
	Role           string       `yaml:"role" json:"role"`
	Focus          string       `yaml:"focus" json:"focus"`
	PromptTemplate string       `yaml:"prompt_template" json:"prompt_template"`
	Temperature    float64      `yaml:"temperature" json:"temperature"`
	Capabilities   []Capability `yaml:"capabilities" json:"capabilities,omitempty"`
}

// Validate checks structural invariants of a definition: non-empty id and
// template, the id is not reserved, the temperature is within sampling
// range and every capability belongs to the closed set.
func (d AgentDefinition) Validate() error {
	if d.ID == "" {
		return fmt.Errorf("agent definition missing id")
	}

	if d.ID == SynthesisAgentID {
		return fmt.Errorf("agent %q: %w", d.ID, ErrReservedAgentID)
	}

	if d.PromptTemplate == "" {
		return fmt.Errorf("agent %q: missing prompt template", d.ID)
	}

	if d.Temperature < 0 || d.Temperature > 2 {
		return fmt.Errorf("agent %q: temperature %.2f out of range [0, 2]", d.ID, d.Temperature)
	}

	for _, c := range d.Capabilities {
		if !knownCapabilities[c] {
			return fmt.Errorf("agent %q: unknown capability %q", d.ID, c)
		}
	}

	return nil
}

// CapabilityStrings returns the capability set as plain strings for
// handing to a generation backend.
func (d AgentDefinition) CapabilityStrings() []string {
	if len(d.Capabilities) == 0 {
		return nil
	}

	out := make([]string, len(d.Capabilities))
	for i, c := range d.Capabilities {
		out[i] = string(c)
	}

	return out
}
