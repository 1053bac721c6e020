// Package selection finalizes a refinement session. A consumer resolves a
// SessionResult into exactly one outcome: a specific completed refinement,
// the synthesized refinement, or the original request unchanged.
package selection

import (
	"fmt"

	"github.com/promptforge/refinery/aggregate"
	"github.com/promptforge/refinery/core"
)

// Source identifies which candidate an outcome was taken from.
type Source string

const (
	// SourceAgent means a single agent's refinement was selected.
	SourceAgent Source = "agent"
	// SourceSynthesis means the synthesized refinement was selected.
	SourceSynthesis Source = "synthesis"
	// SourceOriginal means the caller kept the unrefined request.
	SourceOriginal Source = "original"
)

// Outcome is the finalized text of a session with its provenance.
type Outcome struct {
	Source  Source `json:"source"`
	Text    string `json:"text"`
	AgentID string `json:"agent_id,omitempty"`
}

// PickAgent selects the completed refinement produced by agentID.
func PickAgent(result *aggregate.SessionResult, agentID string) (Outcome, error) {
	for _, rec := range result.Completed {
		if rec.AgentID == agentID {
			return Outcome{Source: SourceAgent, Text: rec.RefinedText, AgentID: agentID}, nil
		}
	}
	return Outcome{}, fmt.Errorf("no completed refinement for agent %q: %w", agentID, core.ErrAgentNotFound)
}

// PickSynthesis selects the synthesized refinement. It fails when the
// synthesis stage was skipped or did not complete.
func PickSynthesis(result *aggregate.SessionResult) (Outcome, error) {
	if result.Synthesis == nil || !result.Synthesis.Completed() {
		return Outcome{}, fmt.Errorf("session %q has no completed synthesis", result.SessionID)
	}
	return Outcome{
		Source:  SourceSynthesis,
		Text:    result.Synthesis.RefinedText,
		AgentID: core.SynthesisAgentID,
	}, nil
}

// KeepOriginal opts out of all refinements and retains the request as
// submitted.
func KeepOriginal(originalRequest string) Outcome {
	return Outcome{Source: SourceOriginal, Text: originalRequest}
}
