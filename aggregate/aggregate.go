// Package aggregate turns the raw record set of a finished session into a
// structured result. Aggregation is pure: it never re-reads the store and
// never mutates its inputs.
package aggregate

import (
	"fmt"
	"time"

	"github.com/promptforge/refinery/core"
)

// SessionResult is the final outcome of a refinement session. Every agent
// the session dispatched appears in exactly one of Completed or Failed.
type SessionResult struct {
	SessionID string `json:"session_id"`

	// Completed holds successful per-agent records in dispatch order.
	Completed []core.Record `json:"completed"`
	// Failed holds failed per-agent records in dispatch order.
	Failed []core.Record `json:"failed"`

	CompletedCount int `json:"completed_count"`
	FailedCount    int `json:"failed_count"`
	TotalCount     int `json:"total_count"`

	// Synthesis is the combined-output record, when the synthesis stage
	// ran and succeeded. It is not counted in the per-agent totals.
	Synthesis *core.Record `json:"synthesis,omitempty"`

	// ExecutionTime is the wall-clock duration of the whole session.
	ExecutionTime time.Duration `json:"execution_time"`
}

// TotalUsage sums token usage across all per-agent records and the
// synthesis record.
func (r *SessionResult) TotalUsage() core.TokenUsage {
	var total core.TokenUsage
	add := func(u *core.TokenUsage) {
		if u == nil {
			return
		}
		total.PromptTokens += u.PromptTokens
		total.CompletionTokens += u.CompletionTokens
		total.TotalTokens += u.TotalTokens
	}
	for _, rec := range r.Completed {
		add(rec.Usage)
	}
	for _, rec := range r.Failed {
		add(rec.Usage)
	}
	if r.Synthesis != nil {
		add(r.Synthesis.Usage)
	}
	return total
}

// Build partitions records into a SessionResult. A synthesis record is
// routed to the Synthesis field; failed synthesis is dropped since the
// per-agent outcomes already stand on their own. Any non-terminal record
// is an orchestration bug and yields an error.
func Build(sessionID string, records []core.Record, executionTime time.Duration) (*SessionResult, error) {
	result := &SessionResult{
		SessionID:     sessionID,
		Completed:     make([]core.Record, 0, len(records)),
		Failed:        make([]core.Record, 0),
		ExecutionTime: executionTime,
	}

	for _, rec := range records {
		if !rec.Status.Terminal() {
			return nil, fmt.Errorf("record for agent %q is still %s", rec.AgentID, rec.Status)
		}

		if rec.IsSynthesis() {
			if rec.Completed() {
				c := rec.Clone()
				result.Synthesis = &c
			}
			continue
		}

		if rec.Completed() {
			result.Completed = append(result.Completed, rec.Clone())
		} else {
			result.Failed = append(result.Failed, rec.Clone())
		}
	}

	result.CompletedCount = len(result.Completed)
	result.FailedCount = len(result.Failed)
	result.TotalCount = result.CompletedCount + result.FailedCount

	return result, nil
}
