package core

import "time"

// Status is the lifecycle state of a refinement record. Transitions are
// monotonic and one-directional: pending -> running -> completed | failed.
type Status string

const (
	// StatusPending marks a record whose execution unit is not yet running.
	StatusPending Status = "pending"
	// StatusRunning marks a record whose generation call is in flight.
	StatusRunning Status = "running"
	// StatusCompleted marks a record holding refined text. Completed
	// records may still carry advisory validation errors.
	StatusCompleted Status = "completed"
	// StatusFailed marks a record whose execution errored, timed out or
	// could not be resolved.
	StatusFailed Status = "failed"
)

// Terminal reports whether the status is an end state.
func (s Status) Terminal() bool { return s == StatusCompleted || s == StatusFailed }

// TokenUsage captures token accounting reported by a generation backend.
type TokenUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Record is the per-agent outcome of a session. Exactly one record exists
// per (session, agent) pair; the orchestrator is its sole writer while the
// session runs.
type Record struct {
	SessionID string `json:"session_id"`
	AgentID   string `json:"agent_id"`
	Status    Status `json:"status"`

	// RefinedText is present iff the record completed.
	RefinedText string `json:"refined_text,omitempty"`

	// ValidationErrors lists advisory findings (e.g. output outside the
	// configured word bounds). A completed record may carry several.
	ValidationErrors []string `json:"validation_errors,omitempty"`

	WordCount     int           `json:"word_count,omitempty"`
	Usage         *TokenUsage   `json:"usage,omitempty"`
	ExecutionTime time.Duration `json:"execution_time,omitempty"`

	// ErrorMessage is present iff the record failed.
	ErrorMessage string `json:"error_message,omitempty"`
}

// NewRecord creates a pending record for an agent within a session.
func NewRecord(sessionID, agentID string) Record {
	return Record{SessionID: sessionID, AgentID: agentID, Status: StatusPending}
}

// Completed reports whether the record finished with refined text.
func (r Record) Completed() bool { return r.Status == StatusCompleted }

// Failed reports whether the record ended in failure.
func (r Record) Failed() bool { return r.Status == StatusFailed }

// IsSynthesis reports whether the record belongs to the synthesis pass.
func (r Record) IsSynthesis() bool { return r.AgentID == SynthesisAgentID }

// Clone returns an independent copy of the record.
func (r Record) Clone() Record {
	c := r
	if r.ValidationErrors != nil {
		c.ValidationErrors = make([]string, len(r.ValidationErrors))
		copy(c.ValidationErrors, r.ValidationErrors)
	}
	if r.Usage != nil {
		u := *r.Usage
		c.Usage = &u
	}
	return c
}

// ExecutionTimeMs returns the execution time in whole milliseconds, the
// unit surfaced to callers and event metadata.
func (r Record) ExecutionTimeMs() int64 { return r.ExecutionTime.Milliseconds() }
