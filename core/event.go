package core

import "time"

// Stage identifies a progress transition within a session. For a single
// agent the observed sequence is always a subsequence of
// queued, started, completed|failed; synthesis stages use the reserved
// synthesis agent id.
type Stage string

const (
	// StageQueued indicates an execution unit has been scheduled.
	StageQueued Stage = "queued"
	// StageStarted indicates the generation call is in flight.
	StageStarted Stage = "started"
	// StageCompleted indicates the agent produced refined text.
	StageCompleted Stage = "completed"
	// StageFailed indicates the agent errored, timed out or was cancelled.
	StageFailed Stage = "failed"
	// StageSynthesizing indicates the synthesis pass has begun.
	StageSynthesizing Stage = "synthesizing"
	// StageSynthesisCompleted indicates the synthesis pass produced text.
	StageSynthesisCompleted Stage = "synthesis_completed"
	// StageSynthesisFailed indicates the synthesis pass errored.
	StageSynthesisFailed Stage = "synthesis_failed"
)

// ProgressEvent is a timestamped notification of a stage transition,
// published to the session topic as it happens. Events are immutable after
// emission.
type ProgressEvent struct {
	ID        string            `json:"id"`
	SessionID string            `json:"session_id"`
	AgentID   string            `json:"agent_id"`
	Stage     Stage             `json:"stage"`
	Message   string            `json:"message"`
	Timestamp time.Time         `json:"timestamp"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

// NewProgressEvent creates an event with a generated id and UTC timestamp.
func NewProgressEvent(sessionID, agentID string, stage Stage, message string) ProgressEvent {
	return ProgressEvent{
		ID:        NewID(),
		SessionID: sessionID,
		AgentID:   agentID,
		Stage:     stage,
		Message:   message,
		Timestamp: time.Now().UTC(),
	}
}

// WithMetadata returns a copy of the event carrying an extra metadata pair.
func (e ProgressEvent) WithMetadata(key, value string) ProgressEvent {
	md := make(map[string]string, len(e.Metadata)+1)
	for k, v := range e.Metadata {
		md[k] = v
	}
	md[key] = value
	e.Metadata = md
	return e
}

// IsSynthesis reports whether the event belongs to the synthesis pass.
func (e ProgressEvent) IsSynthesis() bool { return e.AgentID == SynthesisAgentID }

// Topic returns the pub/sub topic for a session, one topic per session
// shared by all of its agents.
func Topic(sessionID string) string { return "refinement:" + sessionID }
