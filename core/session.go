package core

import (
	"time"

	"github.com/google/uuid"
)

// Session is one refinement run: an original request, an ordered set of
// selected agents and the settings it was started with. Sessions exist for
// the duration of the run; durable persistence is an external concern.
type Session struct {
	ID              string    `json:"id"`
	OriginalRequest string    `json:"original_request"`
	Settings        Settings  `json:"settings"`
	AgentIDs        []string  `json:"agent_ids"`
	CreatedAt       time.Time `json:"created_at"`
}

// NewSession creates a session with a generated id. Duplicate agent ids
// are dropped while preserving first-seen order, so the id list behaves as
// an ordered set.
func NewSession(originalRequest string, agentIDs []string, settings Settings) *Session {
	return &Session{
		ID:              NewID(),
		OriginalRequest: originalRequest,
		Settings:        settings,
		AgentIDs:        dedupe(agentIDs),
		CreatedAt:       time.Now().UTC(),
	}
}

// NewID generates a unique identifier for sessions and events.
func NewID() string { return uuid.NewString() }

// Clone returns an independent copy of the session.
func (s *Session) Clone() *Session {
	c := *s
	c.AgentIDs = make([]string, len(s.AgentIDs))
	copy(c.AgentIDs, s.AgentIDs)
	return &c
}

func dedupe(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))

	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}

	return out
}
