// Package store holds refinement sessions and their per-agent records
// during and after a run. The in-memory implementation is the default
// backend; alternative backends can satisfy SessionStore.
package store

import (
	"fmt"
	"sync"

	"github.com/promptforge/refinery/core"
)

// SessionStore is the persistence boundary for refinement runs. All
// returned values are safe for the caller to mutate.
type SessionStore interface {
	// Create registers a new session. Creating an existing id fails.
	Create(session *core.Session) error

	// Get returns the session or core.ErrSessionNotFound.
	Get(id string) (*core.Session, error)

	// PutRecord inserts or updates the record slot for the record's
	// agent. Terminal records are never regressed; such writes fail
	// with core.ErrRecordRegression.
	PutRecord(sessionID string, record core.Record) error

	// Records returns all records for a session in insertion order.
	Records(sessionID string) ([]core.Record, error)
}

// InMemoryStore is a thread-safe SessionStore backed by maps. Values are
// cloned on the way in and out so callers cannot alias stored state.
type InMemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*core.Session
	records  map[string]map[string]core.Record
	order    map[string][]string
}

// NewInMemoryStore constructs an empty store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		sessions: make(map[string]*core.Session),
		records:  make(map[string]map[string]core.Record),
		order:    make(map[string][]string),
	}
}

// Create implements SessionStore.
func (s *InMemoryStore) Create(session *core.Session) error {
	if session == nil || session.ID == "" {
		return fmt.Errorf("session id must not be empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.sessions[session.ID]; exists {
		return fmt.Errorf("session %q already exists", session.ID)
	}

	s.sessions[session.ID] = session.Clone()
	s.records[session.ID] = make(map[string]core.Record)

	return nil
}

// Get implements SessionStore.
func (s *InMemoryStore) Get(id string) (*core.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[id]
	if !ok {
		return nil, fmt.Errorf("session %q: %w", id, core.ErrSessionNotFound)
	}

	return session.Clone(), nil
}

// PutRecord implements SessionStore.
func (s *InMemoryStore) PutRecord(sessionID string, record core.Record) error {
	if record.AgentID == "" {
		return fmt.Errorf("record agent id must not be empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	slots, ok := s.records[sessionID]
	if !ok {
		return fmt.Errorf("session %q: %w", sessionID, core.ErrSessionNotFound)
	}

	if prev, exists := slots[record.AgentID]; exists {
		if prev.Status.Terminal() {
			return fmt.Errorf("agent %q already %s: %w",
				record.AgentID, prev.Status, core.ErrRecordRegression)
		}
	} else {
		s.order[sessionID] = append(s.order[sessionID], record.AgentID)
	}

	slots[record.AgentID] = record.Clone()

	return nil
}

// Records implements SessionStore.
func (s *InMemoryStore) Records(sessionID string) ([]core.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	slots, ok := s.records[sessionID]
	if !ok {
		return nil, fmt.Errorf("session %q: %w", sessionID, core.ErrSessionNotFound)
	}

	out := make([]core.Record, 0, len(slots))
	for _, agentID := range s.order[sessionID] {
		out = append(out, slots[agentID].Clone())
	}

	return out, nil
}
