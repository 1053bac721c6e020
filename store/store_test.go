package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/promptforge/refinery/core"
)

func newSession() *core.Session {
	return core.NewSession("improve the login flow", []string{"a1", "a2"}, core.DefaultSettings)
}

func TestCreateAndGet(t *testing.T) {
	s := NewInMemoryStore()
	sess := newSession()

	require.NoError(t, s.Create(sess))

	got, err := s.Get(sess.ID)
	require.NoError(t, err)
	assert.Equal(t, sess.ID, got.ID)

	// stored session is decoupled from the returned copy
	got.AgentIDs[0] = "mutated"
	again, err := s.Get(sess.ID)
	require.NoError(t, err)
	assert.Equal(t, "a1", again.AgentIDs[0])
}

func TestCreateDuplicateFails(t *testing.T) {
	s := NewInMemoryStore()
	sess := newSession()

	require.NoError(t, s.Create(sess))
	assert.Error(t, s.Create(sess))
}

func TestGetUnknownSession(t *testing.T) {
	s := NewInMemoryStore()

	_, err := s.Get("missing")
	assert.ErrorIs(t, err, core.ErrSessionNotFound)
}

func TestPutRecordLifecycle(t *testing.T) {
	s := NewInMemoryStore()
	sess := newSession()
	require.NoError(t, s.Create(sess))

	rec := core.NewRecord(sess.ID, "a1")
	require.NoError(t, s.PutRecord(sess.ID, rec))

	rec.Status = core.StatusRunning
	require.NoError(t, s.PutRecord(sess.ID, rec))

	rec.Status = core.StatusCompleted
	rec.RefinedText = "done"
	require.NoError(t, s.PutRecord(sess.ID, rec))

	records, err := s.Records(sess.ID)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, core.StatusCompleted, records[0].Status)
	assert.Equal(t, "done", records[0].RefinedText)
}

func TestPutRecordRejectsTerminalRegression(t *testing.T) {
	s := NewInMemoryStore()
	sess := newSession()
	require.NoError(t, s.Create(sess))

	done := core.NewRecord(sess.ID, "a1")
	done.Status = core.StatusFailed
	require.NoError(t, s.PutRecord(sess.ID, done))

	later := core.NewRecord(sess.ID, "a1")
	later.Status = core.StatusRunning
	err := s.PutRecord(sess.ID, later)
	assert.ErrorIs(t, err, core.ErrRecordRegression)
}

func TestPutRecordUnknownSession(t *testing.T) {
	s := NewInMemoryStore()

	err := s.PutRecord("missing", core.NewRecord("missing", "a1"))
	assert.ErrorIs(t, err, core.ErrSessionNotFound)
}

func TestRecordsPreserveInsertionOrder(t *testing.T) {
	s := NewInMemoryStore()
	sess := newSession()
	require.NoError(t, s.Create(sess))

	for _, id := range []string{"a2", "a1"} {
		require.NoError(t, s.PutRecord(sess.ID, core.NewRecord(sess.ID, id)))
	}

	records, err := s.Records(sess.ID)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "a2", records[0].AgentID)
	assert.Equal(t, "a1", records[1].AgentID)
}
