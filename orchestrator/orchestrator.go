// Package orchestrator runs refinement sessions: it resolves the selected
// agents, fans out one execution unit per agent with bounded concurrency,
// isolates per-agent failures, enforces per-agent and session deadlines,
// publishes progress as units change state and hands the terminal record
// set to the aggregator. An optional synthesis pass merges completed
// refinements into one.
package orchestrator

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/promptforge/refinery/aggregate"
	"github.com/promptforge/refinery/channel"
	"github.com/promptforge/refinery/core"
	"github.com/promptforge/refinery/generate"
	"github.com/promptforge/refinery/internal/textutil"
	"github.com/promptforge/refinery/logging"
	"github.com/promptforge/refinery/registry"
	"github.com/promptforge/refinery/store"
)

// Options holds dependency + configuration overrides passed to New().
type Options struct {
	// MaxConcurrent limits concurrently running execution units. This is
	// a safety bound on backend load, not a tuning knob.
	MaxConcurrent int
	// AgentTimeout bounds one generation call.
	AgentTimeout time.Duration
	// SessionTimeout bounds the wall-clock time of a whole session.
	SessionTimeout time.Duration
	// Publisher receives progress events. Optional; nil disables
	// publishing.
	Publisher channel.Publisher
	// Store persists sessions and records during the run.
	Store store.SessionStore
	// Logging services.
	Logger logging.Logger
}

// ProgressFunc observes progress events in the streaming form. Invocations
// are serialized; the callback must not block for long since it sits on
// the emission path of every unit.
type ProgressFunc func(ev core.ProgressEvent)

// Orchestrator coordinates refinement sessions. Public methods are safe
// for concurrent use.
type Orchestrator struct {
	registry  *registry.Registry
	generator generate.Generator

	maxConcurrent  int
	agentTimeout   time.Duration
	sessionTimeout time.Duration

	publisher channel.Publisher
	store     store.SessionStore
	logger    logging.Logger

	activeSessions map[string]context.CancelFunc
	mu             sync.Mutex
}

// New constructs an Orchestrator with optional overrides.
func New(reg *registry.Registry, gen generate.Generator, optFns ...func(o *Options)) *Orchestrator {
	opts := Options{
		MaxConcurrent:  6,
		AgentTimeout:   2 * time.Minute,
		SessionTimeout: 10 * time.Minute,
		Store:          store.NewInMemoryStore(),
		Logger:         logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	return &Orchestrator{
		registry:       reg,
		generator:      gen,
		maxConcurrent:  opts.MaxConcurrent,
		agentTimeout:   opts.AgentTimeout,
		sessionTimeout: opts.SessionTimeout,
		publisher:      opts.Publisher,
		store:          opts.Store,
		logger:         opts.Logger,
		activeSessions: make(map[string]context.CancelFunc),
	}
}

// Store exposes the session store backing this orchestrator.
func (o *Orchestrator) Store() store.SessionStore { return o.store }

// Run executes a session to completion and returns the aggregated result.
// Per-agent failures are absorbed into failed records; only session-level
// preconditions (invalid settings, zero resolvable agents) surface as an
// error, and they do so before any record is produced.
func (o *Orchestrator) Run(ctx context.Context, session *core.Session) (*aggregate.SessionResult, error) {
	return o.run(ctx, session, nil)
}

// RunStreaming is Run with a progress callback. Both forms share one
// execution core; events are additionally published to the configured
// Publisher either way.
func (o *Orchestrator) RunStreaming(
	ctx context.Context,
	session *core.Session,
	onProgress ProgressFunc,
) (*aggregate.SessionResult, error) {
	return o.run(ctx, session, onProgress)
}

// Cancel aborts a running session. The cancellation is broadcast: every
// still-running execution unit terminates promptly as failed with a
// cancellation reason.
func (o *Orchestrator) Cancel(sessionID string) error {
	o.mu.Lock()
	cancel, exists := o.activeSessions[sessionID]
	o.mu.Unlock()

	if !exists {
		return fmt.Errorf("session %q is not running: %w", sessionID, core.ErrSessionNotFound)
	}

	cancel()

	return nil
}

func (o *Orchestrator) run(
	ctx context.Context,
	session *core.Session,
	onProgress ProgressFunc,
) (*aggregate.SessionResult, error) {
	if err := session.Settings.Validate(); err != nil {
		return nil, err
	}

	resolved := o.registry.GetByIDs(session.AgentIDs)
	if len(resolved) == 0 {
		return nil, fmt.Errorf("session %q: %w", session.ID, core.ErrNoAgents)
	}
	unresolved := unresolvedIDs(session.AgentIDs, resolved)

	if err := o.store.Create(session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, o.sessionTimeout)
	defer cancel()

	o.mu.Lock()
	o.activeSessions[session.ID] = cancel
	o.mu.Unlock()
	defer func() {
		o.mu.Lock()
		delete(o.activeSessions, session.ID)
		o.mu.Unlock()
	}()

	em := &emitter{
		publisher:  o.publisher,
		onProgress: onProgress,
		topic:      core.Topic(session.ID),
		logger:     o.logger,
	}

	start := time.Now()
	o.logger.Info("session started",
		"sessionID", session.ID, "agents", len(resolved), "unresolved", len(unresolved))

	o.failUnresolved(session, unresolved, em)
	o.dispatch(ctx, session, resolved, em)
	o.synthesize(ctx, session, em)

	records, err := o.store.Records(session.ID)
	if err != nil {
		return nil, err
	}

	result, err := aggregate.Build(session.ID, records, time.Since(start))
	if err != nil {
		return nil, err
	}

	o.logger.Info("session finished",
		"sessionID", session.ID,
		"completed", result.CompletedCount,
		"failed", result.FailedCount,
		"duration", result.ExecutionTime)

	return result, nil
}

// failUnresolved records an immediate failure for every selected id the
// registry does not know. No generation is attempted for them.
func (o *Orchestrator) failUnresolved(session *core.Session, ids []string, em *emitter) {
	for _, id := range ids {
		em.emit(core.NewProgressEvent(session.ID, id, core.StageQueued,
			"queued: "+textutil.Truncate(session.OriginalRequest, requestExcerptLen)))

		rec := core.NewRecord(session.ID, id)
		rec.Status = core.StatusFailed
		rec.ErrorMessage = fmt.Sprintf("agent %q not found in registry", id)
		o.putRecord(session.ID, rec)

		em.emit(core.NewProgressEvent(session.ID, id, core.StageFailed, rec.ErrorMessage))
	}
}

// dispatch fans out one execution unit per resolved agent and blocks until
// all of them reach a terminal record.
func (o *Orchestrator) dispatch(
	ctx context.Context,
	session *core.Session,
	resolved []core.AgentDefinition,
	em *emitter,
) {
	sem := semaphore.NewWeighted(int64(o.maxConcurrent))

	var wg sync.WaitGroup
	for _, def := range resolved {
		wg.Add(1)
		go func(def core.AgentDefinition) {
			defer wg.Done()
			o.runUnit(ctx, session, def, sem, em)
		}(def)
	}

	wg.Wait()
}

// putRecord writes a record slot, logging instead of failing the session
// when the store rejects the write.
func (o *Orchestrator) putRecord(sessionID string, rec core.Record) {
	if err := o.store.PutRecord(sessionID, rec); err != nil {
		o.logger.Error("failed to store record",
			"sessionID", sessionID, "agentID", rec.AgentID, "error", err)
	}
}

// unresolvedIDs returns the selected ids that did not resolve, preserving
// selection order.
func unresolvedIDs(selected []string, resolved []core.AgentDefinition) []string {
	known := make(map[string]bool, len(resolved))
	for _, def := range resolved {
		known[def.ID] = true
	}

	var out []string
	for _, id := range selected {
		if !known[id] {
			out = append(out, id)
		}
	}

	return out
}

// emitter serializes progress delivery for one session. Publishing is
// fire-and-forget and never delays unit execution beyond the serialized
// callback itself.
type emitter struct {
	publisher  channel.Publisher
	onProgress ProgressFunc
	topic      string
	logger     logging.Logger
	mu         sync.Mutex
}

func (e *emitter) emit(ev core.ProgressEvent) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.publisher != nil {
		if err := e.publisher.Publish(e.topic, ev); err != nil {
			e.logger.Warn("failed to publish progress event",
				"topic", e.topic, "stage", ev.Stage, "error", err)
		}
	}

	if e.onProgress != nil {
		e.onProgress(ev)
	}
}
