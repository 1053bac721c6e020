// Package refinery provides a high-level façade over the orchestration
// core for refining feature requests with a catalog of specialist agents.
// Most applications interact with this package by:
//  1. Creating a Refinery via New() (optionally overriding the catalog,
//     generation backend, broker, store or logger)
//  2. Running refinements synchronously (Refine) or with live progress
//     (RefineStream or Subscribe)
//  3. Finalizing the session with the selection package
//
// The façade delegates execution to orchestrator.Orchestrator while
// keeping setup ergonomics concise. All defaults are safe for local
// development and testing; production deployments typically supply a real
// generation backend and a structured logger.
package refinery

import (
	"context"
	"time"

	"github.com/promptforge/refinery/aggregate"
	"github.com/promptforge/refinery/channel"
	"github.com/promptforge/refinery/core"
	"github.com/promptforge/refinery/generate"
	"github.com/promptforge/refinery/logging"
	"github.com/promptforge/refinery/orchestrator"
	"github.com/promptforge/refinery/registry"
	"github.com/promptforge/refinery/store"
)

// Options configures the Refinery instance.
type Options struct {
	// Registry is the agent catalog. Defaults to the built-in catalog.
	Registry *registry.Registry

	// Generator is the generation backend. Defaults to a mock generator
	// suitable only for development and tests.
	Generator generate.Generator

	// Broker distributes progress events. Defaults to an in-memory broker.
	Broker channel.Broker

	// Store persists sessions and records. Defaults to in-memory.
	Store store.SessionStore

	// Orchestration limits (zero values keep the orchestrator defaults).
	MaxConcurrent  int
	AgentTimeout   time.Duration
	SessionTimeout time.Duration

	// Logger (defaults to NoOp logger if nil)
	Logger logging.Logger
}

// Refinery is the high-level façade aggregating the catalog, broker and
// orchestration core.
type Refinery struct {
	opts  Options
	orch  *orchestrator.Orchestrator
	owned bool
}

// New creates a Refinery with optional overrides. Any unset collaborator
// is initialized with an in-memory implementation.
func New(optFns ...func(o *Options)) *Refinery {
	opts := Options{
		Registry:  registry.Default(),
		Generator: generate.NewMockGenerator(),
		Store:     store.NewInMemoryStore(),
		Logger:    logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	owned := false
	if opts.Broker == nil {
		opts.Broker = channel.NewInMemoryBroker()
		owned = true
	}

	orch := orchestrator.New(opts.Registry, opts.Generator, func(o *orchestrator.Options) {
		o.Publisher = opts.Broker
		o.Store = opts.Store
		o.Logger = opts.Logger
		if opts.MaxConcurrent > 0 {
			o.MaxConcurrent = opts.MaxConcurrent
		}
		if opts.AgentTimeout > 0 {
			o.AgentTimeout = opts.AgentTimeout
		}
		if opts.SessionTimeout > 0 {
			o.SessionTimeout = opts.SessionTimeout
		}
	})

	return &Refinery{opts: opts, orch: orch, owned: owned}
}

// Catalog returns the agent definitions available for selection, in
// declaration order.
func (r *Refinery) Catalog() []core.AgentDefinition {
	return r.opts.Registry.List()
}

// Refine runs one refinement session to completion. When agentIDs is
// empty the whole catalog participates.
func (r *Refinery) Refine(
	ctx context.Context,
	originalRequest string,
	agentIDs []string,
	settings core.Settings,
) (*aggregate.SessionResult, error) {
	session := r.newSession(originalRequest, agentIDs, settings)
	return r.orch.Run(ctx, session)
}

// RefineStream is Refine with a progress callback invoked as each agent
// changes state. Events also reach any Subscribe observers.
func (r *Refinery) RefineStream(
	ctx context.Context,
	originalRequest string,
	agentIDs []string,
	settings core.Settings,
	onProgress orchestrator.ProgressFunc,
) (*aggregate.SessionResult, error) {
	session := r.newSession(originalRequest, agentIDs, settings)
	return r.orch.RunStreaming(ctx, session, onProgress)
}

// NewSession prepares a session without running it, so callers can
// subscribe to its topic before dispatch.
func (r *Refinery) NewSession(
	originalRequest string,
	agentIDs []string,
	settings core.Settings,
) *core.Session {
	return r.newSession(originalRequest, agentIDs, settings)
}

// Run executes a previously prepared session.
func (r *Refinery) Run(ctx context.Context, session *core.Session) (*aggregate.SessionResult, error) {
	return r.orch.Run(ctx, session)
}

// Subscribe attaches an observer to a session's progress topic. Events
// published before the subscription are not replayed.
func (r *Refinery) Subscribe(sessionID string) (*channel.Subscription, error) {
	return r.opts.Broker.Subscribe(core.Topic(sessionID))
}

// Cancel aborts a running session; every still-running agent terminates
// promptly as failed with a cancellation reason.
func (r *Refinery) Cancel(sessionID string) error {
	return r.orch.Cancel(sessionID)
}

// Session returns a stored session by id.
func (r *Refinery) Session(id string) (*core.Session, error) {
	return r.opts.Store.Get(id)
}

// Records returns the record set of a session, in dispatch order.
func (r *Refinery) Records(sessionID string) ([]core.Record, error) {
	return r.opts.Store.Records(sessionID)
}

// Close releases resources owned by the façade. Brokers supplied by the
// caller are left untouched.
func (r *Refinery) Close() {
	if r.owned {
		r.opts.Broker.Close()
	}
}

func (r *Refinery) newSession(originalRequest string, agentIDs []string, settings core.Settings) *core.Session {
	if len(agentIDs) == 0 {
		agentIDs = r.opts.Registry.IDs()
	}
	return core.NewSession(originalRequest, agentIDs, settings)
}
