package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/promptforge/refinery/core"
	"github.com/promptforge/refinery/generate"
	"github.com/promptforge/refinery/internal/textutil"
)

// requestExcerptLen bounds the request excerpt embedded in queued event
// messages.
const requestExcerptLen = 80

// promptData is the variable set available to agent prompt templates.
type promptData struct {
	OriginalRequest       string
	MinWords              int
	MaxWords              int
	IncludeProjectContext bool
}

// runUnit drives one agent from queued to a terminal record. Failures are
// absorbed into the record; nothing a single unit does affects its
// siblings.
func (o *Orchestrator) runUnit(
	ctx context.Context,
	session *core.Session,
	def core.AgentDefinition,
	sem *semaphore.Weighted,
	em *emitter,
) {
	rec := core.NewRecord(session.ID, def.ID)
	o.putRecord(session.ID, rec)
	em.emit(core.NewProgressEvent(session.ID, def.ID, core.StageQueued,
		"queued: "+textutil.Truncate(session.OriginalRequest, requestExcerptLen)))

	if err := sem.Acquire(ctx, 1); err != nil {
		o.failUnit(session, &rec, em, unitError(ctx, err))
		return
	}
	defer sem.Release(1)

	rec.Status = core.StatusRunning
	o.putRecord(session.ID, rec)
	em.emit(core.NewProgressEvent(session.ID, def.ID, core.StageStarted, def.Name+" started"))

	prompt, err := textutil.RenderTemplate(def.PromptTemplate, promptData{
		OriginalRequest:       session.OriginalRequest,
		MinWords:              session.Settings.MinOutputWords,
		MaxWords:              session.Settings.MaxOutputWords,
		IncludeProjectContext: session.Settings.IncludeProjectContext,
	})
	if err != nil {
		o.failUnit(session, &rec, em, fmt.Errorf("prompt template: %w", err))
		return
	}

	req := generate.Request{
		Prompt:      prompt,
		Temperature: def.Temperature,
	}
	if session.Settings.IncludeProjectContext {
		req.Capabilities = def.CapabilityStrings()
	}

	callCtx, cancel := context.WithTimeout(ctx, o.agentTimeout)
	defer cancel()

	start := time.Now()
	res, err := o.generator.Generate(callCtx, req)
	rec.ExecutionTime = time.Since(start)

	if err != nil {
		o.failUnit(session, &rec, em, unitError(callCtx, err))
		return
	}

	rec.Status = core.StatusCompleted
	rec.RefinedText = res.Text
	rec.Usage = res.Usage
	rec.WordCount = textutil.WordCount(res.Text)
	rec.ValidationErrors = validateOutput(rec.WordCount, session.Settings)
	o.putRecord(session.ID, rec)

	ev := core.NewProgressEvent(session.ID, def.ID, core.StageCompleted, def.Name+" completed").
		WithMetadata("word_count", strconv.Itoa(rec.WordCount)).
		WithMetadata("execution_time_ms", strconv.FormatInt(rec.ExecutionTimeMs(), 10))
	em.emit(ev)

	o.logger.Debug("agent completed",
		"sessionID", session.ID,
		"agentID", def.ID,
		"wordCount", rec.WordCount,
		"duration", rec.ExecutionTime)
}

// failUnit finalizes a record as failed and publishes the transition.
func (o *Orchestrator) failUnit(session *core.Session, rec *core.Record, em *emitter, err error) {
	rec.Status = core.StatusFailed
	rec.ErrorMessage = err.Error()
	o.putRecord(session.ID, *rec)

	em.emit(core.NewProgressEvent(session.ID, rec.AgentID, core.StageFailed, rec.ErrorMessage))

	o.logger.Warn("agent failed",
		"sessionID", session.ID, "agentID", rec.AgentID, "error", err)
}

// unitError normalizes context-driven failures into readable reasons.
func unitError(ctx context.Context, err error) error {
	switch {
	case errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded):
		return fmt.Errorf("generation timed out: %w", err)
	case errors.Is(err, context.Canceled) || errors.Is(ctx.Err(), context.Canceled):
		return fmt.Errorf("session cancelled: %w", err)
	default:
		return fmt.Errorf("generation failed: %w", err)
	}
}

// validateOutput checks the refined word count against the configured
// bounds. Findings are advisory; the record stays completed.
func validateOutput(wordCount int, settings core.Settings) []string {
	var findings []string

	if wordCount < settings.MinOutputWords {
		findings = append(findings, fmt.Sprintf(
			"output is %d words, below the minimum of %d", wordCount, settings.MinOutputWords))
	}

	if wordCount > settings.MaxOutputWords {
		findings = append(findings, fmt.Sprintf(
			"output is %d words, above the maximum of %d", wordCount, settings.MaxOutputWords))
	}

	return findings
}
