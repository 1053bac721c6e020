package orchestrator

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/promptforge/refinery/core"
	"github.com/promptforge/refinery/generate"
	"github.com/promptforge/refinery/internal/textutil"
)

// synthesisTemperature balances fidelity to the inputs against fluent
// merging.
const synthesisTemperature = 0.7

// synthesize runs the optional final pass that merges completed
// refinements into one. It only runs when the session requested it, at
// least two agents completed and the session deadline has not fired;
// otherwise it is skipped entirely, not reported as failed.
func (o *Orchestrator) synthesize(ctx context.Context, session *core.Session, em *emitter) {
	if !session.Settings.EnableSynthesis {
		return
	}

	records, err := o.store.Records(session.ID)
	if err != nil {
		o.logger.Error("failed to load records for synthesis", "sessionID", session.ID, "error", err)
		return
	}

	var completed []core.Record
	for _, rec := range records {
		if rec.Completed() && !rec.IsSynthesis() {
			completed = append(completed, rec)
		}
	}

	if len(completed) < 2 || ctx.Err() != nil {
		return
	}

	em.emit(core.NewProgressEvent(session.ID, core.SynthesisAgentID, core.StageSynthesizing,
		fmt.Sprintf("synthesizing %d refinements", len(completed))))

	rec := core.NewRecord(session.ID, core.SynthesisAgentID)
	rec.Status = core.StatusRunning
	o.putRecord(session.ID, rec)

	callCtx, cancel := context.WithTimeout(ctx, o.agentTimeout)
	defer cancel()

	start := time.Now()
	res, err := o.generator.Generate(callCtx, generate.Request{
		Prompt:      buildSynthesisPrompt(session, completed),
		Temperature: synthesisTemperature,
	})
	rec.ExecutionTime = time.Since(start)

	if err != nil {
		rec.Status = core.StatusFailed
		rec.ErrorMessage = unitError(callCtx, err).Error()
		o.putRecord(session.ID, rec)

		em.emit(core.NewProgressEvent(session.ID, core.SynthesisAgentID,
			core.StageSynthesisFailed, rec.ErrorMessage))

		o.logger.Warn("synthesis failed", "sessionID", session.ID, "error", err)
		return
	}

	rec.Status = core.StatusCompleted
	rec.RefinedText = res.Text
	rec.Usage = res.Usage
	rec.WordCount = textutil.WordCount(res.Text)
	rec.ValidationErrors = validateOutput(rec.WordCount, session.Settings)
	o.putRecord(session.ID, rec)

	em.emit(core.NewProgressEvent(session.ID, core.SynthesisAgentID,
		core.StageSynthesisCompleted, "synthesis completed").
		WithMetadata("word_count", strconv.Itoa(rec.WordCount)).
		WithMetadata("execution_time_ms", strconv.FormatInt(rec.ExecutionTimeMs(), 10)))

	o.logger.Debug("synthesis completed",
		"sessionID", session.ID, "wordCount", rec.WordCount, "duration", rec.ExecutionTime)
}

// buildSynthesisPrompt combines the refined texts of all completed agents
// into one merge instruction.
func buildSynthesisPrompt(session *core.Session, completed []core.Record) string {
	var sb strings.Builder

	sb.WriteString("Multiple specialists refined the same feature request. ")
	sb.WriteString("Merge their refinements into a single, coherent refined request ")
	sb.WriteString("that keeps the strongest points of each.\n\n")
	sb.WriteString("ORIGINAL REQUEST:\n")
	sb.WriteString(session.OriginalRequest)
	sb.WriteString("\n")

	for i, rec := range completed {
		fmt.Fprintf(&sb, "\nREFINEMENT %d (%s):\n%s\n", i+1, rec.AgentID, rec.RefinedText)
	}

	fmt.Fprintf(&sb, "\nREQUIREMENTS:\n- Output length: %d-%d words\n- Output only the merged refined request",
		session.Settings.MinOutputWords, session.Settings.MaxOutputWords)

	return sb.String()
}
