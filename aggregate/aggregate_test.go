package aggregate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/promptforge/refinery/core"
)

func completed(agentID string, tokens int) core.Record {
	rec := core.NewRecord("s1", agentID)
	rec.Status = core.StatusCompleted
	rec.RefinedText = "text from " + agentID
	rec.Usage = &core.TokenUsage{PromptTokens: tokens, CompletionTokens: tokens, TotalTokens: 2 * tokens}
	return rec
}

func failed(agentID string) core.Record {
	rec := core.NewRecord("s1", agentID)
	rec.Status = core.StatusFailed
	rec.ErrorMessage = "boom"
	return rec
}

func TestBuildPartitionsRecords(t *testing.T) {
	records := []core.Record{completed("a1", 10), failed("a2"), completed("a3", 5)}

	result, err := Build("s1", records, 3*time.Second)
	require.NoError(t, err)

	assert.Equal(t, 2, result.CompletedCount)
	assert.Equal(t, 1, result.FailedCount)
	assert.Equal(t, 3, result.TotalCount)
	assert.Equal(t, "a1", result.Completed[0].AgentID)
	assert.Equal(t, "a3", result.Completed[1].AgentID)
	assert.Equal(t, "a2", result.Failed[0].AgentID)
	assert.Nil(t, result.Synthesis)
	assert.Equal(t, 3*time.Second, result.ExecutionTime)
}

func TestBuildRoutesSynthesisRecord(t *testing.T) {
	records := []core.Record{
		completed("a1", 10),
		completed("a2", 10),
		completed(core.SynthesisAgentID, 20),
	}

	result, err := Build("s1", records, time.Second)
	require.NoError(t, err)

	require.NotNil(t, result.Synthesis)
	assert.Equal(t, core.SynthesisAgentID, result.Synthesis.AgentID)
	// synthesis does not count toward per-agent totals
	assert.Equal(t, 2, result.TotalCount)
}

func TestBuildDropsFailedSynthesis(t *testing.T) {
	records := []core.Record{completed("a1", 10), failed(core.SynthesisAgentID)}

	result, err := Build("s1", records, time.Second)
	require.NoError(t, err)

	assert.Nil(t, result.Synthesis)
	assert.Equal(t, 1, result.TotalCount)
}

func TestBuildRejectsNonTerminalRecords(t *testing.T) {
	pending := core.NewRecord("s1", "a1")

	_, err := Build("s1", []core.Record{pending}, time.Second)
	assert.Error(t, err)
}

func TestTotalUsage(t *testing.T) {
	records := []core.Record{
		completed("a1", 10),
		completed("a2", 5),
		completed(core.SynthesisAgentID, 2),
	}

	result, err := Build("s1", records, time.Second)
	require.NoError(t, err)

	usage := result.TotalUsage()
	assert.Equal(t, 17, usage.PromptTokens)
	assert.Equal(t, 34, usage.TotalTokens)
}
