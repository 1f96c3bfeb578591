package tools

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pipedesk/assist/internal/log"
)

func newThinkRegistry(t *testing.T, store *fakeReasoningStore) *Registry {
	t.Helper()
	reg := NewRegistry(log.NewNop())
	RegisterThinkTool(reg, store, log.NewNop())
	return reg
}

func TestThinkClassifiesDeepReasoning(t *testing.T) {
	// Long reasoning with several distinct connectives.
	reasoning := strings.Repeat("The pipeline data shows a concentration risk. ", 12) +
		"However, the largest accounts renew in Q4; therefore the exposure is seasonal. " +
		"Furthermore, the new contacts suggest expansion potential."
	require.Greater(t, len(reasoning), 500)

	store := &fakeReasoningStore{}
	reg := newThinkRegistry(t, store)

	result, err := reg.Execute(context.Background(), ToolThink, map[string]any{
		"reasoning":  reasoning,
		"strategy":   "Prioritize the Q4 renewals and leverage the new contacts.",
		"next_steps": "1. Review renewal dates. 2. Schedule outreach.",
	}, authedCall())

	require.NoError(t, err)
	assert.True(t, result.OK())

	meta, ok := result.Data["metadata"].(ThinkMetadata)
	require.True(t, ok)
	assert.Equal(t, "deep", meta.ThinkingDepth)
	assert.Equal(t, 5, meta.StrategicValue, "base 3 plus prioritize and leverage")
	assert.Equal(t, 1.0, meta.ConfidenceLevel, "long reasoning and enumerated steps max it out")
}

func TestThinkClassifiesModerateReasoning(t *testing.T) {
	reasoning := strings.Repeat("The account history points at churn risk. ", 5) +
		"However, usage has recovered in the last month."
	require.Greater(t, len(reasoning), 200)
	require.Less(t, len(reasoning), 500)

	store := &fakeReasoningStore{}
	reg := newThinkRegistry(t, store)

	result, err := reg.Execute(context.Background(), ToolThink, map[string]any{
		"reasoning":  reasoning,
		"strategy":   "Check in with the account owner.",
		"next_steps": "Email the owner.",
	}, authedCall())

	require.NoError(t, err)
	meta := result.Data["metadata"].(ThinkMetadata)
	assert.Equal(t, "moderate", meta.ThinkingDepth)
	assert.Equal(t, 3, meta.StrategicValue)
}

func TestThinkNeverFailsOnEmptyInput(t *testing.T) {
	store := &fakeReasoningStore{}
	reg := newThinkRegistry(t, store)

	result, err := reg.Execute(context.Background(), ToolThink, map[string]any{}, authedCall())

	require.NoError(t, err, "missing fields are defaulted, never rejected")
	assert.True(t, result.OK())
	assert.Equal(t, "No reasoning provided", result.Data["reasoning"])
	assert.Equal(t, "No strategy specified", result.Data["strategy"])
	assert.Equal(t, "No next steps defined", result.Data["next_steps"])

	meta := result.Data["metadata"].(ThinkMetadata)
	assert.Equal(t, "shallow", meta.ThinkingDepth)
}

func TestThinkConcernsLowerConfidence(t *testing.T) {
	store := &fakeReasoningStore{}
	reg := newThinkRegistry(t, store)

	result, err := reg.Execute(context.Background(), ToolThink, map[string]any{
		"reasoning":  "Short take.",
		"strategy":   "Proceed.",
		"concerns":   strings.Repeat("The data quality in this account is questionable. ", 3),
		"next_steps": "Verify the data first.",
	}, authedCall())

	require.NoError(t, err)
	meta := result.Data["metadata"].(ThinkMetadata)
	assert.InDelta(t, 0.6, meta.ConfidenceLevel, 0.001)
}

func TestThinkPersistsReasoningRecord(t *testing.T) {
	store := &fakeReasoningStore{}
	reg := newThinkRegistry(t, store)

	_, err := reg.Execute(context.Background(), ToolThink, map[string]any{
		"acknowledgment": "Got it.",
		"reasoning":      "The deal stalled after the demo.",
		"strategy":       "Re-engage the champion.",
		"concerns":       "Champion may have left.",
		"next_steps":     "1. Check LinkedIn. 2. Email.",
	}, authedCall())

	require.NoError(t, err)
	require.Len(t, store.records, 1)
	rec := store.records[0]
	assert.Equal(t, "conv-1", rec.ConversationID)
	assert.Equal(t, "reasoning", rec.Type)
	assert.Equal(t, "The deal stalled after the demo.", rec.Content)
	assert.Equal(t, rec.Content, rec.Reasoning)
	assert.Equal(t, "Re-engage the champion.", rec.Strategy)
	assert.Nil(t, rec.ThinkingBudget)
	assert.NotEmpty(t, rec.Reflection.ThinkingDepth)
}

func TestThinkPersistenceFailureIsFatal(t *testing.T) {
	store := &fakeReasoningStore{saveErr: errBackend}
	reg := newThinkRegistry(t, store)

	_, err := reg.Execute(context.Background(), ToolThink, map[string]any{
		"reasoning":  "Anything.",
		"strategy":   "Anything.",
		"next_steps": "Anything.",
	}, authedCall())

	require.Error(t, err, "a lost reasoning trace must not be silently swallowed")
	assert.ErrorIs(t, err, errBackend)
}

func TestThinkResultCarriesGeneratedID(t *testing.T) {
	store := &fakeReasoningStore{}
	reg := newThinkRegistry(t, store)

	result, err := reg.Execute(context.Background(), ToolThink, map[string]any{
		"reasoning":  "x",
		"strategy":   "y",
		"next_steps": "z",
	}, authedCall())

	require.NoError(t, err)
	id, _ := result.Data["id"].(string)
	assert.True(t, strings.HasPrefix(id, "think_"), "id %q", id)
	assert.Equal(t, "thinking", result.Data["type"])
	assert.NotEmpty(t, result.Data["timestamp"])
}
