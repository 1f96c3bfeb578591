//go:build integration
// +build integration

package reasoning

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pipedesk/assist/internal/log"
	"github.com/pipedesk/assist/internal/testutil"
	"github.com/pipedesk/assist/internal/tools"
)

func TestReasoningStoreSaveAndRead_Integration(t *testing.T) {
	db, cleanup := testutil.SetupTestDB(t)
	defer cleanup()

	store := New(db.Pool, log.NewNop())
	ctx := context.Background()

	err := store.Save(ctx, tools.ReasoningRecord{
		ConversationID: "conv-1",
		Type:           "reasoning",
		Content:        "The pipeline is thin this quarter.",
		Acknowledgment: "Understood.",
		Reasoning:      "The pipeline is thin this quarter.",
		Strategy:       "Prioritize renewals.",
		Concerns:       "Data freshness.",
		NextSteps:      "1. Pull the renewal list.",
		Reflection: tools.ThinkMetadata{
			ThinkingDepth:   "moderate",
			StrategicValue:  4,
			ConfidenceLevel: 0.9,
		},
	})
	require.NoError(t, err)

	traces, err := store.ByConversation(ctx, "conv-1")
	require.NoError(t, err)
	require.Len(t, traces, 1)

	trace := traces[0]
	assert.Equal(t, "reasoning", trace.Type)
	assert.Equal(t, "Prioritize renewals.", trace.Strategy)
	assert.Nil(t, trace.ThinkingBudget)
	assert.Equal(t, "moderate", trace.Reflection.ThinkingDepth)
	assert.Equal(t, 4, trace.Reflection.StrategicValue)
	assert.InDelta(t, 0.9, trace.Reflection.ConfidenceLevel, 0.001)
	assert.NotZero(t, trace.CreatedAt)
}

func TestReasoningStoreScopedByConversation_Integration(t *testing.T) {
	db, cleanup := testutil.SetupTestDB(t)
	defer cleanup()

	store := New(db.Pool, log.NewNop())
	ctx := context.Background()

	for _, conv := range []string{"conv-a", "conv-a", "conv-b"} {
		err := store.Save(ctx, tools.ReasoningRecord{
			ConversationID: conv,
			Type:           "reasoning",
			Content:        "c",
			Reasoning:      "r",
			Strategy:       "s",
			NextSteps:      "n",
		})
		require.NoError(t, err)
	}

	a, err := store.ByConversation(ctx, "conv-a")
	require.NoError(t, err)
	assert.Len(t, a, 2)

	b, err := store.ByConversation(ctx, "conv-b")
	require.NoError(t, err)
	assert.Len(t, b, 1)
}
