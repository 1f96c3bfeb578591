package tools

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pipedesk/assist/internal/log"
)

// ToolThink is the registered name of the think tool.
const ToolThink = "think"

// ThinkInput defines input for the think tool. The tool never hard-fails on
// malformed model output: missing required fields are defaulted to
// placeholder strings instead of rejected.
type ThinkInput struct {
	Acknowledgment string `json:"acknowledgment,omitempty" jsonschema:"Short acknowledgment of the user's request"`
	Reasoning      string `json:"reasoning" jsonschema:"The reasoning behind the planned approach (required)"`
	Strategy       string `json:"strategy" jsonschema:"The strategy for tackling the task (required)"`
	Concerns       string `json:"concerns,omitempty" jsonschema:"Known risks or concerns with the approach"`
	NextSteps      string `json:"next_steps" jsonschema:"The concrete next steps, ideally enumerated (required)"`
}

// ThinkMetadata carries the heuristic scores derived from a reasoning trace.
type ThinkMetadata struct {
	ThinkingDepth   string  `json:"thinking_depth"`   // shallow | moderate | deep
	StrategicValue  int     `json:"strategic_value"`  // 1..10
	ConfidenceLevel float64 `json:"confidence_level"` // 0.1..1.0
}

// ReasoningRecord is the row the think tool persists, keyed by conversation.
// The shape matches the reasoning-trace store contract: the full structured
// input plus the derived reflection metadata.
type ReasoningRecord struct {
	ConversationID string
	Type           string // always "reasoning"
	Content        string
	Acknowledgment string
	Reasoning      string
	Strategy       string
	Concerns       string
	NextSteps      string
	ThinkingBudget *int // reserved, always nil for now
	Reflection     ThinkMetadata
}

// ReasoningStore persists reasoning traces. Defined here, by the consumer;
// internal/reasoning provides the Postgres implementation.
type ReasoningStore interface {
	Save(ctx context.Context, rec ReasoningRecord) error
}

// RegisterThinkTool registers the think tool with the registry.
func RegisterThinkTool(reg *Registry, store ReasoningStore, logger log.Logger) {
	reg.Register(Definition{
		Name: ToolThink,
		Description: "Capture structured reasoning before acting: acknowledgment, " +
			"reasoning, strategy, concerns, and next steps. The trace is persisted " +
			"for audit and replay.",
		InputSchema: schemaFor[ThinkInput](),
	}, func() Executor {
		return &thinkTool{store: store, logger: logger}
	})
}

type thinkTool struct {
	store  ReasoningStore
	logger log.Logger
}

func (t *thinkTool) Execute(ctx context.Context, input map[string]any, ec ExecutionContext) (Result, error) {
	trace := NewTrace()
	trace.Complete("initialize", "Capturing structured reasoning", nil)

	in, err := decodeInput[ThinkInput](input)
	if err != nil {
		// Malformed input from a model is still captured, just empty.
		in = ThinkInput{}
	}
	if in.Reasoning == "" {
		in.Reasoning = "No reasoning provided"
	}
	if in.Strategy == "" {
		in.Strategy = "No strategy specified"
	}
	if in.NextSteps == "" {
		in.NextSteps = "No next steps defined"
	}

	meta := ThinkMetadata{
		ThinkingDepth:   classifyDepth(in.Reasoning),
		StrategicValue:  scoreStrategy(in.Strategy),
		ConfidenceLevel: scoreConfidence(in.Reasoning, in.Concerns, in.NextSteps),
	}
	trace.Complete("analysis", "Derived reasoning metadata", meta)

	now := time.Now().UTC()
	id := fmt.Sprintf("think_%d_%s", now.UnixMilli(), uuid.NewString()[:8])

	rec := ReasoningRecord{
		ConversationID: ec.ConversationID,
		Type:           "reasoning",
		Content:        in.Reasoning,
		Acknowledgment: in.Acknowledgment,
		Reasoning:      in.Reasoning,
		Strategy:       in.Strategy,
		Concerns:       in.Concerns,
		NextSteps:      in.NextSteps,
		Reflection:     meta,
	}

	// The persisted trace IS this tool's output; a failed write is fatal
	// for the call rather than silently dropped.
	if err := t.store.Save(ctx, rec); err != nil {
		trace.Fail("persistence", "Reasoning trace write failed")
		return Result{}, fmt.Errorf("persisting reasoning trace: %w", err)
	}
	trace.Complete("persistence", "Reasoning trace stored", map[string]any{"id": id})

	t.logger.Debug("reasoning captured",
		"conversation_id", ec.ConversationID,
		"depth", meta.ThinkingDepth,
		"request_id", ec.RequestID,
	)

	return success("🤔 Reasoning captured and stored.", map[string]any{
		"id":             id,
		"type":           "thinking",
		"acknowledgment": in.Acknowledgment,
		"reasoning":      in.Reasoning,
		"strategy":       in.Strategy,
		"concerns":       in.Concerns,
		"next_steps":     in.NextSteps,
		"timestamp":      now.Format(time.RFC3339),
		"metadata":       meta,
	}, trace), nil
}

// Connective phrases that indicate multi-step reasoning. The list is fixed;
// classification counts how many distinct phrases appear.
var connectives = []string{
	"however", "therefore", "consequently", "furthermore",
	"moreover", "nevertheless", "whereas", "alternatively", "because",
}

// Strategic verbs that raise the strategic-value score when they appear in
// the strategy text.
var strategicVerbs = []string{
	"prioritize", "optimize", "leverage", "streamline", "align",
	"maximize", "minimize", "mitigate", "consolidate", "focus",
}

// classifyDepth buckets reasoning into shallow/moderate/deep based on
// length and the number of distinct logical connectives used.
func classifyDepth(reasoning string) string {
	lower := strings.ToLower(reasoning)

	found := 0
	for _, c := range connectives {
		if strings.Contains(lower, c) {
			found++
		}
	}

	switch {
	case len(reasoning) > 500 && found >= 3:
		return "deep"
	case len(reasoning) > 200 && found >= 1:
		return "moderate"
	default:
		return "shallow"
	}
}

// scoreStrategy counts strategic verbs in the strategy text, added to a
// base of 3 and clamped to [1, 10].
func scoreStrategy(strategy string) int {
	lower := strings.ToLower(strategy)

	score := 3
	for _, verb := range strategicVerbs {
		if strings.Contains(lower, verb) {
			score++
		}
	}

	if score < 1 {
		score = 1
	}
	if score > 10 {
		score = 10
	}
	return score
}

// scoreConfidence starts at 0.8 and adjusts: long concerns lower it, long
// reasoning and enumerated next steps raise it. Clamped to [0.1, 1.0].
func scoreConfidence(reasoning, concerns, nextSteps string) float64 {
	confidence := 0.8
	if len(concerns) > 50 {
		confidence -= 0.2
	}
	if len(reasoning) > 300 {
		confidence += 0.1
	}
	if strings.Contains(nextSteps, "1.") || strings.Contains(nextSteps, "2.") {
		confidence += 0.1
	}

	if confidence < 0.1 {
		confidence = 0.1
	}
	if confidence > 1.0 {
		confidence = 1.0
	}
	return confidence
}
