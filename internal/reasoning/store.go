// Package reasoning persists the think tool's reasoning traces to
// PostgreSQL. The trace is the tool's primary output, so writes here are
// fatal for the tool call when they fail; there is no retry.
package reasoning

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pipedesk/assist/internal/log"
	"github.com/pipedesk/assist/internal/tools"
)

// Trace is one persisted reasoning row as read back from the store.
type Trace struct {
	ID             int64               `json:"id"`
	ConversationID string              `json:"conversation_id"`
	Type           string              `json:"type"`
	Content        string              `json:"content"`
	Acknowledgment string              `json:"acknowledgment,omitempty"`
	Reasoning      string              `json:"reasoning"`
	Strategy       string              `json:"strategy"`
	Concerns       string              `json:"concerns,omitempty"`
	NextSteps      string              `json:"next_steps"`
	ThinkingBudget *int                `json:"thinking_budget"`
	Reflection     tools.ThinkMetadata `json:"reflection_data"`
	CreatedAt      time.Time           `json:"created_at"`
}

// Store implements tools.ReasoningStore on a pgx connection pool.
// Safe for concurrent use.
type Store struct {
	pool   *pgxpool.Pool
	logger log.Logger
}

// New creates a Store.
func New(pool *pgxpool.Pool, logger log.Logger) *Store {
	if logger == nil {
		logger = log.NewNop()
	}
	return &Store{pool: pool, logger: logger}
}

// Save inserts one reasoning trace.
func (s *Store) Save(ctx context.Context, rec tools.ReasoningRecord) error {
	reflection, err := json.Marshal(rec.Reflection)
	if err != nil {
		return fmt.Errorf("encoding reflection data: %w", err)
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO reasoning_traces
		 (conversation_id, type, content, acknowledgment, reasoning, strategy, concerns, next_steps, thinking_budget, reflection_data)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		rec.ConversationID, rec.Type, rec.Content, rec.Acknowledgment,
		rec.Reasoning, rec.Strategy, rec.Concerns, rec.NextSteps,
		rec.ThinkingBudget, reflection)
	if err != nil {
		return fmt.Errorf("inserting reasoning trace: %w", err)
	}

	s.logger.Debug("reasoning trace stored", "conversation_id", rec.ConversationID)
	return nil
}

// ByConversation returns all traces for a conversation, oldest first.
// Used by audit and replay tooling, not by the tools themselves.
func (s *Store) ByConversation(ctx context.Context, conversationID string) ([]Trace, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, conversation_id, type, content, acknowledgment, reasoning, strategy, concerns, next_steps, thinking_budget, reflection_data, created_at
		 FROM reasoning_traces
		 WHERE conversation_id = $1
		 ORDER BY created_at, id`,
		conversationID)
	if err != nil {
		return nil, fmt.Errorf("listing reasoning traces: %w", err)
	}
	defer rows.Close()

	var traces []Trace
	for rows.Next() {
		var (
			t          Trace
			reflection []byte
		)
		if err := rows.Scan(&t.ID, &t.ConversationID, &t.Type, &t.Content,
			&t.Acknowledgment, &t.Reasoning, &t.Strategy, &t.Concerns,
			&t.NextSteps, &t.ThinkingBudget, &reflection, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning reasoning trace: %w", err)
		}
		if err := json.Unmarshal(reflection, &t.Reflection); err != nil {
			return nil, fmt.Errorf("decoding reflection data: %w", err)
		}
		traces = append(traces, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing reasoning traces: %w", err)
	}
	return traces, nil
}
