package tools

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/pipedesk/assist/internal/log"
)

// ErrToolNotFound is returned by Execute when no tool with the requested
// name has been registered. Unlike business-rule failures, which come back
// as structured Results, an unknown tool name is a caller/integration bug
// and therefore propagates as an error.
var ErrToolNotFound = errors.New("tool not found")

// Call carries the caller-supplied identity for one Execute invocation.
// ConversationID is required by convention; AuthToken and UserID are passed
// through to the tool's ExecutionContext unchanged.
type Call struct {
	ConversationID string
	AuthToken      string
	UserID         string
}

type registryEntry struct {
	def     Definition
	factory Factory
}

// Registry owns the mapping from tool name to (definition, factory) and
// dispatches calls. It is an explicit object constructed by the composition
// root and passed by reference to whatever needs to dispatch tools; there
// is no package-level singleton, so tests can build independent registries.
//
// Registration happens at startup; afterwards the map is read-only and safe
// for concurrent Execute calls. The mutex exists so that registration and
// early reads cannot race during wiring.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]registryEntry
	order   []string
	logger  log.Logger
}

// NewRegistry creates an empty registry.
func NewRegistry(logger log.Logger) *Registry {
	if logger == nil {
		logger = log.NewNop()
	}
	return &Registry{
		entries: make(map[string]registryEntry),
		logger:  logger,
	}
}

// Register adds a tool. The caller guarantees name uniqueness; registering
// the same name twice silently replaces the earlier entry (last
// registration wins).
func (r *Registry) Register(def Definition, factory Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, replacing := r.entries[def.Name]; !replacing {
		r.order = append(r.order, def.Name)
	}
	r.entries[def.Name] = registryEntry{def: def, factory: factory}
	r.logger.Debug("registered tool", "tool", def.Name)
}

// Definitions returns all registered tool definitions in registration
// order. This is the schema catalog advertised to the calling model for
// function-calling.
func (r *Registry) Definitions() []Definition {
	r.mu.RLock()
	defer r.mu.RUnlock()

	defs := make([]Definition, 0, len(r.order))
	for _, name := range r.order {
		defs = append(defs, r.entries[name].def)
	}
	return defs
}

// Count returns the number of registered tools.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// Execute dispatches one tool call. It looks up the factory for name,
// builds a fresh executor instance, constructs an ExecutionContext with a
// newly generated request id, and runs the executor.
//
// Returns ErrToolNotFound (wrapped with the name) for unregistered names.
// Any error from the executor itself is passed through; structured business
// failures arrive inside the Result.
func (r *Registry) Execute(ctx context.Context, name string, input map[string]any, call Call) (Result, error) {
	r.mu.RLock()
	entry, ok := r.entries[name]
	r.mu.RUnlock()

	if !ok {
		return Result{}, fmt.Errorf("%w: %q", ErrToolNotFound, name)
	}

	ec := ExecutionContext{
		AuthToken:      call.AuthToken,
		UserID:         call.UserID,
		ConversationID: call.ConversationID,
		RequestID:      uuid.NewString(),
	}

	tracer := otel.Tracer("assist.tools")
	ctx, span := tracer.Start(ctx, "tools.execute")
	span.SetAttributes(
		attribute.String("tool.name", name),
		attribute.String("tool.request_id", ec.RequestID),
		attribute.String("tool.conversation_id", ec.ConversationID),
	)
	defer span.End()

	r.logger.Info("executing tool",
		"tool", name,
		"request_id", ec.RequestID,
		"conversation_id", ec.ConversationID,
	)

	result, err := entry.factory().Execute(ctx, input, ec)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		r.logger.Error("tool execution failed",
			"tool", name,
			"request_id", ec.RequestID,
			"error", err,
		)
		return Result{}, err
	}

	if result.Status == StatusError && result.Error != nil {
		span.SetAttributes(attribute.String("tool.error_code", string(result.Error.Code)))
	}
	r.logger.Info("tool execution finished",
		"tool", name,
		"request_id", ec.RequestID,
		"status", string(result.Status),
	)
	return result, nil
}
