package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"
)

// Definition is the immutable, model-facing description of one tool:
// a unique name, a prose description the model uses to decide when to call
// it, and a JSON schema for the input object. Definitions are registered
// once at startup and never mutated.
type Definition struct {
	Name        string             `json:"name"`
	Description string             `json:"description"`
	InputSchema *jsonschema.Schema `json:"input_schema"`
}

// Executor runs one tool invocation. The Registry builds a fresh Executor
// per call via the registered Factory, so implementations may keep per-call
// state in their fields without synchronization.
//
// Business-rule failures are reported inside the returned Result; the error
// return is reserved for infrastructure failures that must abort the call
// (e.g. the think tool's persistence sink being unavailable).
type Executor interface {
	Execute(ctx context.Context, input map[string]any, ec ExecutionContext) (Result, error)
}

// Factory builds a fresh executor instance for one invocation.
type Factory func() Executor

// schemaFor infers the JSON input schema for a tool input struct.
// Panics on failure: schemas are built from static types at startup, so a
// failure here is a programming error, not a runtime condition.
func schemaFor[In any]() *jsonschema.Schema {
	schema, err := jsonschema.For[In](nil)
	if err != nil {
		panic(fmt.Sprintf("tools: inferring input schema for %T: %v", *new(In), err))
	}
	return schema
}

// decodeInput converts the generic input map the model sends into the
// tool's typed input struct via a JSON round trip. Unknown fields are
// ignored; missing fields keep their zero value (each tool validates
// required fields itself so it can fail with a descriptive message).
func decodeInput[In any](input map[string]any) (In, error) {
	var typed In

	raw, err := json.Marshal(input)
	if err != nil {
		return typed, fmt.Errorf("marshaling tool input: %w", err)
	}
	if err := json.Unmarshal(raw, &typed); err != nil {
		return typed, fmt.Errorf("invalid input shape: expected %T: %w", typed, err)
	}
	return typed, nil
}
