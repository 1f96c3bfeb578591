// Package enhance infers business entities and follow-up actions from one
// conversational turn of the assistant: the free-text response plus the
// tool-call thoughts that produced it.
//
// The pipeline is pure CPU work with no I/O and no hidden state; Parse is
// deterministic over its inputs and safe for concurrent use.
package enhance

import "encoding/json"

// ToolCall is one tool invocation recorded during a conversational turn.
// Payload holds the raw result the tool produced, either as a JSON value
// or as a JSON string wrapping one.
type ToolCall struct {
	Name    string          `json:"name"`
	Payload json.RawMessage `json:"payload"`
}

// EntityType classifies a detected business entity.
type EntityType string

const (
	EntityDeal         EntityType = "deal"
	EntityContact      EntityType = "contact"
	EntityOrganization EntityType = "organization"
	EntityActivity     EntityType = "activity"
)

// DetectedEntity is a business object inferred from a tool payload.
// Identity is ID; within one parse pass each id appears at most once.
type DetectedEntity struct {
	Type             EntityType     `json:"type"`
	ID               string         `json:"id"`
	Name             string         `json:"name,omitempty"`
	Amount           float64        `json:"amount,omitempty"`
	OrganizationName string         `json:"organization_name,omitempty"`
	Metadata         map[string]any `json:"metadata,omitempty"`
}

// ActionableData is a small copyable fragment extracted from the response
// text, such as a record id or a dollar amount.
type ActionableData struct {
	Type     string `json:"type"`
	Value    string `json:"value"`
	Label    string `json:"label,omitempty"`
	Copyable bool   `json:"copyable"`
}

// ActionKind is the behavior a suggested action requests from its consumer.
type ActionKind string

const (
	ActionNavigate ActionKind = "navigate"
	ActionCopy     ActionKind = "copy"
	ActionCreate   ActionKind = "create"
	ActionEdit     ActionKind = "edit"
	ActionView     ActionKind = "view"
	ActionCall     ActionKind = "call"
)

// SuggestedAction is a proposed next step tied to a detected entity or to
// the conversational context. EntityID links the action back to its entity
// by equality; contextual actions leave it empty.
type SuggestedAction struct {
	ID       string         `json:"id"`
	Label    string         `json:"label"`
	Icon     string         `json:"icon,omitempty"`
	Variant  string         `json:"variant,omitempty"`
	Action   ActionKind     `json:"action"`
	Target   string         `json:"target,omitempty"`
	Payload  map[string]any `json:"payload,omitempty"`
	EntityID string         `json:"entity_id,omitempty"`
	Disabled bool           `json:"disabled,omitempty"`
	Tooltip  string         `json:"tooltip,omitempty"`
}

// Enhanced is the aggregate parse result for one turn. HasEnhancements is
// true iff any of the three lists is non-empty.
type Enhanced struct {
	Entities        []DetectedEntity  `json:"entities"`
	Actionable      []ActionableData  `json:"actionable_data"`
	Actions         []SuggestedAction `json:"suggested_actions"`
	HasEnhancements bool              `json:"has_enhancements"`
}
