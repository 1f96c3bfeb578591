package tools

// ExecutionContext carries per-call identity for one tool invocation. It is
// constructed by the Registry and lives only for the duration of the call;
// it is never persisted.
type ExecutionContext struct {
	// AuthToken is the caller-supplied credential, passed through verbatim
	// to the domain services. Empty means unauthenticated.
	AuthToken string

	// UserID scopes every domain-service call to one CRM user.
	UserID string

	// ConversationID ties the invocation to the assistant conversation it
	// belongs to. Required; the think tool keys its persisted trace on it.
	ConversationID string

	// RequestID is generated fresh by the Registry per invocation for
	// traceability across logs and spans.
	RequestID string
}

// Authenticated reports whether the context carries both credentials the
// mutation tools require.
func (ec ExecutionContext) Authenticated() bool {
	return ec.AuthToken != "" && ec.UserID != ""
}
