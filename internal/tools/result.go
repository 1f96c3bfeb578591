package tools

// Status tags a Result as success or error. Consumers switch on the tag
// instead of probing for conventionally named fields.
type Status string

const (
	// StatusSuccess indicates the tool completed its work.
	StatusSuccess Status = "success"

	// StatusError indicates a business-rule or infrastructure failure,
	// described by Result.Error.
	StatusError Status = "error"
)

// ErrorCode classifies expected tool failures. Codes are part of the tool
// result contract surfaced to the calling model and the UI.
type ErrorCode string

const (
	// ErrCodeAuthRequired indicates the execution context carried no
	// credentials (auth token or user id missing).
	ErrCodeAuthRequired ErrorCode = "AUTH_REQUIRED"

	// ErrCodeDuplicateOrganization indicates an exact name match on create.
	ErrCodeDuplicateOrganization ErrorCode = "DUPLICATE_ORGANIZATION"

	// ErrCodeDuplicatePerson indicates an exact name or email match on create.
	ErrCodeDuplicatePerson ErrorCode = "DUPLICATE_PERSON"

	// ErrCodeNameConflict indicates an organization rename collides with a
	// different existing organization.
	ErrCodeNameConflict ErrorCode = "NAME_CONFLICT"

	// ErrCodeEmailConflict indicates a person email change collides with a
	// different existing person.
	ErrCodeEmailConflict ErrorCode = "EMAIL_CONFLICT"

	// ErrCodeOrganizationNotFound indicates the target organization id does
	// not resolve for the requesting user.
	ErrCodeOrganizationNotFound ErrorCode = "ORGANIZATION_NOT_FOUND"

	// ErrCodePersonNotFound indicates the target person id does not resolve.
	ErrCodePersonNotFound ErrorCode = "PERSON_NOT_FOUND"

	// ErrCodeDealNotFound indicates the target deal id does not resolve.
	ErrCodeDealNotFound ErrorCode = "DEAL_NOT_FOUND"

	// ErrCodeValidation indicates the tool input failed the minimal-field
	// check before any service call.
	ErrCodeValidation ErrorCode = "VALIDATION_FAILED"

	// ErrCodeCreationFailed wraps unexpected service-layer failures on the
	// create path.
	ErrCodeCreationFailed ErrorCode = "CREATION_FAILED"

	// ErrCodeUpdateFailed wraps unexpected service-layer failures on the
	// update path.
	ErrCodeUpdateFailed ErrorCode = "UPDATE_FAILED"
)

// Error describes a failed tool outcome. Code is a stable machine-readable
// classifier; Message repeats the human-readable summary; Details carries
// structured context such as the colliding record.
type Error struct {
	Code       ErrorCode      `json:"code"`
	Message    string         `json:"message"`
	Details    map[string]any `json:"details,omitempty"`
	Suggestion string         `json:"suggestion,omitempty"`
}

// Result is the structured outcome of one tool execution.
//
// Invariants:
//   - Status is always set.
//   - Message is a complete, emoji-prefixed sentence suitable for direct
//     display without further formatting.
//   - Error is non-nil exactly when Status == StatusError.
//   - Steps is the append-only workflow trace of this single invocation.
type Result struct {
	Status   Status         `json:"status"`
	Message  string         `json:"message"`
	Data     map[string]any `json:"data,omitempty"`
	Warnings []string       `json:"warnings,omitempty"`
	Error    *Error         `json:"error,omitempty"`
	Steps    []WorkflowStep `json:"workflow_steps,omitempty"`
}

// OK reports whether the result carries a successful outcome.
func (r Result) OK() bool {
	return r.Status == StatusSuccess
}

// success builds a successful Result with the given display message.
func success(message string, data map[string]any, trace *Trace) Result {
	return Result{
		Status:  StatusSuccess,
		Message: message,
		Data:    data,
		Steps:   trace.Steps(),
	}
}

// failure builds a failed Result. The display message is copied into the
// embedded Error so both the envelope and the error carry it.
func failure(code ErrorCode, message string, trace *Trace) Result {
	return Result{
		Status:  StatusError,
		Message: message,
		Error:   &Error{Code: code, Message: message},
		Steps:   trace.Steps(),
	}
}

// failureWith builds a failed Result carrying structured details and an
// optional suggestion (e.g. the existing record on a duplicate).
func failureWith(code ErrorCode, message string, details map[string]any, suggestion string, trace *Trace) Result {
	return Result{
		Status:  StatusError,
		Message: message,
		Error:   &Error{Code: code, Message: message, Details: details, Suggestion: suggestion},
		Steps:   trace.Steps(),
	}
}
