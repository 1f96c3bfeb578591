package tools

import "time"

// StepStatus is the lifecycle state of a single workflow step.
type StepStatus string

const (
	StepInProgress StepStatus = "in_progress"
	StepCompleted  StepStatus = "completed"
	StepFailed     StepStatus = "failed"
)

// WorkflowStep is one entry in the per-invocation progress trace. Steps are
// timestamped at the moment they are appended, never backdated, and exist
// purely for observability; nothing resumes work from them.
type WorkflowStep struct {
	Step      string     `json:"step"`
	Status    StepStatus `json:"status"`
	Timestamp time.Time  `json:"timestamp"`
	Details   string     `json:"details"`
	Data      any        `json:"data,omitempty"`
}

// Trace accumulates the ordered workflow steps of exactly one tool
// invocation. Each executor creates its own Trace inside Execute and threads
// it through its helpers, so the step sequence is local to the call rather
// than hidden instance state.
//
// Trace is not safe for concurrent use; a tool invocation is single-threaded
// by construction.
type Trace struct {
	steps []WorkflowStep
}

// NewTrace returns an empty trace.
func NewTrace() *Trace {
	return &Trace{}
}

// Begin appends an in-progress step.
func (t *Trace) Begin(step, details string) {
	t.append(step, StepInProgress, details, nil)
}

// Complete appends a completed step with optional structured data.
func (t *Trace) Complete(step, details string, data any) {
	t.append(step, StepCompleted, details, data)
}

// Fail appends a failed step. By convention it is the terminal entry of an
// unsuccessful invocation.
func (t *Trace) Fail(step, details string) {
	t.append(step, StepFailed, details, nil)
}

// Steps returns the accumulated steps in append order. The returned slice
// is the trace's backing storage; callers attach it to a Result and must
// not modify it afterwards.
func (t *Trace) Steps() []WorkflowStep {
	return t.steps
}

func (t *Trace) append(step string, status StepStatus, details string, data any) {
	t.steps = append(t.steps, WorkflowStep{
		Step:      step,
		Status:    status,
		Timestamp: time.Now().UTC(),
		Details:   details,
		Data:      data,
	})
}
