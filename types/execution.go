package types

import "time"

// ExecutionStatus is the lifecycle state of one workflow run.
// Once a record reaches StatusCompleted or StatusFailed it is terminal;
// StatusNeedsRevision is returned when a reviewer disapproves and is not
// retried automatically.
type ExecutionStatus string

const (
	StatusRunning       ExecutionStatus = "running"
	StatusCompleted     ExecutionStatus = "completed"
	StatusNeedsRevision ExecutionStatus = "needs_revision"
	StatusFailed        ExecutionStatus = "failed"
)

// Terminal reports whether the status can no longer change.
func (s ExecutionStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// Outcome is the uniform result every node returns from Execute.
// Result carries the node's output delta; the executor owns merging it
// into the shared state. Error is human-readable and only meaningful
// when Success is false.
type Outcome struct {
	Success bool   `json:"success" bson:"success"`
	Result  any    `json:"result,omitempty" bson:"result,omitempty"`
	Error   string `json:"error,omitempty" bson:"error,omitempty"`
}

// ResultMap returns the outcome result as a map when it is one.
// Scalar results yield nil, false.
func (o Outcome) ResultMap() (map[string]any, bool) {
	m, ok := o.Result.(map[string]any)
	return m, ok
}

// Success builds a successful outcome carrying a result delta.
func SuccessOutcome(result any) Outcome {
	return Outcome{Success: true, Result: result}
}

// FailureOutcome builds a failed outcome with a human-readable error.
func FailureOutcome(err string) Outcome {
	return Outcome{Success: false, Error: err}
}

// StepRecord is one entry of the execution audit trail. Records are
// appended in execution order and never mutated afterwards.
type StepRecord struct {
	NodeID   string   `json:"node_id" bson:"node_id"`
	NodeKind NodeKind `json:"node_type" bson:"node_type"`
	Result   Outcome  `json:"result" bson:"result"`
}

// ExecutionRecord is the persisted audit trail of one workflow run.
// It is created when a run starts and finalized exactly once when the
// run terminates.
type ExecutionRecord struct {
	ExecutionID string          `json:"execution_id" bson:"execution_id"`
	WorkflowID  string          `json:"workflow_id" bson:"workflow_id"`
	Status      ExecutionStatus `json:"status" bson:"status"`
	Input       string          `json:"input" bson:"input"`
	Steps       []StepRecord    `json:"steps" bson:"steps"`
	FinalOutput string          `json:"final_output" bson:"final_output"`
	Error       string          `json:"error,omitempty" bson:"error,omitempty"`
	CreatedAt   time.Time       `json:"created_at" bson:"created_at"`
}
