package app

import "intake-go/internal/intake"

// RunOperation tracks the CLI operation of one invocation.
// It starts in memory with ID=0; operations that change the working tree are
// persisted (given an auto-increment ID) before they run.
type RunOperation struct {
	ID         int64
	RunID      string
	Operation  string
	Parameters string
	Status     string
}

// NewRunOperation creates a new in-memory operation that succeeds unless told otherwise.
func NewRunOperation(runID, operation string) *RunOperation {
	return &RunOperation{
		RunID:     runID,
		Operation: operation,
		Status:    intake.StatusSuccess,
	}
}

// Persisted returns true if this operation has been saved to the database.
func (op *RunOperation) Persisted() bool {
	return op.ID != 0
}

// Result records err as the outcome of the operation and returns it unchanged.
// Any error marks the whole operation failed.
func (op *RunOperation) Result(err error) error {
	if err != nil {
		op.Status = intake.StatusError
	}
	return err
}
