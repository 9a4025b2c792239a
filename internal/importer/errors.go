package importer

import "fmt"

// Fail reasons recorded on a record during the execution pass.
const (
	FailReasonLoad    = "Error loading book"
	FailReasonNoMatch = "Could not find a match for book"
)

// ValidationError rejects a whole upload at batch creation. It names the
// first offending row and field; nothing is persisted when it is
// returned.
type ValidationError struct {
	Index int
	Field string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("row %d: missing required field %q", e.Index, e.Field)
}

// ReconciliationError wraps a side-effect failure for one record, e.g. a
// named shelf the owner does not have. It propagates out of the
// reconciler and is caught by the runner's per-record isolation.
type ReconciliationError struct {
	Op  string
	Err error
}

func (e *ReconciliationError) Error() string {
	return fmt.Sprintf("reconcile %s: %v", e.Op, e.Err)
}

func (e *ReconciliationError) Unwrap() error {
	return e.Err
}

// FinalizationError is a persistence failure while marking a batch
// complete. It is the only error the execution pass surfaces to its
// caller.
type FinalizationError struct {
	BatchID uint
	Err     error
}

func (e *FinalizationError) Error() string {
	return fmt.Sprintf("finalize batch %d: %v", e.BatchID, e.Err)
}

func (e *FinalizationError) Unwrap() error {
	return e.Err
}
