package pipeline

import (
	"fmt"

	"talentgate-backend/internal/model"
)

// StateError reports a transition attempted on an application whose
// current stage/status does not satisfy the rule's precondition. It
// names expected vs. actual so the caller can render the mismatch.
type StateError struct {
	Op             string
	ExpectedStage  []model.Stage
	ExpectedStatus []model.Status
	ActualStage    model.Stage
	ActualStatus   model.Status
}

func (e *StateError) Error() string {
	return fmt.Sprintf(
		"%s: application is at stage %s with status %s, expected stage in %v and status in %v",
		e.Op, e.ActualStage, e.ActualStatus, e.ExpectedStage, e.ExpectedStatus,
	)
}

// ValidationError reports request input that fails validation before
// any storage is touched.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// ConflictError reports a precondition violation that is not a pure
// stage/status mismatch, such as a decision already existing or an
// interview already being completed.
type ConflictError struct {
	Op     string
	Reason string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Reason)
}
