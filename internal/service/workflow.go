package service

import (
	"errors"

	"labeler/internal/domain"
)

// WorkflowState is the labeling position within one document: either an
// active field or the terminal complete state.
type WorkflowState struct {
	Active   domain.FieldName `json:"active_field,omitempty"`
	Complete bool             `json:"complete"`
}

// StartState returns the state a new labeling session begins in.
func StartState() WorkflowState {
	return WorkflowState{Active: domain.FirstField()}
}

// Advance moves to the next field after a successful save. Saving the last
// field enters the complete state; advancing from complete is a no-op.
func (s WorkflowState) Advance() (WorkflowState, error) {
	if s.Complete {
		return s, nil
	}
	next, err := domain.NextField(s.Active)
	if errors.Is(err, domain.ErrNoNextField) {
		return WorkflowState{Complete: true}, nil
	}
	if err != nil {
		return s, err
	}
	return WorkflowState{Active: next}, nil
}
