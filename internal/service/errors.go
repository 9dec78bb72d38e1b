package service

import "fmt"

// ValidationError marks input that fails a business rule rather than a
// transport-level binding check.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func NewValidation(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// InvalidTransitionError is returned when an order is asked to move
// along an edge the queue state machine does not have.
type InvalidTransitionError struct {
	From string
	To   string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid transition from %q to %q", e.From, e.To)
}

// ConflictError marks a lost race or a state that makes the request
// impossible right now (order already settled elsewhere, shift already
// open, shift already closed).
type ConflictError struct {
	Msg string
}

func (e *ConflictError) Error() string { return e.Msg }

func NewConflict(format string, args ...interface{}) *ConflictError {
	return &ConflictError{Msg: fmt.Sprintf(format, args...)}
}

// ReferentialError marks a delete blocked by rows that still point at
// the target.
type ReferentialError struct {
	Msg string
}

func (e *ReferentialError) Error() string { return e.Msg }

// NotFoundError marks a lookup miss for a named entity.
type NotFoundError struct {
	Entity string
}

func (e *NotFoundError) Error() string { return e.Entity + " not found" }
