package booking

import (
	"errors"
	"fmt"

	"astraguru/models"
)

// ErrFlowNotFound means the booking flow expired or never existed.
var ErrFlowNotFound = errors.New("booking flow not found")

// FlowStateError is raised when an action does not fit the flow's stage.
type FlowStateError struct {
	Stage  models.BookingStage
	Action string
}

func (e *FlowStateError) Error() string {
	return fmt.Sprintf("cannot %s from stage %q", e.Action, e.Stage)
}

// SlotTooShortError is the local rejection of a slot whose duration cannot
// hold the selected consultation. No network call is made.
type SlotTooShortError struct {
	SlotMinutes     int
	RequiredMinutes int
}

func (e *SlotTooShortError) Error() string {
	return fmt.Sprintf("slot of %d minutes cannot fit a %d minute consultation",
		e.SlotMinutes, e.RequiredMinutes)
}

// MissingFieldError is a pre-flight validation failure, caught before any
// network call.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("booking field %q is required", e.Field)
}
