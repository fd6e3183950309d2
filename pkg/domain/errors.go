package domain

import (
	"errors"
	"fmt"
)

// NoTargetError is returned when a scenario selector resolves to no entities.
// The store is left untouched.
type NoTargetError struct {
	ScenarioID string
	Selector   Selector
}

func (e *NoTargetError) Error() string {
	return fmt.Sprintf("scenario %s: selector %s matched no entities", e.ScenarioID, e.Selector)
}

// InvalidDeltaError is returned by NewScenario when a delta references a field
// that does not exist on the target kind or uses the wrong op for that field.
type InvalidDeltaError struct {
	Kind   EntityKind
	Field  string
	Reason string
}

func (e *InvalidDeltaError) Error() string {
	return fmt.Sprintf("invalid delta on %s.%s: %s", e.Kind, e.Field, e.Reason)
}

// ErrNotFound is returned when an entity reference does not resolve.
type ErrNotFound struct {
	ID string
}

func (e ErrNotFound) Error() string {
	return fmt.Sprintf("entity %s not found", e.ID)
}

// IsNotFound reports whether err wraps ErrNotFound.
func IsNotFound(err error) bool {
	var nf ErrNotFound
	return errors.As(err, &nf)
}
