package application

import (
	"errors"
	"fmt"

	"github.com/example/resource-planner/internal/persistence"
)

var (
	// ErrNotFound is returned when the requested resource does not exist.
	ErrNotFound = errors.New("application: not found")
	// ErrProjectLocked is returned when a mutation targets a locked or
	// archived project.
	ErrProjectLocked = errors.New("application: project is locked")
)

// ValidationError captures field level validation issues that callers can
// surface to users. Validation failures are resolved locally and never reach
// the persistence layer.
type ValidationError struct {
	FieldErrors map[string]string
}

// Error implements the error interface.
func (v *ValidationError) Error() string {
	if v == nil {
		return ""
	}
	return "validation failed"
}

// HasErrors reports whether any field level issues were recorded.
func (v *ValidationError) HasErrors() bool {
	return v != nil && len(v.FieldErrors) > 0
}

// add records a field level validation error.
func (v *ValidationError) add(field, message string) {
	if v.FieldErrors == nil {
		v.FieldErrors = make(map[string]string)
	}
	v.FieldErrors[field] = message
}

// CommitError reports a persistence commit that failed after the optimistic
// local mutation was applied. The local state is retained; Snapshot holds
// the pre-mutation store state so the consumer can revert.
type CommitError struct {
	Op       string
	Err      error
	Snapshot StoreSnapshot
}

// Error implements the error interface.
func (c *CommitError) Error() string {
	return fmt.Sprintf("application: %s was applied locally but not persisted: %v", c.Op, c.Err)
}

// Unwrap exposes the underlying persistence failure.
func (c *CommitError) Unwrap() error {
	return c.Err
}

// mapRepoError translates persistence sentinels into application sentinels.
func mapRepoError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, persistence.ErrNotFound) {
		return ErrNotFound
	}
	return err
}
