// Package apperr defines the typed failure outcomes the core operations
// return. Handlers translate these into HTTP responses; the core itself
// never constructs a response.
package apperr

import (
	"fmt"
	"strings"
)

// Validation is a malformed-input failure: bad ID format, missing or
// out-of-range field. Raised before any mutation, so it carries no
// side effects.
type Validation struct {
	Message string
}

func (e *Validation) Error() string { return e.Message }

// Validationf builds a Validation from a format string.
func Validationf(format string, args ...any) *Validation {
	return &Validation{Message: fmt.Sprintf(format, args...)}
}

// NotFound is raised when a referenced document does not exist.
type NotFound struct {
	Entity string // "school", "class", "student", ...
	ID     string
}

func (e *NotFound) Error() string {
	if e.ID == "" {
		return e.Entity + " not found"
	}
	return fmt.Sprintf("%s %s not found", e.Entity, e.ID)
}

// CapacityExceeded is a user-facing rejection: the class cannot take the
// requested number of additional active students. It reports enough
// detail for the caller to react.
type CapacityExceeded struct {
	Capacity    int
	ActiveCount int
	Requested   int
}

func (e *CapacityExceeded) Error() string {
	return fmt.Sprintf("class does not have enough capacity (capacity %d, active %d, requested %d)",
		e.Capacity, e.ActiveCount, e.Requested)
}

// Conflict is raised when a write would violate a uniqueness or
// booking rule: duplicate class, overlapping schedule, duplicate email.
type Conflict struct {
	Entity  string
	Message string
}

func (e *Conflict) Error() string { return e.Message }

// PartialFailure records a multi-document save sequence that failed
// after one or more writes had already been applied. There is no
// compensating rollback; the applied/unapplied split is surfaced so it
// can be logged and investigated.
type PartialFailure struct {
	Applied  []string // names of writes that persisted
	FailedAt string   // name of the write that failed
	Err      error
}

func (e *PartialFailure) Error() string {
	applied := "none"
	if len(e.Applied) > 0 {
		applied = strings.Join(e.Applied, ", ")
	}
	return fmt.Sprintf("write %q failed after applying [%s]: %v", e.FailedAt, applied, e.Err)
}

func (e *PartialFailure) Unwrap() error { return e.Err }
