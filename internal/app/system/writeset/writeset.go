// Package writeset is the unit-of-work used for multi-document
// mutations. Mongo gives us per-document atomicity only, so logically
// related saves (class + school, old class + new class) are applied as
// an ordered sequence of independent writes. The ordering is explicit
// here rather than implied by call sequence, and a failure part-way
// through is reported as a PartialFailure naming exactly which writes
// did and did not persist.
package writeset

import (
	"context"

	"go.uber.org/zap"

	"github.com/scholarlyhq/scholarly/internal/app/system/apperr"
)

// Write is one named pending save.
type Write struct {
	Name  string
	Apply func(ctx context.Context) error
}

// Set is an ordered list of pending writes.
type Set struct {
	writes []Write
	log    *zap.Logger
}

// New returns an empty Set. logger may be nil.
func New(logger *zap.Logger) *Set {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Set{log: logger}
}

// Add appends a pending write. Writes run in the order added.
func (s *Set) Add(name string, apply func(ctx context.Context) error) {
	s.writes = append(s.writes, Write{Name: name, Apply: apply})
}

// Len returns the number of pending writes.
func (s *Set) Len() int { return len(s.writes) }

// Apply runs every write in order. On the first failure it stops and
// returns a *apperr.PartialFailure; writes already applied stay
// applied. There is no rollback.
func (s *Set) Apply(ctx context.Context) error {
	var applied []string
	for _, w := range s.writes {
		if err := w.Apply(ctx); err != nil {
			s.log.Error("write set aborted",
				zap.String("failed_write", w.Name),
				zap.Strings("applied_writes", applied),
				zap.Error(err))
			return &apperr.PartialFailure{Applied: applied, FailedAt: w.Name, Err: err}
		}
		applied = append(applied, w.Name)
	}
	return nil
}
