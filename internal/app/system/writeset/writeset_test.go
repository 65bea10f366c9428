package writeset

import (
	"context"
	"errors"
	"testing"

	"github.com/scholarlyhq/scholarly/internal/app/system/apperr"
)

func TestApply_RunsInOrder(t *testing.T) {
	ws := New(nil)
	var order []string
	for _, name := range []string{"first", "second", "third"} {
		name := name
		ws.Add(name, func(ctx context.Context) error {
			order = append(order, name)
			return nil
		})
	}

	if err := ws.Apply(context.Background()); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if len(order) != 3 || order[0] != "first" || order[1] != "second" || order[2] != "third" {
		t.Errorf("writes ran out of order: %v", order)
	}
	if ws.Len() != 3 {
		t.Errorf("Len = %d, want 3", ws.Len())
	}
}

func TestApply_StopsAtFirstFailure(t *testing.T) {
	boom := errors.New("boom")
	ws := New(nil)

	var thirdRan bool
	ws.Add("save_class", func(ctx context.Context) error { return nil })
	ws.Add("save_school", func(ctx context.Context) error { return boom })
	ws.Add("delete_source", func(ctx context.Context) error {
		thirdRan = true
		return nil
	})

	err := ws.Apply(context.Background())
	var partial *apperr.PartialFailure
	if !errors.As(err, &partial) {
		t.Fatalf("expected PartialFailure, got %v", err)
	}
	if partial.FailedAt != "save_school" {
		t.Errorf("FailedAt = %q, want save_school", partial.FailedAt)
	}
	if len(partial.Applied) != 1 || partial.Applied[0] != "save_class" {
		t.Errorf("Applied = %v, want [save_class]", partial.Applied)
	}
	if !errors.Is(err, boom) {
		t.Error("PartialFailure does not unwrap to the underlying error")
	}
	if thirdRan {
		t.Error("write after the failure still ran")
	}
}

func TestApply_EmptySet(t *testing.T) {
	if err := New(nil).Apply(context.Background()); err != nil {
		t.Fatalf("empty set failed: %v", err)
	}
}
