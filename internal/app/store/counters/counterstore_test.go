package counterstore

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/scholarlyhq/scholarly/internal/testutil"
)

func TestNextSequence_Monotonic(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store := New(db)
	schoolID := primitive.NewObjectID()

	for want := int64(1); want <= 5; want++ {
		got, err := store.NextSequence(ctx, schoolID, KindStudent)
		if err != nil {
			t.Fatalf("NextSequence failed: %v", err)
		}
		if got != want {
			t.Fatalf("sequence = %d, want %d", got, want)
		}
	}
}

func TestNextSequence_KindsAreIndependent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store := New(db)
	schoolID := primitive.NewObjectID()

	for i := 0; i < 3; i++ {
		if _, err := store.NextSequence(ctx, schoolID, KindStudent); err != nil {
			t.Fatalf("student sequence failed: %v", err)
		}
	}
	got, err := store.NextSequence(ctx, schoolID, KindTeacher)
	if err != nil {
		t.Fatalf("teacher sequence failed: %v", err)
	}
	if got != 1 {
		t.Errorf("teacher sequence = %d, want 1 after student increments", got)
	}
}

func TestNextSequence_SchoolsAreIndependent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store := New(db)
	first := primitive.NewObjectID()
	second := primitive.NewObjectID()

	if _, err := store.NextSequence(ctx, first, KindStudent); err != nil {
		t.Fatalf("NextSequence failed: %v", err)
	}
	got, err := store.NextSequence(ctx, second, KindStudent)
	if err != nil {
		t.Fatalf("NextSequence failed: %v", err)
	}
	if got != 1 {
		t.Errorf("second school's sequence = %d, want 1", got)
	}
}

func TestNextSequence_UnknownKind(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := New(db).NextSequence(ctx, primitive.NewObjectID(), Kind("parent")); err == nil {
		t.Error("expected rejection for unknown kind")
	}
}
