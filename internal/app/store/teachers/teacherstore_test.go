package teacherstore

import (
	"errors"
	"testing"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/scholarlyhq/scholarly/internal/app/system/indexes"
	"github.com/scholarlyhq/scholarly/internal/domain/models"
	"github.com/scholarlyhq/scholarly/internal/testutil"
)

func TestCreate_DuplicateKeyMapping(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("index setup failed: %v", err)
	}

	store := New(db)
	schoolID := primitive.NewObjectID()

	base := models.Teacher{
		FirstName:  "Sana",
		LastName:   "Malik",
		Email:      "sana@test.com",
		CNICNumber: "35202-0000001-1",
		Gender:     "female",
		SchoolID:   schoolID,
	}
	if _, err := store.Create(ctx, base); err != nil {
		t.Fatalf("first insert failed: %v", err)
	}

	dupEmail := base
	dupEmail.CNICNumber = "35202-0000002-1"
	if _, err := store.Create(ctx, dupEmail); !errors.Is(err, ErrDuplicateEmail) {
		t.Errorf("duplicate email: got %v, want ErrDuplicateEmail", err)
	}

	dupCNIC := base
	dupCNIC.Email = "other@test.com"
	if _, err := store.Create(ctx, dupCNIC); !errors.Is(err, ErrDuplicateCNIC) {
		t.Errorf("duplicate cnic: got %v, want ErrDuplicateCNIC", err)
	}
}

func TestUpdate_DuplicateKeyMapping(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("index setup failed: %v", err)
	}

	store := New(db)
	schoolID := primitive.NewObjectID()

	if _, err := store.Create(ctx, models.Teacher{
		Email: "taken@test.com", CNICNumber: "35202-0000003-1", SchoolID: schoolID,
	}); err != nil {
		t.Fatalf("insert failed: %v", err)
	}
	second, err := store.Create(ctx, models.Teacher{
		Email: "free@test.com", CNICNumber: "35202-0000004-1", SchoolID: schoolID,
	})
	if err != nil {
		t.Fatalf("insert failed: %v", err)
	}

	err = store.Update(ctx, second.ID, bson.M{"cnic_number": "35202-0000003-1"})
	if !errors.Is(err, ErrDuplicateCNIC) {
		t.Errorf("duplicate cnic on update: got %v, want ErrDuplicateCNIC", err)
	}
}
