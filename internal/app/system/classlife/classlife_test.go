package classlife

import (
	"errors"
	"testing"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	classstore "github.com/scholarlyhq/scholarly/internal/app/store/classes"
	studentstore "github.com/scholarlyhq/scholarly/internal/app/store/students"
	"github.com/scholarlyhq/scholarly/internal/app/system/apperr"
	"github.com/scholarlyhq/scholarly/internal/domain/models"
	"github.com/scholarlyhq/scholarly/internal/testutil"
)

func TestSeedDefaults(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx := testutil.NewFixtures(t, db)
	admin := fx.CreateUser(ctx, "Admin", "admin@test.com")
	school := fx.CreateSchool(ctx, "Seed High", admin.ID)

	m := NewManager(db, zap.NewNop())
	if err := m.SeedDefaults(ctx, school); err != nil {
		t.Fatalf("SeedDefaults failed: %v", err)
	}

	sections, err := m.sections.BySchool(ctx, school.ID)
	if err != nil {
		t.Fatalf("section list failed: %v", err)
	}
	if len(sections) != 3 {
		t.Fatalf("seeded %d sections, want 3", len(sections))
	}
	names := map[string]bool{}
	for _, s := range sections {
		names[s.SectionName] = true
	}
	for _, want := range []string{"A", "B", "C"} {
		if !names[want] {
			t.Errorf("section %q missing from seed", want)
		}
	}

	sectionA, err := m.sections.ByName(ctx, school.ID, "A")
	if err != nil {
		t.Fatalf("section A lookup failed: %v", err)
	}

	classes, err := m.classes.Find(ctx, bson.M{"school_id": school.ID})
	if err != nil {
		t.Fatalf("class list failed: %v", err)
	}
	if len(classes) != 10 {
		t.Fatalf("seeded %d classes, want 10", len(classes))
	}
	for _, c := range classes {
		if !c.IsDefault {
			t.Errorf("seeded class %s not marked default", c.ClassName)
		}
		if c.SectionID != sectionA.ID {
			t.Errorf("seeded class %s not in section A", c.ClassName)
		}
		if c.ClassCapacity != models.DefaultClassCapacity {
			t.Errorf("seeded class %s capacity = %d, want %d", c.ClassName, c.ClassCapacity, models.DefaultClassCapacity)
		}
	}
}

func TestClearDefault(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx := testutil.NewFixtures(t, db)
	admin := fx.CreateUser(ctx, "Admin", "admin@test.com")
	school := fx.CreateSchool(ctx, "Default High", admin.ID)
	section := fx.CreateSection(ctx, school.ID, "A")

	m := NewManager(db, zap.NewNop())

	current, err := m.classes.Create(ctx, models.SchoolClass{
		ClassName: "V", IsDefault: true, SectionID: section.ID, SchoolID: school.ID,
	})
	if err != nil {
		t.Fatalf("class insert failed: %v", err)
	}

	if err := m.ClearDefault(ctx, "V", school.ID); err != nil {
		t.Fatalf("ClearDefault failed: %v", err)
	}
	got, err := m.classes.GetByID(ctx, current.ID)
	if err != nil {
		t.Fatalf("class reload failed: %v", err)
	}
	if got.IsDefault {
		t.Error("previous default still marked default")
	}

	// Clearing when no default exists is not an error.
	if err := m.ClearDefault(ctx, "VI", school.ID); err != nil {
		t.Fatalf("ClearDefault with no default failed: %v", err)
	}
}

func TestRecomputeMultiSection(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx := testutil.NewFixtures(t, db)
	admin := fx.CreateUser(ctx, "Admin", "admin@test.com")
	school := fx.CreateSchool(ctx, "Multi High", admin.ID)
	secA := fx.CreateSection(ctx, school.ID, "A")
	secB := fx.CreateSection(ctx, school.ID, "B")

	m := NewManager(db, zap.NewNop())

	first := fx.CreateClass(ctx, school.ID, secA.ID, "V", 30, 0)

	multi, err := m.RecomputeMultiSection(ctx, "V", school.ID)
	if err != nil {
		t.Fatalf("RecomputeMultiSection failed: %v", err)
	}
	if multi {
		t.Error("single class reported as multi-section")
	}

	second := fx.CreateClass(ctx, school.ID, secB.ID, "V", 30, 0)

	multi, err = m.RecomputeMultiSection(ctx, "V", school.ID)
	if err != nil {
		t.Fatalf("RecomputeMultiSection failed: %v", err)
	}
	if !multi {
		t.Error("two same-name classes not reported as multi-section")
	}
	for _, id := range []primitive.ObjectID{first.ID, second.ID} {
		c, err := m.classes.GetByID(ctx, id)
		if err != nil {
			t.Fatalf("class reload failed: %v", err)
		}
		if !c.HasMultipleSections {
			t.Errorf("class %s flag not set", id.Hex())
		}
	}
}

func TestMergeAndTransfer(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx := testutil.NewFixtures(t, db)
	admin := fx.CreateUser(ctx, "Admin", "admin@test.com")
	school := fx.CreateSchool(ctx, "Merge High", admin.ID)
	secA := fx.CreateSection(ctx, school.ID, "A")
	secB := fx.CreateSection(ctx, school.ID, "B")

	source := fx.CreateClass(ctx, school.ID, secA.ID, "V", 30, 2)
	target := fx.CreateClass(ctx, school.ID, secB.ID, "V", 30, 5)

	s1 := fx.CreateStudent(ctx, school.ID, source.ID, "10001-0000001-1", models.StudentActive)
	s2 := fx.CreateStudent(ctx, school.ID, source.ID, "10001-0000002-1", models.StudentActive)

	m := NewManager(db, zap.NewNop())

	merged, err := m.MergeAndTransfer(ctx, source.ID, target.ID)
	if err != nil {
		t.Fatalf("MergeAndTransfer failed: %v", err)
	}
	if merged.ActiveStudentsCount != 7 {
		t.Errorf("target active count = %d, want 7", merged.ActiveStudentsCount)
	}
	if merged.HasMultipleSections {
		t.Error("sole surviving class still flagged multi-section")
	}

	if _, err := m.classes.GetByID(ctx, source.ID); !errors.Is(err, classstore.ErrNotFound) {
		t.Errorf("source class still exists after merge: %v", err)
	}

	students := studentstore.New(db)
	for _, id := range []primitive.ObjectID{s1.ID, s2.ID} {
		st, err := students.GetByID(ctx, id)
		if err != nil {
			t.Fatalf("student reload failed: %v", err)
		}
		if st.ClassID != target.ID {
			t.Errorf("student %s not reassigned to target", id.Hex())
		}
	}
}

func TestMergeAndTransfer_CapacityRejection(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx := testutil.NewFixtures(t, db)
	admin := fx.CreateUser(ctx, "Admin", "admin@test.com")
	school := fx.CreateSchool(ctx, "Full High", admin.ID)
	secA := fx.CreateSection(ctx, school.ID, "A")
	secB := fx.CreateSection(ctx, school.ID, "B")

	source := fx.CreateClass(ctx, school.ID, secA.ID, "V", 30, 10)
	target := fx.CreateClass(ctx, school.ID, secB.ID, "V", 30, 25)
	student := fx.CreateStudent(ctx, school.ID, source.ID, "10002-0000001-1", models.StudentActive)

	m := NewManager(db, zap.NewNop())

	_, err := m.MergeAndTransfer(ctx, source.ID, target.ID)
	var capErr *apperr.CapacityExceeded
	if !errors.As(err, &capErr) {
		t.Fatalf("expected CapacityExceeded, got %v", err)
	}

	// Nothing may have moved.
	if _, err := m.classes.GetByID(ctx, source.ID); err != nil {
		t.Errorf("source class missing after rejected merge: %v", err)
	}
	st, err := studentstore.New(db).GetByID(ctx, student.ID)
	if err != nil {
		t.Fatalf("student reload failed: %v", err)
	}
	if st.ClassID != source.ID {
		t.Error("student moved despite rejected merge")
	}
	tgt, err := m.classes.GetByID(ctx, target.ID)
	if err != nil {
		t.Fatalf("target reload failed: %v", err)
	}
	if tgt.ActiveStudentsCount != 25 {
		t.Errorf("target count mutated by rejected merge: %d", tgt.ActiveStudentsCount)
	}
}

func TestMergeAndTransfer_MissingClasses(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx := testutil.NewFixtures(t, db)
	admin := fx.CreateUser(ctx, "Admin", "admin@test.com")
	school := fx.CreateSchool(ctx, "Gone High", admin.ID)
	sec := fx.CreateSection(ctx, school.ID, "A")
	class := fx.CreateClass(ctx, school.ID, sec.ID, "V", 30, 0)

	m := NewManager(db, zap.NewNop())

	var notFound *apperr.NotFound
	if _, err := m.MergeAndTransfer(ctx, primitive.NewObjectID(), class.ID); !errors.As(err, &notFound) {
		t.Errorf("missing source: got %v", err)
	}
	if _, err := m.MergeAndTransfer(ctx, class.ID, primitive.NewObjectID()); !errors.As(err, &notFound) {
		t.Errorf("missing target: got %v", err)
	}
}

func TestMoveStudents(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx := testutil.NewFixtures(t, db)
	admin := fx.CreateUser(ctx, "Admin", "admin@test.com")
	school := fx.CreateSchool(ctx, "Move High", admin.ID)
	sec := fx.CreateSection(ctx, school.ID, "A")

	source := fx.CreateClass(ctx, school.ID, sec.ID, "V", 30, 3)
	target := fx.CreateClass(ctx, school.ID, sec.ID, "VI", 30, 0)

	active := fx.CreateStudent(ctx, school.ID, source.ID, "10003-0000001-1", models.StudentActive)
	suspended := fx.CreateStudent(ctx, school.ID, source.ID, "10003-0000002-1", models.StudentSuspended)

	m := NewManager(db, zap.NewNop())

	moved, err := m.MoveStudents(ctx, []primitive.ObjectID{active.ID, suspended.ID}, target.ID)
	if err != nil {
		t.Fatalf("MoveStudents failed: %v", err)
	}
	if len(moved) != 2 {
		t.Fatalf("moved %d students, want 2", len(moved))
	}

	src, err := m.classes.GetByID(ctx, source.ID)
	if err != nil {
		t.Fatalf("source reload failed: %v", err)
	}
	tgt, err := m.classes.GetByID(ctx, target.ID)
	if err != nil {
		t.Fatalf("target reload failed: %v", err)
	}
	// Only the active student moves the counters.
	if src.ActiveStudentsCount != 2 {
		t.Errorf("source active count = %d, want 2", src.ActiveStudentsCount)
	}
	if tgt.ActiveStudentsCount != 1 {
		t.Errorf("target active count = %d, want 1", tgt.ActiveStudentsCount)
	}

	students := studentstore.New(db)
	for _, id := range []primitive.ObjectID{active.ID, suspended.ID} {
		st, err := students.GetByID(ctx, id)
		if err != nil {
			t.Fatalf("student reload failed: %v", err)
		}
		if st.ClassID != target.ID {
			t.Errorf("student %s not reassigned", id.Hex())
		}
	}
}

// The source class is taken from the first student in the list. When
// the selection spans two classes, the second class's students are
// reassigned but its counters are left alone; only the first student's
// class is adjusted. Known limitation, carried over deliberately.
func TestMoveStudents_MixedSourceClassesAdjustFirstOnly(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx := testutil.NewFixtures(t, db)
	admin := fx.CreateUser(ctx, "Admin", "admin@test.com")
	school := fx.CreateSchool(ctx, "Split High", admin.ID)
	sec := fx.CreateSection(ctx, school.ID, "A")

	first := fx.CreateClass(ctx, school.ID, sec.ID, "V", 30, 2)
	second := fx.CreateClass(ctx, school.ID, sec.ID, "VI", 30, 1)
	target := fx.CreateClass(ctx, school.ID, sec.ID, "VII", 30, 0)

	fromFirst := fx.CreateStudent(ctx, school.ID, first.ID, "10005-0000001-1", models.StudentActive)
	fromSecond := fx.CreateStudent(ctx, school.ID, second.ID, "10005-0000002-1", models.StudentActive)

	m := NewManager(db, zap.NewNop())

	moved, err := m.MoveStudents(ctx, []primitive.ObjectID{fromFirst.ID, fromSecond.ID}, target.ID)
	if err != nil {
		t.Fatalf("MoveStudents failed: %v", err)
	}
	if len(moved) != 2 {
		t.Fatalf("moved %d students, want 2", len(moved))
	}

	students := studentstore.New(db)
	for _, id := range []primitive.ObjectID{fromFirst.ID, fromSecond.ID} {
		st, err := students.GetByID(ctx, id)
		if err != nil {
			t.Fatalf("student reload failed: %v", err)
		}
		if st.ClassID != target.ID {
			t.Errorf("student %s not reassigned", id.Hex())
		}
	}

	src, err := m.classes.GetByID(ctx, first.ID)
	if err != nil {
		t.Fatalf("first class reload failed: %v", err)
	}
	other, err := m.classes.GetByID(ctx, second.ID)
	if err != nil {
		t.Fatalf("second class reload failed: %v", err)
	}
	tgt, err := m.classes.GetByID(ctx, target.ID)
	if err != nil {
		t.Fatalf("target reload failed: %v", err)
	}
	// Both decrements land on the first student's class.
	if src.ActiveStudentsCount != 0 {
		t.Errorf("first class active count = %d, want 0", src.ActiveStudentsCount)
	}
	// The second class keeps its stale count even though its student left.
	if other.ActiveStudentsCount != 1 {
		t.Errorf("second class active count = %d, want 1 (untouched)", other.ActiveStudentsCount)
	}
	if tgt.ActiveStudentsCount != 2 {
		t.Errorf("target active count = %d, want 2", tgt.ActiveStudentsCount)
	}
}

func TestMoveStudents_Rejections(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx := testutil.NewFixtures(t, db)
	admin := fx.CreateUser(ctx, "Admin", "admin@test.com")
	school := fx.CreateSchool(ctx, "Reject High", admin.ID)
	sec := fx.CreateSection(ctx, school.ID, "A")

	source := fx.CreateClass(ctx, school.ID, sec.ID, "V", 30, 1)
	full := fx.CreateClass(ctx, school.ID, sec.ID, "VI", 30, 30)
	student := fx.CreateStudent(ctx, school.ID, source.ID, "10004-0000001-1", models.StudentActive)

	m := NewManager(db, zap.NewNop())

	var validation *apperr.Validation
	if _, err := m.MoveStudents(ctx, nil, source.ID); !errors.As(err, &validation) {
		t.Errorf("empty selection: got %v", err)
	}
	if _, err := m.MoveStudents(ctx, []primitive.ObjectID{student.ID}, source.ID); !errors.As(err, &validation) {
		t.Errorf("same-class move: got %v", err)
	}

	var capErr *apperr.CapacityExceeded
	if _, err := m.MoveStudents(ctx, []primitive.ObjectID{student.ID}, full.ID); !errors.As(err, &capErr) {
		t.Errorf("move into full class: got %v", err)
	}

	var notFound *apperr.NotFound
	if _, err := m.MoveStudents(ctx, []primitive.ObjectID{student.ID}, primitive.NewObjectID()); !errors.As(err, &notFound) {
		t.Errorf("missing target class: got %v", err)
	}
}
