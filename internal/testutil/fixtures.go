package testutil

import (
	"context"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/scholarlyhq/scholarly/internal/domain/models"
)

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateUser creates a test school-admin account.
func (f *Fixtures) CreateUser(ctx context.Context, name, email string) models.User {
	f.t.Helper()

	now := time.Now().UTC()
	user := models.User{
		ID:           primitive.NewObjectID(),
		Name:         name,
		Email:        email,
		PasswordHash: "not-a-real-hash",
		ProfileColor: "#336699",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if _, err := f.db.Collection("users").InsertOne(ctx, user); err != nil {
		f.t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateSchool creates a test school owned by adminID with zeroed
// counters.
func (f *Fixtures) CreateSchool(ctx context.Context, name string, adminID primitive.ObjectID) models.School {
	f.t.Helper()

	now := time.Now().UTC()
	school := models.School{
		ID:          primitive.NewObjectID(),
		SchoolName:  name,
		SchoolAdmin: adminID,
		Address:     "1 Test Lane",
		Status:      models.SchoolActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if _, err := f.db.Collection("schools").InsertOne(ctx, school); err != nil {
		f.t.Fatalf("failed to create test school: %v", err)
	}
	return school
}

// CreateSection creates a test section in the given school.
func (f *Fixtures) CreateSection(ctx context.Context, schoolID primitive.ObjectID, name string) models.Section {
	f.t.Helper()

	now := time.Now().UTC()
	section := models.Section{
		ID:          primitive.NewObjectID(),
		SectionName: name,
		Color:       "#4F86C6",
		SchoolID:    schoolID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if _, err := f.db.Collection("sections").InsertOne(ctx, section); err != nil {
		f.t.Fatalf("failed to create test section: %v", err)
	}
	return section
}

// CreateClass creates a test class with the given capacity and active
// student count.
func (f *Fixtures) CreateClass(ctx context.Context, schoolID, sectionID primitive.ObjectID, name string, capacity, activeCount int) models.SchoolClass {
	f.t.Helper()

	now := time.Now().UTC()
	class := models.SchoolClass{
		ID:                  primitive.NewObjectID(),
		ClassName:           name,
		SectionID:           sectionID,
		ClassCapacity:       capacity,
		ActiveStudentsCount: activeCount,
		SchoolID:            schoolID,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	if _, err := f.db.Collection("school_classes").InsertOne(ctx, class); err != nil {
		f.t.Fatalf("failed to create test class: %v", err)
	}
	return class
}

// CreateStudent creates a test student in the given class.
func (f *Fixtures) CreateStudent(ctx context.Context, schoolID, classID primitive.ObjectID, bForm string, status models.StudentStatus) models.Student {
	f.t.Helper()

	now := time.Now().UTC()
	student := models.Student{
		ID:              primitive.NewObjectID(),
		FirstName:       "Test",
		LastName:        "Student",
		BForm:           bForm,
		DateOfBirth:     now.AddDate(-10, 0, 0),
		StudentAge:      10,
		Gender:          "female",
		ClassID:         classID,
		Status:          status,
		ParentFirstName: "Test",
		ParentLastName:  "Parent",
		CNICNumber:      "00000-0000000-0",
		ProfileColor:    "#67B26F",
		SchoolID:        schoolID,
		EnrollID:        1,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if _, err := f.db.Collection("students").InsertOne(ctx, student); err != nil {
		f.t.Fatalf("failed to create test student: %v", err)
	}
	return student
}

// CreateTeacher creates a test teacher in the given school.
func (f *Fixtures) CreateTeacher(ctx context.Context, schoolID primitive.ObjectID, email string, status models.TeacherStatus) models.Teacher {
	f.t.Helper()

	now := time.Now().UTC()
	teacher := models.Teacher{
		ID:           primitive.NewObjectID(),
		FirstName:    "Test",
		LastName:     "Teacher",
		Email:        email,
		DateOfBirth:  now.AddDate(-30, 0, 0),
		Status:       status,
		CNICNumber:   "11111-1111111-1",
		Gender:       "male",
		ProfileColor: "#F2A154",
		SchoolID:     schoolID,
		JoinID:       1,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if _, err := f.db.Collection("teachers").InsertOne(ctx, teacher); err != nil {
		f.t.Fatalf("failed to create test teacher: %v", err)
	}
	return teacher
}

// CreateSchedule creates a test schedule for the given class and
// instructor.
func (f *Fixtures) CreateSchedule(ctx context.Context, schoolID, classID, instructorID primitive.ObjectID, start, end string, days []string) models.Schedule {
	f.t.Helper()

	now := time.Now().UTC()
	schedule := models.Schedule{
		ID:          primitive.NewObjectID(),
		Subject:     "Mathematics",
		Instructor:  instructorID,
		ClassID:     classID,
		Description: "Mathematics",
		StartTime:   start,
		EndTime:     end,
		Days:        days,
		SchoolID:    schoolID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if _, err := f.db.Collection("schedules").InsertOne(ctx, schedule); err != nil {
		f.t.Fatalf("failed to create test schedule: %v", err)
	}
	return schedule
}
