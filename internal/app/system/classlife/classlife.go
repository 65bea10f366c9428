// Package classlife manages the class/section lifecycle: seeding the
// default layout for a new school, default-class bookkeeping, the
// multi-section flag, and the two student-transfer operations.
//
// Every multi-document operation here runs without transactions. The
// write ordering is chosen so a crash mid-operation leaves recoverable
// state: students are moved before their source class is deleted, so
// the worst case is orphaned-but-findable students, never students
// pointing at a class that no longer exists.
package classlife

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	classstore "github.com/scholarlyhq/scholarly/internal/app/store/classes"
	sectionstore "github.com/scholarlyhq/scholarly/internal/app/store/sections"
	studentstore "github.com/scholarlyhq/scholarly/internal/app/store/students"
	"github.com/scholarlyhq/scholarly/internal/app/system/apperr"
	"github.com/scholarlyhq/scholarly/internal/app/system/capacity"
	"github.com/scholarlyhq/scholarly/internal/app/system/writeset"
	"github.com/scholarlyhq/scholarly/internal/domain/models"
)

// Default layout seeded for every new school.
var (
	seedSections = []struct {
		Name  string
		Color string
	}{
		{"A", "#4F86C6"},
		{"B", "#67B26F"},
		{"C", "#F2A154"},
	}

	seedClassNames = []string{"I", "II", "III", "IV", "V", "VI", "VII", "VIII", "IX", "X"}
)

type Manager struct {
	classes  *classstore.Store
	sections *sectionstore.Store
	students *studentstore.Store
	log      *zap.Logger
}

func NewManager(db *mongo.Database, logger *zap.Logger) *Manager {
	return &Manager{
		classes:  classstore.New(db),
		sections: sectionstore.New(db),
		students: studentstore.New(db),
		log:      logger,
	}
}

// SeedDefaults creates the standard layout for a new school: three
// sections A/B/C with fixed colors, then ten default classes I..X, all
// assigned to section A.
func (m *Manager) SeedDefaults(ctx context.Context, school models.School) error {
	var sectionA primitive.ObjectID
	for _, seed := range seedSections {
		section, err := m.sections.Create(ctx, models.Section{
			SectionName: seed.Name,
			Color:       seed.Color,
			SchoolID:    school.ID,
		})
		if err != nil {
			return err
		}
		if seed.Name == "A" {
			sectionA = section.ID
		}
	}

	for _, name := range seedClassNames {
		_, err := m.classes.Create(ctx, models.SchoolClass{
			ClassName: name,
			IsDefault: true,
			SectionID: sectionA,
			SchoolID:  school.ID,
		})
		if err != nil {
			return err
		}
	}

	m.log.Info("seeded default sections and classes",
		zap.String("school_id", school.ID.Hex()),
		zap.Int("sections", len(seedSections)),
		zap.Int("classes", len(seedClassNames)))
	return nil
}

// ClearDefault unsets the current default class for (className, school)
// if one exists. Called before a different class is marked default so
// at most one default exists per name per school at any time.
func (m *Manager) ClearDefault(ctx context.Context, className string, schoolID primitive.ObjectID) error {
	existing, err := m.classes.FindDefault(ctx, className, schoolID)
	if err != nil {
		if errors.Is(err, classstore.ErrNotFound) {
			return nil
		}
		return err
	}
	return m.classes.Update(ctx, existing.ID, bson.M{"is_default": false})
}

// RecomputeMultiSection re-evaluates has_multiple_sections for every
// class sharing (className, school): true iff two or more such classes
// exist. Must be called after any class add or remove for that name.
func (m *Manager) RecomputeMultiSection(ctx context.Context, className string, schoolID primitive.ObjectID) (bool, error) {
	n, err := m.classes.CountByName(ctx, className, schoolID)
	if err != nil {
		return false, err
	}
	multi := n > 1
	if n > 0 {
		if err := m.classes.SetMultiSection(ctx, className, schoolID, multi); err != nil {
			return multi, err
		}
	}
	return multi, nil
}

// MergeAndTransfer moves every student of the source class into the
// target class, then removes the source class. Capacity is validated
// before any document is touched; the source delete comes last.
func (m *Manager) MergeAndTransfer(ctx context.Context, sourceID, targetID primitive.ObjectID) (models.SchoolClass, error) {
	source, err := m.classes.GetByID(ctx, sourceID)
	if err != nil {
		if errors.Is(err, classstore.ErrNotFound) {
			return models.SchoolClass{}, &apperr.NotFound{Entity: "class to be removed", ID: sourceID.Hex()}
		}
		return models.SchoolClass{}, err
	}
	target, err := m.classes.GetByID(ctx, targetID)
	if err != nil {
		if errors.Is(err, classstore.ErrNotFound) {
			return models.SchoolClass{}, &apperr.NotFound{Entity: "new class", ID: targetID.Hex()}
		}
		return models.SchoolClass{}, err
	}

	moving := source.ActiveStudentsCount
	if err := capacity.Validate(&target, moving); err != nil {
		return models.SchoolClass{}, err
	}

	// How many same-name classes survive the merge, besides the target
	// itself. Decides the multi-section flag after the source is gone.
	remaining, err := m.classes.Count(ctx, bson.M{
		"class_name": target.ClassName,
		"school_id":  target.SchoolID,
		"_id":        bson.M{"$nin": []primitive.ObjectID{source.ID, target.ID}},
	})
	if err != nil {
		return models.SchoolClass{}, err
	}

	target.ActiveStudentsCount += moving
	if source.IsDefault {
		target.IsDefault = true
	}
	target.HasMultipleSections = remaining > 0

	ws := writeset.New(m.log)
	ws.Add("students.reassign_class", func(ctx context.Context) error {
		_, err := m.students.ReassignClass(ctx, source.ID, target.ID)
		return err
	})
	ws.Add("classes.save_target", func(ctx context.Context) error {
		return m.classes.SaveCounts(ctx, &target)
	})
	if remaining > 0 {
		ws.Add("classes.sync_multisection", func(ctx context.Context) error {
			return m.classes.SetMultiSection(ctx, target.ClassName, target.SchoolID, true)
		})
	}
	if source.ClassName != target.ClassName {
		// The source name loses a section too; its survivors may drop
		// back to single-section.
		ws.Add("classes.recompute_source_name", func(ctx context.Context) error {
			n, err := m.classes.Count(ctx, bson.M{
				"class_name": source.ClassName,
				"school_id":  source.SchoolID,
				"_id":        bson.M{"$ne": source.ID},
			})
			if err != nil {
				return err
			}
			if n > 0 {
				return m.classes.SetMultiSection(ctx, source.ClassName, source.SchoolID, n > 1)
			}
			return nil
		})
	}
	ws.Add("classes.delete_source", func(ctx context.Context) error {
		return m.classes.Delete(ctx, source.ID)
	})

	if err := ws.Apply(ctx); err != nil {
		return models.SchoolClass{}, err
	}

	m.log.Info("class merged",
		zap.String("source_class", source.ID.Hex()),
		zap.String("target_class", target.ID.Hex()),
		zap.Int("students_moved", moving))
	return target, nil
}

// MoveStudents reassigns the named students to the target class.
//
// The source class is taken from the first student in the list; when
// the list spans several source classes only the first student's class
// has its counters adjusted. That is a known limitation carried over
// from the original behavior, not an invariant.
func (m *Manager) MoveStudents(ctx context.Context, studentIDs []primitive.ObjectID, targetID primitive.ObjectID) ([]models.Student, error) {
	if len(studentIDs) == 0 {
		return nil, apperr.Validationf("no students selected")
	}
	target, err := m.classes.GetByID(ctx, targetID)
	if err != nil {
		if errors.Is(err, classstore.ErrNotFound) {
			return nil, &apperr.NotFound{Entity: "class", ID: targetID.Hex()}
		}
		return nil, err
	}

	list, err := m.students.GetByIDs(ctx, studentIDs)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, &apperr.NotFound{Entity: "student"}
	}

	source, err := m.classes.GetByID(ctx, list[0].ClassID)
	if err != nil {
		if errors.Is(err, classstore.ErrNotFound) {
			return nil, &apperr.NotFound{Entity: "class", ID: list[0].ClassID.Hex()}
		}
		return nil, err
	}
	if source.ID == target.ID {
		return nil, apperr.Validationf("students are already in this class")
	}

	activeCount := 0
	for _, student := range list {
		if student.Status == models.StudentActive {
			activeCount++
		}
	}
	if err := capacity.Validate(&target, activeCount); err != nil {
		return nil, err
	}

	ws := writeset.New(m.log)
	for i := range list {
		student := &list[i]
		if student.Status == models.StudentActive {
			source.ActiveStudentsCount--
			target.ActiveStudentsCount++
		}
		student.ClassID = target.ID
		ws.Add("students.update_"+student.ID.Hex(), func(ctx context.Context) error {
			return m.students.Update(ctx, student.ID, bson.M{"class_id": target.ID})
		})
	}
	ws.Add("classes.save_source", func(ctx context.Context) error {
		return m.classes.SaveCounts(ctx, &source)
	})
	ws.Add("classes.save_target", func(ctx context.Context) error {
		return m.classes.SaveCounts(ctx, &target)
	})

	if err := ws.Apply(ctx); err != nil {
		return nil, err
	}

	m.log.Info("students moved",
		zap.String("source_class", source.ID.Hex()),
		zap.String("target_class", target.ID.Hex()),
		zap.Int("students", len(list)),
		zap.Int("active_students", activeCount))
	return list, nil
}
