// Package store persists projects through gorm. Every write replaces the
// whole project row; read-modify-write sequences run in one transaction.
package store

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/zulandar/southwood/internal/civil"
	"github.com/zulandar/southwood/internal/metrics"
	"github.com/zulandar/southwood/internal/models"
	"github.com/zulandar/southwood/internal/phase"
	"github.com/zulandar/southwood/internal/project"
)

// ErrNotFound is returned when no project has the requested id.
var ErrNotFound = errors.New("store: project not found")

// ListFilters holds optional filters for listing projects.
type ListFilters struct {
	Phase            phase.Phase
	IncludeCompleted bool
}

func observe(op string) func() {
	start := time.Now()
	return func() { metrics.RecordStoreOperation(op, time.Since(start)) }
}

// Create validates opts, issues the next id and inserts the project. The id
// is read and claimed inside one transaction.
func Create(db *gorm.DB, opts project.CreateOpts, today civil.Date) (project.Project, error) {
	defer observe("create")()
	var created project.Project
	err := db.Transaction(func(tx *gorm.DB) error {
		ids, err := IDs(tx)
		if err != nil {
			return err
		}
		p, err := project.New(opts, ids, today)
		if err != nil {
			return err
		}
		row, err := toModel(p)
		if err != nil {
			return err
		}
		if err := tx.Create(&row).Error; err != nil {
			return fmt.Errorf("store: create %s: %w", p.ID, err)
		}
		created = p
		return nil
	})
	if err != nil {
		return project.Project{}, err
	}
	metrics.IncrementMutation("create")
	return created, nil
}

// Get retrieves a project by id.
func Get(db *gorm.DB, id string) (project.Project, error) {
	defer observe("get")()
	var row models.Project
	if err := db.Where("id = ?", id).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return project.Project{}, fmt.Errorf("store: get %s: %w", id, ErrNotFound)
		}
		return project.Project{}, fmt.Errorf("store: get %s: %w", id, err)
	}
	return fromModel(row)
}

// List returns projects matching filters in creation order. Completed
// projects are left out unless IncludeCompleted is set.
func List(db *gorm.DB, filters ListFilters) ([]project.Project, error) {
	defer observe("list")()
	q := db.Model(&models.Project{})
	if filters.Phase != "" {
		q = q.Where("phase = ?", string(filters.Phase))
	}
	if !filters.IncludeCompleted {
		q = q.Where("completed_at IS NULL")
	}

	var rows []models.Project
	if err := q.Order("created_at ASC, id ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("store: list: %w", err)
	}
	out := make([]project.Project, 0, len(rows))
	for _, row := range rows {
		p, err := fromModel(row)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

// All returns every project, completed ones included.
func All(db *gorm.DB) ([]project.Project, error) {
	return List(db, ListFilters{IncludeCompleted: true})
}

// IDs returns every stored project id.
func IDs(db *gorm.DB) ([]string, error) {
	var ids []string
	if err := db.Model(&models.Project{}).Pluck("id", &ids).Error; err != nil {
		return nil, fmt.Errorf("store: list ids: %w", err)
	}
	return ids, nil
}

// Save replaces the stored row for p.ID with p.
func Save(db *gorm.DB, p project.Project) error {
	defer observe("save")()
	return save(db, p)
}

func save(db *gorm.DB, p project.Project) error {
	row, err := toModel(p)
	if err != nil {
		return err
	}
	res := db.Model(&models.Project{}).Where("id = ?", p.ID).
		Select("*").Omit("id", "created_at").Updates(&row)
	if res.Error != nil {
		return fmt.Errorf("store: save %s: %w", p.ID, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("store: save %s: %w", p.ID, ErrNotFound)
	}
	return nil
}

// Mutate loads project id, applies fn and stores the result, all in one
// transaction. fn must not change the id. kind labels the mutation metric.
func Mutate(db *gorm.DB, id, kind string, fn func(project.Project) (project.Project, error)) (project.Project, error) {
	defer observe("mutate")()
	var updated project.Project
	err := db.Transaction(func(tx *gorm.DB) error {
		current, err := Get(tx, id)
		if err != nil {
			return err
		}
		next, err := fn(current)
		if err != nil {
			return err
		}
		if next.ID != id {
			return fmt.Errorf("store: mutate %s: id changed to %q", id, next.ID)
		}
		if err := save(tx, next); err != nil {
			return err
		}
		updated = next
		return nil
	})
	if err != nil {
		return project.Project{}, err
	}
	metrics.IncrementMutation(kind)
	return updated, nil
}

// Delete removes project id.
func Delete(db *gorm.DB, id string) error {
	defer observe("delete")()
	res := db.Where("id = ?", id).Delete(&models.Project{})
	if res.Error != nil {
		return fmt.Errorf("store: delete %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("store: delete %s: %w", id, ErrNotFound)
	}
	metrics.IncrementMutation("delete")
	return nil
}

// Import upserts projects by id, replacing any stored row with the same id.
func Import(db *gorm.DB, projects []project.Project) error {
	defer observe("import")()
	return db.Transaction(func(tx *gorm.DB) error {
		for _, p := range projects {
			row, err := toModel(p)
			if err != nil {
				return err
			}
			res := tx.Clauses(clause.OnConflict{
				Columns: []clause.Column{{Name: "id"}},
				DoUpdates: clause.AssignmentColumns([]string{
					"name", "client", "location", "value", "contact_person", "contact_email",
					"phase", "milestones", "done", "phase_since", "completed_at",
					"last_contact", "cadence_days", "updated_at",
				}),
			}).Create(&row)
			if res.Error != nil {
				return fmt.Errorf("store: import %s: %w", p.ID, res.Error)
			}
		}
		return nil
	})
}
