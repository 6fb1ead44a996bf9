package repositories

import (
	"time"

	"smartdrishti-server/db"
	"smartdrishti-server/entities"

	"gorm.io/gorm"
)

type projectPgRepository struct {
	db db.Database
}

func NewProjectPgRepository(database db.Database) ProjectRepository {
	return &projectPgRepository{db: database}
}

// Create inserts the project and any nested steps in one transaction.
func (r *projectPgRepository) Create(project *entities.Project) error {
	return r.db.GetDB().Create(project).Error
}

func (r *projectPgRepository) GetByID(id string) (*entities.Project, error) {
	var project entities.Project
	err := r.db.GetDB().
		Preload("Steps", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("order_number ASC")
		}).
		Preload("Steps.Media").
		Where("id = ?", id).
		First(&project).Error
	if err != nil {
		return nil, err
	}
	return &project, nil
}

// ListVisible returns demo projects plus the user's own. An empty userID
// returns demo projects only.
func (r *projectPgRepository) ListVisible(userID string) ([]entities.Project, error) {
	var projects []entities.Project
	q := r.db.GetDB().
		Preload("Steps", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("order_number ASC")
		}).
		Preload("Steps.Media").
		Order("created_at DESC")
	if userID == "" {
		q = q.Where("is_demo = ?", true)
	} else {
		q = q.Where("is_demo = ? OR user_id = ?", true, userID)
	}
	err := q.Find(&projects).Error
	return projects, err
}

func (r *projectPgRepository) Update(project *entities.Project) error {
	project.UpdatedAt = time.Now().UTC().Format(time.RFC3339)
	return r.db.GetDB().Omit("Steps").Save(project).Error
}

// Delete removes the project together with its steps and their media, all in
// one transaction so a failure leaves everything in place.
func (r *projectPgRepository) Delete(id string) error {
	return r.db.GetDB().Transaction(func(tx *gorm.DB) error {
		var stepIDs []string
		if err := tx.Model(&entities.Step{}).Where("project_id = ?", id).Pluck("id", &stepIDs).Error; err != nil {
			return err
		}
		if len(stepIDs) > 0 {
			if err := tx.Where("step_id IN ?", stepIDs).Delete(&entities.StepMedia{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("project_id = ?", id).Delete(&entities.Step{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&entities.Project{}).Error
	})
}
