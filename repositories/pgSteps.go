package repositories

import (
	"time"

	"smartdrishti-server/db"
	"smartdrishti-server/entities"

	"gorm.io/gorm"
)

type stepPgRepository struct {
	db db.Database
}

func NewStepPgRepository(database db.Database) StepRepository {
	return &stepPgRepository{db: database}
}

func (r *stepPgRepository) Create(step *entities.Step) error {
	return r.db.GetDB().Create(step).Error
}

func (r *stepPgRepository) GetByID(id string) (*entities.Step, error) {
	var step entities.Step
	err := r.db.GetDB().Preload("Media").Where("id = ?", id).First(&step).Error
	if err != nil {
		return nil, err
	}
	return &step, nil
}

func (r *stepPgRepository) GetByProjectID(projectID string) ([]entities.Step, error) {
	var steps []entities.Step
	err := r.db.GetDB().
		Preload("Media").
		Where("project_id = ?", projectID).
		Order("order_number ASC").
		Find(&steps).Error
	return steps, err
}

func (r *stepPgRepository) Update(step *entities.Step) error {
	step.UpdatedAt = time.Now().UTC().Format(time.RFC3339)
	return r.db.GetDB().Omit("Media").Save(step).Error
}

// Delete removes the step and its media rows together.
func (r *stepPgRepository) Delete(id string) error {
	return r.db.GetDB().Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("step_id = ?", id).Delete(&entities.StepMedia{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&entities.Step{}).Error
	})
}
