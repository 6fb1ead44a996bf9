package repositories

import (
	"smartdrishti-server/db"
	"smartdrishti-server/entities"
)

type stepMediaPgRepository struct {
	db db.Database
}

func NewStepMediaPgRepository(database db.Database) StepMediaRepository {
	return &stepMediaPgRepository{db: database}
}

func (r *stepMediaPgRepository) Create(media *entities.StepMedia) error {
	return r.db.GetDB().Create(media).Error
}

func (r *stepMediaPgRepository) GetByID(id string) (*entities.StepMedia, error) {
	var media entities.StepMedia
	err := r.db.GetDB().Where("id = ?", id).First(&media).Error
	if err != nil {
		return nil, err
	}
	return &media, nil
}

func (r *stepMediaPgRepository) Delete(id string) error {
	return r.db.GetDB().Where("id = ?", id).Delete(&entities.StepMedia{}).Error
}
