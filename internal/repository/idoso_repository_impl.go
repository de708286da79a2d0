package repository

import (
	"context"
	"errors"

	"tutor-portal/internal/domain/entity"
	domainRepo "tutor-portal/internal/domain/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type idosoRepository struct {
	db *gorm.DB
}

func NewIdosoRepository(db *gorm.DB) domainRepo.IdosoRepository {
	return &idosoRepository{db: db}
}

// Create inserts the idoso together with any nested medications and exams.
func (r *idosoRepository) Create(ctx context.Context, idoso *entity.Idoso) error {
	return conn(ctx, r.db).Create(idoso).Error
}

func (r *idosoRepository) FindByID(ctx context.Context, id string) (*entity.Idoso, error) {
	var idoso entity.Idoso
	err := conn(ctx, r.db).
		Preload("Medicacoes", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		Preload("Exames", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		Where("id = ?", id).
		First(&idoso).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &idoso, nil
}

func (r *idosoRepository) FindByTutorID(ctx context.Context, tutorID string) ([]entity.Idoso, error) {
	var idosos []entity.Idoso
	err := conn(ctx, r.db).
		Preload("Medicacoes", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		Preload("Exames", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		Where("tutor_id = ?", tutorID).
		Order("created_at ASC").
		Find(&idosos).Error
	if err != nil {
		return nil, err
	}
	return idosos, nil
}

// Update saves the idoso columns only; medications and exams have their own store.
func (r *idosoRepository) Update(ctx context.Context, idoso *entity.Idoso) error {
	return conn(ctx, r.db).Omit(clause.Associations).Save(idoso).Error
}
