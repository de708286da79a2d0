package repository

import (
	"context"
	"errors"

	"tutor-portal/internal/domain/entity"
	domainRepo "tutor-portal/internal/domain/repository"

	"gorm.io/gorm"
)

type tutorRepository struct {
	db *gorm.DB
}

func NewTutorRepository(db *gorm.DB) domainRepo.TutorRepository {
	return &tutorRepository{db: db}
}

func (r *tutorRepository) Create(ctx context.Context, tutor *entity.Tutor) error {
	return translateError(conn(ctx, r.db).Create(tutor).Error)
}

func (r *tutorRepository) FindByID(ctx context.Context, id string) (*entity.Tutor, error) {
	return r.findOne(ctx, "id = ?", id)
}

func (r *tutorRepository) FindByUserID(ctx context.Context, userID string) (*entity.Tutor, error) {
	return r.findOne(ctx, "user_id = ?", userID)
}

func (r *tutorRepository) findOne(ctx context.Context, query string, arg string) (*entity.Tutor, error) {
	var tutor entity.Tutor
	err := conn(ctx, r.db).Where(query, arg).First(&tutor).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &tutor, nil
}

func (r *tutorRepository) Update(ctx context.Context, tutor *entity.Tutor) error {
	return conn(ctx, r.db).Save(tutor).Error
}
