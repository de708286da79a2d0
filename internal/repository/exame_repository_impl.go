package repository

import (
	"context"
	"errors"

	"tutor-portal/internal/domain/entity"
	domainRepo "tutor-portal/internal/domain/repository"

	"gorm.io/gorm"
)

type exameRepository struct {
	db *gorm.DB
}

func NewExameRepository(db *gorm.DB) domainRepo.ExameRepository {
	return &exameRepository{db: db}
}

func (r *exameRepository) Create(ctx context.Context, exame *entity.Exame) error {
	return conn(ctx, r.db).Create(exame).Error
}

func (r *exameRepository) FindByID(ctx context.Context, id string) (*entity.Exame, error) {
	var exame entity.Exame
	err := conn(ctx, r.db).Where("id = ?", id).First(&exame).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &exame, nil
}

func (r *exameRepository) FindByIdosoID(ctx context.Context, idosoID string) ([]entity.Exame, error) {
	var exames []entity.Exame
	err := conn(ctx, r.db).Where("idoso_id = ?", idosoID).Order("created_at ASC").Find(&exames).Error
	if err != nil {
		return nil, err
	}
	return exames, nil
}

func (r *exameRepository) Update(ctx context.Context, exame *entity.Exame) error {
	return conn(ctx, r.db).Save(exame).Error
}

func (r *exameRepository) Delete(ctx context.Context, id string) error {
	return conn(ctx, r.db).Where("id = ?", id).Delete(&entity.Exame{}).Error
}
