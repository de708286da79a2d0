package repository

import (
	"context"
	"errors"

	"tutor-portal/internal/domain/entity"
	domainRepo "tutor-portal/internal/domain/repository"

	"gorm.io/gorm"
)

type medicacaoRepository struct {
	db *gorm.DB
}

func NewMedicacaoRepository(db *gorm.DB) domainRepo.MedicacaoRepository {
	return &medicacaoRepository{db: db}
}

func (r *medicacaoRepository) Create(ctx context.Context, medicacao *entity.Medicacao) error {
	return conn(ctx, r.db).Create(medicacao).Error
}

func (r *medicacaoRepository) FindByID(ctx context.Context, id string) (*entity.Medicacao, error) {
	var medicacao entity.Medicacao
	err := conn(ctx, r.db).Where("id = ?", id).First(&medicacao).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &medicacao, nil
}

func (r *medicacaoRepository) FindByIdosoID(ctx context.Context, idosoID string) ([]entity.Medicacao, error) {
	var medicacoes []entity.Medicacao
	err := conn(ctx, r.db).Where("idoso_id = ?", idosoID).Order("created_at ASC").Find(&medicacoes).Error
	if err != nil {
		return nil, err
	}
	return medicacoes, nil
}

func (r *medicacaoRepository) Update(ctx context.Context, medicacao *entity.Medicacao) error {
	return conn(ctx, r.db).Save(medicacao).Error
}

func (r *medicacaoRepository) Delete(ctx context.Context, id string) error {
	return conn(ctx, r.db).Where("id = ?", id).Delete(&entity.Medicacao{}).Error
}
