package repository

import (
	"context"
	"errors"

	"tutor-portal/internal/domain/entity"
	domainRepo "tutor-portal/internal/domain/repository"

	"gorm.io/gorm"
)

type eventoRepository struct {
	db *gorm.DB
}

func NewEventoRepository(db *gorm.DB) domainRepo.EventoRepository {
	return &eventoRepository{db: db}
}

func (r *eventoRepository) Create(ctx context.Context, evento *entity.Evento) error {
	return conn(ctx, r.db).Create(evento).Error
}

func (r *eventoRepository) FindByID(ctx context.Context, id string) (*entity.Evento, error) {
	var evento entity.Evento
	err := conn(ctx, r.db).Where("id = ?", id).First(&evento).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &evento, nil
}

func (r *eventoRepository) FindByTutorID(ctx context.Context, tutorID string) ([]entity.Evento, error) {
	var eventos []entity.Evento
	err := conn(ctx, r.db).
		Where("tutor_id = ?", tutorID).
		Order("datetime DESC, created_at DESC, id DESC").
		Find(&eventos).Error
	if err != nil {
		return nil, err
	}
	return eventos, nil
}

func (r *eventoRepository) MarkRead(ctx context.Context, id, tutorID string) (int64, error) {
	result := conn(ctx, r.db).
		Model(&entity.Evento{}).
		Where("id = ? AND tutor_id = ?", id, tutorID).
		Update("lido", true)
	return result.RowsAffected, result.Error
}

// TrimByTutor keeps the tutor's keep most recently stored events. Storage order
// decides, not the device supplied datetime, so the event just stored always stays.
func (r *eventoRepository) TrimByTutor(ctx context.Context, tutorID string, keep int) (int64, error) {
	newest := conn(ctx, r.db).
		Model(&entity.Evento{}).
		Select("id").
		Where("tutor_id = ?", tutorID).
		Order("seq DESC").
		Limit(keep)

	result := conn(ctx, r.db).
		Where("tutor_id = ? AND id NOT IN (?)", tutorID, newest).
		Delete(&entity.Evento{})
	return result.RowsAffected, result.Error
}
