package repository

import (
	"context"

	"tutor-portal/internal/domain/entity"
)

type EventoRepository interface {
	Create(ctx context.Context, evento *entity.Evento) error
	FindByID(ctx context.Context, id string) (*entity.Evento, error)
	// FindByTutorID returns the tutor's events newest first.
	FindByTutorID(ctx context.Context, tutorID string) ([]entity.Evento, error)
	// MarkRead flags the event as read when it belongs to tutorID and reports how many rows matched.
	MarkRead(ctx context.Context, id, tutorID string) (int64, error)
	// TrimByTutor deletes the tutor's events beyond the keep most recently stored ones.
	TrimByTutor(ctx context.Context, tutorID string, keep int) (int64, error)
}
