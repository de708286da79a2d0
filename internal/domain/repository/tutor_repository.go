package repository

import (
	"context"

	"tutor-portal/internal/domain/entity"
)

type TutorRepository interface {
	Create(ctx context.Context, tutor *entity.Tutor) error
	FindByID(ctx context.Context, id string) (*entity.Tutor, error)
	FindByUserID(ctx context.Context, userID string) (*entity.Tutor, error)
	Update(ctx context.Context, tutor *entity.Tutor) error
}
