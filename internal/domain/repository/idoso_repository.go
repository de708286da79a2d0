package repository

import (
	"context"

	"tutor-portal/internal/domain/entity"
)

type IdosoRepository interface {
	Create(ctx context.Context, idoso *entity.Idoso) error
	// FindByID loads the idoso with its medications and exams.
	FindByID(ctx context.Context, id string) (*entity.Idoso, error)
	FindByTutorID(ctx context.Context, tutorID string) ([]entity.Idoso, error)
	Update(ctx context.Context, idoso *entity.Idoso) error
}

type MedicacaoRepository interface {
	Create(ctx context.Context, medicacao *entity.Medicacao) error
	FindByID(ctx context.Context, id string) (*entity.Medicacao, error)
	FindByIdosoID(ctx context.Context, idosoID string) ([]entity.Medicacao, error)
	Update(ctx context.Context, medicacao *entity.Medicacao) error
	Delete(ctx context.Context, id string) error
}

type ExameRepository interface {
	Create(ctx context.Context, exame *entity.Exame) error
	FindByID(ctx context.Context, id string) (*entity.Exame, error)
	FindByIdosoID(ctx context.Context, idosoID string) ([]entity.Exame, error)
	Update(ctx context.Context, exame *entity.Exame) error
	Delete(ctx context.Context, id string) error
}
