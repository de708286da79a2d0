package usecase

import (
	"context"
	"errors"
	"fmt"

	"tutor-portal/internal/converter"
	"tutor-portal/internal/delivery/dto"
	"tutor-portal/internal/domain/entity"
	"tutor-portal/internal/domain/repository"
	"tutor-portal/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var ErrExameNotFound = errors.New("exame not found")

type ExameUsecase interface {
	Add(ctx context.Context, idosoID string, req *dto.ExameRequest) (*dto.ExameResponse, error)
	List(ctx context.Context, idosoID string) ([]dto.ExameResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateExameRequest) (*dto.ExameResponse, error)
	Delete(ctx context.Context, id string) error
}

type exameUsecase struct {
	log           *logrus.Logger
	transactor    repository.Transactor
	idosoRepo     repository.IdosoRepository
	exameRepo repository.ExameRepository
	auditService  service.AuditService
}

func NewExameUsecase(
	log *logrus.Logger,
	transactor repository.Transactor,
	idosoRepo repository.IdosoRepository,
	exameRepo repository.ExameRepository,
	auditService service.AuditService,
) ExameUsecase {
	return &exameUsecase{
		log:           log,
		transactor:    transactor,
		idosoRepo:     idosoRepo,
		exameRepo: exameRepo,
		auditService:  auditService,
	}
}

func (u *exameUsecase) Add(ctx context.Context, idosoID string, req *dto.ExameRequest) (*dto.ExameResponse, error) {
	identity, err := currentIdentity(ctx)
	if err != nil {
		return nil, err
	}

	exame := converter.ExameFromRequest(*req)
	exame.ID = uuid.NewString()
	exame.IdosoID = idosoID

	err = u.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		if _, err := loadOwnedIdoso(ctx, u.idosoRepo, idosoID, identity); err != nil {
			return err
		}
		if err := u.exameRepo.Create(ctx, &exame); err != nil {
			return fmt.Errorf("create exame: %w", err)
		}
		return u.auditService.LogCreate(ctx, identity.UserID, entity.AuditActionExameCreate, "exame", exame.ID, converter.ExameToResponse(&exame))
	})
	if err != nil {
		u.logUnexpected("add exame", err)
		return nil, err
	}

	return converter.ExameToResponse(&exame), nil
}

func (u *exameUsecase) List(ctx context.Context, idosoID string) ([]dto.ExameResponse, error) {
	identity, err := currentIdentity(ctx)
	if err != nil {
		return nil, err
	}
	if _, err := loadOwnedIdoso(ctx, u.idosoRepo, idosoID, identity); err != nil {
		return nil, err
	}

	exames, err := u.exameRepo.FindByIdosoID(ctx, idosoID)
	if err != nil {
		u.log.Warnf("Failed to list exames: %+v", err)
		return nil, err
	}
	return converter.ExamesToResponses(exames), nil
}

func (u *exameUsecase) Update(ctx context.Context, id string, req *dto.UpdateExameRequest) (*dto.ExameResponse, error) {
	identity, err := currentIdentity(ctx)
	if err != nil {
		return nil, err
	}

	var updated *entity.Exame
	err = u.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		exame, err := u.loadOwned(ctx, id, identity.TutorID)
		if err != nil {
			return err
		}
		oldValue := converter.ExameToResponse(exame)

		if req.Nome != nil {
			exame.Nome = *req.Nome
		}
		if req.Data != nil {
			exame.Data = *req.Data
		}
		if req.Resultado != nil {
			exame.Resultado = *req.Resultado
		}
		if req.Observacoes != nil {
			exame.Observacoes = *req.Observacoes
		}
		if req.Arquivo != nil {
			exame.Arquivo = *req.Arquivo
		}

		if err := u.exameRepo.Update(ctx, exame); err != nil {
			return fmt.Errorf("update exame: %w", err)
		}
		updated = exame
		return u.auditService.LogUpdate(ctx, identity.UserID, entity.AuditActionExameUpdate, "exame", exame.ID, oldValue, converter.ExameToResponse(exame))
	})
	if err != nil {
		u.logUnexpected("update exame", err)
		return nil, err
	}

	return converter.ExameToResponse(updated), nil
}

func (u *exameUsecase) Delete(ctx context.Context, id string) error {
	identity, err := currentIdentity(ctx)
	if err != nil {
		return err
	}

	err = u.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		exame, err := u.loadOwned(ctx, id, identity.TutorID)
		if err != nil {
			return err
		}
		if err := u.exameRepo.Delete(ctx, id); err != nil {
			return fmt.Errorf("delete exame: %w", err)
		}
		return u.auditService.LogDelete(ctx, identity.UserID, entity.AuditActionExameDelete, "exame", id, converter.ExameToResponse(exame))
	})
	if err != nil {
		u.logUnexpected("delete exame", err)
		return err
	}
	return nil
}

// loadOwned returns the exam when its idoso belongs to tutorID.
func (u *exameUsecase) loadOwned(ctx context.Context, id, tutorID string) (*entity.Exame, error) {
	exame, err := u.exameRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if exame == nil {
		return nil, ErrExameNotFound
	}
	idoso, err := u.idosoRepo.FindByID(ctx, exame.IdosoID)
	if err != nil {
		return nil, err
	}
	if idoso == nil || idoso.TutorID != tutorID {
		return nil, ErrForbidden
	}
	return exame, nil
}

func (u *exameUsecase) logUnexpected(op string, err error) {
	switch {
	case errors.Is(err, ErrIdosoNotFound), errors.Is(err, ErrExameNotFound), errors.Is(err, ErrForbidden):
		return
	}
	u.log.Warnf("Failed to %s: %+v", op, err)
}
