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

var ErrMedicacaoNotFound = errors.New("medicacao not found")

type MedicacaoUsecase interface {
	Add(ctx context.Context, idosoID string, req *dto.MedicacaoRequest) (*dto.MedicacaoResponse, error)
	List(ctx context.Context, idosoID string) ([]dto.MedicacaoResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateMedicacaoRequest) (*dto.MedicacaoResponse, error)
	Delete(ctx context.Context, id string) error
}

type medicacaoUsecase struct {
	log           *logrus.Logger
	transactor    repository.Transactor
	idosoRepo     repository.IdosoRepository
	medicacaoRepo repository.MedicacaoRepository
	auditService  service.AuditService
}

func NewMedicacaoUsecase(
	log *logrus.Logger,
	transactor repository.Transactor,
	idosoRepo repository.IdosoRepository,
	medicacaoRepo repository.MedicacaoRepository,
	auditService service.AuditService,
) MedicacaoUsecase {
	return &medicacaoUsecase{
		log:           log,
		transactor:    transactor,
		idosoRepo:     idosoRepo,
		medicacaoRepo: medicacaoRepo,
		auditService:  auditService,
	}
}

func (u *medicacaoUsecase) Add(ctx context.Context, idosoID string, req *dto.MedicacaoRequest) (*dto.MedicacaoResponse, error) {
	identity, err := currentIdentity(ctx)
	if err != nil {
		return nil, err
	}

	medicacao := converter.MedicacaoFromRequest(*req)
	medicacao.ID = uuid.NewString()
	medicacao.IdosoID = idosoID

	err = u.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		if _, err := loadOwnedIdoso(ctx, u.idosoRepo, idosoID, identity); err != nil {
			return err
		}
		if err := u.medicacaoRepo.Create(ctx, &medicacao); err != nil {
			return fmt.Errorf("create medicacao: %w", err)
		}
		return u.auditService.LogCreate(ctx, identity.UserID, entity.AuditActionMedicacaoCreate, "medicacao", medicacao.ID, converter.MedicacaoToResponse(&medicacao))
	})
	if err != nil {
		u.logUnexpected("add medicacao", err)
		return nil, err
	}

	return converter.MedicacaoToResponse(&medicacao), nil
}

func (u *medicacaoUsecase) List(ctx context.Context, idosoID string) ([]dto.MedicacaoResponse, error) {
	identity, err := currentIdentity(ctx)
	if err != nil {
		return nil, err
	}
	if _, err := loadOwnedIdoso(ctx, u.idosoRepo, idosoID, identity); err != nil {
		return nil, err
	}

	medicacoes, err := u.medicacaoRepo.FindByIdosoID(ctx, idosoID)
	if err != nil {
		u.log.Warnf("Failed to list medicacoes: %+v", err)
		return nil, err
	}
	return converter.MedicacoesToResponses(medicacoes), nil
}

func (u *medicacaoUsecase) Update(ctx context.Context, id string, req *dto.UpdateMedicacaoRequest) (*dto.MedicacaoResponse, error) {
	identity, err := currentIdentity(ctx)
	if err != nil {
		return nil, err
	}

	var updated *entity.Medicacao
	err = u.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		medicacao, err := u.loadOwned(ctx, id, identity.TutorID)
		if err != nil {
			return err
		}
		oldValue := converter.MedicacaoToResponse(medicacao)

		if req.Nome != nil {
			medicacao.Nome = *req.Nome
		}
		if req.Dosagem != nil {
			medicacao.Dosagem = *req.Dosagem
		}
		if req.Frequencia != nil {
			medicacao.Frequencia = *req.Frequencia
		}
		if req.Horarios != nil {
			medicacao.Horarios = entity.StringList(append([]string{}, req.Horarios...))
		}
		if req.Observacoes != nil {
			medicacao.Observacoes = *req.Observacoes
		}

		if err := u.medicacaoRepo.Update(ctx, medicacao); err != nil {
			return fmt.Errorf("update medicacao: %w", err)
		}
		updated = medicacao
		return u.auditService.LogUpdate(ctx, identity.UserID, entity.AuditActionMedicacaoUpdate, "medicacao", medicacao.ID, oldValue, converter.MedicacaoToResponse(medicacao))
	})
	if err != nil {
		u.logUnexpected("update medicacao", err)
		return nil, err
	}

	return converter.MedicacaoToResponse(updated), nil
}

func (u *medicacaoUsecase) Delete(ctx context.Context, id string) error {
	identity, err := currentIdentity(ctx)
	if err != nil {
		return err
	}

	err = u.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		medicacao, err := u.loadOwned(ctx, id, identity.TutorID)
		if err != nil {
			return err
		}
		if err := u.medicacaoRepo.Delete(ctx, id); err != nil {
			return fmt.Errorf("delete medicacao: %w", err)
		}
		return u.auditService.LogDelete(ctx, identity.UserID, entity.AuditActionMedicacaoDelete, "medicacao", id, converter.MedicacaoToResponse(medicacao))
	})
	if err != nil {
		u.logUnexpected("delete medicacao", err)
		return err
	}
	return nil
}

// loadOwned returns the medication when its idoso belongs to tutorID.
func (u *medicacaoUsecase) loadOwned(ctx context.Context, id, tutorID string) (*entity.Medicacao, error) {
	medicacao, err := u.medicacaoRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if medicacao == nil {
		return nil, ErrMedicacaoNotFound
	}
	idoso, err := u.idosoRepo.FindByID(ctx, medicacao.IdosoID)
	if err != nil {
		return nil, err
	}
	if idoso == nil || idoso.TutorID != tutorID {
		return nil, ErrForbidden
	}
	return medicacao, nil
}

func (u *medicacaoUsecase) logUnexpected(op string, err error) {
	switch {
	case errors.Is(err, ErrIdosoNotFound), errors.Is(err, ErrMedicacaoNotFound), errors.Is(err, ErrForbidden):
		return
	}
	u.log.Warnf("Failed to %s: %+v", op, err)
}
