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

	"github.com/sirupsen/logrus"
)

var ErrTutorNotFound = errors.New("tutor not found")

const activityLimit = 100

type TutorUsecase interface {
	GetProfile(ctx context.Context) (*dto.TutorResponse, error)
	UpdateProfile(ctx context.Context, req *dto.UpdateTutorRequest) (*dto.TutorResponse, error)
	GetActivity(ctx context.Context) ([]dto.AuditLogResponse, error)
}

type tutorUsecase struct {
	log          *logrus.Logger
	transactor   repository.Transactor
	tutorRepo    repository.TutorRepository
	auditService service.AuditService
	maxContacts  int
}

func NewTutorUsecase(
	log *logrus.Logger,
	transactor repository.Transactor,
	tutorRepo repository.TutorRepository,
	auditService service.AuditService,
	maxContacts int,
) TutorUsecase {
	return &tutorUsecase{
		log:          log,
		transactor:   transactor,
		tutorRepo:    tutorRepo,
		auditService: auditService,
		maxContacts:  maxContacts,
	}
}

func (u *tutorUsecase) GetProfile(ctx context.Context) (*dto.TutorResponse, error) {
	identity, err := currentIdentity(ctx)
	if err != nil {
		return nil, err
	}

	tutor, err := u.tutorRepo.FindByID(ctx, identity.TutorID)
	if err != nil {
		u.log.Warnf("Failed to find tutor: %+v", err)
		return nil, err
	}
	if tutor == nil {
		return nil, ErrTutorNotFound
	}
	return converter.TutorToResponse(tutor), nil
}

// UpdateProfile merges the provided fields. Email and owning user never change here.
func (u *tutorUsecase) UpdateProfile(ctx context.Context, req *dto.UpdateTutorRequest) (*dto.TutorResponse, error) {
	identity, err := currentIdentity(ctx)
	if err != nil {
		return nil, err
	}

	var updated *entity.Tutor
	err = u.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		tutor, err := u.tutorRepo.FindByID(ctx, identity.TutorID)
		if err != nil {
			return fmt.Errorf("find tutor: %w", err)
		}
		if tutor == nil {
			return ErrTutorNotFound
		}

		// Capture old value for audit
		oldValue := converter.TutorToResponse(tutor)

		if req.Nome != nil {
			tutor.Nome = *req.Nome
		}
		if req.Documento != nil {
			tutor.Documento = *req.Documento
		}
		if req.Idade != nil {
			tutor.Idade = *req.Idade
		}
		if req.Endereco != nil {
			tutor.Endereco = converter.EnderecoFromDTO(*req.Endereco)
		}
		if req.ContatosEmergencia != nil {
			contatos, err := buildContatos(req.ContatosEmergencia, u.maxContacts)
			if err != nil {
				return err
			}
			tutor.ContatosEmergencia = contatos
		}
		if req.Foto != nil {
			tutor.Foto = *req.Foto
		}
		if req.DeviceToken != nil {
			tutor.DeviceToken = *req.DeviceToken
		}

		if err := u.tutorRepo.Update(ctx, tutor); err != nil {
			return fmt.Errorf("update tutor: %w", err)
		}
		updated = tutor

		return u.auditService.LogUpdate(ctx, identity.UserID, entity.AuditActionTutorUpdate, "tutor", tutor.ID, oldValue, converter.TutorToResponse(tutor))
	})
	if err != nil {
		if !errors.Is(err, ErrTutorNotFound) && !errors.Is(err, ErrTooManyContacts) {
			u.log.Warnf("Failed to update tutor profile: %+v", err)
		}
		return nil, err
	}

	return converter.TutorToResponse(updated), nil
}

func (u *tutorUsecase) GetActivity(ctx context.Context) ([]dto.AuditLogResponse, error) {
	identity, err := currentIdentity(ctx)
	if err != nil {
		return nil, err
	}

	logs, err := u.auditService.ListByUser(ctx, identity.UserID, activityLimit)
	if err != nil {
		u.log.Warnf("Failed to list audit logs: %+v", err)
		return nil, err
	}
	return converter.AuditLogsToResponses(logs), nil
}
