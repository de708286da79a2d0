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

var ErrIdosoNotFound = errors.New("idoso not found")

type IdosoUsecase interface {
	Create(ctx context.Context, req *dto.CreateIdosoRequest) (*dto.IdosoResponse, error)
	GetByID(ctx context.Context, id string) (*dto.IdosoResponse, error)
	ListByTutor(ctx context.Context, tutorID string) ([]dto.IdosoResponse, error)
	Update(ctx context.Context, req *dto.UpdateIdosoRequest) (*dto.IdosoResponse, error)
}

type idosoUsecase struct {
	log          *logrus.Logger
	transactor   repository.Transactor
	idosoRepo    repository.IdosoRepository
	auditService service.AuditService
}

func NewIdosoUsecase(
	log *logrus.Logger,
	transactor repository.Transactor,
	idosoRepo repository.IdosoRepository,
	auditService service.AuditService,
) IdosoUsecase {
	return &idosoUsecase{
		log:          log,
		transactor:   transactor,
		idosoRepo:    idosoRepo,
		auditService: auditService,
	}
}

// Create registers an idoso for the caller, with any nested medications and exams.
func (u *idosoUsecase) Create(ctx context.Context, req *dto.CreateIdosoRequest) (*dto.IdosoResponse, error) {
	identity, err := currentIdentity(ctx)
	if err != nil {
		return nil, err
	}
	tutorID, err := resolveTutorID(req.TutorID, identity)
	if err != nil {
		return nil, err
	}

	idoso := &entity.Idoso{
		ID:            uuid.NewString(),
		TutorID:       tutorID,
		Nome:          req.Nome,
		Idade:         req.Idade,
		Altura:        req.Altura,
		Doencas:       entity.StringList(append([]string{}, req.Doencas...)),
		CondicaoAtual: req.CondicaoAtual,
		TemPlanoSaude: req.TemPlanoSaude,
		NumeroSUS:     req.NumeroSUS,
		Foto:          req.Foto,
	}
	if req.TemPlanoSaude && req.PlanoSaude != nil {
		idoso.SetPlanoSaude(&entity.PlanoSaude{Nome: req.PlanoSaude.Nome, NumeroCarteira: req.PlanoSaude.NumeroCarteira})
	}
	for _, m := range req.Medicacoes {
		medicacao := converter.MedicacaoFromRequest(m)
		medicacao.ID = uuid.NewString()
		medicacao.IdosoID = idoso.ID
		idoso.Medicacoes = append(idoso.Medicacoes, medicacao)
	}
	for _, e := range req.Exames {
		exame := converter.ExameFromRequest(e)
		exame.ID = uuid.NewString()
		exame.IdosoID = idoso.ID
		idoso.Exames = append(idoso.Exames, exame)
	}

	err = u.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := u.idosoRepo.Create(ctx, idoso); err != nil {
			return fmt.Errorf("create idoso: %w", err)
		}
		return u.auditService.LogCreate(ctx, identity.UserID, entity.AuditActionIdosoCreate, "idoso", idoso.ID, converter.IdosoToResponse(idoso))
	})
	if err != nil {
		u.log.Warnf("Failed to create idoso: %+v", err)
		return nil, err
	}

	return converter.IdosoToResponse(idoso), nil
}

func (u *idosoUsecase) GetByID(ctx context.Context, id string) (*dto.IdosoResponse, error) {
	identity, err := currentIdentity(ctx)
	if err != nil {
		return nil, err
	}

	idoso, err := loadOwnedIdoso(ctx, u.idosoRepo, id, identity)
	if err != nil {
		return nil, err
	}
	return converter.IdosoToResponse(idoso), nil
}

func (u *idosoUsecase) ListByTutor(ctx context.Context, tutorID string) ([]dto.IdosoResponse, error) {
	identity, err := currentIdentity(ctx)
	if err != nil {
		return nil, err
	}
	tutorID, err = resolveTutorID(tutorID, identity)
	if err != nil {
		return nil, err
	}

	idosos, err := u.idosoRepo.FindByTutorID(ctx, tutorID)
	if err != nil {
		u.log.Warnf("Failed to list idosos: %+v", err)
		return nil, err
	}
	return converter.IdososToResponses(idosos), nil
}

// Update merges the provided fields into the stored idoso.
func (u *idosoUsecase) Update(ctx context.Context, req *dto.UpdateIdosoRequest) (*dto.IdosoResponse, error) {
	identity, err := currentIdentity(ctx)
	if err != nil {
		return nil, err
	}

	var updated *entity.Idoso
	err = u.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		idoso, err := loadOwnedIdoso(ctx, u.idosoRepo, req.ID, identity)
		if err != nil {
			return err
		}

		oldValue := converter.IdosoToResponse(idoso)
		applyIdosoUpdate(idoso, req)

		if err := u.idosoRepo.Update(ctx, idoso); err != nil {
			return fmt.Errorf("update idoso: %w", err)
		}
		updated = idoso

		return u.auditService.LogUpdate(ctx, identity.UserID, entity.AuditActionIdosoUpdate, "idoso", idoso.ID, oldValue, converter.IdosoToResponse(idoso))
	})
	if err != nil {
		if !errors.Is(err, ErrIdosoNotFound) && !errors.Is(err, ErrForbidden) {
			u.log.Warnf("Failed to update idoso: %+v", err)
		}
		return nil, err
	}

	return converter.IdosoToResponse(updated), nil
}

func applyIdosoUpdate(idoso *entity.Idoso, req *dto.UpdateIdosoRequest) {
	if req.Nome != nil {
		idoso.Nome = *req.Nome
	}
	if req.Idade != nil {
		idoso.Idade = *req.Idade
	}
	if req.Altura != nil {
		idoso.Altura = *req.Altura
	}
	if req.Doencas != nil {
		idoso.Doencas = entity.StringList(append([]string{}, req.Doencas...))
	}
	if req.CondicaoAtual != nil {
		idoso.CondicaoAtual = *req.CondicaoAtual
	}
	if req.TemPlanoSaude != nil {
		idoso.TemPlanoSaude = *req.TemPlanoSaude
	}
	if req.PlanoSaude != nil {
		idoso.SetPlanoSaude(&entity.PlanoSaude{Nome: req.PlanoSaude.Nome, NumeroCarteira: req.PlanoSaude.NumeroCarteira})
	}
	if !idoso.TemPlanoSaude {
		idoso.SetPlanoSaude(nil)
	}
	if req.NumeroSUS != nil {
		idoso.NumeroSUS = *req.NumeroSUS
	}
	if req.Foto != nil {
		idoso.Foto = *req.Foto
	}
}
