package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"tutor-portal/internal/converter"
	"tutor-portal/internal/delivery/dto"
	"tutor-portal/internal/domain/entity"
	"tutor-portal/internal/domain/repository"
	"tutor-portal/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const TituloChamadaEmergencia = "Chamada de emergência"

// Public emergency services offered on every dashboard
var servicosEmergencia = []dto.ServicoEmergenciaDTO{
	{Nome: "Polícia", Numero: "190"},
	{Nome: "SAMU", Numero: "192"},
	{Nome: "Bombeiros", Numero: "193"},
}

type EmergenciaUsecase interface {
	Get(ctx context.Context) (*dto.EmergenciaResponse, error)
	Call(ctx context.Context, req *dto.ChamadaEmergenciaRequest) (*dto.ChamadaEmergenciaResponse, error)
}

type emergenciaUsecase struct {
	log          *logrus.Logger
	transactor   repository.Transactor
	tutorRepo    repository.TutorRepository
	idosoRepo    repository.IdosoRepository
	auditService service.AuditService
	hub          *service.EventHub
	appender     *eventoAppender
	now          func() time.Time
}

func NewEmergenciaUsecase(
	log *logrus.Logger,
	transactor repository.Transactor,
	tutorRepo repository.TutorRepository,
	idosoRepo repository.IdosoRepository,
	eventoRepo repository.EventoRepository,
	auditService service.AuditService,
	hub *service.EventHub,
	retentionLimit int,
) EmergenciaUsecase {
	return &emergenciaUsecase{
		log:          log,
		transactor:   transactor,
		tutorRepo:    tutorRepo,
		idosoRepo:    idosoRepo,
		auditService: auditService,
		hub:          hub,
		appender: &eventoAppender{
			eventoRepo:     eventoRepo,
			retentionLimit: retentionLimit,
		},
		now: time.Now,
	}
}

func (u *emergenciaUsecase) Get(ctx context.Context) (*dto.EmergenciaResponse, error) {
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

	response := &dto.EmergenciaResponse{
		Servicos: make([]dto.ServicoEmergenciaDTO, len(servicosEmergencia)),
		Contatos: make([]dto.ContatoDiscagemDTO, 0, len(tutor.ContatosEmergencia)),
	}
	for i, s := range servicosEmergencia {
		s.URI = DialURI(s.Numero)
		response.Servicos[i] = s
	}
	for _, c := range tutor.ContatosEmergencia {
		response.Contatos = append(response.Contatos, dto.ContatoDiscagemDTO{
			ID:       c.ID,
			Nome:     c.Nome,
			Telefone: c.Telefone,
			URI:      DialURI(c.Telefone),
		})
	}
	return response, nil
}

// Call records the emergency call on the timeline of the caller's idoso and
// returns the URI the client dials. Without an idoso only the URI is returned.
func (u *emergenciaUsecase) Call(ctx context.Context, req *dto.ChamadaEmergenciaRequest) (*dto.ChamadaEmergenciaResponse, error) {
	identity, err := currentIdentity(ctx)
	if err != nil {
		return nil, err
	}

	uri := DialURI(req.Numero)
	destino := req.Numero
	if req.Servico != "" {
		destino = fmt.Sprintf("%s (%s)", req.Servico, req.Numero)
	}

	var evento *entity.Evento
	var evicted int64
	err = u.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		idosos, err := u.idosoRepo.FindByTutorID(ctx, identity.TutorID)
		if err != nil {
			return fmt.Errorf("list idosos: %w", err)
		}

		if len(idosos) > 0 {
			evento = &entity.Evento{
				ID:         uuid.NewString(),
				TutorID:    identity.TutorID,
				IdosoID:    idosos[0].ID,
				Tipo:       entity.TipoAlerta,
				Severidade: entity.SeveridadeCritica,
				Titulo:     TituloChamadaEmergencia,
				Descricao:  fmt.Sprintf("Ligação para %s iniciada pelo tutor", destino),
			}
			evento.ApplyDefaults(u.now())
			// The tutor placed the call, so there is nothing left to acknowledge.
			evento.MarkRead()

			evicted, err = u.appender.append(ctx, evento)
			if err != nil {
				return fmt.Errorf("append evento: %w", err)
			}
		}

		return u.auditService.LogAction(ctx, identity.UserID, entity.AuditActionEmergenciaCall, entity.JSON{
			"numero":  req.Numero,
			"servico": req.Servico,
		})
	})
	if err != nil {
		u.log.Warnf("Failed to record emergency call: %+v", err)
		return nil, err
	}

	response := &dto.ChamadaEmergenciaResponse{URI: uri}
	if evento != nil {
		u.appender.committed(evento, evicted)
		response.Evento = converter.EventoToResponse(evento)
		u.hub.Publish(identity.TutorID, service.StreamEventoCreated, response.Evento)
	}
	return response, nil
}

// DialURI builds a tel: URI keeping only digits and a leading plus sign.
func DialURI(numero string) string {
	var b strings.Builder
	for i, r := range strings.TrimSpace(numero) {
		if (r >= '0' && r <= '9') || (r == '+' && i == 0) {
			b.WriteRune(r)
		}
	}
	return "tel:" + b.String()
}
