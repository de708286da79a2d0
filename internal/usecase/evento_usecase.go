package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"tutor-portal/internal/converter"
	"tutor-portal/internal/delivery/dto"
	"tutor-portal/internal/domain/entity"
	"tutor-portal/internal/domain/repository"
	"tutor-portal/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var (
	ErrEventoNotFound    = errors.New("evento not found")
	ErrInvalidDados      = errors.New("invalid evento dados")
	ErrInvalidTipo       = errors.New("invalid evento tipo")
	ErrInvalidSeveridade = errors.New("invalid evento severidade")
)

type EventoUsecase interface {
	Create(ctx context.Context, req *dto.CreateEventoRequest) (*dto.EventoResponse, error)
	List(ctx context.Context, query dto.EventoQuery) (*dto.EventoListResponse, error)
	MarkRead(ctx context.Context, req *dto.MarkEventoReadRequest) error
	GetResumo(ctx context.Context, tutorID string) (*dto.EventoResumoResponse, error)
}

type eventoUsecase struct {
	log          *logrus.Logger
	transactor   repository.Transactor
	eventoRepo   repository.EventoRepository
	auditService service.AuditService
	notifier     service.NotificationService
	hub          *service.EventHub
	appender     *eventoAppender
	now          func() time.Time
}

func NewEventoUsecase(
	log *logrus.Logger,
	transactor repository.Transactor,
	eventoRepo repository.EventoRepository,
	auditService service.AuditService,
	notifier service.NotificationService,
	hub *service.EventHub,
	retentionLimit int,
) EventoUsecase {
	return &eventoUsecase{
		log:          log,
		transactor:   transactor,
		eventoRepo:   eventoRepo,
		auditService: auditService,
		notifier:     notifier,
		hub:          hub,
		appender: &eventoAppender{
			eventoRepo:     eventoRepo,
			retentionLimit: retentionLimit,
		},
		now: time.Now,
	}
}

// Create ingests an event posted by the companion app. The referenced tutor
// and idoso are not checked, so orphaned events are accepted.
func (u *eventoUsecase) Create(ctx context.Context, req *dto.CreateEventoRequest) (*dto.EventoResponse, error) {
	evento := &entity.Evento{
		ID:         uuid.NewString(),
		TutorID:    req.TutorID,
		IdosoID:    req.IdosoID,
		Tipo:       entity.TipoEvento(req.Tipo),
		Severidade: entity.Severidade(req.Severidade),
		Titulo:     req.Titulo,
		Descricao:  req.Descricao,
		Dados:      req.Dados,
	}
	if req.Datetime != nil {
		evento.Datetime = req.Datetime.UTC()
	}

	if !evento.Tipo.Valid() {
		return nil, ErrInvalidTipo
	}
	if evento.Severidade != "" && !evento.Severidade.Valid() {
		return nil, ErrInvalidSeveridade
	}
	if err := evento.Dados.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDados, err)
	}
	evento.ApplyDefaults(u.now())

	var evicted int64
	err := u.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		n, err := u.appender.append(ctx, evento)
		if err != nil {
			return fmt.Errorf("append evento: %w", err)
		}
		evicted = n
		return nil
	})
	if err != nil {
		u.log.Warnf("Failed to create evento: %+v", err)
		return nil, err
	}
	u.appender.committed(evento, evicted)

	response := converter.EventoToResponse(evento)
	u.hub.Publish(evento.TutorID, service.StreamEventoCreated, response)
	u.notifier.NotifyEvento(ctx, evento)

	return response, nil
}

func (u *eventoUsecase) List(ctx context.Context, query dto.EventoQuery) (*dto.EventoListResponse, error) {
	eventos, err := u.loadTutorEventos(ctx, query.TutorID)
	if err != nil {
		return nil, err
	}

	total := len(eventos)
	filtered := entity.FilterEventos(eventos, entity.EventoFilter{
		Tipo:       query.Tipo,
		Severidade: query.Severidade,
		Busca:      query.Busca,
	})

	return &dto.EventoListResponse{
		Eventos: converter.EventosToResponses(filtered),
		Total:   total,
	}, nil
}

// MarkRead is idempotent. Events of another tutor are reported as not found.
func (u *eventoUsecase) MarkRead(ctx context.Context, req *dto.MarkEventoReadRequest) error {
	identity, err := currentIdentity(ctx)
	if err != nil {
		return err
	}
	tutorID, err := resolveTutorID(req.TutorID, identity)
	if err != nil {
		return err
	}

	err = u.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		affected, err := u.eventoRepo.MarkRead(ctx, req.EventoID, tutorID)
		if err != nil {
			return fmt.Errorf("mark evento read: %w", err)
		}
		if affected == 0 {
			return ErrEventoNotFound
		}
		return u.auditService.LogAction(ctx, identity.UserID, entity.AuditActionEventoRead, entity.JSON{
			"entity":    "evento",
			"entity_id": req.EventoID,
		})
	})
	if err != nil {
		if !errors.Is(err, ErrEventoNotFound) {
			u.log.Warnf("Failed to mark evento as read: %+v", err)
		}
		return err
	}

	u.hub.Publish(tutorID, service.StreamEventoRead, map[string]string{"eventoId": req.EventoID})
	return nil
}

func (u *eventoUsecase) GetResumo(ctx context.Context, tutorID string) (*dto.EventoResumoResponse, error) {
	eventos, err := u.loadTutorEventos(ctx, tutorID)
	if err != nil {
		return nil, err
	}
	return converter.EventoResumoToResponse(entity.AggregateEventos(eventos, u.now())), nil
}

// loadTutorEventos returns the caller's timeline newest first.
func (u *eventoUsecase) loadTutorEventos(ctx context.Context, requested string) ([]entity.Evento, error) {
	identity, err := currentIdentity(ctx)
	if err != nil {
		return nil, err
	}
	tutorID, err := resolveTutorID(requested, identity)
	if err != nil {
		return nil, err
	}

	eventos, err := u.eventoRepo.FindByTutorID(ctx, tutorID)
	if err != nil {
		u.log.Warnf("Failed to list eventos: %+v", err)
		return nil, err
	}
	entity.SortEventosNewestFirst(eventos)
	return eventos, nil
}
