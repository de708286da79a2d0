package usecase

import (
	"context"
	"time"

	"tutor-portal/internal/converter"
	"tutor-portal/internal/delivery/dto"
	"tutor-portal/internal/domain/entity"
	"tutor-portal/internal/domain/repository"

	"github.com/sirupsen/logrus"
)

const painelRecentEventos = 10

type PainelUsecase interface {
	Get(ctx context.Context) (*dto.PainelResponse, error)
}

type painelUsecase struct {
	log        *logrus.Logger
	idosoRepo  repository.IdosoRepository
	eventoRepo repository.EventoRepository
	now        func() time.Time
}

func NewPainelUsecase(log *logrus.Logger, idosoRepo repository.IdosoRepository, eventoRepo repository.EventoRepository) PainelUsecase {
	return &painelUsecase{
		log:        log,
		idosoRepo:  idosoRepo,
		eventoRepo: eventoRepo,
		now:        time.Now,
	}
}

// Get builds the dashboard of the caller from their idoso and event timeline.
func (u *painelUsecase) Get(ctx context.Context) (*dto.PainelResponse, error) {
	identity, err := currentIdentity(ctx)
	if err != nil {
		return nil, err
	}

	idosos, err := u.idosoRepo.FindByTutorID(ctx, identity.TutorID)
	if err != nil {
		u.log.Warnf("Failed to list idosos for painel: %+v", err)
		return nil, err
	}
	eventos, err := u.eventoRepo.FindByTutorID(ctx, identity.TutorID)
	if err != nil {
		u.log.Warnf("Failed to list eventos for painel: %+v", err)
		return nil, err
	}
	entity.SortEventosNewestFirst(eventos)

	now := u.now()
	resumo := entity.AggregateEventos(eventos, now)
	painel := &dto.PainelResponse{
		EventosRecentes: converter.EventosToResponses(eventos[:min(len(eventos), painelRecentEventos)]),
		MedicacoesHoje:  []dto.MedicacaoResponse{},
		NaoLidos:        resumo.NaoLidos,
		Criticos:        resumo.Criticos,
		StatusGeral:     entity.StatusGeral(eventos),
	}

	if len(idosos) > 0 {
		idoso := idosos[0]
		painel.Idoso = converter.IdosoToResponse(&idoso)
		painel.MedicacoesHoje = converter.MedicacoesToResponses(idoso.Medicacoes)
	}

	// eventos is newest first, so the first match of each kind is the latest one.
	for i := range eventos {
		e := &eventos[i]
		if painel.UltimaResposta == nil && e.Tipo == entity.TipoResposta {
			painel.UltimaResposta = &dto.UltimaRespostaDTO{
				Datetime: e.Datetime,
				Resposta: e.Dados.Resposta,
				Titulo:   e.Titulo,
			}
		}
		if painel.Bateria == nil && e.Dados.Bateria != nil {
			painel.Bateria = &dto.BateriaDTO{Nivel: *e.Dados.Bateria, Datetime: e.Datetime}
		}
		if painel.Localizacao == nil && e.Dados.Localizacao != nil {
			l := e.Dados.Localizacao
			painel.Localizacao = &dto.LocalizacaoDTO{
				Latitude:  l.Latitude,
				Longitude: l.Longitude,
				Precisao:  l.Precisao,
				Datetime:  e.Datetime,
			}
		}
		if e.Tipo == entity.TipoAgua && e.Dados.ConsumoAgua != nil && entity.IsSameLocalDay(e.Datetime, now) {
			painel.ConsumoAguaHoje += *e.Dados.ConsumoAgua
		}
	}

	return painel, nil
}
