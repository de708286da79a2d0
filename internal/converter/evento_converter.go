package converter

import (
	"tutor-portal/internal/delivery/dto"
	"tutor-portal/internal/domain/entity"
)

func EventoToResponse(e *entity.Evento) *dto.EventoResponse {
	if e == nil {
		return nil
	}

	response := &dto.EventoResponse{
		ID:         e.ID,
		TutorID:    e.TutorID,
		IdosoID:    e.IdosoID,
		Tipo:       string(e.Tipo),
		Severidade: string(e.Severidade),
		Titulo:     e.Titulo,
		Descricao:  e.Descricao,
		Datetime:   e.Datetime,
		Lido:       e.Lido,
	}
	if !e.Dados.IsZero() {
		dados := e.Dados
		response.Dados = &dados
	}
	return response
}

func EventosToResponses(eventos []entity.Evento) []dto.EventoResponse {
	responses := make([]dto.EventoResponse, len(eventos))
	for i := range eventos {
		responses[i] = *EventoToResponse(&eventos[i])
	}
	return responses
}

func EventoResumoToResponse(r entity.EventoResumo) *dto.EventoResumoResponse {
	porSeveridade := make(map[string]int, len(r.PorSeveridade))
	for s, n := range r.PorSeveridade {
		porSeveridade[string(s)] = n
	}
	return &dto.EventoResumoResponse{
		Total:         r.Total,
		PorSeveridade: porSeveridade,
		Hoje:          r.Hoje,
		NaoLidos:      r.NaoLidos,
		Criticos:      r.Criticos,
	}
}
