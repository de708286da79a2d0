package dto

import (
	"time"

	"tutor-portal/internal/domain/entity"
)

// CreateEventoRequest is posted by the companion app. Omitted severidade,
// titulo, descricao and datetime get defaults.
type CreateEventoRequest struct {
	TutorID    string             `json:"tutorId" validate:"required"`
	IdosoID    string             `json:"idosoId" validate:"required"`
	Tipo       string             `json:"tipo" validate:"required,oneof=resposta falta_resposta queda imobilidade bateria_baixa localizacao medicacao agua sintoma alerta outro"`
	Severidade string             `json:"severidade" validate:"omitempty,oneof=baixa media alta critica"`
	Titulo     string             `json:"titulo" validate:"max=255"`
	Descricao  string             `json:"descricao"`
	Dados      entity.EventoDados `json:"dados"`
	Datetime   *time.Time         `json:"datetime"`
}

type MarkEventoReadRequest struct {
	EventoID string `json:"eventoId" validate:"required"`
	TutorID  string `json:"tutorId"`
}

// EventoQuery carries the timeline filters taken from the query string.
type EventoQuery struct {
	TutorID    string
	Tipo       string
	Severidade string
	Busca      string
}

type EventoResponse struct {
	ID         string              `json:"id"`
	TutorID    string              `json:"tutorId"`
	IdosoID    string              `json:"idosoId"`
	Tipo       string              `json:"tipo"`
	Severidade string              `json:"severidade"`
	Titulo     string              `json:"titulo"`
	Descricao  string              `json:"descricao"`
	Dados      *entity.EventoDados `json:"dados,omitempty"`
	Datetime   time.Time           `json:"datetime"`
	Lido       bool                `json:"lido"`
}

type EventoListResponse struct {
	Eventos []EventoResponse
	Total   int
}

type EventoResumoResponse struct {
	Total         int            `json:"total"`
	PorSeveridade map[string]int `json:"porSeveridade"`
	Hoje          int            `json:"hoje"`
	NaoLidos      int            `json:"naoLidos"`
	Criticos      int            `json:"criticos"`
}
