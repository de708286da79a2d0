package handler

import (
	"errors"
	"net/http"

	"tutor-portal/internal/delivery/dto"
	"tutor-portal/internal/usecase"
	"tutor-portal/pkg/response"
	"tutor-portal/pkg/validator"
)

type EventoHandler struct {
	eventoUsecase  usecase.EventoUsecase
	validator      *validator.CustomValidator
	retentionLimit int
}

func NewEventoHandler(eventoUsecase usecase.EventoUsecase, validator *validator.CustomValidator, retentionLimit int) *EventoHandler {
	return &EventoHandler{
		eventoUsecase:  eventoUsecase,
		validator:      validator,
		retentionLimit: retentionLimit,
	}
}

// Create ingests an event from the companion app
// @Summary Register an event
// @Tags Eventos
// @Accept json
// @Produce json
// @Param request body dto.CreateEventoRequest true "Evento"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /eventos [post]
func (h *EventoHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateEventoRequest
	if !decodeAndValidate(w, r, h.validator, &req, "Dados incompletos") {
		return
	}

	evento, err := h.eventoUsecase.Create(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrInvalidTipo),
			errors.Is(err, usecase.ErrInvalidSeveridade),
			errors.Is(err, usecase.ErrInvalidDados):
			response.BadRequest(w, "Dados do evento inválidos")
		default:
			response.InternalServerError(w, "Erro ao registrar evento")
		}
		return
	}

	response.Success(w, http.StatusCreated, "Evento registrado com sucesso", evento)
}

// List returns the caller's timeline, newest first, narrowed by the query filters
// @Summary List events
// @Tags Eventos
// @Security BearerAuth
// @Produce json
// @Param tutorId query string false "Tutor ID"
// @Param tipo query string false "Tipo"
// @Param severidade query string false "Severidade"
// @Param busca query string false "Busca"
// @Success 200 {object} response.Response
// @Router /eventos [get]
func (h *EventoHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	list, err := h.eventoUsecase.List(r.Context(), dto.EventoQuery{
		TutorID:    query.Get("tutorId"),
		Tipo:       query.Get("tipo"),
		Severidade: query.Get("severidade"),
		Busca:      query.Get("busca"),
	})
	if err != nil {
		if writeAccessError(w, err) {
			return
		}
		response.InternalServerError(w, "Erro ao buscar eventos")
		return
	}

	response.SuccessWithMeta(w, http.StatusOK, "", list.Eventos, &response.Meta{
		Total:     list.Total,
		Returned:  len(list.Eventos),
		Retention: h.retentionLimit,
	})
}

// MarkRead flags an event as read
// @Summary Mark event as read
// @Tags Eventos
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.MarkEventoReadRequest true "Evento"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /eventos [patch]
func (h *EventoHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	var req dto.MarkEventoReadRequest
	if !decodeAndValidate(w, r, h.validator, &req, "Dados incompletos") {
		return
	}

	if err := h.eventoUsecase.MarkRead(r.Context(), &req); err != nil {
		switch {
		case writeAccessError(w, err):
		case errors.Is(err, usecase.ErrEventoNotFound):
			response.NotFound(w, "Evento não encontrado")
		default:
			response.InternalServerError(w, "Erro ao atualizar evento")
		}
		return
	}

	response.Success(w, http.StatusOK, "Evento marcado como lido", nil)
}

func (h *EventoHandler) Resumo(w http.ResponseWriter, r *http.Request) {
	resumo, err := h.eventoUsecase.GetResumo(r.Context(), r.URL.Query().Get("tutorId"))
	if err != nil {
		if writeAccessError(w, err) {
			return
		}
		response.InternalServerError(w, "Erro ao calcular resumo")
		return
	}

	response.Success(w, http.StatusOK, "", resumo)
}
