package handler

import (
	"errors"
	"net/http"

	"tutor-portal/internal/delivery/dto"
	"tutor-portal/internal/usecase"
	"tutor-portal/pkg/response"
	"tutor-portal/pkg/validator"
)

type EmergenciaHandler struct {
	emergenciaUsecase usecase.EmergenciaUsecase
	validator         *validator.CustomValidator
}

func NewEmergenciaHandler(emergenciaUsecase usecase.EmergenciaUsecase, validator *validator.CustomValidator) *EmergenciaHandler {
	return &EmergenciaHandler{
		emergenciaUsecase: emergenciaUsecase,
		validator:         validator,
	}
}

func (h *EmergenciaHandler) Get(w http.ResponseWriter, r *http.Request) {
	emergencia, err := h.emergenciaUsecase.Get(r.Context())
	if err != nil {
		switch {
		case writeAccessError(w, err):
		case errors.Is(err, usecase.ErrTutorNotFound):
			response.NotFound(w, "Tutor não encontrado")
		default:
			response.InternalServerError(w, "Erro ao carregar contatos de emergência")
		}
		return
	}

	response.Success(w, http.StatusOK, "", emergencia)
}

func (h *EmergenciaHandler) Call(w http.ResponseWriter, r *http.Request) {
	var req dto.ChamadaEmergenciaRequest
	if !decodeAndValidate(w, r, h.validator, &req, "Número obrigatório") {
		return
	}

	chamada, err := h.emergenciaUsecase.Call(r.Context(), &req)
	if err != nil {
		if writeAccessError(w, err) {
			return
		}
		response.InternalServerError(w, "Erro ao registrar chamada")
		return
	}

	response.Success(w, http.StatusCreated, "Chamada registrada", chamada)
}
