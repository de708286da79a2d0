package handler

import (
	"errors"
	"net/http"

	"tutor-portal/internal/delivery/dto"
	"tutor-portal/internal/usecase"
	"tutor-portal/pkg/response"
	"tutor-portal/pkg/validator"
)

type TutorHandler struct {
	tutorUsecase usecase.TutorUsecase
	validator    *validator.CustomValidator
}

func NewTutorHandler(tutorUsecase usecase.TutorUsecase, validator *validator.CustomValidator) *TutorHandler {
	return &TutorHandler{
		tutorUsecase: tutorUsecase,
		validator:    validator,
	}
}

func (h *TutorHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	tutor, err := h.tutorUsecase.GetProfile(r.Context())
	if err != nil {
		switch {
		case writeAccessError(w, err):
		case errors.Is(err, usecase.ErrTutorNotFound):
			response.NotFound(w, "Tutor não encontrado")
		default:
			response.InternalServerError(w, "Erro ao carregar perfil")
		}
		return
	}

	response.Success(w, http.StatusOK, "", tutor)
}

func (h *TutorHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdateTutorRequest
	if !decodeAndValidate(w, r, h.validator, &req, "") {
		return
	}

	tutor, err := h.tutorUsecase.UpdateProfile(r.Context(), &req)
	if err != nil {
		switch {
		case writeAccessError(w, err):
		case errors.Is(err, usecase.ErrTutorNotFound):
			response.NotFound(w, "Tutor não encontrado")
		case errors.Is(err, usecase.ErrTooManyContacts):
			response.BadRequest(w, "Número máximo de contatos de emergência excedido")
		default:
			response.InternalServerError(w, "Erro ao atualizar perfil")
		}
		return
	}

	response.Success(w, http.StatusOK, "Perfil atualizado com sucesso", tutor)
}
