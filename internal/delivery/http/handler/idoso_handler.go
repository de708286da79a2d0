package handler

import (
	"errors"
	"net/http"

	"tutor-portal/internal/delivery/dto"
	"tutor-portal/internal/usecase"
	"tutor-portal/pkg/response"
	"tutor-portal/pkg/validator"

	"github.com/gorilla/mux"
)

type IdosoHandler struct {
	idosoUsecase     usecase.IdosoUsecase
	medicacaoUsecase usecase.MedicacaoUsecase
	exameUsecase     usecase.ExameUsecase
	validator        *validator.CustomValidator
}

func NewIdosoHandler(
	idosoUsecase usecase.IdosoUsecase,
	medicacaoUsecase usecase.MedicacaoUsecase,
	exameUsecase usecase.ExameUsecase,
	validator *validator.CustomValidator,
) *IdosoHandler {
	return &IdosoHandler{
		idosoUsecase:     idosoUsecase,
		medicacaoUsecase: medicacaoUsecase,
		exameUsecase:     exameUsecase,
		validator:        validator,
	}
}

// writeIdosoError maps the errors shared by idoso, medication and exam routes.
func writeIdosoError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case writeAccessError(w, err):
	case errors.Is(err, usecase.ErrIdosoNotFound):
		response.NotFound(w, "Idoso não encontrado")
	case errors.Is(err, usecase.ErrMedicacaoNotFound):
		response.NotFound(w, "Medicação não encontrada")
	case errors.Is(err, usecase.ErrExameNotFound):
		response.NotFound(w, "Exame não encontrado")
	default:
		response.InternalServerError(w, fallback)
	}
}

// Get returns a single idoso with ?id= or the tutor's idosos with ?tutorId=
// (defaulting to the caller).
func (h *IdosoHandler) Get(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	if id := query.Get("id"); id != "" {
		idoso, err := h.idosoUsecase.GetByID(r.Context(), id)
		if err != nil {
			writeIdosoError(w, err, "Erro ao buscar idoso")
			return
		}
		response.Success(w, http.StatusOK, "", idoso)
		return
	}

	idosos, err := h.idosoUsecase.ListByTutor(r.Context(), query.Get("tutorId"))
	if err != nil {
		writeIdosoError(w, err, "Erro ao buscar idosos")
		return
	}
	response.Success(w, http.StatusOK, "", idosos)
}

func (h *IdosoHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateIdosoRequest
	if !decodeAndValidate(w, r, h.validator, &req, "Dados incompletos") {
		return
	}

	idoso, err := h.idosoUsecase.Create(r.Context(), &req)
	if err != nil {
		writeIdosoError(w, err, "Erro ao cadastrar idoso")
		return
	}

	response.Success(w, http.StatusCreated, "Idoso cadastrado com sucesso", idoso)
}

func (h *IdosoHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdateIdosoRequest
	if !decodeAndValidate(w, r, h.validator, &req, "") {
		return
	}

	idoso, err := h.idosoUsecase.Update(r.Context(), &req)
	if err != nil {
		writeIdosoError(w, err, "Erro ao atualizar idoso")
		return
	}

	response.Success(w, http.StatusOK, "Idoso atualizado com sucesso", idoso)
}

func (h *IdosoHandler) ListMedicacoes(w http.ResponseWriter, r *http.Request) {
	medicacoes, err := h.medicacaoUsecase.List(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeIdosoError(w, err, "Erro ao buscar medicações")
		return
	}
	response.Success(w, http.StatusOK, "", medicacoes)
}

func (h *IdosoHandler) AddMedicacao(w http.ResponseWriter, r *http.Request) {
	var req dto.MedicacaoRequest
	if !decodeAndValidate(w, r, h.validator, &req, "") {
		return
	}

	medicacao, err := h.medicacaoUsecase.Add(r.Context(), mux.Vars(r)["id"], &req)
	if err != nil {
		writeIdosoError(w, err, "Erro ao cadastrar medicação")
		return
	}
	response.Success(w, http.StatusCreated, "Medicação cadastrada com sucesso", medicacao)
}

func (h *IdosoHandler) UpdateMedicacao(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdateMedicacaoRequest
	if !decodeAndValidate(w, r, h.validator, &req, "") {
		return
	}

	medicacao, err := h.medicacaoUsecase.Update(r.Context(), mux.Vars(r)["id"], &req)
	if err != nil {
		writeIdosoError(w, err, "Erro ao atualizar medicação")
		return
	}
	response.Success(w, http.StatusOK, "Medicação atualizada com sucesso", medicacao)
}

func (h *IdosoHandler) DeleteMedicacao(w http.ResponseWriter, r *http.Request) {
	if err := h.medicacaoUsecase.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeIdosoError(w, err, "Erro ao remover medicação")
		return
	}
	response.Success(w, http.StatusOK, "Medicação removida com sucesso", nil)
}

func (h *IdosoHandler) ListExames(w http.ResponseWriter, r *http.Request) {
	exames, err := h.exameUsecase.List(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeIdosoError(w, err, "Erro ao buscar exames")
		return
	}
	response.Success(w, http.StatusOK, "", exames)
}

func (h *IdosoHandler) AddExame(w http.ResponseWriter, r *http.Request) {
	var req dto.ExameRequest
	if !decodeAndValidate(w, r, h.validator, &req, "") {
		return
	}

	exame, err := h.exameUsecase.Add(r.Context(), mux.Vars(r)["id"], &req)
	if err != nil {
		writeIdosoError(w, err, "Erro ao cadastrar exame")
		return
	}
	response.Success(w, http.StatusCreated, "Exame cadastrado com sucesso", exame)
}

func (h *IdosoHandler) UpdateExame(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdateExameRequest
	if !decodeAndValidate(w, r, h.validator, &req, "") {
		return
	}

	exame, err := h.exameUsecase.Update(r.Context(), mux.Vars(r)["id"], &req)
	if err != nil {
		writeIdosoError(w, err, "Erro ao atualizar exame")
		return
	}
	response.Success(w, http.StatusOK, "Exame atualizado com sucesso", exame)
}

func (h *IdosoHandler) DeleteExame(w http.ResponseWriter, r *http.Request) {
	if err := h.exameUsecase.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeIdosoError(w, err, "Erro ao remover exame")
		return
	}
	response.Success(w, http.StatusOK, "Exame removido com sucesso", nil)
}
