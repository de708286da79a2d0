package handler

import (
	"net/http"

	"tutor-portal/internal/usecase"
	"tutor-portal/pkg/response"
)

type PainelHandler struct {
	painelUsecase usecase.PainelUsecase
}

func NewPainelHandler(painelUsecase usecase.PainelUsecase) *PainelHandler {
	return &PainelHandler{painelUsecase: painelUsecase}
}

func (h *PainelHandler) Get(w http.ResponseWriter, r *http.Request) {
	painel, err := h.painelUsecase.Get(r.Context())
	if err != nil {
		if writeAccessError(w, err) {
			return
		}
		response.InternalServerError(w, "Erro ao carregar painel")
		return
	}

	response.Success(w, http.StatusOK, "", painel)
}
