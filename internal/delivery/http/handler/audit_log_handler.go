package handler

import (
	"net/http"

	"tutor-portal/internal/usecase"
	"tutor-portal/pkg/response"
)

// AuditLogHandler exposes the caller's own activity trail.
type AuditLogHandler struct {
	tutorUsecase usecase.TutorUsecase
}

func NewAuditLogHandler(tutorUsecase usecase.TutorUsecase) *AuditLogHandler {
	return &AuditLogHandler{
		tutorUsecase: tutorUsecase,
	}
}

func (h *AuditLogHandler) ListOwn(w http.ResponseWriter, r *http.Request) {
	auditLogs, err := h.tutorUsecase.GetActivity(r.Context())
	if err != nil {
		if writeAccessError(w, err) {
			return
		}
		response.InternalServerError(w, "Erro ao carregar atividades")
		return
	}

	response.SuccessWithMeta(w, http.StatusOK, "", auditLogs, &response.Meta{
		Total:    len(auditLogs),
		Returned: len(auditLogs),
	})
}
