package converter

import (
	"tutor-portal/internal/delivery/dto"
	"tutor-portal/internal/domain/entity"
)

var auditActionDescricoes = map[string]string{
	entity.AuditActionTutorRegister:   "Conta criada",
	entity.AuditActionTutorLogin:      "Login realizado",
	entity.AuditActionTutorLogout:     "Sessão encerrada",
	entity.AuditActionTutorUpdate:     "Perfil atualizado",
	entity.AuditActionIdosoCreate:     "Idoso cadastrado",
	entity.AuditActionIdosoUpdate:     "Dados do idoso atualizados",
	entity.AuditActionMedicacaoCreate: "Medicação adicionada",
	entity.AuditActionMedicacaoUpdate: "Medicação atualizada",
	entity.AuditActionMedicacaoDelete: "Medicação removida",
	entity.AuditActionExameCreate:     "Exame adicionado",
	entity.AuditActionExameUpdate:     "Exame atualizado",
	entity.AuditActionExameDelete:     "Exame removido",
	entity.AuditActionEventoRead:      "Evento marcado como lido",
	entity.AuditActionEmergenciaCall:  "Chamada de emergência",
}

// AuditLogsToResponses converts activity entries, labelling each with a readable description.
// Unknown actions fall back to the raw action name.
func AuditLogsToResponses(logs []entity.AuditLog) []dto.AuditLogResponse {
	responses := make([]dto.AuditLogResponse, len(logs))
	for i, log := range logs {
		descricao, ok := auditActionDescricoes[log.Action]
		if !ok {
			descricao = log.Action
		}
		responses[i] = dto.AuditLogResponse{
			ID:        log.ID,
			Action:    log.Action,
			Descricao: descricao,
			Metadata:  log.Metadata,
			CreatedAt: log.CreatedAt,
		}
	}
	return responses
}
