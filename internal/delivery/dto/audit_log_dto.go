package dto

import "time"

type AuditLogResponse struct {
	ID        string                 `json:"id"`
	Action    string                 `json:"action"`
	Descricao string                 `json:"descricao"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	CreatedAt time.Time              `json:"createdAt"`
}
