package entity

import (
	"database/sql/driver"
	"encoding/json"
	"time"
)

// AuditLog is one entry of a tutor's activity trail
type AuditLog struct {
	ID        string    `gorm:"type:varchar(64);primaryKey" json:"id"`
	UserID    *string   `gorm:"type:varchar(64);index" json:"userId,omitempty"`
	Action    string    `gorm:"type:varchar(100);not null;index" json:"action"`
	Metadata  JSON      `gorm:"type:jsonb" json:"metadata,omitempty"`
	CreatedAt time.Time `gorm:"autoCreateTime;index" json:"createdAt"`
}

func (AuditLog) TableName() string {
	return "audit_logs"
}

// JSON type for GORM JSONB support
type JSON map[string]interface{}

// Value returns json value, implement driver.Valuer interface
func (j JSON) Value() (driver.Value, error) {
	if len(j) == 0 {
		return nil, nil
	}
	b, err := json.Marshal(j)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan scan value into Jsonb, implements sql.Scanner interface
func (j *JSON) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}
	result := map[string]interface{}{}
	err := scanJSONB(value, &result)
	*j = JSON(result)
	return err
}

// Audit actions
const (
	AuditActionTutorRegister   = "tutor.register"
	AuditActionTutorLogin      = "tutor.login"
	AuditActionTutorLogout     = "tutor.logout"
	AuditActionTutorUpdate     = "tutor.update"
	AuditActionIdosoCreate     = "idoso.create"
	AuditActionIdosoUpdate     = "idoso.update"
	AuditActionMedicacaoCreate = "medicacao.create"
	AuditActionMedicacaoUpdate = "medicacao.update"
	AuditActionMedicacaoDelete = "medicacao.delete"
	AuditActionExameCreate     = "exame.create"
	AuditActionExameUpdate     = "exame.update"
	AuditActionExameDelete     = "exame.delete"
	AuditActionEventoRead      = "evento.read"
	AuditActionEmergenciaCall  = "emergencia.call"
)
