package entity

import (
	"database/sql/driver"
	"encoding/json"
	"time"
)

// Tutor is the caregiver profile attached to a credential
type Tutor struct {
	ID                 string      `gorm:"type:varchar(64);primaryKey" json:"id"`
	UserID             string      `gorm:"type:varchar(64);uniqueIndex;not null" json:"userId"`
	Email              string      `gorm:"type:varchar(255);not null" json:"email"`
	Nome               string      `gorm:"type:varchar(255);not null" json:"nome"`
	Documento          string      `gorm:"type:varchar(32)" json:"documento"`
	Idade              int         `json:"idade"`
	Endereco           Endereco    `gorm:"embedded;embeddedPrefix:endereco_" json:"endereco"`
	ContatosEmergencia ContatoList `gorm:"type:jsonb" json:"contatosEmergencia"`
	Foto               string      `gorm:"type:text" json:"foto,omitempty"`
	DeviceToken        string      `gorm:"type:text" json:"deviceToken,omitempty"`
	CreatedAt          time.Time   `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt          time.Time   `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (Tutor) TableName() string {
	return "tutores"
}

type Endereco struct {
	Rua    string `gorm:"type:varchar(255)" json:"rua"`
	Numero string `gorm:"type:varchar(20)" json:"numero"`
	Bairro string `gorm:"type:varchar(120)" json:"bairro"`
	Cidade string `gorm:"type:varchar(120)" json:"cidade"`
	Estado string `gorm:"type:varchar(2)" json:"estado"`
	CEP    string `gorm:"column:cep;type:varchar(9)" json:"cep"`
}

type ContatoEmergencia struct {
	ID       string `json:"id"`
	Nome     string `json:"nome"`
	Telefone string `json:"telefone"`
}

// ContatoList stores emergency contacts as a jsonb array.
type ContatoList []ContatoEmergencia

func (l ContatoList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]ContatoEmergencia(l))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (l *ContatoList) Scan(value interface{}) error {
	if value == nil {
		*l = ContatoList{}
		return nil
	}
	return scanJSONB(value, (*[]ContatoEmergencia)(l))
}
