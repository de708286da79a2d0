package dto

import "time"

type EnderecoDTO struct {
	Rua    string `json:"rua"`
	Numero string `json:"numero"`
	Bairro string `json:"bairro"`
	Cidade string `json:"cidade"`
	Estado string `json:"estado" validate:"omitempty,len=2"`
	CEP    string `json:"cep" validate:"omitempty,max=9"`
}

type ContatoEmergenciaDTO struct {
	ID       string `json:"id,omitempty"`
	Nome     string `json:"nome" validate:"required"`
	Telefone string `json:"telefone" validate:"required,min=8,max=20"`
}

type TutorDataRequest struct {
	Nome               string                 `json:"nome" validate:"required,min=2"`
	Documento          string                 `json:"documento" validate:"omitempty,max=32"`
	Idade              int                    `json:"idade" validate:"gte=0,lte=130"`
	Endereco           EnderecoDTO            `json:"endereco"`
	ContatosEmergencia []ContatoEmergenciaDTO `json:"contatosEmergencia" validate:"omitempty,dive"`
	Foto               string                 `json:"foto"`
	DeviceToken        string                 `json:"deviceToken"`
}

// UpdateTutorRequest is a partial update. Nil fields are left unchanged and a
// non-nil contact list replaces the stored one.
type UpdateTutorRequest struct {
	Nome               *string                `json:"nome" validate:"omitempty,min=2"`
	Documento          *string                `json:"documento" validate:"omitempty,max=32"`
	Idade              *int                   `json:"idade" validate:"omitempty,gte=0,lte=130"`
	Endereco           *EnderecoDTO           `json:"endereco"`
	ContatosEmergencia []ContatoEmergenciaDTO `json:"contatosEmergencia" validate:"omitempty,dive"`
	Foto               *string                `json:"foto"`
	DeviceToken        *string                `json:"deviceToken"`
}

type TutorResponse struct {
	ID                 string                 `json:"id"`
	UserID             string                 `json:"userId"`
	Email              string                 `json:"email"`
	Nome               string                 `json:"nome"`
	Documento          string                 `json:"documento"`
	Idade              int                    `json:"idade"`
	Endereco           EnderecoDTO            `json:"endereco"`
	ContatosEmergencia []ContatoEmergenciaDTO `json:"contatosEmergencia"`
	Foto               string                 `json:"foto,omitempty"`
	PushAtivo          bool                   `json:"pushAtivo"`
	CreatedAt          time.Time              `json:"createdAt"`
	UpdatedAt          time.Time              `json:"updatedAt"`
}
