package dto

import "time"

type PlanoSaudeDTO struct {
	Nome           string `json:"nome" validate:"required"`
	NumeroCarteira string `json:"numeroCarteira"`
}

type CreateIdosoRequest struct {
	TutorID       string             `json:"tutorId" validate:"required"`
	Nome          string             `json:"nome" validate:"required"`
	Idade         int                `json:"idade" validate:"gte=0,lte=130"`
	Altura        int                `json:"altura" validate:"gte=0,lte=250"`
	Doencas       []string           `json:"doencas"`
	CondicaoAtual string             `json:"condicaoAtual"`
	TemPlanoSaude bool               `json:"temPlanoSaude"`
	PlanoSaude    *PlanoSaudeDTO     `json:"planoSaude" validate:"required_if=TemPlanoSaude true"`
	NumeroSUS     string             `json:"numeroSUS" validate:"omitempty,max=32"`
	Foto          string             `json:"foto"`
	Medicacoes    []MedicacaoRequest `json:"medicacoes" validate:"omitempty,dive"`
	Exames        []ExameRequest     `json:"exames" validate:"omitempty,dive"`
}

// UpdateIdosoRequest merges into the stored idoso. The owning tutor cannot change.
type UpdateIdosoRequest struct {
	ID            string         `json:"id" validate:"required"`
	Nome          *string        `json:"nome" validate:"omitempty,min=1"`
	Idade         *int           `json:"idade" validate:"omitempty,gte=0,lte=130"`
	Altura        *int           `json:"altura" validate:"omitempty,gte=0,lte=250"`
	Doencas       []string       `json:"doencas"`
	CondicaoAtual *string        `json:"condicaoAtual"`
	TemPlanoSaude *bool          `json:"temPlanoSaude"`
	PlanoSaude    *PlanoSaudeDTO `json:"planoSaude"`
	NumeroSUS     *string        `json:"numeroSUS" validate:"omitempty,max=32"`
	Foto          *string        `json:"foto"`
}

type IdosoResponse struct {
	ID            string              `json:"id"`
	TutorID       string              `json:"tutorId"`
	Nome          string              `json:"nome"`
	Idade         int                 `json:"idade"`
	Altura        int                 `json:"altura"`
	Doencas       []string            `json:"doencas"`
	CondicaoAtual string              `json:"condicaoAtual"`
	TemPlanoSaude bool                `json:"temPlanoSaude"`
	PlanoSaude    *PlanoSaudeDTO      `json:"planoSaude,omitempty"`
	NumeroSUS     string              `json:"numeroSUS"`
	Foto          string              `json:"foto,omitempty"`
	Medicacoes    []MedicacaoResponse `json:"medicacoes"`
	Exames        []ExameResponse     `json:"exames"`
	CreatedAt     time.Time           `json:"createdAt"`
	UpdatedAt     time.Time           `json:"updatedAt"`
}

type MedicacaoRequest struct {
	Nome        string   `json:"nome" validate:"required"`
	Dosagem     string   `json:"dosagem" validate:"omitempty,max=100"`
	Frequencia  string   `json:"frequencia" validate:"omitempty,max=100"`
	Horarios    []string `json:"horarios" validate:"omitempty,dive,hhmm"`
	Observacoes string   `json:"observacoes"`
}

type UpdateMedicacaoRequest struct {
	Nome        *string  `json:"nome" validate:"omitempty,min=1"`
	Dosagem     *string  `json:"dosagem" validate:"omitempty,max=100"`
	Frequencia  *string  `json:"frequencia" validate:"omitempty,max=100"`
	Horarios    []string `json:"horarios" validate:"omitempty,dive,hhmm"`
	Observacoes *string  `json:"observacoes"`
}

type MedicacaoResponse struct {
	ID          string   `json:"id"`
	IdosoID     string   `json:"idosoId"`
	Nome        string   `json:"nome"`
	Dosagem     string   `json:"dosagem"`
	Frequencia  string   `json:"frequencia"`
	Horarios    []string `json:"horarios"`
	Observacoes string   `json:"observacoes,omitempty"`
}

type ExameRequest struct {
	Nome        string `json:"nome" validate:"required"`
	Data        string `json:"data" validate:"required,date"`
	Resultado   string `json:"resultado"`
	Observacoes string `json:"observacoes"`
	Arquivo     string `json:"arquivo"`
}

type UpdateExameRequest struct {
	Nome        *string `json:"nome" validate:"omitempty,min=1"`
	Data        *string `json:"data" validate:"omitempty,date"`
	Resultado   *string `json:"resultado"`
	Observacoes *string `json:"observacoes"`
	Arquivo     *string `json:"arquivo"`
}

type ExameResponse struct {
	ID          string `json:"id"`
	IdosoID     string `json:"idosoId"`
	Nome        string `json:"nome"`
	Data        string `json:"data"`
	Resultado   string `json:"resultado,omitempty"`
	Observacoes string `json:"observacoes,omitempty"`
	Arquivo     string `json:"arquivo,omitempty"`
}
