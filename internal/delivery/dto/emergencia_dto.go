package dto

type ServicoEmergenciaDTO struct {
	Nome   string `json:"nome"`
	Numero string `json:"numero"`
	URI    string `json:"uri"`
}

type ContatoDiscagemDTO struct {
	ID       string `json:"id"`
	Nome     string `json:"nome"`
	Telefone string `json:"telefone"`
	URI      string `json:"uri"`
}

type EmergenciaResponse struct {
	Servicos []ServicoEmergenciaDTO `json:"servicos"`
	Contatos []ContatoDiscagemDTO   `json:"contatos"`
}

type ChamadaEmergenciaRequest struct {
	Numero  string `json:"numero" validate:"required,max=20"`
	Servico string `json:"servico" validate:"max=100"`
}

type ChamadaEmergenciaResponse struct {
	URI    string          `json:"uri"`
	Evento *EventoResponse `json:"evento,omitempty"`
}
