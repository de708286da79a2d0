package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

type UltimaRespostaDTO struct {
	Datetime time.Time `json:"datetime"`
	Resposta string    `json:"resposta,omitempty"`
	Titulo   string    `json:"titulo"`
}

type BateriaDTO struct {
	Nivel    int       `json:"nivel"`
	Datetime time.Time `json:"datetime"`
}

type LocalizacaoDTO struct {
	Latitude  decimal.Decimal  `json:"latitude"`
	Longitude decimal.Decimal  `json:"longitude"`
	Precisao  *decimal.Decimal `json:"precisao,omitempty"`
	Datetime  time.Time        `json:"datetime"`
}

type PainelResponse struct {
	Idoso           *IdosoResponse      `json:"idoso,omitempty"`
	UltimaResposta  *UltimaRespostaDTO  `json:"ultimaResposta,omitempty"`
	Bateria         *BateriaDTO         `json:"bateria,omitempty"`
	Localizacao     *LocalizacaoDTO     `json:"localizacao,omitempty"`
	EventosRecentes []EventoResponse    `json:"eventosRecentes"`
	MedicacoesHoje  []MedicacaoResponse `json:"medicacoesHoje"`
	ConsumoAguaHoje int                 `json:"consumoAguaHoje"`
	NaoLidos        int                 `json:"naoLidos"`
	Criticos        int                 `json:"criticos"`
	StatusGeral     string              `json:"statusGeral"`
}
