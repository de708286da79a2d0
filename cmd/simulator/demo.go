package main

import (
	"time"

	"tutor-portal/internal/domain/entity"
	"tutor-portal/pkg/portalclient"

	"github.com/shopspring/decimal"
)

// demoEventos builds a day and a half of companion app activity, newest first.
func demoEventos(tutorID, idosoID string, now time.Time) []portalclient.EventoRequest {
	at := func(ago time.Duration) *time.Time {
		t := now.Add(-ago)
		return &t
	}
	bateria := func(v int) *int { return &v }
	agua := 250
	precisao := decimal.NewFromInt(10)

	eventos := []portalclient.EventoRequest{
		{
			Tipo:       string(entity.TipoResposta),
			Severidade: string(entity.SeveridadeBaixa),
			Titulo:     "Idoso respondeu pergunta",
			Descricao:  "Respondeu que está se sentindo bem",
			Dados:      portalclient.Dados{Resposta: "Estou me sentindo bem, obrigado!", Bateria: bateria(85)},
			Datetime:   at(30 * time.Minute),
		},
		{
			Tipo:       string(entity.TipoMedicacao),
			Severidade: string(entity.SeveridadeMedia),
			Titulo:     "Lembrete de medicação",
			Descricao:  "Hora de tomar Losartana 50mg",
			Dados:      portalclient.Dados{Bateria: bateria(85)},
			Datetime:   at(2 * time.Hour),
		},
		{
			Tipo:       string(entity.TipoAgua),
			Severidade: string(entity.SeveridadeBaixa),
			Titulo:     "Consumo de água registrado",
			Descricao:  "Idoso bebeu água",
			Dados:      portalclient.Dados{ConsumoAgua: &agua, Bateria: bateria(82)},
			Datetime:   at(4 * time.Hour),
		},
		{
			Tipo:       string(entity.TipoBateriaBaixa),
			Severidade: string(entity.SeveridadeAlta),
			Titulo:     "Bateria do celular baixa",
			Descricao:  "Bateria em 15% - recarregar urgente",
			Dados:      portalclient.Dados{Bateria: bateria(15)},
			Datetime:   at(5 * time.Hour),
		},
		{
			Tipo:       string(entity.TipoLocalizacao),
			Severidade: string(entity.SeveridadeBaixa),
			Titulo:     "Localização atualizada",
			Descricao:  "Nova localização registrada",
			Dados: portalclient.Dados{
				Localizacao: &portalclient.Localizacao{
					Latitude:  decimal.RequireFromString("-23.550520"),
					Longitude: decimal.RequireFromString("-46.633308"),
					Precisao:  &precisao,
				},
				Bateria: bateria(78),
			},
			Datetime: at(6 * time.Hour),
		},
		{
			Tipo:       string(entity.TipoFaltaResposta),
			Severidade: string(entity.SeveridadeAlta),
			Titulo:     "Idoso não respondeu",
			Descricao:  "Não houve resposta às perguntas do dia",
			Dados:      portalclient.Dados{Bateria: bateria(75)},
			Datetime:   at(24 * time.Hour),
		},
		{
			Tipo:       string(entity.TipoSintoma),
			Severidade: string(entity.SeveridadeMedia),
			Titulo:     "Sintoma relatado",
			Descricao:  "Idoso relatou dor de cabeça leve",
			Dados:      portalclient.Dados{Sintomas: []string{"dor de cabeça"}, Bateria: bateria(70)},
			Datetime:   at(36 * time.Hour),
		},
	}

	for i := range eventos {
		eventos[i].TutorID = tutorID
		eventos[i].IdosoID = idosoID
	}
	return eventos
}
