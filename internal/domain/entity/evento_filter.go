package entity

import (
	"strings"
	"time"
)

// FilterAll is the sentinel the dashboard sends for "no restriction".
const FilterAll = "todos"

// EventoFilter narrows an event timeline. Empty or "todos" fields match everything.
type EventoFilter struct {
	Tipo       string
	Severidade string
	Busca      string
}

func (f EventoFilter) IsEmpty() bool {
	return isPassAll(f.Tipo) && isPassAll(f.Severidade) && strings.TrimSpace(f.Busca) == ""
}

func (f EventoFilter) Match(e Evento) bool {
	if !isPassAll(f.Tipo) && string(e.Tipo) != f.Tipo {
		return false
	}
	if !isPassAll(f.Severidade) && string(e.Severidade) != f.Severidade {
		return false
	}
	if busca := strings.ToLower(strings.TrimSpace(f.Busca)); busca != "" {
		if !strings.Contains(strings.ToLower(e.Titulo), busca) &&
			!strings.Contains(strings.ToLower(e.Descricao), busca) {
			return false
		}
	}
	return true
}

func isPassAll(v string) bool {
	return v == "" || v == FilterAll
}

// FilterEventos keeps the events matching f, preserving input order.
func FilterEventos(eventos []Evento, f EventoFilter) []Evento {
	if f.IsEmpty() {
		return eventos
	}
	out := make([]Evento, 0, len(eventos))
	for _, e := range eventos {
		if f.Match(e) {
			out = append(out, e)
		}
	}
	return out
}

type EventoResumo struct {
	Total         int                `json:"total"`
	PorSeveridade map[Severidade]int `json:"porSeveridade"`
	Hoje          int                `json:"hoje"`
	NaoLidos      int                `json:"naoLidos"`
	Criticos      int                `json:"criticos"`
}

// AggregateEventos counts events. "Today" is the server's local calendar day of now.
func AggregateEventos(eventos []Evento, now time.Time) EventoResumo {
	resumo := EventoResumo{
		Total:         len(eventos),
		PorSeveridade: make(map[Severidade]int, len(Severidades)),
	}
	for _, s := range Severidades {
		resumo.PorSeveridade[s] = 0
	}

	for _, e := range eventos {
		if e.Severidade.Valid() {
			resumo.PorSeveridade[e.Severidade]++
		}
		if IsSameLocalDay(e.Datetime, now) {
			resumo.Hoje++
		}
		if !e.Lido {
			resumo.NaoLidos++
		}
		if e.Severidade == SeveridadeCritica {
			resumo.Criticos++
		}
	}
	return resumo
}

func IsSameLocalDay(a, b time.Time) bool {
	ay, am, ad := a.In(time.Local).Date()
	by, bm, bd := b.In(time.Local).Date()
	return ay == by && am == bm && ad == bd
}

// Overall status shown on the dashboard
const (
	StatusNormal  = "normal"
	StatusAtencao = "atencao"
	StatusCritico = "critico"
)

// StatusGeral is critico with any unread critica event, atencao with any unread alta, else normal.
func StatusGeral(eventos []Evento) string {
	status := StatusNormal
	for _, e := range eventos {
		if e.Lido {
			continue
		}
		switch e.Severidade {
		case SeveridadeCritica:
			return StatusCritico
		case SeveridadeAlta:
			status = StatusAtencao
		}
	}
	return status
}
