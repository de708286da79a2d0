package entity

import (
	"sort"
	"time"
)

type TipoEvento string

const (
	TipoResposta      TipoEvento = "resposta"
	TipoFaltaResposta TipoEvento = "falta_resposta"
	TipoQueda         TipoEvento = "queda"
	TipoImobilidade   TipoEvento = "imobilidade"
	TipoBateriaBaixa  TipoEvento = "bateria_baixa"
	TipoLocalizacao   TipoEvento = "localizacao"
	TipoMedicacao     TipoEvento = "medicacao"
	TipoAgua          TipoEvento = "agua"
	TipoSintoma       TipoEvento = "sintoma"
	TipoAlerta        TipoEvento = "alerta"
	TipoOutro         TipoEvento = "outro"
)

var TiposEvento = []TipoEvento{
	TipoResposta, TipoFaltaResposta, TipoQueda, TipoImobilidade, TipoBateriaBaixa,
	TipoLocalizacao, TipoMedicacao, TipoAgua, TipoSintoma, TipoAlerta, TipoOutro,
}

func (t TipoEvento) Valid() bool {
	for _, known := range TiposEvento {
		if t == known {
			return true
		}
	}
	return false
}

// Severidade is ordinal: baixa < media < alta < critica.
type Severidade string

const (
	SeveridadeBaixa   Severidade = "baixa"
	SeveridadeMedia   Severidade = "media"
	SeveridadeAlta    Severidade = "alta"
	SeveridadeCritica Severidade = "critica"
)

var Severidades = []Severidade{SeveridadeBaixa, SeveridadeMedia, SeveridadeAlta, SeveridadeCritica}

// Rank returns the position of s in the severity scale, or -1 when unknown.
func (s Severidade) Rank() int {
	for i, known := range Severidades {
		if s == known {
			return i
		}
	}
	return -1
}

func (s Severidade) Valid() bool {
	return s.Rank() >= 0
}

func (s Severidade) AtLeast(min Severidade) bool {
	return s.Valid() && s.Rank() >= min.Rank()
}

// Defaults applied to incoming events
const (
	DefaultTituloEvento = "Novo evento"
	DefaultSeveridade   = SeveridadeBaixa
)

// Evento is an event reported by the companion app
type Evento struct {
	ID         string      `gorm:"type:varchar(64);primaryKey" json:"id"`
	TutorID    string      `gorm:"type:varchar(64);not null;index:idx_eventos_tutor_datetime,priority:1" json:"tutorId"`
	IdosoID    string      `gorm:"type:varchar(64);not null;index" json:"idosoId"`
	Tipo       TipoEvento  `gorm:"type:varchar(32);not null;index" json:"tipo"`
	Severidade Severidade  `gorm:"type:varchar(16);not null" json:"severidade"`
	Titulo     string      `gorm:"type:varchar(255);not null" json:"titulo"`
	Descricao  string      `gorm:"type:text" json:"descricao"`
	Dados      EventoDados `gorm:"type:jsonb" json:"dados"`
	Datetime   time.Time   `gorm:"not null;index:idx_eventos_tutor_datetime,priority:2" json:"datetime"`
	Lido       bool        `gorm:"not null;default:false" json:"lido"`
	CreatedAt  time.Time   `gorm:"autoCreateTime" json:"createdAt"`
	// Seq records storage order; retention evicts by it.
	Seq int64 `gorm:"autoIncrement;not null;uniqueIndex" json:"-"`
}

func (Evento) TableName() string {
	return "eventos"
}

// ApplyDefaults fills the fields the device may omit. A new event is never read.
func (e *Evento) ApplyDefaults(now time.Time) {
	if e.Severidade == "" {
		e.Severidade = DefaultSeveridade
	}
	if e.Titulo == "" {
		e.Titulo = DefaultTituloEvento
	}
	if e.Datetime.IsZero() {
		e.Datetime = now.UTC()
	}
	e.Lido = false
}

func (e *Evento) MarkRead() {
	e.Lido = true
}

// SortEventosNewestFirst orders events by datetime descending, newest insert first on ties.
func SortEventosNewestFirst(eventos []Evento) {
	sort.SliceStable(eventos, func(i, j int) bool {
		a, b := eventos[i], eventos[j]
		if !a.Datetime.Equal(b.Datetime) {
			return a.Datetime.After(b.Datetime)
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID > b.ID
	})
}
