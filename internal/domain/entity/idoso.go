package entity

import "time"

// Idoso is the elderly person monitored by a tutor
type Idoso struct {
	ID                       string     `gorm:"type:varchar(64);primaryKey" json:"id"`
	TutorID                  string     `gorm:"type:varchar(64);not null;index" json:"tutorId"`
	Nome                     string     `gorm:"type:varchar(255);not null" json:"nome"`
	Idade                    int        `json:"idade"`
	Altura                   int        `json:"altura"`
	Doencas                  StringList `gorm:"type:jsonb" json:"doencas"`
	CondicaoAtual            string     `gorm:"type:text" json:"condicaoAtual"`
	TemPlanoSaude            bool       `gorm:"not null;default:false" json:"temPlanoSaude"`
	PlanoSaudeNome           string     `gorm:"type:varchar(255)" json:"-"`
	PlanoSaudeNumeroCarteira string     `gorm:"type:varchar(64)" json:"-"`
	NumeroSUS                string     `gorm:"column:numero_sus;type:varchar(32)" json:"numeroSUS"`
	Foto                     string     `gorm:"type:text" json:"foto,omitempty"`
	CreatedAt                time.Time  `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt                time.Time  `gorm:"autoUpdateTime" json:"updatedAt"`

	// Relationships
	Medicacoes []Medicacao `gorm:"foreignKey:IdosoID" json:"medicacoes"`
	Exames     []Exame     `gorm:"foreignKey:IdosoID" json:"exames"`
}

func (Idoso) TableName() string {
	return "idosos"
}

type PlanoSaude struct {
	Nome           string `json:"nome"`
	NumeroCarteira string `json:"numeroCarteira"`
}

// PlanoSaude returns the health plan, or nil when the idoso has none.
func (i *Idoso) PlanoSaude() *PlanoSaude {
	if !i.TemPlanoSaude {
		return nil
	}
	return &PlanoSaude{Nome: i.PlanoSaudeNome, NumeroCarteira: i.PlanoSaudeNumeroCarteira}
}

func (i *Idoso) SetPlanoSaude(p *PlanoSaude) {
	if p == nil {
		i.PlanoSaudeNome = ""
		i.PlanoSaudeNumeroCarteira = ""
		return
	}
	i.PlanoSaudeNome = p.Nome
	i.PlanoSaudeNumeroCarteira = p.NumeroCarteira
}

// Medicacao is a medication prescribed to an idoso
type Medicacao struct {
	ID          string     `gorm:"type:varchar(64);primaryKey" json:"id"`
	IdosoID     string     `gorm:"type:varchar(64);not null;index" json:"idosoId"`
	Nome        string     `gorm:"type:varchar(255);not null" json:"nome"`
	Dosagem     string     `gorm:"type:varchar(100)" json:"dosagem"`
	Frequencia  string     `gorm:"type:varchar(100)" json:"frequencia"`
	Horarios    StringList `gorm:"type:jsonb" json:"horarios"`
	Observacoes string     `gorm:"type:text" json:"observacoes,omitempty"`
	CreatedAt   time.Time  `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt   time.Time  `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (Medicacao) TableName() string {
	return "medicacoes"
}

// Exame is a medical exam of an idoso
type Exame struct {
	ID          string    `gorm:"type:varchar(64);primaryKey" json:"id"`
	IdosoID     string    `gorm:"type:varchar(64);not null;index" json:"idosoId"`
	Nome        string    `gorm:"type:varchar(255);not null" json:"nome"`
	Data        string    `gorm:"type:varchar(10);not null" json:"data"` // YYYY-MM-DD
	Resultado   string    `gorm:"type:text" json:"resultado,omitempty"`
	Observacoes string    `gorm:"type:text" json:"observacoes,omitempty"`
	Arquivo     string    `gorm:"type:text" json:"arquivo,omitempty"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (Exame) TableName() string {
	return "exames"
}
