package entity

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyDefaults(t *testing.T) {
	now := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)
	e := Evento{TutorID: "t1", IdosoID: "i1", Tipo: TipoQueda, Lido: true}

	e.ApplyDefaults(now)

	assert.Equal(t, SeveridadeBaixa, e.Severidade)
	assert.Equal(t, "Novo evento", e.Titulo)
	assert.Equal(t, "", e.Descricao)
	assert.True(t, e.Datetime.Equal(now))
	assert.False(t, e.Lido)
}

func TestApplyDefaultsKeepsProvidedValues(t *testing.T) {
	at := time.Date(2024, 5, 9, 8, 0, 0, 0, time.UTC)
	e := Evento{Severidade: SeveridadeCritica, Titulo: "Queda detectada", Datetime: at}

	e.ApplyDefaults(time.Now())

	assert.Equal(t, SeveridadeCritica, e.Severidade)
	assert.Equal(t, "Queda detectada", e.Titulo)
	assert.True(t, e.Datetime.Equal(at))
}

func TestSeveridadeOrdering(t *testing.T) {
	assert.True(t, SeveridadeCritica.AtLeast(SeveridadeAlta))
	assert.True(t, SeveridadeAlta.AtLeast(SeveridadeAlta))
	assert.False(t, SeveridadeMedia.AtLeast(SeveridadeAlta))
	assert.False(t, Severidade("urgente").AtLeast(SeveridadeBaixa))
	assert.Equal(t, -1, Severidade("").Rank())
}

func TestTipoEventoValid(t *testing.T) {
	assert.True(t, TipoFaltaResposta.Valid())
	assert.False(t, TipoEvento("desconhecido").Valid())
}

func TestSortEventosNewestFirst(t *testing.T) {
	base := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)
	eventos := []Evento{
		{ID: "a", Datetime: base.Add(-2 * time.Hour)},
		{ID: "b", Datetime: base},
		{ID: "c", Datetime: base.Add(-time.Hour)},
	}

	SortEventosNewestFirst(eventos)

	assert.Equal(t, "b", eventos[0].ID)
	assert.Equal(t, "c", eventos[1].ID)
	assert.Equal(t, "a", eventos[2].ID)
}

func TestEventoDadosRoundTripKeepsExtraKeys(t *testing.T) {
	raw := `{"bateria":85,"localizacao":{"latitude":-23.550520,"longitude":-46.633308,"precisao":10},"medicamento":"Losartana"}`

	var d EventoDados
	require.NoError(t, json.Unmarshal([]byte(raw), &d))

	require.NotNil(t, d.Bateria)
	assert.Equal(t, 85, *d.Bateria)
	require.NotNil(t, d.Localizacao)
	assert.True(t, d.Localizacao.Latitude.Equal(decimal.RequireFromString("-23.55052")))
	assert.Equal(t, "Losartana", d.Extra["medicamento"])

	out, err := json.Marshal(d)
	require.NoError(t, err)

	var back map[string]interface{}
	require.NoError(t, json.Unmarshal(out, &back))
	assert.Equal(t, float64(85), back["bateria"])
	assert.Equal(t, "Losartana", back["medicamento"])
	loc := back["localizacao"].(map[string]interface{})
	assert.Equal(t, -23.55052, loc["latitude"])
}

func TestEventoDadosExtraCannotShadowKnownKeys(t *testing.T) {
	bateria := 40
	d := EventoDados{Bateria: &bateria, Extra: map[string]interface{}{"bateria": 99, "nota": "x"}}

	out, err := json.Marshal(d)
	require.NoError(t, err)

	var back map[string]interface{}
	require.NoError(t, json.Unmarshal(out, &back))
	assert.Equal(t, float64(40), back["bateria"])
	assert.Equal(t, "x", back["nota"])
}

func TestEventoDadosValidate(t *testing.T) {
	over := 101
	negative := -5
	assert.ErrorIs(t, EventoDados{Bateria: &over}.Validate(), ErrBateriaOutOfRange)
	assert.ErrorIs(t, EventoDados{ConsumoAgua: &negative}.Validate(), ErrConsumoAguaNegative)
	assert.ErrorIs(t, EventoDados{Localizacao: &Localizacao{Latitude: decimal.NewFromInt(91)}}.Validate(), ErrLocalizacaoOutOfRange)
	assert.NoError(t, EventoDados{}.Validate())
}

func TestEventoDadosValueIsNullWhenEmpty(t *testing.T) {
	v, err := EventoDados{}.Value()
	require.NoError(t, err)
	assert.Nil(t, v)

	resposta := EventoDados{Resposta: "Estou bem"}
	v, err = resposta.Value()
	require.NoError(t, err)

	var scanned EventoDados
	require.NoError(t, scanned.Scan(v))
	assert.Equal(t, "Estou bem", scanned.Resposta)
}
