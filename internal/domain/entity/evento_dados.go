package entity

import (
	"database/sql/driver"
	"encoding/json"
	"errors"

	"github.com/shopspring/decimal"
)

func init() {
	// Coordinates go out as JSON numbers, the way the companion app sends them.
	decimal.MarshalJSONWithoutQuotes = true
}

var (
	ErrBateriaOutOfRange     = errors.New("bateria must be between 0 and 100")
	ErrConsumoAguaNegative   = errors.New("consumoAgua must not be negative")
	ErrLocalizacaoOutOfRange = errors.New("localizacao is outside valid coordinates")
)

type Localizacao struct {
	Latitude  decimal.Decimal  `json:"latitude"`
	Longitude decimal.Decimal  `json:"longitude"`
	Precisao  *decimal.Decimal `json:"precisao,omitempty"`
}

type Acelerometro struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// EventoDados is the payload bag of an event. Known keys are typed; anything
// else the device sends is kept in Extra and written back at the top level.
type EventoDados struct {
	Bateria      *int          `json:"bateria,omitempty"`
	Localizacao  *Localizacao  `json:"localizacao,omitempty"`
	Acelerometro *Acelerometro `json:"acelerometro,omitempty"`
	Resposta     string        `json:"resposta,omitempty"`
	Sintomas     []string      `json:"sintomas,omitempty"`
	ConsumoAgua  *int          `json:"consumoAgua,omitempty"`

	Extra map[string]interface{} `json:"-"`
}

type eventoDadosFields EventoDados

var knownDadosKeys = map[string]struct{}{
	"bateria":      {},
	"localizacao":  {},
	"acelerometro": {},
	"resposta":     {},
	"sintomas":     {},
	"consumoAgua":  {},
}

func (d EventoDados) IsZero() bool {
	return d.Bateria == nil && d.Localizacao == nil && d.Acelerometro == nil &&
		d.Resposta == "" && len(d.Sintomas) == 0 && d.ConsumoAgua == nil && len(d.Extra) == 0
}

func (d EventoDados) Validate() error {
	if d.Bateria != nil && (*d.Bateria < 0 || *d.Bateria > 100) {
		return ErrBateriaOutOfRange
	}
	if d.ConsumoAgua != nil && *d.ConsumoAgua < 0 {
		return ErrConsumoAguaNegative
	}
	if l := d.Localizacao; l != nil {
		if l.Latitude.Abs().GreaterThan(decimal.NewFromInt(90)) || l.Longitude.Abs().GreaterThan(decimal.NewFromInt(180)) {
			return ErrLocalizacaoOutOfRange
		}
		if l.Precisao != nil && l.Precisao.IsNegative() {
			return ErrLocalizacaoOutOfRange
		}
	}
	return nil
}

func (d EventoDados) MarshalJSON() ([]byte, error) {
	known, err := json.Marshal(eventoDadosFields(d))
	if err != nil {
		return nil, err
	}
	if len(d.Extra) == 0 {
		return known, nil
	}

	merged := make(map[string]json.RawMessage, len(d.Extra)+len(knownDadosKeys))
	for k, v := range d.Extra {
		if _, ok := knownDadosKeys[k]; ok {
			continue
		}
		raw, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		merged[k] = raw
	}
	if err := json.Unmarshal(known, &merged); err != nil {
		return nil, err
	}
	return json.Marshal(merged)
}

func (d *EventoDados) UnmarshalJSON(data []byte) error {
	var fields eventoDadosFields
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}

	var all map[string]interface{}
	if err := json.Unmarshal(data, &all); err != nil {
		return err
	}
	for k := range knownDadosKeys {
		delete(all, k)
	}
	if len(all) > 0 {
		fields.Extra = all
	}

	*d = EventoDados(fields)
	return nil
}

// Value stores the bag as jsonb, NULL when empty.
func (d EventoDados) Value() (driver.Value, error) {
	if d.IsZero() {
		return nil, nil
	}
	b, err := d.MarshalJSON()
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (d *EventoDados) Scan(value interface{}) error {
	if value == nil {
		*d = EventoDados{}
		return nil
	}
	return scanJSONB(value, d)
}
