package portalclient

import (
	"time"

	"github.com/shopspring/decimal"
)

// Wire types mirror the portal's JSON so callers outside the server module can
// build requests and read replies.

type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

type Endereco struct {
	Rua    string `json:"rua"`
	Numero string `json:"numero"`
	Bairro string `json:"bairro"`
	Cidade string `json:"cidade"`
	Estado string `json:"estado"`
	CEP    string `json:"cep"`
}

type Contato struct {
	ID       string `json:"id,omitempty"`
	Nome     string `json:"nome"`
	Telefone string `json:"telefone"`
}

type Tutor struct {
	ID                 string    `json:"id"`
	UserID             string    `json:"userId"`
	Email              string    `json:"email"`
	Nome               string    `json:"nome"`
	Documento          string    `json:"documento"`
	Idade              int       `json:"idade"`
	Endereco           Endereco  `json:"endereco"`
	ContatosEmergencia []Contato `json:"contatosEmergencia"`
	Foto               string    `json:"foto,omitempty"`
	PushAtivo          bool      `json:"pushAtivo"`
}

type Idoso struct {
	ID            string   `json:"id"`
	TutorID       string   `json:"tutorId"`
	Nome          string   `json:"nome"`
	Idade         int      `json:"idade"`
	Altura        int      `json:"altura"`
	Doencas       []string `json:"doencas"`
	CondicaoAtual string   `json:"condicaoAtual"`
	NumeroSUS     string   `json:"numeroSUS"`
}

type Tokens struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	TokenType    string `json:"tokenType"`
	ExpiresIn    int64  `json:"expiresIn"`
}

type TutorData struct {
	Nome               string    `json:"nome"`
	Documento          string    `json:"documento,omitempty"`
	Idade              int       `json:"idade,omitempty"`
	Endereco           Endereco  `json:"endereco"`
	ContatosEmergencia []Contato `json:"contatosEmergencia,omitempty"`
	DeviceToken        string    `json:"deviceToken,omitempty"`
}

type RegisterRequest struct {
	Email     string     `json:"email"`
	Senha     string     `json:"senha"`
	TutorData *TutorData `json:"tutorData"`
}

type Localizacao struct {
	Latitude  decimal.Decimal  `json:"latitude"`
	Longitude decimal.Decimal  `json:"longitude"`
	Precisao  *decimal.Decimal `json:"precisao,omitempty"`
}

// Dados is the event payload. Unknown keys sent by the portal are dropped.
type Dados struct {
	Bateria     *int         `json:"bateria,omitempty"`
	Localizacao *Localizacao `json:"localizacao,omitempty"`
	Resposta    string       `json:"resposta,omitempty"`
	Sintomas    []string     `json:"sintomas,omitempty"`
	ConsumoAgua *int         `json:"consumoAgua,omitempty"`
}

// EventoRequest is what the companion app posts. Empty severity and title are
// filled by the portal from the type.
type EventoRequest struct {
	TutorID    string     `json:"tutorId"`
	IdosoID    string     `json:"idosoId"`
	Tipo       string     `json:"tipo"`
	Severidade string     `json:"severidade,omitempty"`
	Titulo     string     `json:"titulo,omitempty"`
	Descricao  string     `json:"descricao,omitempty"`
	Dados      Dados      `json:"dados"`
	Datetime   *time.Time `json:"datetime,omitempty"`
}

type Evento struct {
	ID         string    `json:"id"`
	TutorID    string    `json:"tutorId"`
	IdosoID    string    `json:"idosoId"`
	Tipo       string    `json:"tipo"`
	Severidade string    `json:"severidade"`
	Titulo     string    `json:"titulo"`
	Descricao  string    `json:"descricao"`
	Dados      *Dados    `json:"dados,omitempty"`
	Datetime   time.Time `json:"datetime"`
	Lido       bool      `json:"lido"`
}

// EventoQuery filters the timeline. Empty fields are not sent.
type EventoQuery struct {
	TutorID    string
	Tipo       string
	Severidade string
	Busca      string
}

type loginRequest struct {
	Email string `json:"email"`
	Senha string `json:"senha"`
}

type logoutRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type markReadRequest struct {
	EventoID string `json:"eventoId"`
	TutorID  string `json:"tutorId,omitempty"`
}

type authResponse struct {
	Success bool    `json:"success"`
	Message string  `json:"message"`
	User    *User   `json:"user"`
	Tutor   *Tutor  `json:"tutor"`
	Idoso   *Idoso  `json:"idoso"`
	Tokens  *Tokens `json:"tokens"`
}
