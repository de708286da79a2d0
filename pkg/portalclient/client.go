package portalclient

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
)

var (
	ErrServerBadRequest       = errors.New("server responded with bad request")
	ErrServerUnauthorized     = errors.New("server rejected the credentials")
	ErrServerError            = errors.New("server responded server error")
	ErrServerUnexpectedStatus = errors.New("server responded with unexpected status")

	ErrNotAuthenticated = errors.New("session is not authenticated")
	ErrLoginInProgress  = errors.New("a login is already in progress")
	ErrNoIdoso          = errors.New("tutor has no idoso registered")
)

const deviceKeyHeader = "X-Device-Key"

// Client talks to the tutor portal API and keeps the caller's session.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	deviceKey  string
	store      *FileStore

	mu      sync.Mutex
	session Session
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithDeviceKey sets the key sent with SendEvento.
func WithDeviceKey(key string) Option {
	return func(c *Client) { c.deviceKey = key }
}

// WithSessionFile persists the session to path after every transition.
func WithSessionFile(path string) Option {
	return func(c *Client) { c.store = NewFileStore(path) }
}

func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse base url")
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, errors.Errorf("base url %q must be absolute", baseURL)
	}

	c := &Client{
		baseURL:    u,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		session:    Session{State: StateAnonymous},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Session returns a copy of the current session.
func (c *Client) Session() Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session.clone()
}

// Restore rehydrates the session from the session file. A missing file leaves the
// client anonymous.
func (c *Client) Restore() error {
	if c.store == nil {
		return nil
	}
	s, err := c.store.Load()
	if err != nil {
		return errors.Wrap(err, "failed to restore session")
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.session = s
	return nil
}

func (c *Client) Login(ctx context.Context, email, senha string) (Session, error) {
	if err := c.beginAuthentication(); err != nil {
		return Session{}, err
	}

	var resp authResponse
	err := c.doJSON(ctx, http.MethodPost, "/api/auth/login", nil, authNone, loginRequest{Email: email, Senha: senha}, &resp)
	if err != nil {
		c.reset()
		return Session{}, errors.Wrap(err, "failed to login")
	}
	return c.authenticated(resp)
}

// Register creates the account and authenticates directly.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (Session, error) {
	if err := c.beginAuthentication(); err != nil {
		return Session{}, err
	}

	var resp authResponse
	if err := c.doJSON(ctx, http.MethodPost, "/api/auth/register", nil, authNone, req, &resp); err != nil {
		c.reset()
		return Session{}, errors.Wrap(err, "failed to register")
	}
	return c.authenticated(resp)
}

// Logout revokes the tokens server side and always clears the local session,
// including the cached tutor, idoso and events.
func (c *Client) Logout(ctx context.Context) error {
	s := c.Session()
	var err error
	if s.Authenticated() {
		err = c.doJSON(ctx, http.MethodPost, "/api/auth/logout", nil, authBearer,
			logoutRequest{RefreshToken: s.Tokens.RefreshToken}, nil)
	}

	c.reset()
	if err != nil {
		return errors.Wrap(err, "failed to revoke session")
	}
	return nil
}

// SendEvento posts an event the way the companion app does.
func (c *Client) SendEvento(ctx context.Context, req EventoRequest) (*Evento, error) {
	var evento Evento
	if err := c.doJSON(ctx, http.MethodPost, "/api/eventos", nil, authDevice, req, &evento); err != nil {
		return nil, errors.Wrap(err, "failed to send evento")
	}
	return &evento, nil
}

// ListEventos fetches the tutor's timeline and caches it in the session.
func (c *Client) ListEventos(ctx context.Context, q EventoQuery) ([]Evento, error) {
	query := url.Values{}
	for key, value := range map[string]string{
		"tutorId":    q.TutorID,
		"tipo":       q.Tipo,
		"severidade": q.Severidade,
		"busca":      q.Busca,
	} {
		if value != "" {
			query.Set(key, value)
		}
	}

	var eventos []Evento
	if err := c.doJSON(ctx, http.MethodGet, "/api/eventos", query, authBearer, nil, &eventos); err != nil {
		return nil, errors.Wrap(err, "failed to list eventos")
	}

	c.mu.Lock()
	c.session.Eventos = eventos
	c.mu.Unlock()
	return eventos, nil
}

func (c *Client) MarkRead(ctx context.Context, eventoID string) error {
	s := c.Session()
	req := markReadRequest{EventoID: eventoID}
	if s.Tutor != nil {
		req.TutorID = s.Tutor.ID
	}
	if err := c.doJSON(ctx, http.MethodPatch, "/api/eventos", nil, authBearer, req, nil); err != nil {
		return errors.Wrap(err, "failed to mark evento as read")
	}

	c.mu.Lock()
	for i := range c.session.Eventos {
		if c.session.Eventos[i].ID == eventoID {
			c.session.Eventos[i].Lido = true
		}
	}
	c.mu.Unlock()
	return nil
}

// GetIdoso returns the tutor's first idoso and caches it in the session.
func (c *Client) GetIdoso(ctx context.Context) (*Idoso, error) {
	var idosos []Idoso
	if err := c.doJSON(ctx, http.MethodGet, "/api/idoso", nil, authBearer, nil, &idosos); err != nil {
		return nil, errors.Wrap(err, "failed to get idoso")
	}
	if len(idosos) == 0 {
		return nil, ErrNoIdoso
	}

	idoso := idosos[0]
	c.mu.Lock()
	c.session.Idoso = &idoso
	err := c.persistLocked()
	c.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return &idoso, nil
}

func (c *Client) beginAuthentication() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session.State == StateAuthenticating {
		return ErrLoginInProgress
	}
	c.session = Session{State: StateAuthenticating}
	return nil
}

func (c *Client) authenticated(resp authResponse) (Session, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.session = Session{
		State:  StateAuthenticated,
		User:   resp.User,
		Tutor:  resp.Tutor,
		Idoso:  resp.Idoso,
		Tokens: resp.Tokens,
	}
	if err := c.persistLocked(); err != nil {
		return Session{}, err
	}
	return c.session.clone(), nil
}

func (c *Client) reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.session = Session{State: StateAnonymous}
	if c.store != nil {
		_ = c.store.Clear()
	}
}

func (c *Client) persistLocked() error {
	if c.store == nil {
		return nil
	}
	if err := c.store.Save(c.session); err != nil {
		return errors.Wrap(err, "failed to persist session")
	}
	return nil
}

type authMode int

const (
	authNone authMode = iota
	authBearer
	authDevice
)

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

// doJSON sends body as JSON and decodes the reply into out. Auth routes answer at
// the top level, everything else inside the data envelope.
func (c *Client) doJSON(ctx context.Context, method, path string, query url.Values, mode authMode, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return errors.Wrap(err, "failed to json encode the request body")
		}
		reader = bytes.NewReader(b)
	}

	requestURL := *c.baseURL
	requestURL.Path = c.baseURL.Path + path
	requestURL.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, method, requestURL.String(), reader)
	if err != nil {
		return errors.Wrap(err, "failed to build request")
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	switch mode {
	case authBearer:
		s := c.Session()
		if !s.Authenticated() {
			return ErrNotAuthenticated
		}
		req.Header.Set("Authorization", "Bearer "+s.Tokens.AccessToken)
	case authDevice:
		if c.deviceKey != "" {
			req.Header.Set(deviceKeyHeader, c.deviceKey)
		}
	}

	resp, err := c.performRequest(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if out == nil {
		return nil
	}
	if strings.HasPrefix(path, "/api/auth/") {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return errors.Wrap(err, "failed to decode json response")
		}
		return nil
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return errors.Wrap(err, "failed to decode json response")
	}
	if len(env.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return errors.Wrap(err, "failed to decode response data")
	}
	return nil
}

func (c *Client) performRequest(r *http.Request) (*http.Response, error) {
	resp, err := c.httpClient.Do(r)
	if err != nil {
		return nil, errors.Wrap(err, "failed to execute the http request")
	}

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return resp, nil
	case resp.StatusCode == http.StatusUnauthorized:
		err = ErrServerUnauthorized
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		err = ErrServerBadRequest
	case resp.StatusCode >= 500:
		err = ErrServerError
	default:
		err = ErrServerUnexpectedStatus
	}
	defer resp.Body.Close()

	var env envelope
	b, _ := io.ReadAll(resp.Body)
	if json.Unmarshal(b, &env) == nil && env.Error != "" {
		return nil, errors.Wrapf(err, "server responded with status code %v: %s", resp.StatusCode, env.Error)
	}
	return nil, errors.Wrapf(err, "server responded with status code %v, body: %s", resp.StatusCode, b)
}
