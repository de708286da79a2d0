package portalclient

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

type State string

const (
	StateAnonymous      State = "anonymous"
	StateAuthenticating State = "authenticating"
	StateAuthenticated  State = "authenticated"
)

// Session is what the client remembers about the signed in tutor.
type Session struct {
	State   State    `json:"state"`
	User    *User    `json:"user,omitempty"`
	Tutor   *Tutor   `json:"tutor,omitempty"`
	Idoso   *Idoso   `json:"idoso,omitempty"`
	Tokens  *Tokens  `json:"tokens,omitempty"`
	Eventos []Evento `json:"eventos,omitempty"`
}

func (s Session) Authenticated() bool {
	return s.State == StateAuthenticated && s.Tokens != nil
}

func (s Session) clone() Session {
	if s.Eventos != nil {
		s.Eventos = append([]Evento(nil), s.Eventos...)
	}
	return s
}

// FileStore keeps a session as a JSON file.
type FileStore struct {
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Load reads the stored session. A missing file, or one left mid-login, yields an
// anonymous session.
func (f *FileStore) Load() (Session, error) {
	b, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return Session{State: StateAnonymous}, nil
	}
	if err != nil {
		return Session{}, errors.Wrap(err, "failed to read session file")
	}

	var s Session
	if err := json.Unmarshal(b, &s); err != nil {
		return Session{}, errors.Wrap(err, "failed to decode session file")
	}
	if !s.Authenticated() {
		return Session{State: StateAnonymous}, nil
	}
	return s, nil
}

// Save writes the session through a temp file so a crash never leaves half a file.
func (f *FileStore) Save(s Session) error {
	b, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return errors.Wrap(err, "failed to encode session")
	}

	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return errors.Wrap(err, "failed to create session dir")
	}
	tmp, err := os.CreateTemp(dir, ".session-*")
	if err != nil {
		return errors.Wrap(err, "failed to create temp file")
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		return errors.Wrap(err, "failed to write session")
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(err, "failed to close session file")
	}
	return errors.Wrap(os.Rename(tmp.Name(), f.path), "failed to replace session file")
}

func (f *FileStore) Clear() error {
	if err := os.Remove(f.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return errors.Wrap(err, "failed to remove session file")
	}
	return nil
}
