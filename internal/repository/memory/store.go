// Package memory keeps portal records in process memory. It backs the
// "memory" database driver and the usecase tests.
package memory

import (
	"context"
	"sync"
	"time"

	"tutor-portal/internal/domain/entity"
	domainRepo "tutor-portal/internal/domain/repository"
)

type Store struct {
	mu   sync.RWMutex
	txMu sync.Mutex

	users      []entity.User
	tutores    []entity.Tutor
	idosos     []entity.Idoso
	medicacoes []entity.Medicacao
	exames     []entity.Exame
	eventos    []entity.Evento
	auditLogs  []entity.AuditLog

	now func() time.Time
}

func NewStore() *Store {
	return &Store{now: time.Now}
}

type snapshot struct {
	users      []entity.User
	tutores    []entity.Tutor
	idosos     []entity.Idoso
	medicacoes []entity.Medicacao
	exames     []entity.Exame
	eventos    []entity.Evento
	auditLogs  []entity.AuditLog
}

func (s *Store) snapshot() snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return snapshot{
		users:      append([]entity.User(nil), s.users...),
		tutores:    append([]entity.Tutor(nil), s.tutores...),
		idosos:     append([]entity.Idoso(nil), s.idosos...),
		medicacoes: append([]entity.Medicacao(nil), s.medicacoes...),
		exames:     append([]entity.Exame(nil), s.exames...),
		eventos:    append([]entity.Evento(nil), s.eventos...),
		auditLogs:  append([]entity.AuditLog(nil), s.auditLogs...),
	}
}

func (s *Store) restore(snap snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users = snap.users
	s.tutores = snap.tutores
	s.idosos = snap.idosos
	s.medicacoes = snap.medicacoes
	s.exames = snap.exames
	s.eventos = snap.eventos
	s.auditLogs = snap.auditLogs
}

type txKey struct{}

type transactor struct {
	store *Store
}

// NewTransactor serializes transactions and restores the previous state when fn fails.
// Writes made outside a transaction wait for it to finish, so a rollback only ever
// discards the transaction's own writes.
func NewTransactor(s *Store) domainRepo.Transactor {
	return &transactor{store: s}
}

func (t *transactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(txKey{}) != nil {
		return fn(ctx)
	}

	t.store.txMu.Lock()
	defer t.store.txMu.Unlock()

	snap := t.store.snapshot()
	if err := fn(context.WithValue(ctx, txKey{}, true)); err != nil {
		t.store.restore(snap)
		return err
	}
	return nil
}

// lockWrite takes the store lock for a write and returns the unlock func. Outside a
// transaction it also holds txMu so the write cannot land between snapshot and restore.
func (s *Store) lockWrite(ctx context.Context) func() {
	if ctx.Value(txKey{}) != nil {
		s.mu.Lock()
		return s.mu.Unlock
	}
	s.txMu.Lock()
	s.mu.Lock()
	return func() {
		s.mu.Unlock()
		s.txMu.Unlock()
	}
}

func (s *Store) stamp(created, updated *time.Time) {
	now := s.now()
	if created != nil && created.IsZero() {
		*created = now
	}
	if updated != nil {
		*updated = now
	}
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	return append([]string(nil), in...)
}
