package repository

import (
	"context"
	"errors"
)

// ErrDuplicateKey is returned by stores when a unique constraint is violated.
var ErrDuplicateKey = errors.New("duplicate key")

// Transactor runs fn atomically. Repositories called with the ctx passed to fn
// take part in the same transaction.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
