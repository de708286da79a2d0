package usecase

import (
	"context"
	"errors"

	"tutor-portal/internal/delivery/http/middleware"
	"tutor-portal/internal/domain/entity"
	"tutor-portal/internal/domain/repository"
	"tutor-portal/internal/infrastructure/metrics"
)

var (
	ErrUnauthenticated = errors.New("caller is not authenticated")
	ErrForbidden       = errors.New("resource belongs to another tutor")
)

// currentIdentity returns the authenticated tutor of the request.
func currentIdentity(ctx context.Context) (middleware.Identity, error) {
	id, ok := middleware.GetIdentity(ctx)
	if !ok || id.TutorID == "" {
		return middleware.Identity{}, ErrUnauthenticated
	}
	return id, nil
}

// resolveTutorID defaults an optional tutorId parameter to the caller and
// rejects requests for another tutor's data.
func resolveTutorID(requested string, caller middleware.Identity) (string, error) {
	if requested == "" {
		return caller.TutorID, nil
	}
	if requested != caller.TutorID {
		return "", ErrForbidden
	}
	return requested, nil
}

// loadOwnedIdoso fetches the idoso and checks it belongs to the caller.
func loadOwnedIdoso(ctx context.Context, repo repository.IdosoRepository, idosoID string, caller middleware.Identity) (*entity.Idoso, error) {
	idoso, err := repo.FindByID(ctx, idosoID)
	if err != nil {
		return nil, err
	}
	if idoso == nil {
		return nil, ErrIdosoNotFound
	}
	if idoso.TutorID != caller.TutorID {
		return nil, ErrForbidden
	}
	return idoso, nil
}

// eventoAppender stores events and enforces the per-tutor retention limit.
type eventoAppender struct {
	eventoRepo     repository.EventoRepository
	retentionLimit int
}

// append must run inside a transaction so the insert and the trim commit together.
// It reports how many older events were evicted.
func (a *eventoAppender) append(ctx context.Context, evento *entity.Evento) (int64, error) {
	if err := a.eventoRepo.Create(ctx, evento); err != nil {
		return 0, err
	}
	if a.retentionLimit <= 0 {
		return 0, nil
	}
	return a.eventoRepo.TrimByTutor(ctx, evento.TutorID, a.retentionLimit)
}

// committed records metrics once the transaction holding evento has committed.
func (a *eventoAppender) committed(evento *entity.Evento, evicted int64) {
	metrics.EventosIngested.WithLabelValues(string(evento.Tipo), string(evento.Severidade)).Inc()
	if evicted > 0 {
		metrics.EventosEvicted.Add(float64(evicted))
	}
}
