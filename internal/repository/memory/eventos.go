package memory

import (
	"context"

	"tutor-portal/internal/domain/entity"
	domainRepo "tutor-portal/internal/domain/repository"
)

type eventoRepository struct {
	store *Store
}

func NewEventoRepository(s *Store) domainRepo.EventoRepository {
	return &eventoRepository{store: s}
}

func (r *eventoRepository) Create(ctx context.Context, evento *entity.Evento) error {
	s := r.store
	defer s.lockWrite(ctx)()

	for _, e := range s.eventos {
		if e.ID == evento.ID {
			return domainRepo.ErrDuplicateKey
		}
	}
	s.stamp(&evento.CreatedAt, nil)
	s.eventos = append(s.eventos, *evento)
	return nil
}

func (r *eventoRepository) FindByID(_ context.Context, id string) (*entity.Evento, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, e := range s.eventos {
		if e.ID == id {
			found := e
			return &found, nil
		}
	}
	return nil, nil
}

func (r *eventoRepository) FindByTutorID(_ context.Context, tutorID string) ([]entity.Evento, error) {
	s := r.store
	s.mu.RLock()
	eventos := make([]entity.Evento, 0)
	// Walk backwards so equal timestamps keep newest-insert-first order.
	for i := len(s.eventos) - 1; i >= 0; i-- {
		if s.eventos[i].TutorID == tutorID {
			eventos = append(eventos, s.eventos[i])
		}
	}
	s.mu.RUnlock()

	entity.SortEventosNewestFirst(eventos)
	return eventos, nil
}

func (r *eventoRepository) MarkRead(ctx context.Context, id, tutorID string) (int64, error) {
	s := r.store
	defer s.lockWrite(ctx)()

	for i := range s.eventos {
		if s.eventos[i].ID == id && s.eventos[i].TutorID == tutorID {
			s.eventos[i].MarkRead()
			return 1, nil
		}
	}
	return 0, nil
}

// TrimByTutor keeps the tutor's keep most recently stored events. Insertion order
// decides, not the device supplied datetime, so the event just stored always stays.
func (r *eventoRepository) TrimByTutor(ctx context.Context, tutorID string, keep int) (int64, error) {
	s := r.store
	defer s.lockWrite(ctx)()

	seen := 0
	evict := make(map[int]struct{})
	for i := len(s.eventos) - 1; i >= 0; i-- {
		if s.eventos[i].TutorID != tutorID {
			continue
		}
		seen++
		if seen > keep {
			evict[i] = struct{}{}
		}
	}
	if len(evict) == 0 {
		return 0, nil
	}

	kept := make([]entity.Evento, 0, len(s.eventos)-len(evict))
	for i, e := range s.eventos {
		if _, drop := evict[i]; drop {
			continue
		}
		kept = append(kept, e)
	}
	s.eventos = kept
	return int64(len(evict)), nil
}
