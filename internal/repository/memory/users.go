package memory

import (
	"context"

	"tutor-portal/internal/domain/entity"
	domainRepo "tutor-portal/internal/domain/repository"
)

type userRepository struct {
	store *Store
}

func NewUserRepository(s *Store) domainRepo.UserRepository {
	return &userRepository{store: s}
}

func (r *userRepository) Create(ctx context.Context, user *entity.User) error {
	s := r.store
	defer s.lockWrite(ctx)()

	for _, u := range s.users {
		if u.Email == user.Email || u.ID == user.ID {
			return domainRepo.ErrDuplicateKey
		}
	}
	s.stamp(&user.CreatedAt, &user.UpdatedAt)
	stored := *user
	stored.Tutor = nil
	s.users = append(s.users, stored)
	return nil
}

func (r *userRepository) FindByID(_ context.Context, id string) (*entity.User, error) {
	return r.find(func(u entity.User) bool { return u.ID == id }), nil
}

func (r *userRepository) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	return r.find(func(u entity.User) bool { return u.Email == email }), nil
}

func (r *userRepository) find(match func(entity.User) bool) *entity.User {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	for _, u := range r.store.users {
		if match(u) {
			found := u
			return &found
		}
	}
	return nil
}

type tutorRepository struct {
	store *Store
}

func NewTutorRepository(s *Store) domainRepo.TutorRepository {
	return &tutorRepository{store: s}
}

func (r *tutorRepository) Create(ctx context.Context, tutor *entity.Tutor) error {
	s := r.store
	defer s.lockWrite(ctx)()

	for _, t := range s.tutores {
		if t.ID == tutor.ID || t.UserID == tutor.UserID {
			return domainRepo.ErrDuplicateKey
		}
	}
	s.stamp(&tutor.CreatedAt, &tutor.UpdatedAt)
	s.tutores = append(s.tutores, cloneTutor(*tutor))
	return nil
}

func (r *tutorRepository) FindByID(_ context.Context, id string) (*entity.Tutor, error) {
	return r.find(func(t entity.Tutor) bool { return t.ID == id }), nil
}

func (r *tutorRepository) FindByUserID(_ context.Context, userID string) (*entity.Tutor, error) {
	return r.find(func(t entity.Tutor) bool { return t.UserID == userID }), nil
}

func (r *tutorRepository) find(match func(entity.Tutor) bool) *entity.Tutor {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	for _, t := range r.store.tutores {
		if match(t) {
			found := cloneTutor(t)
			return &found
		}
	}
	return nil
}

func (r *tutorRepository) Update(ctx context.Context, tutor *entity.Tutor) error {
	s := r.store
	defer s.lockWrite(ctx)()

	for i := range s.tutores {
		if s.tutores[i].ID == tutor.ID {
			s.stamp(nil, &tutor.UpdatedAt)
			s.tutores[i] = cloneTutor(*tutor)
			return nil
		}
	}
	return nil
}

func cloneTutor(t entity.Tutor) entity.Tutor {
	if t.ContatosEmergencia != nil {
		t.ContatosEmergencia = append(entity.ContatoList(nil), t.ContatosEmergencia...)
	}
	return t
}
