package memory

import (
	"context"

	"tutor-portal/internal/domain/entity"
	domainRepo "tutor-portal/internal/domain/repository"
)

type idosoRepository struct {
	store *Store
}

func NewIdosoRepository(s *Store) domainRepo.IdosoRepository {
	return &idosoRepository{store: s}
}

func (r *idosoRepository) Create(ctx context.Context, idoso *entity.Idoso) error {
	s := r.store
	defer s.lockWrite(ctx)()

	for _, i := range s.idosos {
		if i.ID == idoso.ID {
			return domainRepo.ErrDuplicateKey
		}
	}

	s.stamp(&idoso.CreatedAt, &idoso.UpdatedAt)
	for i := range idoso.Medicacoes {
		m := &idoso.Medicacoes[i]
		m.IdosoID = idoso.ID
		s.stamp(&m.CreatedAt, &m.UpdatedAt)
		s.medicacoes = append(s.medicacoes, cloneMedicacao(*m))
	}
	for i := range idoso.Exames {
		e := &idoso.Exames[i]
		e.IdosoID = idoso.ID
		s.stamp(&e.CreatedAt, &e.UpdatedAt)
		s.exames = append(s.exames, *e)
	}
	s.idosos = append(s.idosos, bareIdoso(*idoso))
	return nil
}

func (r *idosoRepository) FindByID(_ context.Context, id string) (*entity.Idoso, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, i := range s.idosos {
		if i.ID == id {
			found := s.withChildren(i)
			return &found, nil
		}
	}
	return nil, nil
}

func (r *idosoRepository) FindByTutorID(_ context.Context, tutorID string) ([]entity.Idoso, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	idosos := make([]entity.Idoso, 0)
	for _, i := range s.idosos {
		if i.TutorID == tutorID {
			idosos = append(idosos, s.withChildren(i))
		}
	}
	return idosos, nil
}

func (r *idosoRepository) Update(ctx context.Context, idoso *entity.Idoso) error {
	s := r.store
	defer s.lockWrite(ctx)()

	for i := range s.idosos {
		if s.idosos[i].ID == idoso.ID {
			s.stamp(nil, &idoso.UpdatedAt)
			s.idosos[i] = bareIdoso(*idoso)
			return nil
		}
	}
	return nil
}

// withChildren attaches medications and exams. Callers hold s.mu.
func (s *Store) withChildren(i entity.Idoso) entity.Idoso {
	i.Doencas = cloneStrings(i.Doencas)
	i.Medicacoes = make([]entity.Medicacao, 0)
	for _, m := range s.medicacoes {
		if m.IdosoID == i.ID {
			i.Medicacoes = append(i.Medicacoes, cloneMedicacao(m))
		}
	}
	i.Exames = make([]entity.Exame, 0)
	for _, e := range s.exames {
		if e.IdosoID == i.ID {
			i.Exames = append(i.Exames, e)
		}
	}
	return i
}

func bareIdoso(i entity.Idoso) entity.Idoso {
	i.Doencas = cloneStrings(i.Doencas)
	i.Medicacoes = nil
	i.Exames = nil
	return i
}

func cloneMedicacao(m entity.Medicacao) entity.Medicacao {
	m.Horarios = cloneStrings(m.Horarios)
	return m
}

type medicacaoRepository struct {
	store *Store
}

func NewMedicacaoRepository(s *Store) domainRepo.MedicacaoRepository {
	return &medicacaoRepository{store: s}
}

func (r *medicacaoRepository) Create(ctx context.Context, medicacao *entity.Medicacao) error {
	s := r.store
	defer s.lockWrite(ctx)()

	s.stamp(&medicacao.CreatedAt, &medicacao.UpdatedAt)
	s.medicacoes = append(s.medicacoes, cloneMedicacao(*medicacao))
	return nil
}

func (r *medicacaoRepository) FindByID(_ context.Context, id string) (*entity.Medicacao, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, m := range s.medicacoes {
		if m.ID == id {
			found := cloneMedicacao(m)
			return &found, nil
		}
	}
	return nil, nil
}

func (r *medicacaoRepository) FindByIdosoID(_ context.Context, idosoID string) ([]entity.Medicacao, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	medicacoes := make([]entity.Medicacao, 0)
	for _, m := range s.medicacoes {
		if m.IdosoID == idosoID {
			medicacoes = append(medicacoes, cloneMedicacao(m))
		}
	}
	return medicacoes, nil
}

func (r *medicacaoRepository) Update(ctx context.Context, medicacao *entity.Medicacao) error {
	s := r.store
	defer s.lockWrite(ctx)()

	for i := range s.medicacoes {
		if s.medicacoes[i].ID == medicacao.ID {
			s.stamp(nil, &medicacao.UpdatedAt)
			s.medicacoes[i] = cloneMedicacao(*medicacao)
			return nil
		}
	}
	return nil
}

func (r *medicacaoRepository) Delete(ctx context.Context, id string) error {
	s := r.store
	defer s.lockWrite(ctx)()

	for i := range s.medicacoes {
		if s.medicacoes[i].ID == id {
			s.medicacoes = append(s.medicacoes[:i], s.medicacoes[i+1:]...)
			return nil
		}
	}
	return nil
}

type exameRepository struct {
	store *Store
}

func NewExameRepository(s *Store) domainRepo.ExameRepository {
	return &exameRepository{store: s}
}

func (r *exameRepository) Create(ctx context.Context, exame *entity.Exame) error {
	s := r.store
	defer s.lockWrite(ctx)()

	s.stamp(&exame.CreatedAt, &exame.UpdatedAt)
	s.exames = append(s.exames, *exame)
	return nil
}

func (r *exameRepository) FindByID(_ context.Context, id string) (*entity.Exame, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, e := range s.exames {
		if e.ID == id {
			found := e
			return &found, nil
		}
	}
	return nil, nil
}

func (r *exameRepository) FindByIdosoID(_ context.Context, idosoID string) ([]entity.Exame, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	exames := make([]entity.Exame, 0)
	for _, e := range s.exames {
		if e.IdosoID == idosoID {
			exames = append(exames, e)
		}
	}
	return exames, nil
}

func (r *exameRepository) Update(ctx context.Context, exame *entity.Exame) error {
	s := r.store
	defer s.lockWrite(ctx)()

	for i := range s.exames {
		if s.exames[i].ID == exame.ID {
			s.stamp(nil, &exame.UpdatedAt)
			s.exames[i] = *exame
			return nil
		}
	}
	return nil
}

func (r *exameRepository) Delete(ctx context.Context, id string) error {
	s := r.store
	defer s.lockWrite(ctx)()

	for i := range s.exames {
		if s.exames[i].ID == id {
			s.exames = append(s.exames[:i], s.exames[i+1:]...)
			return nil
		}
	}
	return nil
}
