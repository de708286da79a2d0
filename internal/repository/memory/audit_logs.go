package memory

import (
	"context"

	"tutor-portal/internal/domain/entity"
	domainRepo "tutor-portal/internal/domain/repository"
)

type auditLogRepository struct {
	store *Store
}

func NewAuditLogRepository(s *Store) domainRepo.AuditLogRepository {
	return &auditLogRepository{store: s}
}

func (r *auditLogRepository) Create(ctx context.Context, log *entity.AuditLog) error {
	s := r.store
	defer s.lockWrite(ctx)()

	s.stamp(&log.CreatedAt, nil)
	s.auditLogs = append(s.auditLogs, *log)
	return nil
}

func (r *auditLogRepository) FindByUserID(_ context.Context, userID string, limit int) ([]entity.AuditLog, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	logs := make([]entity.AuditLog, 0)
	for i := len(s.auditLogs) - 1; i >= 0; i-- {
		l := s.auditLogs[i]
		if l.UserID == nil || *l.UserID != userID {
			continue
		}
		logs = append(logs, l)
		if limit > 0 && len(logs) == limit {
			break
		}
	}
	return logs, nil
}
