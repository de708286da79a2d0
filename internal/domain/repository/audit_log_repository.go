package repository

import (
	"context"

	"tutor-portal/internal/domain/entity"
)

type AuditLogRepository interface {
	Create(ctx context.Context, log *entity.AuditLog) error
	// FindByUserID returns the user's entries newest first, at most limit when limit > 0.
	FindByUserID(ctx context.Context, userID string, limit int) ([]entity.AuditLog, error)
}
