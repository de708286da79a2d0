package service

import (
	"context"

	"tutor-portal/internal/domain/entity"
	"tutor-portal/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// AuditService records the tutor's activity trail. Entries written with a
// transactional ctx commit or roll back with the surrounding change.
type AuditService interface {
	LogCreate(ctx context.Context, userID string, action string, entityName string, entityID string, newValue interface{}) error
	LogUpdate(ctx context.Context, userID string, action string, entityName string, entityID string, oldValue, newValue interface{}) error
	LogDelete(ctx context.Context, userID string, action string, entityName string, entityID string, oldValue interface{}) error
	LogAction(ctx context.Context, userID string, action string, metadata entity.JSON) error
	ListByUser(ctx context.Context, userID string, limit int) ([]entity.AuditLog, error)
}

type auditService struct {
	log       *logrus.Logger
	auditRepo repository.AuditLogRepository
}

func NewAuditService(log *logrus.Logger, auditRepo repository.AuditLogRepository) AuditService {
	return &auditService{
		log:       log,
		auditRepo: auditRepo,
	}
}

// LogCreate logs a create action
func (s *auditService) LogCreate(ctx context.Context, userID string, action string, entityName string, entityID string, newValue interface{}) error {
	return s.write(ctx, userID, action, entity.JSON{
		"entity":    entityName,
		"entity_id": entityID,
		"old_value": nil,
		"new_value": newValue,
	})
}

// LogUpdate logs an update action with old and new values
func (s *auditService) LogUpdate(ctx context.Context, userID string, action string, entityName string, entityID string, oldValue, newValue interface{}) error {
	return s.write(ctx, userID, action, entity.JSON{
		"entity":    entityName,
		"entity_id": entityID,
		"old_value": oldValue,
		"new_value": newValue,
	})
}

// LogDelete logs a delete action with old value
func (s *auditService) LogDelete(ctx context.Context, userID string, action string, entityName string, entityID string, oldValue interface{}) error {
	return s.write(ctx, userID, action, entity.JSON{
		"entity":    entityName,
		"entity_id": entityID,
		"old_value": oldValue,
		"new_value": nil,
	})
}

func (s *auditService) LogAction(ctx context.Context, userID string, action string, metadata entity.JSON) error {
	return s.write(ctx, userID, action, metadata)
}

func (s *auditService) ListByUser(ctx context.Context, userID string, limit int) ([]entity.AuditLog, error) {
	return s.auditRepo.FindByUserID(ctx, userID, limit)
}

func (s *auditService) write(ctx context.Context, userID string, action string, metadata entity.JSON) error {
	auditLog := &entity.AuditLog{
		ID:       uuid.NewString(),
		Action:   action,
		Metadata: metadata,
	}
	if userID != "" {
		auditLog.UserID = &userID
	}

	if err := s.auditRepo.Create(ctx, auditLog); err != nil {
		s.log.Warnf("Failed to create audit log: %+v", err)
		return err
	}

	return nil
}
