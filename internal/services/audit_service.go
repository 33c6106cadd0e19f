package services

import (
	"context"
	"encoding/json"
	"time"

	"gorm.io/gorm"

	apperrors "rentwise/internal/errors"
	"rentwise/internal/logger"
	"rentwise/internal/models"
)

// auditWriteTimeout bounds an audit insert so a slow database cannot stall
// the request that triggered it.
const auditWriteTimeout = 2 * time.Second

const maxHistoryLimit = 200

// auditService records and reads the realtor activity trail.
type auditService struct {
	db *gorm.DB
}

// NewAuditService creates a new AuditServicer.
func NewAuditService(db *gorm.DB) AuditServicer {
	return &auditService{db: db}
}

// Log records an audit event. Failures are logged and never reach the caller:
// the operation being audited has already been committed.
func (s *auditService) Log(realtorID, action, resourceType, resourceID, ipAddress string, changes map[string]interface{}) {
	entry := &models.AuditLog{
		RealtorID:    realtorID,
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		IPAddress:    ipAddress,
		Changes:      encodeChanges(action, changes),
	}

	ctx, cancel := context.WithTimeout(context.Background(), auditWriteTimeout)
	defer cancel()

	if err := s.db.WithContext(ctx).Create(entry).Error; err != nil {
		logger.Get().Errorw("failed to create audit log entry",
			"error", err,
			"realtor_id", realtorID,
			"action", action,
			"resource_type", resourceType,
			"resource_id", resourceID,
		)
	}
}

// History returns the realtor's audit entries for one resource, newest first.
// limit is clamped to [1, 200].
func (s *auditService) History(ctx context.Context, realtorID, resourceType, resourceID string, limit int) ([]models.AuditLog, error) {
	if limit <= 0 || limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}

	entries := []models.AuditLog{}
	if err := s.db.WithContext(ctx).
		Where("realtor_id = ? AND resource_type = ? AND resource_id = ?", realtorID, resourceType, resourceID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&entries).Error; err != nil {
		return nil, apperrors.Persistence(err)
	}
	return entries, nil
}

func encodeChanges(action string, changes map[string]interface{}) string {
	if len(changes) == 0 {
		return ""
	}
	data, err := json.Marshal(changes)
	if err != nil {
		logger.Get().Errorw("failed to marshal audit log changes", "error", err, "action", action)
		return "{}"
	}
	return string(data)
}
