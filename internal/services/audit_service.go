package services

import (
	"encoding/json"

	"gorm.io/gorm"

	"spendwatch/internal/logger"
	"spendwatch/internal/models"
)

// auditService records write operations for traceability.
type auditService struct {
	db *gorm.DB
}

// NewAuditService creates a new AuditServicer.
func NewAuditService(db *gorm.DB) AuditServicer {
	return &auditService{db: db}
}

// Log persists an audit entry. Failures are logged and swallowed so auditing
// never breaks the request that triggered it.
func (s *auditService) Log(userID uint, action, resourceType string, resourceID uint, ipAddress string, changes map[string]interface{}) {
	var changesJSON string
	if changes != nil {
		data, err := json.Marshal(changes)
		if err != nil {
			logger.Get().Errorw("Failed to marshal audit changes", "error", err)
		} else {
			changesJSON = string(data)
		}
	}

	entry := &models.AuditLog{
		UserID:       userID,
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		IPAddress:    ipAddress,
		Changes:      changesJSON,
	}

	if err := s.db.Create(entry).Error; err != nil {
		logger.Get().Errorw("Failed to write audit log",
			"user_id", userID,
			"action", action,
			"error", err,
		)
	}
}
