package services

import (
	"log"
	"os"
	"strings"
	"time"

	"qbit-secure/internal/models"

	"gorm.io/datatypes"
)

// securityLogger mirrors audit rows to stdout so operators can follow the
// audit trail without a DB session.
var securityLogger = log.New(os.Stdout, "[SECURITY] ", log.LstdFlags|log.Lmsgprefix)

type SecurityLogService struct{}

func NewSecurityLogService() *SecurityLogService {
	return &SecurityLogService{}
}

// sanitizeLogValue strips newlines and truncates long values to keep the
// stdout mirror parseable and prevent log injection.
func sanitizeLogValue(value string) string {
	value = strings.ReplaceAll(value, "\n", " ")
	value = strings.ReplaceAll(value, "\r", " ")
	value = strings.ReplaceAll(value, "\t", " ")
	if len(value) > 200 {
		value = value[:200] + "..."
	}
	return value
}

// Append writes one audit event. userID may be nil for system-wide events.
// A failed DB write is logged but never propagated: audit logging must not
// turn a successful operation into a failed one.
func (s *SecurityLogService) Append(userID *uint, eventType, description, severity, ipAddress string, metadata map[string]interface{}) {
	entry := &models.SecurityLog{
		UserID:      userID,
		EventType:   eventType,
		Description: description,
		Severity:    severity,
		IPAddress:   ipAddress,
		Timestamp:   time.Now(),
	}
	if metadata != nil {
		entry.Metadata = datatypes.JSONMap(metadata)
	}

	if err := models.DB.Create(entry).Error; err != nil {
		securityLogger.Printf("failed to persist event: %v", err)
	}

	securityLogger.Printf("Event=%s Severity=%s IP=%s Message=%s",
		sanitizeLogValue(eventType),
		sanitizeLogValue(severity),
		sanitizeLogValue(ipAddress),
		sanitizeLogValue(description),
	)
}

// RecentInWindow returns up to limit logs with timestamps inside
// [start, end], newest first.
func (s *SecurityLogService) RecentInWindow(start, end time.Time, limit int) ([]models.SecurityLog, error) {
	var logs []models.SecurityLog
	err := models.DB.
		Where("timestamp >= ? AND timestamp <= ?", start, end).
		Order("timestamp desc").
		Limit(limit).
		Find(&logs).Error
	if err != nil {
		return nil, err
	}
	return logs, nil
}

// RecentForUser returns the newest events scoped to the user or system-wide.
func (s *SecurityLogService) RecentForUser(userID uint, limit int) ([]models.SecurityLog, error) {
	var logs []models.SecurityLog
	err := models.DB.
		Where("user_id = ? OR user_id IS NULL", userID).
		Order("timestamp desc").
		Limit(limit).
		Find(&logs).Error
	if err != nil {
		return nil, err
	}
	return logs, nil
}
