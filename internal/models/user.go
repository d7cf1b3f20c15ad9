package models

import (
	"time"

	"gorm.io/datatypes"
)

type User struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Name         string    `json:"name" gorm:"type:varchar(255);not null"`
	Email        string    `json:"email" gorm:"type:varchar(255);uniqueIndex;not null"`
	PasswordHash string    `json:"-" gorm:"type:varchar(255);not null"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type Session struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"not null;index"`
	Token     string    `json:"token" gorm:"type:varchar(500);uniqueIndex;not null"`
	ExpiresAt time.Time `json:"expires_at" gorm:"not null;index"`
	CreatedAt time.Time `json:"created_at"`
	User      User      `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

// SecurityLog event types.
const (
	EventAuthentication = "Authentication"
	EventSecurity       = "Security"
	EventSimulation     = "Simulation"
	EventSystem         = "System"
)

// SecurityLog severities.
const (
	SeverityInfo    = "Info"
	SeverityNotice  = "Notice"
	SeverityWarning = "Warning"
	SeverityAlert   = "Alert"
)

// SecurityLog is an append-only audit record. A nil UserID marks a
// system-wide event visible to every authenticated user.
type SecurityLog struct {
	ID          uint              `json:"id" gorm:"primaryKey"`
	UserID      *uint             `json:"user_id" gorm:"index"`
	EventType   string            `json:"event_type" gorm:"type:varchar(50);not null"`
	Description string            `json:"description" gorm:"type:text;not null"`
	Severity    string            `json:"severity" gorm:"type:varchar(20);not null;default:'Info'"`
	IPAddress   string            `json:"ip_address" gorm:"type:varchar(45)"`
	Metadata    datatypes.JSONMap `json:"metadata,omitempty"`
	Timestamp   time.Time         `json:"timestamp" gorm:"index;autoCreateTime"`
}
