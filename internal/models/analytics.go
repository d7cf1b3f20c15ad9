package models

import (
	"time"

	"gorm.io/datatypes"
)

// AnalyticsDataPoint holds one day of aggregated metrics. Date carries a
// unique index so the lazy seed stays idempotent under concurrent requests.
type AnalyticsDataPoint struct {
	ID                 uint              `json:"id" gorm:"primaryKey"`
	Date               time.Time         `json:"date" gorm:"uniqueIndex;not null"`
	SecurityScore      int               `json:"security_score"`
	EncryptionStrength int               `json:"encryption_strength"`
	ThreatIndex        int               `json:"threat_index"`
	KeyExchanges       int               `json:"key_exchanges"`
	ActiveConnections  int               `json:"active_connections"`
	DataTransferred    int               `json:"data_transferred"` // MB
	Metadata           datatypes.JSONMap `json:"metadata,omitempty"`
}

type DashboardMetric struct {
	ID                   uint      `json:"id" gorm:"primaryKey"`
	NetworkStatus        string    `json:"network_status" gorm:"type:varchar(20)"`
	ActiveConnections    int       `json:"active_connections"`
	DataTransferred      int       `json:"data_transferred"` // MB
	LastKeyExchange      time.Time `json:"last_key_exchange"`
	EncryptionMethod     string    `json:"encryption_method" gorm:"type:varchar(100)"`
	KeyLength            int       `json:"key_length"`
	KeyRefreshRate       int       `json:"key_refresh_rate"` // seconds
	EncryptionStrength   int       `json:"encryption_strength"`
	ConnectivityScore    int       `json:"connectivity_score"`
	LatencyMs            int       `json:"latency_ms"`
	PacketLoss           float64   `json:"packet_loss"`
	ThreatDetectionScore int       `json:"threat_detection_score"`
	Timestamp            time.Time `json:"timestamp" gorm:"index;autoCreateTime"`
}

type Simulation struct {
	ID            uint              `json:"id" gorm:"primaryKey"`
	UserID        uint              `json:"user_id" gorm:"index"`
	Protocol      string            `json:"protocol" gorm:"type:varchar(20);not null"`
	NumQubits     int               `json:"num_qubits"`
	KeyGenerated  string            `json:"key_generated" gorm:"type:text"`
	Entropy       float64           `json:"entropy"`
	QBER          *float64          `json:"qber"` // only BB84 reports a QBER
	ExecutionTime float64           `json:"execution_time"`
	Parameters    datatypes.JSONMap `json:"parameters,omitempty"`
	CreatedAt     time.Time         `json:"created_at"`
}

type QuantumKey struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"index"`
	KeyData   string    `json:"key_data" gorm:"type:text;not null"`
	Protocol  string    `json:"protocol" gorm:"type:varchar(20);not null"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}
