package services

import (
	"testing"
	"time"

	"qbit-secure/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveTimeframe(t *testing.T) {
	for tf, days := range map[string]int{"24h": 1, "7d": 7, "30d": 30, "90d": 90} {
		normalized, start, end := ResolveTimeframe(tf)
		assert.Equal(t, tf, normalized)
		assert.WithinDuration(t, end.AddDate(0, 0, -days), start, time.Second)
	}

	// anything unknown means 7d
	for _, tf := range []string{"", "invalid-value", "1y"} {
		normalized, start, end := ResolveTimeframe(tf)
		assert.Equal(t, "7d", normalized)
		assert.WithinDuration(t, end.AddDate(0, 0, -7), start, time.Second)
	}
}

func TestFormatTrend(t *testing.T) {
	assert.Equal(t, "+10.0%", formatTrend(90, 99, false))
	assert.Equal(t, "-10.0%", formatTrend(100, 90, false))
	assert.Equal(t, "+0.0%", formatTrend(95, 95, false))
	// a zero first value divides by 1 instead of exploding
	assert.Equal(t, "+500.0%", formatTrend(0, 5, true))
}

func TestSeedIfEmpty(t *testing.T) {
	cfg := setupTestDB(t)
	defer cleanupTestDB(t, cfg)

	svc := NewAnalyticsService()

	require.NoError(t, svc.SeedIfEmpty())

	var count int64
	models.DB.Model(&models.AnalyticsDataPoint{}).Count(&count)
	assert.Equal(t, int64(90), count)

	// bounded value ranges
	var points []models.AnalyticsDataPoint
	require.NoError(t, models.DB.Order("date asc").Find(&points).Error)
	for _, p := range points {
		assert.GreaterOrEqual(t, p.SecurityScore, 90)
		assert.LessOrEqual(t, p.SecurityScore, 99)
		assert.GreaterOrEqual(t, p.EncryptionStrength, 95)
		assert.LessOrEqual(t, p.EncryptionStrength, 99)
		assert.GreaterOrEqual(t, p.ThreatIndex, 0)
		assert.LessOrEqual(t, p.ThreatIndex, 9)
	}

	// seeding is a one-time bootstrap, not a per-request side effect
	require.NoError(t, svc.SeedIfEmpty())
	models.DB.Model(&models.AnalyticsDataPoint{}).Count(&count)
	assert.Equal(t, int64(90), count)
}

func TestSummary(t *testing.T) {
	cfg := setupTestDB(t)
	defer cleanupTestDB(t, cfg)

	svc := NewAnalyticsService()

	summary, err := svc.Summary("7d")
	require.NoError(t, err)

	assert.Equal(t, "7d", summary.Timeframe)
	assert.NotEmpty(t, summary.ChartData)
	// 7 day window over daily rows, plus the boundary day
	assert.LessOrEqual(t, len(summary.ChartData), 8)
	assert.Regexp(t, `^[+-]\d+\.\d%$`, summary.SecurityScoreTrend)
	assert.Regexp(t, `^[+-]\d+\.\d%$`, summary.EncryptionStrengthTrend)
	assert.Regexp(t, `^[+-]\d+\.\d%$`, summary.ThreatIndexTrend)

	latest := summary.ChartData[len(summary.ChartData)-1]
	assert.Equal(t, latest.SecurityScore, summary.SecurityScore)
	assert.Equal(t, latest.ThreatIndex, summary.ThreatIndex)
}

func TestSummaryUnknownTimeframeBehavesAs7d(t *testing.T) {
	cfg := setupTestDB(t)
	defer cleanupTestDB(t, cfg)

	svc := NewAnalyticsService()

	known, err := svc.Summary("7d")
	require.NoError(t, err)
	unknown, err := svc.Summary("invalid-value")
	require.NoError(t, err)

	assert.Equal(t, "7d", unknown.Timeframe)
	assert.Equal(t, len(known.ChartData), len(unknown.ChartData))
	assert.Equal(t, known.SecurityScore, unknown.SecurityScore)
}

func TestSummaryEmptyWindow(t *testing.T) {
	cfg := setupTestDB(t)
	defer cleanupTestDB(t, cfg)

	svc := NewAnalyticsService()

	// table is non-empty so no seeding happens, but nothing lands in 24h
	stale := models.AnalyticsDataPoint{
		Date:          time.Now().AddDate(0, 0, -200),
		SecurityScore: 95,
	}
	require.NoError(t, models.DB.Create(&stale).Error)

	summary, err := svc.Summary("24h")
	require.NoError(t, err)

	assert.Equal(t, "24h", summary.Timeframe)
	assert.NotEmpty(t, summary.Message)
	assert.Zero(t, summary.SecurityScore)
	assert.Equal(t, "+0.0%", summary.SecurityScoreTrend)
	assert.Empty(t, summary.ChartData)
	assert.Empty(t, summary.Logs)
}

func TestSummaryIncludesWindowedLogs(t *testing.T) {
	cfg := setupTestDB(t)
	defer cleanupTestDB(t, cfg)

	svc := NewAnalyticsService()
	audit := NewSecurityLogService()

	audit.Append(nil, models.EventSecurity, "recent event", models.SeverityInfo, "", nil)

	old := models.SecurityLog{
		EventType:   models.EventSystem,
		Description: "ancient event",
		Severity:    models.SeverityInfo,
		Timestamp:   time.Now().AddDate(0, 0, -60),
	}
	require.NoError(t, models.DB.Create(&old).Error)

	summary, err := svc.Summary("7d")
	require.NoError(t, err)

	require.Len(t, summary.Logs, 1)
	assert.Equal(t, "recent event", summary.Logs[0].Description)
	assert.Regexp(t, `^\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}$`, summary.Logs[0].Timestamp)
}
