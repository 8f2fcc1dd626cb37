package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSecurityMonitorThreshold(t *testing.T) {
	m := NewSecurityEventMonitor()
	clock := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return clock }

	for i := 0; i < failedLoginThreshold-1; i++ {
		assert.False(t, m.TrackFailedLogin("10.0.0.1"))
	}
	assert.True(t, m.TrackFailedLogin("10.0.0.1"))
	// Cooldown suppresses repeat alerts
	assert.False(t, m.TrackFailedLogin("10.0.0.1"))
	assert.Len(t, m.RecentAlerts(), 1)

	// Other IPs are tracked separately
	assert.False(t, m.TrackFailedLogin("10.0.0.2"))
}

func TestSecurityMonitorWindowAndReset(t *testing.T) {
	m := NewSecurityEventMonitor()
	clock := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return clock }

	for i := 0; i < failedLoginThreshold-1; i++ {
		m.TrackFailedLogin("10.0.0.1")
	}
	// Old attempts fall out of the window
	clock = clock.Add(failedLoginWindow + time.Minute)
	assert.False(t, m.TrackFailedLogin("10.0.0.1"))

	m.ResetFailedLogins("10.0.0.1")
	clock = clock.Add(2 * failedLoginWindow)
	m.Prune()
	assert.Empty(t, m.failedLogins)
}
