package services

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

const (
	failedLoginWindow    = 10 * time.Minute
	failedLoginThreshold = 5
	alertCooldown        = time.Hour
)

// SecurityAlert represents a triggered security alert
type SecurityAlert struct {
	Timestamp time.Time `json:"timestamp"`
	IP        string    `json:"ip"`
	Reason    string    `json:"reason"`
}

// SecurityEventMonitor counts failed logins per IP and raises an alert when an IP
// crosses the threshold inside the window
type SecurityEventMonitor struct {
	mu           sync.Mutex
	now          func() time.Time
	failedLogins map[string][]time.Time
	alertedIPs   map[string]time.Time
	alerts       []SecurityAlert
}

// NewSecurityEventMonitor creates an empty monitor
func NewSecurityEventMonitor() *SecurityEventMonitor {
	return &SecurityEventMonitor{
		now:          time.Now,
		failedLogins: make(map[string][]time.Time),
		alertedIPs:   make(map[string]time.Time),
	}
}

// TrackFailedLogin records a failed login and reports whether it raised an alert
func (m *SecurityEventMonitor) TrackFailedLogin(ip string) bool {
	failedLoginsTotal.Inc()

	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	windowStart := now.Add(-failedLoginWindow)
	attempts := m.failedLogins[ip][:0]
	for _, t := range m.failedLogins[ip] {
		if t.After(windowStart) {
			attempts = append(attempts, t)
		}
	}
	attempts = append(attempts, now)
	m.failedLogins[ip] = attempts

	if len(attempts) < failedLoginThreshold {
		return false
	}
	if last, ok := m.alertedIPs[ip]; ok && now.Sub(last) < alertCooldown {
		return false
	}

	m.alertedIPs[ip] = now
	m.alerts = append([]SecurityAlert{{Timestamp: now, IP: ip, Reason: "multiple failed logins"}}, m.alerts...)
	if len(m.alerts) > 100 {
		m.alerts = m.alerts[:100]
	}
	LogSecurityEvent("LOGIN_BRUTE_FORCE", "", "multiple failed logins from "+ip)
	return true
}

// ResetFailedLogins forgets the failures of an IP after a successful login
func (m *SecurityEventMonitor) ResetFailedLogins(ip string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.failedLogins, ip)
}

// RecentAlerts returns a copy of the alerts, newest first
func (m *SecurityEventMonitor) RecentAlerts() []SecurityAlert {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]SecurityAlert, len(m.alerts))
	copy(out, m.alerts)
	return out
}

// Prune drops attempts and alert cooldowns that can no longer matter
func (m *SecurityEventMonitor) Prune() {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	for ip, attempts := range m.failedLogins {
		if len(attempts) == 0 || now.Sub(attempts[len(attempts)-1]) > failedLoginWindow {
			delete(m.failedLogins, ip)
		}
	}
	for ip, last := range m.alertedIPs {
		if now.Sub(last) > alertCooldown {
			delete(m.alertedIPs, ip)
		}
	}
	zap.L().Debug("security monitor pruned", zap.Int("tracked_ips", len(m.failedLogins)))
}
