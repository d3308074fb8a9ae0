// Classroom - Course, Assessment and Cohort Management
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/classroom

package auth

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/tomtom215/classroom/internal/logging"
)

// ErrAccountLocked is returned by the login handler while a username is locked.
var ErrAccountLocked = errors.New("account temporarily locked due to too many failed attempts")

// LockoutConfig controls failed-login lockout for the admin account.
type LockoutConfig struct {
	// MaxAttempts is the number of failed attempts before lockout.
	MaxAttempts int

	// LockoutDuration is the base lockout period. It doubles on every
	// subsequent lockout up to MaxLockoutDuration.
	LockoutDuration    time.Duration
	MaxLockoutDuration time.Duration

	// CleanupInterval is how often Serve drops stale entries.
	CleanupInterval time.Duration
}

// DefaultLockoutConfig returns the production lockout settings.
func DefaultLockoutConfig() LockoutConfig {
	return LockoutConfig{
		MaxAttempts:        5,
		LockoutDuration:    15 * time.Minute,
		MaxLockoutDuration: 24 * time.Hour,
		CleanupInterval:    5 * time.Minute,
	}
}

type lockoutEntry struct {
	failedAttempts int
	lockoutCount   int
	lastAttempt    time.Time
	lockedUntil    time.Time
}

// LockoutManager tracks failed logins per username in memory. Entries are
// lost on restart, which only shortens an active lockout.
type LockoutManager struct {
	cfg     LockoutConfig
	now     func() time.Time
	mu      sync.Mutex
	entries map[string]*lockoutEntry
}

// NewLockoutManager creates a manager with cfg.
func NewLockoutManager(cfg LockoutConfig) *LockoutManager {
	return &LockoutManager{
		cfg:     cfg,
		now:     time.Now,
		entries: make(map[string]*lockoutEntry),
	}
}

// CheckLocked reports whether subject is locked and for how much longer.
func (m *LockoutManager) CheckLocked(subject string) (bool, time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.entries[subject]
	if !ok {
		return false, 0
	}
	now := m.now()
	if now.Before(entry.lockedUntil) {
		return true, entry.lockedUntil.Sub(now)
	}
	return false, 0
}

// RecordFailedAttempt counts a failure and locks subject once MaxAttempts is
// reached.
func (m *LockoutManager) RecordFailedAttempt(subject string) (locked bool, remaining time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	entry, ok := m.entries[subject]
	if !ok {
		entry = &lockoutEntry{}
		m.entries[subject] = entry
	}
	if now.Before(entry.lockedUntil) {
		return true, entry.lockedUntil.Sub(now)
	}

	entry.failedAttempts++
	entry.lastAttempt = now
	if entry.failedAttempts < m.cfg.MaxAttempts {
		return false, 0
	}

	duration := m.lockoutDuration(entry.lockoutCount)
	entry.lockedUntil = now.Add(duration)
	entry.lockoutCount++
	entry.failedAttempts = 0

	logging.Warn().
		Str("subject", subject).
		Dur("duration", duration).
		Int("lockout_count", entry.lockoutCount).
		Msg("Account locked")

	return true, duration
}

// lockoutDuration doubles the base period per previous lockout.
func (m *LockoutManager) lockoutDuration(lockoutCount int) time.Duration {
	duration := m.cfg.LockoutDuration
	for i := 0; i < lockoutCount && duration < m.cfg.MaxLockoutDuration; i++ {
		duration *= 2
	}
	if m.cfg.MaxLockoutDuration > 0 && duration > m.cfg.MaxLockoutDuration {
		return m.cfg.MaxLockoutDuration
	}
	return duration
}

// RecordSuccessfulLogin clears subject's history.
func (m *LockoutManager) RecordSuccessfulLogin(subject string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, subject)
}

// cleanup drops entries that are unlocked and idle for a day.
func (m *LockoutManager) cleanup() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	threshold := now.Add(-24 * time.Hour)
	count := 0
	for subject, entry := range m.entries {
		if !now.Before(entry.lockedUntil) && entry.lastAttempt.Before(threshold) {
			delete(m.entries, subject)
			count++
		}
	}
	return count
}

// Serve runs periodic cleanup until ctx is cancelled. It implements
// suture.Service.
func (m *LockoutManager) Serve(ctx context.Context) error {
	interval := m.cfg.CleanupInterval
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if n := m.cleanup(); n > 0 {
				logging.Info().Int("count", n).Msg("Cleaned up expired lockout entries")
			}
		}
	}
}

// String implements fmt.Stringer for supervisor logging.
func (m *LockoutManager) String() string {
	return "login-lockout"
}
