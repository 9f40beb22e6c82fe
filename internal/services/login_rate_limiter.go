package services

import (
	"sync"
	"time"

	"github.com/BradenHooton/bookshare/internal/models"
)

// Default login throttling values
const (
	DefaultLoginMaxAttempts   = 5
	DefaultLoginWindow        = 15 * time.Minute
	DefaultLoginBlockDuration = 30 * time.Minute
)

// Clock is the time source of the limiter
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

// LoginRateLimitConfig holds configuration for login throttling
type LoginRateLimitConfig struct {
	MaxAttempts   int
	Window        time.Duration
	BlockDuration time.Duration
}

func (c LoginRateLimitConfig) withDefaults() LoginRateLimitConfig {
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = DefaultLoginMaxAttempts
	}
	if c.Window <= 0 {
		c.Window = DefaultLoginWindow
	}
	if c.BlockDuration <= 0 {
		c.BlockDuration = DefaultLoginBlockDuration
	}
	return c
}

// LoginRateLimiter counts login attempts per login:ip key in memory and
// blocks a key for BlockDuration once it reaches MaxAttempts within Window.
// State is process-local and lost on restart.
type LoginRateLimiter struct {
	mu      sync.Mutex
	records map[string]*models.LoginAttemptRecord
	config  LoginRateLimitConfig
	clock   Clock
}

// NewLoginRateLimiter creates a limiter. A nil clock uses the wall clock.
func NewLoginRateLimiter(config LoginRateLimitConfig, clock Clock) *LoginRateLimiter {
	if clock == nil {
		clock = realClock{}
	}
	return &LoginRateLimiter{
		records: make(map[string]*models.LoginAttemptRecord),
		config:  config.withDefaults(),
		clock:   clock,
	}
}

// Config returns the effective configuration
func (l *LoginRateLimiter) Config() LoginRateLimitConfig {
	return l.config
}

// Attempt registers a login attempt for key and reports whether it is blocked
func (l *LoginRateLimiter) Attempt(key string) models.AttemptResult {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.clock.Now()

	rec, ok := l.records[key]
	if !ok {
		rec = &models.LoginAttemptRecord{LastAttempt: now}
		l.records[key] = rec
	}

	if rec.Blocked {
		if !now.Before(rec.BlockUntil) {
			// The block has run out. This call lifts it and is not counted.
			delete(l.records, key)
			return models.AttemptResult{AttemptsLeft: l.config.MaxAttempts - 1}
		}
		until := rec.BlockUntil
		return models.AttemptResult{Blocked: true, BlockUntil: &until}
	}

	if now.Sub(rec.LastAttempt) > l.config.Window {
		rec.Count = 0
	}

	rec.Count++
	rec.LastAttempt = now

	if rec.Count >= l.config.MaxAttempts {
		rec.Blocked = true
		rec.BlockUntil = now.Add(l.config.BlockDuration)
		until := rec.BlockUntil
		return models.AttemptResult{Blocked: true, BlockUntil: &until}
	}

	return models.AttemptResult{AttemptsLeft: l.config.MaxAttempts - rec.Count}
}

// Reset forgets every attempt recorded for key
func (l *LoginRateLimiter) Reset(key string) {
	l.mu.Lock()
	delete(l.records, key)
	l.mu.Unlock()
}

// Cleanup drops expired blocks and records idle for longer than Window.
// It returns the number of records removed.
func (l *LoginRateLimiter) Cleanup() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.clock.Now()
	removed := 0
	for key, rec := range l.records {
		expired := rec.Blocked && !now.Before(rec.BlockUntil)
		idle := !rec.Blocked && now.Sub(rec.LastAttempt) > l.config.Window
		if expired || idle {
			delete(l.records, key)
			removed++
		}
	}
	return removed
}

// Len returns the number of tracked keys
func (l *LoginRateLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.records)
}
