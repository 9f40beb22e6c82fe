package auth

import (
	"context"
	"math/rand"
	"time"
)

// TimingConfig holds the delay applied to failed logins
type TimingConfig struct {
	BaseDelay   time.Duration
	RandomDelay time.Duration
}

// TimingDelay pads failed login attempts to a common duration so that an
// unknown login and a wrong password cannot be told apart by response time
type TimingDelay struct {
	config TimingConfig
}

// NewTimingDelay creates a new TimingDelay
func NewTimingDelay(config TimingConfig) *TimingDelay {
	return &TimingDelay{config: config}
}

func (td *TimingDelay) target() time.Duration {
	d := td.config.BaseDelay
	if td.config.RandomDelay > 0 {
		d += time.Duration(rand.Int63n(int64(td.config.RandomDelay)))
	}
	return d
}

// WaitFrom blocks until at least the target delay has elapsed since start,
// or ctx is done. A nil TimingDelay does nothing.
func (td *TimingDelay) WaitFrom(ctx context.Context, start time.Time) {
	if td == nil {
		return
	}
	remaining := td.target() - time.Since(start)
	if remaining <= 0 {
		return
	}

	timer := time.NewTimer(remaining)
	defer timer.Stop()

	select {
	case <-timer.C:
	case <-ctx.Done():
	}
}
