package models

import "time"

// LoginAttemptRecord tracks failed logins for a single login:ip key.
// BlockUntil is meaningful only while Blocked is set.
type LoginAttemptRecord struct {
	Count       int
	LastAttempt time.Time
	Blocked     bool
	BlockUntil  time.Time
}

// AttemptResult is what the login limiter reports for one attempt.
type AttemptResult struct {
	Blocked      bool
	AttemptsLeft int
	BlockUntil   *time.Time
}
