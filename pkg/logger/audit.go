package logger

import (
	"context"
	"log/slog"
	"time"
)

// AuditEvent represents a security audit event
type AuditEvent struct {
	EventType     string
	UserID        string
	Login         string
	IPAddress     string
	Success       bool
	FailureReason string
	AttemptsLeft  *int
}

// ModerationEvent records an admin or owner acting on a card
type ModerationEvent struct {
	Action     string
	CardID     string
	ActorID    string
	OwnerID    string
	FromStatus string
	ToStatus   string
	Reason     string
}

// AuditLogger writes audit records through slog
type AuditLogger struct {
	logger *slog.Logger
	env    string
}

// NewAuditLogger creates a new audit logger. In production the attempted
// login name is redacted.
func NewAuditLogger(logger *slog.Logger, env string) *AuditLogger {
	return &AuditLogger{
		logger: logger,
		env:    env,
	}
}

func (al *AuditLogger) base(auditType, eventType string) []slog.Attr {
	return []slog.Attr{
		slog.String("audit_type", auditType),
		slog.String("event_type", eventType),
		slog.String("timestamp", time.Now().UTC().Format(time.RFC3339)),
	}
}

// LogAuthAttempt logs authentication attempts
func (al *AuditLogger) LogAuthAttempt(ctx context.Context, event AuditEvent) {
	attrs := append(al.base("auth", event.EventType), slog.Bool("success", event.Success))

	if event.UserID != "" {
		attrs = append(attrs, slog.String("user_id", event.UserID))
	}
	if event.Login != "" {
		attrs = append(attrs, RedactedAttr("login", event.Login, al.env))
	}
	if event.IPAddress != "" {
		attrs = append(attrs, slog.String("ip_address", event.IPAddress))
	}
	if event.FailureReason != "" {
		attrs = append(attrs, slog.String("failure_reason", event.FailureReason))
	}
	if event.AttemptsLeft != nil {
		attrs = append(attrs, slog.Int("attempts_left", *event.AttemptsLeft))
	}

	level := slog.LevelInfo
	if !event.Success {
		level = slog.LevelWarn
	}
	al.logger.LogAttrs(ctx, level, "audit", attrs...)
}

// LogAccountAction logs general account actions
func (al *AuditLogger) LogAccountAction(ctx context.Context, eventType, userID, actorID string) {
	attrs := append(al.base("account", eventType), slog.String("user_id", userID))
	if actorID != "" && actorID != userID {
		attrs = append(attrs, slog.String("actor_id", actorID))
	}
	al.logger.LogAttrs(ctx, slog.LevelInfo, "audit", attrs...)
}

// LogModeration logs card status changes
func (al *AuditLogger) LogModeration(ctx context.Context, event ModerationEvent) {
	attrs := append(al.base("moderation", event.Action),
		slog.String("card_id", event.CardID),
		slog.String("actor_id", event.ActorID),
		slog.String("from_status", event.FromStatus),
		slog.String("to_status", event.ToStatus),
	)
	if event.OwnerID != "" {
		attrs = append(attrs, slog.String("owner_id", event.OwnerID))
	}
	if event.Reason != "" {
		attrs = append(attrs, slog.String("reason", event.Reason))
	}
	al.logger.LogAttrs(ctx, slog.LevelInfo, "audit", attrs...)
}
