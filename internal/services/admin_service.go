package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/BradenHooton/bookshare/internal/models"
	pkglogger "github.com/BradenHooton/bookshare/pkg/logger"
)

// AdminService manages user accounts on behalf of administrators.
type AdminService struct {
	repo        UserRepository
	logger      *slog.Logger
	auditLogger *pkglogger.AuditLogger
}

// NewAdminService creates a new AdminService.
func NewAdminService(repo UserRepository, logger *slog.Logger, auditLogger *pkglogger.AuditLogger) *AdminService {
	return &AdminService{
		repo:        repo,
		logger:      logger,
		auditLogger: auditLogger,
	}
}

// ListUsers returns every account except the caller's, with card counts.
func (s *AdminService) ListUsers(ctx context.Context, actor models.CardActor) ([]*models.UserWithCardCount, error) {
	if !actor.Admin {
		return nil, models.ErrForbidden
	}
	users, err := s.repo.ListWithCardCounts(ctx, actor.UserID)
	if err != nil {
		s.logger.Error("failed to list users", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}
	return users, nil
}

// Ban blocks a regular user. Administrators cannot be banned.
func (s *AdminService) Ban(ctx context.Context, actor models.CardActor, userID string) (*models.User, error) {
	return s.setStatus(ctx, actor, userID, models.UserStatusBanned, "user_banned")
}

// Unban restores a banned user.
func (s *AdminService) Unban(ctx context.Context, actor models.CardActor, userID string) (*models.User, error) {
	return s.setStatus(ctx, actor, userID, models.UserStatusActive, "user_unbanned")
}

func (s *AdminService) setStatus(ctx context.Context, actor models.CardActor, userID, status, event string) (*models.User, error) {
	if !actor.Admin {
		return nil, models.ErrForbidden
	}

	target, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrNotFound
		}
		s.logger.Error("failed to get user", slog.String("user_id", userID), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	if target.IsAdmin() {
		return nil, models.ErrForbidden
	}

	if target.Status == status {
		return target, nil
	}

	updated, err := s.repo.SetStatus(ctx, userID, status)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrNotFound
		}
		s.logger.Error("failed to update user status", slog.String("user_id", userID), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	s.logger.Info("user status changed",
		slog.String("user_id", userID),
		slog.String("status", status),
		slog.String("actor_id", actor.UserID))
	s.auditLogger.LogAccountAction(ctx, event, userID, actor.UserID)

	return updated, nil
}
