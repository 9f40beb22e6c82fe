package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/BradenHooton/bookshare/internal/auth"
	"github.com/BradenHooton/bookshare/internal/models"
	pkgauth "github.com/BradenHooton/bookshare/pkg/auth"
	pkglogger "github.com/BradenHooton/bookshare/pkg/logger"
)

// UserRepository defines the user store used by the services
type UserRepository interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByLogin(ctx context.Context, login string) (*models.User, error)
	Create(ctx context.Context, user *models.User) (*models.User, error)
	SetStatus(ctx context.Context, id, status string) (*models.User, error)
	ListWithCardCounts(ctx context.Context, excludeID string) ([]*models.UserWithCardCount, error)
}

// LoginLimiter throttles login attempts per login:ip key
type LoginLimiter interface {
	Attempt(key string) models.AttemptResult
	Reset(key string)
}

// AuthService handles authentication business logic
type AuthService struct {
	repo        UserRepository
	limiter     LoginLimiter
	tm          *auth.TokenManager
	timing      *auth.TimingDelay
	bcryptCost  int
	logger      *slog.Logger
	auditLogger *pkglogger.AuditLogger
}

// AuthServiceConfig carries the optional knobs of AuthService
type AuthServiceConfig struct {
	BcryptCost int
	Timing     *auth.TimingDelay
}

// NewAuthService creates a new AuthService
func NewAuthService(repo UserRepository, limiter LoginLimiter, tm *auth.TokenManager, cfg AuthServiceConfig, logger *slog.Logger, auditLogger *pkglogger.AuditLogger) *AuthService {
	if cfg.BcryptCost == 0 {
		cfg.BcryptCost = pkgauth.BcryptCost
	}
	return &AuthService{
		repo:        repo,
		limiter:     limiter,
		tm:          tm,
		timing:      cfg.Timing,
		bcryptCost:  cfg.BcryptCost,
		logger:      logger,
		auditLogger: auditLogger,
	}
}

// AuthResult is returned by Login and Register
type AuthResult struct {
	Token string
	User  *models.User
}

// RegisterInput carries validated registration fields
type RegisterInput struct {
	Login    string
	Password string
	FullName string
	Phone    string
	Email    string
}

// LoginKey builds the limiter key for a login name and client address
func LoginKey(login, clientIP string) string {
	return login + ":" + clientIP
}

// Login checks credentials for login coming from clientIP. Every call counts
// against the login:ip key before the credentials are looked at; a
// successful login or a banned account clears the key.
func (s *AuthService) Login(ctx context.Context, login, password, clientIP string) (*AuthResult, error) {
	start := time.Now()
	login = strings.TrimSpace(login)
	key := LoginKey(login, clientIP)

	attempt := s.limiter.Attempt(key)
	if attempt.Blocked {
		s.auditLogger.LogAuthAttempt(ctx, pkglogger.AuditEvent{
			EventType:     "login_blocked",
			Login:         login,
			IPAddress:     clientIP,
			FailureReason: "too_many_attempts",
		})
		return nil, &models.LoginThrottledError{BlockUntil: *attempt.BlockUntil}
	}

	invalid := func(userID string) error {
		s.timing.WaitFrom(ctx, start)
		left := attempt.AttemptsLeft
		s.auditLogger.LogAuthAttempt(ctx, pkglogger.AuditEvent{
			EventType:     "login_failed",
			UserID:        userID,
			Login:         login,
			IPAddress:     clientIP,
			FailureReason: "invalid_credentials",
			AttemptsLeft:  &left,
		})
		return &models.InvalidCredentialsError{AttemptsLeft: left}
	}

	user, err := s.repo.GetByLogin(ctx, login)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, invalid("")
		}
		s.logger.Error("failed to get user by login", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	if user.IsBanned() {
		s.limiter.Reset(key)
		s.auditLogger.LogAuthAttempt(ctx, pkglogger.AuditEvent{
			EventType:     "login_failed",
			UserID:        user.ID,
			IPAddress:     clientIP,
			FailureReason: "account_banned",
		})
		return nil, models.ErrAccountBanned
	}

	if err := pkgauth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, invalid(user.ID)
	}

	s.limiter.Reset(key)

	token, err := s.tm.GenerateToken(user)
	if err != nil {
		s.logger.Error("failed to generate token", slog.String("user_id", user.ID), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	s.logger.Info("user logged in", slog.String("user_id", user.ID))
	s.auditLogger.LogAuthAttempt(ctx, pkglogger.AuditEvent{
		EventType: "login_success",
		UserID:    user.ID,
		IPAddress: clientIP,
		Success:   true,
	})

	return &AuthResult{Token: token, User: user}, nil
}

// Register creates an active, non-admin account and signs it in
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	in.Login = strings.TrimSpace(in.Login)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.FullName = strings.TrimSpace(in.FullName)

	if err := pkgauth.ValidatePassword(in.Password); err != nil {
		return nil, err
	}

	if _, err := s.repo.GetByLogin(ctx, in.Login); err == nil {
		return nil, models.ErrLoginTaken
	} else if !errors.Is(err, models.ErrNotFound) {
		s.logger.Error("failed to check login availability", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	hashedPassword, err := pkgauth.HashPasswordWithCost(in.Password, s.bcryptCost)
	if err != nil {
		s.logger.Error("failed to hash password", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	created, err := s.repo.Create(ctx, &models.User{
		Login:        in.Login,
		PasswordHash: hashedPassword,
		FullName:     in.FullName,
		Phone:        in.Phone,
		Email:        in.Email,
		Role:         models.RoleUser,
		Status:       models.UserStatusActive,
	})
	if err != nil {
		// the unique indexes settle races between concurrent registrations
		if errors.Is(err, models.ErrConflict) {
			return nil, err
		}
		s.logger.Error("failed to create user", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	token, err := s.tm.GenerateToken(created)
	if err != nil {
		s.logger.Error("failed to generate token", slog.String("user_id", created.ID), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	s.logger.Info("user registered", slog.String("user_id", created.ID))
	s.auditLogger.LogAccountAction(ctx, "user_registered", created.ID, created.ID)

	return &AuthResult{Token: token, User: created}, nil
}

// EnsureAdmin creates the bootstrap administrator unless an account with the
// same login already exists. It returns true when a user was created.
func (s *AuthService) EnsureAdmin(ctx context.Context, in RegisterInput) (bool, error) {
	existing, err := s.repo.GetByLogin(ctx, in.Login)
	if err == nil {
		if !existing.IsAdmin() {
			s.logger.Warn("bootstrap admin login belongs to a regular user", slog.String("user_id", existing.ID))
		}
		return false, nil
	}
	if !errors.Is(err, models.ErrNotFound) {
		return false, err
	}

	hashedPassword, err := pkgauth.HashPasswordWithCost(in.Password, s.bcryptCost)
	if err != nil {
		return false, err
	}

	created, err := s.repo.Create(ctx, &models.User{
		Login:        in.Login,
		PasswordHash: hashedPassword,
		FullName:     in.FullName,
		Phone:        in.Phone,
		Email:        strings.ToLower(strings.TrimSpace(in.Email)),
		Role:         models.RoleAdmin,
		Status:       models.UserStatusActive,
	})
	if err != nil {
		return false, err
	}

	s.logger.Info("bootstrap admin created", slog.String("user_id", created.ID))
	s.auditLogger.LogAccountAction(ctx, "admin_bootstrapped", created.ID, "")
	return true, nil
}
