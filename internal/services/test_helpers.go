package services

import (
	"context"
	"sync"
	"time"

	"github.com/BradenHooton/bookshare/internal/models"
)

// MockUserRepository implements UserRepository for testing
type MockUserRepository struct {
	GetByIDFunc            func(ctx context.Context, id string) (*models.User, error)
	GetByLoginFunc         func(ctx context.Context, login string) (*models.User, error)
	CreateFunc             func(ctx context.Context, user *models.User) (*models.User, error)
	SetStatusFunc          func(ctx context.Context, id, status string) (*models.User, error)
	ListWithCardCountsFunc func(ctx context.Context, excludeID string) ([]*models.UserWithCardCount, error)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, models.ErrNotFound
}

func (m *MockUserRepository) GetByLogin(ctx context.Context, login string) (*models.User, error) {
	if m.GetByLoginFunc != nil {
		return m.GetByLoginFunc(ctx, login)
	}
	return nil, models.ErrNotFound
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, user)
	}
	return nil, models.ErrInternalServer
}

func (m *MockUserRepository) SetStatus(ctx context.Context, id, status string) (*models.User, error) {
	if m.SetStatusFunc != nil {
		return m.SetStatusFunc(ctx, id, status)
	}
	return nil, models.ErrInternalServer
}

func (m *MockUserRepository) ListWithCardCounts(ctx context.Context, excludeID string) ([]*models.UserWithCardCount, error) {
	if m.ListWithCardCountsFunc != nil {
		return m.ListWithCardCountsFunc(ctx, excludeID)
	}
	return []*models.UserWithCardCount{}, nil
}

// MockCardRepository implements CardRepository for testing
type MockCardRepository struct {
	CreateFunc              func(ctx context.Context, card *models.Card) (*models.Card, error)
	GetByIDFunc             func(ctx context.Context, id string) (*models.Card, error)
	UpdateWithStatusFunc    func(ctx context.Context, card *models.Card, expected models.CardStatus) (*models.Card, error)
	ListByStatusAndTypeFunc func(ctx context.Context, status models.CardStatus, cardType models.CardType) ([]*models.Card, error)
	ListByStatusFunc        func(ctx context.Context, status models.CardStatus) ([]*models.Card, error)
	ListByOwnerFunc         func(ctx context.Context, ownerID string, exclude ...models.CardStatus) ([]*models.Card, error)
}

func (m *MockCardRepository) Create(ctx context.Context, card *models.Card) (*models.Card, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, card)
	}
	return nil, models.ErrInternalServer
}

func (m *MockCardRepository) GetByID(ctx context.Context, id string) (*models.Card, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, models.ErrNotFound
}

func (m *MockCardRepository) UpdateWithStatus(ctx context.Context, card *models.Card, expected models.CardStatus) (*models.Card, error) {
	if m.UpdateWithStatusFunc != nil {
		return m.UpdateWithStatusFunc(ctx, card, expected)
	}
	return card, nil
}

func (m *MockCardRepository) ListByStatusAndType(ctx context.Context, status models.CardStatus, cardType models.CardType) ([]*models.Card, error) {
	if m.ListByStatusAndTypeFunc != nil {
		return m.ListByStatusAndTypeFunc(ctx, status, cardType)
	}
	return []*models.Card{}, nil
}

func (m *MockCardRepository) ListByStatus(ctx context.Context, status models.CardStatus) ([]*models.Card, error) {
	if m.ListByStatusFunc != nil {
		return m.ListByStatusFunc(ctx, status)
	}
	return []*models.Card{}, nil
}

func (m *MockCardRepository) ListByOwner(ctx context.Context, ownerID string, exclude ...models.CardStatus) ([]*models.Card, error) {
	if m.ListByOwnerFunc != nil {
		return m.ListByOwnerFunc(ctx, ownerID, exclude...)
	}
	return []*models.Card{}, nil
}

// MockLoginLimiter implements LoginLimiter for testing
type MockLoginLimiter struct {
	AttemptFunc func(key string) models.AttemptResult
	ResetFunc   func(key string)
}

func (m *MockLoginLimiter) Attempt(key string) models.AttemptResult {
	if m.AttemptFunc != nil {
		return m.AttemptFunc(key)
	}
	return models.AttemptResult{AttemptsLeft: 4}
}

func (m *MockLoginLimiter) Reset(key string) {
	if m.ResetFunc != nil {
		m.ResetFunc(key)
	}
}

// SentNotice is one call recorded by MockModerationNotifier
type SentNotice struct {
	OwnerID string
	CardID  string
	Action  models.CardAction
	Reason  string
}

// MockModerationNotifier records every notice it is asked to send
type MockModerationNotifier struct {
	mu   sync.Mutex
	Sent []SentNotice
	Err  error
}

func (m *MockModerationNotifier) NotifyModeration(ctx context.Context, owner *models.User, card *models.Card, action models.CardAction, reason string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Sent = append(m.Sent, SentNotice{OwnerID: owner.ID, CardID: card.ID, Action: action, Reason: reason})
	return m.Err
}

// Notices returns a copy of the recorded notices
func (m *MockModerationNotifier) Notices() []SentNotice {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]SentNotice(nil), m.Sent...)
}

// NewTestUser creates an active regular user
func NewTestUser(id, login, fullName string) *models.User {
	now := time.Now()
	return &models.User{
		ID:        id,
		Login:     login,
		FullName:  fullName,
		Phone:     "+7(900)-123-45-67",
		Email:     login + "@example.com",
		Role:      models.RoleUser,
		Status:    models.UserStatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// NewTestAdmin creates an active administrator
func NewTestAdmin(id, login string) *models.User {
	user := NewTestUser(id, login, "Администратор")
	user.Role = models.RoleAdmin
	return user
}

// NewTestUserWithPassword creates a user with a hashed password
func NewTestUserWithPassword(id, login, passwordHash string) *models.User {
	user := NewTestUser(id, login, "Тестовый Пользователь")
	user.PasswordHash = passwordHash
	return user
}

// NewTestUserWithStatus creates a user with the given status
func NewTestUserWithStatus(id, login, status string) *models.User {
	user := NewTestUser(id, login, "Тестовый Пользователь")
	user.Status = status
	return user
}

// NewTestCard creates a SHARE card owned by ownerID
func NewTestCard(id, ownerID string, status models.CardStatus) *models.Card {
	now := time.Now()
	return &models.Card{
		ID:        id,
		UserID:    ownerID,
		Status:    status,
		Title:     "Мастер и Маргарита",
		Type:      models.CardTypeShare,
		Author:    "Михаил Булгаков",
		CreatedAt: now,
		UpdatedAt: now,
		Owner:     &models.CardOwner{ID: ownerID, FullName: "Тестовый Пользователь"},
	}
}
