package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/BradenHooton/bookshare/internal/auth"
	"github.com/BradenHooton/bookshare/internal/models"
	"github.com/BradenHooton/bookshare/internal/services"
	pkghttp "github.com/BradenHooton/bookshare/pkg/http"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
)

// NewTestRequest creates an HTTP request with JSON body for testing
func NewTestRequest(t *testing.T, method, url string, body interface{}) *http.Request {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("failed to encode request body: %v", err)
		}
	}
	req := httptest.NewRequest(method, url, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

// WithUser puts an authenticated user into the request context
func WithUser(req *http.Request, user *models.User) *http.Request {
	ctx := context.WithValue(req.Context(), auth.UserContextKey, user)
	return req.WithContext(ctx)
}

// WithAuthContext authenticates the request as a regular user
func WithAuthContext(req *http.Request, userID, login string) *http.Request {
	return WithUser(req, &models.User{
		ID:     userID,
		Login:  login,
		Role:   models.RoleUser,
		Status: models.UserStatusActive,
	})
}

// WithAdminContext authenticates the request as an administrator
func WithAdminContext(req *http.Request, userID, login string) *http.Request {
	return WithUser(req, &models.User{
		ID:     userID,
		Login:  login,
		Role:   models.RoleAdmin,
		Status: models.UserStatusActive,
	})
}

// AssertJSONResponse checks that response has correct status and decodes JSON body
func AssertJSONResponse(t *testing.T, w *httptest.ResponseRecorder, expectedStatus int, target interface{}) {
	assert.Equal(t, expectedStatus, w.Code, "Response status mismatch")

	contentType := w.Header().Get("Content-Type")
	assert.Equal(t, "application/json", contentType, "Content-Type should be application/json")

	if target != nil {
		err := json.Unmarshal(w.Body.Bytes(), target)
		assert.NoError(t, err, "Failed to decode response JSON")
	}
}

// AssertDataResponse checks the status and decodes the data envelope into target
func AssertDataResponse(t *testing.T, w *httptest.ResponseRecorder, expectedStatus int, target interface{}) {
	var envelope struct {
		Data    json.RawMessage `json:"data"`
		Message string          `json:"message"`
	}
	AssertJSONResponse(t, w, expectedStatus, &envelope)

	if target != nil {
		err := json.Unmarshal(envelope.Data, target)
		assert.NoError(t, err, "Failed to decode response data")
	}
}

// AssertErrorResponse checks that response is a valid error response
func AssertErrorResponse(t *testing.T, w *httptest.ResponseRecorder, expectedStatus int, expectedError string) {
	assert.Equal(t, expectedStatus, w.Code, "Response status mismatch")

	var resp pkghttp.ErrorResponse
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	assert.NoError(t, err, "Failed to decode error response")
	assert.Equal(t, expectedError, resp.Error, "Error code mismatch")
	assert.NotEmpty(t, resp.Message, "Error message should not be empty")
}

// MockAuthService implements AuthServiceInterface for testing
type MockAuthService struct {
	LoginFunc    func(ctx context.Context, login, password, clientIP string) (*services.AuthResult, error)
	RegisterFunc func(ctx context.Context, in services.RegisterInput) (*services.AuthResult, error)
}

func (m *MockAuthService) Login(ctx context.Context, login, password, clientIP string) (*services.AuthResult, error) {
	if m.LoginFunc == nil {
		return nil, &models.InvalidCredentialsError{AttemptsLeft: 4}
	}
	return m.LoginFunc(ctx, login, password, clientIP)
}

func (m *MockAuthService) Register(ctx context.Context, in services.RegisterInput) (*services.AuthResult, error) {
	if m.RegisterFunc == nil {
		return nil, models.ErrConflict
	}
	return m.RegisterFunc(ctx, in)
}

// MockCardService implements CardServiceInterface for testing
type MockCardService struct {
	CreateFunc                 func(ctx context.Context, actor models.CardActor, in services.CardInput) (*models.Card, error)
	GetFunc                    func(ctx context.Context, actor models.CardActor, id string) (*models.Card, error)
	UpdateFunc                 func(ctx context.Context, actor models.CardActor, id string, patch models.CardPatch) (*models.Card, error)
	DeleteFunc                 func(ctx context.Context, actor models.CardActor, id, reason string) (*models.Card, error)
	ArchiveFunc                func(ctx context.Context, actor models.CardActor, id string) (*models.Card, error)
	ApproveFunc                func(ctx context.Context, actor models.CardActor, id string) (*models.Card, error)
	RejectFunc                 func(ctx context.Context, actor models.CardActor, id, reason string) (*models.Card, error)
	ListPublishedFunc          func(ctx context.Context, query string) ([]*models.Card, error)
	ListAwaitingModerationFunc func(ctx context.Context, actor models.CardActor) ([]*models.Card, error)
	ListByOwnerFunc            func(ctx context.Context, ownerID string) ([]*models.Card, error)
}

func (m *MockCardService) Create(ctx context.Context, actor models.CardActor, in services.CardInput) (*models.Card, error) {
	if m.CreateFunc == nil {
		return nil, models.ErrInternalServer
	}
	return m.CreateFunc(ctx, actor, in)
}

func (m *MockCardService) Get(ctx context.Context, actor models.CardActor, id string) (*models.Card, error) {
	if m.GetFunc == nil {
		return nil, models.ErrNotFound
	}
	return m.GetFunc(ctx, actor, id)
}

func (m *MockCardService) Update(ctx context.Context, actor models.CardActor, id string, patch models.CardPatch) (*models.Card, error) {
	if m.UpdateFunc == nil {
		return nil, models.ErrNotFound
	}
	return m.UpdateFunc(ctx, actor, id, patch)
}

func (m *MockCardService) Delete(ctx context.Context, actor models.CardActor, id, reason string) (*models.Card, error) {
	if m.DeleteFunc == nil {
		return nil, models.ErrNotFound
	}
	return m.DeleteFunc(ctx, actor, id, reason)
}

func (m *MockCardService) Archive(ctx context.Context, actor models.CardActor, id string) (*models.Card, error) {
	if m.ArchiveFunc == nil {
		return nil, models.ErrNotFound
	}
	return m.ArchiveFunc(ctx, actor, id)
}

func (m *MockCardService) Approve(ctx context.Context, actor models.CardActor, id string) (*models.Card, error) {
	if m.ApproveFunc == nil {
		return nil, models.ErrNotFound
	}
	return m.ApproveFunc(ctx, actor, id)
}

func (m *MockCardService) Reject(ctx context.Context, actor models.CardActor, id, reason string) (*models.Card, error) {
	if m.RejectFunc == nil {
		return nil, models.ErrNotFound
	}
	return m.RejectFunc(ctx, actor, id, reason)
}

func (m *MockCardService) ListPublished(ctx context.Context, query string) ([]*models.Card, error) {
	if m.ListPublishedFunc == nil {
		return []*models.Card{}, nil
	}
	return m.ListPublishedFunc(ctx, query)
}

func (m *MockCardService) ListAwaitingModeration(ctx context.Context, actor models.CardActor) ([]*models.Card, error) {
	if m.ListAwaitingModerationFunc == nil {
		return []*models.Card{}, nil
	}
	return m.ListAwaitingModerationFunc(ctx, actor)
}

func (m *MockCardService) ListByOwner(ctx context.Context, ownerID string) ([]*models.Card, error) {
	if m.ListByOwnerFunc == nil {
		return []*models.Card{}, nil
	}
	return m.ListByOwnerFunc(ctx, ownerID)
}

// MockUserService implements UserServiceInterface for testing
type MockUserService struct {
	GetProfileFunc func(ctx context.Context, id string) (*models.User, error)
}

func (m *MockUserService) GetProfile(ctx context.Context, id string) (*models.User, error) {
	if m.GetProfileFunc == nil {
		return nil, models.ErrNotFound
	}
	return m.GetProfileFunc(ctx, id)
}

// MockAdminService implements AdminServiceInterface for testing
type MockAdminService struct {
	ListUsersFunc func(ctx context.Context, actor models.CardActor) ([]*models.UserWithCardCount, error)
	BanFunc       func(ctx context.Context, actor models.CardActor, userID string) (*models.User, error)
	UnbanFunc     func(ctx context.Context, actor models.CardActor, userID string) (*models.User, error)
}

func (m *MockAdminService) ListUsers(ctx context.Context, actor models.CardActor) ([]*models.UserWithCardCount, error) {
	if m.ListUsersFunc == nil {
		return []*models.UserWithCardCount{}, nil
	}
	return m.ListUsersFunc(ctx, actor)
}

func (m *MockAdminService) Ban(ctx context.Context, actor models.CardActor, userID string) (*models.User, error) {
	if m.BanFunc == nil {
		return nil, models.ErrNotFound
	}
	return m.BanFunc(ctx, actor, userID)
}

func (m *MockAdminService) Unban(ctx context.Context, actor models.CardActor, userID string) (*models.User, error) {
	if m.UnbanFunc == nil {
		return nil, models.ErrNotFound
	}
	return m.UnbanFunc(ctx, actor, userID)
}

// NewTestCard creates a card owned by ownerID
func NewTestCard(id, ownerID string, status models.CardStatus) *models.Card {
	now := time.Now().UTC()
	return &models.Card{
		ID:        id,
		UserID:    ownerID,
		Status:    status,
		Title:     "Мастер и Маргарита",
		Type:      models.CardTypeShare,
		Author:    "Михаил Булгаков",
		CreatedAt: now,
		UpdatedAt: now,
		Owner:     &models.CardOwner{ID: ownerID, FullName: "Иван Иванов"},
	}
}

// WithChiRouteContext adds chi URL parameters to request context for testing
// This helper allows tests to set URL parameters that would normally be extracted
// by the Chi router from the URL path.
//
// Example usage:
//
//	req := httptest.NewRequest("PUT", "/books/card123", body)
//	req = WithChiRouteContext(req, map[string]string{
//	    "id": "card123",
//	})
func WithChiRouteContext(r *http.Request, params map[string]string) *http.Request {
	rctx := chi.NewRouteContext()
	for key, value := range params {
		rctx.URLParams.Add(key, value)
	}
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}
