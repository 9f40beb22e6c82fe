package handlers_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BradenHooton/bookshare/internal/handlers"
	"github.com/BradenHooton/bookshare/internal/models"
)

func adminRequest(method, url, id, body string) *http.Request {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, url, nil)
	} else {
		req = httptest.NewRequest(method, url, strings.NewReader(body))
	}
	if id != "" {
		req = handlers.WithChiRouteContext(req, map[string]string{"id": id})
	}
	return handlers.WithAdminContext(req, "admin-1", "admin")
}

// ── users ─────────────────────────────────────────────────────────────────────

func TestAdminListUsers_IncludesCardCounts(t *testing.T) {
	mock := &handlers.MockAdminService{
		ListUsersFunc: func(ctx context.Context, actor models.CardActor) ([]*models.UserWithCardCount, error) {
			assert.Equal(t, "admin-1", actor.UserID)
			assert.True(t, actor.Admin)
			return []*models.UserWithCardCount{
				{User: *testUser(), CardCount: 7},
			}, nil
		},
	}
	h := handlers.NewAdminHandler(mock, &handlers.MockCardService{})

	w := httptest.NewRecorder()
	h.ListUsers(w, adminRequest("GET", "/admin/users", "", ""))

	var users []handlers.AdminUserResponse
	handlers.AssertDataResponse(t, w, http.StatusOK, &users)
	require.Len(t, users, 1)
	assert.Equal(t, int64(7), users[0].CardCount)
	assert.Equal(t, "reader", users[0].Login)
}

func TestAdminBanUser(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"banned", nil, http.StatusOK, ""},
		{"admin target", models.ErrForbidden, http.StatusForbidden, "forbidden"},
		{"unknown user", models.ErrNotFound, http.StatusNotFound, "not_found"},
		{"store failure", models.ErrInternalServer, http.StatusInternalServerError, "internal_error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := &handlers.MockAdminService{
				BanFunc: func(ctx context.Context, actor models.CardActor, userID string) (*models.User, error) {
					assert.Equal(t, "user-1", userID)
					if tt.err != nil {
						return nil, tt.err
					}
					u := testUser()
					u.Status = models.UserStatusBanned
					return u, nil
				},
			}
			h := handlers.NewAdminHandler(mock, &handlers.MockCardService{})

			w := httptest.NewRecorder()
			h.BanUser(w, adminRequest("PUT", "/admin/users/user-1/ban", "user-1", ""))

			if tt.wantCode != "" {
				handlers.AssertErrorResponse(t, w, tt.wantStatus, tt.wantCode)
				return
			}
			var user handlers.UserResponse
			handlers.AssertDataResponse(t, w, tt.wantStatus, &user)
			assert.Equal(t, models.UserStatusBanned, user.Status)
		})
	}
}

func TestAdminUnbanUser(t *testing.T) {
	mock := &handlers.MockAdminService{
		UnbanFunc: func(ctx context.Context, actor models.CardActor, userID string) (*models.User, error) {
			return testUser(), nil
		},
	}
	h := handlers.NewAdminHandler(mock, &handlers.MockCardService{})

	w := httptest.NewRecorder()
	h.UnbanUser(w, adminRequest("PUT", "/admin/users/user-1/unban", "user-1", ""))

	var user handlers.UserResponse
	handlers.AssertDataResponse(t, w, http.StatusOK, &user)
	assert.Equal(t, models.UserStatusActive, user.Status)
}

// ── moderation ────────────────────────────────────────────────────────────────

func TestAdminListModeration(t *testing.T) {
	cards := &handlers.MockCardService{
		ListAwaitingModerationFunc: func(ctx context.Context, actor models.CardActor) ([]*models.Card, error) {
			return []*models.Card{
				handlers.NewTestCard("old", "user-1", models.CardStatusAwaitingModeration),
				handlers.NewTestCard("new", "user-2", models.CardStatusAwaitingModeration),
			}, nil
		},
	}
	h := handlers.NewAdminHandler(&handlers.MockAdminService{}, cards)

	w := httptest.NewRecorder()
	h.ListModeration(w, adminRequest("GET", "/admin/cards/moderation", "", ""))

	var resp []handlers.CardResponse
	handlers.AssertDataResponse(t, w, http.StatusOK, &resp)
	require.Len(t, resp, 2)
	assert.Equal(t, "old", resp[0].ID)
}

func TestAdminApproveCard(t *testing.T) {
	cards := &handlers.MockCardService{
		ApproveFunc: func(ctx context.Context, actor models.CardActor, id string) (*models.Card, error) {
			return handlers.NewTestCard(id, "user-1", models.CardStatusActive), nil
		},
	}
	h := handlers.NewAdminHandler(&handlers.MockAdminService{}, cards)

	w := httptest.NewRecorder()
	h.ApproveCard(w, adminRequest("PUT", "/admin/cards/card-1/approve", "card-1", ""))

	var card handlers.CardResponse
	handlers.AssertDataResponse(t, w, http.StatusOK, &card)
	assert.Equal(t, models.CardStatusActive, card.Status)
}

func TestAdminApproveCard_AlreadyActive(t *testing.T) {
	cards := &handlers.MockCardService{
		ApproveFunc: func(ctx context.Context, actor models.CardActor, id string) (*models.Card, error) {
			return nil, models.ErrInvalidTransition
		},
	}
	h := handlers.NewAdminHandler(&handlers.MockAdminService{}, cards)

	w := httptest.NewRecorder()
	h.ApproveCard(w, adminRequest("PUT", "/admin/cards/card-1/approve", "card-1", ""))

	handlers.AssertErrorResponse(t, w, http.StatusForbidden, "invalid_transition")
}

func TestAdminRejectCard_ReasonValidation(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantCode   string
	}{
		{"valid", `{"reason":"  дубликат карточки  "}`, http.StatusOK, ""},
		{"too short", `{"reason":"нет"}`, http.StatusBadRequest, "validation_failed"},
		{"blank", `{"reason":"        "}`, http.StatusBadRequest, "validation_failed"},
		{"too long", `{"reason":"` + strings.Repeat("a", 501) + `"}`, http.StatusBadRequest, "validation_failed"},
		{"missing body", "", http.StatusBadRequest, "bad_request"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotReason string
			cards := &handlers.MockCardService{
				RejectFunc: func(ctx context.Context, actor models.CardActor, id, reason string) (*models.Card, error) {
					gotReason = reason
					return handlers.NewTestCard(id, "user-1", models.CardStatusRejected), nil
				},
			}
			h := handlers.NewAdminHandler(&handlers.MockAdminService{}, cards)

			w := httptest.NewRecorder()
			h.RejectCard(w, adminRequest("PUT", "/admin/cards/card-1/reject", "card-1", tt.body))

			if tt.wantCode != "" {
				handlers.AssertErrorResponse(t, w, tt.wantStatus, tt.wantCode)
				return
			}
			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, "дубликат карточки", gotReason)
		})
	}
}

func TestAdminDeleteCard(t *testing.T) {
	var gotReason string
	cards := &handlers.MockCardService{
		DeleteFunc: func(ctx context.Context, actor models.CardActor, id, reason string) (*models.Card, error) {
			gotReason = reason
			assert.True(t, actor.Admin)
			return handlers.NewTestCard(id, "user-1", models.CardStatusDeleted), nil
		},
	}
	h := handlers.NewAdminHandler(&handlers.MockAdminService{}, cards)

	w := httptest.NewRecorder()
	h.DeleteCard(w, adminRequest("PUT", "/admin/cards/card-1/delete", "card-1", `{"reason":"нарушение правил"}`))

	var card handlers.CardResponse
	handlers.AssertDataResponse(t, w, http.StatusOK, &card)
	assert.Equal(t, models.CardStatusDeleted, card.Status)
	assert.Equal(t, "нарушение правил", gotReason)
}
