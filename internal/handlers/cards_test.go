package handlers_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BradenHooton/bookshare/internal/handlers"
	"github.com/BradenHooton/bookshare/internal/models"
	"github.com/BradenHooton/bookshare/internal/services"
)

func intPtr(v int) *int { return &v }

func strPtr(v string) *string { return &v }

func TestListPublished_PassesQuery(t *testing.T) {
	var gotQuery string
	mock := &handlers.MockCardService{
		ListPublishedFunc: func(ctx context.Context, query string) ([]*models.Card, error) {
			gotQuery = query
			return []*models.Card{handlers.NewTestCard("card-1", "user-1", models.CardStatusActive)}, nil
		},
	}
	h := handlers.NewCardHandler(mock)

	req := handlers.WithAuthContext(httptest.NewRequest("GET", "/books?q=булгаков", nil), "user-2", "reader")
	w := httptest.NewRecorder()
	h.ListPublished(w, req)

	var cards []handlers.CardResponse
	handlers.AssertDataResponse(t, w, http.StatusOK, &cards)
	assert.Equal(t, "булгаков", gotQuery)
	require.Len(t, cards, 1)
	assert.Equal(t, "active", cards[0].StatusName)
	require.NotNil(t, cards[0].Owner)
	assert.Equal(t, "Иван Иванов", cards[0].Owner.FullName)
}

func TestGetCard(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"visible", nil, http.StatusOK, ""},
		{"not found", models.ErrNotFound, http.StatusNotFound, "not_found"},
		{"hidden", models.ErrForbidden, http.StatusForbidden, "forbidden"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := &handlers.MockCardService{
				GetFunc: func(ctx context.Context, actor models.CardActor, id string) (*models.Card, error) {
					assert.Equal(t, "card-1", id)
					if tt.err != nil {
						return nil, tt.err
					}
					return handlers.NewTestCard(id, "user-1", models.CardStatusActive), nil
				},
			}
			h := handlers.NewCardHandler(mock)

			req := httptest.NewRequest("GET", "/books/card-1", nil)
			req = handlers.WithChiRouteContext(req, map[string]string{"id": "card-1"})
			req = handlers.WithAuthContext(req, "user-2", "reader")

			w := httptest.NewRecorder()
			h.Get(w, req)

			if tt.wantCode == "" {
				assert.Equal(t, tt.wantStatus, w.Code)
				return
			}
			handlers.AssertErrorResponse(t, w, tt.wantStatus, tt.wantCode)
		})
	}
}

func TestCreateCard_Success(t *testing.T) {
	var got services.CardInput
	var gotActor models.CardActor
	mock := &handlers.MockCardService{
		CreateFunc: func(ctx context.Context, actor models.CardActor, in services.CardInput) (*models.Card, error) {
			got = in
			gotActor = actor
			card := handlers.NewTestCard("card-1", actor.UserID, models.CardStatusAwaitingModeration)
			card.Title = in.Title
			return card, nil
		},
	}
	h := handlers.NewCardHandler(mock)

	req := handlers.NewTestRequest(t, "POST", "/books", handlers.CreateCardRequest{
		Title:     "  Белая гвардия  ",
		Author:    "Михаил Булгаков",
		Type:      intPtr(0),
		Publisher: strPtr("   "),
		Year:      intPtr(1925),
	})
	req = handlers.WithAuthContext(req, "user-1", "reader")

	w := httptest.NewRecorder()
	h.Create(w, req)

	var card handlers.CardResponse
	handlers.AssertDataResponse(t, w, http.StatusCreated, &card)
	assert.Equal(t, models.CardStatusAwaitingModeration, card.Status)
	assert.Equal(t, "Белая гвардия", got.Title)
	assert.Nil(t, got.Publisher, "blank optional fields are dropped")
	assert.Equal(t, models.CardTypeShare, got.Type)
	assert.Equal(t, "user-1", gotActor.UserID)
	assert.False(t, gotActor.Admin)
}

func TestCreateCard_Validation(t *testing.T) {
	nextYear := time.Now().Year() + 1

	tests := []struct {
		name  string
		body  string
		field string
	}{
		{"short title", `{"title":" A ","author":"Автор","type":0}`, "title"},
		{"missing type", `{"title":"Идиот","author":"Достоевский"}`, "type"},
		{"bad type", `{"title":"Идиот","author":"Достоевский","type":2}`, "type"},
		{"early year", `{"title":"Идиот","author":"Достоевский","type":0,"year":1700}`, "year"},
		{"future year", fmt.Sprintf(`{"title":"Идиот","author":"Достоевский","type":0,"year":%d}`, nextYear), "year"},
		{"long binding", fmt.Sprintf(`{"title":"Идиот","author":"Достоевский","type":0,"binding":"%s"}`, strings.Repeat("x", 51)), "binding"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := handlers.NewCardHandler(&handlers.MockCardService{})

			req := httptest.NewRequest("POST", "/books", strings.NewReader(tt.body))
			req = handlers.WithAuthContext(req, "user-1", "reader")

			w := httptest.NewRecorder()
			h.Create(w, req)

			handlers.AssertErrorResponse(t, w, http.StatusBadRequest, "validation_failed")
			assert.Contains(t, w.Body.String(), tt.field)
		})
	}
}

func TestCreateCard_Unauthenticated(t *testing.T) {
	h := handlers.NewCardHandler(&handlers.MockCardService{})

	req := handlers.NewTestRequest(t, "POST", "/books", handlers.CreateCardRequest{Title: "Идиот", Author: "Достоевский", Type: intPtr(0)})
	w := httptest.NewRecorder()
	h.Create(w, req)

	handlers.AssertErrorResponse(t, w, http.StatusUnauthorized, "unauthorized")
}

func TestUpdateCard_BuildsPatch(t *testing.T) {
	var gotPatch models.CardPatch
	mock := &handlers.MockCardService{
		UpdateFunc: func(ctx context.Context, actor models.CardActor, id string, patch models.CardPatch) (*models.Card, error) {
			gotPatch = patch
			return handlers.NewTestCard(id, actor.UserID, models.CardStatusAwaitingModeration), nil
		},
	}
	h := handlers.NewCardHandler(mock)

	req := httptest.NewRequest("PUT", "/books/card-1", strings.NewReader(`{"title":" Собачье сердце ","type":1}`))
	req = handlers.WithChiRouteContext(req, map[string]string{"id": "card-1"})
	req = handlers.WithAuthContext(req, "user-1", "reader")

	w := httptest.NewRecorder()
	h.Update(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, gotPatch.Title)
	assert.Equal(t, "Собачье сердце", *gotPatch.Title)
	require.NotNil(t, gotPatch.Type)
	assert.Equal(t, models.CardTypeReceive, *gotPatch.Type)
	assert.Nil(t, gotPatch.Author)
}

func TestUpdateCard_InvalidTransition(t *testing.T) {
	mock := &handlers.MockCardService{
		UpdateFunc: func(ctx context.Context, actor models.CardActor, id string, patch models.CardPatch) (*models.Card, error) {
			return nil, fmt.Errorf("edit deleted card: %w", models.ErrInvalidTransition)
		},
	}
	h := handlers.NewCardHandler(mock)

	req := httptest.NewRequest("PUT", "/books/card-1", strings.NewReader(`{"title":"Новое"}`))
	req = handlers.WithChiRouteContext(req, map[string]string{"id": "card-1"})
	req = handlers.WithAuthContext(req, "user-1", "reader")

	w := httptest.NewRecorder()
	h.Update(w, req)

	handlers.AssertErrorResponse(t, w, http.StatusForbidden, "invalid_transition")
}

func TestDeleteCard(t *testing.T) {
	t.Run("owner without body", func(t *testing.T) {
		var gotReason = "unset"
		mock := &handlers.MockCardService{
			DeleteFunc: func(ctx context.Context, actor models.CardActor, id, reason string) (*models.Card, error) {
				gotReason = reason
				return handlers.NewTestCard(id, actor.UserID, models.CardStatusDeleted), nil
			},
		}
		h := handlers.NewCardHandler(mock)

		req := httptest.NewRequest("DELETE", "/books/card-1", nil)
		req = handlers.WithChiRouteContext(req, map[string]string{"id": "card-1"})
		req = handlers.WithAuthContext(req, "user-1", "reader")

		w := httptest.NewRecorder()
		h.Delete(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "", gotReason)
	})

	t.Run("admin without reason", func(t *testing.T) {
		mock := &handlers.MockCardService{
			DeleteFunc: func(ctx context.Context, actor models.CardActor, id, reason string) (*models.Card, error) {
				return nil, models.ErrReasonRequired
			},
		}
		h := handlers.NewCardHandler(mock)

		req := httptest.NewRequest("DELETE", "/books/card-1", nil)
		req = handlers.WithChiRouteContext(req, map[string]string{"id": "card-1"})
		req = handlers.WithAdminContext(req, "admin-1", "admin")

		w := httptest.NewRecorder()
		h.Delete(w, req)

		handlers.AssertErrorResponse(t, w, http.StatusBadRequest, "bad_request")
	})
}

func TestArchiveCard_Conflict(t *testing.T) {
	mock := &handlers.MockCardService{
		ArchiveFunc: func(ctx context.Context, actor models.CardActor, id string) (*models.Card, error) {
			return nil, models.ErrConflict
		},
	}
	h := handlers.NewCardHandler(mock)

	req := httptest.NewRequest("PUT", "/books/card-1/archive", nil)
	req = handlers.WithChiRouteContext(req, map[string]string{"id": "card-1"})
	req = handlers.WithAuthContext(req, "user-1", "reader")

	w := httptest.NewRecorder()
	h.Archive(w, req)

	handlers.AssertErrorResponse(t, w, http.StatusConflict, "conflict")
}
