package handlers

import (
	"context"
	"net/http"

	"github.com/BradenHooton/bookshare/internal/models"
	pkghttp "github.com/BradenHooton/bookshare/pkg/http"
)

// UserServiceInterface defines the profile lookup
type UserServiceInterface interface {
	GetProfile(ctx context.Context, id string) (*models.User, error)
}

// ProfileHandler serves the /profile routes
type ProfileHandler struct {
	users UserServiceInterface
	cards CardServiceInterface
}

// NewProfileHandler creates a new ProfileHandler
func NewProfileHandler(users UserServiceInterface, cards CardServiceInterface) *ProfileHandler {
	return &ProfileHandler{users: users, cards: cards}
}

// GetProfile handles GET /profile
func (h *ProfileHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	user, _, ok := currentActor(w, r)
	if !ok {
		return
	}

	profile, err := h.users.GetProfile(r.Context(), user.ID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	pkghttp.WriteData(w, http.StatusOK, userToResponse(profile), "")
}

// ListCards handles GET /profile/cards: every card of the caller except deleted ones
func (h *ProfileHandler) ListCards(w http.ResponseWriter, r *http.Request) {
	user, _, ok := currentActor(w, r)
	if !ok {
		return
	}

	cards, err := h.cards.ListByOwner(r.Context(), user.ID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	pkghttp.WriteData(w, http.StatusOK, cardsToResponse(cards), "")
}
