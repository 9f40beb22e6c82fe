package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/BradenHooton/bookshare/internal/models"
	pkghttp "github.com/BradenHooton/bookshare/pkg/http"
)

// AdminServiceInterface defines the account moderation contract.
type AdminServiceInterface interface {
	ListUsers(ctx context.Context, actor models.CardActor) ([]*models.UserWithCardCount, error)
	Ban(ctx context.Context, actor models.CardActor, userID string) (*models.User, error)
	Unban(ctx context.Context, actor models.CardActor, userID string) (*models.User, error)
}

// AdminHandler handles the /admin routes.
type AdminHandler struct {
	users AdminServiceInterface
	cards CardServiceInterface
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(users AdminServiceInterface, cards CardServiceInterface) *AdminHandler {
	return &AdminHandler{users: users, cards: cards}
}

// ListUsers handles GET /admin/users
func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	_, actor, ok := currentActor(w, r)
	if !ok {
		return
	}

	users, err := h.users.ListUsers(r.Context(), actor)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	resp := make([]AdminUserResponse, len(users))
	for i, u := range users {
		resp[i] = AdminUserResponse{UserResponse: userToResponse(&u.User), CardCount: u.CardCount}
	}
	pkghttp.WriteData(w, http.StatusOK, resp, "")
}

// BanUser handles PUT /admin/users/{id}/ban
func (h *AdminHandler) BanUser(w http.ResponseWriter, r *http.Request) {
	h.setUserStatus(w, r, h.users.Ban, "User banned")
}

// UnbanUser handles PUT /admin/users/{id}/unban
func (h *AdminHandler) UnbanUser(w http.ResponseWriter, r *http.Request) {
	h.setUserStatus(w, r, h.users.Unban, "User unbanned")
}

func (h *AdminHandler) setUserStatus(w http.ResponseWriter, r *http.Request,
	apply func(context.Context, models.CardActor, string) (*models.User, error), message string) {
	_, actor, ok := currentActor(w, r)
	if !ok {
		return
	}

	user, err := apply(r.Context(), actor, chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	pkghttp.WriteData(w, http.StatusOK, userToResponse(user), message)
}

// ListModeration handles GET /admin/cards/moderation, oldest first
func (h *AdminHandler) ListModeration(w http.ResponseWriter, r *http.Request) {
	_, actor, ok := currentActor(w, r)
	if !ok {
		return
	}

	cards, err := h.cards.ListAwaitingModeration(r.Context(), actor)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	pkghttp.WriteData(w, http.StatusOK, cardsToResponse(cards), "")
}

// ApproveCard handles PUT /admin/cards/{id}/approve
func (h *AdminHandler) ApproveCard(w http.ResponseWriter, r *http.Request) {
	_, actor, ok := currentActor(w, r)
	if !ok {
		return
	}

	card, err := h.cards.Approve(r.Context(), actor, chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	pkghttp.WriteData(w, http.StatusOK, cardToResponse(card), "Card approved")
}

// RejectCard handles PUT /admin/cards/{id}/reject
func (h *AdminHandler) RejectCard(w http.ResponseWriter, r *http.Request) {
	h.withReason(w, r, h.cards.Reject, "Card rejected")
}

// DeleteCard handles PUT /admin/cards/{id}/delete
func (h *AdminHandler) DeleteCard(w http.ResponseWriter, r *http.Request) {
	h.withReason(w, r, h.cards.Delete, "Card deleted")
}

func (h *AdminHandler) withReason(w http.ResponseWriter, r *http.Request,
	apply func(context.Context, models.CardActor, string, string) (*models.Card, error), message string) {
	_, actor, ok := currentActor(w, r)
	if !ok {
		return
	}

	var req ReasonRequest
	if err := pkghttp.DecodeJSON(w, r, &req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}

	req.Reason = strings.TrimSpace(req.Reason)
	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteValidationError(w, err.Error())
		return
	}

	card, err := apply(r.Context(), actor, chi.URLParam(r, "id"), req.Reason)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	pkghttp.WriteData(w, http.StatusOK, cardToResponse(card), message)
}
