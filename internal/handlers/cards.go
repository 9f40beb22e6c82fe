package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/BradenHooton/bookshare/internal/models"
	"github.com/BradenHooton/bookshare/internal/services"
	pkghttp "github.com/BradenHooton/bookshare/pkg/http"
)

// CardServiceInterface defines the card operations exposed over HTTP
type CardServiceInterface interface {
	Create(ctx context.Context, actor models.CardActor, in services.CardInput) (*models.Card, error)
	Get(ctx context.Context, actor models.CardActor, id string) (*models.Card, error)
	Update(ctx context.Context, actor models.CardActor, id string, patch models.CardPatch) (*models.Card, error)
	Delete(ctx context.Context, actor models.CardActor, id, reason string) (*models.Card, error)
	Archive(ctx context.Context, actor models.CardActor, id string) (*models.Card, error)
	Approve(ctx context.Context, actor models.CardActor, id string) (*models.Card, error)
	Reject(ctx context.Context, actor models.CardActor, id, reason string) (*models.Card, error)
	ListPublished(ctx context.Context, query string) ([]*models.Card, error)
	ListAwaitingModeration(ctx context.Context, actor models.CardActor) ([]*models.Card, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*models.Card, error)
}

// CardHandler serves the /books routes
type CardHandler struct {
	service CardServiceInterface
}

// NewCardHandler creates a new CardHandler
func NewCardHandler(service CardServiceInterface) *CardHandler {
	return &CardHandler{service: service}
}

// ListPublished handles GET /books with an optional ?q= search
func (h *CardHandler) ListPublished(w http.ResponseWriter, r *http.Request) {
	cards, err := h.service.ListPublished(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	pkghttp.WriteData(w, http.StatusOK, cardsToResponse(cards), "")
}

// Get handles GET /books/{id}
func (h *CardHandler) Get(w http.ResponseWriter, r *http.Request) {
	_, actor, ok := currentActor(w, r)
	if !ok {
		return
	}

	card, err := h.service.Get(r.Context(), actor, chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	pkghttp.WriteData(w, http.StatusOK, cardToResponse(card), "")
}

// Create handles POST /books
// @Summary Create a card
// @Accept json
// @Param request body CreateCardRequest true "Card"
// @Produce json
// @Success 201 {object} CardResponse
// @Failure 400 {object} ErrorResponse
// @Router /books [post]
func (h *CardHandler) Create(w http.ResponseWriter, r *http.Request) {
	_, actor, ok := currentActor(w, r)
	if !ok {
		return
	}

	var req CreateCardRequest
	if err := pkghttp.DecodeJSON(w, r, &req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}

	req.normalize()
	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteValidationError(w, err.Error())
		return
	}

	card, err := h.service.Create(r.Context(), actor, req.toInput())
	if err != nil {
		writeServiceError(w, err)
		return
	}

	message := "Card sent to moderation"
	if card.Status == models.CardStatusActive {
		message = "Card published"
	}
	pkghttp.WriteData(w, http.StatusCreated, cardToResponse(card), message)
}

// Update handles PUT /books/{id}. Editing a published card as a regular
// user sends it back to moderation.
func (h *CardHandler) Update(w http.ResponseWriter, r *http.Request) {
	_, actor, ok := currentActor(w, r)
	if !ok {
		return
	}

	var req UpdateCardRequest
	if err := pkghttp.DecodeJSON(w, r, &req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}

	req.normalize()
	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteValidationError(w, err.Error())
		return
	}

	card, err := h.service.Update(r.Context(), actor, chi.URLParam(r, "id"), req.toPatch())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	pkghttp.WriteData(w, http.StatusOK, cardToResponse(card), "Card updated")
}

// Delete handles DELETE /books/{id}. The body is optional for owners;
// admins removing someone else's card send {"reason": "..."}.
func (h *CardHandler) Delete(w http.ResponseWriter, r *http.Request) {
	_, actor, ok := currentActor(w, r)
	if !ok {
		return
	}

	var req ReasonRequest
	if r.ContentLength > 0 {
		if err := pkghttp.DecodeJSON(w, r, &req); err != nil {
			pkghttp.WriteBadRequest(w, "Invalid request body")
			return
		}
	}

	card, err := h.service.Delete(r.Context(), actor, chi.URLParam(r, "id"), req.Reason)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	pkghttp.WriteData(w, http.StatusOK, cardToResponse(card), "Card deleted")
}

// Archive handles PUT /books/{id}/archive and PUT /profile/cards/{id}/archive
func (h *CardHandler) Archive(w http.ResponseWriter, r *http.Request) {
	_, actor, ok := currentActor(w, r)
	if !ok {
		return
	}

	card, err := h.service.Archive(r.Context(), actor, chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	pkghttp.WriteData(w, http.StatusOK, cardToResponse(card), "Card archived")
}
