package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/BradenHooton/bookshare/internal/models"
	pkglogger "github.com/BradenHooton/bookshare/pkg/logger"
)

// CardRepository defines the card store used by CardService
type CardRepository interface {
	Create(ctx context.Context, card *models.Card) (*models.Card, error)
	GetByID(ctx context.Context, id string) (*models.Card, error)
	UpdateWithStatus(ctx context.Context, card *models.Card, expected models.CardStatus) (*models.Card, error)
	ListByStatusAndType(ctx context.Context, status models.CardStatus, cardType models.CardType) ([]*models.Card, error)
	ListByStatus(ctx context.Context, status models.CardStatus) ([]*models.Card, error)
	ListByOwner(ctx context.Context, ownerID string, exclude ...models.CardStatus) ([]*models.Card, error)
}

// CardOwnerLookup resolves the owner of a card for notices
type CardOwnerLookup interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
}

const notifyTimeout = 10 * time.Second

// CardService applies the card lifecycle on top of the store
type CardService struct {
	cards       CardRepository
	owners      CardOwnerLookup
	notifier    ModerationNotifier
	logger      *slog.Logger
	auditLogger *pkglogger.AuditLogger
}

// NewCardService creates a new CardService
func NewCardService(cards CardRepository, owners CardOwnerLookup, notifier ModerationNotifier, logger *slog.Logger, auditLogger *pkglogger.AuditLogger) *CardService {
	return &CardService{
		cards:       cards,
		owners:      owners,
		notifier:    notifier,
		logger:      logger,
		auditLogger: auditLogger,
	}
}

// CardInput carries the validated fields of a new card
type CardInput struct {
	Title     string
	Type      models.CardType
	Author    string
	Publisher *string
	Year      *int
	Binding   *string
	Condition *string
}

// Create stores a new card owned by actor. Admin cards are published at once.
func (s *CardService) Create(ctx context.Context, actor models.CardActor, in CardInput) (*models.Card, error) {
	card := &models.Card{
		UserID:    actor.UserID,
		Status:    models.InitialCardStatus(actor),
		Title:     strings.TrimSpace(in.Title),
		Type:      in.Type,
		Author:    strings.TrimSpace(in.Author),
		Publisher: in.Publisher,
		Year:      in.Year,
		Binding:   in.Binding,
		Condition: in.Condition,
	}

	created, err := s.cards.Create(ctx, card)
	if err != nil {
		s.logger.Error("failed to create card", slog.String("user_id", actor.UserID), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	s.logger.Info("card created",
		slog.String("card_id", created.ID),
		slog.String("user_id", actor.UserID),
		slog.String("status", created.Status.String()))

	return created, nil
}

// Get returns a card if actor may see it: published cards are public,
// anything else only to the owner and admins
func (s *CardService) Get(ctx context.Context, actor models.CardActor, id string) (*models.Card, error) {
	card, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	if card.Status != models.CardStatusActive && !actor.Admin && !actor.Owns(card) {
		return nil, models.ErrForbidden
	}
	return card, nil
}

// Update applies patch to a card. A non-admin edit of a published, archived
// or rejected card sends it back to moderation. An empty patch changes nothing.
func (s *CardService) Update(ctx context.Context, actor models.CardActor, id string, patch models.CardPatch) (*models.Card, error) {
	if patch.Empty() {
		card, err := s.load(ctx, id)
		if err != nil {
			return nil, err
		}
		if !actor.Admin && !actor.Owns(card) {
			return nil, models.ErrForbidden
		}
		return card, nil
	}

	return s.transition(ctx, actor, id, models.CardActionEdit, "", patch.Apply)
}

// Delete soft-deletes a card. Admins deleting someone else's card must give a reason.
func (s *CardService) Delete(ctx context.Context, actor models.CardActor, id, reason string) (*models.Card, error) {
	return s.transition(ctx, actor, id, models.CardActionDelete, reason, nil)
}

// Archive hides a published card. Only the owner may archive.
func (s *CardService) Archive(ctx context.Context, actor models.CardActor, id string) (*models.Card, error) {
	return s.transition(ctx, actor, id, models.CardActionArchive, "", nil)
}

// Approve publishes a card awaiting moderation
func (s *CardService) Approve(ctx context.Context, actor models.CardActor, id string) (*models.Card, error) {
	return s.transition(ctx, actor, id, models.CardActionApprove, "", nil)
}

// Reject refuses a card awaiting moderation
func (s *CardService) Reject(ctx context.Context, actor models.CardActor, id, reason string) (*models.Card, error) {
	return s.transition(ctx, actor, id, models.CardActionReject, reason, nil)
}

// ListPublished returns published SHARE cards, newest first. A non-empty
// query keeps only fuzzy matches on title and author, best match first.
func (s *CardService) ListPublished(ctx context.Context, query string) ([]*models.Card, error) {
	cards, err := s.cards.ListByStatusAndType(ctx, models.CardStatusActive, models.CardTypeShare)
	if err != nil {
		s.logger.Error("failed to list published cards", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}
	return searchCards(cards, query), nil
}

// ListAwaitingModeration returns the moderation queue, oldest first
func (s *CardService) ListAwaitingModeration(ctx context.Context, actor models.CardActor) ([]*models.Card, error) {
	if !actor.Admin {
		return nil, models.ErrForbidden
	}
	cards, err := s.cards.ListByStatus(ctx, models.CardStatusAwaitingModeration)
	if err != nil {
		s.logger.Error("failed to list moderation queue", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}
	return cards, nil
}

// ListByOwner returns every card of ownerID that is not deleted, newest first
func (s *CardService) ListByOwner(ctx context.Context, ownerID string) ([]*models.Card, error) {
	cards, err := s.cards.ListByOwner(ctx, ownerID, models.CardStatusDeleted)
	if err != nil {
		s.logger.Error("failed to list user cards", slog.String("user_id", ownerID), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}
	return cards, nil
}

func (s *CardService) load(ctx context.Context, id string) (*models.Card, error) {
	card, err := s.cards.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrNotFound
		}
		s.logger.Error("failed to get card", slog.String("card_id", id), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}
	return card, nil
}

// transition resolves the next status, applies mutate and persists the card
// with a conditional update on the status it was read with
func (s *CardService) transition(ctx context.Context, actor models.CardActor, id string, action models.CardAction, reason string, mutate func(*models.Card)) (*models.Card, error) {
	card, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	next, err := models.NextCardStatus(card, action, actor, reason)
	if err != nil {
		return nil, err
	}

	from := card.Status
	card.RemoveReason = models.RemoveReasonFor(card, action, reason)
	card.Status = next
	if mutate != nil {
		mutate(card)
	}

	updated, err := s.cards.UpdateWithStatus(ctx, card, from)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrConflict):
			s.logger.Info("card changed concurrently",
				slog.String("card_id", id),
				slog.String("action", action.String()))
			return nil, models.ErrConflict
		case errors.Is(err, models.ErrNotFound):
			return nil, models.ErrNotFound
		}
		s.logger.Error("failed to update card", slog.String("card_id", id), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	s.auditLogger.LogModeration(ctx, pkglogger.ModerationEvent{
		Action:     action.String(),
		CardID:     updated.ID,
		ActorID:    actor.UserID,
		OwnerID:    updated.UserID,
		FromStatus: from.String(),
		ToStatus:   updated.Status.String(),
		Reason:     strings.TrimSpace(reason),
	})

	if actor.Admin && !actor.Owns(updated) {
		s.notifyOwner(ctx, updated, action, reason)
	}

	return updated, nil
}

// notifyOwner is best effort: failures are logged and never reach the caller
func (s *CardService) notifyOwner(ctx context.Context, card *models.Card, action models.CardAction, reason string) {
	switch action {
	case models.CardActionApprove, models.CardActionReject, models.CardActionDelete:
	default:
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), notifyTimeout)
	defer cancel()

	owner, err := s.owners.GetByID(ctx, card.UserID)
	if err != nil {
		s.logger.Warn("moderation notice skipped, owner not loaded",
			slog.String("card_id", card.ID),
			slog.Any("error", err))
		return
	}

	if err := s.notifier.NotifyModeration(ctx, owner, card, action, reason); err != nil {
		s.logger.Warn("moderation notice failed",
			slog.String("card_id", card.ID),
			slog.String("action", action.String()),
			slog.Any("error", fmt.Errorf("notify owner %s: %w", owner.ID, err)))
	}
}
