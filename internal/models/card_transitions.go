package models

import (
	"fmt"
	"strings"
)

// CardAction is something an actor can do to a card.
type CardAction int

const (
	CardActionCreate CardAction = iota
	CardActionApprove
	CardActionReject
	CardActionDelete
	CardActionArchive
	CardActionEdit
)

func (a CardAction) String() string {
	switch a {
	case CardActionCreate:
		return "create"
	case CardActionApprove:
		return "approve"
	case CardActionReject:
		return "reject"
	case CardActionDelete:
		return "delete"
	case CardActionArchive:
		return "archive"
	case CardActionEdit:
		return "edit"
	default:
		return fmt.Sprintf("card_action(%d)", int(a))
	}
}

// DefaultOwnerDeleteReason is stored when an owner deletes their own card.
const DefaultOwnerDeleteReason = "Deleted by owner"

// CardActor identifies who is acting on a card.
type CardActor struct {
	UserID string
	Admin  bool
}

// ActorFromUser builds a CardActor for an authenticated user.
func ActorFromUser(u *User) CardActor {
	return CardActor{UserID: u.ID, Admin: u.IsAdmin()}
}

// Owns reports whether the actor owns the card.
func (a CardActor) Owns(c *Card) bool {
	return a.UserID != "" && a.UserID == c.UserID
}

// InitialCardStatus is the status of a card right after actor creates it.
// Admin cards skip moderation.
func InitialCardStatus(actor CardActor) CardStatus {
	if actor.Admin {
		return CardStatusActive
	}
	return CardStatusAwaitingModeration
}

// NextCardStatus resolves the status card moves to when actor applies action.
// Checks run in order: authorization (ErrForbidden), current status
// (ErrInvalidTransition), reason (ErrReasonRequired).
func NextCardStatus(card *Card, action CardAction, actor CardActor, reason string) (CardStatus, error) {
	if card.Status == CardStatusDeleted {
		if !actor.Admin && !actor.Owns(card) {
			return card.Status, ErrForbidden
		}
		return card.Status, fmt.Errorf("%s on %s card: %w", action, card.Status, ErrInvalidTransition)
	}

	switch action {
	case CardActionApprove:
		if !actor.Admin {
			return card.Status, ErrForbidden
		}
		if card.Status != CardStatusAwaitingModeration {
			return card.Status, fmt.Errorf("approve %s card: %w", card.Status, ErrInvalidTransition)
		}
		return CardStatusActive, nil

	case CardActionReject:
		if !actor.Admin {
			return card.Status, ErrForbidden
		}
		if card.Status != CardStatusAwaitingModeration {
			return card.Status, fmt.Errorf("reject %s card: %w", card.Status, ErrInvalidTransition)
		}
		if strings.TrimSpace(reason) == "" {
			return card.Status, ErrReasonRequired
		}
		return CardStatusRejected, nil

	case CardActionDelete:
		if !actor.Admin && !actor.Owns(card) {
			return card.Status, ErrForbidden
		}
		if actor.Admin && !actor.Owns(card) && strings.TrimSpace(reason) == "" {
			return card.Status, ErrReasonRequired
		}
		return CardStatusDeleted, nil

	case CardActionArchive:
		// Archiving is owner-only, admins included.
		if !actor.Owns(card) {
			return card.Status, ErrForbidden
		}
		if card.Status != CardStatusActive {
			return card.Status, fmt.Errorf("archive %s card: %w", card.Status, ErrInvalidTransition)
		}
		return CardStatusArchived, nil

	case CardActionEdit:
		if !actor.Admin && !actor.Owns(card) {
			return card.Status, ErrForbidden
		}
		if actor.Admin {
			return card.Status, nil
		}
		switch card.Status {
		case CardStatusActive, CardStatusRejected, CardStatusArchived:
			return CardStatusAwaitingModeration, nil
		default:
			return card.Status, nil
		}

	case CardActionCreate:
		return card.Status, fmt.Errorf("create on existing card: %w", ErrInvalidTransition)
	}

	return card.Status, fmt.Errorf("unknown action %s: %w", action, ErrInvalidTransition)
}

// RemoveReasonFor returns the removeReason to persist for a transition, or
// nil when the action does not set one.
func RemoveReasonFor(card *Card, action CardAction, reason string) *string {
	reason = strings.TrimSpace(reason)
	switch action {
	case CardActionReject:
		return &reason
	case CardActionDelete:
		if reason == "" {
			r := DefaultOwnerDeleteReason
			return &r
		}
		return &reason
	}
	return card.RemoveReason
}
