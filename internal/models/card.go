package models

import (
	"fmt"
	"time"
)

// CardStatus is the moderation state of a card. Values are stored as
// smallint and sent to clients as numbers.
type CardStatus int

const (
	CardStatusActive CardStatus = iota
	CardStatusArchived
	CardStatusDeleted
	CardStatusAwaitingModeration
	CardStatusRejected
)

func (s CardStatus) String() string {
	switch s {
	case CardStatusActive:
		return "active"
	case CardStatusArchived:
		return "archived"
	case CardStatusDeleted:
		return "deleted"
	case CardStatusAwaitingModeration:
		return "awaiting_moderation"
	case CardStatusRejected:
		return "rejected"
	default:
		return fmt.Sprintf("card_status(%d)", int(s))
	}
}

func (s CardStatus) Valid() bool {
	return s >= CardStatusActive && s <= CardStatusRejected
}

// CardType says whether the owner gives a book away or is looking for one.
type CardType int

const (
	CardTypeShare CardType = iota
	CardTypeReceive
)

func (t CardType) Valid() bool {
	return t == CardTypeShare || t == CardTypeReceive
}

// Card is a book listing owned by exactly one user.
type Card struct {
	ID           string
	UserID       string
	Status       CardStatus
	RemoveReason *string
	Title        string
	Type         CardType
	Author       string
	Publisher    *string
	Year         *int
	Binding      *string
	Condition    *string
	CreatedAt    time.Time
	UpdatedAt    time.Time

	// Owner is populated by listing queries that join users.
	Owner *CardOwner
}

// CardOwner is the public part of a card owner.
type CardOwner struct {
	ID       string
	FullName string
}

// CardPatch carries the fields of a partial card update. Nil means "leave as is".
type CardPatch struct {
	Title     *string
	Type      *CardType
	Author    *string
	Publisher *string
	Year      *int
	Binding   *string
	Condition *string
}

// Empty reports whether the patch changes nothing.
func (p CardPatch) Empty() bool {
	return p.Title == nil && p.Type == nil && p.Author == nil &&
		p.Publisher == nil && p.Year == nil && p.Binding == nil && p.Condition == nil
}

// Apply copies every non-nil field of the patch onto the card.
func (p CardPatch) Apply(c *Card) {
	if p.Title != nil {
		c.Title = *p.Title
	}
	if p.Type != nil {
		c.Type = *p.Type
	}
	if p.Author != nil {
		c.Author = *p.Author
	}
	if p.Publisher != nil {
		c.Publisher = p.Publisher
	}
	if p.Year != nil {
		c.Year = p.Year
	}
	if p.Binding != nil {
		c.Binding = p.Binding
	}
	if p.Condition != nil {
		c.Condition = p.Condition
	}
}
