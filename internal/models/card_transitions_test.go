package models

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	owner    = CardActor{UserID: "owner-1"}
	stranger = CardActor{UserID: "user-2"}
	admin    = CardActor{UserID: "admin-1", Admin: true}
)

func cardWithStatus(status CardStatus) *Card {
	return &Card{ID: "card-1", UserID: owner.UserID, Status: status}
}

func TestInitialCardStatus(t *testing.T) {
	assert.Equal(t, CardStatusAwaitingModeration, InitialCardStatus(owner))
	assert.Equal(t, CardStatusActive, InitialCardStatus(admin))
}

func TestNextCardStatus_Table(t *testing.T) {
	tests := []struct {
		name    string
		from    CardStatus
		action  CardAction
		actor   CardActor
		reason  string
		want    CardStatus
		wantErr error
	}{
		// approve
		{"admin approves awaiting", CardStatusAwaitingModeration, CardActionApprove, admin, "", CardStatusActive, nil},
		{"admin approves active", CardStatusActive, CardActionApprove, admin, "", CardStatusActive, ErrInvalidTransition},
		{"admin approves rejected", CardStatusRejected, CardActionApprove, admin, "", CardStatusRejected, ErrInvalidTransition},
		{"owner approves own card", CardStatusAwaitingModeration, CardActionApprove, owner, "", CardStatusAwaitingModeration, ErrForbidden},

		// reject
		{"admin rejects awaiting", CardStatusAwaitingModeration, CardActionReject, admin, "duplicate", CardStatusRejected, nil},
		{"admin rejects without reason", CardStatusAwaitingModeration, CardActionReject, admin, "   ", CardStatusAwaitingModeration, ErrReasonRequired},
		{"admin rejects active", CardStatusActive, CardActionReject, admin, "duplicate", CardStatusActive, ErrInvalidTransition},
		{"stranger rejects", CardStatusAwaitingModeration, CardActionReject, stranger, "duplicate", CardStatusAwaitingModeration, ErrForbidden},

		// delete
		{"owner deletes active", CardStatusActive, CardActionDelete, owner, "", CardStatusDeleted, nil},
		{"owner deletes rejected", CardStatusRejected, CardActionDelete, owner, "", CardStatusDeleted, nil},
		{"admin deletes with reason", CardStatusArchived, CardActionDelete, admin, "spam", CardStatusDeleted, nil},
		{"admin deletes without reason", CardStatusActive, CardActionDelete, admin, "", CardStatusActive, ErrReasonRequired},
		{"stranger deletes", CardStatusActive, CardActionDelete, stranger, "", CardStatusActive, ErrForbidden},

		// archive
		{"owner archives active", CardStatusActive, CardActionArchive, owner, "", CardStatusArchived, nil},
		{"owner archives awaiting", CardStatusAwaitingModeration, CardActionArchive, owner, "", CardStatusAwaitingModeration, ErrInvalidTransition},
		{"admin archives foreign card", CardStatusActive, CardActionArchive, admin, "", CardStatusActive, ErrForbidden},
		{"stranger archives", CardStatusActive, CardActionArchive, stranger, "", CardStatusActive, ErrForbidden},

		// edit
		{"owner edits active", CardStatusActive, CardActionEdit, owner, "", CardStatusAwaitingModeration, nil},
		{"owner edits awaiting", CardStatusAwaitingModeration, CardActionEdit, owner, "", CardStatusAwaitingModeration, nil},
		{"owner edits rejected", CardStatusRejected, CardActionEdit, owner, "", CardStatusAwaitingModeration, nil},
		{"owner edits archived", CardStatusArchived, CardActionEdit, owner, "", CardStatusAwaitingModeration, nil},
		{"admin edits active", CardStatusActive, CardActionEdit, admin, "", CardStatusActive, nil},
		{"admin edits rejected", CardStatusRejected, CardActionEdit, admin, "", CardStatusRejected, nil},
		{"stranger edits", CardStatusActive, CardActionEdit, stranger, "", CardStatusActive, ErrForbidden},

		// create on an existing card
		{"create existing", CardStatusActive, CardActionCreate, admin, "", CardStatusActive, ErrInvalidTransition},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NextCardStatus(cardWithStatus(tt.from), tt.action, tt.actor, tt.reason)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.wantErr), "got %v, want %v", err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNextCardStatus_DeletedIsTerminal(t *testing.T) {
	actions := []CardAction{CardActionApprove, CardActionReject, CardActionDelete, CardActionArchive, CardActionEdit}

	for _, action := range actions {
		t.Run(action.String(), func(t *testing.T) {
			got, err := NextCardStatus(cardWithStatus(CardStatusDeleted), action, admin, "reason text")
			assert.ErrorIs(t, err, ErrInvalidTransition)
			assert.Equal(t, CardStatusDeleted, got)

			_, err = NextCardStatus(cardWithStatus(CardStatusDeleted), action, stranger, "reason text")
			assert.ErrorIs(t, err, ErrForbidden)
		})
	}
}

func TestNextCardStatus_UnknownAction(t *testing.T) {
	_, err := NextCardStatus(cardWithStatus(CardStatusActive), CardAction(99), admin, "")
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestNextCardStatus_ModerationScenario(t *testing.T) {
	card := &Card{UserID: owner.UserID, Status: InitialCardStatus(owner)}
	require.Equal(t, CardStatusAwaitingModeration, card.Status)

	next, err := NextCardStatus(card, CardActionApprove, admin, "")
	require.NoError(t, err)
	card.Status = next
	assert.Equal(t, CardStatusActive, card.Status)

	next, err = NextCardStatus(card, CardActionEdit, owner, "")
	require.NoError(t, err)
	assert.Equal(t, CardStatusAwaitingModeration, next)
}

func TestRemoveReasonFor(t *testing.T) {
	card := cardWithStatus(CardStatusAwaitingModeration)

	reason := RemoveReasonFor(card, CardActionReject, " duplicate ")
	require.NotNil(t, reason)
	assert.Equal(t, "duplicate", *reason)

	reason = RemoveReasonFor(card, CardActionDelete, "")
	require.NotNil(t, reason)
	assert.Equal(t, DefaultOwnerDeleteReason, *reason)

	assert.Nil(t, RemoveReasonFor(card, CardActionApprove, "ignored"))
}

func TestCardStatus_String(t *testing.T) {
	assert.Equal(t, "awaiting_moderation", CardStatusAwaitingModeration.String())
	assert.Equal(t, "card_status(9)", CardStatus(9).String())
	assert.False(t, CardStatus(9).Valid())
	assert.True(t, CardStatusRejected.Valid())
}

func TestCardPatch_ApplyAndEmpty(t *testing.T) {
	assert.True(t, CardPatch{}.Empty())

	title := "Dune"
	year := 1965
	patch := CardPatch{Title: &title, Year: &year}
	assert.False(t, patch.Empty())

	card := &Card{Title: "Old", Author: "Herbert"}
	patch.Apply(card)
	assert.Equal(t, "Dune", card.Title)
	assert.Equal(t, "Herbert", card.Author)
	require.NotNil(t, card.Year)
	assert.Equal(t, 1965, *card.Year)
}
