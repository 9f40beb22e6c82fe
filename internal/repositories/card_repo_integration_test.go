//go:build integration

package repositories_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BradenHooton/bookshare/internal/models"
	"github.com/BradenHooton/bookshare/internal/repositories"
)

func newCard(ownerID string, status models.CardStatus, title string) *models.Card {
	year := 1869
	return &models.Card{
		UserID: ownerID,
		Status: status,
		Title:  title,
		Type:   models.CardTypeShare,
		Author: "Лев Толстой",
		Year:   &year,
	}
}

func TestCardRepository_CreateAndGet(t *testing.T) {
	truncate(t)
	ctx := context.Background()
	owner := seedUser(t, "owner", models.RoleUser)
	repo := repositories.NewCardRepository(testDB)

	created, err := repo.Create(ctx, newCard(owner.ID, models.CardStatusAwaitingModeration, "Война и мир"))
	require.NoError(t, err)

	got, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Война и мир", got.Title)
	assert.Equal(t, models.CardStatusAwaitingModeration, got.Status)
	require.NotNil(t, got.Year)
	assert.Equal(t, 1869, *got.Year)
	assert.Nil(t, got.Publisher)
	require.NotNil(t, got.Owner)
	assert.Equal(t, "Иван Петров", got.Owner.FullName)

	_, err = repo.GetByID(ctx, "not-a-uuid")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestCardRepository_UpdateWithStatus(t *testing.T) {
	truncate(t)
	ctx := context.Background()
	owner := seedUser(t, "owner", models.RoleUser)
	repo := repositories.NewCardRepository(testDB)

	card, err := repo.Create(ctx, newCard(owner.ID, models.CardStatusAwaitingModeration, "Анна Каренина"))
	require.NoError(t, err)

	card.Status = models.CardStatusActive
	updated, err := repo.UpdateWithStatus(ctx, card, models.CardStatusAwaitingModeration)
	require.NoError(t, err)
	assert.Equal(t, models.CardStatusActive, updated.Status)

	// A second writer still expecting AWAITING_MODERATION loses.
	stale := *card
	stale.Status = models.CardStatusRejected
	_, err = repo.UpdateWithStatus(ctx, &stale, models.CardStatusAwaitingModeration)
	assert.ErrorIs(t, err, models.ErrConflict)

	missing := *card
	missing.ID = "00000000-0000-0000-0000-000000000000"
	_, err = repo.UpdateWithStatus(ctx, &missing, models.CardStatusActive)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestCardRepository_ConcurrentModeration(t *testing.T) {
	truncate(t)
	ctx := context.Background()
	owner := seedUser(t, "owner", models.RoleUser)
	repo := repositories.NewCardRepository(testDB)

	card, err := repo.Create(ctx, newCard(owner.ID, models.CardStatusAwaitingModeration, "Детство"))
	require.NoError(t, err)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, status := range []models.CardStatus{models.CardStatusActive, models.CardStatusRejected} {
		wg.Add(1)
		go func(i int, status models.CardStatus) {
			defer wg.Done()
			c := *card
			c.Status = status
			_, errs[i] = repo.UpdateWithStatus(ctx, &c, models.CardStatusAwaitingModeration)
		}(i, status)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else {
			assert.ErrorIs(t, err, models.ErrConflict)
		}
	}
	assert.Equal(t, 1, succeeded)
}

func TestCardRepository_Listings(t *testing.T) {
	truncate(t)
	ctx := context.Background()
	owner := seedUser(t, "owner", models.RoleUser)
	repo := repositories.NewCardRepository(testDB)

	create := func(status models.CardStatus, title string, cardType models.CardType) *models.Card {
		c := newCard(owner.ID, status, title)
		c.Type = cardType
		created, err := repo.Create(ctx, c)
		require.NoError(t, err)
		time.Sleep(5 * time.Millisecond)
		return created
	}

	first := create(models.CardStatusAwaitingModeration, "Первая", models.CardTypeShare)
	second := create(models.CardStatusAwaitingModeration, "Вторая", models.CardTypeShare)
	oldActive := create(models.CardStatusActive, "Старая", models.CardTypeShare)
	newActive := create(models.CardStatusActive, "Новая", models.CardTypeShare)
	create(models.CardStatusActive, "Ищу", models.CardTypeReceive)
	create(models.CardStatusDeleted, "Удалена", models.CardTypeShare)

	awaiting, err := repo.ListByStatus(ctx, models.CardStatusAwaitingModeration)
	require.NoError(t, err)
	require.Len(t, awaiting, 2)
	assert.Equal(t, first.ID, awaiting[0].ID)
	assert.Equal(t, second.ID, awaiting[1].ID)

	published, err := repo.ListByStatusAndType(ctx, models.CardStatusActive, models.CardTypeShare)
	require.NoError(t, err)
	require.Len(t, published, 2)
	assert.Equal(t, newActive.ID, published[0].ID)
	assert.Equal(t, oldActive.ID, published[1].ID)

	own, err := repo.ListByOwner(ctx, owner.ID, models.CardStatusDeleted)
	require.NoError(t, err)
	assert.Len(t, own, 5)
	for _, c := range own {
		assert.NotEqual(t, models.CardStatusDeleted, c.Status)
	}

	all, err := repo.ListByOwner(ctx, owner.ID)
	require.NoError(t, err)
	assert.Len(t, all, 6)
}
