package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/BradenHooton/bookshare/internal/database"
	"github.com/BradenHooton/bookshare/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/lib/pq"
)

type CardRepository struct {
	pool database.Querier
}

func NewCardRepository(db *database.DB) *CardRepository {
	return &CardRepository{pool: db.Pool}
}

const cardColumns = `c.id, c.user_id, c.status, c.remove_reason, c.title, c.type, c.author,
	c.publisher, c.year, c.binding, c.condition, c.created_at, c.updated_at, u.full_name`

const cardFrom = ` FROM cards c JOIN users u ON u.id = c.user_id `

func scanCardRow(scanner rowScanner) (*models.Card, error) {
	var (
		card      models.Card
		status    int16
		cardType  int16
		year      *int32
		ownerName string
	)

	err := scanner.Scan(
		&card.ID, &card.UserID, &status, &card.RemoveReason, &card.Title, &cardType, &card.Author,
		&card.Publisher, &year, &card.Binding, &card.Condition, &card.CreatedAt, &card.UpdatedAt, &ownerName,
	)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}

	card.Status = models.CardStatus(status)
	card.Type = models.CardType(cardType)
	if year != nil {
		y := int(*year)
		card.Year = &y
	}
	card.Owner = &models.CardOwner{ID: card.UserID, FullName: ownerName}

	return &card, nil
}

func scanCardRows(rows pgx.Rows) ([]*models.Card, error) {
	defer rows.Close()

	cards := make([]*models.Card, 0)
	for rows.Next() {
		card, err := scanCardRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan card: %w", err)
		}
		cards = append(cards, card)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}
	return cards, nil
}

func nullableYear(y *int) *int32 {
	if y == nil {
		return nil
	}
	v := int32(*y)
	return &v
}

func (r *CardRepository) Create(ctx context.Context, card *models.Card) (*models.Card, error) {
	card.ID = uuid.New().String()

	now := time.Now().UTC()
	card.CreatedAt = now
	card.UpdatedAt = now

	query := `
		INSERT INTO cards (id, user_id, status, remove_reason, title, type, author, publisher, year, binding, condition, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	_, err := r.pool.Exec(ctx, query,
		card.ID, card.UserID, int16(card.Status), card.RemoveReason, card.Title, int16(card.Type), card.Author,
		card.Publisher, nullableYear(card.Year), card.Binding, card.Condition, card.CreatedAt, card.UpdatedAt,
	)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}

	return r.GetByID(ctx, card.ID)
}

func (r *CardRepository) GetByID(ctx context.Context, id string) (*models.Card, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, models.ErrNotFound
	}
	query := `SELECT ` + cardColumns + cardFrom + `WHERE c.id = $1`
	return scanCardRow(r.pool.QueryRow(ctx, query, id))
}

// UpdateWithStatus writes every mutable column of card, but only while the
// stored status still equals expected. A card that exists with a different
// status yields models.ErrConflict.
func (r *CardRepository) UpdateWithStatus(ctx context.Context, card *models.Card, expected models.CardStatus) (*models.Card, error) {
	card.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE cards SET status = $1, remove_reason = $2, title = $3, type = $4, author = $5,
			publisher = $6, year = $7, binding = $8, condition = $9, updated_at = $10
		WHERE id = $11 AND status = $12
	`

	tag, err := r.pool.Exec(ctx, query,
		int16(card.Status), card.RemoveReason, card.Title, int16(card.Type), card.Author,
		card.Publisher, nullableYear(card.Year), card.Binding, card.Condition, card.UpdatedAt,
		card.ID, int16(expected),
	)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}

	if tag.RowsAffected() == 0 {
		if _, err := r.GetByID(ctx, card.ID); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("card %s left status %s: %w", card.ID, expected, models.ErrConflict)
	}

	return r.GetByID(ctx, card.ID)
}

// ListByStatusAndType returns cards with the given status and type, newest first
func (r *CardRepository) ListByStatusAndType(ctx context.Context, status models.CardStatus, cardType models.CardType) ([]*models.Card, error) {
	query := `SELECT ` + cardColumns + cardFrom + `WHERE c.status = $1 AND c.type = $2 ORDER BY c.created_at DESC`

	rows, err := r.pool.Query(ctx, query, int16(status), int16(cardType))
	if err != nil {
		return nil, fmt.Errorf("failed to query cards: %w", err)
	}
	return scanCardRows(rows)
}

// ListByStatus returns cards with the given status, oldest first
func (r *CardRepository) ListByStatus(ctx context.Context, status models.CardStatus) ([]*models.Card, error) {
	query := `SELECT ` + cardColumns + cardFrom + `WHERE c.status = $1 ORDER BY c.created_at ASC`

	rows, err := r.pool.Query(ctx, query, int16(status))
	if err != nil {
		return nil, fmt.Errorf("failed to query cards: %w", err)
	}
	return scanCardRows(rows)
}

// ListByOwner returns the cards of a user, newest first, skipping the
// statuses in exclude
func (r *CardRepository) ListByOwner(ctx context.Context, ownerID string, exclude ...models.CardStatus) ([]*models.Card, error) {
	if _, err := uuid.Parse(ownerID); err != nil {
		return []*models.Card{}, nil
	}

	excluded := make([]int64, 0, len(exclude))
	for _, s := range exclude {
		excluded = append(excluded, int64(s))
	}

	query := `SELECT ` + cardColumns + cardFrom + `WHERE c.user_id = $1 AND NOT (c.status = ANY($2::smallint[])) ORDER BY c.created_at DESC`

	rows, err := r.pool.Query(ctx, query, ownerID, pq.Array(excluded))
	if err != nil {
		return nil, fmt.Errorf("failed to query cards: %w", err)
	}
	return scanCardRows(rows)
}
