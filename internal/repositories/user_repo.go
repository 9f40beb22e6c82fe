package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/BradenHooton/bookshare/internal/database"
	"github.com/BradenHooton/bookshare/internal/models"
	"github.com/google/uuid"
)

type UserRepository struct {
	pool database.Querier
}

func NewUserRepository(db *database.DB) *UserRepository {
	return &UserRepository{pool: db.Pool}
}

const userColumns = `id, login, password_hash, full_name, phone, email, role, status, created_at, updated_at`

// rowScanner is satisfied by both pgx.Row and pgx.Rows
type rowScanner interface {
	Scan(dest ...any) error
}

func scanUserRow(scanner rowScanner, extra ...any) (*models.User, error) {
	var user models.User
	dest := []any{
		&user.ID, &user.Login, &user.PasswordHash, &user.FullName, &user.Phone,
		&user.Email, &user.Role, &user.Status, &user.CreatedAt, &user.UpdatedAt,
	}
	if err := scanner.Scan(append(dest, extra...)...); err != nil {
		return nil, database.MapPostgresError(err)
	}
	return &user, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, models.ErrNotFound
	}
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUserRow(r.pool.QueryRow(ctx, query, id))
}

func (r *UserRepository) GetByLogin(ctx context.Context, login string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE login = $1`
	return scanUserRow(r.pool.QueryRow(ctx, query, login))
}

func (r *UserRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	user.ID = uuid.New().String()

	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now

	if user.Role == "" {
		user.Role = models.RoleUser
	}
	if user.Status == "" {
		user.Status = models.UserStatusActive
	}

	query := `
		INSERT INTO users (id, login, password_hash, full_name, phone, email, role, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING ` + userColumns

	return scanUserRow(r.pool.QueryRow(ctx, query,
		user.ID, user.Login, user.PasswordHash, user.FullName, user.Phone,
		user.Email, user.Role, user.Status, user.CreatedAt, user.UpdatedAt,
	))
}

// SetStatus changes the account status of a user and returns the updated row
func (r *UserRepository) SetStatus(ctx context.Context, id, status string) (*models.User, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, models.ErrNotFound
	}
	query := `
		UPDATE users SET status = $1, updated_at = $2
		WHERE id = $3
		RETURNING ` + userColumns

	return scanUserRow(r.pool.QueryRow(ctx, query, status, time.Now().UTC(), id))
}

// ListWithCardCounts returns every user except excludeID together with the
// number of cards they have that are not deleted
func (r *UserRepository) ListWithCardCounts(ctx context.Context, excludeID string) ([]*models.UserWithCardCount, error) {
	query := `
		SELECT u.id, u.login, u.password_hash, u.full_name, u.phone, u.email, u.role, u.status,
		       u.created_at, u.updated_at, COUNT(c.id)
		FROM users u
		LEFT JOIN cards c ON c.user_id = u.id AND c.status <> $2
		WHERE u.id::text <> $1
		GROUP BY u.id
		ORDER BY u.created_at DESC
	`

	rows, err := r.pool.Query(ctx, query, excludeID, int16(models.CardStatusDeleted))
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	users := make([]*models.UserWithCardCount, 0)
	for rows.Next() {
		var count int64
		user, err := scanUserRow(rows, &count)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, &models.UserWithCardCount{User: *user, CardCount: count})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return users, nil
}
