package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Amanzhol04/esports-portal/models"
)

var ErrUserNotFound = errors.New("user not found")

type UserRepository interface {
	Upsert(ctx context.Context, u *models.User) error
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Count(ctx context.Context) (int, error)
}

type postgresUserRepository struct {
	db SQLExecutor
}

func NewPostgresUserRepository(db SQLExecutor) UserRepository {
	return &postgresUserRepository{db: db}
}

// Upsert создаёт или обновляет запись по external_id — провайдер
// идентичности может повторно прислать callback для того же пользователя.
func (r *postgresUserRepository) Upsert(ctx context.Context, u *models.User) error {
	query := `
		INSERT INTO users (id, external_id, email, name, image)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (external_id) DO UPDATE
		SET email = EXCLUDED.email, name = EXCLUDED.name, image = EXCLUDED.image
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query, u.ID, u.ExternalID, u.Email, u.Name, u.Image).
		Scan(&u.ID, &u.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert user: %w", err)
	}
	return nil
}

func (r *postgresUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	u := &models.User{}
	query := `SELECT id, external_id, email, name, image, created_at FROM users WHERE LOWER(email) = LOWER($1)`
	err := r.db.QueryRowContext(ctx, query, email).Scan(
		&u.ID, &u.ExternalID, &u.Email, &u.Name, &u.Image, &u.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return u, nil
}

func (r *postgresUserRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return count, nil
}
