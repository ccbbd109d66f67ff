package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Amanzhol04/esports-portal/models"
)

var ErrGameNotFound = errors.New("game not found")

type GameUpdate struct {
	Title *string
	Img   *string
}

type GameRepository interface {
	Create(ctx context.Context, g *models.Game) error
	GetByID(ctx context.Context, id string) (*models.Game, error)
	List(ctx context.Context) ([]models.Game, error)
	Update(ctx context.Context, id string, upd GameUpdate) (*models.Game, error)
	UpdateImg(ctx context.Context, id string, img *string) error
	Delete(ctx context.Context, id string) error
}

type postgresGameRepository struct {
	db SQLExecutor
}

func NewPostgresGameRepository(db SQLExecutor) GameRepository {
	return &postgresGameRepository{db: db}
}

func (r *postgresGameRepository) Create(ctx context.Context, g *models.Game) error {
	query := `INSERT INTO games (id, title, img) VALUES ($1, $2, $3) RETURNING created_at`
	if err := r.db.QueryRowContext(ctx, query, g.ID, g.Title, g.Img).Scan(&g.CreatedAt); err != nil {
		return fmt.Errorf("failed to create game: %w", err)
	}
	return nil
}

func (r *postgresGameRepository) GetByID(ctx context.Context, id string) (*models.Game, error) {
	g := &models.Game{}
	query := `SELECT id, title, img, created_at FROM games WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(&g.ID, &g.Title, &g.Img, &g.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrGameNotFound
		}
		return nil, fmt.Errorf("failed to get game: %w", err)
	}
	return g, nil
}

func (r *postgresGameRepository) List(ctx context.Context) ([]models.Game, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, title, img, created_at FROM games ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list games: %w", err)
	}
	defer rows.Close()

	games := make([]models.Game, 0)
	for rows.Next() {
		var g models.Game
		if err := rows.Scan(&g.ID, &g.Title, &g.Img, &g.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan game row: %w", err)
		}
		games = append(games, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating game rows: %w", err)
	}
	return games, nil
}

func (r *postgresGameRepository) Update(ctx context.Context, id string, upd GameUpdate) (*models.Game, error) {
	query := `
		UPDATE games SET
			title = COALESCE($2, title),
			img = COALESCE($3, img)
		WHERE id = $1
		RETURNING id, title, img, created_at`

	g := &models.Game{}
	err := r.db.QueryRowContext(ctx, query, id, upd.Title, upd.Img).Scan(&g.ID, &g.Title, &g.Img, &g.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrGameNotFound
		}
		return nil, fmt.Errorf("failed to update game: %w", err)
	}
	return g, nil
}

func (r *postgresGameRepository) UpdateImg(ctx context.Context, id string, img *string) error {
	result, err := r.db.ExecContext(ctx, `UPDATE games SET img = $1 WHERE id = $2`, img, id)
	if err != nil {
		return fmt.Errorf("failed to update game image: %w", err)
	}
	return checkAffectedRows(result, ErrGameNotFound)
}

func (r *postgresGameRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM games WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete game: %w", err)
	}
	return checkAffectedRows(result, ErrGameNotFound)
}
