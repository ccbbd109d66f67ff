package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Amanzhol04/esports-portal/models"
)

var ErrTournamentNotFound = errors.New("tournament not found")

// TournamentUpdate перечисляет изменяемые поля. nil означает «не трогать» —
// белый список, чтобы клиент не мог прислать лишние свойства.
type TournamentUpdate struct {
	Title        *string
	Date         *string
	Location     *string
	Slots        *int
	Game         *string
	Img          *string
	RoomID       *string
	RoomPassword *string
	ShowRoom     *bool
}

type TournamentRepository interface {
	Create(ctx context.Context, t *models.Tournament) error
	GetByID(ctx context.Context, id string) (*models.Tournament, error)
	List(ctx context.Context) ([]models.Tournament, error)
	Update(ctx context.Context, id string, upd TournamentUpdate) (*models.Tournament, error)
	UpdateImg(ctx context.Context, id string, img *string) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int, error)
}

type postgresTournamentRepository struct {
	db SQLExecutor
}

func NewPostgresTournamentRepository(db SQLExecutor) TournamentRepository {
	return &postgresTournamentRepository{db: db}
}

const tournamentColumns = `id, title, date, location, slots, game, img, room_id, room_password, show_room, created_at`

func (r *postgresTournamentRepository) Create(ctx context.Context, t *models.Tournament) error {
	query := `
		INSERT INTO tournaments (id, title, date, location, slots, game, img, room_id, room_password, show_room)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at`

	err := r.db.QueryRowContext(ctx, query,
		t.ID, t.Title, t.Date, t.Location, t.Slots, t.Game, t.Img, t.RoomID, t.RoomPassword, t.ShowRoom,
	).Scan(&t.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create tournament: %w", err)
	}
	return nil
}

func (r *postgresTournamentRepository) GetByID(ctx context.Context, id string) (*models.Tournament, error) {
	query := `SELECT ` + tournamentColumns + ` FROM tournaments WHERE id = $1`

	t := &models.Tournament{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&t.ID, &t.Title, &t.Date, &t.Location, &t.Slots, &t.Game, &t.Img,
		&t.RoomID, &t.RoomPassword, &t.ShowRoom, &t.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("failed to get tournament: %w", err)
	}
	return t, nil
}

func (r *postgresTournamentRepository) List(ctx context.Context) ([]models.Tournament, error) {
	query := `SELECT ` + tournamentColumns + ` FROM tournaments ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list tournaments: %w", err)
	}
	defer rows.Close()

	tournaments := make([]models.Tournament, 0)
	for rows.Next() {
		var t models.Tournament
		err := rows.Scan(
			&t.ID, &t.Title, &t.Date, &t.Location, &t.Slots, &t.Game, &t.Img,
			&t.RoomID, &t.RoomPassword, &t.ShowRoom, &t.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan tournament row: %w", err)
		}
		tournaments = append(tournaments, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tournament rows: %w", err)
	}
	return tournaments, nil
}

func (r *postgresTournamentRepository) Update(ctx context.Context, id string, upd TournamentUpdate) (*models.Tournament, error) {
	query := `
		UPDATE tournaments SET
			title = COALESCE($2, title),
			date = COALESCE($3::timestamptz, date),
			location = COALESCE($4, location),
			slots = COALESCE($5, slots),
			game = COALESCE($6, game),
			img = COALESCE($7, img),
			room_id = COALESCE($8, room_id),
			room_password = COALESCE($9, room_password),
			show_room = COALESCE($10, show_room)
		WHERE id = $1
		RETURNING ` + tournamentColumns

	t := &models.Tournament{}
	err := r.db.QueryRowContext(ctx, query,
		id, upd.Title, upd.Date, upd.Location, upd.Slots, upd.Game, upd.Img,
		upd.RoomID, upd.RoomPassword, upd.ShowRoom,
	).Scan(
		&t.ID, &t.Title, &t.Date, &t.Location, &t.Slots, &t.Game, &t.Img,
		&t.RoomID, &t.RoomPassword, &t.ShowRoom, &t.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("failed to update tournament: %w", err)
	}
	return t, nil
}

func (r *postgresTournamentRepository) UpdateImg(ctx context.Context, id string, img *string) error {
	result, err := r.db.ExecContext(ctx, `UPDATE tournaments SET img = $1 WHERE id = $2`, img, id)
	if err != nil {
		return fmt.Errorf("failed to update tournament image: %w", err)
	}
	return checkAffectedRows(result, ErrTournamentNotFound)
}

// Delete удаляет турнир; заявки уходят каскадом (FK ON DELETE CASCADE).
func (r *postgresTournamentRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM tournaments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete tournament: %w", err)
	}
	return checkAffectedRows(result, ErrTournamentNotFound)
}

func (r *postgresTournamentRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM tournaments`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count tournaments: %w", err)
	}
	return count, nil
}
