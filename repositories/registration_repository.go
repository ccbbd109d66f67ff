package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Amanzhol04/esports-portal/models"
	"github.com/lib/pq"
)

var (
	ErrRegistrationConflict          = errors.New("registration conflict: leader already registered for this tournament")
	ErrRegistrationTournamentInvalid = errors.New("registration tournament conflict or invalid")
)

const (
	leaderEmailUniqueConstraint = "registrations_leader_email_per_tournament_idx"
	leaderRegNoUniqueConstraint = "registrations_leader_regno_per_tournament_idx"
)

type RegistrationRepository interface {
	Create(ctx context.Context, reg *models.Registration) error
	HasLeaderConflict(ctx context.Context, tournamentID, normEmail, normRegNo string) (bool, error)
	CountByTournament(ctx context.Context, tournamentID string) (int, error)
	CountsByTournament(ctx context.Context, tournamentIDs []string) (map[string]int, error)
	CountAll(ctx context.Context) (int, error)
	ListByTournament(ctx context.Context, tournamentID string) ([]*models.Registration, error)
	ListWithTournamentByEmail(ctx context.Context, normEmail string) ([]*models.RegistrationWithTournament, error)
	TournamentIDsByLeaderEmail(ctx context.Context, normEmail string) ([]string, error)
}

type postgresRegistrationRepository struct {
	db SQLExecutor
}

func NewPostgresRegistrationRepository(db SQLExecutor) RegistrationRepository {
	return &postgresRegistrationRepository{db: db}
}

// Create вставляет заявку одной операцией. created_at проставляется БД в
// момент коммита, поэтому его порядок совпадает с порядком фиксации.
func (r *postgresRegistrationRepository) Create(ctx context.Context, reg *models.Registration) error {
	leaderJSON, err := json.Marshal(reg.Leader)
	if err != nil {
		return fmt.Errorf("failed to marshal leader: %w", err)
	}
	membersJSON, err := json.Marshal(reg.Members)
	if err != nil {
		return fmt.Errorf("failed to marshal members: %w", err)
	}

	query := `
		INSERT INTO registrations (id, tournament_id, team_name, university, phone, leader, members, created_at)
		VALUES ($1, $2, $3, $4, $5, $6::jsonb, $7::jsonb, NOW())
		RETURNING created_at`

	err = r.db.QueryRowContext(ctx, query,
		reg.ID,
		reg.TournamentID,
		reg.TeamName,
		reg.University,
		reg.Phone,
		leaderJSON,
		membersJSON,
	).Scan(&reg.CreatedAt)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			switch pqErr.Code {
			case "23505": // unique_violation
				if pqErr.Constraint == leaderEmailUniqueConstraint ||
					pqErr.Constraint == leaderRegNoUniqueConstraint {
					return ErrRegistrationConflict
				}
			case "23503": // foreign_key_violation
				if pqErr.Constraint == "registrations_tournament_id_fkey" {
					return ErrRegistrationTournamentInvalid
				}
			}
		}
		return fmt.Errorf("failed to create registration: %w", err)
	}
	return nil
}

// HasLeaderConflict проверяет, есть ли в турнире заявка с тем же
// нормализованным email или registrationNo лидера. Пустые идентификаторы
// в сравнении не участвуют.
func (r *postgresRegistrationRepository) HasLeaderConflict(ctx context.Context, tournamentID, normEmail, normRegNo string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM registrations
			WHERE tournament_id = $1
			  AND (
				($2 <> '' AND LOWER(BTRIM(leader ->> 'email')) = $2)
				OR ($3 <> '' AND LOWER(BTRIM(leader ->> 'registrationNo')) = $3)
			  )
		)`

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, tournamentID, normEmail, normRegNo).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check leader conflict: %w", err)
	}
	return exists, nil
}

func (r *postgresRegistrationRepository) CountByTournament(ctx context.Context, tournamentID string) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM registrations WHERE tournament_id = $1`
	if err := r.db.QueryRowContext(ctx, query, tournamentID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count registrations: %w", err)
	}
	return count, nil
}

// CountsByTournament возвращает количество заявок по турнирам. Пустой срез
// идентификаторов означает «по всем турнирам».
func (r *postgresRegistrationRepository) CountsByTournament(ctx context.Context, tournamentIDs []string) (map[string]int, error) {
	query := `SELECT tournament_id, COUNT(*) FROM registrations GROUP BY tournament_id`
	args := []interface{}{}
	if len(tournamentIDs) > 0 {
		query = `SELECT tournament_id, COUNT(*) FROM registrations WHERE tournament_id = ANY($1) GROUP BY tournament_id`
		args = append(args, pq.Array(tournamentIDs))
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to count registrations by tournament: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var id string
		var count int
		if err := rows.Scan(&id, &count); err != nil {
			return nil, fmt.Errorf("failed to scan registration count row: %w", err)
		}
		counts[id] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating registration count rows: %w", err)
	}
	return counts, nil
}

func (r *postgresRegistrationRepository) CountAll(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM registrations`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count registrations: %w", err)
	}
	return count, nil
}

func (r *postgresRegistrationRepository) ListByTournament(ctx context.Context, tournamentID string) ([]*models.Registration, error) {
	query := `
		SELECT id, tournament_id, team_name, university, phone, leader, members, created_at
		FROM registrations
		WHERE tournament_id = $1
		ORDER BY created_at ASC`

	rows, err := r.db.QueryContext(ctx, query, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list registrations by tournament: %w", err)
	}
	defer rows.Close()

	registrations := make([]*models.Registration, 0)
	for rows.Next() {
		reg, err := scanRegistration(rows)
		if err != nil {
			return nil, err
		}
		registrations = append(registrations, reg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating registration rows: %w", err)
	}
	return registrations, nil
}

// ListWithTournamentByEmail отдаёт заявки, где email встречается у лидера
// или у любого из участников, вместе с данными турнира (страница профиля).
func (r *postgresRegistrationRepository) ListWithTournamentByEmail(ctx context.Context, normEmail string) ([]*models.RegistrationWithTournament, error) {
	query := `
		SELECT
			r.id, r.tournament_id, r.team_name, r.university, r.phone, r.leader, r.members, r.created_at,
			t.id, t.title, t.date, t.location, t.slots, t.game, t.img, t.room_id, t.room_password, t.show_room, t.created_at
		FROM registrations r
		JOIN tournaments t ON t.id = r.tournament_id
		WHERE LOWER(BTRIM(r.leader ->> 'email')) = $1
		   OR EXISTS (
			SELECT 1 FROM jsonb_array_elements(r.members) m
			WHERE LOWER(BTRIM(m ->> 'email')) = $1
		   )
		ORDER BY r.created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, normEmail)
	if err != nil {
		return nil, fmt.Errorf("failed to list registrations by email: %w", err)
	}
	defer rows.Close()

	result := make([]*models.RegistrationWithTournament, 0)
	for rows.Next() {
		var rt models.RegistrationWithTournament
		var leaderJSON, membersJSON []byte
		err := rows.Scan(
			&rt.ID, &rt.TournamentID, &rt.TeamName, &rt.University, &rt.Phone, &leaderJSON, &membersJSON, &rt.CreatedAt,
			&rt.Tournament.ID, &rt.Tournament.Title, &rt.Tournament.Date, &rt.Tournament.Location,
			&rt.Tournament.Slots, &rt.Tournament.Game, &rt.Tournament.Img,
			&rt.Tournament.RoomID, &rt.Tournament.RoomPassword, &rt.Tournament.ShowRoom, &rt.Tournament.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan registration with tournament row: %w", err)
		}
		if err := json.Unmarshal(leaderJSON, &rt.Leader); err != nil {
			return nil, fmt.Errorf("failed to unmarshal leader: %w", err)
		}
		if err := json.Unmarshal(membersJSON, &rt.Members); err != nil {
			return nil, fmt.Errorf("failed to unmarshal members: %w", err)
		}
		result = append(result, &rt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating registration rows: %w", err)
	}
	return result, nil
}

func (r *postgresRegistrationRepository) TournamentIDsByLeaderEmail(ctx context.Context, normEmail string) ([]string, error) {
	query := `
		SELECT DISTINCT tournament_id
		FROM registrations
		WHERE LOWER(BTRIM(leader ->> 'email')) = $1`

	rows, err := r.db.QueryContext(ctx, query, normEmail)
	if err != nil {
		return nil, fmt.Errorf("failed to list registered tournament ids: %w", err)
	}
	defer rows.Close()

	ids := make([]string, 0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan tournament id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tournament id rows: %w", err)
	}
	return ids, nil
}

func scanRegistration(rows *sql.Rows) (*models.Registration, error) {
	var reg models.Registration
	var leaderJSON, membersJSON []byte
	err := rows.Scan(
		&reg.ID, &reg.TournamentID, &reg.TeamName, &reg.University, &reg.Phone,
		&leaderJSON, &membersJSON, &reg.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to scan registration row: %w", err)
	}
	if err := json.Unmarshal(leaderJSON, &reg.Leader); err != nil {
		return nil, fmt.Errorf("failed to unmarshal leader: %w", err)
	}
	if err := json.Unmarshal(membersJSON, &reg.Members); err != nil {
		return nil, fmt.Errorf("failed to unmarshal members: %w", err)
	}
	return &reg, nil
}
