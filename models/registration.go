package models

import "time"

// TeamMember описывает одного участника команды. Для лидера email и
// registrationNo используются при проверке повторной регистрации,
// поэтому ключи JSON должны совпадать с выражениями в индексах БД.
type TeamMember struct {
	Name           string `json:"name"`
	Email          string `json:"email,omitempty"`
	RegistrationNo string `json:"registrationNo"`
	GameID         string `json:"gameId"`
}

// Registration — заявка команды на турнир. Создаётся один раз и не
// редактируется; удаляется только каскадом при удалении турнира.
type Registration struct {
	ID           string       `json:"id" db:"id"`
	TournamentID string       `json:"tournament_id" db:"tournament_id"`
	TeamName     string       `json:"team_name" db:"team_name"`
	University   string       `json:"university" db:"university"`
	Phone        *string      `json:"phone,omitempty" db:"phone"`
	Leader       TeamMember   `json:"leader" db:"-"`
	Members      []TeamMember `json:"members" db:"-"`
	CreatedAt    time.Time    `json:"created_at" db:"created_at"`
}

// RegistrationWithTournament is the profile-page projection: a registration
// joined with the tournament it belongs to.
type RegistrationWithTournament struct {
	Registration
	Tournament Tournament `json:"tournament"`
}
