package models

// DashboardStats агрегирует показатели для админ-панели.
type DashboardStats struct {
	TotalUsers                int            `json:"total_users"`
	TotalTournaments          int            `json:"total_tournaments"`
	TotalRegistrations        int            `json:"total_registrations"`
	RegistrationsByTournament map[string]int `json:"registrations_by_tournament"`
}
