package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome labels for RegistrationAttempts.
const (
	OutcomeAccepted   = "accepted"
	OutcomeDuplicate  = "duplicate"
	OutcomeFull       = "full"
	OutcomeInvalid    = "invalid"
	OutcomeNotFound   = "not_found"
	OutcomeStorageErr = "storage_error"
)

var (
	// RegistrationAttempts считает попытки регистрации по исходу.
	RegistrationAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "registration_attempts_total",
		Help: "Registration attempts partitioned by outcome.",
	}, []string{"outcome"})

	// RegisteredTeams — текущее число заявок на турнир; обновляется
	// планировщиком в main.
	RegisteredTeams = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "tournament_registered_teams",
		Help: "Current number of registered teams per tournament.",
	}, []string{"tournament_id"})
)
