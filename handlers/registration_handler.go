package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/Amanzhol04/esports-portal/live"
	"github.com/Amanzhol04/esports-portal/metrics"
	"github.com/Amanzhol04/esports-portal/services"
)

type RegistrationHandler struct {
	registrationService *services.RegistrationService
	tournamentService   *services.TournamentService
	emailService        *services.EmailService
	hub                 *live.Hub
	logger              *slog.Logger
}

func NewRegistrationHandler(
	registrationService *services.RegistrationService,
	tournamentService *services.TournamentService,
	emailService *services.EmailService,
	hub *live.Hub,
	logger *slog.Logger,
) *RegistrationHandler {
	return &RegistrationHandler{
		registrationService: registrationService,
		tournamentService:   tournamentService,
		emailService:        emailService,
		hub:                 hub,
		logger:              logger,
	}
}

// RegisterHandler обрабатывает POST /tournaments/{tournamentID}/register.
func (h *RegistrationHandler) RegisterHandler(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getStringParam(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.RegisterInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	registration, count, err := h.registrationService.Register(r.Context(), tournamentID, input)
	if err != nil {
		metrics.RegistrationAttempts.WithLabelValues(registrationOutcome(err)).Inc()
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	metrics.RegistrationAttempts.WithLabelValues(metrics.OutcomeAccepted).Inc()

	// Подписчики страницы турнира получают свежий счётчик сразу,
	// не дожидаясь следующего опроса.
	if h.hub != nil {
		h.hub.BroadcastCount(tournamentID, count)
	}

	if h.emailService != nil && h.emailService.Enabled() {
		tournament, tErr := h.tournamentService.GetByID(r.Context(), tournamentID)
		if tErr == nil {
			go func() {
				if sendErr := h.emailService.SendRegistrationConfirmation(registration, tournament, count); sendErr != nil {
					h.logger.Error("failed to send confirmation email",
						slog.String("registration_id", registration.ID),
						slog.Any("error", sendErr))
				}
			}()
		}
	}

	response := jsonResponse{
		"registration": registration,
		"count":        count,
	}
	if err := writeJSON(w, http.StatusCreated, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// CountsHandler обрабатывает GET /tournaments/counts. Необязательный
// параметр ids сужает выборку: ?ids=a,b,c.
func (h *RegistrationHandler) CountsHandler(w http.ResponseWriter, r *http.Request) {
	var ids []string
	if raw := r.URL.Query().Get("ids"); raw != "" {
		for _, id := range strings.Split(raw, ",") {
			if id = strings.TrimSpace(id); id != "" {
				ids = append(ids, id)
			}
		}
	}

	counts, err := h.registrationService.GetCounts(r.Context(), ids)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, counts, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// RegisteredHandler обрабатывает GET /tournaments/registered?email=...
func (h *RegistrationHandler) RegisteredHandler(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")

	ids, err := h.registrationService.GetRegisteredTournamentIDs(r.Context(), email)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"tournament_ids": ids}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ListByTournamentHandler — GET /admin/tournaments/{tournamentID}/registrations.
func (h *RegistrationHandler) ListByTournamentHandler(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getStringParam(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	registrations, err := h.registrationService.ListByTournament(r.Context(), tournamentID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"registrations": registrations}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func registrationOutcome(err error) string {
	switch {
	case errors.Is(err, services.ErrRegistrationConflict):
		return metrics.OutcomeDuplicate
	case errors.Is(err, services.ErrTournamentFull):
		return metrics.OutcomeFull
	case errors.Is(err, services.ErrValidationFailed):
		return metrics.OutcomeInvalid
	case errors.Is(err, services.ErrTournamentNotFound):
		return metrics.OutcomeNotFound
	default:
		return metrics.OutcomeStorageErr
	}
}
