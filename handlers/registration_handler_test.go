package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/Amanzhol04/esports-portal/live"
	"github.com/Amanzhol04/esports-portal/models"
	"github.com/Amanzhol04/esports-portal/repositories"
	"github.com/Amanzhol04/esports-portal/services"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Фейковые репозитории держат состояние в памяти; хендлеры тестируются
// поверх настоящего сервиса, чтобы проверить маппинг ошибок в статусы.

type memRegistrationRepo struct {
	mu   sync.Mutex
	regs []*models.Registration
}

func (m *memRegistrationRepo) Create(_ context.Context, reg *models.Registration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored := *reg
	stored.CreatedAt = time.Now()
	m.regs = append(m.regs, &stored)
	reg.CreatedAt = stored.CreatedAt
	return nil
}

func (m *memRegistrationRepo) HasLeaderConflict(_ context.Context, tournamentID, normEmail, normRegNo string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, reg := range m.regs {
		if reg.TournamentID != tournamentID {
			continue
		}
		if normEmail != "" && strings.EqualFold(strings.TrimSpace(reg.Leader.Email), normEmail) {
			return true, nil
		}
		if normRegNo != "" && strings.EqualFold(strings.TrimSpace(reg.Leader.RegistrationNo), normRegNo) {
			return true, nil
		}
	}
	return false, nil
}

func (m *memRegistrationRepo) CountByTournament(_ context.Context, tournamentID string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	count := 0
	for _, reg := range m.regs {
		if reg.TournamentID == tournamentID {
			count++
		}
	}
	return count, nil
}

func (m *memRegistrationRepo) CountsByTournament(_ context.Context, tournamentIDs []string) (map[string]int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	wanted := make(map[string]bool, len(tournamentIDs))
	for _, id := range tournamentIDs {
		wanted[id] = true
	}
	counts := make(map[string]int)
	for _, reg := range m.regs {
		if len(tournamentIDs) > 0 && !wanted[reg.TournamentID] {
			continue
		}
		counts[reg.TournamentID]++
	}
	return counts, nil
}

func (m *memRegistrationRepo) CountAll(_ context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.regs), nil
}

func (m *memRegistrationRepo) ListByTournament(_ context.Context, tournamentID string) ([]*models.Registration, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.Registration
	for _, reg := range m.regs {
		if reg.TournamentID == tournamentID {
			out = append(out, reg)
		}
	}
	return out, nil
}

func (m *memRegistrationRepo) ListWithTournamentByEmail(_ context.Context, _ string) ([]*models.RegistrationWithTournament, error) {
	return nil, nil
}

func (m *memRegistrationRepo) TournamentIDsByLeaderEmail(_ context.Context, normEmail string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	seen := make(map[string]bool)
	var ids []string
	for _, reg := range m.regs {
		if !strings.EqualFold(strings.TrimSpace(reg.Leader.Email), normEmail) {
			continue
		}
		if !seen[reg.TournamentID] {
			seen[reg.TournamentID] = true
			ids = append(ids, reg.TournamentID)
		}
	}
	return ids, nil
}

type memTournamentRepo struct {
	tournaments map[string]*models.Tournament
}

func (m *memTournamentRepo) Create(_ context.Context, t *models.Tournament) error {
	m.tournaments[t.ID] = t
	return nil
}

func (m *memTournamentRepo) GetByID(_ context.Context, id string) (*models.Tournament, error) {
	t, ok := m.tournaments[id]
	if !ok {
		return nil, repositories.ErrTournamentNotFound
	}
	copied := *t
	return &copied, nil
}

func (m *memTournamentRepo) List(_ context.Context) ([]models.Tournament, error) {
	var out []models.Tournament
	for _, t := range m.tournaments {
		out = append(out, *t)
	}
	return out, nil
}

func (m *memTournamentRepo) Update(_ context.Context, id string, _ repositories.TournamentUpdate) (*models.Tournament, error) {
	return m.GetByID(context.Background(), id)
}

func (m *memTournamentRepo) UpdateImg(_ context.Context, id string, img *string) error {
	t, ok := m.tournaments[id]
	if !ok {
		return repositories.ErrTournamentNotFound
	}
	t.Img = img
	return nil
}

func (m *memTournamentRepo) Delete(_ context.Context, id string) error {
	delete(m.tournaments, id)
	return nil
}

func (m *memTournamentRepo) Count(_ context.Context) (int, error) {
	return len(m.tournaments), nil
}

func newRegistrationTestRouter(t *testing.T, slots int) (http.Handler, *live.Hub) {
	t.Helper()

	tournamentRepo := &memTournamentRepo{tournaments: map[string]*models.Tournament{
		"t1": {ID: "t1", Title: "Spring Cup", Date: time.Now().Add(24 * time.Hour), Slots: slots},
	}}
	regRepo := &memRegistrationRepo{}

	registrationService := services.NewRegistrationService(regRepo, tournamentRepo, 4)
	hub := live.NewHub()
	go hub.Run()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	handler := NewRegistrationHandler(registrationService, nil, nil, hub, logger)

	router := chi.NewRouter()
	router.Post("/tournaments/{tournamentID}/register", handler.RegisterHandler)
	router.Get("/tournaments/counts", handler.CountsHandler)
	router.Get("/tournaments/registered", handler.RegisteredHandler)
	router.Get("/admin/tournaments/{tournamentID}/registrations", handler.ListByTournamentHandler)
	return router, hub
}

func registerBody(teamName, email, regNo string) []byte {
	body := map[string]interface{}{
		"team_name":  teamName,
		"university": "IITU",
		"leader": map[string]string{
			"name":           "Leader",
			"email":          email,
			"registrationNo": regNo,
			"gameId":         "leader#0001",
		},
		"members": []map[string]string{
			{"name": "Player One", "registrationNo": "22B000001", "gameId": "p1#1111"},
		},
	}
	data, _ := json.Marshal(body)
	return data
}

func doRegister(t *testing.T, router http.Handler, tournamentID string, body []byte) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/tournaments/"+tournamentID+"/register", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestRegisterHandlerCreated(t *testing.T) {
	router, _ := newRegistrationTestRouter(t, 16)

	rec := doRegister(t, router, "t1", registerBody("Alpha", "alpha@example.com", "22B1"))
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp struct {
		Registration models.Registration `json:"registration"`
		Count        int                 `json:"count"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "t1", resp.Registration.TournamentID)
	assert.Equal(t, "Alpha", resp.Registration.TeamName)
	assert.NotEmpty(t, resp.Registration.ID)
	assert.Equal(t, 1, resp.Count)
}

func TestRegisterHandlerTournamentNotFound(t *testing.T) {
	router, _ := newRegistrationTestRouter(t, 16)

	rec := doRegister(t, router, "missing", registerBody("Alpha", "a@example.com", "22B1"))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRegisterHandlerDuplicateConflict(t *testing.T) {
	router, _ := newRegistrationTestRouter(t, 16)

	rec := doRegister(t, router, "t1", registerBody("Alpha", "leader@example.com", "22B1"))
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doRegister(t, router, "t1", registerBody("Beta", "Leader@Example.com", "22B2"))
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestRegisterHandlerTournamentFull(t *testing.T) {
	router, _ := newRegistrationTestRouter(t, 1)

	rec := doRegister(t, router, "t1", registerBody("Alpha", "a@example.com", "22B1"))
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doRegister(t, router, "t1", registerBody("Beta", "b@example.com", "22B2"))
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestRegisterHandlerValidation(t *testing.T) {
	router, _ := newRegistrationTestRouter(t, 16)

	body := registerBody("", "a@example.com", "22B1")
	rec := doRegister(t, router, "t1", body)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var resp struct {
		Error map[string]string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp.Error, "team_name")
}

func TestRegisterHandlerMalformedBody(t *testing.T) {
	router, _ := newRegistrationTestRouter(t, 16)

	rec := doRegister(t, router, "t1", []byte(`{"team_name": `))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRegisterHandlerBroadcastsCount(t *testing.T) {
	router, hub := newRegistrationTestRouter(t, 16)

	client := &live.Client{Hub: hub, Send: make(chan []byte, 8), Room: "t1"}
	hub.Register <- client
	require.Eventually(t, func() bool { return hub.RoomSize("t1") == 1 }, time.Second, 10*time.Millisecond)

	rec := doRegister(t, router, "t1", registerBody("Alpha", "a@example.com", "22B1"))
	require.Equal(t, http.StatusCreated, rec.Code)

	select {
	case raw := <-client.Send:
		var update live.CountUpdate
		require.NoError(t, json.Unmarshal(raw, &update))
		assert.Equal(t, "t1", update.TournamentID)
		assert.Equal(t, 1, update.Count)
	case <-time.After(time.Second):
		t.Fatal("no count update broadcast after registration")
	}
}

func TestCountsHandler(t *testing.T) {
	router, _ := newRegistrationTestRouter(t, 16)

	for i := 0; i < 2; i++ {
		rec := doRegister(t, router, "t1", registerBody(
			fmt.Sprintf("Team %d", i),
			fmt.Sprintf("l%d@example.com", i),
			fmt.Sprintf("22B%d", i),
		))
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/tournaments/counts?ids=t1,t2", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var counts map[string]int
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &counts))
	assert.Equal(t, 2, counts["t1"])
}

func TestRegisteredHandler(t *testing.T) {
	router, _ := newRegistrationTestRouter(t, 16)

	rec := doRegister(t, router, "t1", registerBody("Alpha", "leader@example.com", "22B1"))
	require.Equal(t, http.StatusCreated, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/tournaments/registered?email=Leader@Example.com", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		TournamentIDs []string `json:"tournament_ids"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, []string{"t1"}, resp.TournamentIDs)
}

func TestListByTournamentHandler(t *testing.T) {
	router, _ := newRegistrationTestRouter(t, 16)

	rec := doRegister(t, router, "t1", registerBody("Alpha", "a@example.com", "22B1"))
	require.Equal(t, http.StatusCreated, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/admin/tournaments/t1/registrations", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Registrations []models.Registration `json:"registrations"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Registrations, 1)
	assert.Equal(t, "Alpha", resp.Registrations[0].TeamName)
}
