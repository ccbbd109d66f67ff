package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/Amanzhol04/esports-portal/models"
	"github.com/Amanzhol04/esports-portal/repositories"
	"github.com/google/uuid"
)

// DefaultMaxTeamMembers ограничивает размер команды без учёта лидера.
const DefaultMaxTeamMembers = 4

// RegisterInput — тело заявки от клиента.
type RegisterInput struct {
	TeamName   string              `json:"team_name"`
	University string              `json:"university"`
	Phone      *string             `json:"phone,omitempty"`
	Leader     models.TeamMember   `json:"leader"`
	Members    []models.TeamMember `json:"members"`
}

// RegistrationService ведёт реестр заявок: проверяет вместимость турнира и
// повторную регистрацию лидера, затем атомарно фиксирует заявку.
//
// Критическая секция (дубликат → вместимость → вставка) сериализуется
// per-tournament мьютексом; заявки в разные турниры идут параллельно.
// Уникальные индексы в БД остаются второй линией защиты от дубликатов.
type RegistrationService struct {
	regRepo        repositories.RegistrationRepository
	tournamentRepo repositories.TournamentRepository
	maxTeamMembers int

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewRegistrationService(
	regRepo repositories.RegistrationRepository,
	tournamentRepo repositories.TournamentRepository,
	maxTeamMembers int,
) *RegistrationService {
	if maxTeamMembers <= 0 {
		maxTeamMembers = DefaultMaxTeamMembers
	}
	return &RegistrationService{
		regRepo:        regRepo,
		tournamentRepo: tournamentRepo,
		maxTeamMembers: maxTeamMembers,
		locks:          make(map[string]*sync.Mutex),
	}
}

// Register проверяет и фиксирует заявку. Возвращает созданную заявку и
// количество заявок в турнире после вставки, чтобы клиент сразу показал
// "X / slots" без второго запроса.
func (s *RegistrationService) Register(ctx context.Context, tournamentID string, input RegisterInput) (*models.Registration, int, error) {
	if err := s.validateInput(input); err != nil {
		return nil, 0, err
	}

	normEmail := normalizeIdentifier(input.Leader.Email)
	normRegNo := normalizeIdentifier(input.Leader.RegistrationNo)

	lock := s.lockFor(tournamentID)
	lock.Lock()
	defer lock.Unlock()

	tournament, err := s.tournamentRepo.GetByID(ctx, tournamentID)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, 0, ErrTournamentNotFound
		}
		return nil, 0, fmt.Errorf("%w: loading tournament: %v", ErrStorageUnavailable, err)
	}

	// Без email и registrationNo защита от дубликата невозможна — такая
	// заявка пропускается осознанно, а не «безопасно».
	if normEmail != "" || normRegNo != "" {
		conflict, err := s.regRepo.HasLeaderConflict(ctx, tournamentID, normEmail, normRegNo)
		if err != nil {
			// fail-closed: при ошибке предварительной проверки заявка
			// отклоняется, а не проскакивает до unique-индекса.
			return nil, 0, fmt.Errorf("%w: duplicate pre-check: %v", ErrStorageUnavailable, err)
		}
		if conflict {
			return nil, 0, ErrRegistrationConflict
		}
	}

	count, err := s.regRepo.CountByTournament(ctx, tournamentID)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: counting registrations: %v", ErrStorageUnavailable, err)
	}
	if count >= tournament.Slots {
		return nil, 0, ErrTournamentFull
	}

	reg := &models.Registration{
		ID:           uuid.NewString(),
		TournamentID: tournamentID,
		TeamName:     strings.TrimSpace(input.TeamName),
		University:   strings.TrimSpace(input.University),
		Phone:        input.Phone,
		Leader:       input.Leader,
		Members:      input.Members,
	}

	if err := s.regRepo.Create(ctx, reg); err != nil {
		switch {
		case errors.Is(err, repositories.ErrRegistrationConflict):
			return nil, 0, ErrRegistrationConflict
		case errors.Is(err, repositories.ErrRegistrationTournamentInvalid):
			return nil, 0, ErrTournamentNotFound
		}
		return nil, 0, fmt.Errorf("%w: creating registration: %v", ErrStorageUnavailable, err)
	}

	return reg, count + 1, nil
}

// GetCounts возвращает количество заявок по турнирам; пустой срез означает все турниры.
func (s *RegistrationService) GetCounts(ctx context.Context, tournamentIDs []string) (map[string]int, error) {
	counts, err := s.regRepo.CountsByTournament(ctx, tournamentIDs)
	if err != nil {
		return nil, fmt.Errorf("%w: counting registrations: %v", ErrStorageUnavailable, err)
	}
	return counts, nil
}

// GetRegisteredTournamentIDs возвращает турниры, где лидер с этим email уже
// подал заявку. Пустой email даёт пустой результат.
func (s *RegistrationService) GetRegisteredTournamentIDs(ctx context.Context, leaderEmail string) ([]string, error) {
	normEmail := normalizeIdentifier(leaderEmail)
	if normEmail == "" {
		return []string{}, nil
	}
	ids, err := s.regRepo.TournamentIDsByLeaderEmail(ctx, normEmail)
	if err != nil {
		return nil, fmt.Errorf("%w: listing registered tournaments: %v", ErrStorageUnavailable, err)
	}
	return ids, nil
}

// ListByTournament — список заявок турнира для админ-панели (createdAt asc).
func (s *RegistrationService) ListByTournament(ctx context.Context, tournamentID string) ([]*models.Registration, error) {
	if _, err := s.tournamentRepo.GetByID(ctx, tournamentID); err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("%w: loading tournament: %v", ErrStorageUnavailable, err)
	}
	regs, err := s.regRepo.ListByTournament(ctx, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("%w: listing registrations: %v", ErrStorageUnavailable, err)
	}
	return regs, nil
}

func (s *RegistrationService) validateInput(input RegisterInput) error {
	if strings.TrimSpace(input.TeamName) == "" {
		return validationError("team_name", "required")
	}
	if strings.TrimSpace(input.University) == "" {
		return validationError("university", "required")
	}
	if strings.TrimSpace(input.Leader.Name) == "" {
		return validationError("leader.name", "required")
	}
	if len(input.Members) == 0 {
		return validationError("members", "at least one member is required")
	}
	if len(input.Members) > s.maxTeamMembers {
		return validationError("members", fmt.Sprintf("at most %d members are allowed", s.maxTeamMembers))
	}
	for i, m := range input.Members {
		if strings.TrimSpace(m.Name) == "" {
			return validationError(fmt.Sprintf("members[%d].name", i), "required")
		}
		if strings.TrimSpace(m.RegistrationNo) == "" {
			return validationError(fmt.Sprintf("members[%d].registrationNo", i), "required")
		}
		if strings.TrimSpace(m.GameID) == "" {
			return validationError(fmt.Sprintf("members[%d].gameId", i), "required")
		}
	}
	return nil
}

// lockFor отдаёт мьютекс конкретного турнира; мьютексы создаются лениво и
// не удаляются — число турниров ограничено.
func (s *RegistrationService) lockFor(tournamentID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.locks[tournamentID]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[tournamentID] = lock
	}
	return lock
}
