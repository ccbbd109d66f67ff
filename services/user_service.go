package services

import (
	"context"
	"errors"
	"strings"

	"github.com/Amanzhol04/esports-portal/models"
	"github.com/Amanzhol04/esports-portal/repositories"
	"github.com/google/uuid"
)

// IdentityCallbackInput — данные, которые внешний провайдер идентичности
// присылает после успешного входа пользователя. Email считается проверенным.
type IdentityCallbackInput struct {
	ExternalID string  `json:"external_id"`
	Email      string  `json:"email"`
	Name       *string `json:"name,omitempty"`
	Image      *string `json:"image,omitempty"`
}

// Profile — пользователь вместе с его заявками (как лидер или участник).
type Profile struct {
	User          *models.User                         `json:"user"`
	Registrations []*models.RegistrationWithTournament `json:"registrations"`
}

type UserService struct {
	userRepo repositories.UserRepository
	regRepo  repositories.RegistrationRepository
}

func NewUserService(userRepo repositories.UserRepository, regRepo repositories.RegistrationRepository) *UserService {
	return &UserService{userRepo: userRepo, regRepo: regRepo}
}

// SyncIdentity создаёт или обновляет пользователя по callback'у провайдера.
func (s *UserService) SyncIdentity(ctx context.Context, input IdentityCallbackInput) (*models.User, error) {
	if strings.TrimSpace(input.ExternalID) == "" {
		return nil, validationError("external_id", "required")
	}

	user := &models.User{
		ID:         uuid.NewString(),
		ExternalID: input.ExternalID,
		Email:      normalizeIdentifier(input.Email),
		Name:       input.Name,
		Image:      input.Image,
	}
	if err := s.userRepo.Upsert(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// GetProfile возвращает пользователя и его заявки по email. Пользователь
// может отсутствовать (регистрация без входа) — это не ошибка, заявки всё
// равно ищутся по email.
func (s *UserService) GetProfile(ctx context.Context, email string) (*Profile, error) {
	normEmail := normalizeIdentifier(email)
	if normEmail == "" {
		return nil, validationError("email", "required")
	}

	user, err := s.userRepo.GetByEmail(ctx, normEmail)
	if err != nil && !errors.Is(err, repositories.ErrUserNotFound) {
		return nil, err
	}

	registrations, err := s.regRepo.ListWithTournamentByEmail(ctx, normEmail)
	if err != nil {
		return nil, err
	}

	for _, rt := range registrations {
		rt.Tournament = rt.Tournament.Sanitized()
	}

	return &Profile{User: user, Registrations: registrations}, nil
}

// CountUsers — метрика для админ-панели.
func (s *UserService) CountUsers(ctx context.Context) (int, error) {
	return s.userRepo.Count(ctx)
}
