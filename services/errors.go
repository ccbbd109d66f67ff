package services

import (
	"errors"
	"fmt"
)

// Общие ошибки сервисного слоя, используемые в маппинге HTTP.
var (
	// Ресурсы
	ErrTournamentNotFound = errors.New("tournament not found")
	ErrGameNotFound       = errors.New("game not found")
	ErrUserNotFound       = errors.New("user not found")

	// Валидация и бизнес-правила
	ErrValidationFailed          = errors.New("validation failed")
	ErrRegistrationConflict      = errors.New("team leader is already registered for this tournament")
	ErrTournamentFull            = errors.New("tournament registration is full")
	ErrTournamentInvalidCapacity = errors.New("tournament slots must be positive")
	ErrGameTitleRequired         = errors.New("game title is required")
	ErrTournamentTitleRequired   = errors.New("tournament title is required")

	// Аутентификация
	ErrInvalidCredentials = errors.New("invalid admin password")
	ErrInvalidToken       = errors.New("invalid or expired token")

	// Инфраструктура
	ErrStorageUnavailable = errors.New("storage unavailable")
	ErrUploadsDisabled    = errors.New("file uploads are not configured")
)

// ValidationError указывает конкретное поле, провалившее проверку, чтобы
// клиент мог показать адресное сообщение.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidationFailed
}

func validationError(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}
