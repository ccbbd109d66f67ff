package models

import "time"

// User — учётная запись, подтверждённая внешним провайдером идентичности.
// Пароли здесь не хранятся: провайдер отдаёт уже проверенный email.
type User struct {
	ID         string    `json:"id" db:"id"`
	ExternalID string    `json:"external_id" db:"external_id"`
	Email      string    `json:"email" db:"email"`
	Name       *string   `json:"name,omitempty" db:"name"`
	Image      *string   `json:"image,omitempty" db:"image"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}
