package models

import "time"

type Game struct {
	ID        string    `json:"id" db:"id"`
	Title     string    `json:"title" db:"title"`
	Img       *string   `json:"img,omitempty" db:"img"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
