package models

import "time"

// Tournament представляет турнир, открытый для командной регистрации.
type Tournament struct {
	ID           string    `json:"id" db:"id"`
	Title        string    `json:"title" db:"title"`
	Date         time.Time `json:"date" db:"date"`
	Location     *string   `json:"location,omitempty" db:"location"`
	Slots        int       `json:"slots" db:"slots"`
	Game         *string   `json:"game,omitempty" db:"game"`
	Img          *string   `json:"img,omitempty" db:"img"`
	RoomID       *string   `json:"room_id,omitempty" db:"room_id"`
	RoomPassword *string   `json:"room_password,omitempty" db:"room_password"`
	ShowRoom     bool      `json:"show_room" db:"show_room"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// Sanitized returns a copy safe for unauthenticated responses: lobby
// credentials are stripped until the organizer reveals them.
func (t Tournament) Sanitized() Tournament {
	if !t.ShowRoom {
		t.RoomID = nil
		t.RoomPassword = nil
	}
	return t
}
