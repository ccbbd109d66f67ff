package live

import (
	"encoding/json"
	"log"
	"sync"
)

// CountUpdate — сообщение о новом количестве заявок в турнире. Рассылается
// после фиксации заявки; канонический способ чтения остаётся опрос HTTP.
type CountUpdate struct {
	Type         string `json:"type"`
	TournamentID string `json:"tournament_id"`
	Count        int    `json:"count"`
}

const countUpdatedType = "COUNT_UPDATED"

// Hub держит подписчиков по комнатам; одна комната — один турнир.
type Hub struct {
	Register   chan *Client
	Unregister chan *Client

	rooms map[string]map[*Client]bool
	mu    sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		rooms:      make(map[string]map[*Client]bool),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			h.mu.Lock()
			if _, ok := h.rooms[client.Room]; !ok {
				h.rooms[client.Room] = make(map[*Client]bool)
			}
			h.rooms[client.Room][client] = true
			h.mu.Unlock()

		case client := <-h.Unregister:
			h.mu.Lock()
			if clients, ok := h.rooms[client.Room]; ok {
				if _, registered := clients[client]; registered {
					client.closeSend()
					delete(clients, client)
					if len(clients) == 0 {
						delete(h.rooms, client.Room)
					}
				}
			}
			h.mu.Unlock()
		}
	}
}

// BroadcastCount рассылает свежий счётчик всем подписчикам турнира.
// Медленные клиенты пропускаются, а не блокируют рассылку.
func (h *Hub) BroadcastCount(tournamentID string, count int) {
	message, err := json.Marshal(CountUpdate{
		Type:         countUpdatedType,
		TournamentID: tournamentID,
		Count:        count,
	})
	if err != nil {
		log.Printf("live: failed to marshal count update for tournament %s: %v", tournamentID, err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.rooms[tournamentID] {
		client.Mu.Lock()
		if !client.IsClosed {
			select {
			case client.Send <- message:
			default:
				log.Printf("live: send channel full for tournament %s, skipping client", tournamentID)
			}
		}
		client.Mu.Unlock()
	}
}

// RoomSize — число подписчиков комнаты (используется в тестах).
func (h *Hub) RoomSize(tournamentID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[tournamentID])
}
