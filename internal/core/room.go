package core

import (
	"time"

	"github.com/vovakirdan/roomrelay/internal/store"
)

// Room is the state kept for one room id: its admin secret and message history.
// A room lives until the process exits.
type Room struct {
	ID        string
	CreatedAt time.Time

	adminSecret string
	messages    *store.MessageStore
}

func newRoom(id, secret string, now time.Time) *Room {
	return &Room{
		ID:          id,
		CreatedAt:   now,
		adminSecret: secret,
		messages:    store.NewMessageStore(),
	}
}

// History returns a copy of the room's messages in append order.
func (r *Room) History() []store.Message {
	return r.messages.History()
}

// Len returns the number of messages currently stored in the room.
func (r *Room) Len() int {
	return r.messages.Len()
}

// HasAdminSecret reports whether the room can have an admin at all.
func (r *Room) HasAdminSecret() bool {
	return r.adminSecret != ""
}
