package core

import (
	"time"

	"github.com/vovakirdan/roomrelay/internal/utils"
)

// SecretFunc produces admin secrets for rooms created without one.
type SecretFunc func() string

// Registry maps room ids to rooms. Rooms are created lazily by joins only
// and are never removed. It is not safe for concurrent use.
type Registry struct {
	rooms     map[string]*Room
	newSecret SecretFunc
	now       func() time.Time
}

// NewRegistry creates an empty registry. A nil generator uses utils.NewSecret.
func NewRegistry(newSecret SecretFunc) *Registry {
	if newSecret == nil {
		newSecret = utils.NewSecret
	}
	return &Registry{
		rooms:     make(map[string]*Room),
		newSecret: newSecret,
		now:       time.Now,
	}
}

// GetOrCreate returns the room for id, creating it when absent.
// A new room takes suppliedSecret as its admin secret, or a generated one when
// suppliedSecret is empty. An existing room is never re-keyed.
func (r *Registry) GetOrCreate(id, suppliedSecret string) (*Room, bool) {
	if room, ok := r.rooms[id]; ok {
		return room, false
	}

	secret := suppliedSecret
	if secret == "" {
		secret = r.newSecret()
	}
	room := newRoom(id, secret, r.now())
	r.rooms[id] = room
	return room, true
}

// Get looks up an existing room without creating it.
func (r *Registry) Get(id string) (*Room, bool) {
	room, ok := r.rooms[id]
	return room, ok
}

// Len returns the number of rooms.
func (r *Registry) Len() int {
	return len(r.rooms)
}

// Each calls fn for every room in unspecified order.
func (r *Registry) Each(fn func(*Room)) {
	for _, room := range r.rooms {
		fn(room)
	}
}
