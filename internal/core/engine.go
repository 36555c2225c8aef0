package core

import (
	"fmt"
	"time"

	"github.com/vovakirdan/roomrelay/internal/store"
	"github.com/vovakirdan/roomrelay/internal/utils"
)

// Outcome says what the engine did with a request.
type Outcome int

const (
	// OutcomeIgnored means nothing changed: unknown room or message, or missing fields.
	OutcomeIgnored Outcome = iota
	// OutcomeApplied means state changed and events were dispatched.
	OutcomeApplied
	// OutcomeDenied means the caller lacked permission and was told so.
	OutcomeDenied
)

func (o Outcome) String() string {
	switch o {
	case OutcomeApplied:
		return "applied"
	case OutcomeDenied:
		return "denied"
	default:
		return "ignored"
	}
}

// Stats is an aggregate view of engine state.
type Stats struct {
	Rooms         int
	Messages      int
	LastMessageID int64
}

// Engine applies room operations and assigns message ids.
// It holds no locks: every call must come from a single goroutine (see Hub).
type Engine struct {
	rooms    *Registry
	policy   Policy
	dispatch Dispatcher
	lastID   int64

	now       func() time.Time
	guestName func() string
}

// NewEngine creates an engine emitting events through d.
func NewEngine(d Dispatcher, policy Policy) *Engine {
	return &Engine{
		rooms:     NewRegistry(nil),
		policy:    policy,
		dispatch:  d,
		now:       time.Now,
		guestName: utils.GuestName,
	}
}

// Join creates the room when needed and returns the caller's view of it.
// The joined snapshot goes to the caller, a notice to the rest of the room.
func (e *Engine) Join(caller *Client, room, name, adminCode string) (*JoinedEvent, Outcome) {
	if room == "" {
		return nil, OutcomeIgnored
	}

	if name == "" {
		name = e.guestName()
	}

	r, created := e.rooms.GetOrCreate(room, adminCode)
	isAdmin := e.policy.GrantOnJoin(r, adminCode, created)

	joined := &JoinedEvent{
		UserID:   caller.Identity,
		UserName: name,
		IsAdmin:  isAdmin,
		Created:  created,
		History:  r.History(),
	}
	if isAdmin {
		joined.AdminCode = r.adminSecret
	}

	e.dispatch.ToCaller(caller, &Event{Kind: EventJoined, Room: room, User: name, Joined: joined})
	e.dispatch.ToRoomExceptCaller(room, caller, &Event{
		Kind: EventMemberJoined,
		Room: room,
		User: name,
		Text: fmt.Sprintf("%s has joined.", name),
	})
	return joined, OutcomeApplied
}

// Send stores a message in an existing room and broadcasts it to the room.
func (e *Engine) Send(caller *Client, room, name, text string) (store.Message, Outcome) {
	r, ok := e.rooms.Get(room)
	if !ok {
		return store.Message{}, OutcomeIgnored
	}

	e.lastID++
	msg := store.Message{
		ID:         e.lastID,
		Room:       room,
		SenderName: caller.displayName(room, name),
		SenderID:   caller.Identity,
		Text:       text,
		CreatedAt:  e.now(),
	}
	r.messages.Append(msg)

	e.dispatch.ToRoom(room, &Event{Kind: EventRoomMessage, Room: room, User: msg.SenderName, Message: msg})
	return msg, OutcomeApplied
}

// Delete removes a message if the caller is the room admin or the message's sender.
func (e *Engine) Delete(caller *Client, room string, messageID int64, adminCode string) Outcome {
	r, ok := e.rooms.Get(room)
	if !ok {
		return OutcomeIgnored
	}
	msg, ok := r.messages.Find(messageID)
	if !ok {
		return OutcomeIgnored
	}

	if !e.policy.CanDelete(r, msg, adminCode, caller.Identity) {
		e.deny(caller, room)
		return OutcomeDenied
	}

	r.messages.DeleteByID(messageID)
	e.dispatch.ToRoom(room, &Event{Kind: EventMessageDeleted, Room: room, MessageID: messageID})
	return OutcomeApplied
}

// Clear empties a room's history. Only the admin may do so.
func (e *Engine) Clear(caller *Client, room, adminCode string) Outcome {
	r, ok := e.rooms.Get(room)
	if !ok {
		return OutcomeIgnored
	}

	if !e.policy.CanClear(r, adminCode) {
		e.deny(caller, room)
		return OutcomeDenied
	}

	r.messages.Clear()
	e.dispatch.ToRoom(room, &Event{Kind: EventRoomCleared, Room: room})
	return OutcomeApplied
}

// Stats reports aggregate counts.
func (e *Engine) Stats() Stats {
	stats := Stats{Rooms: e.rooms.Len(), LastMessageID: e.lastID}
	e.rooms.Each(func(r *Room) {
		stats.Messages += r.Len()
	})
	return stats
}

func (e *Engine) deny(caller *Client, room string) {
	e.dispatch.ToCaller(caller, &Event{
		Kind: EventPermissionDenied,
		Room: room,
		Text: PermissionDeniedText,
	})
}
