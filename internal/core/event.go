package core

import "github.com/vovakirdan/roomrelay/internal/store"

// EventKind is a notification the core emits to clients.
type EventKind int

const (
	// EventJoined answers a join with the room snapshot.
	EventJoined EventKind = iota
	// EventMemberJoined tells the rest of a room that someone joined.
	EventMemberJoined
	// EventMemberLeft tells the rest of a room that someone left.
	EventMemberLeft
	// EventRoomMessage carries a newly stored message.
	EventRoomMessage
	// EventMessageDeleted carries the id of a removed message.
	EventMessageDeleted
	// EventRoomCleared says every message of the room was removed.
	EventRoomCleared
	// EventPermissionDenied is sent to a caller whose delete or clear was refused.
	EventPermissionDenied
)

func (k EventKind) String() string {
	switch k {
	case EventJoined:
		return "joined"
	case EventMemberJoined:
		return "member_joined"
	case EventMemberLeft:
		return "member_left"
	case EventRoomMessage:
		return "message"
	case EventMessageDeleted:
		return "message_deleted"
	case EventRoomCleared:
		return "room_cleared"
	case EventPermissionDenied:
		return "permission_denied"
	default:
		return "unknown"
	}
}

// Event is sent to clients to describe what happened in the system.
type Event struct {
	Kind      EventKind
	Room      string
	User      string // display name the event is about
	Text      string // human readable notice
	Message   store.Message
	MessageID int64
	Joined    *JoinedEvent // non-nil for EventJoined
}

// JoinedEvent is the snapshot handed to a client that joined a room.
type JoinedEvent struct {
	UserID    string
	UserName  string
	IsAdmin   bool
	AdminCode string // set only when IsAdmin
	Created   bool
	History   []store.Message
}
