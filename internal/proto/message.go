package proto

import "encoding/json"

// Inbound is the envelope for messages coming from the client.
type Inbound struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

const (
	ProtocolVersion = 1

	InboundTypeHello  = "hello"
	InboundTypeJoin   = "join"
	InboundTypeLeave  = "leave"
	InboundTypeMsg    = "msg"
	InboundTypeDelete = "delete"
	InboundTypeClear  = "clear"

	OutboundTypeEvent = "event"
	OutboundTypeError = "error"

	EventNameSession          = "session"
	EventNameJoined           = "joined"
	EventNameMemberJoined     = "member_joined"
	EventNameMemberLeft       = "member_left"
	EventNameMessage          = "message"
	EventNameMessageDeleted   = "message_deleted"
	EventNameRoomCleared      = "room_cleared"
	EventNamePermissionDenied = "permission_denied"
)

// HelloData is sent by the client to introduce itself or resume a session.
type HelloData struct {
	User     string `json:"user"`
	Token    string `json:"token,omitempty"`
	Protocol int    `json:"protocol,omitempty"`
}

// JoinData requests to join (and possibly create) a room.
type JoinData struct {
	Room      string `json:"room"`
	User      string `json:"user,omitempty"`
	AdminCode string `json:"admin_code,omitempty"`
}

// LeaveData requests to stop receiving a room's events.
type LeaveData struct {
	Room string `json:"room"`
}

// MsgData is a chat message from the client.
type MsgData struct {
	Room string `json:"room"`
	User string `json:"user,omitempty"`
	Text string `json:"text"`
}

// DeleteData asks to remove one message.
type DeleteData struct {
	Room      string `json:"room"`
	MessageID int64  `json:"message_id"`
	AdminCode string `json:"admin_code,omitempty"`
}

// ClearData asks to remove every message of a room.
type ClearData struct {
	Room      string `json:"room"`
	AdminCode string `json:"admin_code,omitempty"`
}

// Outbound is the envelope for messages sent to the client.
type Outbound struct {
	Type  string `json:"type"`
	Event string `json:"event,omitempty"`
	Data  any    `json:"data,omitempty"`
	Error *Error `json:"error,omitempty"`
}

// EventSessionData tells the client which identity it acts as and how to resume it.
type EventSessionData struct {
	Identity string `json:"identity"`
	Token    string `json:"token"`
	Protocol int    `json:"protocol"`
}

// EventMessage is a stored chat message.
type EventMessage struct {
	ID       int64  `json:"id"`
	Room     string `json:"room"`
	User     string `json:"user"`
	SenderID string `json:"sender_id"`
	Text     string `json:"text"`
	Time     string `json:"time"`
	TS       int64  `json:"ts"`
}

// EventJoined answers a join request.
type EventJoined struct {
	Room      string         `json:"room"`
	UserID    string         `json:"user_id"`
	User      string         `json:"user"`
	IsAdmin   bool           `json:"is_admin"`
	AdminCode string         `json:"admin_code,omitempty"`
	History   []EventMessage `json:"history"`
}

// EventNotice is a human readable system notice about a room.
type EventNotice struct {
	Room string `json:"room"`
	User string `json:"user,omitempty"`
	Text string `json:"text"`
}

// EventMessageDeleted names a removed message.
type EventMessageDeleted struct {
	Room      string `json:"room"`
	MessageID int64  `json:"message_id"`
}

// EventRoomCleared says a room's history was emptied.
type EventRoomCleared struct {
	Room string `json:"room"`
}

// Error describes a protocol-level error response.
type Error struct {
	Code string `json:"code"`
	Msg  string `json:"msg"`
}
