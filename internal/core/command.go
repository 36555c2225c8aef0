package core

// CommandKind describes what the client wants to do.
type CommandKind int

const (
	// CommandSendRoomMessage appends a chat message to an existing room.
	CommandSendRoomMessage CommandKind = iota
	// CommandJoinRoom creates the room if needed and subscribes the client to it.
	CommandJoinRoom
	// CommandLeaveRoom unsubscribes the client from a room.
	CommandLeaveRoom
	// CommandDeleteMessage removes one message if the caller is admin or its sender.
	CommandDeleteMessage
	// CommandClearRoom removes every message of a room; admin only.
	CommandClearRoom
	// CommandHello sets the client's default display name and, when given,
	// switches it to a previously issued session identity.
	CommandHello
)

func (k CommandKind) String() string {
	switch k {
	case CommandSendRoomMessage:
		return "send"
	case CommandJoinRoom:
		return "join"
	case CommandLeaveRoom:
		return "leave"
	case CommandDeleteMessage:
		return "delete"
	case CommandClearRoom:
		return "clear"
	case CommandHello:
		return "hello"
	default:
		return "unknown"
	}
}

// Command represents an action requested by a client.
type Command struct {
	Kind      CommandKind
	Room      string
	Name      string // display name for join and send
	Text      string
	MessageID int64
	AdminCode string
	Identity  string // for CommandHello, already verified by the transport
}
