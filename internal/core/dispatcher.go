package core

// Dispatcher delivers engine decisions to connected clients.
// Delivery is fire-and-forget: implementations must not block and the engine
// never learns whether a recipient received an event.
type Dispatcher interface {
	// ToCaller delivers ev to the requesting client only.
	ToCaller(caller *Client, ev *Event)
	// ToRoomExceptCaller delivers ev to every member of room other than caller.
	ToRoomExceptCaller(room string, caller *Client, ev *Event)
	// ToRoom delivers ev to every member of room, caller included.
	ToRoom(room string, ev *Event)
}
