package core

// DefaultClientBuffer is the channel size used when NewClient gets a non-positive buffer.
const DefaultClientBuffer = 64

// Client is a connected participant as seen by the core layer.
// Identity and Rooms are owned by the hub goroutine once the client is registered.
type Client struct {
	ID       string // connection id
	Identity string // sender identity used for self-delete checks
	Name     string
	Commands chan *Command
	Events   chan *Event
	Rooms    map[string]string // room id -> display name used in that room

	done chan struct{}
}

// NewClient constructs a client with initialized channels.
func NewClient(id, name string, buffer int) *Client {
	if buffer <= 0 {
		buffer = DefaultClientBuffer
	}
	return &Client{
		ID:       id,
		Identity: id,
		Name:     name,
		Commands: make(chan *Command, buffer),
		Events:   make(chan *Event, buffer),
		Rooms:    make(map[string]string),
		done:     make(chan struct{}),
	}
}

// Done is closed once the hub has unregistered the client.
func (c *Client) Done() <-chan struct{} {
	return c.done
}

// displayName picks the name to show for the client in room.
func (c *Client) displayName(room, supplied string) string {
	if supplied != "" {
		return supplied
	}
	if name, ok := c.Rooms[room]; ok {
		return name
	}
	return c.Name
}
