package core

import (
	"context"

	"github.com/rs/zerolog"
)

// HubStats is a point-in-time view of the hub.
type HubStats struct {
	Stats
	Clients int
}

type envelope struct {
	client *Client
	cmd    *Command
}

// Hub serializes every client command onto a single goroutine. The engine,
// its registry and all room memberships are only touched from Run, so none
// of them need locks.
type Hub struct {
	engine *Engine
	log    *zerolog.Logger

	register   chan *Client
	unregister chan *Client
	inbox      chan envelope
	stats      chan chan HubStats
	done       chan struct{}

	clients map[*Client]struct{}
	rooms   map[string]members
}

// NewHub creates a hub applying policy to every room. A nil logger disables logging.
func NewHub(policy Policy, logger *zerolog.Logger) *Hub {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	h := &Hub{
		log:        logger,
		register:   make(chan *Client),
		unregister: make(chan *Client),
		inbox:      make(chan envelope, 256),
		stats:      make(chan chan HubStats),
		done:       make(chan struct{}),
		clients:    make(map[*Client]struct{}),
		rooms:      make(map[string]members),
	}
	h.engine = NewEngine((*hubDispatcher)(h), policy)
	return h
}

// Run processes commands until ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)

	for {
		select {
		case <-ctx.Done():
			h.log.Debug().Int("clients", len(h.clients)).Msg("hub stopped")
			return
		case c := <-h.register:
			h.addClient(ctx, c)
		case c := <-h.unregister:
			h.removeClient(c)
		case env := <-h.inbox:
			h.handle(env.client, env.cmd)
		case reply := <-h.stats:
			reply <- HubStats{Stats: h.engine.Stats(), Clients: len(h.clients)}
		}
	}
}

// RegisterClient attaches a client; its Commands start being processed.
func (h *Hub) RegisterClient(c *Client) {
	select {
	case h.register <- c:
	case <-h.done:
	}
}

// UnregisterClient detaches a client and drops its room memberships.
// Rooms and messages it created are kept.
func (h *Hub) UnregisterClient(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

// Stats asks the hub goroutine for aggregate counts.
func (h *Hub) Stats(ctx context.Context) (HubStats, error) {
	reply := make(chan HubStats, 1)
	select {
	case h.stats <- reply:
	case <-h.done:
		return HubStats{}, ErrHubStopped
	case <-ctx.Done():
		return HubStats{}, ctx.Err()
	}

	select {
	case s := <-reply:
		return s, nil
	case <-ctx.Done():
		return HubStats{}, ctx.Err()
	}
}

func (h *Hub) addClient(ctx context.Context, c *Client) {
	if _, ok := h.clients[c]; ok {
		return
	}
	h.clients[c] = struct{}{}
	go h.pump(ctx, c)
	h.log.Debug().Str("client_id", c.ID).Msg("client registered")
}

func (h *Hub) removeClient(c *Client) {
	if _, ok := h.clients[c]; !ok {
		return
	}
	delete(h.clients, c)
	for room := range c.Rooms {
		h.unsubscribe(room, c)
	}
	close(c.done)
	h.log.Debug().Str("client_id", c.ID).Msg("client unregistered")
}

// pump forwards one client's commands into the hub inbox, preserving their order.
func (h *Hub) pump(ctx context.Context, c *Client) {
	for {
		select {
		case cmd := <-c.Commands:
			if cmd == nil {
				continue
			}
			select {
			case h.inbox <- envelope{client: c, cmd: cmd}:
			case <-c.done:
				return
			case <-ctx.Done():
				return
			}
		case <-c.done:
			return
		case <-ctx.Done():
			return
		}
	}
}

func (h *Hub) handle(c *Client, cmd *Command) {
	// Commands may still be queued for a client that has just been unregistered.
	if _, ok := h.clients[c]; !ok {
		return
	}

	var outcome Outcome
	switch cmd.Kind {
	case CommandJoinRoom:
		var joined *JoinedEvent
		joined, outcome = h.engine.Join(c, cmd.Room, cmd.Name, cmd.AdminCode)
		if outcome == OutcomeApplied {
			c.Rooms[cmd.Room] = joined.UserName
			h.subscribe(cmd.Room, c)
			if joined.Created {
				h.log.Info().Str("room", cmd.Room).Str("client_id", c.ID).Msg("room created")
			}
		}
	case CommandLeaveRoom:
		outcome = h.leave(c, cmd.Room)
	case CommandSendRoomMessage:
		_, outcome = h.engine.Send(c, cmd.Room, cmd.Name, cmd.Text)
	case CommandDeleteMessage:
		outcome = h.engine.Delete(c, cmd.Room, cmd.MessageID, cmd.AdminCode)
	case CommandClearRoom:
		outcome = h.engine.Clear(c, cmd.Room, cmd.AdminCode)
	case CommandHello:
		if cmd.Name != "" {
			c.Name = cmd.Name
			outcome = OutcomeApplied
		}
		if cmd.Identity != "" {
			c.Identity = cmd.Identity
			outcome = OutcomeApplied
		}
	default:
		h.log.Warn().Int("kind", int(cmd.Kind)).Str("client_id", c.ID).Msg("unknown command kind")
		return
	}

	ev := h.log.Debug()
	if outcome == OutcomeDenied {
		ev = h.log.Info()
	}
	ev.Str("command", cmd.Kind.String()).
		Str("room", cmd.Room).
		Str("client_id", c.ID).
		Stringer("outcome", outcome).
		Msg("command processed")
}

func (h *Hub) leave(c *Client, room string) Outcome {
	name, joined := c.Rooms[room]
	if !joined {
		return OutcomeIgnored
	}
	delete(c.Rooms, room)
	h.unsubscribe(room, c)

	if m, ok := h.rooms[room]; ok {
		m.broadcast(&Event{
			Kind: EventMemberLeft,
			Room: room,
			User: name,
			Text: name + " has left.",
		}, nil)
	}
	return OutcomeApplied
}

func (h *Hub) subscribe(room string, c *Client) {
	m, ok := h.rooms[room]
	if !ok {
		m = make(members)
		h.rooms[room] = m
	}
	m.add(c)
}

func (h *Hub) unsubscribe(room string, c *Client) {
	m, ok := h.rooms[room]
	if !ok {
		return
	}
	m.remove(c)
	if len(m) == 0 {
		delete(h.rooms, room)
	}
}

// hubDispatcher delivers engine events using the hub's memberships.
// Its methods run on the hub goroutine only.
type hubDispatcher Hub

func (d *hubDispatcher) ToCaller(caller *Client, ev *Event) {
	if !deliver(caller, ev) {
		d.log.Debug().Str("client_id", caller.ID).Stringer("event", ev.Kind).Msg("dropped event for slow client")
	}
}

func (d *hubDispatcher) ToRoomExceptCaller(room string, caller *Client, ev *Event) {
	d.fanout(room, ev, caller)
}

func (d *hubDispatcher) ToRoom(room string, ev *Event) {
	d.fanout(room, ev, nil)
}

func (d *hubDispatcher) fanout(room string, ev *Event, skip *Client) {
	m, ok := d.rooms[room]
	if !ok {
		return
	}
	if dropped := m.broadcast(ev, skip); dropped > 0 {
		d.log.Debug().Str("room", room).Int("dropped", dropped).Stringer("event", ev.Kind).Msg("dropped events for slow clients")
	}
}
