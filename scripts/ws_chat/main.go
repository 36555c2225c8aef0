package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/vovakirdan/roomrelay/internal/proto"
)

// frame is an outbound message with its payload left raw.
type frame struct {
	Type  string          `json:"type"`
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
	Error *proto.Error    `json:"error"`
}

func main() {
	if err := run(); err != nil {
		log.Printf("ws_chat: %v", err)
		os.Exit(1)
	}
}

func run() error {
	addr := flag.String("addr", "ws://localhost:8080/ws", "WebSocket address")
	user := flag.String("user", "cli-user", "username")
	room := flag.String("room", "general", "room to join")
	adminCode := flag.String("admin-code", "", "admin code for the room")
	token := flag.String("token", "", "session token to resume")
	flag.Parse()

	baseCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(baseCtx)
	defer cancel()

	conn, _, err := websocket.Dial(ctx, *addr, nil)
	if err != nil {
		return fmt.Errorf("dial: %w", err)
	}
	defer conn.Close(websocket.StatusNormalClosure, "bye")

	c := &chat{conn: conn, room: *room, user: *user, adminCode: *adminCode}
	if err := c.send(ctx, proto.InboundTypeHello, proto.HelloData{User: *user, Token: *token, Protocol: proto.ProtocolVersion}); err != nil {
		return err
	}
	if err := c.send(ctx, proto.InboundTypeJoin, proto.JoinData{Room: *room, User: *user, AdminCode: *adminCode}); err != nil {
		return err
	}

	fmt.Printf("Connected to %s as %s in room %s\n", *addr, *user, *room)
	fmt.Println("Type messages and press Enter to send. Commands: /join ROOM, /leave, /delete ID, /clear, /admin CODE. Ctrl+C to exit.")

	go func() {
		defer cancel()
		readLoop(ctx, conn)
	}()

	c.writeLoop(ctx)

	stop()
	cancel()
	_ = conn.Close(websocket.StatusNormalClosure, "bye")
	return nil
}

type chat struct {
	conn      *websocket.Conn
	room      string
	user      string
	adminCode string
}

func (c *chat) send(ctx context.Context, typ string, data any) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", typ, err)
	}
	if err := wsjson.Write(ctx, c.conn, proto.Inbound{Type: typ, Data: payload}); err != nil {
		return fmt.Errorf("send %s: %w", typ, err)
	}
	return nil
}

func readLoop(ctx context.Context, conn *websocket.Conn) {
	for {
		var f frame
		if err := wsjson.Read(ctx, conn, &f); err != nil {
			// Treat expected shutdowns quietly.
			if errors.Is(err, context.Canceled) {
				return
			}
			switch websocket.CloseStatus(err) {
			case websocket.StatusNormalClosure, websocket.StatusGoingAway:
				return
			}
			log.Printf("read error: %v", err)
			return
		}
		if f.Type == proto.OutboundTypeError && f.Error != nil {
			fmt.Printf("! %s: %s\n", f.Error.Code, f.Error.Msg)
			continue
		}
		if err := printEvent(f); err != nil {
			log.Printf("decode %s: %v", f.Event, err)
		}
	}
}

func printEvent(f frame) error {
	switch f.Event {
	case proto.EventNameSession:
		var evt proto.EventSessionData
		if err := json.Unmarshal(f.Data, &evt); err != nil {
			return err
		}
		fmt.Printf("* session %s (resume with -token %s)\n", evt.Identity, evt.Token)
	case proto.EventNameJoined:
		var evt proto.EventJoined
		if err := json.Unmarshal(f.Data, &evt); err != nil {
			return err
		}
		for _, m := range evt.History {
			fmt.Printf("[%s] #%d %s %s: %s\n", m.Room, m.ID, m.Time, m.User, m.Text)
		}
		fmt.Printf("* joined %s as %s", evt.Room, evt.User)
		if evt.IsAdmin {
			fmt.Printf(" (admin, code %s)", evt.AdminCode)
		}
		fmt.Println()
	case proto.EventNameMessage:
		var evt proto.EventMessage
		if err := json.Unmarshal(f.Data, &evt); err != nil {
			return err
		}
		fmt.Printf("[%s] #%d %s %s: %s\n", evt.Room, evt.ID, evt.Time, evt.User, evt.Text)
	case proto.EventNameMemberJoined, proto.EventNameMemberLeft, proto.EventNamePermissionDenied:
		var evt proto.EventNotice
		if err := json.Unmarshal(f.Data, &evt); err != nil {
			return err
		}
		fmt.Printf("[%s] %s\n", evt.Room, evt.Text)
	case proto.EventNameMessageDeleted:
		var evt proto.EventMessageDeleted
		if err := json.Unmarshal(f.Data, &evt); err != nil {
			return err
		}
		fmt.Printf("[%s] message #%d deleted\n", evt.Room, evt.MessageID)
	case proto.EventNameRoomCleared:
		var evt proto.EventRoomCleared
		if err := json.Unmarshal(f.Data, &evt); err != nil {
			return err
		}
		fmt.Printf("[%s] history cleared\n", evt.Room)
	default:
		fmt.Printf("event=%s data=%s\n", f.Event, string(f.Data))
	}
	return nil
}

func (c *chat) writeLoop(ctx context.Context) {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case line, ok := <-lines:
			if !ok {
				return
			}
			text := strings.TrimSpace(line)
			if text == "" {
				continue
			}
			if err := c.handleLine(ctx, text); err != nil {
				log.Printf("send error: %v", err)
				return
			}
		}
	}
}

func (c *chat) handleLine(ctx context.Context, text string) error {
	if !strings.HasPrefix(text, "/") {
		return c.send(ctx, proto.InboundTypeMsg, proto.MsgData{Room: c.room, User: c.user, Text: text})
	}

	cmd, arg, _ := strings.Cut(strings.TrimPrefix(text, "/"), " ")
	arg = strings.TrimSpace(arg)
	switch cmd {
	case "join":
		if arg == "" {
			fmt.Println("usage: /join ROOM")
			return nil
		}
		c.room = arg
		return c.send(ctx, proto.InboundTypeJoin, proto.JoinData{Room: c.room, User: c.user, AdminCode: c.adminCode})
	case "leave":
		return c.send(ctx, proto.InboundTypeLeave, proto.LeaveData{Room: c.room})
	case "delete":
		id, err := strconv.ParseInt(arg, 10, 64)
		if err != nil || id <= 0 {
			fmt.Println("usage: /delete ID")
			return nil
		}
		return c.send(ctx, proto.InboundTypeDelete, proto.DeleteData{Room: c.room, MessageID: id, AdminCode: c.adminCode})
	case "clear":
		return c.send(ctx, proto.InboundTypeClear, proto.ClearData{Room: c.room, AdminCode: c.adminCode})
	case "admin":
		c.adminCode = arg
		fmt.Println("* admin code set")
		return nil
	default:
		fmt.Printf("unknown command /%s\n", cmd)
		return nil
	}
}
