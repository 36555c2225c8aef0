package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	stdhttp "net/http"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/roomrelay/internal/auth"
	"github.com/vovakirdan/roomrelay/internal/config"
	"github.com/vovakirdan/roomrelay/internal/core"
	"github.com/vovakirdan/roomrelay/internal/proto"
	"github.com/vovakirdan/roomrelay/internal/utils"
)

// WSHandler upgrades HTTP connections and bridges them to core.Client.
type WSHandler struct {
	hub      *core.Hub
	sessions *auth.Service
	log      *zerolog.Logger
	accept   *websocket.AcceptOptions
	buffer   int
}

// NewWSHandler builds a new WebSocket handler.
func NewWSHandler(hub *core.Hub, sessions *auth.Service, cfg *config.Config, logger *zerolog.Logger) *WSHandler {
	accept := &websocket.AcceptOptions{InsecureSkipVerify: true}
	if len(cfg.AllowedOrigins) > 0 {
		accept = &websocket.AcceptOptions{OriginPatterns: cfg.AllowedOrigins}
	}
	buffer := cfg.ClientBuffer
	if buffer <= 0 {
		buffer = core.DefaultClientBuffer
	}
	return &WSHandler{
		hub:      hub,
		sessions: sessions,
		log:      logger,
		accept:   accept,
		buffer:   buffer,
	}
}

// session is the connection's view of its identity. The hub keeps its own
// copy on the client; this one only feeds the session frames.
type session struct {
	identity string
	token    string
}

func (h *WSHandler) ServeHTTP(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	ctx := r.Context()

	conn, err := websocket.Accept(w, r, h.accept)
	if err != nil {
		h.log.Error().Err(err).Msg("ws accept error")
		return
	}
	defer conn.Close(websocket.StatusInternalError, "internal error")

	identity, token, err := h.sessions.NewSession()
	if err != nil {
		h.log.Error().Err(err).Msg("issue session")
		conn.Close(websocket.StatusInternalError, "session unavailable")
		return
	}
	sess := &session{identity: identity, token: token}

	if err := wsjson.Write(ctx, conn, sessionOutbound(sess)); err != nil {
		h.log.Debug().Err(err).Msg("write session frame")
		return
	}

	client := core.NewClient(identity, utils.GuestName(), h.buffer)
	h.hub.RegisterClient(client)
	defer h.hub.UnregisterClient(client)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	errCh := make(chan error, 2)
	go func() {
		errCh <- h.readLoop(ctx, conn, client, sess)
	}()
	go func() {
		errCh <- h.writeLoop(ctx, conn, client)
	}()

	err = <-errCh
	cancel() // stop the other goroutine
	<-errCh

	status := websocket.StatusNormalClosure
	reason := "closing"
	if err != nil && !errors.Is(err, context.Canceled) {
		if errors.Is(err, io.EOF) {
			err = nil
		}
		if s := websocket.CloseStatus(err); s != -1 {
			status = s
		}
		if status == websocket.StatusNormalClosure || status == websocket.StatusGoingAway {
			err = nil
		}
		if err != nil {
			if status == websocket.StatusNormalClosure {
				status = websocket.StatusInternalError
			}
			reason = "connection error"
			h.log.Warn().Err(err).Str("client_id", client.ID).Msg("ws connection closed with error")
		}
	}

	conn.Close(status, reason)
}

func (h *WSHandler) readLoop(ctx context.Context, conn *websocket.Conn, client *core.Client, sess *session) error {
	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			return err
		}

		var inbound proto.Inbound
		if err := json.Unmarshal(data, &inbound); err != nil {
			if writeErr := wsjson.Write(ctx, conn, errorOutbound(core.ErrCodeBadRequest, "malformed frame")); writeErr != nil {
				return writeErr
			}
			continue
		}

		if inbound.Type == proto.InboundTypeHello {
			if err := h.hello(ctx, conn, client, sess, inbound); err != nil {
				return err
			}
			continue
		}

		cmd, protoErr := inboundToCommand(inbound)
		if protoErr != nil {
			if err := wsjson.Write(ctx, conn, proto.Outbound{
				Type:  proto.OutboundTypeError,
				Error: protoErr,
			}); err != nil {
				return err
			}
			continue
		}
		if cmd == nil {
			continue
		}
		if err := h.submit(ctx, client, cmd); err != nil {
			return err
		}
	}
}

// hello applies the display name and, if a token is given, resumes the
// identity it was issued for. The client is told its current session either way.
func (h *WSHandler) hello(ctx context.Context, conn *websocket.Conn, client *core.Client, sess *session, inbound proto.Inbound) error {
	var hello proto.HelloData
	if protoErr := decode(inbound.Data, &hello); protoErr != nil {
		return wsjson.Write(ctx, conn, proto.Outbound{Type: proto.OutboundTypeError, Error: protoErr})
	}
	if hello.Protocol != 0 && hello.Protocol != proto.ProtocolVersion {
		return wsjson.Write(ctx, conn, errorOutbound(core.ErrCodeUnsupportedVersion, "unsupported protocol version"))
	}

	cmd := &core.Command{Kind: core.CommandHello, Name: hello.User}
	var resumeErr error
	if hello.Token != "" {
		identity, err := h.sessions.Resume(hello.Token)
		if err == nil {
			var token string
			token, err = h.sessions.Issue(identity)
			if err == nil {
				sess.identity, sess.token = identity, token
				cmd.Identity = identity
			}
		}
		resumeErr = err
	}

	if cmd.Name != "" || cmd.Identity != "" {
		if err := h.submit(ctx, client, cmd); err != nil {
			return err
		}
	}

	if resumeErr != nil {
		h.log.Debug().Err(resumeErr).Str("client_id", client.ID).Msg("session resume rejected")
		return wsjson.Write(ctx, conn, errorOutbound(core.ErrCodeInvalidSession, "invalid session token"))
	}
	if cmd.Identity != "" {
		h.log.Debug().Str("client_id", client.ID).Str("identity", cmd.Identity).Msg("session resumed")
	}
	return wsjson.Write(ctx, conn, sessionOutbound(sess))
}

func (h *WSHandler) submit(ctx context.Context, client *core.Client, cmd *core.Command) error {
	select {
	case client.Commands <- cmd:
		return nil
	case <-client.Done():
		return core.ErrHubStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (h *WSHandler) writeLoop(ctx context.Context, conn *websocket.Conn, client *core.Client) error {
	for {
		select {
		case event, ok := <-client.Events:
			if !ok {
				return nil
			}
			if err := wsjson.Write(ctx, conn, outboundFromEvent(event)); err != nil {
				h.log.Debug().Err(err).Str("client_id", client.ID).Msg("write ws event")
				return err
			}
		case <-client.Done():
			return core.ErrHubStopped
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func sessionOutbound(sess *session) proto.Outbound {
	return proto.Outbound{
		Type:  proto.OutboundTypeEvent,
		Event: proto.EventNameSession,
		Data: proto.EventSessionData{
			Identity: sess.identity,
			Token:    sess.token,
			Protocol: proto.ProtocolVersion,
		},
	}
}
