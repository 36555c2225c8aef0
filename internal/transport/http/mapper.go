package http

import (
	"encoding/json"

	"github.com/samber/lo"

	"github.com/vovakirdan/roomrelay/internal/core"
	"github.com/vovakirdan/roomrelay/internal/proto"
	"github.com/vovakirdan/roomrelay/internal/store"
)

// inboundToCommand maps a client frame to a hub command. A nil command with a
// nil error means the frame is dropped silently (e.g. no room given).
func inboundToCommand(inbound proto.Inbound) (*core.Command, *proto.Error) {
	switch inbound.Type {
	case proto.InboundTypeJoin:
		var join proto.JoinData
		if err := decode(inbound.Data, &join); err != nil {
			return nil, err
		}
		if join.Room == "" {
			return nil, nil
		}
		return &core.Command{
			Kind:      core.CommandJoinRoom,
			Room:      join.Room,
			Name:      join.User,
			AdminCode: join.AdminCode,
		}, nil
	case proto.InboundTypeLeave:
		var leave proto.LeaveData
		if err := decode(inbound.Data, &leave); err != nil {
			return nil, err
		}
		if leave.Room == "" {
			return nil, nil
		}
		return &core.Command{Kind: core.CommandLeaveRoom, Room: leave.Room}, nil
	case proto.InboundTypeMsg:
		var msg proto.MsgData
		if err := decode(inbound.Data, &msg); err != nil {
			return nil, err
		}
		if msg.Room == "" {
			return nil, nil
		}
		return &core.Command{
			Kind: core.CommandSendRoomMessage,
			Room: msg.Room,
			Name: msg.User,
			Text: msg.Text,
		}, nil
	case proto.InboundTypeDelete:
		var del proto.DeleteData
		if err := decode(inbound.Data, &del); err != nil {
			return nil, err
		}
		if del.Room == "" || del.MessageID == 0 {
			return nil, nil
		}
		return &core.Command{
			Kind:      core.CommandDeleteMessage,
			Room:      del.Room,
			MessageID: del.MessageID,
			AdminCode: del.AdminCode,
		}, nil
	case proto.InboundTypeClear:
		var clr proto.ClearData
		if err := decode(inbound.Data, &clr); err != nil {
			return nil, err
		}
		if clr.Room == "" {
			return nil, nil
		}
		return &core.Command{
			Kind:      core.CommandClearRoom,
			Room:      clr.Room,
			AdminCode: clr.AdminCode,
		}, nil
	default:
		return nil, &proto.Error{Code: core.ErrCodeInvalidMessage, Msg: "unknown message type"}
	}
}

func decode(data json.RawMessage, v any) *proto.Error {
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		return &proto.Error{Code: core.ErrCodeBadRequest, Msg: "malformed data"}
	}
	return nil
}

func outboundFromEvent(event *core.Event) proto.Outbound {
	switch event.Kind {
	case core.EventJoined:
		joined := event.Joined
		if joined == nil {
			joined = &core.JoinedEvent{}
		}
		return proto.Outbound{
			Type:  proto.OutboundTypeEvent,
			Event: proto.EventNameJoined,
			Data: proto.EventJoined{
				Room:      event.Room,
				UserID:    joined.UserID,
				User:      joined.UserName,
				IsAdmin:   joined.IsAdmin,
				AdminCode: joined.AdminCode,
				History: lo.Map(joined.History, func(m store.Message, _ int) proto.EventMessage {
					return eventMessage(m)
				}),
			},
		}
	case core.EventMemberJoined, core.EventMemberLeft, core.EventPermissionDenied:
		return proto.Outbound{
			Type:  proto.OutboundTypeEvent,
			Event: noticeNames[event.Kind],
			Data: proto.EventNotice{
				Room: event.Room,
				User: event.User,
				Text: event.Text,
			},
		}
	case core.EventRoomMessage:
		return proto.Outbound{
			Type:  proto.OutboundTypeEvent,
			Event: proto.EventNameMessage,
			Data:  eventMessage(event.Message),
		}
	case core.EventMessageDeleted:
		return proto.Outbound{
			Type:  proto.OutboundTypeEvent,
			Event: proto.EventNameMessageDeleted,
			Data: proto.EventMessageDeleted{
				Room:      event.Room,
				MessageID: event.MessageID,
			},
		}
	case core.EventRoomCleared:
		return proto.Outbound{
			Type:  proto.OutboundTypeEvent,
			Event: proto.EventNameRoomCleared,
			Data:  proto.EventRoomCleared{Room: event.Room},
		}
	default:
		return proto.Outbound{Type: proto.OutboundTypeEvent}
	}
}

var noticeNames = map[core.EventKind]string{
	core.EventMemberJoined:     proto.EventNameMemberJoined,
	core.EventMemberLeft:       proto.EventNameMemberLeft,
	core.EventPermissionDenied: proto.EventNamePermissionDenied,
}

func eventMessage(m store.Message) proto.EventMessage {
	return proto.EventMessage{
		ID:       m.ID,
		Room:     m.Room,
		User:     m.SenderName,
		SenderID: m.SenderID,
		Text:     m.Text,
		Time:     m.DisplayTime(),
		TS:       m.CreatedAt.Unix(),
	}
}

func errorOutbound(code, msg string) proto.Outbound {
	return proto.Outbound{
		Type:  proto.OutboundTypeError,
		Error: &proto.Error{Code: code, Msg: msg},
	}
}
