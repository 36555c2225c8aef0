package core

import (
	"testing"
	"time"
)

var fixedTime = time.Date(2024, 5, 1, 12, 30, 0, 0, time.UTC)

func mustEvent(t *testing.T, ch <-chan *Event, kind EventKind) *Event {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		select {
		case ev := <-ch:
			if ev == nil {
				continue
			}
			if ev.Kind == kind {
				return ev
			}
		default:
			time.Sleep(10 * time.Millisecond)
		}
	}
	t.Fatalf("expected event kind %v not received", kind)
	return nil
}

func mustNoEvent(t *testing.T, ch <-chan *Event, kind EventKind, wait time.Duration) {
	t.Helper()

	deadline := time.Now().Add(wait)
	for time.Now().Before(deadline) {
		select {
		case ev := <-ch:
			if ev != nil && ev.Kind == kind {
				t.Fatalf("unexpected event %v: %+v", kind, ev)
			}
		default:
			time.Sleep(10 * time.Millisecond)
		}
	}
}

type target int

const (
	toCaller target = iota
	toOthers
	toRoom
)

type directive struct {
	target target
	room   string
	caller *Client
	ev     *Event
}

// recorder is a Dispatcher that remembers every directive.
type recorder struct {
	out []directive
}

func (r *recorder) ToCaller(caller *Client, ev *Event) {
	r.out = append(r.out, directive{target: toCaller, caller: caller, ev: ev})
}

func (r *recorder) ToRoomExceptCaller(room string, caller *Client, ev *Event) {
	r.out = append(r.out, directive{target: toOthers, room: room, caller: caller, ev: ev})
}

func (r *recorder) ToRoom(room string, ev *Event) {
	r.out = append(r.out, directive{target: toRoom, room: room, ev: ev})
}

func (r *recorder) reset() {
	r.out = nil
}

func newTestEngine(grant AdminGrant) (*Engine, *recorder) {
	rec := &recorder{}
	e := NewEngine(rec, Policy{Grant: grant})
	e.rooms = NewRegistry(func() string { return "generated-secret" })
	e.now = func() time.Time { return fixedTime }
	e.guestName = func() string { return "Guest-42" }
	return e, rec
}
