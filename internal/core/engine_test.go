package core

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEngine_JoinCreatesRoomAndNotifies(t *testing.T) {
	e, rec := newTestEngine(AdminGrantStrict)
	alice := NewClient("a", "", 0)

	joined, outcome := e.Join(alice, "R", "alice", "secret")
	require.Equal(t, OutcomeApplied, outcome)
	require.True(t, joined.Created)
	require.True(t, joined.IsAdmin)
	require.Equal(t, "secret", joined.AdminCode)
	require.Equal(t, "a", joined.UserID)
	require.Empty(t, joined.History)

	require.Len(t, rec.out, 2)
	require.Equal(t, toCaller, rec.out[0].target)
	require.Equal(t, EventJoined, rec.out[0].ev.Kind)
	require.Same(t, joined, rec.out[0].ev.Joined)

	require.Equal(t, toOthers, rec.out[1].target)
	require.Equal(t, EventMemberJoined, rec.out[1].ev.Kind)
	require.Same(t, alice, rec.out[1].caller)
	require.Equal(t, "alice has joined.", rec.out[1].ev.Text)
}

func TestEngine_JoinWithoutRoomIsIgnored(t *testing.T) {
	e, rec := newTestEngine(AdminGrantStrict)

	_, outcome := e.Join(NewClient("a", "", 0), "", "alice", "secret")
	require.Equal(t, OutcomeIgnored, outcome)
	require.Empty(t, rec.out)
	require.Zero(t, e.rooms.Len())
}

func TestEngine_JoinBlankNameGetsGuestLabel(t *testing.T) {
	e, _ := newTestEngine(AdminGrantStrict)

	joined, _ := e.Join(NewClient("a", "", 0), "R", "", "")
	require.Equal(t, "Guest-42", joined.UserName)
}

func TestEngine_NoCredentialMeansNoAdmin(t *testing.T) {
	e, _ := newTestEngine(AdminGrantStrict)

	first, _ := e.Join(NewClient("a", "", 0), "R", "alice", "")
	second, _ := e.Join(NewClient("b", "", 0), "R", "bob", "")

	require.False(t, first.IsAdmin)
	require.Empty(t, first.AdminCode)
	require.False(t, second.IsAdmin)
	require.Empty(t, second.AdminCode)
}

func TestEngine_SecretGrantsAdminToLaterJoiners(t *testing.T) {
	e, _ := newTestEngine(AdminGrantStrict)

	e.Join(NewClient("a", "", 0), "R", "alice", "secret")

	right, _ := e.Join(NewClient("b", "", 0), "R", "bob", "secret")
	require.True(t, right.IsAdmin)
	require.False(t, right.Created)

	wrong, _ := e.Join(NewClient("c", "", 0), "R", "carol", "wrong")
	require.False(t, wrong.IsAdmin)
	require.Empty(t, wrong.AdminCode)
}

func TestEngine_AdminSecretSurvivesLaterJoins(t *testing.T) {
	e, _ := newTestEngine(AdminGrantStrict)

	e.Join(NewClient("a", "", 0), "R", "alice", "secret")
	e.Join(NewClient("b", "", 0), "R", "bob", "")
	e.Join(NewClient("c", "", 0), "R", "carol", "other")

	room, ok := e.rooms.Get("R")
	require.True(t, ok)
	require.Equal(t, "secret", room.adminSecret)
}

func TestEngine_CreatorGrantHandsBackGeneratedSecret(t *testing.T) {
	e, _ := newTestEngine(AdminGrantCreator)

	creator, _ := e.Join(NewClient("a", "", 0), "R", "alice", "")
	require.True(t, creator.IsAdmin)
	require.Equal(t, "generated-secret", creator.AdminCode)

	later, _ := e.Join(NewClient("b", "", 0), "R", "bob", "")
	require.False(t, later.IsAdmin)

	back, _ := e.Join(NewClient("a2", "", 0), "R", "alice", creator.AdminCode)
	require.True(t, back.IsAdmin)
}

func TestEngine_SendToMissingRoomIsNoop(t *testing.T) {
	e, rec := newTestEngine(AdminGrantStrict)

	_, outcome := e.Send(NewClient("a", "alice", 0), "ghost", "alice", "hi")
	require.Equal(t, OutcomeIgnored, outcome)
	require.Empty(t, rec.out)
	require.Zero(t, e.rooms.Len())
	require.Zero(t, e.Stats().LastMessageID)
}

func TestEngine_SendStoresAndBroadcasts(t *testing.T) {
	e, rec := newTestEngine(AdminGrantStrict)
	alice := NewClient("a", "", 0)
	e.Join(alice, "R", "alice", "")
	rec.reset()

	msg, outcome := e.Send(alice, "R", "alice", "hello")
	require.Equal(t, OutcomeApplied, outcome)
	require.Equal(t, int64(1), msg.ID)
	require.Equal(t, "a", msg.SenderID)
	require.Equal(t, "alice", msg.SenderName)
	require.Equal(t, "hello", msg.Text)
	require.Equal(t, fixedTime, msg.CreatedAt)

	require.Len(t, rec.out, 1)
	require.Equal(t, toRoom, rec.out[0].target)
	require.Equal(t, EventRoomMessage, rec.out[0].ev.Kind)
	require.Equal(t, msg, rec.out[0].ev.Message)
}

func TestEngine_SendFallsBackToJoinedName(t *testing.T) {
	e, _ := newTestEngine(AdminGrantStrict)
	alice := NewClient("a", "default", 0)
	e.Join(alice, "R", "alice", "")
	alice.Rooms["R"] = "alice"

	msg, _ := e.Send(alice, "R", "", "hi")
	require.Equal(t, "alice", msg.SenderName)

	e.Join(alice, "S", "", "")
	msg, _ = e.Send(alice, "S", "", "hi")
	require.Equal(t, "default", msg.SenderName)
}

func TestEngine_MessageIDsAreGlobalAndIncreasing(t *testing.T) {
	e, _ := newTestEngine(AdminGrantStrict)
	c := NewClient("a", "alice", 0)
	rooms := []string{"R1", "R2", "R3"}
	for _, r := range rooms {
		e.Join(c, r, "alice", "")
	}

	var last int64
	seen := make(map[int64]struct{})
	for i := range 30 {
		msg, outcome := e.Send(c, rooms[i%len(rooms)], "alice", "x")
		require.Equal(t, OutcomeApplied, outcome)
		require.Greater(t, msg.ID, last)
		_, dup := seen[msg.ID]
		require.False(t, dup)
		seen[msg.ID] = struct{}{}
		last = msg.ID
	}
	require.Equal(t, int64(30), e.Stats().LastMessageID)
}

func TestEngine_HistoryReflectsStoredMessagesInOrder(t *testing.T) {
	e, _ := newTestEngine(AdminGrantStrict)
	alice := NewClient("a", "", 0)
	e.Join(alice, "R", "alice", "secret")

	m1, _ := e.Send(alice, "R", "alice", "one")
	m2, _ := e.Send(alice, "R", "alice", "two")
	m3, _ := e.Send(alice, "R", "alice", "three")
	require.Equal(t, OutcomeApplied, e.Delete(alice, "R", m2.ID, ""))

	joined, _ := e.Join(NewClient("b", "", 0), "R", "bob", "")
	require.Len(t, joined.History, 2)
	require.Equal(t, m1.ID, joined.History[0].ID)
	require.Equal(t, m3.ID, joined.History[1].ID)
}

func TestEngine_SenderDeletesOwnMessageWithoutAdmin(t *testing.T) {
	e, rec := newTestEngine(AdminGrantStrict)
	alice := NewClient("a", "", 0)
	e.Join(alice, "R", "alice", "")
	msg, _ := e.Send(alice, "R", "alice", "oops")
	rec.reset()

	require.Equal(t, OutcomeApplied, e.Delete(alice, "R", msg.ID, ""))
	require.Len(t, rec.out, 1)
	require.Equal(t, toRoom, rec.out[0].target)
	require.Equal(t, EventMessageDeleted, rec.out[0].ev.Kind)
	require.Equal(t, msg.ID, rec.out[0].ev.MessageID)

	room, _ := e.rooms.Get("R")
	require.Zero(t, room.Len())
}

func TestEngine_AdminDeletesAnyMessage(t *testing.T) {
	e, _ := newTestEngine(AdminGrantStrict)
	admin := NewClient("admin", "", 0)
	bob := NewClient("b", "", 0)
	e.Join(admin, "R", "admin", "secret")
	e.Join(bob, "R", "bob", "")
	msg, _ := e.Send(bob, "R", "bob", "spam")

	require.Equal(t, OutcomeApplied, e.Delete(admin, "R", msg.ID, "secret"))
}

func TestEngine_DeleteDeniedForStrangers(t *testing.T) {
	e, rec := newTestEngine(AdminGrantStrict)
	alice := NewClient("a", "", 0)
	mallory := NewClient("m", "", 0)
	e.Join(alice, "R", "alice", "secret")
	e.Join(mallory, "R", "mallory", "")
	msg, _ := e.Send(alice, "R", "alice", "keep me")
	rec.reset()

	require.Equal(t, OutcomeDenied, e.Delete(mallory, "R", msg.ID, "guess"))

	require.Len(t, rec.out, 1)
	require.Equal(t, toCaller, rec.out[0].target)
	require.Same(t, mallory, rec.out[0].caller)
	require.Equal(t, EventPermissionDenied, rec.out[0].ev.Kind)
	require.Equal(t, PermissionDeniedText, rec.out[0].ev.Text)

	room, _ := e.rooms.Get("R")
	history := room.History()
	require.Len(t, history, 1)
	require.Equal(t, msg, history[0])
}

func TestEngine_DeleteMissingTargetsAreSilent(t *testing.T) {
	e, rec := newTestEngine(AdminGrantStrict)
	alice := NewClient("a", "", 0)
	e.Join(alice, "R", "alice", "secret")
	rec.reset()

	require.Equal(t, OutcomeIgnored, e.Delete(alice, "ghost", 1, "secret"))
	require.Equal(t, OutcomeIgnored, e.Delete(alice, "R", 99, "secret"))
	require.Empty(t, rec.out)
}

func TestEngine_ClearRequiresAdmin(t *testing.T) {
	e, rec := newTestEngine(AdminGrantStrict)
	alice := NewClient("a", "", 0)
	bob := NewClient("b", "", 0)
	e.Join(alice, "R", "alice", "secret")
	e.Join(bob, "R", "bob", "")
	e.Send(bob, "R", "bob", "one")
	e.Send(bob, "R", "bob", "two")
	rec.reset()

	require.Equal(t, OutcomeDenied, e.Clear(bob, "R", ""))
	room, _ := e.rooms.Get("R")
	require.Equal(t, 2, room.Len())
	for _, d := range rec.out {
		require.NotEqual(t, EventRoomCleared, d.ev.Kind)
		require.Equal(t, toCaller, d.target)
	}
	rec.reset()

	require.Equal(t, OutcomeApplied, e.Clear(alice, "R", "secret"))
	require.Zero(t, room.Len())
	require.Len(t, rec.out, 1)
	require.Equal(t, toRoom, rec.out[0].target)
	require.Equal(t, EventRoomCleared, rec.out[0].ev.Kind)
}

func TestEngine_ClearMissingRoomIsSilent(t *testing.T) {
	e, rec := newTestEngine(AdminGrantStrict)

	require.Equal(t, OutcomeIgnored, e.Clear(NewClient("a", "", 0), "ghost", "secret"))
	require.Empty(t, rec.out)
	require.Zero(t, e.rooms.Len())
}

func TestEngine_IDsNotReusedAfterDelete(t *testing.T) {
	e, _ := newTestEngine(AdminGrantStrict)
	alice := NewClient("a", "", 0)
	e.Join(alice, "R", "alice", "secret")

	m1, _ := e.Send(alice, "R", "alice", "one")
	e.Clear(alice, "R", "secret")
	m2, _ := e.Send(alice, "R", "alice", "two")
	require.Greater(t, m2.ID, m1.ID)
}

func TestEngine_Stats(t *testing.T) {
	e, _ := newTestEngine(AdminGrantStrict)
	alice := NewClient("a", "", 0)
	e.Join(alice, "R1", "alice", "")
	e.Join(alice, "R2", "alice", "")
	e.Send(alice, "R1", "alice", "x")
	e.Send(alice, "R2", "alice", "y")
	e.Send(alice, "R2", "alice", "z")

	stats := e.Stats()
	require.Equal(t, 2, stats.Rooms)
	require.Equal(t, 3, stats.Messages)
	require.Equal(t, int64(3), stats.LastMessageID)
}
