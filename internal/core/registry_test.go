package core

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRegistry_GetOrCreateUsesSuppliedSecret(t *testing.T) {
	reg := NewRegistry(func() string { return "generated" })

	room, created := reg.GetOrCreate("R", "secret")
	require.True(t, created)
	require.Equal(t, "secret", room.adminSecret)
	require.Equal(t, "R", room.ID)
}

func TestRegistry_GetOrCreateGeneratesSecret(t *testing.T) {
	reg := NewRegistry(func() string { return "generated" })

	room, created := reg.GetOrCreate("R", "")
	require.True(t, created)
	require.Equal(t, "generated", room.adminSecret)
	require.True(t, room.HasAdminSecret())
}

func TestRegistry_DefaultGeneratorIsRandom(t *testing.T) {
	reg := NewRegistry(nil)

	a, _ := reg.GetOrCreate("a", "")
	b, _ := reg.GetOrCreate("b", "")
	require.NotEmpty(t, a.adminSecret)
	require.NotEqual(t, a.adminSecret, b.adminSecret)
}

func TestRegistry_ExistingRoomIsNeverRekeyed(t *testing.T) {
	reg := NewRegistry(nil)

	first, created := reg.GetOrCreate("R", "secret")
	require.True(t, created)

	for _, supplied := range []string{"", "other", "SECRET"} {
		again, created := reg.GetOrCreate("R", supplied)
		require.False(t, created)
		require.Same(t, first, again)
		require.Equal(t, "secret", again.adminSecret)
	}
	require.Equal(t, 1, reg.Len())
}

func TestRegistry_GetDoesNotCreate(t *testing.T) {
	reg := NewRegistry(nil)

	_, ok := reg.Get("ghost")
	require.False(t, ok)
	require.Zero(t, reg.Len())

	reg.GetOrCreate("ghost", "")
	room, ok := reg.Get("ghost")
	require.True(t, ok)
	require.Equal(t, "ghost", room.ID)
}
