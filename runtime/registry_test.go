package runtime

import (
	"chat-relay/domain"
	"chat-relay/errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestRegistry_AddUser_Normalizes_Identity(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	id := uuid.NewString()

	// When a user joins with mixed casing and stray whitespace
	user, err := registry.AddUser(id, "  Bob ", " Room1 ")

	// Then the stored entry is canonical
	req.NoError(err)
	req.Equal(domain.User{ID: id, Username: "bob", Room: "room1"}, user)

	// And any casing of the room finds it
	req.Len(registry.UsersInRoom("ROOM1"), 1)
	req.Equal("bob", registry.UsersInRoom("room1")[0].Username)
}

func TestRegistry_AddUser_Rejects_Blank_Fields(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()

	tests := []struct {
		name     string
		username string
		room     string
	}{
		{name: "empty username", username: "", room: "lobby"},
		{name: "empty room", username: "alice", room: ""},
		{name: "whitespace username", username: "   ", room: "lobby"},
		{name: "whitespace room", username: "alice", room: "\t "},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := registry.AddUser(uuid.NewString(), tt.username, tt.room)
			req.ErrorIs(err, errors.ErrMissingFields)
		})
	}

	// And no entry was inserted by any failed attempt
	req.Equal(0, registry.Size())
}

func TestRegistry_AddUser_Rejects_Taken_Username(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()

	// Given alice already joined the lobby
	_, err := registry.AddUser(uuid.NewString(), "alice", "lobby")
	req.NoError(err)

	// When another connection claims the same normalized identity
	_, err = registry.AddUser(uuid.NewString(), " ALICE ", "Lobby")

	// Then the second join fails and nothing changed
	req.ErrorIs(err, errors.ErrNameTaken)
	req.Equal(1, registry.Size())

	// And the same username in a different room is fine
	_, err = registry.AddUser(uuid.NewString(), "alice", "games")
	req.NoError(err)
	req.Equal(2, registry.Rooms())
}

func TestRegistry_RemoveUser_Is_Idempotent(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	id := uuid.NewString()

	_, err := registry.AddUser(id, "alice", "lobby")
	req.NoError(err)

	// When the entry is removed twice
	removed, ok := registry.RemoveUser(id)
	req.True(ok)
	req.Equal("alice", removed.Username)

	// Then the second call is a no-op
	_, ok = registry.RemoveUser(id)
	req.False(ok)
	req.Equal(0, registry.Size())
}

func TestRegistry_UsersInRoom_Keeps_Join_Order(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	ids := []string{uuid.NewString(), uuid.NewString(), uuid.NewString()}
	names := []string{"alice", "bob", "carol"}

	// Given three users joined in order
	for i, id := range ids {
		_, err := registry.AddUser(id, names[i], "lobby")
		req.NoError(err)
	}

	// When the middle one leaves
	_, ok := registry.RemoveUser(ids[1])
	req.True(ok)

	// Then the survivors come back in join order
	members := registry.UsersInRoom("lobby")
	req.Len(members, 2)
	req.Equal("alice", members[0].Username)
	req.Equal("carol", members[1].Username)

	// And an unknown room is an empty slice, not an error
	req.Empty(registry.UsersInRoom("ghost-town"))
}

func TestRegistry_GetUser(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	id := uuid.NewString()

	_, err := registry.AddUser(id, "alice", "lobby")
	req.NoError(err)

	user, ok := registry.GetUser(id)
	req.True(ok)
	req.Equal("alice", user.Username)

	_, ok = registry.GetUser(uuid.NewString())
	req.False(ok)
}
