package presence

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"chatrelay/internal/pkg/errs"
)

func TestRegistry_Add_NormalizesUsernameAndRoom(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()

	user, err := registry.Add("conn-1", "  Alice ", " The Den ")

	req.Nil(err)
	req.Equal("conn-1", user.ConnectionID)
	req.Equal("alice", user.Username)
	req.Equal("the den", user.Room)
	req.Equal(1, registry.Len())
}

func TestRegistry_Add_RejectsEmptyValues(t *testing.T) {
	tests := []struct {
		name     string
		username string
		room     string
	}{
		{"empty username", "", "den"},
		{"empty room", "alice", ""},
		{"whitespace username", "   ", "den"},
		{"whitespace room", "alice", "\t "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := require.New(t)
			registry := NewRegistry()

			_, err := registry.Add("conn-1", tt.username, tt.room)

			req.NotNil(err)
			req.Equal(errs.ErrUsernameAndRoomRequired, err.Code)
			req.Equal(0, registry.Len())
		})
	}
}

func TestRegistry_Add_RejectsDuplicateNameInRoom(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()

	_, err := registry.Add("conn-1", "Alice", "Den")
	req.Nil(err)

	// Same name and room modulo casing and whitespace.
	_, err = registry.Add("conn-2", "alice", " Den ")
	req.NotNil(err)
	req.Equal(errs.ErrUsernameInUse, err.Code)
	req.Equal(1, registry.Len())
}

func TestRegistry_Add_AllowsSameNameInDifferentRooms(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()

	_, err := registry.Add("conn-1", "alice", "den")
	req.Nil(err)

	_, err = registry.Add("conn-2", "alice", "lobby")
	req.Nil(err)
	req.Equal(2, registry.Len())
}

func TestRegistry_Add_RejectsSecondMembershipForConnection(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()

	_, err := registry.Add("conn-1", "alice", "den")
	req.Nil(err)

	_, err = registry.Add("conn-1", "bob", "lobby")
	req.NotNil(err)
	req.Equal(errs.ErrAlreadyJoined, err.Code)
	req.Equal(1, registry.Len())
}

func TestRegistry_Remove_IsIdempotent(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()

	_, err := registry.Add("conn-1", "alice", "den")
	req.Nil(err)

	user, ok := registry.Remove("conn-1")
	req.True(ok)
	req.Equal("alice", user.Username)

	_, ok = registry.Remove("conn-1")
	req.False(ok)
	req.Equal(0, registry.Len())
}

func TestRegistry_RoundTrip(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()

	_, err := registry.Add("conn-1", "Alice", "Den")
	req.Nil(err)

	user, ok := registry.Get("conn-1")
	req.True(ok)
	req.Equal(User{ConnectionID: "conn-1", Username: "alice", Room: "den"}, user)

	_, ok = registry.Remove("conn-1")
	req.True(ok)

	_, ok = registry.Get("conn-1")
	req.False(ok)
}

func TestRegistry_InRoom_NormalizesInputAndPreservesJoinOrder(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()

	for i, name := range []string{"carol", "alice", "bob"} {
		_, err := registry.Add(fmt.Sprintf("conn-%d", i), name, "den")
		req.Nil(err)
	}
	_, err := registry.Add("conn-other", "dave", "lobby")
	req.Nil(err)

	users := registry.InRoom(" DEN ")
	req.Len(users, 3)
	req.Equal("carol", users[0].Username)
	req.Equal("alice", users[1].Username)
	req.Equal("bob", users[2].Username)

	req.Empty(registry.InRoom("nowhere"))
}

func TestRegistry_ConcurrentCollidingJoins_OnlyOneSucceeds(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()

	const attempts = 64

	var wg sync.WaitGroup
	successes := make(chan string, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			connID := fmt.Sprintf("conn-%d", i)
			if _, err := registry.Add(connID, "Alice", "den"); err == nil {
				successes <- connID
			}
		}(i)
	}

	wg.Wait()
	close(successes)

	var winners []string
	for id := range successes {
		winners = append(winners, id)
	}

	req.Len(winners, 1)
	req.Equal(1, registry.Len())

	user, ok := registry.Get(winners[0])
	req.True(ok)
	req.Equal("alice", user.Username)
}

func TestRegistry_ConcurrentJoinsAcrossRooms_NeverShareNameWithinRoom(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()

	names := []string{"a", "b", "c"}
	rooms := []string{"x", "y"}

	var wg sync.WaitGroup
	for i := 0; i < 200; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			name := names[i%len(names)]
			room := rooms[i%len(rooms)]
			registry.Add(fmt.Sprintf("conn-%d", i), name, room)
		}(i)
	}
	wg.Wait()

	for _, room := range rooms {
		seen := make(map[string]bool)
		for _, user := range registry.InRoom(room) {
			req.False(seen[user.Username], "duplicate username %q in room %q", user.Username, room)
			seen[user.Username] = true
		}
	}
}
