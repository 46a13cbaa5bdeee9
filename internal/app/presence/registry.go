/*
Package presence tracks which connection is in which room under which name.

This file defines the Registry, the single piece of shared mutable state in the
chat core. All membership reads and writes go through its lock-guarded methods;
no other component holds a mutable reference to a User.
*/
package presence

import (
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"chatrelay/internal/pkg/errs"
	"chatrelay/internal/pkg/logx"
)

// User represents one live room membership, keyed by the transport-assigned
// connection ID. Username and Room are stored in normalized form only; the
// join-time casing is not preserved anywhere downstream.
type User struct {
	ConnectionID string `json:"-"`
	Username     string `json:"username"`
	Room         string `json:"room"`
}

// Registry is the in-memory store mapping connection ID to (username, room).
// It enforces per-room username uniqueness and single membership per
// connection. The zero value is not usable; construct with NewRegistry.
type Registry struct {
	// mu guards users and order. The uniqueness check and the insert in Add
	// form one critical section.
	mu sync.RWMutex

	// users maps connection ID to the live User.
	users map[string]User

	// order holds connection IDs in join order. Room listings are rendered
	// directly by clients, so the order is part of the observable contract.
	order []string

	logger zerolog.Logger
}

// NewRegistry constructs an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		users:  make(map[string]User),
		order:  make([]string, 0),
		logger: logx.Logger().With().Str("component", "Registry").Logger(),
	}
}

// Normalize trims surrounding whitespace and lower-cases a username or room
// name. Every comparison and every stored value uses this form.
func Normalize(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

// Add validates and inserts a new membership for the given connection ID.
// It fails with ErrUsernameAndRoomRequired when either value is empty after
// normalization, with ErrAlreadyJoined when the connection already has a live
// membership, and with ErrUsernameInUse when the name is taken in the room.
// A failed Add leaves the registry unchanged.
func (r *Registry) Add(connectionID, rawUsername, rawRoom string) (User, *errs.CustomError) {
	username := Normalize(rawUsername)
	room := Normalize(rawRoom)

	if username == "" || room == "" {
		return User{}, errs.NewError(errs.ErrUsernameAndRoomRequired)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[connectionID]; ok {
		return User{}, errs.NewError(errs.ErrAlreadyJoined)
	}

	for _, id := range r.order {
		existing := r.users[id]
		if existing.Room == room && existing.Username == username {
			return User{}, errs.NewError(errs.ErrUsernameInUse)
		}
	}

	user := User{
		ConnectionID: connectionID,
		Username:     username,
		Room:         room,
	}

	r.users[connectionID] = user
	r.order = append(r.order, connectionID)

	r.logger.Info().
		Str("connection_id", connectionID).
		Str("username", username).
		Str("room", room).
		Int("total_users", len(r.users)).
		Msg("User added to registry.")

	return user, nil
}

// Remove deletes and returns the membership for the given connection ID.
// Removing an unknown ID is a normal, silent no-op: disconnects may be
// reported for connections that never joined or were already removed.
func (r *Registry) Remove(connectionID string) (User, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[connectionID]
	if !ok {
		return User{}, false
	}

	delete(r.users, connectionID)

	for i, id := range r.order {
		if id == connectionID {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}

	r.logger.Info().
		Str("connection_id", connectionID).
		Str("username", user.Username).
		Str("room", user.Room).
		Int("total_users", len(r.users)).
		Msg("User removed from registry.")

	return user, true
}

// Get returns the membership for the given connection ID without mutating
// anything.
func (r *Registry) Get(connectionID string) (User, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[connectionID]
	return user, ok
}

// InRoom returns all live users whose room matches the normalized input, in
// join order.
func (r *Registry) InRoom(rawRoom string) []User {
	room := Normalize(rawRoom)

	r.mu.RLock()
	defer r.mu.RUnlock()

	users := make([]User, 0)
	for _, id := range r.order {
		if user := r.users[id]; user.Room == room {
			users = append(users, user)
		}
	}

	return users
}

// Len returns the number of live users across all rooms.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.users)
}
