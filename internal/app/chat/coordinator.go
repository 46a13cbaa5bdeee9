/*
Package chat contains the core logic for relaying room-scoped chat events.

This file defines the Coordinator, which orchestrates the event sequence for
join, send-message, send-location, and disconnect. It consults the presence
registry, builds messages through the message package, and instructs the
Broadcaster which audiences receive which payloads.
*/
package chat

import (
	"github.com/rs/zerolog"

	"chatrelay/internal/app/message"
	"chatrelay/internal/app/presence"
	"chatrelay/internal/pkg/errs"
	"chatrelay/internal/pkg/logx"
)

// Coordinator drives the room-broadcast protocol. It holds no per-connection
// state of its own; all membership lives in the registry.
type Coordinator struct {
	registry    *presence.Registry
	filter      ProfanityChecker
	broadcaster Broadcaster
	logger      zerolog.Logger
}

// NewCoordinator constructs a Coordinator over the given collaborators.
func NewCoordinator(registry *presence.Registry, filter ProfanityChecker, broadcaster Broadcaster) *Coordinator {
	return &Coordinator{
		registry:    registry,
		filter:      filter,
		broadcaster: broadcaster,
		logger:      logx.Logger().With().Str("component", "Coordinator").Logger(),
	}
}

// Join registers the connection under (username, room) and, on success,
// subscribes it to the room and emits the welcome message (self), the join
// announcement (room excluding self), and the membership snapshot (room).
// On failure nothing is subscribed or published and the registry is unchanged.
func (c *Coordinator) Join(connectionID, username, room string) *errs.CustomError {
	user, err := c.registry.Add(connectionID, username, room)
	if err != nil {
		c.logger.Warn().
			Str("connection_id", connectionID).
			Int("error_code", err.Code).
			Msg("Join rejected.")
		return err
	}

	c.broadcaster.Subscribe(connectionID, user.Room)

	c.broadcaster.Publish(AudienceSelf, connectionID, user.Room,
		EventMessage, message.New(message.AdminUsername, "Welcome!"))

	c.broadcaster.Publish(AudienceRoomExcludingSelf, connectionID, user.Room,
		EventMessage, message.New(message.AdminUsername, user.Username+" has joined!"))

	c.broadcaster.Publish(AudienceRoom, connectionID, user.Room,
		EventRoomData, c.snapshot(user.Room))

	return nil
}

// SendMessage broadcasts a text message from the connection's user to its
// whole room. Messages failing the profanity predicate are rejected without
// any broadcast. The registry lock is not held while the predicate runs.
func (c *Coordinator) SendMessage(connectionID, text string) *errs.CustomError {
	user, ok := c.registry.Get(connectionID)
	if !ok {
		return errs.NewError(errs.ErrNotJoined)
	}

	if c.filter.IsProfane(text) {
		c.logger.Warn().
			Str("connection_id", connectionID).
			Str("room", user.Room).
			Msg("Message rejected by profanity filter.")
		return errs.NewError(errs.ErrProfanity)
	}

	c.broadcaster.Publish(AudienceRoom, connectionID, user.Room,
		EventMessage, message.New(user.Username, text))

	return nil
}

// SendLocation broadcasts a map link for the given coordinates to the
// connection's whole room.
func (c *Coordinator) SendLocation(connectionID string, latitude, longitude float64) *errs.CustomError {
	user, ok := c.registry.Get(connectionID)
	if !ok {
		return errs.NewError(errs.ErrNotJoined)
	}

	c.broadcaster.Publish(AudienceRoom, connectionID, user.Room,
		EventLocationMessage, message.NewLocation(user.Username, message.LocationURL(latitude, longitude)))

	return nil
}

// Disconnect removes the connection's membership, if any, and notifies the
// remaining room members with a leave announcement followed by a fresh
// membership snapshot. Disconnects for unknown connections are silent no-ops,
// so re-reported transport closes are harmless.
func (c *Coordinator) Disconnect(connectionID string) {
	user, ok := c.registry.Remove(connectionID)
	if !ok {
		return
	}

	c.broadcaster.Publish(AudienceRoom, connectionID, user.Room,
		EventMessage, message.New(message.AdminUsername, user.Username+" has left!"))

	c.broadcaster.Publish(AudienceRoom, connectionID, user.Room,
		EventRoomData, c.snapshot(user.Room))
}

// RoomSnapshot computes the current membership snapshot for the given room.
// Used by the read-only rooms API in addition to the broadcast protocol.
func (c *Coordinator) RoomSnapshot(room string) message.RoomData {
	return c.snapshot(presence.Normalize(room))
}

// snapshot builds the roomData payload from the registry, in join order.
func (c *Coordinator) snapshot(room string) message.RoomData {
	users := c.registry.InRoom(room)

	roomUsers := make([]message.RoomUser, 0, len(users))
	for _, user := range users {
		roomUsers = append(roomUsers, message.RoomUser{Username: user.Username})
	}

	return message.RoomData{
		Room:  room,
		Users: roomUsers,
	}
}
