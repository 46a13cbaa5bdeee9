/*
Package chat contains the core logic for relaying room-scoped chat events:
presence-driven join/leave announcements, message fan-out, and the WebSocket
connection lifecycle.

This file defines the audience model. Every publish names its audience
explicitly instead of inferring it from which transport method was called,
which keeps the coordinator's protocol testable without a real transport.
*/
package chat

// Audience selects which connections receive a published event.
type Audience int

const (
	// AudienceSelf delivers to the originating connection only.
	AudienceSelf Audience = iota

	// AudienceRoomExcludingSelf delivers to every live member of the room
	// except the originating connection.
	AudienceRoomExcludingSelf

	// AudienceRoom delivers to every live member of the room, sender included.
	AudienceRoom
)

// String returns a human-readable audience name for logging.
func (a Audience) String() string {
	switch a {
	case AudienceSelf:
		return "self"
	case AudienceRoomExcludingSelf:
		return "room_excluding_self"
	case AudienceRoom:
		return "room"
	default:
		return "unknown"
	}
}

// Outbound event names, as rendered by the browser client.
const (
	EventMessage         = "message"
	EventLocationMessage = "locationMessage"
	EventRoomData        = "roomData"
	EventAck             = "ack"
)

// Broadcaster is the transport primitive the coordinator publishes through.
// Publishing is fire-and-forget: the coordinator never waits for delivery.
type Broadcaster interface {
	// Subscribe attaches a connection to a room channel so subsequent
	// room-audience publishes reach it.
	Subscribe(connectionID, room string)

	// Publish fans payload out to the audience, resolved against room and
	// the originating connection.
	Publish(audience Audience, senderID, room, event string, payload any)
}

// ProfanityChecker is the predicate consulted before a text message is
// broadcast. It must be synchronous and fast.
type ProfanityChecker interface {
	IsProfane(text string) bool
}
