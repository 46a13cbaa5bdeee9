/*
Package errs provides custom error types and application-level error code constants.

These error codes identify the specific ways a chat request can be rejected,
both internally within the server and in the acknowledgements sent to clients.
*/
package errs

// 1xxx: General Request Handling Errors
const (
	// ErrInvalidParams indicates that request parameter validation failed.
	ErrInvalidParams = 1001

	// ErrInvalidFrame indicates that an inbound WebSocket frame could not be decoded.
	ErrInvalidFrame = 1002

	// ErrUnknownEventType indicates that the client sent an event type the server does not handle.
	ErrUnknownEventType = 1003

	// ErrRateLimitExceeded indicates that the request rate has exceeded the set limit.
	ErrRateLimitExceeded = 1007
)

// 2xxx: Room and Presence Business Logic Errors
const (
	// ErrUsernameAndRoomRequired indicates that the username or room was empty after normalization.
	ErrUsernameAndRoomRequired = 2101

	// ErrUsernameInUse indicates that the requested username is already taken in the target room.
	ErrUsernameInUse = 2102

	// ErrRoomNotFound indicates that a room lookup named a room with no live members.
	ErrRoomNotFound = 2103

	// ErrAlreadyJoined indicates that the connection already holds a live room membership.
	ErrAlreadyJoined = 2104

	// ErrNotJoined indicates that the connection tried to send before a successful join.
	ErrNotJoined = 2201

	// ErrProfanity indicates that the message text was rejected by the profanity filter.
	ErrProfanity = 2202
)

// 5xxx: Internal System Errors
const (
	// ErrUnknown represents an unclassified, general server internal error.
	ErrUnknown = 5000
)
