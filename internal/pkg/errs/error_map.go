/*
Package errs provides custom error types and application-level error code constants.

This file defines the map from error codes to the CustomError struct, used to standardize
HTTP responses, acknowledgement strings, and internal error handling.
*/
package errs

import "net/http"

// errorMap stores the detailed CustomError struct corresponding to every application error code.
// The key is the error code (int), and the value contains the user message and HTTP status code.
// Messages for join/send rejections are rendered verbatim in client acknowledgements.
var errorMap = map[int]CustomError{
	// 1xxx: General Request Handling Errors
	ErrInvalidParams:     {Code: ErrInvalidParams, Message: "Invalid request parameters."},
	ErrInvalidFrame:      {Code: ErrInvalidFrame, Message: "Unsupported request format."},
	ErrUnknownEventType:  {Code: ErrUnknownEventType, Message: "Unsupported event type."},
	ErrRateLimitExceeded: {Code: ErrRateLimitExceeded, Message: "Too many requests. Please try again later.", Status: http.StatusTooManyRequests},

	// 2xxx: Room and Presence Business Logic Errors
	ErrUsernameAndRoomRequired: {Code: ErrUsernameAndRoomRequired, Message: "Username and room are required!"},
	ErrUsernameInUse:           {Code: ErrUsernameInUse, Message: "Username is in use!"},
	ErrRoomNotFound:            {Code: ErrRoomNotFound, Message: "Room not found.", Status: http.StatusNotFound},
	ErrAlreadyJoined:           {Code: ErrAlreadyJoined, Message: "You already joined a room."},
	ErrNotJoined:               {Code: ErrNotJoined, Message: "You must join a room first."},
	ErrProfanity:               {Code: ErrProfanity, Message: "Profanity is not allowed!"},

	// 5xxx: Internal System Errors
	ErrUnknown: {Code: ErrUnknown, Message: "Something went wrong. Please try again.", Status: http.StatusInternalServerError},
}
