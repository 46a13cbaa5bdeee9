/*
Package idgen generates the opaque identifiers used by the transport layer.

Each WebSocket connection is assigned a connection ID before any chat event
fires; the presence registry keys all membership state on it.
*/
package idgen

import "github.com/google/uuid"

// ConnectionID generates a UUID v4 string identifying a single WebSocket connection.
func ConnectionID() string {
	return uuid.New().String()
}
