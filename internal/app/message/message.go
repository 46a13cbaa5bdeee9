/*
Package message defines the immutable value objects broadcast to chat rooms.

Messages are constructed fresh per event and never stored; the server keeps no
history. CreatedAt is stamped in milliseconds since epoch so browser clients
can feed it straight into a Date.
*/
package message

import (
	"fmt"
	"time"
)

// AdminUsername is the sender name used for system messages (welcome,
// join and leave announcements).
const AdminUsername = "Admin"

// Message is a text chat message.
type Message struct {
	Username  string `json:"username"`
	Text      string `json:"text"`
	CreatedAt int64  `json:"createdAt"`
}

// LocationMessage carries a link to a sender's shared map location.
type LocationMessage struct {
	Username  string `json:"username"`
	URL       string `json:"url"`
	CreatedAt int64  `json:"createdAt"`
}

// RoomUser is the per-member entry of a RoomData snapshot.
type RoomUser struct {
	Username string `json:"username"`
}

// RoomData is the membership snapshot broadcast whenever a room's member
// list changes. Users appear in join order.
type RoomData struct {
	Room  string     `json:"room"`
	Users []RoomUser `json:"users"`
}

// New constructs a Message stamped with the current time.
// Text is taken as-is; profanity filtering happens before this is called.
func New(username, text string) Message {
	return Message{
		Username:  username,
		Text:      text,
		CreatedAt: time.Now().UnixMilli(),
	}
}

// NewLocation constructs a LocationMessage stamped with the current time.
func NewLocation(username, url string) LocationMessage {
	return LocationMessage{
		Username:  username,
		URL:       url,
		CreatedAt: time.Now().UnixMilli(),
	}
}

// LocationURL formats a Google Maps link for the given coordinates.
func LocationURL(latitude, longitude float64) string {
	return fmt.Sprintf("https://google.com/maps?q=%v,%v", latitude, longitude)
}
