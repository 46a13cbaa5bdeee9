/*
Package chat contains the core logic for relaying room-scoped chat events.

This file defines the Hub, the transport-side implementation of Broadcaster.
It tracks live WebSocket clients and their room subscriptions and fans
published events out to the selected audience.
*/
package chat

import (
	"encoding/json"
	"sync"

	"github.com/rs/zerolog"

	"chatrelay/internal/pkg/logx"
)

// Hub tracks every live client connection and its room subscription.
// Fan-out is fire-and-forget: a client whose send queue is full misses the
// event rather than stalling the room.
type Hub struct {
	// mu protects clients, rooms, and memberRooms.
	mu sync.RWMutex

	// clients maps connection ID to the live client.
	clients map[string]*Client

	// rooms maps room name to the set of subscribed clients, keyed by
	// connection ID.
	rooms map[string]map[string]*Client

	// memberRooms maps connection ID to the room it is subscribed to.
	// A connection subscribes to at most one room for its lifetime.
	memberRooms map[string]string

	logger zerolog.Logger
}

// NewHub constructs an empty Hub.
func NewHub() *Hub {
	return &Hub{
		clients:     make(map[string]*Client),
		rooms:       make(map[string]map[string]*Client),
		memberRooms: make(map[string]string),
		logger:      logx.Logger().With().Str("component", "Hub").Logger(),
	}
}

// Register makes a freshly upgraded connection addressable by its connection ID.
// The client receives no room events until it subscribes via a successful join.
func (h *Hub) Register(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.clients[client.connectionID] = client

	h.logger.Info().
		Str("connection_id", client.connectionID).
		Int("total_connections", len(h.clients)).
		Msg("Client registered.")
}

// Subscribe attaches the connection to a room channel.
func (h *Hub) Subscribe(connectionID, room string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	client, ok := h.clients[connectionID]
	if !ok {
		h.logger.Warn().
			Str("connection_id", connectionID).
			Str("room", room).
			Msg("Subscribe for unknown connection ignored.")
		return
	}

	if h.rooms[room] == nil {
		h.rooms[room] = make(map[string]*Client)
	}
	h.rooms[room][connectionID] = client
	h.memberRooms[connectionID] = room
}

// Remove detaches the connection from the hub and its room, if any.
// Removing an unknown connection is a no-op.
func (h *Hub) Remove(connectionID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[connectionID]; !ok {
		return
	}

	delete(h.clients, connectionID)

	if room, ok := h.memberRooms[connectionID]; ok {
		delete(h.rooms[room], connectionID)
		if len(h.rooms[room]) == 0 {
			delete(h.rooms, room)
		}
		delete(h.memberRooms, connectionID)
	}

	h.logger.Info().
		Str("connection_id", connectionID).
		Int("total_connections", len(h.clients)).
		Msg("Client removed.")
}

// Publish marshals one outbound frame and fans it out to the audience.
// Delivery is best-effort; the publisher never blocks on a recipient.
func (h *Hub) Publish(audience Audience, senderID, room, event string, payload any) {
	frame, err := json.Marshal(outboundFrame{Event: event, Data: payload})
	if err != nil {
		h.logger.Error().
			Err(err).
			Str("event", event).
			Str("room", room).
			Msg("Error marshaling event for broadcast.")
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	if audience == AudienceSelf {
		if client, ok := h.clients[senderID]; ok {
			client.enqueue(frame)
		}
		return
	}

	for connectionID, client := range h.rooms[room] {
		if audience == AudienceRoomExcludingSelf && connectionID == senderID {
			continue
		}
		client.enqueue(frame)
	}
}

// Shutdown closes every client's send queue, which drives the write pumps to
// send close frames and tear the connections down.
func (h *Hub) Shutdown() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, client := range h.clients {
		client.closeSend()
	}

	h.clients = make(map[string]*Client)
	h.rooms = make(map[string]map[string]*Client)
	h.memberRooms = make(map[string]string)

	h.logger.Info().Msg("Hub shutdown complete.")
}
