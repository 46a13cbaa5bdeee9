/*
Package chat contains the core logic for relaying room-scoped chat events.

This file defines the Client struct, representing one active WebSocket
connection. It runs the read and write pumps, decodes inbound event frames,
dispatches them to the Coordinator, and returns exactly one acknowledgement
per acknowledged request.
*/
package chat

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"chatrelay/internal/pkg/errs"
	"chatrelay/internal/pkg/logx"
)

const (
	// timeout duration for writing to the WebSocket connection.
	writeWait = 10 * time.Second

	// maximum time allowed for the server to wait for a Pong message from the client.
	pongWait = 60 * time.Second

	// frequency at which the server sends a Ping message.
	pingPeriod = (pongWait * 9) / 10

	// maximum allowed size (in bytes) of a frame sent by the client.
	maxMessageSize = 8192

	// sendQueueSize is the per-client outbound buffer. A client that falls
	// this far behind starts missing events instead of blocking the room.
	sendQueueSize = 256
)

// Inbound event names, matching what the browser client emits.
const (
	eventJoin         = "join"
	eventSendMessage  = "sendMessage"
	eventSendLocation = "sendLocation"
)

// inboundFrame is the JSON envelope for client-to-server events.
// AckID, when non-zero, requests exactly one ack frame for this event.
type inboundFrame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
	AckID int64           `json:"ackId,omitempty"`
}

// outboundFrame is the JSON envelope for server-to-client events.
type outboundFrame struct {
	Event string `json:"event"`
	Data  any    `json:"data,omitempty"`
}

// ackPayload carries the result of an acknowledged request. Error holds the
// rejection message and is empty on success.
type ackPayload struct {
	AckID int64  `json:"ackId"`
	Error string `json:"error,omitempty"`
}

type joinPayload struct {
	Username string `json:"username"`
	Room     string `json:"room"`
}

type sendMessagePayload struct {
	Text string `json:"text"`
}

type sendLocationPayload struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Client represents one active WebSocket connection.
type Client struct {
	// connectionID is the transport-assigned opaque identifier. It keys all
	// presence state for this connection.
	connectionID string

	// underlying WebSocket connection object.
	conn *websocket.Conn

	hub         *Hub
	coordinator *Coordinator

	// send is a buffered channel queueing frames waiting to be written.
	send chan []byte

	// sendMu serializes enqueue against closeSend so no frame is ever sent
	// on a closed channel: the hub shutdown may close send while the read
	// pump is still acking.
	sendMu     sync.Mutex
	sendClosed bool

	logger zerolog.Logger
}

// NewClient constructs a Client around an upgraded WebSocket connection.
func NewClient(connectionID string, conn *websocket.Conn, hub *Hub, coordinator *Coordinator) *Client {
	return &Client{
		connectionID: connectionID,
		conn:         conn,
		hub:          hub,
		coordinator:  coordinator,
		send:         make(chan []byte, sendQueueSize),
		logger: logx.Logger().With().
			Str("component", "Client").
			Str("connection_id", connectionID).
			Logger(),
	}
}

// ReadPump reads frames from the WebSocket connection until it closes.
// It maintains the pong deadline heartbeat and performs disconnect cleanup
// when the loop ends.
func (c *Client) ReadPump() {
	defer c.cleanupOnDisconnect()

	c.conn.SetReadLimit(maxMessageSize)

	if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		c.logger.Error().Err(err).Msg("Failed to set read deadline")
		return
	}

	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, frameBytes, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Info().Err(err).Msg("Error reading frame (client close/going away)")
			}
			break
		}

		c.handleFrame(frameBytes)
	}
}

// cleanupOnDisconnect detaches the client from the hub first, so the leave
// announcement only reaches the remaining members, then reports the
// disconnect to the coordinator and closes the connection. Re-reported
// disconnects are no-ops all the way down.
func (c *Client) cleanupOnDisconnect() {
	c.logger.Info().Msg("Client connection cleanup starting.")

	c.hub.Remove(c.connectionID)
	c.coordinator.Disconnect(c.connectionID)
	c.closeSend()

	if err := c.conn.Close(); err != nil {
		c.logger.Debug().Err(err).Msg("Client connection close error")
	}
}

// handleFrame decodes one inbound envelope and dispatches it to the
// coordinator. Every dispatch path ends in exactly one ack for frames that
// carry an ackId; frames without one are never acked.
func (c *Client) handleFrame(frameBytes []byte) {
	var frame inboundFrame
	if err := json.Unmarshal(frameBytes, &frame); err != nil {
		c.logger.Warn().Err(err).
			Bytes("frame_bytes", frameBytes).
			Msg("Client sent invalid JSON")
		return
	}

	switch frame.Event {
	case eventJoin:
		var payload joinPayload
		if err := json.Unmarshal(frame.Data, &payload); err != nil {
			c.ack(frame.AckID, errs.NewError(errs.ErrInvalidFrame))
			return
		}
		c.ack(frame.AckID, c.coordinator.Join(c.connectionID, payload.Username, payload.Room))

	case eventSendMessage:
		var payload sendMessagePayload
		if err := json.Unmarshal(frame.Data, &payload); err != nil {
			c.ack(frame.AckID, errs.NewError(errs.ErrInvalidFrame))
			return
		}
		c.ack(frame.AckID, c.coordinator.SendMessage(c.connectionID, payload.Text))

	case eventSendLocation:
		var payload sendLocationPayload
		if err := json.Unmarshal(frame.Data, &payload); err != nil {
			c.ack(frame.AckID, errs.NewError(errs.ErrInvalidFrame))
			return
		}
		c.ack(frame.AckID, c.coordinator.SendLocation(c.connectionID, payload.Latitude, payload.Longitude))

	default:
		c.logger.Warn().Str("event", frame.Event).Msg("Client sent unsupported event type")
		c.ack(frame.AckID, errs.NewError(errs.ErrUnknownEventType))
	}
}

// ack queues the single acknowledgement frame for a request. A zero ackID
// means the client did not request one.
func (c *Client) ack(ackID int64, customErr *errs.CustomError) {
	if ackID == 0 {
		return
	}

	payload := ackPayload{AckID: ackID}
	if customErr != nil {
		payload.Error = customErr.Message
	}

	frame, err := json.Marshal(outboundFrame{Event: EventAck, Data: payload})
	if err != nil {
		c.logger.Error().Err(err).Msg("Error marshaling ack frame")
		return
	}

	c.enqueue(frame)
}

// enqueue attempts a non-blocking delivery to the client's send queue.
// Enqueueing after closeSend is a silent no-op.
func (c *Client) enqueue(frame []byte) {
	c.sendMu.Lock()
	defer c.sendMu.Unlock()

	if c.sendClosed {
		return
	}

	select {
	case c.send <- frame:
	default:
		c.logger.Warn().Int("queue_len", len(c.send)).Msg("Client send queue full, dropping frame")
	}
}

// closeSend closes the send queue exactly once, signalling the write pump to
// finish with a close frame.
func (c *Client) closeSend() {
	c.sendMu.Lock()
	defer c.sendMu.Unlock()

	if c.sendClosed {
		return
	}

	c.sendClosed = true
	close(c.send)
}

// WritePump writes queued frames to the WebSocket connection and keeps the
// heartbeat alive with periodic pings.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)

	defer func() {
		ticker.Stop()

		if err := c.conn.Close(); err != nil {
			c.logger.Debug().Err(err).Msg("Client connection close error in WritePump")
		}
	}()

	for {
		select {
		case frame, ok := <-c.send:
			if !c.writeQueuedFrame(frame, ok) {
				return
			}

		case <-ticker.C:
			if !c.writePingMessage() {
				return
			}
		}
	}
}

// writeQueuedFrame writes one frame pulled from the send queue.
// Returns false when the write pump should terminate.
func (c *Client) writeQueuedFrame(frame []byte, ok bool) bool {
	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		c.logger.Error().Err(err).Msg("Failed to set write deadline")
		return false
	}

	if !ok {
		if err := c.conn.WriteMessage(websocket.CloseMessage, []byte{}); err != nil {
			c.logger.Debug().Err(err).Msg("Error writing close message")
		}
		return false
	}

	if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
		c.logger.Error().Err(err).Msg("Error writing frame")
		return false
	}

	return true
}

// writePingMessage sends a periodic Ping to maintain the connection heartbeat.
// Returns false when the write pump should terminate.
func (c *Client) writePingMessage() bool {
	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		c.logger.Error().Err(err).Msg("Failed to set write deadline on ping")
		return false
	}

	if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
		c.logger.Debug().Err(err).Msg("Error writing ping")
		return false
	}

	return true
}
