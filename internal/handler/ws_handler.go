/*
Package handler provides the HTTP handlers and routing setup for the chat relay server.

This file contains the HandleWebSocket function, which rate limits and upgrades
incoming connections, assigns each one its opaque connection ID, and starts the
client read/write pumps. Joining a room happens later, over the socket itself.
*/
package handler

import (
	"net"
	"net/http"

	"github.com/gorilla/websocket"

	"chatrelay/internal/app/chat"
	"chatrelay/internal/pkg/errs"
	"chatrelay/internal/pkg/idgen"
	"chatrelay/internal/pkg/limiter"
	"chatrelay/internal/pkg/logx"
	"chatrelay/internal/pkg/resp"
)

// HandleWebSocket creates an HTTP HandlerFunc that processes WebSocket connection requests.
func HandleWebSocket(upgrader websocket.Upgrader, rateLimiter *limiter.IPRateLimiter, deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ip, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			ip = r.RemoteAddr
		}

		if ip == "" {
			ip = "unknown_ip"
		}

		if !rateLimiter.GetLimiter(ip).Allow() {
			logx.Warn("WebSocket connection rejected: Rate limit exceeded.", "ip", ip)
			resp.RespondError(w, r, errs.NewError(errs.ErrRateLimitExceeded))
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logx.Error(err, "Failed to upgrade connection to WebSocket")
			return
		}

		connectionID := idgen.ConnectionID()

		client := chat.NewClient(connectionID, conn, deps.Hub, deps.Coordinator)
		deps.Hub.Register(client)

		logx.Info("WebSocket connection established", "connection_id", connectionID)

		go client.WritePump()
		client.ReadPump()
	}
}
