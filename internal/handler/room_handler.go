/*
Package handler provides the HTTP handlers and routing setup for the chat relay server.

This file contains the read-only rooms API, exposing the same membership
snapshot the coordinator broadcasts as roomData.
*/
package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"chatrelay/internal/pkg/errs"
	"chatrelay/internal/pkg/resp"
)

// HandleRoomUsers returns the current membership snapshot for a room, in join
// order. Rooms with no live members respond with 404.
func HandleRoomUsers(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		room := chi.URLParam(r, "room")
		if room == "" {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
			return
		}

		snapshot := deps.Coordinator.RoomSnapshot(room)
		if len(snapshot.Users) == 0 {
			resp.RespondError(w, r, errs.NewError(errs.ErrRoomNotFound))
			return
		}

		resp.RespondSuccess(w, r, snapshot)
	}
}
