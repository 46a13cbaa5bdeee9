package handler

import (
	"chatrelay/internal/app/chat"
	"chatrelay/internal/configs"
)

// AppDeps bundles the collaborators the HTTP layer needs.
type AppDeps struct {
	Hub         *chat.Hub
	Coordinator *chat.Coordinator
	Config      *configs.AppConfig
}
