// internal/messaging/routes.go

package messaging

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/ember-dating/ember-backend/internal/auth"
)

// RegisterRoutes mounts the chat endpoints under /api/v1/chat
func RegisterRoutes(router *mux.Router, handler *Handler, authMiddleware *auth.Middleware) {
	api := router.PathPrefix("/api/v1/chat").Subrouter()
	api.Use(authMiddleware.Authenticate)

	api.HandleFunc("/stream", handler.Stream).Methods(http.MethodGet)
	api.HandleFunc("/{matchID:[0-9]+}/messages", handler.GetMessages).Methods(http.MethodGet)
	api.HandleFunc("/{matchID:[0-9]+}/messages", handler.SendMessage).Methods(http.MethodPost)
}
