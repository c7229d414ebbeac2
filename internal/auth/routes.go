// internal/auth/routes.go

package auth

import (
	"net/http"

	"github.com/gorilla/mux"
)

// RegisterRoutes mounts the public auth endpoints under /api/v1/auth
func RegisterRoutes(router *mux.Router, handler *Handler) {
	api := router.PathPrefix("/api/v1/auth").Subrouter()

	api.HandleFunc("/register", handler.Register).Methods(http.MethodPost)
	api.HandleFunc("/login", handler.Login).Methods(http.MethodPost)
}
