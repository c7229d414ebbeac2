// internal/dating/routes.go

package dating

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/ember-dating/ember-backend/internal/auth"
)

// RegisterRoutes mounts the dating endpoints under /api/v1/dating
func RegisterRoutes(router *mux.Router, handler *Handler, authMiddleware *auth.Middleware) {
	api := router.PathPrefix("/api/v1/dating").Subrouter()
	api.Use(authMiddleware.Authenticate)

	api.HandleFunc("/feed", handler.GetFeed).Methods(http.MethodGet)
	api.HandleFunc("/swipe", handler.Swipe).Methods(http.MethodPost)
	api.HandleFunc("/matches", handler.GetMatches).Methods(http.MethodGet)
}
