// internal/profile/routes.go

package profile

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/ember-dating/ember-backend/internal/auth"
)

// RegisterRoutes mounts the profile endpoints under /api/v1/profile
func RegisterRoutes(router *mux.Router, handler *Handler, authMiddleware *auth.Middleware) {
	api := router.PathPrefix("/api/v1/profile").Subrouter()
	api.Use(authMiddleware.Authenticate)

	api.HandleFunc("", handler.GetProfile).Methods(http.MethodGet)
	api.HandleFunc("", handler.UpdateProfile).Methods(http.MethodPut)
}
