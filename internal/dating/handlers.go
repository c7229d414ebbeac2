// internal/dating/handlers.go
// HTTP handlers for the dating endpoints

package dating

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/ember-dating/ember-backend/internal/auth"
	"github.com/ember-dating/ember-backend/internal/common/utils"
)

// Handler handles dating HTTP requests
type Handler struct {
	service Service
}

// NewHandler creates a new dating handler
func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// GetFeed handles GET /dating/feed
func (h *Handler) GetFeed(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	entries, err := h.service.BuildFeed(r.Context(), userID)
	if err != nil {
		if errors.Is(err, ErrProfileNotFound) {
			utils.RespondWithError(w, http.StatusNotFound, "Profile not found")
			return
		}
		log.Printf("Failed to build feed for user %d: %v", userID, err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to build feed")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"results": entries,
		"count":   len(entries),
	})
}

// Swipe handles POST /dating/swipe
func (h *Handler) Swipe(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req SwipeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := utils.ValidateStruct(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	resp, err := h.service.Swipe(r.Context(), userID, &req)
	if err != nil {
		switch {
		case errors.Is(err, ErrSelfSwipe), errors.Is(err, ErrInvalidAction):
			utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, ErrTargetNotFound):
			utils.RespondWithError(w, http.StatusNotFound, err.Error())
		default:
			log.Printf("Failed to record swipe by user %d: %v", userID, err)
			utils.RespondWithError(w, http.StatusInternalServerError, "Failed to record swipe")
		}
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, resp)
}

// GetMatches handles GET /dating/matches
func (h *Handler) GetMatches(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	matches, err := h.service.GetMatches(r.Context(), userID)
	if err != nil {
		log.Printf("Failed to list matches for user %d: %v", userID, err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to list matches")
		return
	}

	if matches == nil {
		matches = []*MatchSummary{}
	}
	utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"results": matches,
		"count":   len(matches),
	})
}
