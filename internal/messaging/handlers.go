// internal/messaging/handlers.go
// HTTP and WebSocket handlers for chat

package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"github.com/ember-dating/ember-backend/internal/auth"
	"github.com/ember-dating/ember-backend/internal/common/utils"
)

const writeWait = 10 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // origin is enforced by the auth token
	},
}

// Handler handles chat HTTP requests
type Handler struct {
	service  Service
	listener *Listener
}

// NewHandler creates a new chat handler
func NewHandler(service Service, listener *Listener) *Handler {
	return &Handler{service: service, listener: listener}
}

// GetMessages handles GET /chat/{matchID}/messages
func (h *Handler) GetMessages(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	matchID, err := matchIDFromRequest(r)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid match id")
		return
	}

	messages, err := h.service.GetMessages(r.Context(), userID, matchID)
	if err != nil {
		log.Printf("Failed to list messages for user %d in match %d: %v", userID, matchID, err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to list messages")
		return
	}

	if messages == nil {
		messages = []*Message{}
	}
	utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"results": messages,
		"count":   len(messages),
	})
}

// SendMessage handles POST /chat/{matchID}/messages
func (h *Handler) SendMessage(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	matchID, err := matchIDFromRequest(r)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid match id")
		return
	}

	var req SendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := utils.ValidateStruct(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	msg, err := h.service.SendMessage(r.Context(), userID, matchID, &req)
	if err != nil {
		if errors.Is(err, ErrNotMatchMember) {
			utils.RespondWithError(w, http.StatusForbidden, err.Error())
			return
		}
		log.Printf("Failed to send message from user %d to match %d: %v", userID, matchID, err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to send message")
		return
	}

	utils.RespondWithJSON(w, http.StatusCreated, msg)
}

// Stream handles GET /chat/stream: upgrades to a WebSocket and runs the
// event loop until the client goes away
func (h *Handler) Stream(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("Failed to upgrade stream for user %d: %v", userID, err)
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	// The stream is write-only; the read loop exists to notice the
	// client disconnecting.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				cancel()
				return
			}
		}
	}()

	wake, unsubscribe := h.listener.Subscribe()
	defer unsubscribe()

	writer := &wsEventWriter{conn: conn}
	if err := h.service.StreamEvents(ctx, userID, wake, writer); err != nil {
		// One terminal error frame, best effort; the connection may
		// already be gone.
		writer.WriteEvent(&StreamEvent{
			Type:      EventTypeError,
			Error:     "stream failed",
			Timestamp: time.Now(),
		})
		log.Printf("Chat stream for user %d ended: %v", userID, err)
	}
}

type wsEventWriter struct {
	conn *websocket.Conn
}

func (w *wsEventWriter) WriteEvent(ev *StreamEvent) error {
	w.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return w.conn.WriteJSON(ev)
}

func matchIDFromRequest(r *http.Request) (int64, error) {
	return strconv.ParseInt(mux.Vars(r)["matchID"], 10, 64)
}
