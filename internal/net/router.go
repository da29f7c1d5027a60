package net

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
)

// Handler serves the HTTP surface: session creation, the websocket upgrade,
// and the operational endpoints.
type Handler struct {
	hub      *Hub
	upgrader websocket.Upgrader
}

func NewHandler(hub *Hub) *Handler {
	return &Handler{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/join", h.handleJoin)
	r.Get("/ws", h.handleWS)
	r.Get("/healthz", h.handleHealth)
	r.Get("/diagnostics", h.handleDiagnostics)
}

func (h *Handler) handleJoin(w http.ResponseWriter, r *http.Request) {
	session := h.hub.Join()
	// The loop has not started yet, so reading the snapshot here cannot race
	// the simulation.
	writeJSON(w, http.StatusOK, joinedMessage{
		Ver:       ProtocolVersion,
		Type:      "joined",
		SessionID: session.ID,
		TickRate:  h.hub.cfg.TickRate,
		Snapshot:  session.world.Snapshot(),
	})
}

func (h *Handler) handleWS(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("id")
	if sessionID == "" {
		http.Error(w, "missing id", http.StatusBadRequest)
		return
	}
	session, ok := h.hub.Session(sessionID)
	if !ok {
		http.Error(w, "unknown session", http.StatusNotFound)
		return
	}
	if !session.attach() {
		http.Error(w, "session already attached", http.StatusConflict)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.hub.logger.Printf("upgrade failed for %s: %v", sessionID, err)
		return
	}
	session.serve(conn)
}

func (h *Handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) handleDiagnostics(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"sessions": h.hub.SessionCount(),
		"tickRate": h.hub.cfg.TickRate,
		"rooms":    h.hub.cfg.RoomCount,
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}
