package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"user-notification-system/internal/domain"
	"user-notification-system/internal/services"
	"user-notification-system/pkg/logger"
)

const maxNotifyBody = 1 << 16

type NotifyHandler struct {
	notifications *services.NotificationService
	log           logger.Logger
}

func NewNotifyHandler(notifications *services.NotificationService, log logger.Logger) *NotifyHandler {
	return &NotifyHandler{
		notifications: notifications,
		log:           log,
	}
}

// UserCreated accepts a user event from the user service and fans it out to
// every open WebSocket connection.
func (h *NotifyHandler) UserCreated(w http.ResponseWriter, r *http.Request) {
	var event domain.UserEvent
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxNotifyBody)).Decode(&event); err != nil {
		h.log.Warn("Rejected user-created event", "error", err)
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid JSON format"})
		return
	}
	if event.ID <= 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "user id is required"})
		return
	}

	clients, err := h.notifications.PublishUserCreated(event)
	if err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]interface{}{
			"error":   "Notification queue is full, event dropped",
			"clients": clients,
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "success",
		"message": "User created event sent to all clients",
		"clients": clients,
	})
}

func (h *NotifyHandler) Stats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"active_connections": h.notifications.ActiveConnections(),
		"status":             "running",
		"timestamp":          time.Now().Unix(),
	})
}

func (h *NotifyHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"service":   "websocket-server",
		"timestamp": time.Now().Unix(),
	})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
