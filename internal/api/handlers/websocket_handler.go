package handlers

import (
	"user-notification-system/internal/api/middleware"
	"user-notification-system/internal/infrastructure/websocket"

	"github.com/gorilla/mux"
)

// Routes wires the notification service endpoints onto a mux router.
type Routes struct {
	WebSocketPath string
	WebSocket     *websocket.WebSocketHandler
	Notify        *NotifyHandler
	IngressLimit  *middleware.RateLimiter
}

func NewRouter(routes Routes) *mux.Router {
	router := mux.NewRouter()

	// WebSocket routes
	router.HandleFunc(routes.WebSocketPath, routes.WebSocket.HandleConnection).Methods("GET")

	// HTTP routes receiving events
	api := router.PathPrefix("/api").Subrouter()
	notify := api.PathPrefix("/notify").Subrouter()
	if routes.IngressLimit != nil {
		notify.Use(routes.IngressLimit.Middleware())
	}
	notify.HandleFunc("/user-created", routes.Notify.UserCreated).Methods("POST")
	api.HandleFunc("/stats", routes.Notify.Stats).Methods("GET")

	router.HandleFunc("/health", routes.Notify.Health).Methods("GET")
	return router
}
