package websocket

import (
	"encoding/json"
	"net/http"
	"time"

	"user-notification-system/internal/config"
	"user-notification-system/internal/domain"
	"user-notification-system/pkg/logger"
	"user-notification-system/pkg/utils"

	"github.com/gorilla/websocket"
)

const invalidJSONMessage = "Invalid JSON format"

type WebSocketHandler struct {
	registry   domain.ConnectionRegistry
	dispatcher domain.Broadcaster
	upgrader   websocket.Upgrader
	cfg        config.WebSocketConfig
	log        logger.Logger
}

func NewWebSocketHandler(registry domain.ConnectionRegistry, dispatcher domain.Broadcaster,
	cfg config.WebSocketConfig, allowedOrigins []string, log logger.Logger) *WebSocketHandler {
	return &WebSocketHandler{
		registry:   registry,
		dispatcher: dispatcher,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  cfg.ReadBufferSize,
			WriteBufferSize: cfg.WriteBufferSize,
			CheckOrigin:     originChecker(allowedOrigins),
		},
		cfg: cfg,
		log: log,
	}
}

// HandleConnection upgrades the request and registers the connection. A failed
// upgrade leaves the registry untouched; the upgrader has already replied.
func (h *WebSocketHandler) HandleConnection(w http.ResponseWriter, r *http.Request) {
	ws, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Error("Failed to upgrade connection", "remote_addr", r.RemoteAddr, "error", err)
		return
	}

	conn := NewConnection(ws, utils.GenerateID("conn"), h.cfg.WriteWait)
	h.registry.Add(conn)

	go h.handleMessages(conn)
}

func (h *WebSocketHandler) handleMessages(conn *Connection) {
	done := make(chan struct{})
	defer func() {
		close(done)
		h.registry.Remove(conn)
		conn.Close()
	}()

	go h.keepAlive(conn, done)

	established := domain.Message{
		Event: domain.EventConnectionEstablished,
		Data:  "Connected to WebSocket successfully",
	}
	if !h.dispatcher.Unicast(conn, established) {
		return
	}

	conn.conn.SetReadLimit(h.cfg.MaxMessageSize)
	_ = conn.conn.SetReadDeadline(time.Now().Add(h.cfg.PongWait))
	conn.conn.SetPongHandler(func(string) error {
		return conn.conn.SetReadDeadline(time.Now().Add(h.cfg.PongWait))
	})

	for {
		msgType, data, err := conn.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway,
				websocket.CloseNormalClosure, websocket.CloseNoStatusReceived) {
				h.log.Warn("Unexpected close", "conn_id", conn.ID(), "error", err)
			}
			return
		}

		// Binary frames carry nothing for us; they only prove liveness.
		if msgType != websocket.TextMessage {
			continue
		}

		if !h.handleFrame(conn, data) {
			return
		}
	}
}

// handleFrame echoes a JSON frame back as message_received, or answers a
// malformed one with an error event. It returns false once the reply fails.
func (h *WebSocketHandler) handleFrame(conn *Connection, data []byte) bool {
	var payload interface{}
	if err := json.Unmarshal(data, &payload); err != nil {
		h.log.Debug("Malformed frame", "conn_id", conn.ID(), "error", err)
		return h.dispatcher.Unicast(conn, domain.Message{
			Event:   domain.EventError,
			Message: invalidJSONMessage,
		})
	}

	h.log.Debug("Message received", "conn_id", conn.ID())
	return h.dispatcher.Unicast(conn, domain.Message{
		Event: domain.EventMessageReceived,
		Data:  payload,
	})
}

func (h *WebSocketHandler) keepAlive(conn *Connection, done <-chan struct{}) {
	ticker := time.NewTicker(h.cfg.PingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := conn.Ping(); err != nil {
				h.log.Debug("Ping failed", "conn_id", conn.ID(), "error", err)
				conn.Close()
				return
			}
		case <-done:
			return
		}
	}
}

func originChecker(allowed []string) func(r *http.Request) bool {
	set := make(map[string]struct{}, len(allowed))
	for _, origin := range allowed {
		if origin == "*" {
			return func(*http.Request) bool { return true }
		}
		set[origin] = struct{}{}
	}

	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		_, ok := set[origin]
		return ok
	}
}
