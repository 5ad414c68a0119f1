package websocket

import (
	"sync"

	"user-notification-system/internal/domain"
	"user-notification-system/pkg/logger"
)

// ConnectionManager is the registry of open connections. Membership is the
// open state: a connection is open exactly while it is registered.
type ConnectionManager struct {
	connections map[string]domain.Connection // connID -> connection
	mutex       sync.RWMutex
	log         logger.Logger
}

func NewConnectionManager(log logger.Logger) *ConnectionManager {
	return &ConnectionManager{
		connections: make(map[string]domain.Connection),
		log:         log,
	}
}

// Add registers conn. IDs are unique per connection; should one ever be
// reused, the displaced connection is closed so no socket stays open while
// unregistered.
func (cm *ConnectionManager) Add(conn domain.Connection) {
	cm.mutex.Lock()
	displaced, exists := cm.connections[conn.ID()]
	cm.connections[conn.ID()] = conn
	total := len(cm.connections)
	cm.mutex.Unlock()

	if exists && displaced != conn {
		cm.log.Warn("Connection ID reused, closing previous connection", "conn_id", conn.ID())
		if err := displaced.Close(); err != nil {
			cm.log.Debug("Close of displaced connection failed", "conn_id", conn.ID(), "error", err)
		}
	}
	cm.log.Info("Connection registered", "conn_id", conn.ID(), "total", total)
}

// Remove unregisters conn and reports whether this call removed it. Removing
// an absent connection is a no-op.
func (cm *ConnectionManager) Remove(conn domain.Connection) bool {
	cm.mutex.Lock()
	existing, ok := cm.connections[conn.ID()]
	if ok && existing == conn {
		delete(cm.connections, conn.ID())
	}
	total := len(cm.connections)
	cm.mutex.Unlock()

	if !ok || existing != conn {
		return false
	}
	cm.log.Info("Connection unregistered", "conn_id", conn.ID(), "total", total)
	return true
}

func (cm *ConnectionManager) Count() int {
	cm.mutex.RLock()
	defer cm.mutex.RUnlock()
	return len(cm.connections)
}

// Snapshot copies the current members so callers can iterate without the lock.
func (cm *ConnectionManager) Snapshot() []domain.Connection {
	cm.mutex.RLock()
	defer cm.mutex.RUnlock()

	connections := make([]domain.Connection, 0, len(cm.connections))
	for _, conn := range cm.connections {
		connections = append(connections, conn)
	}
	return connections
}

// CloseAll unregisters and closes every connection. Used on shutdown.
func (cm *ConnectionManager) CloseAll() {
	cm.mutex.Lock()
	connections := cm.connections
	cm.connections = make(map[string]domain.Connection)
	cm.mutex.Unlock()

	for connID, conn := range connections {
		if err := conn.Close(); err != nil {
			cm.log.Error("Failed to close connection", "conn_id", connID, "error", err)
		}
	}
	cm.log.Info("Connections closed", "count", len(connections))
}
