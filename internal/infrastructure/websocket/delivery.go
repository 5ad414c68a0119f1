package websocket

import (
	"encoding/json"
	"sync"

	"user-notification-system/internal/domain"
	"user-notification-system/pkg/logger"

	"golang.org/x/sync/errgroup"
)

// Dispatcher delivers payloads to registered connections. A failed send is
// treated as a dead peer: the connection is removed and closed, and the error
// never leaves the dispatcher.
type Dispatcher struct {
	registry domain.ConnectionRegistry
	workers  int
	log      logger.Logger
}

func NewDispatcher(registry domain.ConnectionRegistry, workers int, log logger.Logger) *Dispatcher {
	if workers <= 0 {
		workers = 1
	}
	return &Dispatcher{
		registry: registry,
		workers:  workers,
		log:      log,
	}
}

// Broadcast sends message to every connection registered when the sweep
// starts. Each connection gets at most one attempt; those that fail are
// removed once the sweep is over.
func (d *Dispatcher) Broadcast(message interface{}) domain.DeliveryReport {
	data, err := encode(message)
	if err != nil {
		d.log.Error("Failed to encode broadcast message", "error", err)
		return domain.DeliveryReport{}
	}

	connections := d.registry.Snapshot()
	report := domain.DeliveryReport{Attempted: len(connections)}

	var (
		mu     sync.Mutex
		failed []domain.Connection
	)

	// Sends run on a bounded pool; a stalled peer holds one worker until its
	// write deadline fires.
	g := new(errgroup.Group)
	g.SetLimit(d.workers)
	for _, conn := range connections {
		conn := conn
		g.Go(func() error {
			if err := conn.Send(data); err != nil {
				d.log.Warn("Failed to send message", "conn_id", conn.ID(), "error", err)
				mu.Lock()
				failed = append(failed, conn)
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()

	for _, conn := range failed {
		d.drop(conn)
	}

	report.Failed = len(failed)
	report.Delivered = report.Attempted - report.Failed
	d.log.Info("Broadcast complete",
		"attempted", report.Attempted, "delivered", report.Delivered, "failed", report.Failed)
	return report
}

// Unicast sends message to a single connection, dropping it on failure.
func (d *Dispatcher) Unicast(conn domain.Connection, message interface{}) bool {
	data, err := encode(message)
	if err != nil {
		d.log.Error("Failed to encode message", "conn_id", conn.ID(), "error", err)
		return false
	}

	if err := conn.Send(data); err != nil {
		d.log.Warn("Failed to send message", "conn_id", conn.ID(), "error", err)
		d.drop(conn)
		return false
	}
	return true
}

func (d *Dispatcher) drop(conn domain.Connection) {
	if d.registry.Remove(conn) {
		d.log.Info("Dropped dead connection", "conn_id", conn.ID())
	}
	if err := conn.Close(); err != nil {
		d.log.Debug("Close after failed send", "conn_id", conn.ID(), "error", err)
	}
}

func encode(message interface{}) ([]byte, error) {
	switch m := message.(type) {
	case []byte:
		return m, nil
	case json.RawMessage:
		return m, nil
	default:
		return json.Marshal(message)
	}
}
