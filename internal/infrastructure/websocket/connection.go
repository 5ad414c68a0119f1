package websocket

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Connection wraps a gorilla connection. Writes are serialised and bounded by
// writeWait so a stuck peer fails its send instead of blocking forever.
type Connection struct {
	id        string
	conn      *websocket.Conn
	writeWait time.Duration
	writeMu   sync.Mutex
	closeOnce sync.Once
	closeErr  error
}

func NewConnection(conn *websocket.Conn, id string, writeWait time.Duration) *Connection {
	return &Connection{
		id:        id,
		conn:      conn,
		writeWait: writeWait,
	}
}

func (c *Connection) ID() string {
	return c.id
}

func (c *Connection) Send(payload []byte) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	if err := c.conn.SetWriteDeadline(time.Now().Add(c.writeWait)); err != nil {
		return err
	}
	return c.conn.WriteMessage(websocket.TextMessage, payload)
}

// Ping writes a ping control frame. WriteControl may run concurrently with Send.
func (c *Connection) Ping() error {
	return c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(c.writeWait))
}

// Close is safe to call more than once; only the first call touches the socket.
func (c *Connection) Close() error {
	c.closeOnce.Do(func() {
		c.closeErr = c.conn.Close()
	})
	return c.closeErr
}
