package websocket

import (
	"errors"
	"sync"
)

var errPeerGone = errors.New("peer gone")

type fakeConn struct {
	id       string
	fail     bool
	block    chan struct{} // when set, Send waits on it before returning
	received chan []byte

	mu       sync.Mutex
	attempts int
	closed   int
}

func newFakeConn(id string, fail bool) *fakeConn {
	return &fakeConn{id: id, fail: fail, received: make(chan []byte, 16)}
}

func (f *fakeConn) ID() string { return f.id }

func (f *fakeConn) Send(payload []byte) error {
	f.mu.Lock()
	f.attempts++
	f.mu.Unlock()

	if f.block != nil {
		<-f.block
	}
	if f.fail {
		return errPeerGone
	}
	f.received <- payload
	return nil
}

func (f *fakeConn) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed++
	return nil
}

func (f *fakeConn) Attempts() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.attempts
}

func (f *fakeConn) Closed() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}
