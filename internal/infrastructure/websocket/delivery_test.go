package websocket

import (
	"fmt"
	"testing"
	"time"

	"user-notification-system/internal/domain"
	"user-notification-system/pkg/logger"

	"github.com/tj/assert"
)

func newTestDispatcher(workers int) (*ConnectionManager, *Dispatcher) {
	cm := NewConnectionManager(logger.NewNop())
	return cm, NewDispatcher(cm, workers, logger.NewNop())
}

func TestDispatcher_BroadcastPartialFailure(t *testing.T) {
	cm, d := newTestDispatcher(4)
	a := newFakeConn("A", false)
	b := newFakeConn("B", true)
	c := newFakeConn("C", false)
	cm.Add(a)
	cm.Add(b)
	cm.Add(c)

	report := d.Broadcast(map[string]string{"event": "x"})

	assert.Equal(t, domain.DeliveryReport{Attempted: 3, Delivered: 2, Failed: 1}, report)
	assert.Equal(t, 2, cm.Count())
	for _, conn := range []*fakeConn{a, c} {
		assert.Len(t, conn.received, 1)
		assert.JSONEq(t, `{"event":"x"}`, string(<-conn.received))
	}
	assert.Equal(t, 1, b.Closed())
	assert.False(t, cm.Remove(b))
}

func TestDispatcher_BroadcastAtMostOneAttemptEach(t *testing.T) {
	cm, d := newTestDispatcher(3)
	var conns []*fakeConn
	for i := 0; i < 20; i++ {
		conn := newFakeConn(fmt.Sprintf("c%d", i), i%4 == 0)
		conns = append(conns, conn)
		cm.Add(conn)
	}

	report := d.Broadcast([]byte(`{"event":"user_created"}`))

	assert.Equal(t, 20, report.Attempted)
	assert.Equal(t, 5, report.Failed)
	assert.Equal(t, 15, cm.Count())
	for _, conn := range conns {
		assert.Equal(t, 1, conn.Attempts())
		if conn.fail {
			assert.Equal(t, 1, conn.Closed())
		} else {
			assert.Equal(t, 0, conn.Closed())
		}
	}
}

func TestDispatcher_BroadcastEmptyRegistry(t *testing.T) {
	_, d := newTestDispatcher(2)
	assert.Equal(t, domain.DeliveryReport{}, d.Broadcast(domain.Message{Event: domain.EventUserCreated}))
}

func TestDispatcher_BroadcastToleratesConcurrentRemoval(t *testing.T) {
	cm, d := newTestDispatcher(2)
	leaving := newFakeConn("leaving", true)
	leaving.block = make(chan struct{})
	stays := newFakeConn("stays", false)
	cm.Add(leaving)
	cm.Add(stays)

	done := make(chan domain.DeliveryReport)
	go func() { done <- d.Broadcast([]byte(`{}`)) }()

	deadline := time.Now().Add(time.Second)
	for leaving.Attempts() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("send to leaving connection never started")
		}
		time.Sleep(5 * time.Millisecond)
	}

	// The endpoint handler removes the connection while its send is in flight.
	assert.True(t, cm.Remove(leaving))
	close(leaving.block)

	report := <-done
	assert.Equal(t, 1, report.Failed)
	assert.Equal(t, 1, cm.Count())
	assert.Equal(t, 1, stays.Attempts())
}

func TestDispatcher_StalledPeerDoesNotBlockOthers(t *testing.T) {
	cm, d := newTestDispatcher(2)
	stalled := newFakeConn("stalled", true)
	stalled.block = make(chan struct{})
	a := newFakeConn("a", false)
	b := newFakeConn("b", false)
	cm.Add(stalled)
	cm.Add(a)
	cm.Add(b)

	done := make(chan domain.DeliveryReport)
	go func() { done <- d.Broadcast([]byte(`{"event":"x"}`)) }()

	for _, conn := range []*fakeConn{a, b} {
		select {
		case <-conn.received:
		case <-time.After(time.Second):
			t.Fatalf("%s did not receive while a peer was stalled", conn.id)
		}
	}

	close(stalled.block)
	report := <-done
	assert.Equal(t, 2, report.Delivered)
	assert.Equal(t, 2, cm.Count())
}

func TestDispatcher_UnicastFailureRemoves(t *testing.T) {
	cm, d := newTestDispatcher(1)
	good := newFakeConn("good", false)
	bad := newFakeConn("bad", true)
	cm.Add(good)
	cm.Add(bad)

	assert.True(t, d.Unicast(good, domain.Message{Event: domain.EventConnectionEstablished}))
	assert.False(t, d.Unicast(bad, domain.Message{Event: domain.EventConnectionEstablished}))

	assert.Equal(t, 1, cm.Count())
	assert.Equal(t, 1, bad.Closed())
	assert.JSONEq(t, `{"event":"connection_established"}`, string(<-good.received))
}

func TestDispatcher_UnicastToUnregisteredFailureIsQuiet(t *testing.T) {
	cm, d := newTestDispatcher(1)
	gone := newFakeConn("gone", true)

	assert.False(t, d.Unicast(gone, []byte(`{}`)))
	assert.Equal(t, 0, cm.Count())
}
