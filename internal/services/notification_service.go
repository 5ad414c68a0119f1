package services

import (
	"sync"

	"user-notification-system/internal/domain"
	"user-notification-system/pkg/logger"
)

// NotificationService turns ingress events into WebSocket broadcasts. A single
// worker drains a bounded queue, so every client sees events in arrival order
// and the ingress caller is answered without waiting for the sweep.
type NotificationService struct {
	registry    domain.ConnectionRegistry
	broadcaster domain.Broadcaster
	queue       chan domain.Message
	pending     sync.WaitGroup
	done        chan struct{}

	mu     sync.RWMutex
	closed bool

	log logger.Logger
}

func NewNotificationService(registry domain.ConnectionRegistry, broadcaster domain.Broadcaster,
	queueSize int, log logger.Logger) *NotificationService {
	if queueSize <= 0 {
		queueSize = 1
	}
	s := &NotificationService{
		registry:    registry,
		broadcaster: broadcaster,
		queue:       make(chan domain.Message, queueSize),
		done:        make(chan struct{}),
		log:         log,
	}
	go s.run()
	return s
}

// PublishUserCreated queues a user_created broadcast and returns the number
// of connections open at the time of the call. A full or closed queue drops
// the event and returns domain.ErrQueueFull.
func (s *NotificationService) PublishUserCreated(event domain.UserEvent) (int, error) {
	message := domain.Message{
		Event: domain.EventUserCreated,
		User:  &event,
	}

	s.log.Info("User created event received", "user_id", event.ID, "username", event.Username)

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		s.log.Warn("Notification service closed, dropping event", "user_id", event.ID)
		return s.registry.Count(), domain.ErrQueueFull
	}

	s.pending.Add(1)
	select {
	case s.queue <- message:
	default:
		s.pending.Done()
		s.log.Warn("Broadcast queue full, dropping event", "user_id", event.ID, "capacity", cap(s.queue))
		return s.registry.Count(), domain.ErrQueueFull
	}

	return s.registry.Count(), nil
}

func (s *NotificationService) ActiveConnections() int {
	return s.registry.Count()
}

// Wait blocks until every queued broadcast has finished.
func (s *NotificationService) Wait() {
	s.pending.Wait()
}

// Close stops accepting events, drains the queue and stops the worker.
func (s *NotificationService) Close() {
	s.mu.Lock()
	if !s.closed {
		s.closed = true
		close(s.queue)
	}
	s.mu.Unlock()

	<-s.done
}

func (s *NotificationService) run() {
	defer close(s.done)
	for message := range s.queue {
		s.broadcaster.Broadcast(message)
		s.pending.Done()
	}
}
