package services

import (
	"context"
	"errors"
	"sync"

	"user-notification-system/internal/domain"
)

type memoryUserRepo struct {
	mu     sync.Mutex
	nextID int64
	users  map[int64]domain.User
	err    error
}

func newMemoryUserRepo() *memoryUserRepo {
	return &memoryUserRepo{users: map[int64]domain.User{}}
}

func (r *memoryUserRepo) CreateUser(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	for _, existing := range r.users {
		if existing.Username == user.Username || existing.Email == user.Email {
			return domain.ErrDuplicateUser
		}
	}
	r.nextID++
	user.ID = r.nextID
	r.users[user.ID] = *user
	return nil
}

func (r *memoryUserRepo) GetUser(_ context.Context, userID int64) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[userID]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return &user, nil
}

func (r *memoryUserRepo) ListUsers(_ context.Context) ([]*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	users := make([]*domain.User, 0, len(r.users))
	for id := int64(1); id <= r.nextID; id++ {
		if user, ok := r.users[id]; ok {
			users = append(users, &user)
		}
	}
	return users, nil
}

func (r *memoryUserRepo) UpdateUser(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[user.ID] = *user
	return nil
}

func (r *memoryUserRepo) DeleteUser(_ context.Context, userID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[userID]; !ok {
		return domain.ErrUserNotFound
	}
	delete(r.users, userID)
	return nil
}

type memoryCache struct {
	mu          sync.Mutex
	users       map[int64]domain.User
	invalidated []int64
	hits        int
}

func newMemoryCache() *memoryCache {
	return &memoryCache{users: map[int64]domain.User{}}
}

func (c *memoryCache) GetUser(_ context.Context, userID int64) (*domain.User, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	user, ok := c.users[userID]
	if !ok {
		return nil, nil
	}
	c.hits++
	return &user, nil
}

func (c *memoryCache) SetUser(_ context.Context, user *domain.User) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.users[user.ID] = *user
	return nil
}

func (c *memoryCache) InvalidateUser(_ context.Context, userID int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.users, userID)
	c.invalidated = append(c.invalidated, userID)
	return nil
}

type recordingLoginSync struct {
	mu      sync.Mutex
	created []domain.LoginInput
	updated []domain.LoginInput
	err     error
}

func (s *recordingLoginSync) CreateLogin(_ context.Context, login domain.LoginInput) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.created = append(s.created, login)
	return s.err
}

func (s *recordingLoginSync) UpdateLogin(_ context.Context, _ int64, login domain.LoginInput) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.updated = append(s.updated, login)
	return s.err
}

// blockingNotifier holds every notification until release is closed.
type blockingNotifier struct {
	release chan struct{}
	healthy bool

	mu     sync.Mutex
	events []domain.UserEvent
}

func (n *blockingNotifier) NotifyUserCreated(ctx context.Context, event domain.UserEvent) bool {
	if n.release != nil {
		select {
		case <-n.release:
		case <-ctx.Done():
			return false
		}
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, event)
	return true
}

func (n *blockingNotifier) CheckHealth(context.Context) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.healthy
}

func (n *blockingNotifier) setHealthy(v bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.healthy = v
}

func (n *blockingNotifier) Events() []domain.UserEvent {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]domain.UserEvent(nil), n.events...)
}

type memoryLoginRepo struct {
	mu     sync.Mutex
	logins map[int64]domain.Login
}

func newMemoryLoginRepo() *memoryLoginRepo {
	return &memoryLoginRepo{logins: map[int64]domain.Login{}}
}

func (r *memoryLoginRepo) CreateLogin(_ context.Context, login *domain.Login) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.logins[login.ID]; ok {
		return domain.ErrDuplicateUser
	}
	r.logins[login.ID] = *login
	return nil
}

func (r *memoryLoginRepo) GetLogin(_ context.Context, loginID int64) (*domain.Login, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	login, ok := r.logins[loginID]
	if !ok {
		return nil, domain.ErrLoginNotFound
	}
	return &login, nil
}

func (r *memoryLoginRepo) GetLoginByUsername(_ context.Context, username string) (*domain.Login, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, login := range r.logins {
		if login.Username == username {
			return &login, nil
		}
	}
	return nil, domain.ErrLoginNotFound
}

func (r *memoryLoginRepo) UpdateLogin(_ context.Context, login *domain.Login) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.logins[login.ID] = *login
	return nil
}

var errDatabaseDown = errors.New("database down")

// recordingLogger counts entries per level.
type recordingLogger struct {
	mu     sync.Mutex
	levels []string
}

func (l *recordingLogger) record(level string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.levels = append(l.levels, level)
}

func (l *recordingLogger) Count(level string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := 0
	for _, v := range l.levels {
		if v == level {
			n++
		}
	}
	return n
}

func (l *recordingLogger) Info(string, ...interface{})  { l.record("info") }
func (l *recordingLogger) Error(string, ...interface{}) { l.record("error") }
func (l *recordingLogger) Debug(string, ...interface{}) { l.record("debug") }
func (l *recordingLogger) Warn(string, ...interface{})  { l.record("warn") }
func (l *recordingLogger) Fatal(string, ...interface{}) { l.record("fatal") }
