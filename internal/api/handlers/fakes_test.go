package handlers

import (
	"context"
	"sync"

	"user-notification-system/internal/domain"
)

type memoryUserRepo struct {
	mu     sync.Mutex
	nextID int64
	users  map[int64]domain.User
}

func newMemoryUserRepo() *memoryUserRepo {
	return &memoryUserRepo{users: map[int64]domain.User{}}
}

func (r *memoryUserRepo) CreateUser(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
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

type nopLoginSync struct{}

func (nopLoginSync) CreateLogin(context.Context, domain.LoginInput) error { return nil }

func (nopLoginSync) UpdateLogin(context.Context, int64, domain.LoginInput) error { return nil }

type downNotifier struct{}

func (downNotifier) NotifyUserCreated(context.Context, domain.UserEvent) bool { return false }

func (downNotifier) CheckHealth(context.Context) bool { return false }
