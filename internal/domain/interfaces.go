package domain

import (
	"context"
)

// Repository interfaces
type UserRepository interface {
	CreateUser(ctx context.Context, user *User) error
	GetUser(ctx context.Context, userID int64) (*User, error)
	ListUsers(ctx context.Context) ([]*User, error)
	UpdateUser(ctx context.Context, user *User) error
	DeleteUser(ctx context.Context, userID int64) error
}

type LoginRepository interface {
	CreateLogin(ctx context.Context, login *Login) error
	GetLogin(ctx context.Context, loginID int64) (*Login, error)
	GetLoginByUsername(ctx context.Context, username string) (*Login, error)
	UpdateLogin(ctx context.Context, login *Login) error
}

// Cache interfaces
type UserCache interface {
	GetUser(ctx context.Context, userID int64) (*User, error)
	SetUser(ctx context.Context, user *User) error
	InvalidateUser(ctx context.Context, userID int64) error
}

// LoginSync mirrors user credentials into the auth service.
type LoginSync interface {
	CreateLogin(ctx context.Context, login LoginInput) error
	UpdateLogin(ctx context.Context, loginID int64, login LoginInput) error
}

// Notification interfaces. Both calls report success as a boolean and never
// fail the caller.
type UserNotifier interface {
	NotifyUserCreated(ctx context.Context, event UserEvent) bool
	CheckHealth(ctx context.Context) bool
}

// WebSocket interfaces
type Connection interface {
	ID() string
	Send(payload []byte) error
	Close() error
}

type ConnectionRegistry interface {
	Add(conn Connection)
	Remove(conn Connection) bool
	Count() int
	Snapshot() []Connection
}

type Broadcaster interface {
	Broadcast(message interface{}) DeliveryReport
	Unicast(conn Connection, message interface{}) bool
}
