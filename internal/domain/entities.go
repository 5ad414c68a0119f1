package domain

import (
	"time"
)

type User struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Password  string    `json:"-"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UserInput carries the writable fields of a user. Password is plaintext and
// is hashed before it reaches a repository.
type UserInput struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	IsActive *bool  `json:"is_active,omitempty"`
}

// Login is the credential record owned by the auth service. Its ID mirrors
// the user ID in the user service.
type Login struct {
	ID       int64
	Username string
	Password string
	IsActive bool
}

// LoginInput is the payload exchanged between user-service and auth-service.
// Password is already a bcrypt hash on the wire.
type LoginInput struct {
	ID       int64  `json:"id,omitempty"`
	Username string `json:"username"`
	Password string `json:"password"`
	IsActive bool   `json:"is_active"`
}

// UserEvent is the public projection of a user carried by notifications.
// It has no credential fields.
type UserEvent struct {
	ID       int64  `json:"id"`
	Email    string `json:"email"`
	Username string `json:"username"`
	IsActive bool   `json:"is_active"`
}

func NewUserEvent(u *User) UserEvent {
	return UserEvent{
		ID:       u.ID,
		Email:    u.Email,
		Username: u.Username,
		IsActive: u.IsActive,
	}
}

type EventType string

const (
	EventConnectionEstablished EventType = "connection_established"
	EventMessageReceived       EventType = "message_received"
	EventUserCreated           EventType = "user_created"
	EventError                 EventType = "error"
)

// Message is the JSON envelope pushed to WebSocket clients.
type Message struct {
	Event   EventType   `json:"event"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
	User    *UserEvent  `json:"user,omitempty"`
}

// DeliveryReport summarises one broadcast sweep.
type DeliveryReport struct {
	Attempted int `json:"attempted"`
	Delivered int `json:"delivered"`
	Failed    int `json:"failed"`
}
