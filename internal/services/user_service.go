package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"user-notification-system/internal/auth"
	"user-notification-system/internal/domain"
	"user-notification-system/pkg/logger"
)

const maxUsernameLength = 50

type UserService struct {
	repo          domain.UserRepository
	cache         domain.UserCache
	logins        domain.LoginSync
	notifier      domain.UserNotifier
	hasher        *auth.PasswordHasher
	notifyTimeout time.Duration
	pending       sync.WaitGroup
	log           logger.Logger
}

func NewUserService(
	repo domain.UserRepository,
	cache domain.UserCache,
	logins domain.LoginSync,
	notifier domain.UserNotifier,
	hasher *auth.PasswordHasher,
	notifyTimeout time.Duration,
	log logger.Logger,
) *UserService {
	return &UserService{
		repo:          repo,
		cache:         cache,
		logins:        logins,
		notifier:      notifier,
		hasher:        hasher,
		notifyTimeout: notifyTimeout,
		log:           log,
	}
}

// CreateUser persists a new user and then, outside the write, mirrors the
// login into the auth service and announces the user to WebSocket clients.
// Neither side channel can turn a committed insert into a failure.
func (s *UserService) CreateUser(ctx context.Context, input domain.UserInput) (*domain.User, error) {
	if err := validateUserInput(input, true); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		Username: strings.TrimSpace(input.Username),
		Email:    strings.TrimSpace(input.Email),
		Password: hash,
		IsActive: true,
	}
	if input.IsActive != nil {
		user.IsActive = *input.IsActive
	}

	if err := s.repo.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	s.log.Info("User created", "user_id", user.ID, "username", user.Username)

	if err := s.logins.CreateLogin(ctx, loginFor(user)); err != nil {
		s.log.Warn("Auth service did not accept login", "user_id", user.ID, "error", err)
	}

	s.notifyCreated(user)
	return user, nil
}

func (s *UserService) GetUser(ctx context.Context, userID int64) (*domain.User, error) {
	if s.cache != nil {
		cached, err := s.cache.GetUser(ctx, userID)
		if err != nil {
			s.log.Warn("User cache read failed", "user_id", userID, "error", err)
		} else if cached != nil {
			return cached, nil
		}
	}

	user, err := s.repo.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetUser(ctx, user); err != nil {
			s.log.Warn("User cache write failed", "user_id", userID, "error", err)
		}
	}
	return user, nil
}

func (s *UserService) ListUsers(ctx context.Context) ([]*domain.User, error) {
	return s.repo.ListUsers(ctx)
}

// UpdateUser applies the non-empty fields of input. A new password is hashed
// and pushed to the auth service together with the other login fields.
func (s *UserService) UpdateUser(ctx context.Context, userID int64, input domain.UserInput) (*domain.User, error) {
	if err := validateUserInput(input, false); err != nil {
		return nil, err
	}

	user, err := s.repo.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if v := strings.TrimSpace(input.Username); v != "" {
		user.Username = v
	}
	if v := strings.TrimSpace(input.Email); v != "" {
		user.Email = v
	}
	if input.Password != "" {
		hash, err := s.hasher.Hash(input.Password)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		user.Password = hash
	}
	if input.IsActive != nil {
		user.IsActive = *input.IsActive
	}

	if err := s.repo.UpdateUser(ctx, user); err != nil {
		return nil, err
	}
	s.invalidate(ctx, userID)
	s.log.Info("User updated", "user_id", userID)

	if err := s.logins.UpdateLogin(ctx, user.ID, loginFor(user)); err != nil {
		s.log.Warn("Auth service did not accept login update", "user_id", user.ID, "error", err)
	}
	return user, nil
}

func (s *UserService) DeleteUser(ctx context.Context, userID int64) error {
	if err := s.repo.DeleteUser(ctx, userID); err != nil {
		return err
	}
	s.invalidate(ctx, userID)
	s.log.Info("User deleted", "user_id", userID)
	return nil
}

// Wait blocks until every in-flight notification has finished.
func (s *UserService) Wait() {
	s.pending.Wait()
}

func (s *UserService) notifyCreated(user *domain.User) {
	event := domain.NewUserEvent(user)

	s.pending.Add(1)
	go func() {
		defer s.pending.Done()

		// Detached from the request: the response must not wait on the notifier.
		ctx, cancel := context.WithTimeout(context.Background(), s.notifyTimeout)
		defer cancel()

		if !s.notifier.NotifyUserCreated(ctx, event) {
			s.log.Warn("User was created but the WebSocket notification was not delivered", "user_id", event.ID)
		}
	}()
}

func (s *UserService) invalidate(ctx context.Context, userID int64) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateUser(ctx, userID); err != nil {
		s.log.Warn("User cache invalidation failed", "user_id", userID, "error", err)
	}
}

func loginFor(user *domain.User) domain.LoginInput {
	return domain.LoginInput{
		ID:       user.ID,
		Username: user.Username,
		Password: user.Password,
		IsActive: user.IsActive,
	}
}

func validateUserInput(input domain.UserInput, create bool) error {
	var problems []string

	username := strings.TrimSpace(input.Username)
	email := strings.TrimSpace(input.Email)

	if create && username == "" {
		problems = append(problems, "username is required")
	}
	if len(username) > maxUsernameLength {
		problems = append(problems, fmt.Sprintf("username exceeds %d characters", maxUsernameLength))
	}
	if (create || email != "") && !strings.Contains(email, "@") {
		problems = append(problems, "email is invalid")
	}
	if create && input.Password == "" {
		problems = append(problems, "password is required")
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", domain.ErrInvalidInput, strings.Join(problems, ", "))
	}
	return nil
}

// IsNotFound reports whether err means the requested user does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, domain.ErrUserNotFound) || errors.Is(err, domain.ErrLoginNotFound)
}
