package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"user-notification-system/internal/auth"
	"user-notification-system/internal/domain"
	"user-notification-system/pkg/logger"
)

// LoginService owns the credential store of the auth service. Passwords
// arrive already hashed from the user service.
type LoginService struct {
	repo   domain.LoginRepository
	hasher *auth.PasswordHasher
	tokens *auth.JWTService
	log    logger.Logger
}

func NewLoginService(repo domain.LoginRepository, hasher *auth.PasswordHasher,
	tokens *auth.JWTService, log logger.Logger) *LoginService {
	return &LoginService{
		repo:   repo,
		hasher: hasher,
		tokens: tokens,
		log:    log,
	}
}

func (s *LoginService) CreateLogin(ctx context.Context, input domain.LoginInput) error {
	if strings.TrimSpace(input.Username) == "" || input.Password == "" {
		return fmt.Errorf("%w: username and password are required", domain.ErrInvalidInput)
	}

	login := &domain.Login{
		ID:       input.ID,
		Username: strings.TrimSpace(input.Username),
		Password: input.Password,
		IsActive: input.IsActive,
	}
	if err := s.repo.CreateLogin(ctx, login); err != nil {
		return err
	}

	s.log.Info("Login created", "login_id", login.ID, "username", login.Username)
	return nil
}

func (s *LoginService) UpdateLogin(ctx context.Context, loginID int64, input domain.LoginInput) error {
	login, err := s.repo.GetLogin(ctx, loginID)
	if err != nil {
		return err
	}

	if v := strings.TrimSpace(input.Username); v != "" {
		login.Username = v
	}
	if input.Password != "" {
		login.Password = input.Password
	}
	login.IsActive = input.IsActive

	if err := s.repo.UpdateLogin(ctx, login); err != nil {
		return err
	}

	s.log.Info("Login updated", "login_id", loginID)
	return nil
}

// Authenticate checks the credentials and issues an access token whose
// subject is the login ID.
func (s *LoginService) Authenticate(ctx context.Context, username, password string) (string, error) {
	login, err := s.repo.GetLoginByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		return "", err
	}

	if !login.IsActive || !s.hasher.Matches(login.Password, password) {
		s.log.Warn("Rejected login attempt", "username", login.Username)
		return "", domain.ErrInvalidCredentials
	}

	return s.tokens.GenerateToken(strconv.FormatInt(login.ID, 10))
}

// CurrentUser returns the subject of a valid access token.
func (s *LoginService) CurrentUser(token string) (string, error) {
	claims, err := s.tokens.ValidateToken(token)
	if err != nil {
		return "", err
	}
	return claims.Subject, nil
}
