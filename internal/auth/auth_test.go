package auth

import (
	"errors"
	"strings"
	"testing"
	"time"

	"user-notification-system/internal/domain"

	"github.com/golang-jwt/jwt/v5"
	"github.com/tj/assert"
	"golang.org/x/crypto/bcrypt"
)

func TestJWTRoundTrip(t *testing.T) {
	svc := NewJWTService("secret", time.Minute)

	token, err := svc.GenerateToken("42")
	assert.Nil(t, err)

	claims, err := svc.ValidateToken(token)
	assert.Nil(t, err)
	assert.Equal(t, "42", claims.Subject)
}

func TestJWTRejectsWrongSecret(t *testing.T) {
	token, err := NewJWTService("one", time.Minute).GenerateToken("42")
	assert.Nil(t, err)

	_, err = NewJWTService("two", time.Minute).ValidateToken(token)
	assert.True(t, errors.Is(err, domain.ErrInvalidToken))
}

func TestJWTRejectsExpired(t *testing.T) {
	svc := NewJWTService("secret", -time.Minute)
	token, err := svc.GenerateToken("42")
	assert.Nil(t, err)

	_, err = svc.ValidateToken(token)
	assert.True(t, errors.Is(err, domain.ErrInvalidToken))
}

func TestJWTRejectsNoneAlgorithm(t *testing.T) {
	token := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{Subject: "42"})
	signed, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
	assert.Nil(t, err)

	_, err = NewJWTService("secret", time.Minute).ValidateToken(signed)
	assert.NotNil(t, err)
}

func TestPasswordHasher(t *testing.T) {
	h := NewPasswordHasher(bcrypt.MinCost)

	hash, err := h.Hash("hunter2")
	assert.Nil(t, err)
	assert.True(t, strings.HasPrefix(hash, "$2a$"))
	assert.True(t, h.Matches(hash, "hunter2"))
	assert.False(t, h.Matches(hash, "hunter3"))
	assert.False(t, h.Matches("not-a-hash", "hunter2"))
}

func TestPasswordHasherClampsCost(t *testing.T) {
	assert.Equal(t, bcrypt.DefaultCost, NewPasswordHasher(99).cost)
}
