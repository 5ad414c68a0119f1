package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"user-notification-system/internal/domain"
)

type Claims struct {
	jwt.RegisteredClaims
}

type JWTService struct {
	secretKey      []byte
	accessDuration time.Duration
}

func NewJWTService(secretKey string, accessDuration time.Duration) *JWTService {
	return &JWTService{
		secretKey:      []byte(secretKey),
		accessDuration: accessDuration,
	}
}

// GenerateToken issues an HS256 access token whose subject is the login ID.
func (j *JWTService) GenerateToken(subject string) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(j.accessDuration)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(j.secretKey)
}

func (j *JWTService) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return j.secretKey, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidToken, err)
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Subject == "" {
		return nil, domain.ErrInvalidToken
	}
	return claims, nil
}
