package service

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"mockprep/internal/model"
)

var ErrInvalidToken = errors.New("invalid or expired token")

// AuthService verifies the bearer tokens that identify the acting owner.
// Tokens are issued by the identity provider; IssueToken exists for seeding
// and local development.
type AuthService struct {
	jwtSecret []byte
}

// NewAuthService creates a new auth service
func NewAuthService(secret string) *AuthService {
	return &AuthService{
		jwtSecret: []byte(secret),
	}
}

// IssueToken signs a token for ownerID; ttl <= 0 means no expiry
func (s *AuthService) IssueToken(ownerID, name string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &model.OwnerClaims{
		Name: name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:  ownerID,
			IssuedAt: jwt.NewNumericDate(now),
		},
	}
	if ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}

// ValidateToken validates a JWT and returns its claims
func (s *AuthService) ValidateToken(tokenString string) (*model.OwnerClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &model.OwnerClaims{}, func(token *jwt.Token) (interface{}, error) {
		return s.jwtSecret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*model.OwnerClaims)
	if !ok || !token.Valid || claims.OwnerID() == "" {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
