package auth

import (
	"errors"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/spec-kit/complaint-desk/internal/domain"
)

// TokenManager handles issuing and validating JWT tokens.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenManager builds a new manager.
func NewTokenManager(secret string, ttlMinutes int) *TokenManager {
	if ttlMinutes <= 0 {
		ttlMinutes = 60
	}
	return &TokenManager{secret: []byte(secret), ttl: time.Duration(ttlMinutes) * time.Minute}
}

// Claims describes JWT payload.
type Claims struct {
	WorkID string           `json:"work_id"`
	Role   domain.AdminRole `json:"role"`
	jwt.RegisteredClaims
}

// Token converts the claims into token metadata.
func (c *Claims) Token() domain.Token {
	token := domain.Token{
		ID:      c.ID,
		AdminID: c.Subject,
		WorkID:  c.WorkID,
		Role:    c.Role,
	}
	if c.ExpiresAt != nil {
		token.ExpiresAt = c.ExpiresAt.Time
	}
	if c.IssuedAt != nil {
		token.IssuedAt = c.IssuedAt.Time
	}
	return token
}

// GenerateToken builds and signs a JWT for the admin.
func (tm *TokenManager) GenerateToken(admin *domain.Admin) (string, domain.Token, error) {
	now := time.Now()
	claims := &Claims{
		WorkID: admin.WorkID,
		Role:   admin.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   admin.ID,
			ExpiresAt: jwt.NewNumericDate(now.Add(tm.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(tm.secret)
	if err != nil {
		return "", domain.Token{}, err
	}
	return tokenString, claims.Token(), nil
}

// ParseToken validates and returns claims.
func (tm *TokenManager) ParseToken(tokenStr string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return tm.secret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, errors.New("invalid token claims")
	}
	if claims.ID == "" || claims.Subject == "" {
		return nil, errors.New("token missing subject or id")
	}
	return claims, nil
}
