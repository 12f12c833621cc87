package auth

import (
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/spec-kit/complaint-desk/internal/domain"
)

func TestGenerateAndParseToken(t *testing.T) {
	tm := NewTokenManager("secret", 15)
	admin := &domain.Admin{ID: "a-1", WorkID: "W-42", Role: domain.AdminRoleAdmin}

	signed, meta, err := tm.GenerateToken(admin)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	if meta.ID == "" || meta.AdminID != "a-1" || meta.WorkID != "W-42" {
		t.Fatalf("unexpected token metadata %+v", meta)
	}
	if d := meta.ExpiresAt.Sub(meta.IssuedAt); d != 15*time.Minute {
		t.Fatalf("expected 15m lifetime, got %s", d)
	}

	claims, err := tm.ParseToken(signed)
	if err != nil {
		t.Fatalf("ParseToken: %v", err)
	}
	if claims.Subject != "a-1" || claims.Role != domain.AdminRoleAdmin || claims.ID != meta.ID {
		t.Fatalf("unexpected claims %+v", claims)
	}
}

func TestParseTokenRejectsForeignSecret(t *testing.T) {
	signed, _, err := NewTokenManager("one", 5).GenerateToken(&domain.Admin{ID: "a", WorkID: "w"})
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	if _, err := NewTokenManager("two", 5).ParseToken(signed); err == nil {
		t.Fatalf("expected signature mismatch to fail")
	}
}

func TestParseTokenRejectsExpired(t *testing.T) {
	tm := NewTokenManager("secret", 5)
	past := time.Now().Add(-time.Hour)
	claims := &Claims{
		WorkID: "w",
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        "jti",
			Subject:   "a",
			IssuedAt:  jwt.NewNumericDate(past.Add(-time.Minute)),
			ExpiresAt: jwt.NewNumericDate(past),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := tm.ParseToken(signed); err == nil {
		t.Fatalf("expected expired token to fail")
	}
}

func TestPasswordRoundTrip(t *testing.T) {
	hash, err := HashPassword("s3cret", 4)
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if err := ComparePassword(hash, "s3cret"); err != nil {
		t.Fatalf("expected match: %v", err)
	}
	if err := ComparePassword(hash, "wrong"); err == nil {
		t.Fatalf("expected mismatch")
	}
}
