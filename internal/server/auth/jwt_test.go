package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestGenerateAndParse_Success(t *testing.T) {
	t.Parallel()

	iss := NewIssuer([]byte("super-secret"), nil)

	tok, err := iss.GenerateToken("user-123", Access, time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken error: %v", err)
	}

	got, err := iss.UserID(tok, Access)
	if err != nil {
		t.Fatalf("UserID error: %v", err)
	}
	if got != "user-123" {
		t.Fatalf("userID mismatch: got %q want %q", got, "user-123")
	}
}

func TestGenerateToken_UniquePerCall(t *testing.T) {
	t.Parallel()

	iss := NewIssuer([]byte("k"), nil)
	a, _ := iss.GenerateToken("u", Access, time.Hour)
	b, _ := iss.GenerateToken("u", Access, time.Hour)
	if a == b {
		t.Fatalf("expected distinct tokens")
	}
}

func TestUserID_Expired(t *testing.T) {
	t.Parallel()

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	now := base
	iss := NewIssuer([]byte("secret"), func() time.Time { return now })

	tok, err := iss.GenerateToken("u1", Access, time.Minute)
	if err != nil {
		t.Fatalf("GenerateToken error: %v", err)
	}

	now = base.Add(2 * time.Minute)
	_, err = iss.UserID(tok, Access)
	if !errors.Is(err, jwt.ErrTokenExpired) {
		t.Fatalf("expected jwt.ErrTokenExpired, got %v", err)
	}
}

func TestUserID_WrongType(t *testing.T) {
	t.Parallel()

	iss := NewIssuer([]byte("secret"), nil)
	tok, err := iss.GenerateToken("u1", Refresh, time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken error: %v", err)
	}

	if _, err := iss.UserID(tok, Access); !errors.Is(err, ErrWrongTokenType) {
		t.Fatalf("expected ErrWrongTokenType, got %v", err)
	}
}

func TestUserID_WrongSecret(t *testing.T) {
	t.Parallel()

	tok, err := NewIssuer([]byte("right-secret"), nil).GenerateToken("u2", Access, time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken error: %v", err)
	}

	if _, err := NewIssuer([]byte("wrong-secret"), nil).UserID(tok, Access); err == nil {
		t.Fatalf("expected error for invalid signature, got nil")
	}
}

func TestUserID_MalformedString(t *testing.T) {
	t.Parallel()

	if _, err := NewIssuer([]byte("k"), nil).UserID("not.a.jwt", Access); err == nil {
		t.Fatalf("expected error for malformed token, got nil")
	}
}
