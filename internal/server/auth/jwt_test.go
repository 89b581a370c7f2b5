package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/dmitrijs2005/dutybadge/internal/common"
)

func TestGenerateAndParse_Success(t *testing.T) {
	t.Parallel()

	secret := []byte("super-secret")
	want := Identity{UserID: "123456789", DisplayName: "alice", Admin: true}

	tok, err := GenerateToken(want, secret, time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken error: %v", err)
	}

	got, err := ParseToken(tok, secret)
	if err != nil {
		t.Fatalf("ParseToken error: %v", err)
	}
	if got != want {
		t.Fatalf("identity mismatch: got %+v want %+v", got, want)
	}
}

func TestParseToken_NoExpiry(t *testing.T) {
	t.Parallel()

	tok, err := GenerateToken(Identity{UserID: "u1"}, []byte("k"), 0)
	if err != nil {
		t.Fatalf("GenerateToken error: %v", err)
	}
	got, err := ParseToken(tok, []byte("k"))
	if err != nil {
		t.Fatalf("ParseToken error: %v", err)
	}
	if got.Admin {
		t.Fatalf("admin must default to false")
	}
}

func TestGenerateToken_EmptyUserID(t *testing.T) {
	t.Parallel()

	if _, err := GenerateToken(Identity{}, []byte("k"), time.Hour); err == nil {
		t.Fatalf("expected error for empty user id")
	}
}

func TestParseToken_Expired(t *testing.T) {
	t.Parallel()

	secret := []byte("secret")
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute))},
		UserID:           "u1",
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	_, err = ParseToken(tok, secret)
	if !errors.Is(err, common.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
	if !errors.Is(err, jwt.ErrTokenExpired) {
		t.Fatalf("expected jwt.ErrTokenExpired in chain, got %v", err)
	}
}

func TestParseToken_Rejections(t *testing.T) {
	t.Parallel()

	good, err := GenerateToken(Identity{UserID: "u2"}, []byte("right-secret"), time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken error: %v", err)
	}
	noUser, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{}).SignedString([]byte("k"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	hs512, err := jwt.NewWithClaims(jwt.SigningMethodHS512, Claims{UserID: "u3"}).SignedString([]byte("k"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	tests := []struct {
		name   string
		token  string
		secret string
	}{
		{"wrong secret", good, "wrong-secret"},
		{"malformed", "not.a.jwt", "k"},
		{"empty", "", "k"},
		{"missing user id", noUser, "k"},
		{"unexpected algorithm", hs512, "k"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseToken(tt.token, []byte(tt.secret))
			if !errors.Is(err, common.ErrInvalidToken) {
				t.Fatalf("expected ErrInvalidToken, got %v", err)
			}
		})
	}
}

func TestIdentityContext(t *testing.T) {
	t.Parallel()

	if _, ok := IdentityFrom(context.Background()); ok {
		t.Fatalf("empty context must not carry an identity")
	}

	want := Identity{UserID: "u1", Admin: true}
	got, ok := IdentityFrom(WithIdentity(context.Background(), want))
	if !ok || got != want {
		t.Fatalf("got %+v, %v", got, ok)
	}
}
