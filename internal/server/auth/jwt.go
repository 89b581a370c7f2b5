// Package auth verifies the identity tokens presented by callers. Tokens are
// HS256 JWTs minted by the calling platform with a shared secret; the server
// only checks them.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/dmitrijs2005/dutybadge/internal/common"
)

// Identity is who the caller is, as asserted by the platform.
type Identity struct {
	UserID      string
	DisplayName string
	Admin       bool
}

// Claims is the JWT payload: the registered claims plus the identity.
type Claims struct {
	jwt.RegisteredClaims
	UserID      string `json:"uid"`
	DisplayName string `json:"name,omitempty"`
	Admin       bool   `json:"admin,omitempty"`
}

// GenerateToken signs a token for id. A non-positive validity produces a
// token without an expiry.
func GenerateToken(id Identity, secretKey []byte, validity time.Duration) (string, error) {
	if id.UserID == "" {
		return "", errors.New("empty user id")
	}

	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:  id.UserID,
			IssuedAt: jwt.NewNumericDate(now),
		},
		UserID:      id.UserID,
		DisplayName: id.DisplayName,
		Admin:       id.Admin,
	}
	if validity > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(validity))
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secretKey)
}

// ParseToken verifies the signature and expiry and returns the identity.
// Every failure wraps common.ErrInvalidToken.
func ParseToken(tokenString string, secretKey []byte) (Identity, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return secretKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return Identity{}, fmt.Errorf("%w: %w", common.ErrInvalidToken, err)
	}
	if !token.Valid || claims.UserID == "" {
		return Identity{}, common.ErrInvalidToken
	}

	return Identity{UserID: claims.UserID, DisplayName: claims.DisplayName, Admin: claims.Admin}, nil
}
