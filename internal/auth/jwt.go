// Package auth issues and verifies HS256 session tokens for authenticated
// logins.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/modestry/userkeeper/internal/common"
)

// Claims extends the registered claims with the account login the token
// was issued for.
type Claims struct {
	jwt.RegisteredClaims
	Login string
}

// GenerateToken mints a signed HS256 token for the given login, valid for
// validityDuration.
func GenerateToken(login string, secretKey []byte, validityDuration time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(validityDuration)),
		},
		Login: login,
	})

	return token.SignedString(secretKey)
}

// GetLoginFromToken verifies the token signature and expiry and returns the
// login it carries. Any verification failure maps to common.ErrInvalidToken
// except expiry, which maps to common.ErrUnauthorized.
func GetLoginFromToken(tokenString string, secretKey []byte) (string, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", common.ErrUnauthorized
		}
		return "", common.ErrInvalidToken
	}
	if !token.Valid {
		return "", common.ErrInvalidToken
	}

	return claims.Login, nil
}
