package tokenauth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt"
)

var ErrInvalidToken = errors.New("invalid token")

type claims struct {
	UserID int64 `json:"user_id"` //nolint:tagliatelle
	jwt.StandardClaims
}

// NewToken issues a signed bearer token for the given user.
// Callers treat the token as opaque.
func NewToken(userID int64, ttl time.Duration, secret string) (string, error) {
	c := claims{
		UserID: userID,
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: time.Now().Add(ttl).Unix(),
			IssuedAt:  time.Now().Unix(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)

	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("sign token error: %w", err)
	}

	return signed, nil
}

// UserID verifies the token signature and expiry and returns the
// user id carried inside.
func UserID(token, secret string) (int64, error) {
	var c claims

	parsed, err := jwt.ParseWithClaims(token, &c, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}

		return []byte(secret), nil
	})
	if err != nil {
		return 0, fmt.Errorf("parse token error: %w", err)
	}

	if !parsed.Valid || c.UserID == 0 {
		return 0, ErrInvalidToken
	}

	return c.UserID, nil
}
