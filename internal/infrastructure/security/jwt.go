// Package security provides JWT token utilities
package security

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// Claims captures the minimal set of JWT fields the identity service cares about.
type Claims struct {
	UserID int64
	Email  string
}

// GenerateSessionToken issues a signed bearer token for the authenticated user.
func GenerateSessionToken(userID int64, email, jwtSecret string, lifetime time.Duration) (string, error) {
	if jwtSecret == "" {
		return "", errors.New("jwt secret not configured")
	}

	claims := jwt.MapClaims{
		"sub":   userID,
		"email": email,
		"type":  "session",
		"iat":   time.Now().UTC().Unix(),
		"exp":   time.Now().UTC().Add(lifetime).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(jwtSecret))
}

// ValidateSessionToken verifies signature + expiry and returns the parsed claims.
func ValidateSessionToken(tokenString, jwtSecret string) (*Claims, error) {
	if tokenString == "" {
		return nil, errors.New("empty token")
	}
	if jwtSecret == "" {
		return nil, errors.New("jwt secret not configured")
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(jwtSecret), nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}

	rawSub, ok := claims["sub"]
	if !ok {
		return nil, errors.New("missing sub claim")
	}

	subFloat, ok := rawSub.(float64)
	if !ok {
		return nil, errors.New("invalid sub claim")
	}

	email, _ := claims["email"].(string)

	return &Claims{
		UserID: int64(subFloat),
		Email:  email,
	}, nil
}
