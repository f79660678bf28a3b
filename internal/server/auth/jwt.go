// Package auth issues and verifies the session tokens handed out by
// JoinSession. A token binds one device to one session code.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/clipshare/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// Claims are the registered claims plus the session binding.
type Claims struct {
	jwt.RegisteredClaims
	SessionCode string `json:"sc"`
	DeviceID    string `json:"dev"`
}

// Subject is what a valid token grants access to.
type Subject struct {
	SessionCode string
	DeviceID    string
}

func GenerateToken(sub Subject, secretKey []byte, validityDuration time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(validityDuration)),
		},
		SessionCode: sub.SessionCode,
		DeviceID:    sub.DeviceID,
	})

	s, err := token.SignedString(secretKey)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return s, nil
}

// ParseToken verifies tokenString and returns its subject. Expired tokens
// yield common.ErrTokenExpired, every other failure common.ErrInvalidToken.
func ParseToken(tokenString string, secretKey []byte) (Subject, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return secretKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Subject{}, common.ErrTokenExpired
		}
		return Subject{}, common.ErrInvalidToken
	}

	if !token.Valid || claims.SessionCode == "" || claims.DeviceID == "" {
		return Subject{}, common.ErrInvalidToken
	}

	return Subject{SessionCode: claims.SessionCode, DeviceID: claims.DeviceID}, nil
}
