// Package auth issues and verifies the device tokens field units present on
// the sync endpoint.
package auth

import (
	"errors"
	"strings"
	"time"

	"github.com/dmitrijs2005/fieldreports/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// Claims holds the registered claims plus the id of the field device.
type Claims struct {
	jwt.RegisteredClaims
	DeviceID string `json:"device_id"`
}

func GenerateToken(deviceID string, secretKey []byte, validityDuration time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(validityDuration)),
			Subject:   deviceID,
		},
		DeviceID: deviceID,
	})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// DeviceIDFromToken verifies an HS256 token and returns its device id.
func DeviceIDFromToken(tokenString string, secretKey []byte) (string, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", common.ErrTokenExpired
		}
		return "", common.ErrInvalidToken
	}

	if !token.Valid || claims.DeviceID == "" {
		return "", common.ErrInvalidToken
	}

	return claims.DeviceID, nil
}

// StripBearer returns the token part of an Authorization header value.
func StripBearer(header string) string {
	header = strings.TrimSpace(header)
	if len(header) >= len(common.BearerPrefix) && strings.EqualFold(header[:len(common.BearerPrefix)], common.BearerPrefix) {
		return strings.TrimSpace(header[len(common.BearerPrefix):])
	}
	return header
}
