package token

import (
	"errors"
	"fmt"
	"fortune_wheel/internal/model"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func GenerateDeviceToken(device *model.Device, secretKey []byte, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := model.DeviceClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   device.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	return token.SignedString(secretKey)
}

func VerifyToken(tokenStr string, secretKey []byte) (*model.DeviceClaims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &model.DeviceClaims{}, func(token *jwt.Token) (interface{}, error) {
		_, ok := token.Method.(*jwt.SigningMethodHMAC)
		if !ok {
			return nil, errors.New("unexpected token signing method")
		}

		return secretKey, nil
	})
	if err != nil {
		return nil, fmt.Errorf("invalid token: %v", err)
	}

	claims, ok := token.Claims.(*model.DeviceClaims)
	if !ok || claims.Subject == "" {
		return nil, errors.New("invalid token claims")
	}

	return claims, nil
}
