package model

import (
	"github.com/golang-jwt/jwt/v5"
)

// Device - устройство пользователя, ключ хранилища состояния колеса
type Device struct {
	ID string
}

type DeviceClaims struct {
	jwt.RegisteredClaims
}
