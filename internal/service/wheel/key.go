package wheel

import (
	gonanoid "github.com/matoous/go-nanoid/v2"
)

const (
	// Без похожих символов: нет 0/O и 1/I
	protectionKeyAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	protectionKeyLength   = 8
)

var generateProtectionKey = func() (string, error) {
	return gonanoid.Generate(protectionKeyAlphabet, protectionKeyLength)
}
