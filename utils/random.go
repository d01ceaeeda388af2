package utils

import (
	"crypto/rand"
	"errors"
	"math/big"
)

const randomAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// GenerateSecureRandomString kriptografik olarak güvenli, URL dostu rastgele
// bir dizge üretir.
func GenerateSecureRandomString(length int) (string, error) {
	if length <= 0 {
		return "", errors.New("uzunluk pozitif olmalı")
	}
	result := make([]byte, length)
	max := big.NewInt(int64(len(randomAlphabet)))
	for i := range result {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		result[i] = randomAlphabet[n.Int64()]
	}
	return string(result), nil
}
