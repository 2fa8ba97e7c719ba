// internal/utils/crypto.go
package utils

import (
	"crypto/rand"
	"math/big"
	"strconv"
	"time"
)

const lowerAlphanumeric = "abcdefghijklmnopqrstuvwxyz0123456789"

// GenerateOrderNumber returns ORD-<unix millis>-<9 lowercase alphanumerics>.
func GenerateOrderNumber(now time.Time) (string, error) {
	suffix, err := randomFrom(lowerAlphanumeric, 9)
	if err != nil {
		return "", err
	}
	return "ORD-" + strconv.FormatInt(now.UnixMilli(), 10) + "-" + suffix, nil
}

func randomFrom(charset string, length int) (string, error) {
	b := make([]byte, length)

	for i := range b {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(charset))))
		if err != nil {
			return "", err
		}
		b[i] = charset[n.Int64()]
	}

	return string(b), nil
}
