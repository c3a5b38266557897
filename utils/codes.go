package utils

import (
	"crypto/rand"
	"errors"
	"math/big"
	"strings"
	"time"
)

const bookingNumberCharset = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// randomCode draws n characters from the charset with crypto/rand + big.Int
// to avoid modulo bias.
func randomCode(n int) (string, error) {
	if n <= 0 {
		return "", errors.New("invalid length")
	}
	var sb strings.Builder
	alphaLen := big.NewInt(int64(len(bookingNumberCharset)))
	for i := 0; i < n; i++ {
		num, err := rand.Int(rand.Reader, alphaLen)
		if err != nil {
			return "", err
		}
		sb.WriteByte(bookingNumberCharset[num.Int64()])
	}
	return sb.String(), nil
}

// GenerateBookingNumber returns a human-readable reference like
// "BK-20260831-7XQ2". Callers retry on unique-index collision.
func GenerateBookingNumber(now time.Time) (string, error) {
	suffix, err := randomCode(4)
	if err != nil {
		return "", err
	}
	return "BK-" + now.Format("20060102") + "-" + suffix, nil
}

// IsValidBookingNumberFormat checks the shape without hitting the database.
func IsValidBookingNumberFormat(ref string) bool {
	ref = strings.TrimSpace(ref)
	if len(ref) != 16 || !strings.HasPrefix(ref, "BK-") {
		return false
	}
	if ref[11] != '-' {
		return false
	}
	for _, r := range ref[3:11] {
		if r < '0' || r > '9' {
			return false
		}
	}
	for i := 12; i < 16; i++ {
		if !strings.ContainsRune(bookingNumberCharset, rune(ref[i])) {
			return false
		}
	}
	return true
}
