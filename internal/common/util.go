package common

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// MakeRandHexString returns size random bytes encoded as hex, so the result
// is 2*size characters long.
func MakeRandHexString(size int) (string, error) {
	b := make([]byte, size)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// Validationf wraps ErrorValidation with a field-level message.
//
//	return common.Validationf("amount_ml must be positive, got %d", amount)
func Validationf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrorValidation, fmt.Sprintf(format, args...))
}

// WipeByteArray zeroes b in place.
func WipeByteArray(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
