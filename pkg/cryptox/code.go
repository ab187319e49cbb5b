package cryptox

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// Reset code bounds. Codes are always six decimal digits and never start
// with a zero, so clients can treat them as plain integers safely.
const (
	resetCodeMin = 100000
	resetCodeMax = 999999
)

// GenerateResetCode returns a uniformly random six-digit decimal code in
// [100000, 999999] from the system CSPRNG.
func GenerateResetCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(resetCodeMax-resetCodeMin+1))
	if err != nil {
		return "", fmt.Errorf("failed to generate reset code: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()+resetCodeMin), nil
}
