package auth

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"
)

// ResetCodeTTL is how long a reset code stays valid after issuance.
const ResetCodeTTL = 1 * time.Hour

const resetCodeDigits = 6

var resetCodeSpace = big.NewInt(1000000)

// GenerateResetCode returns a uniformly random 6-digit numeric code.
// Leading zeros are kept, so the result is always exactly 6 characters.
func GenerateResetCode() (string, error) {
	n, err := rand.Int(rand.Reader, resetCodeSpace)
	if err != nil {
		return "", fmt.Errorf("failed to generate reset code: %w", err)
	}
	return fmt.Sprintf("%0*d", resetCodeDigits, n), nil
}
