package booking

import (
	"crypto/rand"
	"encoding/hex"
	"strings"
)

// NewConfirmationCode returns 8 upper-case hex characters from crypto/rand.
func NewConfirmationCode() (string, error) {
	buf := make([]byte, 4)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return strings.ToUpper(hex.EncodeToString(buf)), nil
}
