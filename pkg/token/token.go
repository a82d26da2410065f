// Package token generates the opaque hex identifiers used for events and QR
// codes. The width is expressed in random bytes; the string form is twice
// that in hex characters.
package token

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// EventIDBytes gives 8 hex characters, matching the public event URLs.
const EventIDBytes = 4

// QRIDBytes gives 16 hex characters. Wide enough that generation collisions
// are only a theoretical possibility; callers still check for them.
const QRIDBytes = 8

// Hex returns n random bytes encoded as lowercase hex.
func Hex(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
