package utils

import (
	"crypto/rand"
	"fmt"
	mathrand "math/rand/v2"

	"github.com/google/uuid"
)

// NewID returns a random identifier for a connection or session.
func NewID() string {
	return uuid.NewString()
}

// NewSecret returns a high-entropy secret suitable for room admin codes.
// It never falls back to time or counter based values.
func NewSecret() string {
	return rand.Text()
}

// GuestName returns a display label for callers that did not pick a name.
func GuestName() string {
	return fmt.Sprintf("Guest-%d", mathrand.IntN(10000))
}
