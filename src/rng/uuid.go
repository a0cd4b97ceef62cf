package rng

import (
	"io"

	"github.com/google/uuid"
)

// NewUUIDv4FromRNG generates an RFC4122 UUID v4 using the same RNG stream.
// Generated ONLY after a successful outcome is computed (so it doesn't bias outcomes).
func NewUUIDv4FromRNG(r io.Reader) (string, error) {
	id, err := uuid.NewRandomFromReader(r)
	if err != nil {
		return "", err
	}
	return id.String(), nil
}
