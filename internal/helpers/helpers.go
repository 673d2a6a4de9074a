// Package helpers implements the small utilities behind "ev-cli helpers".
package helpers

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// ErrInvalidCount is returned when fewer than one UUID is requested.
var ErrInvalidCount = errors.New("count must be positive")

// Generator produces UUID strings.
type Generator interface {
	Generate() string
}

// RandomGenerator generates random (version 4) UUIDs, the kind used for
// marked regions in implementation stubs.
//
// Thread-safety: RandomGenerator is stateless and safe for concurrent use.
type RandomGenerator struct{}

// Generate returns a new UUID in the canonical hyphenated form.
//
// Panics if the system random source fails.
func (RandomGenerator) Generate() string {
	return uuid.Must(uuid.NewRandom()).String()
}

// GenerateUUIDs returns count UUIDs from gen.
func GenerateUUIDs(gen Generator, count int) ([]string, error) {
	if count <= 0 {
		return nil, fmt.Errorf("invalid number (%d) of uuids to generate: %w", count, ErrInvalidCount)
	}
	out := make([]string, count)
	for i := range out {
		out[i] = gen.Generate()
	}
	return out, nil
}
