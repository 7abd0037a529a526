package id

import (
	"fmt"

	"github.com/google/uuid"
)

// Generator creates opaque IDs. The admin pass-through uses them as
// idempotency keys, so collisions must be practically impossible.
type Generator interface {
	NewID() (string, error)
}

type RandomGenerator struct{}

func NewRandomGenerator() *RandomGenerator {
	return &RandomGenerator{}
}

// NewID returns a random UUID version 4 string.
func (g *RandomGenerator) NewID() (string, error) {
	v, err := uuid.NewRandom()
	if err != nil {
		return "", fmt.Errorf("generate uuid: %w", err)
	}

	return v.String(), nil
}
