// Package utils provides small general-purpose helpers shared across the
// engine, currently identifier generation.
package utils

import "github.com/google/uuid"

// UUIDGenerator produces time-ordered item identifiers. UUIDv7 keeps the
// durable store's primary-key order aligned with enqueue order.
type UUIDGenerator struct {
}

func NewUUIDGenerator() *UUIDGenerator {
	return &UUIDGenerator{}
}

// Generate returns a new UUIDv7 string, falling back to a random UUIDv4 if
// the system clock source fails.
func (g *UUIDGenerator) Generate() string {
	v7, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}

	return v7.String()
}
