package utils

import "github.com/google/uuid"

// UUIDGenerator issues uuid v7 strings for queue operations, local records
// and server records. v7 ids sort by creation time, so ordering a table by
// id matches insertion order.
type UUIDGenerator struct {
	fallback func() string
}

func NewUUIDGenerator() *UUIDGenerator {
	return &UUIDGenerator{fallback: uuid.NewString}
}

// Generate falls back to a random v4 id if the clock source fails.
func (g *UUIDGenerator) Generate() string {
	if id, err := uuid.NewV7(); err == nil {
		return id.String()
	}
	return g.fallback()
}
