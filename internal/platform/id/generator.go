package id

import (
	"crypto/rand"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"io"
	"time"
)

// Generator creates opaque IDs for teams, contests and contest entries.
type Generator interface {
	NewID() (string, error)
}

// RandomGenerator returns 32 hex char IDs. The first 12 chars are the
// creation time in unix milliseconds, so IDs sort by creation order.
type RandomGenerator struct {
	now     func() time.Time
	entropy io.Reader
}

func NewRandomGenerator() *RandomGenerator {
	return &RandomGenerator{now: time.Now, entropy: rand.Reader}
}

func (g *RandomGenerator) NewID() (string, error) {
	var buf [16]byte
	var stamp [8]byte
	binary.BigEndian.PutUint64(stamp[:], uint64(g.now().UnixMilli()))
	copy(buf[:6], stamp[2:])

	if _, err := io.ReadFull(g.entropy, buf[6:]); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}
	return hex.EncodeToString(buf[:]), nil
}

// Short returns the trailing random part of an ID for display labels.
func Short(value string) string {
	const size = 6
	if len(value) <= size {
		return value
	}
	return value[len(value)-size:]
}
