// Package roomcode generates the short join codes players type to find a
// room.
package roomcode

import (
	"crypto/rand"
	"fmt"
	"strings"
)

// Crockford's base32 alphabet, uppercased for readability in room codes.
// Ambiguous letters (I, L, O, U) are excluded.
const alphabet = "0123456789ABCDEFGHJKMNPQRSTVWXYZ"

// Length is the number of characters in a room code.
const Length = 6

// RandSource is the randomness dependency, injectable for deterministic
// tests.
type RandSource interface {
	IntN(n int) int
}

// Generator produces room codes from a configurable randomness source.
type Generator struct {
	randSource RandSource
}

// NewGenerator creates a generator. Pass nil to use crypto/rand.
func NewGenerator(randSource RandSource) *Generator {
	return &Generator{randSource: randSource}
}

// Generate creates a new room code using crypto/rand.
func Generate() string {
	return NewGenerator(nil).Generate()
}

// Generate creates a new room code using the generator's RandSource.
func (g *Generator) Generate() string {
	var sb strings.Builder
	sb.Grow(Length)

	if g.randSource != nil {
		for i := 0; i < Length; i++ {
			sb.WriteByte(alphabet[g.randSource.IntN(len(alphabet))])
		}
		return sb.String()
	}

	buf := make([]byte, Length)
	if _, err := rand.Read(buf); err != nil {
		panic("roomcode: failed to read random bytes: " + err.Error())
	}
	for _, b := range buf {
		sb.WriteByte(alphabet[int(b)%len(alphabet)])
	}
	return sb.String()
}

// Validate checks that a room code has the expected length and alphabet.
func Validate(code string) error {
	if len(code) != Length {
		return fmt.Errorf("room code must be exactly %d characters, got %d", Length, len(code))
	}
	for i := 0; i < len(code); i++ {
		if !strings.ContainsRune(alphabet, rune(code[i])) {
			return fmt.Errorf("invalid character %c at position %d", code[i], i)
		}
	}
	return nil
}
