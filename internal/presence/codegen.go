package presence

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"

	"github.com/internal-hackathon-7/int-hack-7/internal/store"
)

// Ambiguous characters (0/O, 1/I/L) are excluded so codes survive being
// read aloud or typed.
const codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// ErrCodeExhausted reports that code generation collided with live rooms
// on every attempt.
var ErrCodeExhausted = errors.New("room code generation exhausted retries")

// CodeGenerator produces short room codes and reserves them against the
// store, retrying on collision up to a bound.
type CodeGenerator struct {
	length   int
	attempts int
}

func NewCodeGenerator(length, attempts int) *CodeGenerator {
	return &CodeGenerator{length: length, attempts: attempts}
}

// Generate returns one candidate code.
func (g *CodeGenerator) Generate() string {
	code := make([]byte, g.length)
	for i := range code {
		n, _ := rand.Int(rand.Reader, big.NewInt(int64(len(codeAlphabet))))
		code[i] = codeAlphabet[n.Int64()]
	}
	return string(code)
}

// Reserve creates a room under a fresh code with creatorID as its first
// member. Collisions are retried with new candidates; store failures are
// returned as-is.
func (g *CodeGenerator) Reserve(ctx context.Context, st store.RoomStore, creatorID string) (string, error) {
	for range g.attempts {
		code := g.Generate()
		err := st.CreateRoom(ctx, code, creatorID)
		if errors.Is(err, store.ErrRoomExists) {
			continue
		}
		if err != nil {
			return "", fmt.Errorf("reserve room code: %w", err)
		}
		return code, nil
	}
	return "", ErrCodeExhausted
}
