package presence

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/internal-hackathon-7/int-hack-7/internal/store"
)

func TestGenerateFormat(t *testing.T) {
	gen := NewCodeGenerator(6, 5)
	pattern := regexp.MustCompile(`^[A-HJ-NP-Z2-9]{6}$`)

	for range 100 {
		code := gen.Generate()
		require.Len(t, code, 6)
		assert.Regexp(t, pattern, code)
	}
}

func TestGenerateUniqueness(t *testing.T) {
	gen := NewCodeGenerator(6, 5)
	codes := make(map[string]bool)
	iterations := 1000

	for range iterations {
		codes[gen.Generate()] = true
	}

	if len(codes) < iterations-10 {
		t.Errorf("generated %d unique codes out of %d; too many collisions",
			len(codes), iterations)
	}
}

// collidingStore rejects the first n creations as collisions.
type collidingStore struct {
	*store.Memory
	rejections int
	attempts   int
}

func (s *collidingStore) CreateRoom(ctx context.Context, roomID, creatorID string) error {
	s.attempts++
	if s.attempts <= s.rejections {
		return store.ErrRoomExists
	}
	return s.Memory.CreateRoom(ctx, roomID, creatorID)
}

func TestReserveRetriesOnCollision(t *testing.T) {
	st := &collidingStore{Memory: store.NewMemory(), rejections: 3}
	gen := NewCodeGenerator(6, 5)

	code, err := gen.Reserve(context.Background(), st, "caller-1")
	require.NoError(t, err)
	require.NotEmpty(t, code)
	assert.Equal(t, 4, st.attempts)

	members, err := st.Members(context.Background(), code)
	require.NoError(t, err)
	assert.Equal(t, []string{"caller-1"}, members)
}

func TestReserveExhaustsRetries(t *testing.T) {
	st := &collidingStore{Memory: store.NewMemory(), rejections: 100}
	gen := NewCodeGenerator(6, 5)

	_, err := gen.Reserve(context.Background(), st, "caller-1")
	require.ErrorIs(t, err, ErrCodeExhausted)
	assert.Equal(t, 5, st.attempts)
}

func TestReserveSurfacesStoreErrors(t *testing.T) {
	boom := errors.New("store down")
	st := &failingStore{err: boom}
	gen := NewCodeGenerator(6, 5)

	_, err := gen.Reserve(context.Background(), st, "caller-1")
	require.ErrorIs(t, err, boom)
}

type failingStore struct {
	store.RoomStore
	err error
}

func (s *failingStore) CreateRoom(ctx context.Context, roomID, creatorID string) error {
	return s.err
}
