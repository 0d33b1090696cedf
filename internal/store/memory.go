package store

import (
	"context"
	"sync"
	"time"

	"github.com/internal-hackathon-7/int-hack-7/internal/models"
)

// Memory is a process-local store with the same semantics as the Redis
// implementation. It backs tests and single-binary demos; a restart loses
// all state, which is exactly why it is not the default.
type Memory struct {
	mu      sync.Mutex
	rooms   map[string]models.Room
	members map[string]map[string]struct{}
	users   map[string]models.User
	emails  map[string]string
	diffs   map[string][]models.DiffBlob
}

func NewMemory() *Memory {
	return &Memory{
		rooms:   make(map[string]models.Room),
		members: make(map[string]map[string]struct{}),
		users:   make(map[string]models.User),
		emails:  make(map[string]string),
		diffs:   make(map[string][]models.DiffBlob),
	}
}

func (s *Memory) CreateRoom(_ context.Context, roomID, creatorID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rooms[roomID]; ok {
		return ErrRoomExists
	}
	s.rooms[roomID] = models.Room{
		RoomID:    roomID,
		CreatorID: creatorID,
		CreatedAt: time.Now().UTC(),
	}
	s.members[roomID] = map[string]struct{}{creatorID: {}}
	return nil
}

func (s *Memory) AddMember(_ context.Context, roomID, callerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rooms[roomID]; !ok {
		return ErrRoomNotFound
	}
	s.members[roomID][callerID] = struct{}{}
	return nil
}

func (s *Memory) RemoveMember(_ context.Context, roomID, callerID string) (bool, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	set, ok := s.members[roomID]
	if !ok {
		return false, 0, nil
	}
	_, removed := set[callerID]
	delete(set, callerID)
	remaining := int64(len(set))
	if remaining == 0 {
		delete(s.rooms, roomID)
		delete(s.members, roomID)
	}
	return removed, remaining, nil
}

func (s *Memory) Members(_ context.Context, roomID string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	set, ok := s.members[roomID]
	if !ok {
		return nil, ErrRoomNotFound
	}
	members := make([]string, 0, len(set))
	for id := range set {
		members = append(members, id)
	}
	return members, nil
}

func (s *Memory) RoomsWithMember(_ context.Context, callerID string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var rooms []string
	for roomID, set := range s.members {
		if _, ok := set[callerID]; ok {
			rooms = append(rooms, roomID)
		}
	}
	return rooms, nil
}

func (s *Memory) UpsertUser(_ context.Context, u models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[u.GoogleID] = u
	s.emails[u.Email] = u.GoogleID
	return nil
}

func (s *Memory) UserByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	googleID, ok := s.emails[email]
	if !ok {
		return nil, ErrUserNotFound
	}
	u := s.users[googleID]
	return &u, nil
}

func (s *Memory) AddDiff(_ context.Context, blob models.DiffBlob) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if blob.Timestamp.IsZero() {
		blob.Timestamp = time.Now().UTC()
	}
	key := blob.RoomID + ":" + blob.MemberID
	// Newest first, matching the Redis list order.
	s.diffs[key] = append([]models.DiffBlob{blob}, s.diffs[key]...)
	return nil
}

func (s *Memory) MemberDiffs(_ context.Context, roomID, memberID string) ([]models.DiffBlob, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := roomID + ":" + memberID
	blobs := make([]models.DiffBlob, len(s.diffs[key]))
	copy(blobs, s.diffs[key])
	return blobs, nil
}
