package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/internal-hackathon-7/int-hack-7/internal/models"
)

// Key layout:
//
//	room:<code>            room record (JSON), reserved with SETNX
//	room:<code>:members    member set
//	member:<id>:rooms      reverse index, room codes the member belongs to
//	user:<googleId>        directory record (JSON)
//	useremail:<email>      email -> googleId
//	diffs:<code>:<id>      activity records (list, newest first)
func roomKey(roomID string) string    { return "room:" + roomID }
func membersKey(roomID string) string { return "room:" + roomID + ":members" }
func memberRoomsKey(id string) string { return "member:" + id + ":rooms" }
func userKey(googleID string) string  { return "user:" + googleID }
func emailKey(email string) string    { return "useremail:" + email }
func diffsKey(roomID, memberID string) string {
	return "diffs:" + roomID + ":" + memberID
}

// Member mutations run as scripts so existence checks, the set operation
// and empty-room deletion are one atomic step. A join can therefore never
// resurrect a room that a concurrent removal just deleted, and two racing
// joins both land in the set.
var (
	createRoomScript = redis.NewScript(`
if redis.call("SETNX", KEYS[1], ARGV[1]) == 0 then
  return 0
end
redis.call("SADD", KEYS[2], ARGV[2])
redis.call("SADD", KEYS[3], ARGV[3])
return 1
`)

	addMemberScript = redis.NewScript(`
if redis.call("EXISTS", KEYS[1]) == 0 then
  return -1
end
redis.call("SADD", KEYS[2], ARGV[1])
redis.call("SADD", KEYS[3], ARGV[2])
return redis.call("SCARD", KEYS[2])
`)

	removeMemberScript = redis.NewScript(`
local removed = redis.call("SREM", KEYS[2], ARGV[1])
redis.call("SREM", KEYS[3], ARGV[2])
local remaining = redis.call("SCARD", KEYS[2])
if remaining == 0 then
  redis.call("DEL", KEYS[1], KEYS[2])
end
return {removed, remaining}
`)

	membersScript = redis.NewScript(`
if redis.call("EXISTS", KEYS[1]) == 0 then
  return false
end
return redis.call("SMEMBERS", KEYS[2])
`)
)

// Redis is the production store.
type Redis struct {
	rdb *redis.Client
}

func NewRedis(rdb *redis.Client) *Redis {
	return &Redis{rdb: rdb}
}

func (s *Redis) CreateRoom(ctx context.Context, roomID, creatorID string) error {
	record, err := json.Marshal(models.Room{
		RoomID:    roomID,
		CreatorID: creatorID,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("marshal room %s: %w", roomID, err)
	}

	keys := []string{roomKey(roomID), membersKey(roomID), memberRoomsKey(creatorID)}
	created, err := createRoomScript.Run(ctx, s.rdb, keys, record, creatorID, roomID).Int()
	if err != nil {
		return fmt.Errorf("create room %s: %w", roomID, err)
	}
	if created == 0 {
		return ErrRoomExists
	}
	return nil
}

func (s *Redis) AddMember(ctx context.Context, roomID, callerID string) error {
	keys := []string{roomKey(roomID), membersKey(roomID), memberRoomsKey(callerID)}
	n, err := addMemberScript.Run(ctx, s.rdb, keys, callerID, roomID).Int()
	if err != nil {
		return fmt.Errorf("add member to room %s: %w", roomID, err)
	}
	if n < 0 {
		return ErrRoomNotFound
	}
	return nil
}

func (s *Redis) RemoveMember(ctx context.Context, roomID, callerID string) (bool, int64, error) {
	keys := []string{roomKey(roomID), membersKey(roomID), memberRoomsKey(callerID)}
	res, err := removeMemberScript.Run(ctx, s.rdb, keys, callerID, roomID).Int64Slice()
	if err != nil {
		return false, 0, fmt.Errorf("remove member from room %s: %w", roomID, err)
	}
	if len(res) != 2 {
		return false, 0, fmt.Errorf("remove member from room %s: unexpected reply %v", roomID, res)
	}
	return res[0] == 1, res[1], nil
}

func (s *Redis) Members(ctx context.Context, roomID string) ([]string, error) {
	keys := []string{roomKey(roomID), membersKey(roomID)}
	members, err := membersScript.Run(ctx, s.rdb, keys).StringSlice()
	if errors.Is(err, redis.Nil) {
		return nil, ErrRoomNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("members of room %s: %w", roomID, err)
	}
	return members, nil
}

func (s *Redis) RoomsWithMember(ctx context.Context, callerID string) ([]string, error) {
	rooms, err := s.rdb.SMembers(ctx, memberRoomsKey(callerID)).Result()
	if err != nil {
		return nil, fmt.Errorf("rooms of member %s: %w", callerID, err)
	}
	return rooms, nil
}

func (s *Redis) UpsertUser(ctx context.Context, u models.User) error {
	record, err := json.Marshal(u)
	if err != nil {
		return fmt.Errorf("marshal user %s: %w", u.GoogleID, err)
	}
	pipe := s.rdb.TxPipeline()
	pipe.Set(ctx, userKey(u.GoogleID), record, 0)
	pipe.Set(ctx, emailKey(u.Email), u.GoogleID, 0)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("upsert user %s: %w", u.GoogleID, err)
	}
	return nil
}

func (s *Redis) UserByEmail(ctx context.Context, email string) (*models.User, error) {
	googleID, err := s.rdb.Get(ctx, emailKey(email)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("lookup email %s: %w", email, err)
	}

	record, err := s.rdb.Get(ctx, userKey(googleID)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("lookup user %s: %w", googleID, err)
	}

	var u models.User
	if err := json.Unmarshal([]byte(record), &u); err != nil {
		return nil, fmt.Errorf("decode user %s: %w", googleID, err)
	}
	return &u, nil
}

func (s *Redis) AddDiff(ctx context.Context, blob models.DiffBlob) error {
	if blob.Timestamp.IsZero() {
		blob.Timestamp = time.Now().UTC()
	}
	record, err := json.Marshal(blob)
	if err != nil {
		return fmt.Errorf("marshal diff for %s/%s: %w", blob.RoomID, blob.MemberID, err)
	}
	if err := s.rdb.LPush(ctx, diffsKey(blob.RoomID, blob.MemberID), record).Err(); err != nil {
		return fmt.Errorf("store diff for %s/%s: %w", blob.RoomID, blob.MemberID, err)
	}
	return nil
}

func (s *Redis) MemberDiffs(ctx context.Context, roomID, memberID string) ([]models.DiffBlob, error) {
	records, err := s.rdb.LRange(ctx, diffsKey(roomID, memberID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("load diffs for %s/%s: %w", roomID, memberID, err)
	}
	blobs := make([]models.DiffBlob, 0, len(records))
	for _, record := range records {
		var blob models.DiffBlob
		if err := json.Unmarshal([]byte(record), &blob); err != nil {
			return nil, fmt.Errorf("decode diff for %s/%s: %w", roomID, memberID, err)
		}
		blobs = append(blobs, blob)
	}
	return blobs, nil
}
