package presence

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/internal-hackathon-7/int-hack-7/internal/models"
	"github.com/internal-hackathon-7/int-hack-7/internal/store"
)

const (
	msgRoomNotFound = "Room not found"
	msgCreateFailed = "Failed to create room"
	msgJoinFailed   = "Failed to join room"
	msgLeaveFailed  = "Failed to leave room"
)

const reconcileTimeout = 10 * time.Second

// Engine drives the membership protocol. Durable membership is keyed by
// caller identity and lives in the store; multicast subscriptions are
// keyed by socket and live in the fan-out. The engine is the only writer
// of both, and it serializes mutate-then-broadcast sequences so every
// group sees snapshots in mutation order.
type Engine struct {
	store  store.RoomStore
	fanout Fanout
	codes  *CodeGenerator
	grace  time.Duration

	mu sync.Mutex
	// live counts authenticated connections per caller. Grace-period
	// reconciliation checks it at fire time: any live connection means
	// the caller came back and keeps its memberships.
	live map[string]int
}

func NewEngine(st store.RoomStore, fanout Fanout, codes *CodeGenerator, grace time.Duration) *Engine {
	return &Engine{
		store:  st,
		fanout: fanout,
		codes:  codes,
		grace:  grace,
		live:   make(map[string]int),
	}
}

// Register records a freshly authenticated connection. Must be called
// before the session's first event is dispatched.
func (e *Engine) Register(s *Session) {
	e.mu.Lock()
	e.live[s.CallerID]++
	e.mu.Unlock()
	log.Debug().
		Str("socket", s.SocketID).
		Str("caller", s.CallerID).
		Msg("connection registered")
}

// CreateRoom reserves a fresh room with the caller as sole member,
// subscribes the socket and fans out the first snapshot.
func (e *Engine) CreateRoom(ctx context.Context, s *Session) {
	e.mu.Lock()
	defer e.mu.Unlock()

	roomID, err := e.codes.Reserve(ctx, e.store, s.CallerID)
	if err != nil {
		log.Error().Err(err).Str("caller", s.CallerID).Msg("create room failed")
		s.Send(models.ServerEvent{Type: models.EventError, Error: msgCreateFailed})
		return
	}

	e.fanout.Subscribe(roomID, s.SocketID, s.sender)
	s.Send(models.ServerEvent{Type: models.EventRoomCreated, RoomID: roomID})
	e.broadcastMembers(ctx, roomID)

	log.Info().
		Str("room", roomID).
		Str("caller", s.CallerID).
		Msg("room created")
}

// JoinRoom adds the caller to an existing room. Joining a room the caller
// already belongs to is a no-op on the member set but still subscribes
// this socket and rebroadcasts the snapshot, so extra tabs and reconnects
// converge on the same view. Unknown codes are an error to the requester;
// they never create a room.
func (e *Engine) JoinRoom(ctx context.Context, s *Session, roomID string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	err := e.store.AddMember(ctx, roomID, s.CallerID)
	if errors.Is(err, store.ErrRoomNotFound) {
		s.Send(models.ServerEvent{Type: models.EventError, Error: msgRoomNotFound})
		return
	}
	if err != nil {
		// The socket must not end up subscribed after a failed join.
		log.Error().Err(err).Str("room", roomID).Str("caller", s.CallerID).Msg("join room failed")
		s.Send(models.ServerEvent{Type: models.EventError, Error: msgJoinFailed})
		return
	}

	e.fanout.Subscribe(roomID, s.SocketID, s.sender)
	s.Send(models.ServerEvent{Type: models.EventRoomJoined, RoomID: roomID})
	e.broadcastMembers(ctx, roomID)

	log.Info().
		Str("room", roomID).
		Str("caller", s.CallerID).
		Msg("caller joined room")
}

// LeaveRoom removes the caller from the room immediately, with no grace
// period: an explicit leave is final intent, even if the caller has other
// live connections. The emptied room is gone from the store by the time
// the last snapshot goes out.
func (e *Engine) LeaveRoom(ctx context.Context, s *Session, roomID string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	removed, remaining, err := e.store.RemoveMember(ctx, roomID, s.CallerID)
	if err != nil {
		log.Error().Err(err).Str("room", roomID).Str("caller", s.CallerID).Msg("leave room failed")
		s.Send(models.ServerEvent{Type: models.EventError, Error: msgLeaveFailed})
		return
	}

	e.fanout.Unsubscribe(roomID, s.SocketID)
	if !removed {
		return
	}

	if remaining == 0 {
		// Other sockets of this caller may still hold a subscription;
		// tell them the room emptied out before the group is dropped.
		e.fanout.Publish(roomID, models.ServerEvent{
			Type:    models.EventMembersUpdate,
			RoomID:  roomID,
			Members: []models.Member{},
		})
		log.Info().Str("room", roomID).Msg("room deleted (empty)")
	} else {
		e.broadcastMembers(ctx, roomID)
	}

	log.Info().
		Str("room", roomID).
		Str("caller", s.CallerID).
		Msg("caller left room")
}

// Disconnect handles abrupt transport closure. The socket's subscriptions
// go away now, but the caller's durable memberships survive for the grace
// period: a page refresh lands on a new socket, and evicting the caller
// in between would flicker every membership list they are on. Each timer
// re-checks liveness when it fires, so overlapping disconnect/reconnect
// cycles cannot double-remove.
func (e *Engine) Disconnect(s *Session) {
	e.mu.Lock()
	if e.live[s.CallerID] <= 1 {
		delete(e.live, s.CallerID)
	} else {
		e.live[s.CallerID]--
	}
	e.fanout.DropSocket(s.SocketID)
	e.mu.Unlock()

	log.Debug().
		Str("socket", s.SocketID).
		Str("caller", s.CallerID).
		Dur("grace", e.grace).
		Msg("connection lost, scheduling reconciliation")

	time.AfterFunc(e.grace, func() {
		e.reconcile(s.CallerID)
	})
}

// reconcile runs when a grace timer fires: if the caller has no live
// connection by now, it is removed from every room it belonged to.
func (e *Engine) reconcile(callerID string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.live[callerID] > 0 {
		log.Debug().Str("caller", callerID).Msg("caller reconnected within grace period")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), reconcileTimeout)
	defer cancel()

	rooms, err := e.store.RoomsWithMember(ctx, callerID)
	if err != nil {
		log.Error().Err(err).Str("caller", callerID).Msg("reconciliation lookup failed")
		return
	}

	for _, roomID := range rooms {
		removed, remaining, err := e.store.RemoveMember(ctx, roomID, callerID)
		if err != nil {
			log.Error().Err(err).Str("room", roomID).Str("caller", callerID).Msg("reconciliation removal failed")
			continue
		}
		if !removed {
			continue
		}
		if remaining == 0 {
			log.Info().Str("room", roomID).Msg("room deleted (empty)")
			continue
		}
		e.broadcastMembers(ctx, roomID)
	}

	if len(rooms) > 0 {
		log.Info().
			Str("caller", callerID).
			Int("rooms", len(rooms)).
			Msg("caller removed after grace period")
	}
}

// broadcastMembers publishes the current membership snapshot to every
// socket in the room's group. The stored set is the single source of
// truth; clients render exactly what arrives here.
func (e *Engine) broadcastMembers(ctx context.Context, roomID string) {
	memberIDs, err := e.store.Members(ctx, roomID)
	if err != nil {
		log.Error().Err(err).Str("room", roomID).Msg("snapshot read failed")
		return
	}

	members := make([]models.Member, 0, len(memberIDs))
	for _, id := range memberIDs {
		members = append(members, models.Member{MemberID: id})
	}

	e.fanout.Publish(roomID, models.ServerEvent{
		Type:    models.EventMembersUpdate,
		RoomID:  roomID,
		Members: members,
	})
}
