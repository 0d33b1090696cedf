package hub

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/internal-hackathon-7/int-hack-7/internal/models"
)

type captureSender struct {
	mu     sync.Mutex
	events []models.ServerEvent
}

func (s *captureSender) Send(ev models.ServerEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, ev)
}

func (s *captureSender) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.events)
}

func TestPublishReachesAllSubscribers(t *testing.T) {
	h := New()
	a, b := &captureSender{}, &captureSender{}
	h.Subscribe("ABC234", "sock-a", a)
	h.Subscribe("ABC234", "sock-b", b)

	ev := models.ServerEvent{Type: models.EventMembersUpdate, RoomID: "ABC234"}
	h.Publish("ABC234", ev)

	require.Equal(t, 1, a.count())
	require.Equal(t, 1, b.count())
	assert.Equal(t, ev, a.events[0])
}

func TestPublishIsScopedToRoom(t *testing.T) {
	h := New()
	a, b := &captureSender{}, &captureSender{}
	h.Subscribe("AAAA22", "sock-a", a)
	h.Subscribe("BBBB33", "sock-b", b)

	h.Publish("AAAA22", models.ServerEvent{Type: models.EventMembersUpdate, RoomID: "AAAA22"})

	assert.Equal(t, 1, a.count())
	assert.Equal(t, 0, b.count())
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	h := New()
	a := &captureSender{}
	h.Subscribe("ABC234", "sock-a", a)
	h.Unsubscribe("ABC234", "sock-a")

	h.Publish("ABC234", models.ServerEvent{Type: models.EventMembersUpdate, RoomID: "ABC234"})
	assert.Equal(t, 0, a.count())
}

func TestDropSocketLeavesEveryGroup(t *testing.T) {
	h := New()
	a, b := &captureSender{}, &captureSender{}
	h.Subscribe("AAAA22", "sock-a", a)
	h.Subscribe("BBBB33", "sock-a", a)
	h.Subscribe("BBBB33", "sock-b", b)

	h.DropSocket("sock-a")

	h.Publish("AAAA22", models.ServerEvent{Type: models.EventMembersUpdate, RoomID: "AAAA22"})
	h.Publish("BBBB33", models.ServerEvent{Type: models.EventMembersUpdate, RoomID: "BBBB33"})

	assert.Equal(t, 0, a.count())
	assert.Equal(t, 1, b.count())
}

func TestResubscribeIsIdempotent(t *testing.T) {
	h := New()
	a := &captureSender{}
	h.Subscribe("ABC234", "sock-a", a)
	h.Subscribe("ABC234", "sock-a", a)

	h.Publish("ABC234", models.ServerEvent{Type: models.EventMembersUpdate, RoomID: "ABC234"})
	assert.Equal(t, 1, a.count())
}
