// Package handlers wires the HTTP and websocket surface: the realtime
// presence endpoint, the session-token endpoints the web client uses, and
// the daemon endpoints the local agent calls.
package handlers

import (
	"github.com/internal-hackathon-7/int-hack-7/config"
	"github.com/internal-hackathon-7/int-hack-7/internal/auth"
	"github.com/internal-hackathon-7/int-hack-7/internal/presence"
	"github.com/internal-hackathon-7/int-hack-7/internal/store"
)

type Handlers struct {
	cfg      *config.Config
	verifier *auth.Verifier
	rooms    store.RoomStore
	users    store.UserDirectory
	diffs    store.DiffStore
	engine   *presence.Engine
}

func New(
	cfg *config.Config,
	verifier *auth.Verifier,
	rooms store.RoomStore,
	users store.UserDirectory,
	diffs store.DiffStore,
	engine *presence.Engine,
) *Handlers {
	return &Handlers{
		cfg:      cfg,
		verifier: verifier,
		rooms:    rooms,
		users:    users,
		diffs:    diffs,
		engine:   engine,
	}
}
