package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/internal-hackathon-7/int-hack-7/internal/hub"
	"github.com/internal-hackathon-7/int-hack-7/internal/middleware"
	"github.com/internal-hackathon-7/int-hack-7/internal/models"
	"github.com/internal-hackathon-7/int-hack-7/internal/presence"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Origin checking is handled by middleware.
		return true
	},
}

// HandleWS authenticates and upgrades a realtime connection. The
// credential is verified before the upgrade: a bad token is refused at
// the HTTP layer and no session ever exists for it. Browser websocket
// clients cannot set headers, so the token may also arrive as a query
// parameter.
func (h *Handlers) HandleWS(c *gin.Context) {
	token := middleware.BearerToken(c)
	if token == "" {
		token = c.Query("token")
	}
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not logged in"})
		return
	}

	identity, err := h.verifier.Verify(token)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid session"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error().Err(err).Msg("websocket upgrade failed")
		return
	}

	socketID := uuid.New().String()
	client := hub.NewClient(socketID, conn, h.cfg.WS)
	sess := presence.NewSession(socketID, identity.CallerID, identity.DisplayName, client)
	h.engine.Register(sess)

	log.Info().
		Str("socket", socketID).
		Str("caller", identity.CallerID).
		Str("name", identity.DisplayName).
		Msg("client connected")

	go client.WritePump()
	go client.ReadPump(
		func(ev models.ClientEvent) { h.dispatch(sess, ev) },
		func() {
			log.Info().Str("socket", socketID).Str("caller", identity.CallerID).Msg("client disconnected")
			h.engine.Disconnect(sess)
		},
	)
}

func (h *Handlers) dispatch(sess *presence.Session, ev models.ClientEvent) {
	ctx := context.Background()
	switch ev.Type {
	case models.EventCreateRoom:
		h.engine.CreateRoom(ctx, sess)
	case models.EventJoinRoom:
		h.engine.JoinRoom(ctx, sess, ev.RoomID)
	case models.EventLeaveRoom:
		h.engine.LeaveRoom(ctx, sess, ev.RoomID)
	default:
		log.Warn().Str("type", string(ev.Type)).Str("socket", sess.SocketID).Msg("unknown event type")
	}
}
