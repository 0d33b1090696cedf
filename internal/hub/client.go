package hub

import (
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/internal-hackathon-7/int-hack-7/config"
	"github.com/internal-hackathon-7/int-hack-7/internal/models"
)

// Client wraps one websocket connection. All writes funnel through the
// buffered send channel into a single writer goroutine, which is what
// keeps per-socket delivery order intact.
type Client struct {
	ID   string
	conn *websocket.Conn
	send chan []byte
	cfg  config.WSConfig
}

func NewClient(id string, conn *websocket.Conn, cfg config.WSConfig) *Client {
	return &Client{
		ID:   id,
		conn: conn,
		send: make(chan []byte, cfg.SendBuffer),
		cfg:  cfg,
	}
}

// Send enqueues an event for delivery. A full buffer drops the frame for
// this socket rather than blocking the broadcaster; the client catches up
// on the next snapshot.
func (c *Client) Send(ev models.ServerEvent) {
	data, err := json.Marshal(ev)
	if err != nil {
		log.Error().Err(err).Str("socket", c.ID).Msg("failed to marshal event")
		return
	}
	select {
	case c.send <- data:
	default:
		log.Warn().Str("socket", c.ID).Msg("send buffer full, dropping frame")
	}
}

// ReadPump consumes inbound frames until the socket closes, handing each
// decoded event to the dispatcher. It owns the connection teardown:
// onClose runs exactly once, after the read loop exits.
func (c *Client) ReadPump(dispatch func(models.ClientEvent), onClose func()) {
	defer func() {
		onClose()
		c.conn.Close()
	}()

	c.conn.SetReadLimit(c.cfg.ReadLimit)
	c.conn.SetReadDeadline(time.Now().Add(c.cfg.PongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(c.cfg.PongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure, websocket.CloseNormalClosure) {
				log.Warn().Err(err).Str("socket", c.ID).Msg("websocket read error")
			}
			return
		}

		var ev models.ClientEvent
		if err := json.Unmarshal(message, &ev); err != nil {
			log.Warn().Err(err).Str("socket", c.ID).Msg("unparseable frame")
			continue
		}
		dispatch(ev)
	}
}

// WritePump drains the send channel onto the wire and keeps the
// connection alive with pings.
func (c *Client) WritePump() {
	ticker := time.NewTicker(c.cfg.PingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(c.cfg.WriteTimeout))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				log.Warn().Err(err).Str("socket", c.ID).Msg("websocket write error")
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(c.cfg.WriteTimeout))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
