package remote

import (
	"time"

	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
	"github.com/tmscore/control/internal/log"
	"github.com/tmscore/control/pkg/protocol"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 64 * 1024
)

// Client represents one neuronavigation websocket connection.
type Client struct {
	id   string
	hub  *Hub
	conn *websocket.Conn
	send chan *protocol.Message
}

// NewClient registers a new client with hub, tagging it with a random
// session id for connect/disconnect log correlation.
func NewClient(hub *Hub, conn *websocket.Conn) *Client {
	client := &Client{id: uuid.New().String(), hub: hub, conn: conn, send: make(chan *protocol.Message, 256)}
	hub.register <- client
	return client
}

// Run starts the client's read and write pumps, blocking until the
// connection closes.
func (c *Client) Run() {
	go c.writePump()
	c.readPump()
}

func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		msg, err := protocol.ParseMessage(data)
		if err != nil {
			log.Warn("discarding malformed remote message", "error", err)
			continue
		}
		select {
		case c.hub.inbound <- msg:
		default:
			log.Warn("remote inbound channel full, dropping message", "type", msg.Type)
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			data, err := msg.Bytes()
			if err != nil {
				log.Warn("dropping unencodable remote message", "error", err)
				continue
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
