package server

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/gravitas-games/triprime/internal/network"
	"github.com/rs/zerolog"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait)
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 1024
)

// Connection represents a spectator's WebSocket connection
type Connection struct {
	ID string

	// WebSocket connection
	ws *websocket.Conn

	// Server reference
	server *Server

	// Buffered channel for outbound messages
	send chan []byte

	closeOnce sync.Once
	log       zerolog.Logger
}

// NewConnection creates a new connection
func NewConnection(ws *websocket.Conn, server *Server, buffer int) *Connection {
	id := uuid.NewString()
	return &Connection{
		ID:     id,
		ws:     ws,
		server: server,
		send:   make(chan []byte, buffer),
		log:    server.log.With().Str("spectator", id).Logger(),
	}
}

// Handle manages the connection lifecycle
func (c *Connection) Handle() {
	// Set up connection parameters
	c.ws.SetReadLimit(maxMessageSize)
	c.ws.SetReadDeadline(time.Now().Add(pongWait))
	c.ws.SetPongHandler(func(string) error {
		c.ws.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	go c.writePump()
	c.readPump() // Blocking
}

// readPump reads client frames until the peer goes away. Spectators are
// read-only: anything but a ping gets an error frame.
func (c *Connection) readPump() {
	defer c.Close()

	for {
		_, message, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.log.Warn().Err(err).Msg("websocket read error")
			}
			break
		}

		var clientMsg network.ClientMessage
		if err := json.Unmarshal(message, &clientMsg); err != nil {
			c.log.Debug().Err(err).Msg("failed to parse client message")
			c.SendError("invalid_message", "Failed to parse message")
			continue
		}

		switch clientMsg.Type {
		case network.MsgTypePing:
			c.SendMessage(&network.ServerMessage{
				Type:    network.MsgTypePong,
				Payload: network.PongPayload{Timestamp: time.Now().Unix()},
			})
		default:
			c.SendError("read_only", "Spectators cannot send "+clientMsg.Type)
		}
	}
}

// writePump pumps messages from the send channel to the WebSocket connection
func (c *Connection) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.ws.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.ws.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.ws.WriteMessage(websocket.TextMessage, message); err != nil {
				c.log.Debug().Err(err).Msg("websocket write error")
				return
			}

		case <-ticker.C:
			c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.server.ctx.Done():
			return
		}
	}
}

// SendMessage queues a message for the client. A full buffer drops it.
func (c *Connection) SendMessage(msg *network.ServerMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		c.log.Error().Err(err).Str("type", msg.Type).Msg("failed to marshal message")
		return
	}

	select {
	case c.send <- data:
	default:
		c.log.Warn().Str("type", msg.Type).Msg("send buffer full, dropping message")
	}
}

// SendError sends an error message to the client
func (c *Connection) SendError(code, message string) {
	c.SendMessage(&network.ServerMessage{
		Type:    network.MsgTypeError,
		Payload: network.ErrorPayload{Code: code, Message: message},
	})
}

// Close unregisters the spectator, then stops the write pump and the socket.
func (c *Connection) Close() {
	c.closeOnce.Do(func() {
		c.server.session.RemoveSpectator(c.ID)
		close(c.send)
		c.ws.Close()
	})
}
