package realtime

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/ak4shii/smart-parking-system/internal/logger"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const clientSendBuffer = 64

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type client struct {
	channel string
	conn    *websocket.Conn
	send    chan []byte
}

type message struct {
	channel string
	payload []byte
}

// Hub fans out realtime events to websocket subscribers grouped by channel.
// Delivery is at-most-once: a client whose send buffer is full is dropped
// rather than allowed to stall the broadcast loop.
type Hub struct {
	clients    map[*client]bool
	register   chan *client
	unregister chan *client
	broadcast  chan message

	mu       sync.RWMutex
	channels map[string]bool
}

func NewHub() *Hub {
	channels := map[string]bool{
		ChannelOverview:        true,
		ChannelDoor:            true,
		ChannelLcd:             true,
		ChannelRfid:            true,
		ChannelEntryLog:        true,
		ChannelMicrocontroller: true,
	}
	return &Hub{
		clients:    make(map[*client]bool),
		register:   make(chan *client),
		unregister: make(chan *client),
		broadcast:  make(chan message, 256),
		channels:   channels,
	}
}

// KnownChannel reports whether name is a subscribable channel.
func (h *Hub) KnownChannel(name string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.channels[name]
}

// Run owns the client set. It must be started exactly once, before the
// first Subscribe or Broadcast.
func (h *Hub) Run() {
	for {
		select {
		case c := <-h.register:
			h.clients[c] = true
			logger.Debug("Websocket client subscribed",
				zap.String("channel", c.channel),
			)
		case c := <-h.unregister:
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.send)
			}
		case msg := <-h.broadcast:
			for c := range h.clients {
				if c.channel != msg.channel {
					continue
				}
				select {
				case c.send <- msg.payload:
				default:
					delete(h.clients, c)
					close(c.send)
					logger.Warn("Dropping slow websocket client",
						zap.String("channel", c.channel),
					)
				}
			}
		}
	}
}

// Broadcast marshals event and queues it for every subscriber of channel.
func (h *Hub) Broadcast(channel string, event any) {
	payload, err := json.Marshal(event)
	if err != nil {
		logger.Error("Failed to marshal realtime event",
			zap.String("channel", channel),
			zap.Error(err),
		)
		return
	}
	select {
	case h.broadcast <- message{channel: channel, payload: payload}:
	default:
		logger.Warn("Realtime broadcast queue full, event dropped",
			zap.String("channel", channel),
		)
	}
}

// Subscribe upgrades the HTTP request to a websocket and attaches it to the
// given channel until the peer disconnects.
func (h *Hub) Subscribe(channel string, w http.ResponseWriter, r *http.Request) error {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}

	c := &client{
		channel: channel,
		conn:    conn,
		send:    make(chan []byte, clientSendBuffer),
	}
	h.register <- c

	go c.writePump()
	go c.readPump(h)
	return nil
}

func (c *client) writePump() {
	defer c.conn.Close()
	for payload := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			return
		}
	}
	c.conn.WriteMessage(websocket.CloseMessage, []byte{})
}

// readPump discards inbound frames; the stream is one-way. Its real job is
// detecting disconnects so the hub can release the client.
func (c *client) readPump(h *Hub) {
	defer func() {
		h.unregister <- c
		c.conn.Close()
	}()
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}
