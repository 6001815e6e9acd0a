package ws

import (
	"encoding/json"
	"sync"
	"time"

	"citypulse/models"

	"github.com/apex/log"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// Hub fans report events out to every connected websocket client. Map and
// list views subscribe to keep their working set fresh between polls.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client
	mutex      sync.RWMutex

	lastEventAt time.Time
}

// Client is one websocket subscriber.
type Client struct {
	id   string
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan []byte, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

// Run is the hub's main loop; call it in its own goroutine.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mutex.Lock()
			h.clients[client] = true
			total := len(h.clients)
			h.mutex.Unlock()
			log.Infof("Websocket client %s connected. Total clients: %d", client.id, total)

		case client := <-h.unregister:
			h.mutex.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			total := len(h.clients)
			h.mutex.Unlock()
			log.Infof("Websocket client %s disconnected. Total clients: %d", client.id, total)

		case message := <-h.broadcast:
			h.mutex.Lock()
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					close(client.send)
					delete(h.clients, client)
				}
			}
			h.lastEventAt = time.Now()
			h.mutex.Unlock()
		}
	}
}

// RegisterConn wraps an upgraded connection into a client and starts its
// pumps.
func (h *Hub) RegisterConn(conn *websocket.Conn) {
	client := &Client{
		id:   uuid.NewString(),
		hub:  h,
		conn: conn,
		send: make(chan []byte, 256),
	}
	h.register <- client

	go client.writePump()
	go client.readPump()
}

// BroadcastEvent serializes and fans out one report event.
func (h *Hub) BroadcastEvent(event models.ReportEvent) {
	data, err := json.Marshal(event)
	if err != nil {
		log.Errorf("Failed to marshal report event: %v", err)
		return
	}
	h.broadcast <- data
}

// Stats returns the connected client count and the last broadcast time.
func (h *Hub) Stats() (int, time.Time) {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.clients), h.lastEventAt
}

const (
	pongWait   = 60 * time.Second
	pingPeriod = 54 * time.Second
	writeWait  = 10 * time.Second
)

// readPump drains inbound frames so pings/pongs and close frames are
// processed; the feed is one-way.
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(512)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Errorf("Websocket read error for client %s: %v", c.id, err)
			}
			break
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
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
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
