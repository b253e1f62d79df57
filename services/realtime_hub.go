package services

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// NotificationEvent is the in-app mirror of a dispatched notification.
type NotificationEvent struct {
	Kind   string    `json:"kind"`
	Title  string    `json:"title"`
	Body   string    `json:"body"`
	SentAt time.Time `json:"sent_at"`
}

const (
	wsSendBuffer   = 8
	wsPingInterval = 25 * time.Second
	wsWriteWait    = 10 * time.Second
)

// WSClient is one attached socket. Its write pump is the only goroutine
// that touches the connection for writes; a slow or dead client drops
// events instead of blocking the dispatcher.
type WSClient struct {
	userID uint
	conn   *websocket.Conn
	send   chan []byte
	once   sync.Once
}

func (c *WSClient) close() {
	c.once.Do(func() {
		close(c.send)
	})
}

// RealtimeHub mirrors dispatch events onto a user's connected sockets so
// the app can show a notification while the push is still in flight.
type RealtimeHub struct {
	mu      sync.RWMutex
	clients map[uint]map[*WSClient]struct{}
}

func NewRealtimeHub() *RealtimeHub {
	return &RealtimeHub{clients: make(map[uint]map[*WSClient]struct{})}
}

// Attach registers the connection and starts its write pump. The caller
// keeps reading until the peer goes away, then calls Detach.
func (h *RealtimeHub) Attach(userID uint, conn *websocket.Conn) *WSClient {
	c := &WSClient{userID: userID, conn: conn, send: make(chan []byte, wsSendBuffer)}
	h.mu.Lock()
	if h.clients[userID] == nil {
		h.clients[userID] = make(map[*WSClient]struct{})
	}
	h.clients[userID][c] = struct{}{}
	h.mu.Unlock()

	go c.writePump()
	return c
}

func (h *RealtimeHub) Detach(c *WSClient) {
	h.mu.Lock()
	if set := h.clients[c.userID]; set != nil {
		delete(set, c)
		if len(set) == 0 {
			delete(h.clients, c.userID)
		}
	}
	h.mu.Unlock()
	c.close()
}

// Publish delivers an event to every socket the user has attached. Full
// client buffers are skipped; the audit record is the durable copy.
func (h *RealtimeHub) Publish(userID uint, ev NotificationEvent) {
	msg, err := json.Marshal(ev)
	if err != nil {
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients[userID] {
		select {
		case c.send <- msg:
		default:
		}
	}
}

// Attached reports how many sockets a user currently holds.
func (h *RealtimeHub) Attached(userID uint) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID])
}

func (c *WSClient) writePump() {
	ticker := time.NewTicker(wsPingInterval)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, nil)
				return
			}
			_ = c.conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
