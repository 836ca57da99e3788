package httpserver

import (
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // LAN control page; any origin may connect
	},
}

// wsMessage is the frame pushed to control-page clients.
type wsMessage struct {
	Type    string `json:"type"`
	Content string `json:"content"`
}

// client wraps a connection with a write mutex so broadcasts and pings never
// interleave writes.
type client struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *client) send(msg wsMessage) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteJSON(msg)
}

type hub struct {
	mu      sync.Mutex
	clients map[*client]struct{}
}

func newHub() *hub {
	return &hub{clients: make(map[*client]struct{})}
}

// BroadcastText pushes the new stored text to every connected page.
func (h *hub) BroadcastText(text string) {
	h.mu.Lock()
	clients := make([]*client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.Unlock()

	msg := wsMessage{Type: "text", Content: text}
	for _, c := range clients {
		if err := c.send(msg); err != nil {
			h.drop(c)
		}
	}
}

func (h *hub) add(c *client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
}

func (h *hub) drop(c *client) {
	h.mu.Lock()
	delete(h.clients, c)
	h.mu.Unlock()
	_ = c.conn.Close()
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade error: %v", err)
		return
	}

	c := &client{conn: conn}
	s.hub.add(c)
	log.Printf("Control page connected via websocket")

	// Send the current value so a fresh page doesn't wait for the next write.
	if text, ok := s.Store.Get(); ok {
		_ = c.send(wsMessage{Type: "text", Content: text})
	}

	// Reader loop only detects disconnect; clients never send anything.
	go func() {
		defer s.hub.drop(c)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}
