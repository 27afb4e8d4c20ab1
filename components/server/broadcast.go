package server

import (
	"encoding/json"
	"sync"

	"github.com/gofiber/contrib/websocket"

	"github.com/gregt1993/Health-Bridge/pkg/states"
)

// hub fans state-change events out to connected sockets. Sends never block;
// a client that cannot keep up misses events and reloads on the next one.
type hub struct {
	mu    sync.Mutex
	conns map[*websocket.Conn]chan []byte
}

func newHub() *hub {
	return &hub{conns: make(map[*websocket.Conn]chan []byte)}
}

func (h *hub) add(conn *websocket.Conn) chan []byte {
	out := make(chan []byte, 8)
	h.mu.Lock()
	h.conns[conn] = out
	h.mu.Unlock()
	return out
}

func (h *hub) remove(conn *websocket.Conn) {
	h.mu.Lock()
	if out, ok := h.conns[conn]; ok {
		delete(h.conns, conn)
		close(out)
	}
	h.mu.Unlock()
}

func (h *hub) broadcast(event states.ChangeEvent) {
	data, err := json.Marshal(event)
	if err != nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, out := range h.conns {
		select {
		case out <- data:
		default:
		}
	}
}

func (h *hub) clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.conns)
}
