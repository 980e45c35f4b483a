package remote

import (
	"sync"

	"github.com/tmscore/control/internal/log"
	"github.com/tmscore/control/pkg/protocol"
)

// Hub maintains the set of active neuronavigation clients, broadcasts
// outbound messages to them, and forwards inbound messages to a
// Dispatcher. Built around a channel-based fan-out hub.
type Hub struct {
	clients map[*Client]bool

	broadcast  chan *protocol.Message
	inbound    chan *protocol.Message
	register   chan *Client
	unregister chan *Client

	dispatcher Dispatcher

	mu sync.RWMutex
}

// NewHub returns a Hub that forwards every inbound message to dispatcher.
func NewHub(dispatcher Dispatcher) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan *protocol.Message, 256),
		inbound:    make(chan *protocol.Message, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		dispatcher: dispatcher,
	}
}

// Run drives the hub's main loop; call it in a goroutine.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			count := len(h.clients)
			h.mu.Unlock()
			log.Info("remote client connected", "client_id", client.id, "count", count)

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			count := len(h.clients)
			h.mu.Unlock()
			log.Info("remote client disconnected", "client_id", client.id, "count", count)

		case msg := <-h.broadcast:
			h.mu.Lock()
			for client := range h.clients {
				select {
				case client.send <- msg:
				default:
					close(client.send)
					delete(h.clients, client)
					log.Warn("dropped slow remote client")
				}
			}
			h.mu.Unlock()

		case msg := <-h.inbound:
			if h.dispatcher != nil {
				h.dispatcher.Dispatch(msg)
			}
		}
	}
}

// Publish queues msg for broadcast to every connected client.
func (h *Hub) Publish(msg *protocol.Message) {
	select {
	case h.broadcast <- msg:
	default:
		log.Warn("remote broadcast channel full, dropping message", "type", msg.Type)
	}
}

// SetDispatcher installs the inbound message handler. Call it before
// Run starts; the controller and hub have a construction-order cycle
// (the controller needs the hub as its sink, the hub needs the
// controller as its dispatcher) that this two-step wiring breaks.
func (h *Hub) SetDispatcher(d Dispatcher) {
	h.dispatcher = d
}

// ClientCount reports the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

var _ Sink = (*Hub)(nil)
