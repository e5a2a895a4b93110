package ws

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/gofiber/contrib/websocket"
	"go.uber.org/zap"
)

// Event is the JSON frame pushed to back-office screens.
type Event struct {
	Type    string      `json:"type"`   // stock_update, price_update, quotation
	Action  string      `json:"action"` // purchase_created, sale_created, ...
	Payload interface{} `json:"payload,omitempty"`
	Message string      `json:"message,omitempty"`
}

// Publisher accepts events without blocking the caller.
type Publisher interface {
	Publish(event Event)
}

type nopPublisher struct{}

func (nopPublisher) Publish(Event) {}

// NopPublisher discards every event.
func NopPublisher() Publisher { return nopPublisher{} }

type Hub struct {
	Clients    map[*websocket.Conn]bool
	Register   chan *websocket.Conn
	Unregister chan *websocket.Conn
	Broadcast  chan []byte
	done       chan struct{}
	mutex      sync.Mutex
	log        *zap.Logger
}

func NewHub(log *zap.Logger) *Hub {
	return &Hub{
		Clients:    make(map[*websocket.Conn]bool),
		Register:   make(chan *websocket.Conn),
		Unregister: make(chan *websocket.Conn),
		Broadcast:  make(chan []byte, 64),
		done:       make(chan struct{}),
		log:        log.Named("ws"),
	}
}

// Run fans broadcasts out to every client until ctx is cancelled. Run must be
// called once.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			close(h.done)
			h.mutex.Lock()
			for conn := range h.Clients {
				conn.Close()
				delete(h.Clients, conn)
			}
			h.mutex.Unlock()
			return

		case conn := <-h.Register:
			h.mutex.Lock()
			h.Clients[conn] = true
			count := len(h.Clients)
			h.mutex.Unlock()
			h.log.Debug("client connected", zap.Int("clients", count))

		case conn := <-h.Unregister:
			h.mutex.Lock()
			if _, ok := h.Clients[conn]; ok {
				delete(h.Clients, conn)
				conn.Close()
			}
			h.mutex.Unlock()

		case message := <-h.Broadcast:
			h.mutex.Lock()
			for conn := range h.Clients {
				if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
					conn.Close()
					delete(h.Clients, conn)
				}
			}
			h.mutex.Unlock()
		}
	}
}

// Publish queues the event for broadcast. When the queue is full the event is
// dropped; live screens refresh from the API anyway.
func (h *Hub) Publish(event Event) {
	msg, err := json.Marshal(event)
	if err != nil {
		h.log.Error("marshal event", zap.String("action", event.Action), zap.Error(err))
		return
	}
	select {
	case h.Broadcast <- msg:
	default:
		h.log.Warn("broadcast queue full, event dropped", zap.String("action", event.Action))
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	return len(h.Clients)
}

// register hands conn to Run. It reports false once the hub has stopped.
func (h *Hub) register(conn *websocket.Conn) bool {
	select {
	case h.Register <- conn:
		return true
	case <-h.done:
		return false
	}
}

// unregister hands conn back to Run. After shutdown Run has already closed it.
func (h *Hub) unregister(conn *websocket.Conn) {
	select {
	case h.Unregister <- conn:
	case <-h.done:
	}
}

// Serve registers the connection and blocks reading until the client leaves.
func (h *Hub) Serve(conn *websocket.Conn) {
	if !h.register(conn) {
		return
	}
	defer h.unregister(conn)

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
