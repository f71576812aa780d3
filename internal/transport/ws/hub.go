package ws

import (
	"encoding/json"
	"log/slog"
	"sync"
)

// MessageType defines the type of WebSocket message
type MessageType string

// Server -> client message types
const (
	MsgSessionUpdated   MessageType = "session_updated"
	MsgSessionClosed    MessageType = "session_closed"
	MsgEvaluationResult MessageType = "evaluation_result"
	MsgAnswerSaved      MessageType = "answer_saved"
	MsgError            MessageType = "error"
)

// Client -> server message types
const (
	MsgTranscriptFragment MessageType = "transcript_fragment"
)

// Message is the WebSocket envelope format
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Hub manages WebSocket connections per owner. An owner may have several
// connections open (one per tab); every one receives the owner's events.
type Hub struct {
	conns map[string]map[*Connection]struct{} // ownerID -> connections

	mu sync.RWMutex

	// Channels for coordination
	register   chan *Connection
	unregister chan *Connection
	broadcast  chan *BroadcastMessage
	done       chan struct{}
	closeOnce  sync.Once

	logger *slog.Logger
}

// Connection represents a WebSocket connection
type Connection struct {
	OwnerID string
	Send    chan []byte
	Hub     *Hub
}

// BroadcastMessage is a message for all connections of one owner
type BroadcastMessage struct {
	OwnerID string
	Message *Message
}

// NewHub creates a new WebSocket hub
func NewHub(logger *slog.Logger) *Hub {
	h := &Hub{
		conns:      make(map[string]map[*Connection]struct{}),
		register:   make(chan *Connection),
		unregister: make(chan *Connection),
		broadcast:  make(chan *BroadcastMessage, 256),
		done:       make(chan struct{}),
		logger:     logger.With("component", "ws"),
	}
	go h.run()
	return h
}

func (h *Hub) run() {
	for {
		select {
		case <-h.done:
			h.mu.Lock()
			for owner, conns := range h.conns {
				for conn := range conns {
					close(conn.Send)
				}
				delete(h.conns, owner)
			}
			h.mu.Unlock()
			return

		case conn := <-h.register:
			h.mu.Lock()
			if h.conns[conn.OwnerID] == nil {
				h.conns[conn.OwnerID] = make(map[*Connection]struct{})
			}
			h.conns[conn.OwnerID][conn] = struct{}{}
			h.mu.Unlock()
			h.logger.Debug("connection registered", "owner_id", conn.OwnerID)

		case conn := <-h.unregister:
			h.mu.Lock()
			if conns, ok := h.conns[conn.OwnerID]; ok {
				if _, ok := conns[conn]; ok {
					delete(conns, conn)
					close(conn.Send)
					if len(conns) == 0 {
						delete(h.conns, conn.OwnerID)
					}
					h.logger.Debug("connection unregistered", "owner_id", conn.OwnerID)
				}
			}
			h.mu.Unlock()

		case msg := <-h.broadcast:
			data, err := json.Marshal(msg.Message)
			if err != nil {
				h.logger.Error("marshal message", "type", msg.Message.Type, "error", err)
				continue
			}
			h.mu.RLock()
			for conn := range h.conns[msg.OwnerID] {
				select {
				case conn.Send <- data:
				default:
					// Drop message if buffer full
				}
			}
			h.mu.RUnlock()
		}
	}
}

// Register adds a connection
func (h *Hub) Register(conn *Connection) {
	select {
	case h.register <- conn:
	case <-h.done:
		close(conn.Send)
	}
}

// Unregister removes a connection
func (h *Hub) Unregister(conn *Connection) {
	select {
	case h.unregister <- conn:
	case <-h.done:
	}
}

// Close disconnects every connection and stops the hub
func (h *Hub) Close() {
	h.closeOnce.Do(func() { close(h.done) })
}

// ConnectionCount returns the number of open connections for ownerID
func (h *Hub) ConnectionCount(ownerID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns[ownerID])
}

// sendDirect delivers data to one connection if it is still registered
func (h *Hub) sendDirect(conn *Connection, data []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if _, ok := h.conns[conn.OwnerID][conn]; !ok {
		return
	}
	select {
	case conn.Send <- data:
	default:
	}
}

// NotifyOwner sends a message to every connection of ownerID (implements service.Broadcaster)
func (h *Hub) NotifyOwner(ownerID string, msgType string, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		h.logger.Error("marshal payload", "type", msgType, "error", err)
		return
	}
	select {
	case h.broadcast <- &BroadcastMessage{
		OwnerID: ownerID,
		Message: &Message{
			Type:    MessageType(msgType),
			Payload: data,
		},
	}:
	case <-h.done:
	}
}
