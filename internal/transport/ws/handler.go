package ws

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"mockprep/internal/model"
	"mockprep/internal/service"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 8192
	commandTimeout = 10 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins; clients authenticate with ?token=
	},
}

// TranscriptSink receives transcript fragments pushed by clients
type TranscriptSink interface {
	AppendTranscript(ctx context.Context, ownerID, sessionID, fragment string) (*model.AnswerSession, error)
}

// TranscriptFragment is the payload of a transcript_fragment message
type TranscriptFragment struct {
	SessionID string `json:"sessionId"`
	Text      string `json:"text"`
}

type errorPayload struct {
	Error     string `json:"error"`
	SessionID string `json:"sessionId,omitempty"`
}

// Handler handles WebSocket connections
type Handler struct {
	hub     *Hub
	authSvc *service.AuthService
	sink    TranscriptSink
	logger  *slog.Logger
}

// NewHandler creates a new WebSocket handler
func NewHandler(hub *Hub, authSvc *service.AuthService, sink TranscriptSink, logger *slog.Logger) *Handler {
	return &Handler{
		hub:     hub,
		authSvc: authSvc,
		sink:    sink,
		logger:  logger.With("component", "ws"),
	}
}

// Connect handles GET /v1/ws?token=
func (h *Handler) Connect(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		http.Error(w, "missing token", http.StatusUnauthorized)
		return
	}

	claims, err := h.authSvc.ValidateToken(token)
	if err != nil {
		http.Error(w, "invalid token", http.StatusUnauthorized)
		return
	}

	wsConn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("upgrade failed", "error", err)
		return
	}

	conn := &Connection{
		OwnerID: claims.OwnerID(),
		Send:    make(chan []byte, 256),
		Hub:     h.hub,
	}

	h.hub.Register(conn)

	go h.writePump(wsConn, conn)
	go h.readPump(wsConn, conn)
}

func (h *Handler) readPump(wsConn *websocket.Conn, conn *Connection) {
	defer func() {
		h.hub.Unregister(conn)
		wsConn.Close()
	}()

	wsConn.SetReadLimit(maxMessageSize)
	wsConn.SetReadDeadline(time.Now().Add(pongWait))
	wsConn.SetPongHandler(func(string) error {
		wsConn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := wsConn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				h.logger.Warn("read failed", "owner_id", conn.OwnerID, "error", err)
			}
			break
		}
		h.handleMessage(conn, data)
	}
}

func (h *Handler) handleMessage(conn *Connection, data []byte) {
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		h.reply(conn, MsgError, errorPayload{Error: "invalid message"})
		return
	}

	switch msg.Type {
	case MsgTranscriptFragment:
		var frag TranscriptFragment
		if err := json.Unmarshal(msg.Payload, &frag); err != nil || frag.SessionID == "" {
			h.reply(conn, MsgError, errorPayload{Error: "invalid transcript fragment"})
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
		defer cancel()
		// the updated session reaches the client through session_updated
		if _, err := h.sink.AppendTranscript(ctx, conn.OwnerID, frag.SessionID, frag.Text); err != nil {
			h.reply(conn, MsgError, errorPayload{Error: service.UserMessage(err), SessionID: frag.SessionID})
		}

	default:
		h.reply(conn, MsgError, errorPayload{Error: "unknown message type"})
	}
}

// reply sends to one connection only
func (h *Handler) reply(conn *Connection, msgType MessageType, payload interface{}) {
	body, _ := json.Marshal(payload)
	data, _ := json.Marshal(&Message{Type: msgType, Payload: body})
	h.hub.sendDirect(conn, data)
}

func (h *Handler) writePump(wsConn *websocket.Conn, conn *Connection) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		wsConn.Close()
	}()

	for {
		select {
		case message, ok := <-conn.Send:
			wsConn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				wsConn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := wsConn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			if err := w.Close(); err != nil {
				return
			}

		case <-ticker.C:
			wsConn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := wsConn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
