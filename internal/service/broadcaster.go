package service

// Realtime event types pushed to an owner's websocket connections
const (
	EventSessionUpdated   = "session_updated"
	EventSessionClosed    = "session_closed"
	EventEvaluationResult = "evaluation_result"
	EventAnswerSaved      = "answer_saved"
)

// Broadcaster interface for WebSocket broadcasting (avoids import cycle)
type Broadcaster interface {
	NotifyOwner(ownerID string, msgType string, payload interface{})
}

type noopBroadcaster struct{}

func (noopBroadcaster) NotifyOwner(string, string, interface{}) {}
