package ws

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mockprep/internal/logging"
	"mockprep/internal/model"
	"mockprep/internal/service"
)

type fakeSink struct {
	mu    sync.Mutex
	calls []string
	err   error
}

func (s *fakeSink) AppendTranscript(ctx context.Context, ownerID, sessionID, fragment string) (*model.AnswerSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, ownerID+"|"+sessionID+"|"+fragment)
	if s.err != nil {
		return nil, s.err
	}
	return &model.AnswerSession{ID: sessionID, OwnerID: ownerID}, nil
}

func (s *fakeSink) recorded() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.calls...)
}

type wsFixture struct {
	srv  *httptest.Server
	hub  *Hub
	sink *fakeSink
	auth *service.AuthService
}

func newWSFixture(t *testing.T) *wsFixture {
	t.Helper()
	f := &wsFixture{
		hub:  NewHub(logging.Discard()),
		sink: &fakeSink{},
		auth: service.NewAuthService("secret"),
	}
	h := NewHandler(f.hub, f.auth, f.sink, logging.Discard())
	f.srv = httptest.NewServer(http.HandlerFunc(h.Connect))
	t.Cleanup(func() {
		f.srv.Close()
		f.hub.Close()
	})
	return f
}

func (f *wsFixture) dial(t *testing.T, token string) (*websocket.Conn, *http.Response, error) {
	t.Helper()
	url := "ws" + strings.TrimPrefix(f.srv.URL, "http") + "?token=" + token
	return websocket.DefaultDialer.Dial(url, nil)
}

func (f *wsFixture) connect(t *testing.T, owner string) *websocket.Conn {
	t.Helper()
	token, err := f.auth.IssueToken(owner, "", time.Hour)
	require.NoError(t, err)
	conn, _, err := f.dial(t, token)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	require.Eventually(t, func() bool { return f.hub.ConnectionCount(owner) == 1 }, time.Second, 5*time.Millisecond)
	return conn
}

func readMessage(t *testing.T, conn *websocket.Conn) Message {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var m Message
	require.NoError(t, conn.ReadJSON(&m))
	return m
}

func TestConnectRequiresValidToken(t *testing.T) {
	f := newWSFixture(t)

	_, resp, err := f.dial(t, "")
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	_, resp, err = f.dial(t, "garbage")
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestEventsReachConnectedOwner(t *testing.T) {
	f := newWSFixture(t)
	conn := f.connect(t, "owner-1")

	f.hub.NotifyOwner("owner-1", service.EventEvaluationResult, map[string]interface{}{
		"sessionId":  "s1",
		"evaluation": model.EvaluationResult{Rating: 7, Feedback: "Solid answer."},
	})

	m := readMessage(t, conn)
	assert.Equal(t, MsgEvaluationResult, m.Type)
	assert.JSONEq(t, `{"sessionId":"s1","evaluation":{"rating":7,"feedback":"Solid answer."}}`, string(m.Payload))
}

func TestTranscriptFragmentIsForwarded(t *testing.T) {
	f := newWSFixture(t)
	conn := f.connect(t, "owner-1")

	require.NoError(t, conn.WriteJSON(map[string]interface{}{
		"type":    "transcript_fragment",
		"payload": map[string]string{"sessionId": "s1", "text": "goroutines are cheap"},
	}))

	require.Eventually(t, func() bool { return len(f.sink.recorded()) == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, []string{"owner-1|s1|goroutines are cheap"}, f.sink.recorded())
}

func TestTranscriptFragmentErrorsAreReported(t *testing.T) {
	f := newWSFixture(t)
	f.sink.err = service.ErrSessionNotFound
	conn := f.connect(t, "owner-1")

	require.NoError(t, conn.WriteJSON(map[string]interface{}{
		"type":    "transcript_fragment",
		"payload": map[string]string{"sessionId": "gone", "text": "hello"},
	}))

	m := readMessage(t, conn)
	assert.Equal(t, MsgError, m.Type)
	assert.Contains(t, string(m.Payload), `"sessionId":"gone"`)
	assert.Contains(t, string(m.Payload), service.UserMessage(service.ErrSessionNotFound))
}

func TestMalformedClientMessages(t *testing.T) {
	tests := map[string]string{
		"not json":         `{{{`,
		"unknown type":     `{"type":"hello","payload":{}}`,
		"missing session":  `{"type":"transcript_fragment","payload":{"text":"x"}}`,
		"payload not json": `{"type":"transcript_fragment","payload":"x"}`,
	}
	for name, raw := range tests {
		t.Run(name, func(t *testing.T) {
			f := newWSFixture(t)
			conn := f.connect(t, "owner-1")

			require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(raw)))
			m := readMessage(t, conn)
			assert.Equal(t, MsgError, m.Type)
			assert.Empty(t, f.sink.recorded())
		})
	}
}

func TestSinkErrorTypesDoNotLeak(t *testing.T) {
	f := newWSFixture(t)
	f.sink.err = errors.New("redis: connection refused")
	conn := f.connect(t, "owner-1")

	require.NoError(t, conn.WriteJSON(map[string]interface{}{
		"type":    "transcript_fragment",
		"payload": map[string]string{"sessionId": "s1", "text": "hello"},
	}))

	m := readMessage(t, conn)
	assert.Equal(t, MsgError, m.Type)
	assert.NotContains(t, string(m.Payload), "redis")
}
