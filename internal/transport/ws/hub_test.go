package ws

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mockprep/internal/logging"
)

func newConn(hub *Hub, owner string) *Connection {
	return &Connection{OwnerID: owner, Send: make(chan []byte, 8), Hub: hub}
}

func receive(t *testing.T, c *Connection) Message {
	t.Helper()
	select {
	case data, ok := <-c.Send:
		require.True(t, ok, "channel closed")
		var m Message
		require.NoError(t, json.Unmarshal(data, &m))
		return m
	case <-time.After(time.Second):
		t.Fatal("no message received")
		return Message{}
	}
}

func TestNotifyOwnerReachesEveryConnectionOfThatOwner(t *testing.T) {
	hub := NewHub(logging.Discard())
	defer hub.Close()

	a1, a2, b := newConn(hub, "a"), newConn(hub, "a"), newConn(hub, "b")
	hub.Register(a1)
	hub.Register(a2)
	hub.Register(b)

	hub.NotifyOwner("a", "session_updated", map[string]string{"id": "s1"})

	for _, c := range []*Connection{a1, a2} {
		m := receive(t, c)
		assert.Equal(t, MsgSessionUpdated, m.Type)
		assert.JSONEq(t, `{"id":"s1"}`, string(m.Payload))
	}

	select {
	case <-b.Send:
		t.Fatal("other owner must not receive the event")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestUnregisterClosesConnection(t *testing.T) {
	hub := NewHub(logging.Discard())
	defer hub.Close()

	c := newConn(hub, "a")
	hub.Register(c)
	require.Eventually(t, func() bool { return hub.ConnectionCount("a") == 1 }, time.Second, 5*time.Millisecond)

	hub.Unregister(c)
	require.Eventually(t, func() bool { return hub.ConnectionCount("a") == 0 }, time.Second, 5*time.Millisecond)

	_, ok := <-c.Send
	assert.False(t, ok)

	// a second unregister is a no-op
	hub.Unregister(c)
}

func TestCloseDisconnectsEveryone(t *testing.T) {
	hub := NewHub(logging.Discard())

	c := newConn(hub, "a")
	hub.Register(c)
	hub.Close()

	select {
	case _, ok := <-c.Send:
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("connection not closed")
	}

	// calls after Close return instead of blocking
	hub.NotifyOwner("a", "session_updated", nil)
	late := newConn(hub, "a")
	hub.Register(late)
	_, ok := <-late.Send
	assert.False(t, ok)
	hub.Close()
}

func TestSendDirectSkipsUnregistered(t *testing.T) {
	hub := NewHub(logging.Discard())
	defer hub.Close()

	c := newConn(hub, "a")
	hub.sendDirect(c, []byte("x"))
	assert.Empty(t, c.Send)

	hub.Register(c)
	require.Eventually(t, func() bool { return hub.ConnectionCount("a") == 1 }, time.Second, 5*time.Millisecond)
	hub.sendDirect(c, []byte("x"))
	assert.Len(t, c.Send, 1)
}
