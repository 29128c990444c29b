package websocket

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func waitForMessage(t *testing.T, ch chan []byte) []byte {
	t.Helper()
	select {
	case msg := <-ch:
		return msg
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for message")
		return nil
	}
}

func TestHub_NotifyUserRoutesToOwnClientsOnly(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	ann1 := NewClient(hub, nil, "ann")
	ann2 := NewClient(hub, nil, "ann")
	bob := NewClient(hub, nil, "bob")
	hub.Register <- ann1
	hub.Register <- ann2
	hub.Register <- bob

	hub.NotifyUser("ann", []byte("wake up"))

	require.Equal(t, "wake up", string(waitForMessage(t, ann1.Send)))
	require.Equal(t, "wake up", string(waitForMessage(t, ann2.Send)))

	select {
	case msg := <-bob.Send:
		t.Fatalf("bob received another user's notification: %q", msg)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHub_UnregisterClosesSend(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	client := NewClient(hub, nil, "ann")
	hub.Register <- client
	hub.Unregister <- client

	select {
	case _, open := <-client.Send:
		require.False(t, open, "send channel should be closed on unregister")
	case <-time.After(time.Second):
		t.Fatal("send channel was not closed")
	}

	// Notifications for a fully disconnected user are dropped quietly.
	hub.NotifyUser("ann", []byte("anyone home"))
}
