package groundlink

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func TestBroadcastDropsOldestWhenQueueFull(t *testing.T) {
	b := New()
	// incoming has capacity 100; fill past it and confirm Broadcast never
	// blocks (drop-oldest-on-full semantics).
	for i := 0; i < 150; i++ {
		b.Broadcast(&Message{Phase: "ascent"})
	}
	if len(b.incoming) > cap(b.incoming) {
		t.Fatalf("incoming channel over capacity: %d > %d", len(b.incoming), cap(b.incoming))
	}
}

func TestHandleWebSocketRegistersAndFansOutMessages(t *testing.T) {
	b := New()
	server := httptest.NewServer(http.HandlerFunc(b.HandleWebSocket))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go b.Run(ctx)

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dialing test websocket server: %v", err)
	}
	defer conn.Close()

	// Give the server a moment to register the client before broadcasting.
	deadlineRegistered := time.Now().Add(time.Second)
	for {
		clients, _, _ := b.Stats()
		if clients > 0 {
			break
		}
		if time.Now().After(deadlineRegistered) {
			t.Fatalf("client never registered")
		}
		time.Sleep(time.Millisecond)
	}

	b.Broadcast(&Message{Phase: "drogue_chute_deployed", AltitudeAGL: 1200})

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("reading broadcast message: %v", err)
	}
	if !strings.Contains(string(data), "drogue_chute_deployed") {
		t.Fatalf("expected broadcast payload to contain the phase, got %s", data)
	}
}
