package live

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
)

func TestBroadcastSeats(t *testing.T) {
	hub := NewHub()

	r := chi.NewRouter()
	r.Mount("/ws", hub.Routes())
	srv := httptest.NewServer(r)
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/rides/ride-1"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	defer conn.Close()

	// Registration happens in the handler goroutine; give it a moment.
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		hub.mu.RLock()
		n := len(hub.conns["ride-1"])
		hub.mu.RUnlock()
		if n > 0 {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}

	hub.BroadcastSeats("ride-1", 2)

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg struct {
		RideID string `json:"ride_id"`
		Seats  int    `json:"seats"`
	}
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if msg.RideID != "ride-1" || msg.Seats != 2 {
		t.Errorf("got %+v, want ride-1 with 2 seats", msg)
	}
}

func TestBroadcastToUnknownRideIsNoop(t *testing.T) {
	hub := NewHub()
	// Must not panic or block with no subscribers.
	hub.BroadcastSeats("nobody-listening", 1)
}
