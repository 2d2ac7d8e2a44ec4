package events

import (
	"bufio"
	"encoding/json"
	"net"
	"testing"
	"time"
)

func TestBroadcastToTCPClient(t *testing.T) {
	hub := NewHub()

	server, client := net.Pipe()
	t.Cleanup(func() {
		_ = server.Close()
		_ = client.Close()
	})
	hub.Add(server)

	lines := make(chan string, 1)
	go func() {
		sc := bufio.NewScanner(client)
		if sc.Scan() {
			lines <- sc.Text()
		}
	}()

	hub.Broadcast(New(TypeGameCreated, "game-1", "Elden Ring"))

	select {
	case line := <-lines:
		var ev Event
		if err := json.Unmarshal([]byte(line), &ev); err != nil {
			t.Fatalf("decode event: %v", err)
		}
		if ev.Type != TypeGameCreated || ev.ID != "game-1" || ev.Title != "Elden Ring" {
			t.Errorf("event = %+v", ev)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no event received")
	}
}

func TestBroadcastDropsDeadClient(t *testing.T) {
	hub := NewHub()

	server, client := net.Pipe()
	hub.Add(server)
	_ = client.Close()
	_ = server.Close()

	// Write fails; client must be removed, request side unaffected.
	hub.Broadcast(New(TypeBossCreated, "boss-1", "Margit"))

	if n := hub.Count(); n != 0 {
		t.Errorf("clients = %d, want 0", n)
	}
}

func TestStats(t *testing.T) {
	hub := NewHub()
	if s := hub.Stats(); s.TCPClients != 0 || s.WSClients != 0 {
		t.Errorf("fresh hub stats = %+v", s)
	}

	server, client := net.Pipe()
	t.Cleanup(func() {
		_ = server.Close()
		_ = client.Close()
	})
	hub.Add(server)

	if s := hub.Stats(); s.TCPClients != 1 {
		t.Errorf("tcp clients = %d, want 1", s.TCPClients)
	}

	hub.Remove(server)
	if s := hub.Stats(); s.TCPClients != 0 {
		t.Errorf("tcp clients after remove = %d, want 0", s.TCPClients)
	}
}
