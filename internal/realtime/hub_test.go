package realtime

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/PaddyWebDev/safemax-backend/internal/model"
)

func testHub(t *testing.T) (*Hub, context.CancelFunc) {
	t.Helper()
	hub := NewHub(slog.New(slog.DiscardHandler))
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)
	return hub, cancel
}

func attachClient(t *testing.T, hub *Hub) *Client {
	t.Helper()
	c := &Client{hub: hub, send: make(chan Message, 64)}
	select {
	case hub.register <- c:
	case <-time.After(time.Second):
		t.Fatal("hub did not accept registration")
	}
	return c
}

func receive(t *testing.T, c *Client) Message {
	t.Helper()
	select {
	case msg := <-c.send:
		return msg
	case <-time.After(time.Second):
		t.Fatal("no message received")
		return Message{}
	}
}

func TestHub_BroadcastNewAppointment(t *testing.T) {
	hub, cancel := testHub(t)
	defer cancel()

	a := attachClient(t, hub)
	b := attachClient(t, hub)

	appt := model.Appointment{ID: 1, Name: "A", Email: "a@x.com", Status: model.StatusPending}
	hub.BroadcastNewAppointment(appt)

	for _, c := range []*Client{a, b} {
		msg := receive(t, c)
		if msg.Type != EventNewAppointment {
			t.Fatalf("unexpected event type %q", msg.Type)
		}
		got, ok := msg.Data.(model.Appointment)
		if !ok {
			t.Fatalf("unexpected payload type %T", msg.Data)
		}
		if got.ID != 1 || got.Email != "a@x.com" {
			t.Fatalf("unexpected payload: %+v", got)
		}
	}
}

func TestHub_BroadcastStatusChange(t *testing.T) {
	hub, cancel := testHub(t)
	defer cancel()

	c := attachClient(t, hub)
	hub.BroadcastStatusChange(42, model.StatusApproved)

	msg := receive(t, c)
	if msg.Type != EventAppointmentStatus {
		t.Fatalf("unexpected event type %q", msg.Type)
	}
	change, ok := msg.Data.(StatusChange)
	if !ok {
		t.Fatalf("unexpected payload type %T", msg.Data)
	}
	if change.AppointmentID != 42 || change.Status != model.StatusApproved {
		t.Fatalf("unexpected payload: %+v", change)
	}
}

func TestHub_UnregisteredClientStopsReceiving(t *testing.T) {
	hub, cancel := testHub(t)
	defer cancel()

	c := attachClient(t, hub)
	select {
	case hub.unregister <- c:
	case <-time.After(time.Second):
		t.Fatal("hub did not accept unregistration")
	}

	// The send channel is closed on unregister.
	deadline := time.After(time.Second)
	for {
		select {
		case _, open := <-c.send:
			if !open {
				return
			}
		case <-deadline:
			t.Fatal("send channel was not closed")
		}
	}
}

func TestHub_ShutdownClosesClients(t *testing.T) {
	hub, cancel := testHub(t)
	c := attachClient(t, hub)

	cancel()

	deadline := time.After(time.Second)
	for {
		select {
		case _, open := <-c.send:
			if !open {
				if n := hub.ClientCount(); n != 0 {
					t.Fatalf("expected 0 clients after shutdown, got %d", n)
				}
				return
			}
		case <-deadline:
			t.Fatal("client was not closed on shutdown")
		}
	}
}

func TestHub_ChatEcho(t *testing.T) {
	hub, cancel := testHub(t)
	defer cancel()

	a := attachClient(t, hub)
	b := attachClient(t, hub)

	// A chat message from one client reaches every client, sender included.
	hub.publish(Message{Type: EventChatMessage, Data: "hello"})

	for _, c := range []*Client{a, b} {
		msg := receive(t, c)
		if msg.Type != EventChatMessage || msg.Data != "hello" {
			t.Fatalf("unexpected chat echo: %+v", msg)
		}
	}
}
