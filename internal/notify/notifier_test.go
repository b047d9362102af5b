package notify

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/PaddyWebDev/safemax-backend/internal/model"
)

type fakeSender struct {
	to      string
	subject string
	body    string
	calls   int
	err     error
}

func (f *fakeSender) Send(to, subject, htmlBody string) error {
	f.calls++
	f.to = to
	f.subject = subject
	f.body = htmlBody
	return f.err
}

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func sampleAppointment() model.Appointment {
	return model.Appointment{
		ID:          7,
		Name:        "A",
		Email:       "a@x.com",
		ScheduledAt: time.Date(2024, 11, 15, 10, 0, 0, 0, time.UTC),
		Status:      model.StatusPending,
	}
}

func TestFormatOccurrence(t *testing.T) {
	date, clock := FormatOccurrence(time.Date(2024, 11, 15, 10, 0, 0, 0, time.UTC))
	if date != "11/15/2024" {
		t.Fatalf("unexpected date: %s", date)
	}
	if clock != "10:00 AM" {
		t.Fatalf("unexpected time: %s", clock)
	}

	_, pm := FormatOccurrence(time.Date(2024, 11, 15, 16, 45, 0, 0, time.UTC))
	if pm != "4:45 PM" {
		t.Fatalf("unexpected afternoon time: %s", pm)
	}
}

func TestDispatch_Approved(t *testing.T) {
	sender := &fakeSender{}
	n := NewStatusNotifier(sender, testLogger())

	if err := n.Dispatch(context.Background(), sampleAppointment(), model.StatusApproved); err != nil {
		t.Fatalf("dispatch failed: %v", err)
	}
	if sender.calls != 1 {
		t.Fatalf("expected exactly one send, got %d", sender.calls)
	}
	if sender.to != "a@x.com" {
		t.Fatalf("unexpected recipient: %s", sender.to)
	}
	if sender.subject != "Status of Appointment" {
		t.Fatalf("unexpected subject: %s", sender.subject)
	}
	for _, want := range []string{"Dear A,", "11/15/2024", "10:00 AM", "approved"} {
		if !strings.Contains(sender.body, want) {
			t.Fatalf("approved body missing %q:\n%s", want, sender.body)
		}
	}
}

func TestDispatch_Denied(t *testing.T) {
	sender := &fakeSender{}
	n := NewStatusNotifier(sender, testLogger())

	if err := n.Dispatch(context.Background(), sampleAppointment(), model.StatusDenied); err != nil {
		t.Fatalf("dispatch failed: %v", err)
	}
	for _, want := range []string{"denied", "reschedule"} {
		if !strings.Contains(sender.body, want) {
			t.Fatalf("denied body missing %q", want)
		}
	}
}

func TestDispatch_PendingIsNotNotifiable(t *testing.T) {
	sender := &fakeSender{}
	n := NewStatusNotifier(sender, testLogger())

	if err := n.Dispatch(context.Background(), sampleAppointment(), model.StatusPending); err == nil {
		t.Fatal("expected error for non-terminal status")
	}
	if sender.calls != 0 {
		t.Fatalf("expected no send attempts, got %d", sender.calls)
	}
}

func TestDispatch_SendFailure(t *testing.T) {
	sender := &fakeSender{err: errors.New("smtp down")}
	n := NewStatusNotifier(sender, testLogger())

	err := n.Dispatch(context.Background(), sampleAppointment(), model.StatusApproved)
	if err == nil {
		t.Fatal("expected send failure to surface")
	}
	if !strings.Contains(err.Error(), "smtp down") {
		t.Fatalf("expected wrapped transport error, got %v", err)
	}
}
