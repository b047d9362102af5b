package model

import (
	"fmt"
	"strings"
	"time"
)

// Status is the review state of an appointment request.
type Status string

const (
	StatusPending  Status = "Pending"
	StatusApproved Status = "Approved"
	StatusDenied   Status = "Denied"
)

// ParseStatus validates a client-supplied status value.
func ParseStatus(raw string) (Status, error) {
	switch Status(strings.TrimSpace(raw)) {
	case StatusPending:
		return StatusPending, nil
	case StatusApproved:
		return StatusApproved, nil
	case StatusDenied:
		return StatusDenied, nil
	default:
		return "", fmt.Errorf("unknown status %q", raw)
	}
}

// Terminal reports whether the status triggers a notification email.
func (s Status) Terminal() bool {
	return s == StatusApproved || s == StatusDenied
}

const DefaultComments = "No Comments"

// Appointment is the sole persisted entity. The JSON shape doubles as the
// websocket broadcast payload for new-appointment events.
type Appointment struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	ScheduledAt time.Time `json:"dateTime"`
	Status      Status    `json:"status"`
	Comments    string    `json:"comments"`
	CreatedAt   time.Time `json:"createdAt"`
}
