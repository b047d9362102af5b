// Package notify renders and sends the status notification email for an
// approved or denied appointment.
package notify

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/PaddyWebDev/safemax-backend/internal/metrics"
	"github.com/PaddyWebDev/safemax-backend/internal/model"
)

const subject = "Status of Appointment"

// Sender dispatches a single email. No queuing, no retries, no delivery
// confirmation; a transport failure surfaces as the returned error.
type Sender interface {
	Send(to, subject, htmlBody string) error
}

type StatusNotifier struct {
	sender Sender
	logger *slog.Logger
}

func NewStatusNotifier(sender Sender, logger *slog.Logger) *StatusNotifier {
	return &StatusNotifier{sender: sender, logger: logger}
}

// FormatOccurrence renders the scheduled instant as short locale-style date
// and time strings ("11/15/2024", "10:00 AM").
func FormatOccurrence(t time.Time) (date, clock string) {
	return t.Format("1/2/2006"), t.Format("3:04 PM")
}

// Dispatch sends the email matching the appointment's new status. The status
// change is authoritative regardless of the outcome here; callers log and
// count failures instead of compensating.
func (n *StatusNotifier) Dispatch(ctx context.Context, appt model.Appointment, status model.Status) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	date, clock := FormatOccurrence(appt.ScheduledAt)
	var body string
	switch status {
	case model.StatusApproved:
		body = approvedBody(appt.Name, date, clock)
	case model.StatusDenied:
		body = deniedBody(appt.Name, date, clock)
	default:
		return fmt.Errorf("status %q does not trigger a notification", status)
	}

	if err := n.sender.Send(appt.Email, subject, body); err != nil {
		metrics.NotificationFailures.Inc()
		return fmt.Errorf("send status email: %w", err)
	}
	metrics.NotificationsSent.Inc()
	n.logger.Info("status email sent", "appointment_id", appt.ID, "status", status)
	return nil
}

func approvedBody(name, date, clock string) string {
	return fmt.Sprintf(`<p>Dear %s,</p>
<p>We are pleased to inform you that your appointment on <strong>%s</strong> at <strong>%s</strong> has been <strong>approved</strong>.</p>
<p>If you have any questions or need to reschedule, please don't hesitate to reach out to us.</p>
<p>We look forward to seeing you!</p>
<p>Best regards,<br>Safemax Team</p>`, name, date, clock)
}

func deniedBody(name, date, clock string) string {
	return fmt.Sprintf(`<p>Dear %s,</p>
<p>We regret to inform you that your appointment on <strong>%s</strong> at <strong>%s</strong> has been <strong>denied</strong>.</p>
<p>Unfortunately, due to scheduling conflicts or other reasons, we are unable to accommodate your requested appointment. We truly appreciate your understanding.</p>
<p>If you'd like to reschedule or discuss alternative options, please feel free to contact us, and we'd be happy to assist you.</p>
<p>Thank you for your time and understanding.</p>
<p>Best regards,<br>Safemax Team</p>`, name, date, clock)
}
