// Package schedule holds the pure slot-validation and display-grouping
// helpers. Nothing here touches the store or the clock except through
// explicit arguments, so every function is testable with fixed inputs.
package schedule

import (
	"time"

	"github.com/PaddyWebDev/safemax-backend/internal/model"
)

// WeekBounds returns the Monday 00:00:00 start and Sunday 23:59:59.999999999
// end of the week containing now, in now's location.
func WeekBounds(now time.Time) (start, end time.Time) {
	daysSinceMonday := int(now.Weekday()-time.Monday+7) % 7
	year, month, day := now.AddDate(0, 0, -daysSinceMonday).Date()
	start = time.Date(year, month, day, 0, 0, 0, 0, now.Location())
	end = start.AddDate(0, 0, 7).Add(-time.Nanosecond)
	return start, end
}

// CurrentWeekBounds is WeekBounds at the process clock.
func CurrentWeekBounds() (start, end time.Time) {
	return WeekBounds(time.Now())
}

// GroupByDay maps each appointment's calendar date (YYYY-MM-DD) to its
// times of day (HH:MM, 24-hour), preserving input order within each day.
func GroupByDay(appts []model.Appointment) map[string][]string {
	slotsByDay := make(map[string][]string, len(appts))
	for _, appt := range appts {
		dayKey := appt.ScheduledAt.Format("2006-01-02")
		slotsByDay[dayKey] = append(slotsByDay[dayKey], appt.ScheduledAt.Format("15:04"))
	}
	return slotsByDay
}
