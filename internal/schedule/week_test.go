package schedule

import (
	"testing"
	"time"

	"github.com/PaddyWebDev/safemax-backend/internal/model"
)

func TestWeekBounds_MidWeek(t *testing.T) {
	// Friday 2024-11-15.
	now := time.Date(2024, 11, 15, 10, 30, 0, 0, time.UTC)
	start, end := WeekBounds(now)

	wantStart := time.Date(2024, 11, 11, 0, 0, 0, 0, time.UTC)
	if !start.Equal(wantStart) {
		t.Fatalf("expected week start %s, got %s", wantStart, start)
	}
	if start.Weekday() != time.Monday {
		t.Fatalf("expected Monday start, got %s", start.Weekday())
	}
	wantEnd := time.Date(2024, 11, 18, 0, 0, 0, 0, time.UTC).Add(-time.Nanosecond)
	if !end.Equal(wantEnd) {
		t.Fatalf("expected week end %s, got %s", wantEnd, end)
	}
}

func TestWeekBounds_OnMonday(t *testing.T) {
	now := time.Date(2024, 11, 11, 0, 0, 0, 0, time.UTC)
	start, _ := WeekBounds(now)
	if !start.Equal(now) {
		t.Fatalf("Monday midnight should be its own week start, got %s", start)
	}
}

func TestWeekBounds_OnSunday(t *testing.T) {
	// Sunday belongs to the week that started the previous Monday.
	now := time.Date(2024, 11, 17, 23, 0, 0, 0, time.UTC)
	start, end := WeekBounds(now)
	if !start.Equal(time.Date(2024, 11, 11, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected week start %s", start)
	}
	if end.Before(now) {
		t.Fatalf("week end %s should not precede now %s", end, now)
	}
}

func TestCurrentWeekBounds_ContainsNow(t *testing.T) {
	now := time.Now()
	start, end := CurrentWeekBounds()
	if now.Before(start) || now.After(end) {
		t.Fatalf("now %s outside current week [%s, %s]", now, start, end)
	}
}

func TestGroupByDay(t *testing.T) {
	at := func(day, hour, min int) model.Appointment {
		return model.Appointment{
			ScheduledAt: time.Date(2024, 11, day, hour, min, 0, 0, time.UTC),
		}
	}
	appts := []model.Appointment{
		at(11, 9, 0),
		at(11, 14, 30),
		at(12, 10, 0),
		at(15, 16, 45),
	}

	slotsByDay := GroupByDay(appts)

	if len(slotsByDay) != 3 {
		t.Fatalf("expected 3 day keys, got %d", len(slotsByDay))
	}
	total := 0
	for _, times := range slotsByDay {
		total += len(times)
	}
	if total != len(appts) {
		t.Fatalf("expected %d entries across all days, got %d", len(appts), total)
	}

	monday := slotsByDay["2024-11-11"]
	if len(monday) != 2 || monday[0] != "09:00" || monday[1] != "14:30" {
		t.Fatalf("unexpected Monday slots: %v", monday)
	}
	if got := slotsByDay["2024-11-12"]; len(got) != 1 || got[0] != "10:00" {
		t.Fatalf("unexpected Tuesday slots: %v", got)
	}
	if got := slotsByDay["2024-11-15"]; len(got) != 1 || got[0] != "16:45" {
		t.Fatalf("unexpected Friday slots: %v", got)
	}
}

func TestGroupByDay_Empty(t *testing.T) {
	slotsByDay := GroupByDay(nil)
	if len(slotsByDay) != 0 {
		t.Fatalf("expected empty mapping, got %v", slotsByDay)
	}
}
