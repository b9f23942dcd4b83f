package schedule

import (
	"testing"
	"time"
)

func TestIsDue_DailyAlwaysTrue(t *testing.T) {
	start := time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)
	for i := 0; i < 400; i++ {
		on := start.AddDate(0, 0, i)
		if !IsDue(FrequencyDaily, time.Time{}, on) {
			t.Fatalf("daily should be due on %s", on.Format("2006-01-02"))
		}
	}
}

func TestIsDue_EveryOtherDayParity(t *testing.T) {
	today := time.Date(2025, 4, 10, 15, 30, 0, 0, time.UTC)

	cases := []struct {
		offset int
		due    bool
	}{
		{offset: 0, due: true},
		{offset: 1, due: false},
		{offset: 2, due: true},
		{offset: 3, due: false},
		{offset: 30, due: true},
		{offset: -1, due: false},
		{offset: -2, due: true},
	}

	for _, c := range cases {
		on := today.AddDate(0, 0, c.offset)
		if got := IsDue(FrequencyEveryOtherDay, today, on); got != c.due {
			t.Fatalf("offset %d: expected due=%v, got %v", c.offset, c.due, got)
		}
	}
}

func TestIsDue_EveryOtherDayIgnoresTimeOfDay(t *testing.T) {
	anchor := time.Date(2025, 4, 10, 23, 59, 0, 0, time.UTC)
	on := time.Date(2025, 4, 12, 0, 1, 0, 0, time.UTC)
	if !IsDue(FrequencyEveryOtherDay, anchor, on) {
		t.Fatalf("expected due two calendar days later regardless of hour")
	}
}

func TestIsDue_EveryOtherDayAcrossDST(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skipf("tzdata not available: %v", err)
	}
	// 2025-03-09 es cambio de horario en New York
	anchor := time.Date(2025, 3, 8, 8, 0, 0, 0, loc)
	on := time.Date(2025, 3, 10, 8, 0, 0, 0, loc)
	if !IsDue(FrequencyEveryOtherDay, anchor, on) {
		t.Fatalf("expected due two calendar days later across DST")
	}
}

func TestIsDue_WeeklyDefaultsToSunday(t *testing.T) {
	// 2025-04-13 es domingo
	nextSunday := time.Date(2025, 4, 13, 8, 0, 0, 0, time.UTC)
	nextMonday := nextSunday.AddDate(0, 0, 1)

	if !IsDue(FrequencyWeekly, time.Time{}, nextSunday) {
		t.Fatalf("weekly with default anchor should be due on sunday")
	}
	if IsDue(FrequencyWeekly, time.Time{}, nextMonday) {
		t.Fatalf("weekly with default anchor should not be due on monday")
	}
}

func TestIsDue_WeeklyUsesAnchorWeekday(t *testing.T) {
	// 2025-04-16 es miércoles
	anchor := time.Date(2025, 4, 16, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 21; i++ {
		on := anchor.AddDate(0, 0, i)
		want := on.Weekday() == time.Wednesday
		if got := IsDue(FrequencyWeekly, anchor, on); got != want {
			t.Fatalf("%s: expected due=%v, got %v", on.Format("Mon 2006-01-02"), want, got)
		}
	}
}

func TestIsDue_UnknownFrequencyNeverDue(t *testing.T) {
	on := time.Date(2025, 4, 13, 8, 0, 0, 0, time.UTC)
	for _, f := range []Frequency{"", "Monthly", "daily"} {
		if IsDue(f, on, on) {
			t.Fatalf("frequency %q should never be due", f)
		}
	}
}

func TestDaysBetween(t *testing.T) {
	a := time.Date(2025, 12, 31, 22, 0, 0, 0, time.UTC)
	b := time.Date(2026, 1, 2, 1, 0, 0, 0, time.UTC)
	if d := DaysBetween(a, b); d != 2 {
		t.Fatalf("expected 2, got %d", d)
	}
	if d := DaysBetween(b, a); d != -2 {
		t.Fatalf("expected -2, got %d", d)
	}
}

func TestDaysBetween_FarApartDates(t *testing.T) {
	from := time.Date(1700, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	if d := DaysBetween(from, to); d != 118704 {
		t.Fatalf("expected 118704, got %d", d)
	}
	if d := DaysBetween(to, from); d != -118704 {
		t.Fatalf("expected -118704, got %d", d)
	}

	// con un ancla tan vieja la paridad tiene que seguir alternando
	due := 0
	for i := 0; i < 4; i++ {
		if IsDue(FrequencyEveryOtherDay, from, to.AddDate(0, 0, i)) {
			due++
		}
	}
	if due != 2 {
		t.Fatalf("expected 2 due days out of 4, got %d", due)
	}
}
