package schedule

import (
	"testing"
	"time"
)

func TestDeriveAppointmentStatus(t *testing.T) {
	at := time.Date(2025, 4, 25, 10, 30, 0, 0, time.UTC)

	cases := []struct {
		stored AppointmentStatus
		now    time.Time
		want   AppointmentStatus
	}{
		{stored: AppointmentUpcoming, now: at.Add(-48 * time.Hour), want: AppointmentUpcoming},
		{stored: AppointmentUpcoming, now: at.Add(23 * time.Hour), want: AppointmentUpcoming},
		{stored: AppointmentUpcoming, now: at.Add(24 * time.Hour), want: AppointmentUpcoming},
		{stored: AppointmentUpcoming, now: at.Add(25 * time.Hour), want: AppointmentMissed},
		{stored: AppointmentCompleted, now: at.Add(999 * time.Hour), want: AppointmentCompleted},
		{stored: AppointmentMissed, now: at.Add(-time.Hour), want: AppointmentMissed},
	}

	for _, c := range cases {
		if got := DeriveAppointmentStatus(c.stored, at, c.now); got != c.want {
			t.Fatalf("stored=%s now=%s: expected %s, got %s", c.stored, c.now, c.want, got)
		}
	}
}

type appt struct {
	id     string
	at     time.Time
	status AppointmentStatus
}

func TestPartitionAppointments(t *testing.T) {
	now := time.Date(2025, 4, 20, 12, 0, 0, 0, time.UTC)

	items := []appt{
		{id: "later", at: now.Add(72 * time.Hour), status: AppointmentUpcoming},
		{id: "soon", at: now.Add(2 * time.Hour), status: AppointmentUpcoming},
		{id: "expired", at: now.Add(-30 * time.Hour), status: AppointmentUpcoming},
		{id: "done", at: now.Add(-10 * 24 * time.Hour), status: AppointmentCompleted},
		{id: "yesterday", at: now.Add(-20 * time.Hour), status: AppointmentUpcoming},
		{id: "missed", at: now.Add(-5 * 24 * time.Hour), status: AppointmentMissed},
	}

	upcoming, past := PartitionAppointments(items,
		func(a appt) AppointmentStatus { return a.status },
		func(a appt) time.Time { return a.at },
		now,
	)

	wantIDs(t, "upcoming", upcoming, "yesterday", "soon", "later")
	wantIDs(t, "past", past, "expired", "missed", "done")

	if items[0].id != "later" {
		t.Fatalf("input slice must not be reordered")
	}
}

func wantIDs(t *testing.T, label string, got []appt, ids ...string) {
	t.Helper()

	if len(got) != len(ids) {
		t.Fatalf("%s: expected %d items, got %d", label, len(ids), len(got))
	}
	for i, id := range ids {
		if got[i].id != id {
			t.Fatalf("%s[%d]: expected %s, got %s", label, i, id, got[i].id)
		}
	}
}

func TestDeriveDoseStatus(t *testing.T) {
	slot := 8 * 60
	window := 30 * time.Minute

	cases := []struct {
		now   int
		taken bool
		want  DoseStatus
	}{
		{now: 6 * 60, want: DoseUpcoming},
		{now: slot - 31, want: DoseUpcoming},
		{now: slot - 30, want: DoseNow},
		{now: slot, want: DoseNow},
		{now: slot + 30, want: DoseNow},
		{now: slot + 31, want: DoseMissed},
		{now: slot + 31, taken: true, want: DoseTaken},
		{now: 6 * 60, taken: true, want: DoseTaken},
	}

	for _, c := range cases {
		if got := DeriveDoseStatus(slot, c.taken, c.now, window); got != c.want {
			t.Fatalf("now=%d taken=%v: expected %s, got %s", c.now, c.taken, c.want, got)
		}
	}
}
