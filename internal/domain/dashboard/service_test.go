package dashboard

import (
	"context"
	"testing"
	"time"

	"eldercare-reminders/internal/adapters/storage/memory"
	"eldercare-reminders/internal/domain/appointments"
	"eldercare-reminders/internal/domain/medications"
	"eldercare-reminders/internal/domain/schedule"
)

var fixedNow = time.Date(2024, 3, 14, 13, 0, 0, 0, time.UTC)

func TestSummary(t *testing.T) {
	ctx := context.Background()
	clock := func() time.Time { return fixedNow }

	store := memory.NewKVStore()
	meds := medications.NewService(memory.NewMedicationRepo(), medications.NewIntakeLog(store), 30*time.Minute)
	meds.SetClock(clock)
	appts := appointments.NewService(memory.NewAppointmentRepo())
	appts.SetClock(clock)

	morning, _ := meds.Create(ctx, medications.CreateInput{
		Name: "Lisinopril", DosageUnit: medications.UnitOneTablet, Time: "8:00 AM", Frequency: schedule.FrequencyDaily,
	})
	_, _ = meds.Create(ctx, medications.CreateInput{
		Name: "Aspirin", DosageUnit: medications.UnitOneTablet, Time: "8:00 PM", Frequency: schedule.FrequencyDaily,
	})
	if _, err := meds.MarkTaken(ctx, morning.ID); err != nil {
		t.Fatalf("mark taken: %v", err)
	}

	for _, d := range []time.Duration{48 * time.Hour, 10 * 24 * time.Hour, 20 * 24 * time.Hour} {
		if _, err := appts.Book(ctx, appointments.BookInput{
			Doctor: "Dr. Smith", Specialty: appointments.SpecialtyNeurologist, At: fixedNow.Add(d),
		}); err != nil {
			t.Fatalf("book: %v", err)
		}
	}

	s, err := NewService(meds, appts).Summary(ctx)
	if err != nil {
		t.Fatalf("summary: %v", err)
	}

	if len(s.PendingDoses) != 1 || s.PendingDoses[0].Medication.Name != "Aspirin" {
		t.Fatalf("unexpected pending doses: %+v", s.PendingDoses)
	}
	if len(s.UpcomingAppointments) != 2 {
		t.Fatalf("expected 2 appointments in 14 days, got %d", len(s.UpcomingAppointments))
	}
	if s.NextAppointment == nil || !s.NextAppointment.At.Equal(fixedNow.Add(48*time.Hour)) {
		t.Fatalf("unexpected next appointment: %+v", s.NextAppointment)
	}
	// solo cuenta la dosis de las 8 AM (la de la noche todavía no venció)
	if s.Adherence.Due != 1 || s.Adherence.Taken != 1 || s.Adherence.Percent != 100 {
		t.Fatalf("unexpected adherence: %+v", s.Adherence)
	}
}
