package dashboard

import (
	"context"
	"time"

	"eldercare-reminders/internal/domain/appointments"
	"eldercare-reminders/internal/domain/medications"
	"eldercare-reminders/internal/domain/schedule"
)

const (
	UpcomingWindow = 14 * 24 * time.Hour
	AdherenceDays  = 30
)

type MedicationSource interface {
	DueOn(ctx context.Context, day time.Time) ([]medications.Dose, error)
	Adherence(ctx context.Context, days int) (medications.Adherence, error)
	Today() time.Time
}

type AppointmentSource interface {
	UpcomingWithin(ctx context.Context, d time.Duration) ([]appointments.Appointment, error)
}

type Summary struct {
	Date time.Time

	// dosis de hoy todavía sin tomar (incluye las perdidas)
	PendingDoses []medications.Dose

	UpcomingAppointments []appointments.Appointment
	NextAppointment      *appointments.Appointment

	Adherence medications.Adherence
}

type Service struct {
	meds  MedicationSource
	appts AppointmentSource
}

func NewService(meds MedicationSource, appts AppointmentSource) *Service {
	return &Service{meds: meds, appts: appts}
}

func (s *Service) Summary(ctx context.Context) (Summary, error) {
	today := s.meds.Today()

	doses, err := s.meds.DueOn(ctx, today)
	if err != nil {
		return Summary{}, err
	}
	pending := make([]medications.Dose, 0, len(doses))
	for _, d := range doses {
		if d.Status != schedule.DoseTaken {
			pending = append(pending, d)
		}
	}

	upcoming, err := s.appts.UpcomingWithin(ctx, UpcomingWindow)
	if err != nil {
		return Summary{}, err
	}

	adherence, err := s.meds.Adherence(ctx, AdherenceDays)
	if err != nil {
		return Summary{}, err
	}

	out := Summary{
		Date:                 today,
		PendingDoses:         pending,
		UpcomingAppointments: upcoming,
		Adherence:            adherence,
	}
	if len(upcoming) > 0 {
		next := upcoming[0]
		out.NextAppointment = &next
	}
	return out, nil
}
