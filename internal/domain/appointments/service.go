package appointments

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"eldercare-reminders/internal/domain/schedule"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("appointment not found")
	ErrBadState     = errors.New("invalid state")
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
	}
}

func (s *Service) SetClock(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

// Now expone el reloj del service (lo usan handlers para interpretar fechas locales).
func (s *Service) Now() time.Time {
	return s.now()
}

type BookInput struct {
	Doctor    string
	Specialty Specialty
	At        time.Time
	Clinic    string
	Insurance string
}

func (s *Service) Book(ctx context.Context, in BookInput) (Appointment, error) {
	now := s.now()

	a := Appointment{
		ID:        uuid.NewString(),
		Doctor:    strings.TrimSpace(in.Doctor),
		Specialty: in.Specialty,
		At:        in.At,
		Clinic:    strings.TrimSpace(in.Clinic),
		Insurance: strings.TrimSpace(in.Insurance),
		Status:    schedule.AppointmentUpcoming,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := validate(a); err != nil {
		return Appointment{}, err
	}

	if err := s.repo.Create(ctx, a); err != nil {
		return Appointment{}, err
	}
	return s.project(a), nil
}

// UpdateInput es un patch: los campos nil no se tocan. El estado no se edita por acá.
type UpdateInput struct {
	Doctor    *string
	Specialty *Specialty
	At        *time.Time
	Clinic    *string
	Insurance *string
}

func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (Appointment, error) {
	a, err := s.get(ctx, id)
	if err != nil {
		return Appointment{}, err
	}

	if in.Doctor != nil {
		a.Doctor = strings.TrimSpace(*in.Doctor)
	}
	if in.Specialty != nil {
		a.Specialty = *in.Specialty
	}
	if in.At != nil {
		a.At = *in.At
	}
	if in.Clinic != nil {
		a.Clinic = strings.TrimSpace(*in.Clinic)
	}
	if in.Insurance != nil {
		a.Insurance = strings.TrimSpace(*in.Insurance)
	}
	if err := validate(a); err != nil {
		return Appointment{}, err
	}
	a.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, a); err != nil {
		return Appointment{}, err
	}
	return s.project(a), nil
}

// GetByID devuelve la cita con el estado efectivo ya aplicado.
func (s *Service) GetByID(ctx context.Context, id string) (Appointment, error) {
	a, err := s.get(ctx, id)
	if err != nil {
		return Appointment{}, err
	}
	return s.project(a), nil
}

func (s *Service) List(ctx context.Context) (Listing, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return Listing{}, err
	}
	now := s.now()

	upcoming, past := schedule.PartitionAppointments(items,
		func(a Appointment) schedule.AppointmentStatus { return a.Status },
		func(a Appointment) time.Time { return a.At },
		now,
	)
	for i := range upcoming {
		upcoming[i].Status = upcoming[i].EffectiveStatus(now)
	}
	for i := range past {
		past[i].Status = past[i].EffectiveStatus(now)
	}
	return Listing{Upcoming: upcoming, Past: past}, nil
}

// Complete acepta citas próximas o perdidas (el usuario confirma que fue).
func (s *Service) Complete(ctx context.Context, id string) (Appointment, error) {
	a, err := s.get(ctx, id)
	if err != nil {
		return Appointment{}, err
	}
	if a.Status == schedule.AppointmentCompleted {
		return Appointment{}, fmt.Errorf("%w: appointment already completed", ErrBadState)
	}
	return s.setStatus(ctx, a, schedule.AppointmentCompleted)
}

// MarkMissed solo desde estado efectivo Upcoming.
func (s *Service) MarkMissed(ctx context.Context, id string) (Appointment, error) {
	a, err := s.get(ctx, id)
	if err != nil {
		return Appointment{}, err
	}
	if st := a.EffectiveStatus(s.now()); st != schedule.AppointmentUpcoming {
		return Appointment{}, fmt.Errorf("%w: appointment is %s", ErrBadState, st)
	}
	return s.setStatus(ctx, a, schedule.AppointmentMissed)
}

// Delete borra definitivamente; no se permite mientras la cita siga próxima.
func (s *Service) Delete(ctx context.Context, id string) error {
	a, err := s.get(ctx, id)
	if err != nil {
		return err
	}
	if a.EffectiveStatus(s.now()) == schedule.AppointmentUpcoming {
		return fmt.Errorf("%w: upcoming appointments cannot be deleted", ErrBadState)
	}
	return s.repo.Delete(ctx, a.ID)
}

// UpcomingWithin devuelve las citas con estado efectivo Upcoming cuya fecha no supera now+d.
func (s *Service) UpcomingWithin(ctx context.Context, d time.Duration) ([]Appointment, error) {
	if d <= 0 {
		return nil, ErrInvalidInput
	}
	listing, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	limit := s.now().Add(d)

	out := make([]Appointment, 0, len(listing.Upcoming))
	for _, a := range listing.Upcoming {
		if a.At.After(limit) {
			break
		}
		out = append(out, a)
	}
	return out, nil
}

func (s *Service) get(ctx context.Context, id string) (Appointment, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Appointment{}, ErrInvalidInput
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) setStatus(ctx context.Context, a Appointment, st schedule.AppointmentStatus) (Appointment, error) {
	a.Status = st
	a.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, a); err != nil {
		return Appointment{}, err
	}
	return a, nil
}

func (s *Service) project(a Appointment) Appointment {
	a.Status = a.EffectiveStatus(s.now())
	return a
}

func validate(a Appointment) error {
	if a.Doctor == "" {
		return fmt.Errorf("%w: doctor is required", ErrInvalidInput)
	}
	if !a.Specialty.Valid() {
		return fmt.Errorf("%w: unknown specialty %q", ErrInvalidInput, a.Specialty)
	}
	if a.At.IsZero() {
		return fmt.Errorf("%w: date_time is required", ErrInvalidInput)
	}
	return nil
}
