package medications

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"eldercare-reminders/internal/domain/schedule"
	"eldercare-reminders/internal/platform/logger"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("medication not found")
	ErrBadState     = errors.New("invalid state")
)

const DefaultDoseWindow = 30 * time.Minute

type Service struct {
	repo    Repository
	intakes IntakeRepository
	window  time.Duration
	now     func() time.Time
	log     logger.Logger
}

func NewService(repo Repository, intakes IntakeRepository, window time.Duration) *Service {
	if window <= 0 {
		window = DefaultDoseWindow
	}
	return &Service{
		repo:    repo,
		intakes: intakes,
		window:  window,
		now:     time.Now,
		log:     logger.Nop(),
	}
}

func (s *Service) SetLogger(log logger.Logger) {
	if log != nil {
		s.log = log
	}
}

// SetClock reemplaza el reloj; now debe devolver la hora local del usuario.
func (s *Service) SetClock(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

func (s *Service) Today() time.Time {
	return schedule.StartOfDay(s.now())
}

type CreateInput struct {
	Name         string
	DosageAmount string
	DosageUnit   DosageUnit
	Time         string
	Frequency    schedule.Frequency
	StartDate    *time.Time
	EndDate      *time.Time
	Notes        string
}

func (s *Service) Create(ctx context.Context, in CreateInput) (Medication, error) {
	now := s.now()

	m := Medication{
		ID:           uuid.NewString(),
		Name:         strings.TrimSpace(in.Name),
		DosageAmount: strings.TrimSpace(in.DosageAmount),
		DosageUnit:   in.DosageUnit,
		TimeLabel:    strings.TrimSpace(in.Time),
		Frequency:    in.Frequency,
		StartDate:    schedule.StartOfDay(now),
		Notes:        strings.TrimSpace(in.Notes),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if in.StartDate != nil {
		m.StartDate = schedule.StartOfDay(*in.StartDate)
	}
	if in.EndDate != nil {
		end := schedule.StartOfDay(*in.EndDate)
		m.EndDate = &end
	}

	if err := normalize(&m); err != nil {
		return Medication{}, err
	}
	if err := s.repo.Create(ctx, m); err != nil {
		return Medication{}, err
	}
	return m, nil
}

// UpdateInput es un patch: los campos nil no se tocan.
type UpdateInput struct {
	Name         *string
	DosageAmount *string
	DosageUnit   *DosageUnit
	Time         *string
	Frequency    *schedule.Frequency
	StartDate    *time.Time
	EndDate      *time.Time
	ClearEndDate bool
	Notes        *string
}

func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (Medication, error) {
	m, err := s.GetByID(ctx, id)
	if err != nil {
		return Medication{}, err
	}

	if in.Name != nil {
		m.Name = strings.TrimSpace(*in.Name)
	}
	if in.DosageAmount != nil {
		m.DosageAmount = strings.TrimSpace(*in.DosageAmount)
	}
	if in.DosageUnit != nil {
		m.DosageUnit = *in.DosageUnit
	}
	if in.Time != nil {
		m.TimeLabel = strings.TrimSpace(*in.Time)
	}
	if in.Frequency != nil {
		m.Frequency = *in.Frequency
	}
	if in.StartDate != nil {
		m.StartDate = schedule.StartOfDay(*in.StartDate)
	}
	if in.ClearEndDate {
		m.EndDate = nil
	} else if in.EndDate != nil {
		end := schedule.StartOfDay(*in.EndDate)
		m.EndDate = &end
	}
	if in.Notes != nil {
		m.Notes = strings.TrimSpace(*in.Notes)
	}

	if err := normalize(&m); err != nil {
		return Medication{}, err
	}
	m.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, m); err != nil {
		return Medication{}, err
	}
	return m, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Medication, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Medication{}, ErrInvalidInput
	}
	m, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Medication{}, err
	}
	if m.Deleted {
		return Medication{}, ErrNotFound
	}
	return m, nil
}

// List devuelve las medicaciones no borradas ordenadas por horario.
// Un registro con horario ilegible se omite (y se loguea) para no vaciar la agenda entera.
func (s *Service) List(ctx context.Context) ([]Medication, error) {
	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]Medication, 0, len(all))
	for _, m := range all {
		if m.Deleted {
			continue
		}
		if m.Minutes() < 0 {
			s.log.Warn("skipping medication with invalid time", map[string]any{"id": m.ID, "time": m.TimeLabel})
			continue
		}
		out = append(out, m)
	}
	if err := schedule.SortByTime(out, func(m Medication) string { return m.TimeLabel }); err != nil {
		return nil, err
	}
	return out, nil
}

// Delete es soft delete; el historial de tomas se conserva.
func (s *Service) Delete(ctx context.Context, id string) error {
	m, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	m.Deleted = true
	m.UpdatedAt = s.now()
	return s.repo.Update(ctx, m)
}

// MarkTaken registra la toma de hoy. Es idempotente.
func (s *Service) MarkTaken(ctx context.Context, id string) (Dose, error) {
	m, err := s.GetByID(ctx, id)
	if err != nil {
		return Dose{}, err
	}
	today := s.Today()
	if !m.DueOn(today, today) {
		return Dose{}, fmt.Errorf("%w: %s is not due today", ErrBadState, m.Name)
	}
	if err := s.intakes.Record(ctx, m.ID, today); err != nil {
		return Dose{}, err
	}
	return s.doseFor(m, today, true)
}

// UndoTaken borra la toma de hoy, si existía.
func (s *Service) UndoTaken(ctx context.Context, id string) (Dose, error) {
	m, err := s.GetByID(ctx, id)
	if err != nil {
		return Dose{}, err
	}
	today := s.Today()
	if err := s.intakes.Remove(ctx, m.ID, today); err != nil {
		return Dose{}, err
	}
	return s.doseFor(m, today, false)
}

// DueOn devuelve las dosis de day ordenadas por horario, con su estado.
func (s *Service) DueOn(ctx context.Context, day time.Time) ([]Dose, error) {
	day = schedule.StartOfDay(day)
	today := s.Today()

	meds, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	taken, err := s.intakes.TakenOn(ctx, day)
	if err != nil {
		return nil, err
	}

	out := make([]Dose, 0, len(meds))
	for _, m := range meds {
		if !m.DueOn(day, today) {
			continue
		}
		d, err := s.doseFor(m, day, taken[m.ID])
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}

func (s *Service) Agenda(ctx context.Context, view View) (Agenda, error) {
	today := s.Today()

	var (
		doses []Dose
		date  time.Time
		err   error
	)
	switch view {
	case ViewToday:
		date = today
		doses, err = s.DueOn(ctx, today)
	case ViewTomorrow:
		date = today.AddDate(0, 0, 1)
		doses, err = s.DueOn(ctx, date)
	case ViewUpcoming:
		date = today
		doses, err = s.allActive(ctx, today)
	default:
		return Agenda{}, fmt.Errorf("%w: unknown view %q", ErrInvalidInput, view)
	}
	if err != nil {
		return Agenda{}, err
	}

	sections, err := schedule.GroupByBucket(doses, func(d Dose) int { return d.Minutes })
	if err != nil {
		return Agenda{}, err
	}
	return Agenda{View: view, Date: date, Sections: sections}, nil
}

// Adherence cuenta tomas de los últimos days días (hoy incluido, solo dosis ya pasadas).
func (s *Service) Adherence(ctx context.Context, days int) (Adherence, error) {
	if days <= 0 {
		return Adherence{}, ErrInvalidInput
	}
	now := s.now()
	today := schedule.StartOfDay(now)
	nowMin := schedule.MinuteOfDay(now)

	meds, err := s.List(ctx)
	if err != nil {
		return Adherence{}, err
	}

	out := Adherence{Days: days}
	for i := days - 1; i >= 0; i-- {
		day := today.AddDate(0, 0, -i)
		taken, err := s.intakes.TakenOn(ctx, day)
		if err != nil {
			return Adherence{}, err
		}
		for _, m := range meds {
			if !m.DueOn(day, today) {
				continue
			}
			if i == 0 && m.Minutes() > nowMin && !taken[m.ID] {
				continue
			}
			out.Due++
			if taken[m.ID] {
				out.Taken++
			}
		}
	}

	// sin dosis debidas no hay nada incumplido
	out.Percent = 100
	if out.Due > 0 {
		out.Percent = out.Taken * 100 / out.Due
	}
	return out, nil
}

func (s *Service) allActive(ctx context.Context, today time.Time) ([]Dose, error) {
	meds, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]Dose, 0, len(meds))
	for _, m := range meds {
		// incluye las que arrancan más adelante; excluye las ya terminadas
		if m.EndDate != nil && schedule.DaysBetween(*m.EndDate, today) > 0 {
			continue
		}
		mins := m.Minutes()
		b, err := schedule.BucketOf(mins)
		if err != nil {
			return nil, err
		}
		out = append(out, Dose{
			Medication: m,
			Date:       today,
			Minutes:    mins,
			Bucket:     b,
			Status:     schedule.DoseUpcoming,
		})
	}
	return out, nil
}

func (s *Service) doseFor(m Medication, day time.Time, taken bool) (Dose, error) {
	mins := m.Minutes()
	b, err := schedule.BucketOf(mins)
	if err != nil {
		return Dose{}, err
	}

	d := Dose{Medication: m, Date: day, Minutes: mins, Bucket: b}

	switch diff := schedule.DaysBetween(s.Today(), day); {
	case diff == 0:
		d.Status = schedule.DeriveDoseStatus(mins, taken, schedule.MinuteOfDay(s.now()), s.window)
	case taken:
		d.Status = schedule.DoseTaken
	case diff < 0:
		d.Status = schedule.DoseMissed
	default:
		d.Status = schedule.DoseUpcoming
	}
	return d, nil
}

func normalize(m *Medication) error {
	if m.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if len(m.Name) > 100 {
		return fmt.Errorf("%w: name too long", ErrInvalidInput)
	}
	if !m.DosageUnit.Valid() {
		return fmt.Errorf("%w: unknown dosage unit %q", ErrInvalidInput, m.DosageUnit)
	}
	if !m.Frequency.Valid() {
		return fmt.Errorf("%w: unknown frequency %q", ErrInvalidInput, m.Frequency)
	}
	label, err := schedule.NormalizeTimeLabel(m.TimeLabel)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	m.TimeLabel = label
	if m.EndDate != nil && !m.StartDate.IsZero() && schedule.DaysBetween(m.StartDate, *m.EndDate) < 0 {
		return fmt.Errorf("%w: end_date before start_date", ErrInvalidInput)
	}
	return nil
}
