package reminders

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"eldercare-reminders/internal/domain/appointments"
	"eldercare-reminders/internal/domain/medications"
	"eldercare-reminders/internal/domain/schedule"
	"eldercare-reminders/internal/domain/settings"
	"eldercare-reminders/internal/platform/logger"
	"eldercare-reminders/internal/ports/kv"
	"eldercare-reminders/internal/ports/notify"
)

const DefaultCronSpec = "* * * * *"

// CatchUp es cuánto después del horario se sigue intentando un aviso no enviado
// (notifier caído, tick salteado).
const CatchUp = 5 * time.Minute

var ErrAlreadyStarted = errors.New("reminders already started")

type MedicationSource interface {
	DueOn(ctx context.Context, day time.Time) ([]medications.Dose, error)
}

type AppointmentSource interface {
	List(ctx context.Context) (appointments.Listing, error)
}

type PreferencesSource interface {
	Get(ctx context.Context) (settings.Preferences, error)
}

type Options struct {
	Medications  MedicationSource
	Appointments AppointmentSource
	Preferences  PreferencesSource
	Store        kv.Store
	Notifier     notify.Notifier
	Logger       logger.Logger

	// Offset: cuánto antes de la cita se avisa.
	Offset   time.Duration
	Location *time.Location
}

type Service struct {
	meds   MedicationSource
	appts  AppointmentSource
	prefs  PreferencesSource
	store  kv.Store
	out    notify.Notifier
	log    logger.Logger
	offset time.Duration
	loc    *time.Location
	now    func() time.Time

	mu sync.Mutex
	c  *cron.Cron
}

func NewService(opts Options) *Service {
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}
	loc := opts.Location
	if loc == nil {
		loc = time.Local
	}
	offset := opts.Offset
	if offset < 0 {
		offset = 0
	}
	return &Service{
		meds:   opts.Medications,
		appts:  opts.Appointments,
		prefs:  opts.Preferences,
		store:  opts.Store,
		out:    opts.Notifier,
		log:    log,
		offset: offset,
		loc:    loc,
		now:    time.Now,
	}
}

func (s *Service) SetClock(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

// SentKey identifica un aviso ya enviado: reminder:sent:<kind>:<id>:<fecha>.
func SentKey(kind notify.Kind, id string, day time.Time) string {
	return fmt.Sprintf("reminder:sent:%s:%s:%s", kind, id, day.Format("2006-01-02"))
}

// Tick calcula y envía los avisos pendientes dentro de CatchUp. Devuelve cuántos se enviaron.
func (s *Service) Tick(ctx context.Context) (int, error) {
	now := s.now().In(s.loc)

	prefs, err := s.prefs.Get(ctx)
	if err != nil {
		return 0, err
	}

	sent := 0
	var errs []error

	if prefs.MedicationReminders {
		n, err := s.medicationReminders(ctx, now)
		sent += n
		if err != nil {
			errs = append(errs, err)
		}
	}
	if prefs.AppointmentReminders {
		n, err := s.appointmentReminders(ctx, now)
		sent += n
		if err != nil {
			errs = append(errs, err)
		}
	}
	return sent, errors.Join(errs...)
}

func (s *Service) medicationReminders(ctx context.Context, now time.Time) (int, error) {
	today := schedule.StartOfDay(now)
	minute := schedule.MinuteOfDay(now)

	doses, err := s.meds.DueOn(ctx, today)
	if err != nil {
		return 0, fmt.Errorf("reminders: due medications: %w", err)
	}

	sent := 0
	for _, d := range doses {
		if d.Status == schedule.DoseTaken {
			continue
		}
		if lag := time.Duration(minute-d.Minutes) * time.Minute; lag < 0 || lag >= CatchUp {
			continue
		}
		r := notify.Reminder{
			Kind:  notify.KindMedication,
			RefID: d.Medication.ID,
			Title: "Time for " + d.Medication.Name,
			Body:  d.Medication.Dosage() + " at " + d.Medication.TimeLabel,
			At:    now,
		}
		ok, err := s.sendOnce(ctx, r, today)
		if err != nil {
			return sent, err
		}
		if ok {
			sent++
		}
	}
	return sent, nil
}

func (s *Service) appointmentReminders(ctx context.Context, now time.Time) (int, error) {
	listing, err := s.appts.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("reminders: appointments: %w", err)
	}

	current := now.Truncate(time.Minute)
	sent := 0
	for _, a := range listing.Upcoming {
		lag := current.Sub(a.At.Add(-s.offset).Truncate(time.Minute))
		if lag < 0 || lag >= CatchUp {
			continue
		}
		label, _ := schedule.FormatMinutes(schedule.MinuteOfDay(a.At.In(s.loc)))
		r := notify.Reminder{
			Kind:  notify.KindAppointment,
			RefID: a.ID,
			Title: "Appointment with " + a.Doctor,
			Body:  fmt.Sprintf("%s at %s %s", a.Specialty, label, a.Clinic),
			At:    now,
		}
		ok, err := s.sendOnce(ctx, r, a.At.In(s.loc))
		if err != nil {
			return sent, err
		}
		if ok {
			sent++
		}
	}
	return sent, nil
}

// sendOnce solo marca como enviado si el notifier no falló.
func (s *Service) sendOnce(ctx context.Context, r notify.Reminder, day time.Time) (bool, error) {
	key := SentKey(r.Kind, r.RefID, day)

	_, already, err := s.store.Get(ctx, key)
	if err != nil {
		return false, fmt.Errorf("reminders: dedup get: %w", err)
	}
	if already {
		return false, nil
	}

	if err := s.out.Notify(ctx, r); err != nil {
		s.log.Warn("notify failed", map[string]any{"kind": r.Kind, "id": r.RefID, "err": err})
		return false, nil
	}
	if err := s.store.Set(ctx, key, r.At.Format(time.RFC3339)); err != nil {
		return true, fmt.Errorf("reminders: dedup set: %w", err)
	}
	s.log.Info("reminder sent", map[string]any{"kind": r.Kind, "id": r.RefID})
	return true, nil
}

// Start registra el tick en cron (formato de 5 campos o descriptores tipo @every 30s).
func (s *Service) Start(ctx context.Context, spec string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.c != nil {
		return ErrAlreadyStarted
	}
	if spec == "" {
		spec = DefaultCronSpec
	}

	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
	c := cron.New(
		cron.WithParser(parser),
		cron.WithLocation(s.loc),
		cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)),
	)
	if _, err := c.AddFunc(spec, func() {
		n, err := s.Tick(ctx)
		if err != nil {
			s.log.Error("reminder tick failed", map[string]any{"err": err})
			return
		}
		if n > 0 {
			s.log.Debug("reminder tick", map[string]any{"sent": n})
		}
	}); err != nil {
		return fmt.Errorf("reminders: invalid cron spec %q: %w", spec, err)
	}

	c.Start()
	s.c = c
	s.log.Info("reminders started", map[string]any{"cron": spec, "tz": s.loc.String()})
	return nil
}

// Stop espera a que termine el tick en curso.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.c == nil {
		return
	}
	<-s.c.Stop().Done()
	s.c = nil
	s.log.Info("reminders stopped", nil)
}
