package reminders

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"eldercare-reminders/internal/adapters/storage/memory"
	"eldercare-reminders/internal/domain/appointments"
	"eldercare-reminders/internal/domain/medications"
	"eldercare-reminders/internal/domain/schedule"
	"eldercare-reminders/internal/domain/settings"
	"eldercare-reminders/internal/platform/logger"
	"eldercare-reminders/internal/ports/notify"
)

type recordingNotifier struct {
	mu   sync.Mutex
	got  []notify.Reminder
	fail bool
}

func (n *recordingNotifier) Notify(ctx context.Context, r notify.Reminder) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.fail {
		return errors.New("notifier down")
	}
	n.got = append(n.got, r)
	return nil
}

type fixture struct {
	svc    *Service
	meds   *medications.Service
	appts  *appointments.Service
	prefs  *settings.Service
	out    *recordingNotifier
	setNow func(time.Time)
}

func newFixture(t *testing.T, start time.Time) *fixture {
	t.Helper()

	now := start
	clock := func() time.Time { return now }

	store := memory.NewKVStore()
	meds := medications.NewService(memory.NewMedicationRepo(), medications.NewIntakeLog(store), 30*time.Minute)
	meds.SetClock(clock)
	appts := appointments.NewService(memory.NewAppointmentRepo())
	appts.SetClock(clock)
	prefs := settings.NewService(store)
	out := &recordingNotifier{}

	svc := NewService(Options{
		Medications:  meds,
		Appointments: appts,
		Preferences:  prefs,
		Store:        store,
		Notifier:     out,
		Offset:       time.Hour,
		Location:     time.UTC,
	})
	svc.SetClock(clock)

	return &fixture{
		svc: svc, meds: meds, appts: appts, prefs: prefs, out: out,
		setNow: func(t time.Time) { now = t },
	}
}

var day = time.Date(2024, 3, 14, 0, 0, 0, 0, time.UTC)

func at(h, m int) time.Time { return day.Add(time.Duration(h)*time.Hour + time.Duration(m)*time.Minute) }

func TestTick_MedicationAtSlotMinuteOnce(t *testing.T) {
	f := newFixture(t, at(7, 59))
	ctx := context.Background()

	if _, err := f.meds.Create(ctx, medications.CreateInput{
		Name: "Lisinopril", DosageAmount: "10mg", DosageUnit: medications.UnitOneTablet,
		Time: "8:00 AM", Frequency: schedule.FrequencyDaily,
	}); err != nil {
		t.Fatalf("create: %v", err)
	}

	if n, _ := f.svc.Tick(ctx); n != 0 {
		t.Fatalf("expected nothing before slot, got %d", n)
	}

	f.setNow(at(8, 0).Add(20 * time.Second))
	if n, err := f.svc.Tick(ctx); err != nil || n != 1 {
		t.Fatalf("expected 1 reminder at slot, got %d (%v)", n, err)
	}
	// segundo tick en el mismo minuto no duplica
	if n, _ := f.svc.Tick(ctx); n != 0 {
		t.Fatalf("expected dedup, got %d", n)
	}

	if len(f.out.got) != 1 || f.out.got[0].Kind != notify.KindMedication {
		t.Fatalf("unexpected notifications: %+v", f.out.got)
	}
	if f.out.got[0].Body != "10mg - 1 tablet at 8:00 AM" {
		t.Fatalf("unexpected body %q", f.out.got[0].Body)
	}
}

func TestTick_SkipsTakenMedication(t *testing.T) {
	f := newFixture(t, at(7, 50))
	ctx := context.Background()

	m, _ := f.meds.Create(ctx, medications.CreateInput{
		Name: "Metformin", DosageUnit: medications.UnitOneTablet,
		Time: "8:00 AM", Frequency: schedule.FrequencyDaily,
	})
	if _, err := f.meds.MarkTaken(ctx, m.ID); err != nil {
		t.Fatalf("mark taken: %v", err)
	}

	f.setNow(at(8, 0))
	if n, _ := f.svc.Tick(ctx); n != 0 {
		t.Fatalf("expected no reminder for taken dose, got %d", n)
	}
}

func TestTick_AppointmentOffsetAndPreferences(t *testing.T) {
	f := newFixture(t, at(8, 0))
	ctx := context.Background()

	if _, err := f.appts.Book(ctx, appointments.BookInput{
		Doctor: "Dr. Smith", Specialty: appointments.SpecialtyCardiologist, At: at(10, 0),
	}); err != nil {
		t.Fatalf("book: %v", err)
	}

	off := false
	if _, err := f.prefs.Update(ctx, settings.UpdateInput{AppointmentReminders: &off}); err != nil {
		t.Fatalf("prefs: %v", err)
	}

	f.setNow(at(9, 0))
	if n, _ := f.svc.Tick(ctx); n != 0 {
		t.Fatalf("expected disabled appointment reminders, got %d", n)
	}

	on := true
	_, _ = f.prefs.Update(ctx, settings.UpdateInput{AppointmentReminders: &on})
	if n, _ := f.svc.Tick(ctx); n != 1 {
		t.Fatalf("expected appointment reminder one hour before, got %d", n)
	}
	if f.out.got[0].Title != "Appointment with Dr. Smith" {
		t.Fatalf("unexpected title %q", f.out.got[0].Title)
	}
}

func TestTick_FailedNotifyIsRetriedOnNextTick(t *testing.T) {
	f := newFixture(t, at(7, 0))
	ctx := context.Background()

	_, _ = f.meds.Create(ctx, medications.CreateInput{
		Name: "Aspirin", DosageUnit: medications.UnitOneTablet,
		Time: "8:00 AM", Frequency: schedule.FrequencyDaily,
	})

	f.setNow(at(8, 0))
	f.out.fail = true
	if n, _ := f.svc.Tick(ctx); n != 0 {
		t.Fatalf("expected nothing sent while notifier fails, got %d", n)
	}

	// con cron "* * * * *" el siguiente tick cae en el minuto siguiente
	f.out.fail = false
	f.setNow(at(8, 1))
	if n, _ := f.svc.Tick(ctx); n != 1 {
		t.Fatalf("expected retry on the next minute, got %d", n)
	}
	f.setNow(at(8, 2))
	if n, _ := f.svc.Tick(ctx); n != 0 {
		t.Fatalf("expected dedup after successful retry, got %d", n)
	}
}

func TestTick_NoReminderAfterCatchUp(t *testing.T) {
	f := newFixture(t, at(7, 0))
	ctx := context.Background()

	_, _ = f.meds.Create(ctx, medications.CreateInput{
		Name: "Aspirin", DosageUnit: medications.UnitOneTablet,
		Time: "8:00 AM", Frequency: schedule.FrequencyDaily,
	})
	if _, err := f.appts.Book(ctx, appointments.BookInput{
		Doctor: "Dr. Late", Specialty: appointments.SpecialtyNeurologist, At: at(9, 0),
	}); err != nil {
		t.Fatalf("book: %v", err)
	}

	// 8:05: la dosis quedó fuera de la ventana; el aviso de la cita (9:00 - 1h) también
	f.setNow(at(8, 0).Add(CatchUp))
	if n, _ := f.svc.Tick(ctx); n != 0 {
		t.Fatalf("expected no late reminders, got %d: %+v", n, f.out.got)
	}
}

func TestStart_RejectsBadSpecAndDoubleStart(t *testing.T) {
	f := newFixture(t, at(8, 0))
	ctx := context.Background()

	if err := f.svc.Start(ctx, "not a cron"); err == nil {
		t.Fatalf("expected invalid spec error")
	}
	if err := f.svc.Start(ctx, "@every 1h"); err != nil {
		t.Fatalf("start: %v", err)
	}
	defer f.svc.Stop()

	if err := f.svc.Start(ctx, "@every 1h"); !errors.Is(err, ErrAlreadyStarted) {
		t.Fatalf("expected ErrAlreadyStarted, got %v", err)
	}
}

func TestSentKey(t *testing.T) {
	got := SentKey(notify.KindAppointment, "a1", day)
	if got != "reminder:sent:appointment:a1:2024-03-14" {
		t.Fatalf("unexpected key %q", got)
	}
}

func TestNewService_KeepsCallerLogFields(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Options{Level: logger.Info, Format: logger.FormatJSON, Output: &buf}).
		With(map[string]any{"component": "scheduler"})

	store := memory.NewKVStore()
	svc := NewService(Options{
		Medications:  medications.NewService(memory.NewMedicationRepo(), medications.NewIntakeLog(store), 0),
		Appointments: appointments.NewService(memory.NewAppointmentRepo()),
		Preferences:  settings.NewService(store),
		Store:        store,
		Notifier:     &recordingNotifier{},
		Logger:       log,
	})
	if err := svc.Start(context.Background(), "@every 1h"); err != nil {
		t.Fatalf("start: %v", err)
	}
	svc.Stop()

	out := buf.String()
	if !strings.Contains(out, `"component":"scheduler"`) || strings.Contains(out, `"component":"reminders"`) {
		t.Fatalf("expected caller component only, got %s", out)
	}
}
