package voice

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"eldercare-reminders/internal/domain/appointments"
	"eldercare-reminders/internal/domain/medications"
	"eldercare-reminders/internal/domain/schedule"
	"eldercare-reminders/internal/ports/kv"
)

const (
	recentKey   = "voice:recent"
	RecentLimit = 8

	// las citas por voz se reservan a esta hora
	bookingMinutes = 9 * 60
	voiceDoctor    = "To be confirmed"
)

var ErrEmptyTranscript = errors.New("empty transcript")

type MedicationCommands interface {
	Create(ctx context.Context, in medications.CreateInput) (medications.Medication, error)
	DueOn(ctx context.Context, day time.Time) ([]medications.Dose, error)
	MarkTaken(ctx context.Context, id string) (medications.Dose, error)
	Today() time.Time
}

type AppointmentCommands interface {
	Book(ctx context.Context, in appointments.BookInput) (appointments.Appointment, error)
}

type Result struct {
	Command Command
	Handled bool
	Reply   string

	MedicationID  string
	AppointmentID string
}

type Service struct {
	meds  MedicationCommands
	appts AppointmentCommands
	store kv.Store

	mu sync.Mutex
}

func NewService(meds MedicationCommands, appts AppointmentCommands, store kv.Store) *Service {
	return &Service{meds: meds, appts: appts, store: store}
}

// Execute interpreta la frase, ejecuta la acción y la guarda en el historial.
func (s *Service) Execute(ctx context.Context, transcript string) (Result, error) {
	if strings.TrimSpace(transcript) == "" {
		return Result{}, ErrEmptyTranscript
	}
	cmd := Parse(transcript)

	var (
		res Result
		err error
	)
	switch cmd.Intent {
	case IntentAddMedication:
		res, err = s.addMedication(ctx, cmd)
	case IntentBookAppointment:
		res, err = s.bookAppointment(ctx, cmd)
	case IntentMarkTaken:
		res, err = s.markTaken(ctx, cmd)
	case IntentNextMedication:
		res, err = s.nextMedication(ctx, cmd)
	default:
		res = Result{Command: cmd, Reply: "Sorry, I didn't understand that."}
	}
	if err != nil {
		return Result{}, err
	}

	if err := s.remember(ctx, cmd.Transcript); err != nil {
		return Result{}, err
	}
	return res, nil
}

// Recent devuelve las últimas frases, la más nueva primero.
func (s *Service) Recent(ctx context.Context) ([]string, error) {
	raw, ok, err := s.store.Get(ctx, recentKey)
	if err != nil {
		return nil, fmt.Errorf("voice: get recent: %w", err)
	}
	if !ok || raw == "" {
		return []string{}, nil
	}
	var out []string
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, fmt.Errorf("voice: decode recent: %w", err)
	}
	return out, nil
}

func (s *Service) remember(ctx context.Context, transcript string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.Recent(ctx)
	if err != nil {
		return err
	}
	items = append([]string{transcript}, items...)
	if len(items) > RecentLimit {
		items = items[:RecentLimit]
	}
	b, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("voice: encode recent: %w", err)
	}
	return s.store.Set(ctx, recentKey, string(b))
}

func (s *Service) addMedication(ctx context.Context, cmd Command) (Result, error) {
	m, err := s.meds.Create(ctx, medications.CreateInput{
		Name:       cmd.MedicationName,
		DosageUnit: medications.UnitOneTablet,
		Time:       cmd.TimeLabel,
		Frequency:  schedule.FrequencyDaily,
	})
	if err != nil {
		return Result{}, err
	}
	return Result{
		Command:      cmd,
		Handled:      true,
		Reply:        fmt.Sprintf("OK, I'll remind you to take %s every day at %s.", m.Name, m.TimeLabel),
		MedicationID: m.ID,
	}, nil
}

func (s *Service) bookAppointment(ctx context.Context, cmd Command) (Result, error) {
	day := s.meds.Today()
	switch cmd.When {
	case WhenTomorrow:
		day = day.AddDate(0, 0, 1)
	case WhenNextWeek:
		day = day.AddDate(0, 0, 7)
	}
	at := time.Date(day.Year(), day.Month(), day.Day(), bookingMinutes/60, bookingMinutes%60, 0, 0, day.Location())

	a, err := s.appts.Book(ctx, appointments.BookInput{
		Doctor:    voiceDoctor,
		Specialty: cmd.Specialty,
		At:        at,
	})
	if err != nil {
		return Result{}, err
	}
	return Result{
		Command:       cmd,
		Handled:       true,
		Reply:         fmt.Sprintf("Booked a %s appointment on %s at 9:00 AM.", a.Specialty, at.Format("Monday, January 2")),
		AppointmentID: a.ID,
	}, nil
}

func (s *Service) markTaken(ctx context.Context, cmd Command) (Result, error) {
	doses, err := s.meds.DueOn(ctx, s.meds.Today())
	if err != nil {
		return Result{}, err
	}

	want := strings.ToLower(cmd.MedicationName)
	for _, d := range doses {
		name := strings.ToLower(d.Medication.Name)
		if name != want && !strings.Contains(want, name) && !strings.Contains(name, want) {
			continue
		}
		if _, err := s.meds.MarkTaken(ctx, d.Medication.ID); err != nil {
			return Result{}, err
		}
		return Result{
			Command:      cmd,
			Handled:      true,
			Reply:        fmt.Sprintf("Great, I marked %s as taken.", d.Medication.Name),
			MedicationID: d.Medication.ID,
		}, nil
	}

	return Result{
		Command: cmd,
		Reply:   fmt.Sprintf("I couldn't find %s in today's medications.", cmd.MedicationName),
	}, nil
}

func (s *Service) nextMedication(ctx context.Context, cmd Command) (Result, error) {
	doses, err := s.meds.DueOn(ctx, s.meds.Today())
	if err != nil {
		return Result{}, err
	}
	for _, d := range doses {
		if d.Status == schedule.DoseNow || d.Status == schedule.DoseUpcoming {
			return Result{
				Command:      cmd,
				Handled:      true,
				Reply:        fmt.Sprintf("Your next medication is %s (%s) at %s.", d.Medication.Name, d.Medication.Dosage(), d.Medication.TimeLabel),
				MedicationID: d.Medication.ID,
			}, nil
		}
	}
	return Result{Command: cmd, Handled: true, Reply: "You have no more medications today."}, nil
}
