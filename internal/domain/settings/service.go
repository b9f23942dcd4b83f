package settings

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"eldercare-reminders/internal/ports/kv"
)

const preferencesKey = "settings:preferences"

// Preferences son los switches de la pantalla de ajustes.
type Preferences struct {
	MedicationReminders  bool `json:"medication_reminders"`
	AppointmentReminders bool `json:"appointment_reminders"`
}

func Defaults() Preferences {
	return Preferences{MedicationReminders: true, AppointmentReminders: true}
}

type Service struct {
	mu    sync.Mutex
	store kv.Store
}

func NewService(store kv.Store) *Service {
	return &Service{store: store}
}

// Get devuelve los defaults si nunca se guardó nada.
func (s *Service) Get(ctx context.Context) (Preferences, error) {
	raw, ok, err := s.store.Get(ctx, preferencesKey)
	if err != nil {
		return Preferences{}, fmt.Errorf("settings: get: %w", err)
	}
	p := Defaults()
	if !ok || raw == "" {
		return p, nil
	}
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return Preferences{}, fmt.Errorf("settings: decode: %w", err)
	}
	return p, nil
}

type UpdateInput struct {
	MedicationReminders  *bool
	AppointmentReminders *bool
}

func (s *Service) Update(ctx context.Context, in UpdateInput) (Preferences, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.Get(ctx)
	if err != nil {
		return Preferences{}, err
	}
	if in.MedicationReminders != nil {
		p.MedicationReminders = *in.MedicationReminders
	}
	if in.AppointmentReminders != nil {
		p.AppointmentReminders = *in.AppointmentReminders
	}

	b, err := json.Marshal(p)
	if err != nil {
		return Preferences{}, fmt.Errorf("settings: encode: %w", err)
	}
	if err := s.store.Set(ctx, preferencesKey, string(b)); err != nil {
		return Preferences{}, fmt.Errorf("settings: set: %w", err)
	}
	return p, nil
}
