package medications

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"sync"
	"time"

	"eldercare-reminders/internal/ports/kv"
)

const intakeKeyPrefix = "taken:"

// IntakeLog implementa IntakeRepository sobre un kv.Store.
// Cada día es una key "taken:YYYY-MM-DD" con la lista JSON de ids tomados.
type IntakeLog struct {
	mu    sync.Mutex
	store kv.Store
}

func NewIntakeLog(store kv.Store) *IntakeLog {
	return &IntakeLog{store: store}
}

func IntakeKey(day time.Time) string {
	return intakeKeyPrefix + day.Format("2006-01-02")
}

func (l *IntakeLog) TakenOn(ctx context.Context, day time.Time) (map[string]bool, error) {
	ids, err := l.load(ctx, day)
	if err != nil {
		return nil, err
	}
	out := make(map[string]bool, len(ids))
	for _, id := range ids {
		out[id] = true
	}
	return out, nil
}

func (l *IntakeLog) Record(ctx context.Context, medicationID string, day time.Time) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	ids, err := l.load(ctx, day)
	if err != nil {
		return err
	}
	if slices.Contains(ids, medicationID) {
		return nil
	}
	return l.save(ctx, day, append(ids, medicationID))
}

func (l *IntakeLog) Remove(ctx context.Context, medicationID string, day time.Time) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	ids, err := l.load(ctx, day)
	if err != nil {
		return err
	}
	idx := slices.Index(ids, medicationID)
	if idx < 0 {
		return nil
	}
	ids = slices.Delete(ids, idx, idx+1)
	if len(ids) == 0 {
		return l.store.Delete(ctx, IntakeKey(day))
	}
	return l.save(ctx, day, ids)
}

func (l *IntakeLog) load(ctx context.Context, day time.Time) ([]string, error) {
	raw, ok, err := l.store.Get(ctx, IntakeKey(day))
	if err != nil {
		return nil, fmt.Errorf("intakes: get: %w", err)
	}
	if !ok || raw == "" {
		return []string{}, nil
	}
	var ids []string
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		return nil, fmt.Errorf("intakes: decode %s: %w", IntakeKey(day), err)
	}
	return ids, nil
}

func (l *IntakeLog) save(ctx context.Context, day time.Time, ids []string) error {
	b, err := json.Marshal(ids)
	if err != nil {
		return fmt.Errorf("intakes: encode: %w", err)
	}
	if err := l.store.Set(ctx, IntakeKey(day), string(b)); err != nil {
		return fmt.Errorf("intakes: set: %w", err)
	}
	return nil
}
