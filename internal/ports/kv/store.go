package kv

import "context"

// Store es el key-value mínimo que usan los módulos (intakes, settings, voice, reminders).
// Semántica last-write-wins, sin transacciones.
type Store interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}
