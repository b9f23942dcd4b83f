package notify

import (
	"context"
	"time"
)

type Kind string

const (
	KindMedication  Kind = "medication"
	KindAppointment Kind = "appointment"
)

// Reminder es lo que recibe el canal de salida (log, webhook, push...).
type Reminder struct {
	Kind  Kind      `json:"kind"`
	RefID string    `json:"ref_id"`
	Title string    `json:"title"`
	Body  string    `json:"body"`
	At    time.Time `json:"at"`
}

type Notifier interface {
	Notify(ctx context.Context, r Reminder) error
}
