package lognotify

import (
	"context"

	"eldercare-reminders/internal/platform/logger"
	"eldercare-reminders/internal/ports/notify"
)

// Notifier escribe los avisos en el log. Es el canal por defecto sin webhook configurado.
type Notifier struct {
	log logger.Logger
}

func New(log logger.Logger) *Notifier {
	if log == nil {
		log = logger.Nop()
	}
	return &Notifier{log: log.With(map[string]any{"component": "notify"})}
}

func (n *Notifier) Notify(ctx context.Context, r notify.Reminder) error {
	n.log.Info(r.Title, map[string]any{
		"kind": string(r.Kind),
		"ref":  r.RefID,
		"body": r.Body,
		"at":   r.At,
	})
	return nil
}
