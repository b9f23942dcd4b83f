package lognotify

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"eldercare-reminders/internal/platform/logger"
	"eldercare-reminders/internal/ports/notify"
)

func TestNotify_WritesLogLine(t *testing.T) {
	var buf bytes.Buffer
	n := New(logger.New(logger.Options{Level: logger.Info, Format: logger.FormatJSON, Output: &buf}))

	err := n.Notify(context.Background(), notify.Reminder{
		Kind: notify.KindMedication, RefID: "m1", Title: "Time for Lisinopril", Body: "10mg - 1 tablet at 8:00 AM", At: time.Now(),
	})
	if err != nil {
		t.Fatalf("notify: %v", err)
	}

	out := buf.String()
	for _, want := range []string{`"msg":"Time for Lisinopril"`, `"kind":"medication"`, `"component":"notify"`} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %s in %s", want, out)
		}
	}
}
