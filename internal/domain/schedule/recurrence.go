package schedule

import "time"

// Frequency es la regla de recurrencia de una medicación.
// Los valores coinciden con los labels que muestra la app.
type Frequency string

const (
	FrequencyDaily         Frequency = "Daily"
	FrequencyEveryOtherDay Frequency = "Every Other Day"
	FrequencyWeekly        Frequency = "Weekly"
)

func (f Frequency) Valid() bool {
	switch f {
	case FrequencyDaily, FrequencyEveryOtherDay, FrequencyWeekly:
		return true
	default:
		return false
	}
}

// IsDue decide si una dosis aplica en la fecha "on".
//
// anchor es la fecha de referencia de la regla (start date):
//   - Every Other Day: due si la distancia en días calendario anchor -> on es par.
//     Con anchor cero se ancla a "on" (siempre due).
//   - Weekly: due si on cae el mismo día de semana que anchor. Con anchor cero, domingo.
//
// Frecuencias desconocidas nunca son due (no es error).
func IsDue(f Frequency, anchor, on time.Time) bool {
	switch f {
	case FrequencyDaily:
		return true
	case FrequencyEveryOtherDay:
		if anchor.IsZero() {
			return true
		}
		d := DaysBetween(anchor, on)
		return ((d%2)+2)%2 == 0
	case FrequencyWeekly:
		want := time.Sunday
		if !anchor.IsZero() {
			want = anchor.Weekday()
		}
		return on.Weekday() == want
	default:
		return false
	}
}

// DaysBetween cuenta días calendario entre from y to (negativo si to es anterior).
// Compara fechas civiles, así que no le afectan cambios de horario.
func DaysBetween(from, to time.Time) int {
	a := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	b := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, time.UTC)
	// Unix en vez de Sub: Duration satura a ~292 años
	return int((b.Unix() - a.Unix()) / 86400)
}

// StartOfDay devuelve la medianoche de t en su propia location.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// MinuteOfDay devuelve los minutos desde medianoche de t.
func MinuteOfDay(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}
