package schedule

import (
	"slices"
	"time"
)

type AppointmentStatus string

const (
	AppointmentUpcoming  AppointmentStatus = "Upcoming"
	AppointmentCompleted AppointmentStatus = "Completed"
	AppointmentMissed    AppointmentStatus = "Missed"
)

func (s AppointmentStatus) Valid() bool {
	switch s {
	case AppointmentUpcoming, AppointmentCompleted, AppointmentMissed:
		return true
	default:
		return false
	}
}

// MissedAfter: una cita Upcoming pasa a Missed cuando now supera at + MissedAfter.
const MissedAfter = 24 * time.Hour

// DeriveAppointmentStatus es una proyección de lectura: no muta nada.
// Completed y Missed son terminales para esta regla.
func DeriveAppointmentStatus(stored AppointmentStatus, at, now time.Time) AppointmentStatus {
	if stored == AppointmentUpcoming && now.After(at.Add(MissedAfter)) {
		return AppointmentMissed
	}
	return stored
}

// PartitionAppointments separa en próximas (status efectivo Upcoming, más cercana primero)
// y pasadas (resto, más reciente primero). El slice de entrada no se modifica.
func PartitionAppointments[T any](items []T, statusOf func(T) AppointmentStatus, atOf func(T) time.Time, now time.Time) (upcoming, past []T) {
	upcoming = make([]T, 0)
	past = make([]T, 0)

	for _, it := range items {
		if DeriveAppointmentStatus(statusOf(it), atOf(it), now) == AppointmentUpcoming {
			upcoming = append(upcoming, it)
		} else {
			past = append(past, it)
		}
	}

	slices.SortStableFunc(upcoming, func(a, b T) int {
		return atOf(a).Compare(atOf(b))
	})
	slices.SortStableFunc(past, func(a, b T) int {
		return atOf(b).Compare(atOf(a))
	})

	return upcoming, past
}

// DoseStatus es el estado de una dosis en un día concreto.
type DoseStatus string

const (
	DoseUpcoming DoseStatus = "Upcoming"
	DoseNow      DoseStatus = "Now"
	DoseTaken    DoseStatus = "Taken"
	DoseMissed   DoseStatus = "Missed"
)

// DeriveDoseStatus calcula el estado de una dosis de hoy.
// window es la tolerancia alrededor del horario (ej. 30m): dentro de ella la dosis es "Now".
func DeriveDoseStatus(slotMinutes int, taken bool, nowMinutes int, window time.Duration) DoseStatus {
	if taken {
		return DoseTaken
	}

	w := int(window / time.Minute)
	diff := nowMinutes - slotMinutes

	switch {
	case diff > w:
		return DoseMissed
	case diff >= -w:
		return DoseNow
	default:
		return DoseUpcoming
	}
}
