package appointments

import (
	"time"

	"eldercare-reminders/internal/domain/schedule"
)

type Appointment struct {
	ID string

	Doctor    string
	Specialty Specialty
	At        time.Time

	Clinic    string
	Insurance string

	// Status es el valor guardado; usar EffectiveStatus para mostrarlo.
	Status schedule.AppointmentStatus

	CreatedAt time.Time
	UpdatedAt time.Time
}

// EffectiveStatus aplica la regla de 24h sin tocar el registro guardado.
func (a Appointment) EffectiveStatus(now time.Time) schedule.AppointmentStatus {
	return schedule.DeriveAppointmentStatus(a.Status, a.At, now)
}

// Listing es la vista de la pantalla de citas.
type Listing struct {
	Upcoming []Appointment
	Past     []Appointment
}
