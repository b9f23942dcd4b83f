package medications

import (
	"strings"
	"time"

	"eldercare-reminders/internal/domain/schedule"
)

// DosageUnit es el set cerrado de unidades que ofrece el formulario.
type DosageUnit string

const (
	UnitHalfTablet  DosageUnit = "1/2 tablet"
	UnitOneTablet   DosageUnit = "1 tablet"
	UnitTwoTablets  DosageUnit = "2 tablets"
	UnitThreeTablet DosageUnit = "3 tablets"
	UnitFourTablets DosageUnit = "4 tablets"
	UnitFiveTablets DosageUnit = "5 tablets"
)

var DosageUnits = []DosageUnit{
	UnitHalfTablet,
	UnitOneTablet,
	UnitTwoTablets,
	UnitThreeTablet,
	UnitFourTablets,
	UnitFiveTablets,
}

func (u DosageUnit) Valid() bool {
	for _, v := range DosageUnits {
		if u == v {
			return true
		}
	}
	return false
}

// Medication es el registro de una medicación con su horario diario.
type Medication struct {
	ID string

	Name         string
	DosageAmount string // "10mg"
	DosageUnit   DosageUnit

	TimeLabel string // "8:00 AM" (siempre normalizado)
	Frequency schedule.Frequency

	// StartDate ancla la recurrencia. Registros viejos pueden no tenerla.
	StartDate time.Time
	EndDate   *time.Time

	Notes string

	Deleted bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Dosage arma el texto que muestra la lista: "10mg - 1 tablet".
func (m Medication) Dosage() string {
	amount := strings.TrimSpace(m.DosageAmount)
	if amount == "" {
		return string(m.DosageUnit)
	}
	return amount + " - " + string(m.DosageUnit)
}

// Minutes devuelve el horario en minutos desde medianoche, o -1 si el label es inválido.
func (m Medication) Minutes() int {
	v, err := schedule.ParseTimeLabel(m.TimeLabel)
	if err != nil {
		return -1
	}
	return v
}

// ActiveOn indica si day cae dentro de [StartDate, EndDate] y el registro no fue borrado.
func (m Medication) ActiveOn(day time.Time) bool {
	if m.Deleted {
		return false
	}
	if !m.StartDate.IsZero() && schedule.DaysBetween(m.StartDate, day) < 0 {
		return false
	}
	if m.EndDate != nil && schedule.DaysBetween(*m.EndDate, day) > 0 {
		return false
	}
	return true
}

// DueOn decide si hay dosis en day. today se usa como ancla de Every Other Day
// cuando el registro no tiene StartDate (comportamiento heredado).
func (m Medication) DueOn(day, today time.Time) bool {
	if !m.ActiveOn(day) {
		return false
	}
	anchor := m.StartDate
	if anchor.IsZero() && m.Frequency == schedule.FrequencyEveryOtherDay {
		anchor = today
	}
	return schedule.IsDue(m.Frequency, anchor, day)
}

// Dose es una toma concreta de una medicación en una fecha.
type Dose struct {
	Medication Medication
	Date       time.Time
	Minutes    int
	Bucket     schedule.Bucket
	Status     schedule.DoseStatus
}

type View string

const (
	ViewToday    View = "today"
	ViewTomorrow View = "tomorrow"
	ViewUpcoming View = "upcoming"
)

func ParseView(s string) (View, bool) {
	switch View(strings.ToLower(strings.TrimSpace(s))) {
	case ViewToday, "":
		return ViewToday, true
	case ViewTomorrow:
		return ViewTomorrow, true
	case ViewUpcoming:
		return ViewUpcoming, true
	default:
		return "", false
	}
}

// Agenda es la lista agrupada por momento del día.
type Agenda struct {
	View     View
	Date     time.Time
	Sections []schedule.Section[Dose]
}

// Adherence resume tomas registradas vs. tomas debidas en un rango de días.
type Adherence struct {
	Days    int
	Due     int
	Taken   int
	Percent int
}
