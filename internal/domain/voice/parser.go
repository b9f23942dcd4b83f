package voice

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"eldercare-reminders/internal/domain/appointments"
	"eldercare-reminders/internal/domain/schedule"
)

type Intent string

const (
	IntentAddMedication   Intent = "add_medication"
	IntentBookAppointment Intent = "book_appointment"
	IntentMarkTaken       Intent = "mark_taken"
	IntentNextMedication  Intent = "next_medication"
	IntentUnknown         Intent = "unknown"
)

type When string

const (
	WhenToday    When = "today"
	WhenTomorrow When = "tomorrow"
	WhenNextWeek When = "next week"
)

// Command es la interpretación de una frase. Solo se llenan los campos del intent.
type Command struct {
	Intent     Intent
	Transcript string

	MedicationName string
	TimeLabel      string

	Specialty appointments.Specialty
	When      When
}

var (
	remindRe = regexp.MustCompile(`(?i)^remind me to take (?:my )?(.+?) at (\d{1,2})(?::(\d{2}))?\s*([ap])\.?\s?m\.?$`)
	bookRe   = regexp.MustCompile(`(?i)^book (?:an? )?appointment with (?:an? |the )?(.+?)(?:\s+(today|tomorrow|next week))?$`)
	tookRe   = regexp.MustCompile(`(?i)^i (?:took|have taken|just took|already took) (?:my )?(.+)$`)
	nextRe   = regexp.MustCompile(`(?i)^what(?:'s|’s| is) my next (?:medication|medicine|pill|dose)$`)
)

// Parse no falla: lo que no reconoce vuelve como IntentUnknown.
func Parse(transcript string) Command {
	text := strings.TrimSpace(transcript)
	cmd := Command{Intent: IntentUnknown, Transcript: text}

	text = strings.TrimRight(text, ".!? ")
	text = strings.Join(strings.Fields(text), " ")

	if m := remindRe.FindStringSubmatch(text); m != nil {
		label, err := timeLabel(m[2], m[3], m[4])
		if err != nil {
			return cmd
		}
		cmd.Intent = IntentAddMedication
		cmd.MedicationName = capitalize(m[1])
		cmd.TimeLabel = label
		return cmd
	}

	if m := bookRe.FindStringSubmatch(text); m != nil {
		cmd.Intent = IntentBookAppointment
		cmd.Specialty = matchSpecialty(m[1])
		cmd.When = WhenTomorrow
		if m[2] != "" {
			cmd.When = When(strings.ToLower(m[2]))
		}
		return cmd
	}

	if m := tookRe.FindStringSubmatch(text); m != nil {
		cmd.Intent = IntentMarkTaken
		cmd.MedicationName = strings.TrimSpace(m[1])
		return cmd
	}

	if nextRe.MatchString(text) {
		cmd.Intent = IntentNextMedication
		return cmd
	}

	return cmd
}

func timeLabel(hour, minutes, meridiem string) (string, error) {
	h, err := strconv.Atoi(hour)
	if err != nil {
		return "", err
	}
	m := 0
	if minutes != "" {
		if m, err = strconv.Atoi(minutes); err != nil {
			return "", err
		}
	}
	// ParseTimeLabel valida rangos
	return schedule.NormalizeTimeLabel(fmt.Sprintf("%d:%02d %sM", h, m, strings.ToUpper(meridiem)))
}

func matchSpecialty(s string) appointments.Specialty {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, sp := range appointments.Specialties {
		name := strings.ToLower(string(sp))
		if s == name || strings.TrimSuffix(s, "s") == name {
			return sp
		}
	}
	switch s {
	case "gp", "family doctor", "doctor", "my doctor":
		return appointments.SpecialtyGeneralPractitioner
	case "eye doctor":
		return appointments.SpecialtyOphthalmologist
	case "heart doctor":
		return appointments.SpecialtyCardiologist
	}
	return appointments.SpecialtyOther
}

func capitalize(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + s[size:]
}
