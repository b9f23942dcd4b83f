package schedule

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

const MinutesPerDay = 24 * 60

// ParseTimeLabel convierte "H:MM AM|PM" a minutos desde medianoche.
// 12:xx AM es 00:xx y 12:xx PM queda como 12:xx. AM/PM es case-sensitive.
func ParseTimeLabel(label string) (int, error) {
	parts := strings.Split(label, " ")
	if len(parts) != 2 {
		return 0, &ParseError{Label: label, Reason: "expected \"H:MM AM|PM\""}
	}

	hm := strings.Split(parts[0], ":")
	if len(hm) != 2 {
		return 0, &ParseError{Label: label, Reason: "expected hour and minutes separated by ':'"}
	}

	if len(hm[0]) < 1 || len(hm[0]) > 2 || !isDigits(hm[0]) {
		return 0, &ParseError{Label: label, Reason: "hour must be numeric"}
	}
	if len(hm[1]) != 2 || !isDigits(hm[1]) {
		return 0, &ParseError{Label: label, Reason: "minutes must be two digits"}
	}

	h, _ := strconv.Atoi(hm[0])
	m, _ := strconv.Atoi(hm[1])
	if h < 1 || h > 12 {
		return 0, &ParseError{Label: label, Reason: "hour must be between 1 and 12"}
	}
	if m > 59 {
		return 0, &ParseError{Label: label, Reason: "minutes must be between 00 and 59"}
	}

	switch parts[1] {
	case "AM":
		if h == 12 {
			h = 0
		}
	case "PM":
		if h != 12 {
			h += 12
		}
	default:
		return 0, &ParseError{Label: label, Reason: "meridiem must be AM or PM"}
	}

	return h*60 + m, nil
}

// FormatMinutes es la inversa de ParseTimeLabel.
func FormatMinutes(minutes int) (string, error) {
	if minutes < 0 || minutes >= MinutesPerDay {
		return "", &RangeError{Minutes: minutes}
	}

	h := minutes / 60
	m := minutes % 60

	meridiem := "AM"
	if h >= 12 {
		meridiem = "PM"
	}
	h = h % 12
	if h == 0 {
		h = 12
	}

	return fmt.Sprintf("%d:%02d %s", h, m, meridiem), nil
}

// NormalizeTimeLabel devuelve el label canónico ("08:05 AM" -> "8:05 AM").
func NormalizeTimeLabel(label string) (string, error) {
	m, err := ParseTimeLabel(label)
	if err != nil {
		return "", err
	}
	return FormatMinutes(m)
}

// SortByTime ordena (estable) por hora ascendente.
// Si algún label es inválido, no toca el slice y devuelve el primer error.
func SortByTime[T any](items []T, labelOf func(T) string) error {
	type keyed struct {
		minutes int
		item    T
	}

	tmp := make([]keyed, 0, len(items))
	for _, it := range items {
		m, err := ParseTimeLabel(labelOf(it))
		if err != nil {
			return err
		}
		tmp = append(tmp, keyed{minutes: m, item: it})
	}

	slices.SortStableFunc(tmp, func(a, b keyed) int {
		return a.minutes - b.minutes
	})

	for i := range tmp {
		items[i] = tmp[i].item
	}
	return nil
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}
