package schedule

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidTimeLabel  = errors.New("invalid time label")
	ErrMinutesOutOfRange = errors.New("minutes out of range")
)

// ParseError indica que el label no es una hora válida de 12 horas ("H:MM AM|PM").
type ParseError struct {
	Label  string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid time label %q: %s", e.Label, e.Reason)
}

func (e *ParseError) Unwrap() error { return ErrInvalidTimeLabel }

// RangeError indica un minuto del día fuera de [0, 1440).
type RangeError struct {
	Minutes int
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("minutes %d out of range [0,%d)", e.Minutes, MinutesPerDay)
}

func (e *RangeError) Unwrap() error { return ErrMinutesOutOfRange }
