package forms

import (
	"regexp"
	"strings"
	"time"

	"govportal/internal/common/errors"
)

// AppointmentLayout is the canonical stored appointment representation.
const AppointmentLayout = "2006-01-02 15:04:05"

var minutePrecision = regexp.MustCompile(`^\d{4}-\d{2}-\d{2} \d{2}:\d{2}$`)

// NormalizeAppointment accepts a loose "date space time" (or ISO "date T
// time") value and normalizes it to the canonical seconds-precision form.
func NormalizeAppointment(value string) (time.Time, string, error) {
	s := strings.TrimSpace(value)
	s = strings.Replace(s, "T", " ", 1)
	if minutePrecision.MatchString(s) {
		s += ":00"
	}

	t, err := time.ParseInLocation(AppointmentLayout, s, time.Local)
	if err != nil {
		return time.Time{}, "", errors.NewInvalidAppointmentError(value)
	}
	return t, s, nil
}

// ValidateAppointment normalizes value and rejects it unless it is strictly
// in the future relative to now.
func ValidateAppointment(value string, now time.Time) (time.Time, string, error) {
	t, canonical, err := NormalizeAppointment(value)
	if err != nil {
		return time.Time{}, "", err
	}
	if !t.After(now) {
		return time.Time{}, "", errors.NewAppointmentInPastError(canonical)
	}
	return t, canonical, nil
}
