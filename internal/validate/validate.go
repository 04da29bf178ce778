// Package validate holds the pure field validators used by the domain
// services. Every function is a stateless predicate over a string; none of
// them return errors. Lengths are counted in runes so Cyrillic input is
// measured the same as Latin.
package validate

import (
	"regexp"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	// BirthDateLayout is the accepted input format for patient birth dates.
	BirthDateLayout = "02.01.2006"
	// ISODateLayout is the accepted format for assignment dates and the
	// normalized storage form of all dates.
	ISODateLayout = "2006-01-02"
)

var (
	nameChars      = regexp.MustCompile(`^[A-Za-zА-Яа-яЁё\- ]+$`)
	forbiddenChars = regexp.MustCompile(`[<>@#$%^&*_+=\\/]`)
	anyLetter      = regexp.MustCompile(`[A-Za-zА-Яа-яЁё]`)
)

// Name reports whether s is a valid given name: 2-50 runes after trimming,
// consisting only of Latin or Cyrillic letters, spaces, and hyphens.
func Name(s string) bool {
	s = strings.TrimSpace(s)
	n := utf8.RuneCountInString(s)
	if n < 2 || n > 50 {
		return false
	}
	return nameChars.MatchString(s)
}

// LastName applies the same rules as Name.
func LastName(s string) bool {
	return Name(s)
}

// ParseBirthDate parses a strict DD.MM.YYYY date. Two-digit day and month
// and a four-digit year are required; the date must exist on the calendar.
func ParseBirthDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if len(s) != len(BirthDateLayout) {
		return time.Time{}, false
	}
	t, err := time.Parse(BirthDateLayout, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// ParseISODate parses a strict YYYY-MM-DD calendar date.
func ParseISODate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if len(s) != len(ISODateLayout) {
		return time.Time{}, false
	}
	t, err := time.Parse(ISODateLayout, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// BirthDate reports whether s is a DD.MM.YYYY calendar date no later than
// today.
func BirthDate(s string) bool {
	t, ok := ParseBirthDate(s)
	return ok && !t.After(today())
}

// NotFutureDate reports whether s is a YYYY-MM-DD calendar date no later
// than today.
func NotFutureDate(s string) bool {
	t, ok := ParseISODate(s)
	return ok && !t.After(today())
}

// DiagnosisText reports whether s is a valid diagnosis name: 3-200 runes
// after trimming, free of the forbidden charset, and containing at least
// one Latin or Cyrillic letter.
func DiagnosisText(s string) bool {
	s = strings.TrimSpace(s)
	n := utf8.RuneCountInString(s)
	if n < 3 || n > 200 {
		return false
	}
	if forbiddenChars.MatchString(s) {
		return false
	}
	return anyLetter.MatchString(s)
}

// today returns the current date truncated to midnight UTC, so a date equal
// to today's is never treated as future regardless of wall-clock time.
func today() time.Time {
	y, m, d := time.Now().UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
