package valueobject

import (
	"fmt"
	"time"
)

// ReferenceMonth is the calendar month a bill or reading pertains to,
// in "YYYY-MM" form. Artifacts extracted from scanned documents sometimes
// carry garbage here ("N/A"), so every derivation reports validity instead
// of failing.
type ReferenceMonth string

// anchorDay is the day-of-month used to anchor tenancy resolution.
// Mid-month avoids edge effects from billing cycles starting on day 1 or 31.
const anchorDay = 10

var monthNamesPT = [...]string{
	"Janeiro", "Fevereiro", "Março", "Abril", "Maio", "Junho",
	"Julho", "Agosto", "Setembro", "Outubro", "Novembro", "Dezembro",
}

// ParseReferenceMonth validates and normalizes a "YYYY-MM" string
func ParseReferenceMonth(s string) (ReferenceMonth, error) {
	m := ReferenceMonth(s)
	if !m.IsValid() {
		return "", fmt.Errorf("invalid reference month %q", s)
	}
	return m, nil
}

// IsValid reports whether the month parses as "YYYY-MM"
func (m ReferenceMonth) IsValid() bool {
	_, _, ok := m.parts()
	return ok
}

// String returns the "YYYY-MM" representation
func (m ReferenceMonth) String() string {
	return string(m)
}

func (m ReferenceMonth) parts() (int, time.Month, bool) {
	t, err := time.Parse("2006-01", string(m))
	if err != nil {
		return 0, 0, false
	}
	return t.Year(), t.Month(), true
}

// Prev returns the preceding calendar month. Reports false for
// unparseable months so callers degrade to "no previous month".
func (m ReferenceMonth) Prev() (ReferenceMonth, bool) {
	year, month, ok := m.parts()
	if !ok {
		return "", false
	}
	t := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC).AddDate(0, -1, 0)
	return ReferenceMonth(t.Format("2006-01")), true
}

// Next returns the following calendar month
func (m ReferenceMonth) Next() (ReferenceMonth, bool) {
	year, month, ok := m.parts()
	if !ok {
		return "", false
	}
	t := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 1, 0)
	return ReferenceMonth(t.Format("2006-01")), true
}

// AnchorDate returns day 10 of the month, used as the tenancy anchor
func (m ReferenceMonth) AnchorDate() (time.Time, bool) {
	year, month, ok := m.parts()
	if !ok {
		return time.Time{}, false
	}
	return time.Date(year, month, anchorDay, 0, 0, 0, 0, time.UTC), true
}

// FirstDay returns the first day of the month
func (m ReferenceMonth) FirstDay() (time.Time, bool) {
	year, month, ok := m.parts()
	if !ok {
		return time.Time{}, false
	}
	return time.Date(year, month, 1, 0, 0, 0, 0, time.UTC), true
}

// LastDay returns the last day of the month (handles leap years)
func (m ReferenceMonth) LastDay() (time.Time, bool) {
	first, ok := m.FirstDay()
	if !ok {
		return time.Time{}, false
	}
	return first.AddDate(0, 1, -1), true
}

// DisplayPT renders the month for human-readable charge descriptions,
// e.g. "Março/2024"
func (m ReferenceMonth) DisplayPT() string {
	year, month, ok := m.parts()
	if !ok {
		return string(m)
	}
	return fmt.Sprintf("%s/%d", monthNamesPT[int(month)-1], year)
}
