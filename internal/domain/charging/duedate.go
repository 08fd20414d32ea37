package charging

import (
	"time"

	"github.com/rogerioboitto/casa-backend/internal/domain/shared/valueobject"
)

// DueDate places the tenant's due day in the month following the reference
// month, clamped to that month's last valid day (day 31 in a 30-day month
// becomes day 30, day 31 in February 2024 becomes the 29th).
func DueDate(month valueobject.ReferenceMonth, dueDay int) (time.Time, bool) {
	next, ok := month.Next()
	if !ok || dueDay < 1 {
		return time.Time{}, false
	}
	last, ok := next.LastDay()
	if !ok {
		return time.Time{}, false
	}
	day := dueDay
	if day > last.Day() {
		day = last.Day()
	}
	return time.Date(last.Year(), last.Month(), day, 0, 0, 0, 0, time.UTC), true
}

// DiscountLimit returns the last day the early-payment discount applies,
// one day before the due date.
func DiscountLimit(dueDate time.Time) time.Time {
	return dueDate.AddDate(0, 0, -1)
}
