package portfolio

import (
	"regexp"
	"time"
)

var nonDigits = regexp.MustCompile(`\D`)

// Tenant is a renter bound to a property for the span of a tenancy.
// EntryDate/ExitDate bound the tenancy; a nil bound means unbounded
// on that side. The system assumes at most one tenancy per property
// contains any given anchor date; overlap is not enforced at write time.
type Tenant struct {
	ID          string
	Name        string
	Email       string
	Phone       string
	TaxID       string // CPF, digits plus formatting as entered
	PropertyID  string
	CustomerRef string // customer id at the payment provider, set lazily
	DueDay      int    // day of month charges fall due (1-31), 0 = unset
	EntryDate   *time.Time
	ExitDate    *time.Time
}

// CleanTaxID returns the tax id stripped to digits, as the payment
// provider expects it
func (t *Tenant) CleanTaxID() string {
	return nonDigits.ReplaceAllString(t.TaxID, "")
}

// CleanPhone returns the phone number stripped to digits
func (t *Tenant) CleanPhone() string {
	return nonDigits.ReplaceAllString(t.Phone, "")
}

// ContactEmail returns the tenant's email, or a deterministic placeholder
// when none is on file. The provider requires an address per customer.
func (t *Tenant) ContactEmail() string {
	if t.Email != "" {
		return t.Email
	}
	return "sem-email-" + t.CleanTaxID() + "@boitto.app"
}

// Covers reports whether the tenancy interval contains the given date.
// A missing bound is treated as unbounded on that side.
func (t *Tenant) Covers(date time.Time) bool {
	if t.EntryDate != nil && date.Before(*t.EntryDate) {
		return false
	}
	if t.ExitDate != nil && date.After(*t.ExitDate) {
		return false
	}
	return true
}
