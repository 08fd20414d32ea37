package portfolio

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func datePtr(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func TestResolveResponsibleTenant_AnchorWithinTenancy(t *testing.T) {
	prop := &Property{ID: "prop-1"}
	tenants := []Tenant{
		{ID: "t-old", PropertyID: "prop-1", EntryDate: datePtr(2023, time.January, 1), ExitDate: datePtr(2024, time.January, 31)},
		{ID: "t-new", PropertyID: "prop-1", EntryDate: datePtr(2024, time.February, 15)},
	}

	// Anchor 2024-03-10 falls after the new tenant's entry
	got, err := ResolveResponsibleTenant(prop, "2024-03", tenants)
	require.NoError(t, err)
	assert.Equal(t, "t-new", got.ID)
}

func TestResolveResponsibleTenant_AnchorPrecedesEntry(t *testing.T) {
	// Entry 2024-02-15 with open exit: the 2024-02 anchor (day 10)
	// precedes entry, so this tenant must not be selected.
	prop := &Property{ID: "prop-1"}
	tenants := []Tenant{
		{ID: "t-new", PropertyID: "prop-1", EntryDate: datePtr(2024, time.February, 15)},
	}

	_, err := ResolveResponsibleTenant(prop, "2024-02", tenants)
	assert.ErrorIs(t, err, ErrNoResponsibleTenant)
}

func TestResolveResponsibleTenant_OpenBounds(t *testing.T) {
	prop := &Property{ID: "prop-1"}
	tenants := []Tenant{
		{ID: "t-1", PropertyID: "prop-1"}, // no bounds at all
	}

	got, err := ResolveResponsibleTenant(prop, "2024-06", tenants)
	require.NoError(t, err)
	assert.Equal(t, "t-1", got.ID)
}

func TestResolveResponsibleTenant_FallbackToCurrentAssignment(t *testing.T) {
	prop := &Property{ID: "prop-1", TenantID: "t-2"}
	tenants := []Tenant{
		{ID: "t-1", PropertyID: "other"},
		{ID: "t-2", PropertyID: "", ExitDate: datePtr(2020, time.January, 1)},
	}

	got, err := ResolveResponsibleTenant(prop, "2024-06", tenants)
	require.NoError(t, err)
	assert.Equal(t, "t-2", got.ID)
}

func TestResolveResponsibleTenant_NoMatch(t *testing.T) {
	prop := &Property{ID: "prop-1"}
	_, err := ResolveResponsibleTenant(prop, "2024-06", nil)
	assert.ErrorIs(t, err, ErrNoResponsibleTenant)
}

func TestTenant_ContactEmail(t *testing.T) {
	tenant := &Tenant{TaxID: "123.456.789-00"}
	assert.Equal(t, "sem-email-12345678900@boitto.app", tenant.ContactEmail())

	tenant.Email = "a@b.com"
	assert.Equal(t, "a@b.com", tenant.ContactEmail())
}
