package portfolio

import (
	"github.com/rogerioboitto/casa-backend/internal/domain/shared"
	"github.com/rogerioboitto/casa-backend/internal/domain/shared/valueobject"
)

// ErrNoResponsibleTenant is returned when no tenant can be held
// financially responsible for a property in a reference month
var ErrNoResponsibleTenant = shared.NewDomainError("NO_RESPONSIBLE_TENANT",
	"No tenant is bound to this property for the reference month")

// ResolveResponsibleTenant determines who is financially responsible for a
// property during a reference month. The tenancy interval is tested against
// day 10 of the month; if no tenancy contains the anchor, the property's
// current tenant assignment is used as fallback.
func ResolveResponsibleTenant(property *Property, month valueobject.ReferenceMonth, tenants []Tenant) (*Tenant, error) {
	if property == nil {
		return nil, ErrNoResponsibleTenant
	}

	if anchor, ok := month.AnchorDate(); ok {
		for i := range tenants {
			t := &tenants[i]
			if t.PropertyID != property.ID {
				continue
			}
			if t.Covers(anchor) {
				return t, nil
			}
		}
	}

	// Fallback: the property's current assignment, ignoring tenancy bounds
	if property.TenantID != "" {
		for i := range tenants {
			if tenants[i].ID == property.TenantID {
				return &tenants[i], nil
			}
		}
	}

	return nil, ErrNoResponsibleTenant
}
