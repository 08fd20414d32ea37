package portfolio

import "context"

// TenantRepository provides access to tenant records
type TenantRepository interface {
	FindByID(ctx context.Context, id string) (*Tenant, error)
	FindAll(ctx context.Context) ([]Tenant, error)
	Save(ctx context.Context, tenant *Tenant) error
	// UpdateCustomerRef persists the payment-provider customer id so
	// later charges skip customer resolution
	UpdateCustomerRef(ctx context.Context, tenantID, customerRef string) error
}

// PropertyRepository provides access to property records
type PropertyRepository interface {
	FindByID(ctx context.Context, id string) (*Property, error)
	FindAll(ctx context.Context) ([]Property, error)
	Save(ctx context.Context, property *Property) error
}
