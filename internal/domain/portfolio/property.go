package portfolio

import "github.com/shopspring/decimal"

// Property is one rentable unit. Utility providers identify it by
// installation codes on the upstream meters; sub-meter ids identify the
// unit's own meters.
type Property struct {
	ID              string
	Address         string
	BaseRent        decimal.Decimal
	TenantID        string // current (not time-bounded) tenant assignment
	MainMeterID     string // energy installation code at the provider
	WaterMeterID    string // water installation code at the provider
	SubMeterID      string // internal energy sub-meter serial
	WaterSubMeterID string // internal water sub-meter serial
}
