package billing

import (
	"github.com/shopspring/decimal"

	"github.com/rogerioboitto/casa-backend/internal/domain/portfolio"
	"github.com/rogerioboitto/casa-backend/internal/domain/shared/valueobject"
)

// SlotState describes how complete a utility's slot pair is within a group
type SlotState int

const (
	SlotUnmatched SlotState = iota
	SlotReadingOnly
	SlotInvoiceOnly
	SlotMatched
)

// UtilityGroup holds the reading/invoice pair for one utility within a
// monthly group, plus the figures derived from it by the calculator.
type UtilityGroup struct {
	Reading *BillArtifact
	Invoice *BillArtifact

	PrevReading *float64
	Consumption *float64
	FlagShare   decimal.Decimal
	RefundShare decimal.Decimal
	Total       decimal.Decimal
	HasTotal    bool
}

// State returns the slot completeness for this utility
func (u *UtilityGroup) State() SlotState {
	switch {
	case u.Reading != nil && u.Invoice != nil:
		return SlotMatched
	case u.Reading != nil:
		return SlotReadingOnly
	case u.Invoice != nil:
		return SlotInvoiceOnly
	default:
		return SlotUnmatched
	}
}

// MonthlyGroup merges the independently uploaded artifacts of one property
// (or installation) and one reference month. Groups are derived state,
// recomputed on every read; nothing here is persisted.
type MonthlyGroup struct {
	Key      string
	Month    valueobject.ReferenceMonth
	Property *portfolio.Property // nil when only the installation code resolved

	Energy UtilityGroup
	Water  UtilityGroup
}

// slot returns the utility slot for the given utility
func (g *MonthlyGroup) slot(u Utility) *UtilityGroup {
	if u == UtilityWater {
		return &g.Water
	}
	return &g.Energy
}

// GrandTotal sums the utility totals, treating absent totals as zero
func (g *MonthlyGroup) GrandTotal() decimal.Decimal {
	total := decimal.Zero
	if g.Energy.HasTotal {
		total = total.Add(g.Energy.Total)
	}
	if g.Water.HasTotal {
		total = total.Add(g.Water.Total)
	}
	return total
}
