package billing

import "github.com/shopspring/decimal"

// Calculator derives consumption and cost figures for monthly groups.
// It is pure: same inputs always produce the same outputs, and it performs
// no I/O. Billing data is frequently incomplete, so missing or malformed
// inputs degrade to absent figures instead of errors.
type Calculator struct{}

// NewCalculator creates a consumption calculator
func NewCalculator() *Calculator {
	return &Calculator{}
}

// Compute fills the derived fields of a group's utility slots using the
// reading index for previous-month lookups
func (c *Calculator) Compute(g *MonthlyGroup, ix ReadingIndex) {
	c.computeEnergy(g, ix)
	c.computeWater(g, ix)
}

// computeEnergy applies the energy billing rules. When no sub-meter reading
// pair exists, consumption falls back to the invoice's master consumption,
// a building-wide aggregate. This conflates per-unit and whole-building
// consumption and is kept as-is to match the provider's historical numbers.
func (c *Calculator) computeEnergy(g *MonthlyGroup, ix ReadingIndex) {
	slot := &g.Energy
	if slot.State() == SlotUnmatched {
		return
	}

	slot.PrevReading = c.previousReading(g, slot, UtilityEnergy, ix)

	var consumption float64
	if cur := currentReadingOf(slot); cur != nil && slot.PrevReading != nil {
		consumption = *cur - *slot.PrevReading
	} else if slot.Invoice != nil && slot.Invoice.MasterConsumption != nil {
		consumption = *slot.Invoice.MasterConsumption
	}
	slot.Consumption = &consumption

	unitCost, flag, refund := decimal.Zero, decimal.Zero, decimal.Zero
	var master float64
	if slot.Invoice != nil {
		unitCost = slot.Invoice.UnitCost
		flag = slot.Invoice.FlagSurcharge
		refund = slot.Invoice.RefundAmount
		if slot.Invoice.MasterConsumption != nil {
			master = *slot.Invoice.MasterConsumption
		}
	}

	// Shared surcharge/refund are allocated proportionally to this unit's
	// share of the master meter; an absent or zero master yields a zero ratio.
	ratio := decimal.Zero
	if master != 0 {
		ratio = decimal.NewFromFloat(consumption).Div(decimal.NewFromFloat(master))
	}
	slot.FlagShare = flag.Mul(ratio)
	slot.RefundShare = refund.Mul(ratio)

	slot.Total = decimal.NewFromFloat(consumption).Mul(unitCost).
		Add(slot.FlagShare).
		Sub(slot.RefundShare)
	slot.HasTotal = true
}

// computeWater applies the water billing rules: no surcharge or refund
// concept, and no master-consumption fallback: without two consecutive
// readings the total stays undefined.
func (c *Calculator) computeWater(g *MonthlyGroup, ix ReadingIndex) {
	slot := &g.Water
	if slot.State() == SlotUnmatched {
		return
	}

	slot.PrevReading = c.previousReading(g, slot, UtilityWater, ix)

	cur := currentReadingOf(slot)
	if cur == nil || slot.PrevReading == nil {
		return
	}

	consumption := *cur - *slot.PrevReading
	slot.Consumption = &consumption

	unitCost := decimal.Zero
	if slot.Invoice != nil {
		unitCost = slot.Invoice.UnitCost
	}
	slot.Total = decimal.NewFromFloat(consumption).Mul(unitCost)
	slot.HasTotal = true
}

// previousReading resolves the prior month's meter index for the group's
// property key. Unparseable months yield no previous reading.
func (c *Calculator) previousReading(g *MonthlyGroup, slot *UtilityGroup, u Utility, ix ReadingIndex) *float64 {
	prevMonth, ok := g.Month.Prev()
	if !ok {
		return nil
	}

	key := ""
	if g.Property != nil {
		key = g.Property.ID
	} else if slot.Invoice != nil && slot.Invoice.InstallationCode != "" {
		key = slot.Invoice.InstallationCode
	} else if slot.Reading != nil {
		key = slot.Reading.InstallationCode
	}
	if key == "" {
		return nil
	}

	prev, ok := ix.Lookup(u, key, prevMonth)
	if !ok || prev.CurrentReading == nil {
		return nil
	}
	return prev.CurrentReading
}

func currentReadingOf(slot *UtilityGroup) *float64 {
	if slot.Reading == nil {
		return nil
	}
	return slot.Reading.CurrentReading
}
