package billing

import (
	"sort"

	"github.com/rogerioboitto/casa-backend/internal/domain/portfolio"
	"github.com/rogerioboitto/casa-backend/internal/domain/shared"
)

// ErrDuplicateSlot signals that an artifact of the same utility and kind
// already fills the candidate's slot; the operator must confirm the
// overwrite before the new artifact is accepted
var ErrDuplicateSlot = shared.NewDomainError("DUPLICATE_SLOT",
	"An artifact of this kind already exists for this property and month; confirm overwrite to replace it")

// GroupBuilder merges bill artifacts into monthly groups against a
// property catalog. Month filtering is a view concern: Build always
// produces the full group set.
type GroupBuilder struct {
	properties []portfolio.Property
}

// NewGroupBuilder creates a builder over the current property catalog
func NewGroupBuilder(properties []portfolio.Property) *GroupBuilder {
	return &GroupBuilder{properties: properties}
}

// resolveProperty finds the property an artifact belongs to: directly by id,
// else by matching the installation code against the utility's meter-id field.
func (b *GroupBuilder) resolveProperty(a *BillArtifact) *portfolio.Property {
	if a.PropertyID != "" {
		for i := range b.properties {
			if b.properties[i].ID == a.PropertyID {
				return &b.properties[i]
			}
		}
	}
	if a.InstallationCode != "" {
		for i := range b.properties {
			p := &b.properties[i]
			if a.Utility == UtilityWater && p.WaterMeterID == a.InstallationCode {
				return p
			}
			if a.Utility == UtilityEnergy && p.MainMeterID == a.InstallationCode {
				return p
			}
		}
	}
	return nil
}

// Build groups every artifact by (property-or-installation, reference month)
// and fills the reading/invoice slot per utility. Within one build, a later
// artifact of the same utility and kind overwrites the slot; ingestion-time
// duplicate confirmation is handled separately via FindConflict. Groups come
// back sorted by month descending, then property address.
func (b *GroupBuilder) Build(artifacts []BillArtifact) []*MonthlyGroup {
	groups := make(map[string]*MonthlyGroup)

	for i := range artifacts {
		a := &artifacts[i]
		key := a.GroupKey() + "_" + a.ReferenceMonth.String()

		g, ok := groups[key]
		if !ok {
			g = &MonthlyGroup{
				Key:      key,
				Month:    a.ReferenceMonth,
				Property: b.resolveProperty(a),
			}
			groups[key] = g
		}

		slot := g.slot(a.Utility)
		if a.Kind == BillKindReading {
			slot.Reading = a
		} else {
			slot.Invoice = a
		}
	}

	result := make([]*MonthlyGroup, 0, len(groups))
	for _, g := range groups {
		result = append(result, g)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Month != result[j].Month {
			return result[i].Month > result[j].Month
		}
		return addressOf(result[i]) < addressOf(result[j])
	})
	return result
}

func addressOf(g *MonthlyGroup) string {
	if g.Property != nil {
		return g.Property.Address
	}
	return ""
}

// FindConflict returns the existing artifact that already occupies the
// candidate's slot (same group key, month, utility and kind), or nil.
// Callers must require explicit overwrite confirmation before replacing it.
func FindConflict(existing []BillArtifact, candidate *BillArtifact) *BillArtifact {
	for i := range existing {
		e := &existing[i]
		if e.ID == candidate.ID {
			continue
		}
		if e.Utility == candidate.Utility &&
			e.Kind == candidate.Kind &&
			e.ReferenceMonth == candidate.ReferenceMonth &&
			e.GroupKey() == candidate.GroupKey() {
			return e
		}
	}
	return nil
}
