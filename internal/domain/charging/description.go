package charging

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/rogerioboitto/casa-backend/internal/domain/shared/valueobject"
)

// MonthMarker is the token embedded in every charge description and later
// grepped during the remote duplicate check. The marker is the contract: a
// description without it is invisible to duplicate detection.
func MonthMarker(month valueobject.ReferenceMonth) string {
	return "Ref: " + string(month)
}

// HasMonthMarker reports whether a description carries the marker for a month
func HasMonthMarker(description string, month valueobject.ReferenceMonth) bool {
	return strings.Contains(description, MonthMarker(month))
}

// ChargeBreakdown itemizes what a monthly charge is made of
type ChargeBreakdown struct {
	Rent   decimal.Decimal
	Energy decimal.Decimal
	Water  decimal.Decimal
}

// Total sums the breakdown lines
func (b ChargeBreakdown) Total() decimal.Decimal {
	return b.Rent.Add(b.Energy).Add(b.Water)
}

// BuildDescription renders the operator-facing charge description in
// Portuguese, itemized per line, with the month marker on the last line.
func BuildDescription(address string, month valueobject.ReferenceMonth, b ChargeBreakdown) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Aluguel %s - %s\n", month.DisplayPT(), address)
	fmt.Fprintf(&sb, "Aluguel: R$ %s\n", b.Rent.StringFixed(2))
	if b.Energy.Sign() > 0 {
		fmt.Fprintf(&sb, "Energia: R$ %s\n", b.Energy.StringFixed(2))
	}
	if b.Water.Sign() > 0 {
		fmt.Fprintf(&sb, "Água: R$ %s\n", b.Water.StringFixed(2))
	}
	sb.WriteString(MonthMarker(month))
	return sb.String()
}
