package charging

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestBuildDescription(t *testing.T) {
	b := ChargeBreakdown{
		Rent:   decimal.NewFromInt(1200),
		Energy: decimal.NewFromFloat(31.5),
		Water:  decimal.NewFromInt(35),
	}
	desc := BuildDescription("Rua A, 10", "2024-03", b)

	assert.Contains(t, desc, "Março/2024")
	assert.Contains(t, desc, "Aluguel: R$ 1200.00")
	assert.Contains(t, desc, "Energia: R$ 31.50")
	assert.Contains(t, desc, "Água: R$ 35.00")
	assert.True(t, strings.HasSuffix(desc, "Ref: 2024-03"), "marker must close the description")
	assert.True(t, HasMonthMarker(desc, "2024-03"))
	assert.False(t, HasMonthMarker(desc, "2024-04"))
}

func TestBuildDescription_OmitsZeroUtilities(t *testing.T) {
	b := ChargeBreakdown{Rent: decimal.NewFromInt(900)}
	desc := BuildDescription("Rua B, 22", "2024-05", b)

	assert.NotContains(t, desc, "Energia")
	assert.NotContains(t, desc, "Água")
	assert.True(t, HasMonthMarker(desc, "2024-05"))
}

func TestChargeBreakdown_Total(t *testing.T) {
	b := ChargeBreakdown{
		Rent:   decimal.NewFromInt(1000),
		Energy: decimal.NewFromFloat(31.5),
		Water:  decimal.NewFromFloat(18.5),
	}
	assert.True(t, b.Total().Equal(decimal.NewFromInt(1050)))
}
