package charging

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rogerioboitto/casa-backend/internal/domain/shared/valueobject"
)

func TestDueDate(t *testing.T) {
	tests := []struct {
		name   string
		month  valueobject.ReferenceMonth
		dueDay int
		want   string
	}{
		{"plain day in next month", "2024-03", 10, "2024-04-10"},
		{"day 31 clamped to 30-day month", "2024-03", 31, "2024-04-30"},
		{"day 31 clamped to leap February", "2024-01", 31, "2024-02-29"},
		{"day 31 clamped to non-leap February", "2023-01", 31, "2023-02-28"},
		{"day 31 clamped in month after February 2024", "2024-02", 31, "2024-03-31"},
		{"december rolls into january", "2024-12", 5, "2025-01-05"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			due, ok := DueDate(tt.month, tt.dueDay)
			require.True(t, ok)
			assert.Equal(t, tt.want, due.Format("2006-01-02"))
		})
	}
}

func TestDueDate_Invalid(t *testing.T) {
	_, ok := DueDate("N/A", 10)
	assert.False(t, ok)

	_, ok = DueDate("2024-03", 0)
	assert.False(t, ok)
}

func TestDiscountLimit(t *testing.T) {
	due := time.Date(2024, time.April, 10, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "2024-04-09", DiscountLimit(due).Format("2006-01-02"))
}
