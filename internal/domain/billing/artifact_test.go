package billing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func floatPtr(f float64) *float64 { return &f }

func TestClassify(t *testing.T) {
	tests := []struct {
		name           string
		fileName       string
		currentReading *float64
		want           BillKind
	}{
		{"meter index present", "conta-cpfl-marco.pdf", floatPtr(120), BillKindReading},
		{"reading token in file name", "Leitura_Medidor_03.jpg", nil, BillKindReading},
		{"plain invoice", "fatura-2024-03.pdf", nil, BillKindInvoice},
		{"ambiguous defaults to invoice", "scan001.pdf", nil, BillKindInvoice},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.fileName, tt.currentReading))
		})
	}
}

func TestBillArtifact_GroupKey(t *testing.T) {
	a := &BillArtifact{PropertyID: "prop-1", InstallationCode: "4001234567"}
	assert.Equal(t, "prop-1", a.GroupKey())

	a.PropertyID = ""
	assert.Equal(t, "inst_4001234567", a.GroupKey())

	a.InstallationCode = ""
	assert.Equal(t, "unknown", a.GroupKey())
}
