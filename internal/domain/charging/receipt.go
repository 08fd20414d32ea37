package charging

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/rogerioboitto/casa-backend/internal/domain/shared/valueobject"
)

// ReceiptData is everything the receipt renderer needs. The engine never
// inspects the rendered bytes; they go straight to the provider as an
// attachment.
type ReceiptData struct {
	TenantName      string
	PropertyAddress string
	Month           valueobject.ReferenceMonth
	Breakdown       ChargeBreakdown
	DueDate         time.Time
	Discount        decimal.Decimal
	Description     string
}

// ReceiptGenerator is the outbound port to the document renderer
type ReceiptGenerator interface {
	Generate(data ReceiptData) ([]byte, error)
}
