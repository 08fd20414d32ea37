package charging

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Customer is the provider-side payer record for a tenant
type Customer struct {
	ID    string
	Name  string
	Email string
	Phone string
	TaxID string
}

// Discount is a fixed amount valid until LimitDate (inclusive)
type Discount struct {
	Value     decimal.Decimal
	LimitDate time.Time
}

// CreatePaymentRequest carries everything the provider needs to issue a
// charge. The description embeds the reference-month marker used for
// duplicate detection.
type CreatePaymentRequest struct {
	CustomerID  string
	Value       decimal.Decimal
	DueDate     time.Time
	Description string
	Discount    *Discount
}

// Payment is a charge as the provider reports it
type Payment struct {
	ID          string
	CustomerID  string
	Value       decimal.Decimal
	DueDate     time.Time
	Description string
	Status      string
	InvoiceURL  string
}

// PaymentPage is one page of a payment listing. TotalCount is the provider's
// count of all matches, not just the returned items; callers compare it to
// the requested limit to decide whether the observation was exhaustive.
type PaymentPage struct {
	Items      []Payment
	TotalCount int
}

// ListPaymentsFilter narrows a payment listing by due-date window
type ListPaymentsFilter struct {
	CustomerID  string
	DueDateFrom time.Time
	DueDateTo   time.Time
	Limit       int
	Offset      int
}

// PaymentProvider is the outbound port to the external payment ledger.
// Implementations live in infrastructure.
type PaymentProvider interface {
	// FindCustomerByTaxID returns the customer for a tax id, or (nil, nil)
	// when none exists
	FindCustomerByTaxID(ctx context.Context, taxID string) (*Customer, error)

	// CreateCustomer registers a new payer record
	CreateCustomer(ctx context.Context, c Customer) (*Customer, error)

	// CreatePayment issues a charge. A stale customer reference surfaces as
	// ErrStaleCustomerReference.
	CreatePayment(ctx context.Context, req CreatePaymentRequest) (*Payment, error)

	// DeletePayment removes an outstanding charge
	DeletePayment(ctx context.Context, paymentID string) error

	// ListPayments returns one page of charges matching the filter
	ListPayments(ctx context.Context, f ListPaymentsFilter) (*PaymentPage, error)

	// AttachDocument uploads a document (e.g. a receipt) onto a payment
	AttachDocument(ctx context.Context, paymentID, fileName string, content []byte) error
}
