package charging

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	appbilling "github.com/rogerioboitto/casa-backend/internal/application/billing"
	"github.com/rogerioboitto/casa-backend/internal/domain/charging"
	"github.com/rogerioboitto/casa-backend/internal/domain/portfolio"
	"github.com/rogerioboitto/casa-backend/internal/domain/shared/valueobject"
)

// ChargeOptions carries the issuance tunables taken from configuration
type ChargeOptions struct {
	// PageLimit is the page size requested from the provider when listing
	// payments. Reconciliation only prunes when the reported total fits in
	// one page.
	PageLimit int
	// Discount is the fixed early-payment discount amount; zero disables it
	Discount decimal.Decimal
}

// ChargeResult is what a successful issuance produced
type ChargeResult struct {
	Payment     *charging.Payment
	Tenant      *portfolio.Tenant
	Breakdown   charging.ChargeBreakdown
	Description string
	DueDate     time.Time
}

// ChargeService produces exactly one outstanding charge per tenant and month
// against the external payment provider, and keeps the local charge ledger
// reconciled with the provider's state.
type ChargeService struct {
	statements *appbilling.StatementService
	tenants    portfolio.TenantRepository
	properties portfolio.PropertyRepository
	provider   charging.PaymentProvider
	ledger     charging.ChargeLedger
	receipts   charging.ReceiptGenerator
	opts       ChargeOptions
	logger     *zap.Logger

	// inFlight marks tenants with an issuance still running in this process.
	// Cooperative only: two processes can still race, the remote description
	// check is the last line of defense.
	inFlight sync.Map
}

// NewChargeService creates a charge issuance service
func NewChargeService(
	statements *appbilling.StatementService,
	tenants portfolio.TenantRepository,
	properties portfolio.PropertyRepository,
	provider charging.PaymentProvider,
	ledger charging.ChargeLedger,
	receipts charging.ReceiptGenerator,
	opts ChargeOptions,
	logger *zap.Logger,
) *ChargeService {
	if opts.PageLimit <= 0 {
		opts.PageLimit = 100
	}
	return &ChargeService{
		statements: statements,
		tenants:    tenants,
		properties: properties,
		provider:   provider,
		ledger:     ledger,
		receipts:   receipts,
		opts:       opts,
		logger:     logger,
	}
}

// IssueCharge creates the rent-plus-utilities charge for a property and
// reference month. Preconditions fail fast, each with its own error; the only
// retried failure is a stale customer reference, retried exactly once after
// re-resolving the customer.
func (s *ChargeService) IssueCharge(ctx context.Context, propertyID string, month valueobject.ReferenceMonth) (*ChargeResult, error) {
	property, err := s.properties.FindByID(ctx, propertyID)
	if err != nil {
		return nil, err
	}
	tenants, err := s.tenants.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load tenants: %w", err)
	}
	tenant, err := portfolio.ResolveResponsibleTenant(property, month, tenants)
	if err != nil {
		return nil, err
	}

	if _, loaded := s.inFlight.LoadOrStore(tenant.ID, struct{}{}); loaded {
		return nil, charging.ErrChargeInFlight
	}
	defer s.inFlight.Delete(tenant.ID)

	if tenant.CleanTaxID() == "" {
		return nil, charging.ErrMissingTaxID
	}
	if tenant.DueDay < 1 {
		return nil, charging.ErrMissingDueDay
	}

	key := charging.NewChargeKey(tenant.ID, month)
	cached, err := s.ledger.Has(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("consult charge ledger: %w", err)
	}
	if cached {
		return nil, charging.ErrDuplicateCharge
	}
	remote, err := s.remoteDuplicate(ctx, tenant, month)
	if err != nil {
		return nil, err
	}
	if remote {
		s.logger.Warn("Remote charge found outside local ledger",
			zap.String("tenant_id", tenant.ID),
			zap.String("month", month.String()))
		return nil, charging.ErrDuplicateCharge
	}

	breakdown, err := s.breakdownFor(ctx, property, month)
	if err != nil {
		return nil, err
	}
	total := breakdown.Total()
	if total.Sign() <= 0 {
		return nil, charging.ErrNothingToCharge
	}

	customerID, err := s.resolveCustomer(ctx, tenant)
	if err != nil {
		return nil, err
	}

	dueDate, ok := charging.DueDate(month, tenant.DueDay)
	if !ok {
		return nil, charging.ErrMissingDueDay
	}
	description := charging.BuildDescription(property.Address, month, breakdown)

	req := charging.CreatePaymentRequest{
		CustomerID:  customerID,
		Value:       total,
		DueDate:     dueDate,
		Description: description,
	}
	if s.opts.Discount.Sign() > 0 {
		req.Discount = &charging.Discount{
			Value:     s.opts.Discount,
			LimitDate: charging.DiscountLimit(dueDate),
		}
	}

	payment, err := s.provider.CreatePayment(ctx, req)
	if errors.Is(err, charging.ErrStaleCustomerReference) {
		s.logger.Warn("Stale customer reference, recreating customer",
			zap.String("tenant_id", tenant.ID),
			zap.String("customer_ref", customerID))
		customerID, err = s.recreateCustomer(ctx, tenant)
		if err != nil {
			return nil, err
		}
		req.CustomerID = customerID
		payment, err = s.provider.CreatePayment(ctx, req)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", charging.ErrChargeSubmissionFailed, err)
	}

	if err := s.ledger.Put(ctx, key, payment.ID); err != nil {
		// The remote charge exists; a failed ledger write must not report
		// failure or the operator would retry and double-charge.
		s.logger.Error("Charge created but ledger write failed",
			zap.String("charge_key", key.String()),
			zap.String("payment_id", payment.ID),
			zap.Error(err))
	}

	s.attachReceipt(ctx, payment.ID, charging.ReceiptData{
		TenantName:      tenant.Name,
		PropertyAddress: property.Address,
		Month:           month,
		Breakdown:       breakdown,
		DueDate:         dueDate,
		Discount:        s.opts.Discount,
		Description:     description,
	})

	s.logger.Info("Charge issued",
		zap.String("tenant_id", tenant.ID),
		zap.String("month", month.String()),
		zap.String("payment_id", payment.ID),
		zap.String("total", total.StringFixed(2)))

	return &ChargeResult{
		Payment:     payment,
		Tenant:      tenant,
		Breakdown:   breakdown,
		Description: description,
		DueDate:     dueDate,
	}, nil
}

// SyncLedger reconciles the local ledger against the provider for a reference
// month and the one after it. When the provider reports more matches than one
// page for any observed month the whole sync is a silent no-op; pruning from
// a partial observation could re-enable duplicate charges.
func (s *ChargeService) SyncLedger(ctx context.Context, month valueobject.ReferenceMonth) ([]charging.ChargeKey, error) {
	next, ok := month.Next()
	if !ok {
		return nil, fmt.Errorf("invalid reference month %q", month)
	}
	months := []valueobject.ReferenceMonth{month, next}

	remoteIDs := make(map[string]struct{})
	for _, m := range months {
		page, exhaustive, err := s.listDueWindow(ctx, m)
		if err != nil {
			return nil, err
		}
		if !exhaustive {
			s.logger.Debug("Ledger sync skipped, remote page not exhaustive",
				zap.String("month", m.String()),
				zap.Int("total_count", page.TotalCount),
				zap.Int("limit", s.opts.PageLimit))
			return nil, nil
		}
		for _, p := range page.Items {
			remoteIDs[p.ID] = struct{}{}
		}
	}

	removed, err := s.ledger.Reconcile(ctx, months, remoteIDs)
	if err != nil {
		return nil, fmt.Errorf("reconcile ledger: %w", err)
	}
	if len(removed) > 0 {
		s.logger.Info("Ledger entries pruned",
			zap.Int("count", len(removed)),
			zap.String("month", month.String()))
	}
	return removed, nil
}

// DeleteCharge removes a charge from the provider and drops the matching
// ledger entry
func (s *ChargeService) DeleteCharge(ctx context.Context, paymentID string) error {
	if err := s.provider.DeletePayment(ctx, paymentID); err != nil {
		return fmt.Errorf("delete payment: %w", err)
	}
	entries, err := s.ledger.Entries(ctx)
	if err != nil {
		return fmt.Errorf("list ledger entries: %w", err)
	}
	for key, id := range entries {
		if id != paymentID {
			continue
		}
		if err := s.ledger.Remove(ctx, key); err != nil {
			return fmt.Errorf("remove ledger entry: %w", err)
		}
		s.logger.Info("Charge deleted",
			zap.String("payment_id", paymentID),
			zap.String("charge_key", key.String()))
		return nil
	}
	s.logger.Info("Charge deleted, no ledger entry", zap.String("payment_id", paymentID))
	return nil
}

// Payments lists provider charges due within the given calendar month,
// for the payments dashboard
func (s *ChargeService) Payments(ctx context.Context, dueMonth valueobject.ReferenceMonth, offset int) (*charging.PaymentPage, error) {
	from, ok := dueMonth.FirstDay()
	if !ok {
		return nil, fmt.Errorf("invalid month %q", dueMonth)
	}
	to, _ := dueMonth.LastDay()
	page, err := s.provider.ListPayments(ctx, charging.ListPaymentsFilter{
		DueDateFrom: from,
		DueDateTo:   to,
		Limit:       s.opts.PageLimit,
		Offset:      offset,
	})
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	return page, nil
}

// breakdownFor assembles the rent-plus-utilities breakdown from the computed
// statement group for the property and month. A missing group means utilities
// are simply zero for the month; rent is still charged.
func (s *ChargeService) breakdownFor(ctx context.Context, property *portfolio.Property, month valueobject.ReferenceMonth) (charging.ChargeBreakdown, error) {
	b := charging.ChargeBreakdown{
		Rent:   property.BaseRent,
		Energy: decimal.Zero,
		Water:  decimal.Zero,
	}
	groups, err := s.statements.Statements(ctx, month)
	if err != nil {
		return b, err
	}
	for _, g := range groups {
		if g.Property == nil || g.Property.ID != property.ID {
			continue
		}
		if g.Energy.HasTotal {
			b.Energy = b.Energy.Add(g.Energy.Total)
		}
		if g.Water.HasTotal {
			b.Water = b.Water.Add(g.Water.Total)
		}
	}
	return b, nil
}

// remoteDuplicate checks the provider for a charge already carrying this
// month's description marker for the tenant's customer. Tenants with no
// provider record yet cannot have remote charges.
func (s *ChargeService) remoteDuplicate(ctx context.Context, tenant *portfolio.Tenant, month valueobject.ReferenceMonth) (bool, error) {
	customerID := tenant.CustomerRef
	if customerID == "" {
		customer, err := s.provider.FindCustomerByTaxID(ctx, tenant.CleanTaxID())
		if err != nil {
			return false, fmt.Errorf("%w: %v", charging.ErrCustomerResolutionFailed, err)
		}
		if customer == nil {
			return false, nil
		}
		customerID = customer.ID
	}

	// Charges normally fall due in the month after the reference month, but
	// manually created ones may be due inside the reference month itself, so
	// both windows are scanned for the marker.
	windows := []valueobject.ReferenceMonth{month}
	if next, ok := month.Next(); ok {
		windows = append(windows, next)
	}
	for _, window := range windows {
		page, _, err := s.listCustomerWindow(ctx, customerID, window)
		if err != nil {
			return false, err
		}
		for _, p := range page.Items {
			if charging.HasMonthMarker(p.Description, month) {
				return true, nil
			}
		}
	}
	return false, nil
}

// resolveCustomer returns the tenant's provider customer id, creating the
// customer when none exists and persisting the reference so future months
// skip resolution
func (s *ChargeService) resolveCustomer(ctx context.Context, tenant *portfolio.Tenant) (string, error) {
	if tenant.CustomerRef != "" {
		return tenant.CustomerRef, nil
	}
	return s.recreateCustomer(ctx, tenant)
}

// recreateCustomer searches the provider by tax id and creates the customer
// when absent. A creation conflict (the customer appeared between search and
// create) falls back to one more search.
func (s *ChargeService) recreateCustomer(ctx context.Context, tenant *portfolio.Tenant) (string, error) {
	taxID := tenant.CleanTaxID()
	customer, err := s.provider.FindCustomerByTaxID(ctx, taxID)
	if err != nil {
		return "", fmt.Errorf("%w: %v", charging.ErrCustomerResolutionFailed, err)
	}
	if customer == nil {
		customer, err = s.provider.CreateCustomer(ctx, charging.Customer{
			Name:  tenant.Name,
			Email: tenant.ContactEmail(),
			Phone: tenant.CleanPhone(),
			TaxID: taxID,
		})
		if err != nil {
			customer, err = s.provider.FindCustomerByTaxID(ctx, taxID)
			if err != nil || customer == nil {
				return "", fmt.Errorf("%w: %v", charging.ErrCustomerResolutionFailed, err)
			}
		}
	}

	// Persist before any payment attempt so a later submission failure
	// never re-creates a duplicate customer.
	if err := s.tenants.UpdateCustomerRef(ctx, tenant.ID, customer.ID); err != nil {
		return "", fmt.Errorf("persist customer reference: %w", err)
	}
	tenant.CustomerRef = customer.ID
	return customer.ID, nil
}

// listDueWindow fetches one page of charges whose due date falls in the
// month after the reference month, where this office's due dates land.
// The second return reports whether the page covered every match.
func (s *ChargeService) listDueWindow(ctx context.Context, month valueobject.ReferenceMonth) (*charging.PaymentPage, bool, error) {
	next, ok := month.Next()
	if !ok {
		return &charging.PaymentPage{}, true, nil
	}
	return s.listWindow(ctx, "", next)
}

func (s *ChargeService) listCustomerWindow(ctx context.Context, customerID string, dueMonth valueobject.ReferenceMonth) (*charging.PaymentPage, bool, error) {
	return s.listWindow(ctx, customerID, dueMonth)
}

func (s *ChargeService) listWindow(ctx context.Context, customerID string, dueMonth valueobject.ReferenceMonth) (*charging.PaymentPage, bool, error) {
	from, ok := dueMonth.FirstDay()
	if !ok {
		return &charging.PaymentPage{}, true, nil
	}
	to, _ := dueMonth.LastDay()
	page, err := s.provider.ListPayments(ctx, charging.ListPaymentsFilter{
		CustomerID:  customerID,
		DueDateFrom: from,
		DueDateTo:   to,
		Limit:       s.opts.PageLimit,
	})
	if err != nil {
		return nil, false, fmt.Errorf("list payments: %w", err)
	}
	return page, page.TotalCount <= s.opts.PageLimit, nil
}

// attachReceipt renders and uploads the charge receipt. Attachment is best
// effort: the charge already exists, so failures are logged, not returned.
func (s *ChargeService) attachReceipt(ctx context.Context, paymentID string, data charging.ReceiptData) {
	if s.receipts == nil {
		return
	}
	content, err := s.receipts.Generate(data)
	if err != nil {
		s.logger.Warn("Receipt generation failed",
			zap.String("payment_id", paymentID),
			zap.Error(err))
		return
	}
	fileName := fmt.Sprintf("recibo-%s.pdf", data.Month)
	if err := s.provider.AttachDocument(ctx, paymentID, fileName, content); err != nil {
		s.logger.Warn("Receipt attachment failed",
			zap.String("payment_id", paymentID),
			zap.Error(err))
	}
}
