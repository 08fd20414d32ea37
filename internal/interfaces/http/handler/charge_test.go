package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	appbilling "github.com/rogerioboitto/casa-backend/internal/application/billing"
	appcharging "github.com/rogerioboitto/casa-backend/internal/application/charging"
	"github.com/rogerioboitto/casa-backend/internal/domain/billing"
	"github.com/rogerioboitto/casa-backend/internal/domain/charging"
	"github.com/rogerioboitto/casa-backend/internal/domain/portfolio"
	"github.com/rogerioboitto/casa-backend/internal/domain/shared/valueobject"
)

type mockTenantRepository struct {
	mock.Mock
}

func (m *mockTenantRepository) FindByID(ctx context.Context, id string) (*portfolio.Tenant, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*portfolio.Tenant), args.Error(1)
}

func (m *mockTenantRepository) FindAll(ctx context.Context) ([]portfolio.Tenant, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]portfolio.Tenant), args.Error(1)
}

func (m *mockTenantRepository) Save(ctx context.Context, tenant *portfolio.Tenant) error {
	args := m.Called(ctx, tenant)
	return args.Error(0)
}

func (m *mockTenantRepository) UpdateCustomerRef(ctx context.Context, tenantID, customerRef string) error {
	args := m.Called(ctx, tenantID, customerRef)
	return args.Error(0)
}

type mockPaymentProvider struct {
	mock.Mock
}

func (m *mockPaymentProvider) FindCustomerByTaxID(ctx context.Context, taxID string) (*charging.Customer, error) {
	args := m.Called(ctx, taxID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*charging.Customer), args.Error(1)
}

func (m *mockPaymentProvider) CreateCustomer(ctx context.Context, c charging.Customer) (*charging.Customer, error) {
	args := m.Called(ctx, c)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*charging.Customer), args.Error(1)
}

func (m *mockPaymentProvider) CreatePayment(ctx context.Context, req charging.CreatePaymentRequest) (*charging.Payment, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*charging.Payment), args.Error(1)
}

func (m *mockPaymentProvider) DeletePayment(ctx context.Context, paymentID string) error {
	args := m.Called(ctx, paymentID)
	return args.Error(0)
}

func (m *mockPaymentProvider) ListPayments(ctx context.Context, f charging.ListPaymentsFilter) (*charging.PaymentPage, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*charging.PaymentPage), args.Error(1)
}

func (m *mockPaymentProvider) AttachDocument(ctx context.Context, paymentID, fileName string, content []byte) error {
	args := m.Called(ctx, paymentID, fileName, content)
	return args.Error(0)
}

type mockChargeLedger struct {
	mock.Mock
}

func (m *mockChargeLedger) Has(ctx context.Context, key charging.ChargeKey) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}

func (m *mockChargeLedger) Get(ctx context.Context, key charging.ChargeKey) (string, bool, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Bool(1), args.Error(2)
}

func (m *mockChargeLedger) Put(ctx context.Context, key charging.ChargeKey, paymentID string) error {
	args := m.Called(ctx, key, paymentID)
	return args.Error(0)
}

func (m *mockChargeLedger) Remove(ctx context.Context, key charging.ChargeKey) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *mockChargeLedger) Entries(ctx context.Context) (map[charging.ChargeKey]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[charging.ChargeKey]string), args.Error(1)
}

func (m *mockChargeLedger) Reconcile(ctx context.Context, months []valueobject.ReferenceMonth, remoteIDs map[string]struct{}) ([]charging.ChargeKey, error) {
	args := m.Called(ctx, months, remoteIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]charging.ChargeKey), args.Error(1)
}

type mockReceiptGenerator struct {
	mock.Mock
}

func (m *mockReceiptGenerator) Generate(data charging.ReceiptData) ([]byte, error) {
	args := m.Called(data)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

type chargeHandlerFixture struct {
	engine     *gin.Engine
	artifacts  *mockArtifactRepository
	properties *mockPropertyRepository
	tenants    *mockTenantRepository
	provider   *mockPaymentProvider
	ledger     *mockChargeLedger
	receipts   *mockReceiptGenerator
}

func newChargeHandlerFixture() *chargeHandlerFixture {
	gin.SetMode(gin.TestMode)
	f := &chargeHandlerFixture{
		artifacts:  new(mockArtifactRepository),
		properties: new(mockPropertyRepository),
		tenants:    new(mockTenantRepository),
		provider:   new(mockPaymentProvider),
		ledger:     new(mockChargeLedger),
		receipts:   new(mockReceiptGenerator),
	}
	statements := appbilling.NewStatementService(f.artifacts, f.properties, zap.NewNop())
	charges := appcharging.NewChargeService(
		statements, f.tenants, f.properties, f.provider, f.ledger, f.receipts,
		appcharging.ChargeOptions{PageLimit: 100, Discount: decimal.NewFromInt(50)},
		zap.NewNop(),
	)
	f.engine = gin.New()
	NewChargeHandler(charges).RegisterRoutes(f.engine.Group("/api/v1"))
	return f
}

func (f *chargeHandlerFixture) stubIssuable() {
	property := &portfolio.Property{ID: "prop-1", Address: "Rua A, 10", BaseRent: decimal.NewFromInt(1200), TenantID: "t1"}
	f.properties.On("FindByID", mock.Anything, "prop-1").Return(property, nil)
	f.properties.On("FindAll", mock.Anything).Return([]portfolio.Property{*property}, nil)
	f.tenants.On("FindAll", mock.Anything).Return([]portfolio.Tenant{{
		ID: "t1", Name: "Maria Souza", TaxID: "529.982.247-25", PropertyID: "prop-1", DueDay: 10, CustomerRef: "cus_1",
	}}, nil)
	f.artifacts.On("FindAll", mock.Anything).Return([]billing.BillArtifact{}, nil)
}

func (f *chargeHandlerFixture) post(path, payload string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	f.engine.ServeHTTP(rec, req)
	return rec
}

func TestChargeHandler_Issue(t *testing.T) {
	f := newChargeHandlerFixture()
	f.stubIssuable()

	f.ledger.On("Has", mock.Anything, charging.NewChargeKey("t1", "2024-03")).Return(false, nil)
	f.provider.On("ListPayments", mock.Anything, mock.Anything).Return(&charging.PaymentPage{}, nil)
	f.provider.On("CreatePayment", mock.Anything, mock.Anything).Return(&charging.Payment{
		ID:         "pay_1",
		CustomerID: "cus_1",
		Value:      decimal.NewFromInt(1200),
		DueDate:    time.Date(2024, 4, 10, 0, 0, 0, 0, time.UTC),
		InvoiceURL: "https://pay.example/pay_1",
	}, nil)
	f.ledger.On("Put", mock.Anything, charging.NewChargeKey("t1", "2024-03"), "pay_1").Return(nil)
	f.receipts.On("Generate", mock.Anything).Return([]byte("%PDF"), nil)
	f.provider.On("AttachDocument", mock.Anything, "pay_1", "recibo-2024-03.pdf", []byte("%PDF")).Return(nil)

	rec := f.post("/api/v1/charges", `{"property_id":"prop-1","reference_month":"2024-03"}`)

	require.Equal(t, http.StatusCreated, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `"payment_id":"pay_1"`)
	assert.Contains(t, body, `"tenant_id":"t1"`)
	assert.Contains(t, body, `"due_date":"2024-04-10"`)
	assert.Contains(t, body, `"rent":"1200.00"`)
	f.provider.AssertExpectations(t)
}

func TestChargeHandler_Issue_InvalidMonth(t *testing.T) {
	f := newChargeHandlerFixture()
	rec := f.post("/api/v1/charges", `{"property_id":"prop-1","reference_month":"março"}`)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "INVALID_INPUT")
}

func TestChargeHandler_Issue_Duplicate(t *testing.T) {
	f := newChargeHandlerFixture()
	f.stubIssuable()
	f.ledger.On("Has", mock.Anything, charging.NewChargeKey("t1", "2024-03")).Return(true, nil)

	rec := f.post("/api/v1/charges", `{"property_id":"prop-1","reference_month":"2024-03"}`)

	require.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "DUPLICATE_CHARGE")
}

func TestChargeHandler_Issue_NoResponsibleTenant(t *testing.T) {
	f := newChargeHandlerFixture()
	property := &portfolio.Property{ID: "prop-1", Address: "Rua A, 10", BaseRent: decimal.NewFromInt(1200)}
	f.properties.On("FindByID", mock.Anything, "prop-1").Return(property, nil)
	f.tenants.On("FindAll", mock.Anything).Return([]portfolio.Tenant{}, nil)

	rec := f.post("/api/v1/charges", `{"property_id":"prop-1","reference_month":"2024-03"}`)

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "NO_RESPONSIBLE_TENANT")
}

func TestChargeHandler_Sync(t *testing.T) {
	f := newChargeHandlerFixture()
	f.provider.On("ListPayments", mock.Anything, mock.Anything).Return(&charging.PaymentPage{
		Items:      []charging.Payment{{ID: "pay_1"}},
		TotalCount: 1,
	}, nil)
	f.ledger.On("Reconcile", mock.Anything, mock.Anything, mock.Anything).
		Return([]charging.ChargeKey{charging.NewChargeKey("t2", "2024-03")}, nil)

	rec := f.post("/api/v1/charges/sync", `{"reference_month":"2024-03"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "t2-2024-03")
}

func TestChargeHandler_Delete(t *testing.T) {
	f := newChargeHandlerFixture()
	f.provider.On("DeletePayment", mock.Anything, "pay_1").Return(nil)
	f.ledger.On("Entries", mock.Anything).Return(map[charging.ChargeKey]string{
		charging.NewChargeKey("t1", "2024-03"): "pay_1",
	}, nil)
	f.ledger.On("Remove", mock.Anything, charging.NewChargeKey("t1", "2024-03")).Return(nil)

	rec := httptest.NewRecorder()
	f.engine.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/v1/charges/pay_1", nil))

	assert.Equal(t, http.StatusNoContent, rec.Code)
	f.ledger.AssertExpectations(t)
}

func TestChargeHandler_Payments(t *testing.T) {
	f := newChargeHandlerFixture()
	f.provider.On("ListPayments", mock.Anything, mock.MatchedBy(func(filter charging.ListPaymentsFilter) bool {
		return filter.Offset == 40 &&
			filter.DueDateFrom.Format("2006-01-02") == "2024-04-01" &&
			filter.DueDateTo.Format("2006-01-02") == "2024-04-30"
	})).Return(&charging.PaymentPage{
		Items: []charging.Payment{{
			ID:      "pay_1",
			Value:   decimal.NewFromFloat(1231.5),
			DueDate: time.Date(2024, 4, 10, 0, 0, 0, 0, time.UTC),
			Status:  "PENDING",
		}},
		TotalCount: 41,
	}, nil)

	rec := httptest.NewRecorder()
	f.engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/payments?month=2024-04&offset=40", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `"value":"1231.50"`)
	assert.Contains(t, body, `"total_count":41`)
	assert.Contains(t, body, `"PENDING":{"count":1,"value":"1231.50"}`)
}
