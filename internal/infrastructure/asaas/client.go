package asaas

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/rogerioboitto/casa-backend/internal/domain/charging"
	"github.com/rogerioboitto/casa-backend/internal/infrastructure/config"
)

const (
	dateLayout = "2006-01-02"

	// staleCustomerCode is the provider's error code for a customer id that
	// no longer resolves (removed or merged on their side)
	staleCustomerCode = "invalid_customer"

	// Late-payment terms applied to every boleto: 2% fine plus 1% monthly interest
	fineValue     = 2.0
	interestValue = 1.0
)

// Client implements charging.PaymentProvider against the Asaas REST API
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *zap.Logger
}

var _ charging.PaymentProvider = (*Client)(nil)

// NewClient creates an Asaas API client
func NewClient(cfg config.AsaasConfig, logger *zap.Logger) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger.Named("asaas"),
	}
}

// FindCustomerByTaxID searches customers by CPF/CNPJ. Returns (nil, nil)
// when no customer matches.
func (c *Client) FindCustomerByTaxID(ctx context.Context, taxID string) (*charging.Customer, error) {
	q := url.Values{}
	q.Set("cpfCnpj", taxID)

	var out customerListResponse
	if err := c.do(ctx, http.MethodGet, "/customers?"+q.Encode(), nil, &out); err != nil {
		return nil, err
	}
	if len(out.Data) == 0 {
		return nil, nil
	}
	return toCustomer(&out.Data[0]), nil
}

// CreateCustomer registers a new payer record
func (c *Client) CreateCustomer(ctx context.Context, customer charging.Customer) (*charging.Customer, error) {
	payload := customerPayload{
		Name:    customer.Name,
		Email:   customer.Email,
		Phone:   customer.Phone,
		CpfCnpj: customer.TaxID,
	}
	var out customerResponse
	if err := c.do(ctx, http.MethodPost, "/customers", payload, &out); err != nil {
		return nil, err
	}
	c.logger.Info("Customer created", zap.String("customer_id", out.ID))
	return toCustomer(&out), nil
}

// CreatePayment issues a boleto charge
func (c *Client) CreatePayment(ctx context.Context, req charging.CreatePaymentRequest) (*charging.Payment, error) {
	value, _ := req.Value.Round(2).Float64()
	payload := paymentPayload{
		Customer:    req.CustomerID,
		BillingType: "BOLETO",
		Value:       value,
		DueDate:     req.DueDate.Format(dateLayout),
		Description: req.Description,
		Fine:        &finePayload{Value: fineValue},
		Interest:    &interestPayload{Value: interestValue},
	}
	if req.Discount != nil && req.Discount.Value.Sign() > 0 {
		discount, _ := req.Discount.Value.Round(2).Float64()
		days := int(req.DueDate.Sub(req.Discount.LimitDate).Hours() / 24)
		if days < 0 {
			days = 0
		}
		payload.Discount = &discountPayload{
			Value:            discount,
			DueDateLimitDays: days,
			Type:             "FIXED",
		}
	}

	var out paymentResponse
	if err := c.do(ctx, http.MethodPost, "/payments", payload, &out); err != nil {
		return nil, err
	}
	return toPayment(&out), nil
}

// DeletePayment removes an outstanding charge
func (c *Client) DeletePayment(ctx context.Context, paymentID string) error {
	return c.do(ctx, http.MethodDelete, "/payments/"+paymentID, nil, nil)
}

// ListPayments returns one page of charges matching the filter
func (c *Client) ListPayments(ctx context.Context, f charging.ListPaymentsFilter) (*charging.PaymentPage, error) {
	q := url.Values{}
	if f.CustomerID != "" {
		q.Set("customer", f.CustomerID)
	}
	if !f.DueDateFrom.IsZero() {
		q.Set("dueDate[ge]", f.DueDateFrom.Format(dateLayout))
	}
	if !f.DueDateTo.IsZero() {
		q.Set("dueDate[le]", f.DueDateTo.Format(dateLayout))
	}
	if f.Limit > 0 {
		q.Set("limit", strconv.Itoa(f.Limit))
	}
	if f.Offset > 0 {
		q.Set("offset", strconv.Itoa(f.Offset))
	}

	var out paymentListResponse
	if err := c.do(ctx, http.MethodGet, "/payments?"+q.Encode(), nil, &out); err != nil {
		return nil, err
	}

	page := &charging.PaymentPage{
		Items:      make([]charging.Payment, 0, len(out.Data)),
		TotalCount: out.TotalCount,
	}
	for i := range out.Data {
		page.Items = append(page.Items, *toPayment(&out.Data[i]))
	}
	return page, nil
}

// AttachDocument uploads a document onto a payment as a multipart form
func (c *Client) AttachDocument(ctx context.Context, paymentID, fileName string, content []byte) error {
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("file", fileName)
	if err != nil {
		return fmt.Errorf("build multipart form: %w", err)
	}
	if _, err := part.Write(content); err != nil {
		return fmt.Errorf("write multipart form: %w", err)
	}
	if err := w.WriteField("type", "DOCUMENT"); err != nil {
		return fmt.Errorf("write multipart form: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("close multipart form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/payments/"+paymentID+"/documents", &body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("access_token", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("asaas request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return c.asError(resp)
	}
	return nil
}

// do executes a JSON request against the API and decodes the response into
// out when non-nil
func (c *Client) do(ctx context.Context, method, path string, payload, out any) error {
	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("access_token", c.apiKey)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("asaas request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return c.asError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// asError translates an API error body into a domain error where one is
// defined, keeping the provider's description for the operator
func (c *Client) asError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))

	var parsed errorResponse
	if err := json.Unmarshal(raw, &parsed); err == nil && len(parsed.Errors) > 0 {
		first := parsed.Errors[0]
		c.logger.Warn("Asaas API error",
			zap.Int("status", resp.StatusCode),
			zap.String("code", first.Code),
			zap.String("description", first.Description))
		if first.Code == staleCustomerCode {
			return fmt.Errorf("%w: %s", charging.ErrStaleCustomerReference, first.Description)
		}
		return fmt.Errorf("asaas: %s (%s)", first.Description, first.Code)
	}

	c.logger.Warn("Asaas API error",
		zap.Int("status", resp.StatusCode),
		zap.ByteString("body", raw))
	return fmt.Errorf("asaas: unexpected status %d", resp.StatusCode)
}

func toCustomer(r *customerResponse) *charging.Customer {
	return &charging.Customer{
		ID:    r.ID,
		Name:  r.Name,
		Email: r.Email,
		Phone: r.Phone,
		TaxID: r.CpfCnpj,
	}
}

func toPayment(r *paymentResponse) *charging.Payment {
	due, _ := time.Parse(dateLayout, r.DueDate)
	return &charging.Payment{
		ID:          r.ID,
		CustomerID:  r.Customer,
		Value:       decimal.NewFromFloat(r.Value),
		DueDate:     due,
		Description: r.Description,
		Status:      r.Status,
		InvoiceURL:  r.InvoiceURL,
	}
}
