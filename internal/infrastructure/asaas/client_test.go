package asaas

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/rogerioboitto/casa-backend/internal/domain/charging"
	"github.com/rogerioboitto/casa-backend/internal/infrastructure/config"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(config.AsaasConfig{
		BaseURL: srv.URL,
		APIKey:  "test-key",
		Timeout: 5 * time.Second,
	}, zap.NewNop())
}

func TestFindCustomerByTaxID(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/customers", r.URL.Path)
		assert.Equal(t, "52998224725", r.URL.Query().Get("cpfCnpj"))
		assert.Equal(t, "test-key", r.Header.Get("access_token"))
		json.NewEncoder(w).Encode(customerListResponse{
			Data:       []customerResponse{{ID: "cus_1", Name: "Maria", CpfCnpj: "52998224725"}},
			TotalCount: 1,
		})
	})

	customer, err := client.FindCustomerByTaxID(context.Background(), "52998224725")
	require.NoError(t, err)
	require.NotNil(t, customer)
	assert.Equal(t, "cus_1", customer.ID)
}

func TestFindCustomerByTaxID_Absent(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(customerListResponse{TotalCount: 0})
	})

	customer, err := client.FindCustomerByTaxID(context.Background(), "52998224725")
	require.NoError(t, err)
	assert.Nil(t, customer)
}

func TestCreatePayment(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/payments", r.URL.Path)

		var payload paymentPayload
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "cus_1", payload.Customer)
		assert.Equal(t, "BOLETO", payload.BillingType)
		assert.InDelta(t, 1231.5, payload.Value, 1e-9)
		assert.Equal(t, "2024-04-10", payload.DueDate)
		require.NotNil(t, payload.Discount)
		assert.Equal(t, 1, payload.Discount.DueDateLimitDays)
		assert.Equal(t, "FIXED", payload.Discount.Type)
		require.NotNil(t, payload.Fine)
		assert.InDelta(t, 2.0, payload.Fine.Value, 1e-9)

		json.NewEncoder(w).Encode(paymentResponse{
			ID: "pay_1", Customer: "cus_1", Value: 1231.5,
			DueDate: "2024-04-10", Status: "PENDING",
		})
	})

	due := time.Date(2024, 4, 10, 0, 0, 0, 0, time.UTC)
	payment, err := client.CreatePayment(context.Background(), charging.CreatePaymentRequest{
		CustomerID:  "cus_1",
		Value:       decimal.NewFromFloat(1231.5),
		DueDate:     due,
		Description: "Aluguel Março/2024\nRef: 2024-03",
		Discount: &charging.Discount{
			Value:     decimal.NewFromInt(50),
			LimitDate: due.AddDate(0, 0, -1),
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "pay_1", payment.ID)
	assert.Equal(t, "2024-04-10", payment.DueDate.Format("2006-01-02"))
}

func TestCreatePayment_StaleCustomer(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(errorResponse{
			Errors: []apiError{{Code: "invalid_customer", Description: "Cliente inválido ou inexistente"}},
		})
	})

	_, err := client.CreatePayment(context.Background(), charging.CreatePaymentRequest{
		CustomerID: "cus_gone",
		Value:      decimal.NewFromInt(100),
		DueDate:    time.Now(),
	})
	assert.ErrorIs(t, err, charging.ErrStaleCustomerReference)
}

func TestListPayments_Filter(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "2024-04-01", q.Get("dueDate[ge]"))
		assert.Equal(t, "2024-04-30", q.Get("dueDate[le]"))
		assert.Equal(t, "100", q.Get("limit"))
		json.NewEncoder(w).Encode(paymentListResponse{
			Data:       []paymentResponse{{ID: "pay_1", DueDate: "2024-04-10"}},
			TotalCount: 150,
		})
	})

	page, err := client.ListPayments(context.Background(), charging.ListPaymentsFilter{
		DueDateFrom: time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC),
		DueDateTo:   time.Date(2024, 4, 30, 0, 0, 0, 0, time.UTC),
		Limit:       100,
	})
	require.NoError(t, err)
	assert.Equal(t, 150, page.TotalCount, "total count passes through for exhaustiveness checks")
	require.Len(t, page.Items, 1)
}

func TestDeletePayment_Error(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/payments/pay_404", r.URL.Path)
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(errorResponse{
			Errors: []apiError{{Code: "invalid_object", Description: "Cobrança não encontrada"}},
		})
	})

	err := client.DeletePayment(context.Background(), "pay_404")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Cobrança não encontrada")
}

func TestAttachDocument(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/payments/pay_1/documents", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "DOCUMENT", r.FormValue("type"))

		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		assert.Equal(t, "recibo-2024-03.pdf", header.Filename)
		w.WriteHeader(http.StatusOK)
	})

	err := client.AttachDocument(context.Background(), "pay_1", "recibo-2024-03.pdf", []byte("%PDF-1.4"))
	require.NoError(t, err)
}
