package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	appcharging "github.com/rogerioboitto/casa-backend/internal/application/charging"
	"github.com/rogerioboitto/casa-backend/internal/domain/charging"
	"github.com/rogerioboitto/casa-backend/internal/domain/shared/valueobject"
	"github.com/rogerioboitto/casa-backend/internal/interfaces/http/dto"
)

// ChargeHandler exposes charge issuance and ledger maintenance endpoints
type ChargeHandler struct {
	BaseHandler
	charges *appcharging.ChargeService
}

// NewChargeHandler creates a new ChargeHandler
func NewChargeHandler(charges *appcharging.ChargeService) *ChargeHandler {
	return &ChargeHandler{charges: charges}
}

// IssueChargeRequest identifies the property and month to charge for
type IssueChargeRequest struct {
	PropertyID     string `json:"property_id" binding:"required"`
	ReferenceMonth string `json:"reference_month" binding:"required"`
}

// SyncLedgerRequest names the month whose ledger should be reconciled
type SyncLedgerRequest struct {
	ReferenceMonth string `json:"reference_month" binding:"required"`
}

// ChargeResponse describes an issued charge
type ChargeResponse struct {
	PaymentID   string          `json:"payment_id"`
	TenantID    string          `json:"tenant_id"`
	TenantName  string          `json:"tenant_name"`
	Value       string          `json:"value"`
	DueDate     string          `json:"due_date"`
	InvoiceURL  string          `json:"invoice_url,omitempty"`
	Description string          `json:"description"`
	Breakdown   ChargeBreakdown `json:"breakdown"`
}

// ChargeBreakdown itemizes the charged amount
type ChargeBreakdown struct {
	Rent   string `json:"rent"`
	Energy string `json:"energy"`
	Water  string `json:"water"`
}

// PaymentStatusTotal aggregates the listed payments of one status
type PaymentStatusTotal struct {
	Count int    `json:"count"`
	Value string `json:"value"`
}

// PaymentResponse mirrors one provider payment
type PaymentResponse struct {
	ID          string `json:"id"`
	CustomerID  string `json:"customer_id"`
	Value       string `json:"value"`
	DueDate     string `json:"due_date"`
	Status      string `json:"status"`
	Description string `json:"description"`
	InvoiceURL  string `json:"invoice_url,omitempty"`
}

// RegisterRoutes registers charge routes on the API group
func (h *ChargeHandler) RegisterRoutes(rg *gin.RouterGroup) {
	charges := rg.Group("/charges")
	{
		charges.POST("", h.Issue)
		charges.POST("/sync", h.Sync)
		charges.DELETE("/:paymentId", h.Delete)
	}
	rg.GET("/payments", h.Payments)
}

// Issue creates the charge for a property's responsible tenant and month
func (h *ChargeHandler) Issue(c *gin.Context) {
	var req IssueChargeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}
	month := valueobject.ReferenceMonth(req.ReferenceMonth)
	if !month.IsValid() {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidInput, "reference_month must be formatted as YYYY-MM")
		return
	}

	result, err := h.charges.IssueCharge(c.Request.Context(), req.PropertyID, month)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, ChargeResponse{
		PaymentID:   result.Payment.ID,
		TenantID:    result.Tenant.ID,
		TenantName:  result.Tenant.Name,
		Value:       result.Payment.Value.StringFixed(2),
		DueDate:     result.DueDate.Format("2006-01-02"),
		InvoiceURL:  result.Payment.InvoiceURL,
		Description: result.Description,
		Breakdown: ChargeBreakdown{
			Rent:   result.Breakdown.Rent.StringFixed(2),
			Energy: result.Breakdown.Energy.StringFixed(2),
			Water:  result.Breakdown.Water.StringFixed(2),
		},
	})
}

// Sync reconciles the local ledger against the provider for a month and the
// month after it
func (h *ChargeHandler) Sync(c *gin.Context) {
	var req SyncLedgerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}
	month := valueobject.ReferenceMonth(req.ReferenceMonth)
	if !month.IsValid() {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidInput, "reference_month must be formatted as YYYY-MM")
		return
	}

	removed, err := h.charges.SyncLedger(c.Request.Context(), month)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	keys := make([]string, 0, len(removed))
	for _, key := range removed {
		keys = append(keys, key.String())
	}
	h.Success(c, gin.H{"removed": keys})
}

// Delete cancels a payment at the provider and drops its ledger entry
func (h *ChargeHandler) Delete(c *gin.Context) {
	if err := h.charges.DeleteCharge(c.Request.Context(), c.Param("paymentId")); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Payments lists provider payments due in a month
func (h *ChargeHandler) Payments(c *gin.Context) {
	month := valueobject.ReferenceMonth(c.Query("month"))
	if !month.IsValid() {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidInput, "month must be formatted as YYYY-MM")
		return
	}
	offset := 0
	if raw := c.Query("offset"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidInput, "offset must be a non-negative integer")
			return
		}
		offset = parsed
	}

	page, err := h.charges.Payments(c.Request.Context(), month, offset)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	items := make([]PaymentResponse, 0, len(page.Items))
	counts := make(map[string]int)
	values := make(map[string]decimal.Decimal)
	for _, p := range page.Items {
		items = append(items, toPaymentResponse(p))
		counts[p.Status]++
		values[p.Status] = values[p.Status].Add(p.Value)
	}
	totals := make(map[string]PaymentStatusTotal, len(counts))
	for status, count := range counts {
		totals[status] = PaymentStatusTotal{Count: count, Value: values[status].StringFixed(2)}
	}
	h.Success(c, gin.H{
		"items":         items,
		"total_count":   page.TotalCount,
		"status_totals": totals,
	})
}

func toPaymentResponse(p charging.Payment) PaymentResponse {
	return PaymentResponse{
		ID:          p.ID,
		CustomerID:  p.CustomerID,
		Value:       p.Value.StringFixed(2),
		DueDate:     p.DueDate.Format("2006-01-02"),
		Status:      p.Status,
		Description: p.Description,
		InvoiceURL:  p.InvoiceURL,
	}
}
