package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	appbilling "github.com/rogerioboitto/casa-backend/internal/application/billing"
	"github.com/rogerioboitto/casa-backend/internal/domain/billing"
	"github.com/rogerioboitto/casa-backend/internal/domain/shared/valueobject"
	"github.com/rogerioboitto/casa-backend/internal/interfaces/http/dto"
)

// StatementHandler exposes bill ingestion and monthly statement endpoints
type StatementHandler struct {
	BaseHandler
	statements *appbilling.StatementService
}

// NewStatementHandler creates a new StatementHandler
func NewStatementHandler(statements *appbilling.StatementService) *StatementHandler {
	return &StatementHandler{statements: statements}
}

// UploadBillRequest is the payload for registering a utility artifact
type UploadBillRequest struct {
	Utility           string   `json:"utility" binding:"required,oneof=ENERGY WATER"`
	FileName          string   `json:"file_name" binding:"required,max=255"`
	ReferenceMonth    string   `json:"reference_month" binding:"required"`
	PropertyID        string   `json:"property_id"`
	InstallationCode  string   `json:"installation_code"`
	MeterSerial       string   `json:"meter_serial"`
	CurrentReading    *float64 `json:"current_reading"`
	UnitCost          *float64 `json:"unit_cost"`
	FlagSurcharge     *float64 `json:"flag_surcharge"`
	RefundAmount      *float64 `json:"refund_amount"`
	MasterConsumption *float64 `json:"master_consumption"`
}

// CorrectReadingRequest is the payload for fixing an extracted meter index.
// The field is a pointer so a correction to zero still binds.
type CorrectReadingRequest struct {
	Reading *float64 `json:"reading" binding:"required"`
}

// UtilitySlotResponse describes one utility within a monthly statement
type UtilitySlotResponse struct {
	State           string   `json:"state"`
	ReadingFile     string   `json:"reading_file,omitempty"`
	InvoiceFile     string   `json:"invoice_file,omitempty"`
	PreviousReading *float64 `json:"previous_reading,omitempty"`
	CurrentReading  *float64 `json:"current_reading,omitempty"`
	Consumption     *float64 `json:"consumption,omitempty"`
	FlagShare       string   `json:"flag_share"`
	RefundShare     string   `json:"refund_share"`
	Total           *string  `json:"total,omitempty"`
}

// StatementResponse is one property-month statement
type StatementResponse struct {
	Key             string              `json:"key"`
	ReferenceMonth  string              `json:"reference_month"`
	PropertyID      string              `json:"property_id,omitempty"`
	PropertyAddress string              `json:"property_address,omitempty"`
	Energy          UtilitySlotResponse `json:"energy"`
	Water           UtilitySlotResponse `json:"water"`
	GrandTotal      string              `json:"grand_total"`
}

// RegisterRoutes registers statement routes on the API group
func (h *StatementHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/statements", h.List)

	bills := rg.Group("/bills")
	{
		bills.POST("", h.Upload)
		bills.PATCH("/:id/reading", h.CorrectReading)
		bills.DELETE("/:id", h.Delete)
	}
}

// List returns the computed statements, optionally filtered by month
func (h *StatementHandler) List(c *gin.Context) {
	month := valueobject.ReferenceMonth(c.Query("month"))
	if month != "" && !month.IsValid() {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidInput, "month must be formatted as YYYY-MM")
		return
	}

	groups, err := h.statements.Statements(c.Request.Context(), month)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	out := make([]StatementResponse, 0, len(groups))
	for _, g := range groups {
		out = append(out, toStatementResponse(g))
	}
	h.Success(c, out)
}

// Upload registers a new bill artifact. Passing ?overwrite=true replaces an
// artifact already occupying the same utility slot.
func (h *StatementHandler) Upload(c *gin.Context) {
	var req UploadBillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	artifact := &billing.BillArtifact{
		Utility:           billing.Utility(req.Utility),
		FileName:          req.FileName,
		ReferenceMonth:    valueobject.ReferenceMonth(req.ReferenceMonth),
		PropertyID:        req.PropertyID,
		InstallationCode:  req.InstallationCode,
		MeterSerial:       req.MeterSerial,
		CurrentReading:    req.CurrentReading,
		MasterConsumption: req.MasterConsumption,
	}
	if req.UnitCost != nil {
		artifact.UnitCost = decimal.NewFromFloat(*req.UnitCost)
	}
	if req.FlagSurcharge != nil {
		artifact.FlagSurcharge = decimal.NewFromFloat(*req.FlagSurcharge)
	}
	if req.RefundAmount != nil {
		artifact.RefundAmount = decimal.NewFromFloat(*req.RefundAmount)
	}

	overwrite := c.Query("overwrite") == "true"
	if err := h.statements.IngestArtifact(c.Request.Context(), artifact, overwrite); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, gin.H{"id": artifact.ID, "kind": artifact.Kind})
}

// CorrectReading fixes the meter index of an existing artifact
func (h *StatementHandler) CorrectReading(c *gin.Context) {
	var req CorrectReadingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	if err := h.statements.CorrectReading(c.Request.Context(), c.Param("id"), *req.Reading); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"id": c.Param("id"), "reading": *req.Reading})
}

// Delete removes a bill artifact
func (h *StatementHandler) Delete(c *gin.Context) {
	if err := h.statements.DeleteArtifact(c.Request.Context(), c.Param("id")); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

func toStatementResponse(g *billing.MonthlyGroup) StatementResponse {
	resp := StatementResponse{
		Key:            g.Key,
		ReferenceMonth: g.Month.String(),
		Energy:         toSlotResponse(&g.Energy),
		Water:          toSlotResponse(&g.Water),
		GrandTotal:     g.GrandTotal().StringFixed(2),
	}
	if g.Property != nil {
		resp.PropertyID = g.Property.ID
		resp.PropertyAddress = g.Property.Address
	}
	return resp
}

func toSlotResponse(u *billing.UtilityGroup) UtilitySlotResponse {
	slot := UtilitySlotResponse{
		State:           slotStateName(u.State()),
		PreviousReading: u.PrevReading,
		Consumption:     u.Consumption,
		FlagShare:       u.FlagShare.StringFixed(2),
		RefundShare:     u.RefundShare.StringFixed(2),
	}
	if u.Reading != nil {
		slot.ReadingFile = u.Reading.FileName
		slot.CurrentReading = u.Reading.CurrentReading
	}
	if u.Invoice != nil {
		slot.InvoiceFile = u.Invoice.FileName
	}
	if u.HasTotal {
		total := u.Total.StringFixed(2)
		slot.Total = &total
	}
	return slot
}

func slotStateName(s billing.SlotState) string {
	switch s {
	case billing.SlotMatched:
		return "MATCHED"
	case billing.SlotReadingOnly:
		return "READING_ONLY"
	case billing.SlotInvoiceOnly:
		return "INVOICE_ONLY"
	default:
		return "UNMATCHED"
	}
}
