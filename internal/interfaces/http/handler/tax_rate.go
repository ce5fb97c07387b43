package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	ledgerapp "github.com/bookkeep/backend/internal/application/ledger"
)

// TaxRateHandler handles tax rate API endpoints
type TaxRateHandler struct {
	BaseHandler
	taxRateService *ledgerapp.TaxRateService
}

// NewTaxRateHandler creates a new TaxRateHandler
func NewTaxRateHandler(taxRateService *ledgerapp.TaxRateService) *TaxRateHandler {
	return &TaxRateHandler{taxRateService: taxRateService}
}

// Create handles POST /ledger/tax-rates
func (h *TaxRateHandler) Create(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var req ledgerapp.CreateTaxRateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	rate, err := h.taxRateService.Create(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, rate)
}

// List handles GET /ledger/tax-rates. An optional effective_on date
// (YYYY-MM-DD) narrows the result to rates applicable on that date.
func (h *TaxRateHandler) List(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	if effectiveOn := c.Query("effective_on"); effectiveOn != "" {
		date, err := time.Parse("2006-01-02", effectiveOn)
		if err != nil {
			h.BadRequest(c, "Invalid effective_on date, expected YYYY-MM-DD")
			return
		}
		rates, err := h.taxRateService.ListEffectiveOn(c.Request.Context(), tenantID, date)
		if err != nil {
			h.HandleError(c, err)
			return
		}
		h.Success(c, rates)
		return
	}

	rates, err := h.taxRateService.ListActive(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, rates)
}

// GetByID handles GET /ledger/tax-rates/:id
func (h *TaxRateHandler) GetByID(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid tax rate ID")
		return
	}

	rate, err := h.taxRateService.GetByID(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, rate)
}

// Deactivate handles POST /ledger/tax-rates/:id/deactivate
func (h *TaxRateHandler) Deactivate(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid tax rate ID")
		return
	}

	rate, err := h.taxRateService.Deactivate(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, rate)
}
