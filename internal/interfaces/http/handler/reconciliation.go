package handler

import (
	"github.com/gin-gonic/gin"

	bankingapp "github.com/bookkeep/backend/internal/application/banking"
)

// ReconciliationHandler handles bank reconciliation API endpoints
type ReconciliationHandler struct {
	BaseHandler
	reconciliationService *bankingapp.ReconciliationService
}

// NewReconciliationHandler creates a new ReconciliationHandler
func NewReconciliationHandler(reconciliationService *bankingapp.ReconciliationService) *ReconciliationHandler {
	return &ReconciliationHandler{reconciliationService: reconciliationService}
}

// Candidates handles GET /banking/statements/:id/candidates
func (h *ReconciliationHandler) Candidates(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}
	statementID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid statement ID")
		return
	}

	candidates, err := h.reconciliationService.Candidates(c.Request.Context(), tenantID, statementID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, candidates)
}

// ConfirmMatch handles POST /banking/matches
func (h *ReconciliationHandler) ConfirmMatch(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var req bankingapp.ConfirmMatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	result, err := h.reconciliationService.ConfirmMatch(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}
