package handler

import (
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"

	bankingapp "github.com/bookkeep/backend/internal/application/banking"
)

// StatementHandler handles bank statement import and query endpoints
type StatementHandler struct {
	BaseHandler
	importService *bankingapp.StatementImportService
	queryService  *bankingapp.StatementQueryService
}

// NewStatementHandler creates a new StatementHandler
func NewStatementHandler(
	importService *bankingapp.StatementImportService,
	queryService *bankingapp.StatementQueryService,
) *StatementHandler {
	return &StatementHandler{
		importService: importService,
		queryService:  queryService,
	}
}

// Import handles POST /banking/statements. The statement file is uploaded
// as multipart form data under "file"; "source_account" labels the bank
// account the export came from. "has_header" defaults to true; headerless
// exports set it to false and supply the column index fields instead.
func (h *StatementHandler) Import(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	sourceAccount := c.PostForm("source_account")
	if sourceAccount == "" {
		h.BadRequest(c, "source_account form field is required")
		return
	}

	mapping, err := parseColumnMapping(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		h.BadRequest(c, "Statement file is required")
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		h.BadRequest(c, "Statement file cannot be read")
		return
	}
	defer file.Close()

	req := bankingapp.ImportRequest{
		SourceAccount: sourceAccount,
		FileName:      fileHeader.Filename,
		HasHeader:     c.DefaultPostForm("has_header", "true") != "false",
		Mapping:       mapping,
	}

	result, err := h.importService.Import(c.Request.Context(), tenantID, req, file)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, result)
}

// parseColumnMapping reads the optional column index form fields. Supplying
// "date_column" switches to explicit mapping; "direction_column" stays -1
// when absent so the amount sign carries the flow.
func parseColumnMapping(c *gin.Context) (*bankingapp.ColumnMapping, error) {
	if c.PostForm("date_column") == "" {
		return nil, nil
	}

	mapping := &bankingapp.ColumnMapping{Direction: -1}
	fields := []struct {
		name     string
		target   *int
		required bool
	}{
		{"date_column", &mapping.Date, true},
		{"description_column", &mapping.Description, true},
		{"amount_column", &mapping.Amount, true},
		{"direction_column", &mapping.Direction, false},
	}
	for _, field := range fields {
		raw := c.PostForm(field.name)
		if raw == "" {
			if field.required {
				return nil, fmt.Errorf("%s form field is required with an explicit mapping", field.name)
			}
			continue
		}
		value, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("%s must be a column index", field.name)
		}
		*field.target = value
	}
	return mapping, nil
}

// List handles GET /banking/statements
func (h *StatementHandler) List(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	statements, err := h.queryService.List(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, statements)
}

// GetByID handles GET /banking/statements/:id
func (h *StatementHandler) GetByID(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid statement ID")
		return
	}

	statement, err := h.queryService.GetByID(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, statement)
}

// Rows handles GET /banking/statements/:id/rows. ?unmatched=true narrows
// the result to rows still waiting for reconciliation.
func (h *StatementHandler) Rows(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid statement ID")
		return
	}

	unmatchedOnly := c.Query("unmatched") == "true"

	rows, err := h.queryService.Rows(c.Request.Context(), tenantID, id, unmatchedOnly)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, rows)
}
