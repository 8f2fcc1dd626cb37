package handlers

import (
	"fmt"
	"net/http"
	"time"

	"law_office_app_go/models"
	"law_office_app_go/services"

	"github.com/labstack/echo/v4"
)

// CaseRequest is the body of POST /api/cases
type CaseRequest struct {
	CaseNumber       string  `json:"caseNumber" validate:"omitempty,max=50"`
	Title            string  `json:"title" validate:"required,notblank,max=300"`
	Description      *string `json:"description" validate:"omitempty,max=10000"`
	Status           string  `json:"status" validate:"omitempty,case_status"`
	Priority         string  `json:"priority" validate:"omitempty,priority"`
	CaseType         string  `json:"caseType" validate:"required,notblank,max=100"`
	Court            *string `json:"court" validate:"omitempty,max=200"`
	Judge            *string `json:"judge" validate:"omitempty,max=200"`
	OpposingParty    *string `json:"opposingParty" validate:"omitempty,max=200"`
	ClientID         string  `json:"clientId" validate:"required"`
	AssignedLawyerID string  `json:"assignedLawyerId" validate:"required"`
}

func (r *CaseRequest) sanitize() {
	r.CaseNumber = services.SanitizeText(r.CaseNumber)
	r.Title = services.SanitizeText(r.Title)
	r.Description = services.SanitizeOptional(r.Description)
	r.CaseType = services.SanitizeText(r.CaseType)
	r.Court = services.SanitizeOptional(r.Court)
	r.Judge = services.SanitizeOptional(r.Judge)
	r.OpposingParty = services.SanitizeOptional(r.OpposingParty)
}

// CaseUpdateRequest is the body of PUT /api/cases/:id; absent fields are left alone
type CaseUpdateRequest struct {
	CaseNumber       *string `json:"caseNumber" validate:"omitnil,notblank,max=50"`
	Title            *string `json:"title" validate:"omitnil,notblank,max=300"`
	Description      *string `json:"description" validate:"omitempty,max=10000"`
	Status           *string `json:"status" validate:"omitnil,case_status"`
	Priority         *string `json:"priority" validate:"omitnil,priority"`
	CaseType         *string `json:"caseType" validate:"omitnil,notblank,max=100"`
	Court            *string `json:"court" validate:"omitempty,max=200"`
	Judge            *string `json:"judge" validate:"omitempty,max=200"`
	OpposingParty    *string `json:"opposingParty" validate:"omitempty,max=200"`
	ClientID         *string `json:"clientId" validate:"omitnil,notblank"`
	AssignedLawyerID *string `json:"assignedLawyerId" validate:"omitnil,notblank"`
}

func (r *CaseUpdateRequest) sanitize() {
	r.CaseNumber = services.SanitizeOptional(r.CaseNumber)
	r.Title = services.SanitizeOptional(r.Title)
	r.Description = services.SanitizeOptional(r.Description)
	r.CaseType = services.SanitizeOptional(r.CaseType)
	r.Court = services.SanitizeOptional(r.Court)
	r.Judge = services.SanitizeOptional(r.Judge)
	r.OpposingParty = services.SanitizeOptional(r.OpposingParty)
}

func (r *CaseUpdateRequest) updates() updateMap {
	u := updateMap{}
	u.setString("case_number", r.CaseNumber)
	u.setString("title", r.Title)
	u.setNullable("description", r.Description)
	u.setString("status", r.Status)
	u.setString("priority", r.Priority)
	u.setString("case_type", r.CaseType)
	u.setNullable("court", r.Court)
	u.setNullable("judge", r.Judge)
	u.setNullable("opposing_party", r.OpposingParty)
	u.setString("client_id", r.ClientID)
	u.setString("assigned_lawyer_id", r.AssignedLawyerID)
	return u
}

func caseFilters(c echo.Context) services.CaseFilters {
	return services.CaseFilters{
		Search:   c.QueryParam("search"),
		ClientID: c.QueryParam("client"),
		LawyerID: c.QueryParam("lawyer"),
	}
}

// GetCasesHandler lists cases, filtered by ?search=, ?client= and ?lawyer=
func GetCasesHandler(c echo.Context) error {
	cases, err := services.GetCases(requestDB(c), caseFilters(c))
	if err != nil {
		return serviceError(err, "Case")
	}
	return c.JSON(http.StatusOK, cases)
}

// GetCaseHandler returns one case
func GetCaseHandler(c echo.Context) error {
	kase, err := services.GetCase(requestDB(c), c.Param("id"))
	if err != nil {
		return serviceError(err, "Case")
	}
	return c.JSON(http.StatusOK, kase)
}

// CreateCaseHandler opens a case and notifies the assigned lawyer
func CreateCaseHandler(c echo.Context) error {
	var req CaseRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	kase := &models.Case{
		CaseNumber:       req.CaseNumber,
		Title:            req.Title,
		Description:      emptyToNil(req.Description),
		Status:           req.Status,
		Priority:         req.Priority,
		CaseType:         req.CaseType,
		Court:            emptyToNil(req.Court),
		Judge:            emptyToNil(req.Judge),
		OpposingParty:    emptyToNil(req.OpposingParty),
		ClientID:         req.ClientID,
		AssignedLawyerID: req.AssignedLawyerID,
		CreatedBy:        currentUserID(c),
	}
	if kase.Status == "" {
		kase.Status = models.CaseStatusActive
	}
	if kase.Priority == "" {
		kase.Priority = models.PriorityMedium
	}

	created, err := services.CreateCase(requestDB(c), kase)
	if err != nil {
		return serviceError(err, "Case")
	}

	audit(c, models.AuditActionCaseCreated, "cases", created.ID, nil, created)
	notifyCaseAssignment(c, created)
	return c.JSON(http.StatusCreated, created)
}

// UpdateCaseHandler patches a case; reassignment notifies the new lawyer
func UpdateCaseHandler(c echo.Context) error {
	id := c.Param("id")
	before, err := services.GetCase(requestDB(c), id)
	if err != nil {
		return serviceError(err, "Case")
	}

	var req CaseUpdateRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	kase, err := services.UpdateCase(requestDB(c), id, req.updates())
	if err != nil {
		return serviceError(err, "Case")
	}

	audit(c, models.AuditActionCaseUpdated, "cases", kase.ID, before, kase)
	if kase.AssignedLawyerID != before.AssignedLawyerID {
		notifyCaseAssignment(c, kase)
	}
	return c.JSON(http.StatusOK, kase)
}

// DeleteCaseHandler deletes a case, leaving its tasks and documents unlinked
func DeleteCaseHandler(c echo.Context) error {
	id := c.Param("id")
	before, err := services.GetCase(requestDB(c), id)
	if err != nil {
		return serviceError(err, "Case")
	}

	if err := services.DeleteCase(requestDB(c), id); err != nil {
		return serviceError(err, "Case")
	}

	audit(c, models.AuditActionCaseDeleted, "cases", id, before, nil)
	return c.NoContent(http.StatusNoContent)
}

// ExportCasesHandler downloads the filtered case list as a workbook
func ExportCasesHandler(c echo.Context) error {
	cases, err := services.GetCases(requestDB(c), caseFilters(c))
	if err != nil {
		return serviceError(err, "Case")
	}

	buf, err := services.ExportCasesXLSX(cases)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to export cases").SetInternal(err)
	}

	filename := services.ExportFilename("cases", time.Now())
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return c.Blob(http.StatusOK, services.XLSXContentType, buf.Bytes())
}
