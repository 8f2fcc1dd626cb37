package handlers

import (
	"errors"
	"net/http"
	"strings"

	"law_office_app_go/models"
	"law_office_app_go/services"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// DocumentUpdateRequest is the body of PUT /api/documents/:id; the file itself is immutable
type DocumentUpdateRequest struct {
	Title        *string `json:"title" validate:"omitnil,notblank,max=300"`
	DocumentType *string `json:"documentType" validate:"omitnil,document_type"`
	CaseID       *string `json:"caseId"`
	ClientID     *string `json:"clientId"`
}

func (r *DocumentUpdateRequest) sanitize() {
	r.Title = services.SanitizeOptional(r.Title)
}

func (r *DocumentUpdateRequest) updates() updateMap {
	u := updateMap{}
	u.setString("title", r.Title)
	u.setString("document_type", r.DocumentType)
	u.setNullable("case_id", r.CaseID)
	u.setNullable("client_id", r.ClientID)
	return u
}

// GetDocumentsHandler lists documents, filtered by ?caseId= and ?clientId=
func GetDocumentsHandler(c echo.Context) error {
	docs, err := services.GetDocuments(requestDB(c), services.DocumentFilters{
		CaseID:   c.QueryParam("caseId"),
		ClientID: c.QueryParam("clientId"),
	})
	if err != nil {
		return serviceError(err, "Document")
	}
	return c.JSON(http.StatusOK, docs)
}

// GetDocumentHandler returns one document's metadata
func GetDocumentHandler(c echo.Context) error {
	doc, err := services.GetDocument(requestDB(c), c.Param("id"))
	if err != nil {
		return serviceError(err, "Document")
	}
	return c.JSON(http.StatusOK, doc)
}

// UploadDocumentHandler stores the multipart "file" field and records it
func UploadDocumentHandler(c echo.Context) error {
	file, err := c.FormFile("file")
	if err != nil {
		if isBodyTooLarge(err) {
			return echo.NewHTTPError(http.StatusRequestEntityTooLarge, services.ErrFileTooLarge.Error())
		}
		return echo.NewHTTPError(http.StatusBadRequest, "No file uploaded")
	}

	docType := strings.TrimSpace(c.FormValue("documentType"))
	if docType != "" && !models.IsValidDocumentType(docType) {
		return &ValidationError{Fields: []FieldError{{
			Field:   "documentType",
			Message: "must be one of: " + strings.Join(models.ValidDocumentTypes, ", "),
		}}}
	}

	doc, err := services.StoreDocument(c.Request().Context(), requestDB(c), services.Storage, file, services.DocumentUpload{
		Title:        services.SanitizeText(c.FormValue("title")),
		DocumentType: docType,
		CaseID:       formOptional(c, "caseId"),
		ClientID:     formOptional(c, "clientId"),
		UploadedBy:   currentUserID(c),
	})
	if err != nil {
		return serviceError(err, "Document")
	}

	audit(c, models.AuditActionDocumentUploaded, "documents", doc.ID, nil, doc)
	return c.JSON(http.StatusCreated, doc)
}

// UpdateDocumentHandler patches document metadata
func UpdateDocumentHandler(c echo.Context) error {
	id := c.Param("id")
	before, err := services.GetDocument(requestDB(c), id)
	if err != nil {
		return serviceError(err, "Document")
	}

	var req DocumentUpdateRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	doc, err := services.UpdateDocument(requestDB(c), id, req.updates())
	if err != nil {
		return serviceError(err, "Document")
	}

	audit(c, models.AuditActionDocumentUpdated, "documents", doc.ID, before, doc)
	return c.JSON(http.StatusOK, doc)
}

// DownloadDocumentHandler streams the stored file under its original name
func DownloadDocumentHandler(c echo.Context) error {
	doc, err := services.GetDocument(requestDB(c), c.Param("id"))
	if err != nil {
		return serviceError(err, "Document")
	}

	reader, contentType, err := services.Storage.Get(c.Request().Context(), doc.FilePath)
	if err != nil {
		if errors.Is(err, services.ErrFileNotFound) {
			zap.L().Warn("document file missing", zap.String("document_id", doc.ID), zap.String("key", doc.FilePath))
		}
		return serviceError(err, "Document")
	}
	defer reader.Close()

	if doc.MimeType != "" {
		contentType = doc.MimeType
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, services.ContentDisposition(doc.Filename))
	return c.Stream(http.StatusOK, contentType, reader)
}

// DeleteDocumentHandler removes the stored file and then the record
func DeleteDocumentHandler(c echo.Context) error {
	doc, err := services.RemoveDocument(c.Request().Context(), requestDB(c), services.Storage, c.Param("id"))
	if err != nil {
		return serviceError(err, "Document")
	}

	audit(c, models.AuditActionDocumentDeleted, "documents", doc.ID, doc, nil)
	return c.NoContent(http.StatusNoContent)
}

func formOptional(c echo.Context, name string) *string {
	v := strings.TrimSpace(c.FormValue(name))
	if v == "" {
		return nil
	}
	return &v
}

// isBodyTooLarge reports whether reading the request body hit a size limit,
// either net/http's MaxBytesReader or echo's BodyLimit reader
func isBodyTooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return true
	}
	var he *echo.HTTPError
	return errors.As(err, &he) && he.Code == http.StatusRequestEntityTooLarge
}
