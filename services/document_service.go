package services

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"

	"law_office_app_go/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DocumentFilters narrows GetDocuments; empty fields are ignored
type DocumentFilters struct {
	CaseID   string
	ClientID string
}

// GetDocument returns the document with the given id
func GetDocument(db *gorm.DB, id string) (*models.Document, error) {
	var doc models.Document
	if err := db.Where("id = ?", id).First(&doc).Error; err != nil {
		return nil, translateError(err, "document")
	}
	return &doc, nil
}

// GetDocuments lists documents newest first, optionally filtered by case or client
func GetDocuments(db *gorm.DB, filters DocumentFilters) ([]models.Document, error) {
	query := db.Model(&models.Document{})
	if filters.CaseID != "" {
		query = query.Where("case_id = ?", filters.CaseID)
	}
	if filters.ClientID != "" {
		query = query.Where("client_id = ?", filters.ClientID)
	}

	var docs []models.Document
	if err := query.Order("created_at DESC").Find(&docs).Error; err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	return docs, nil
}

// GetDocumentsByCase lists the documents linked to one case
func GetDocumentsByCase(db *gorm.DB, caseID string) ([]models.Document, error) {
	return GetDocuments(db, DocumentFilters{CaseID: caseID})
}

// GetDocumentsByClient lists the documents linked to one client
func GetDocumentsByClient(db *gorm.DB, clientID string) ([]models.Document, error) {
	return GetDocuments(db, DocumentFilters{ClientID: clientID})
}

// CreateDocument inserts a document row
func CreateDocument(db *gorm.DB, doc *models.Document) (*models.Document, error) {
	if err := checkDocumentReferences(db, doc.CaseID, doc.ClientID); err != nil {
		return nil, err
	}
	if err := db.Create(doc).Error; err != nil {
		return nil, translateError(err, "document")
	}
	return doc, nil
}

// UpdateDocument patches document metadata
func UpdateDocument(db *gorm.DB, id string, updates map[string]interface{}) (*models.Document, error) {
	caseID, _ := updates["case_id"].(string)
	clientID, _ := updates["client_id"].(string)
	if caseID != "" || clientID != "" {
		if _, err := GetDocument(db, id); err != nil {
			return nil, err
		}
		if err := checkDocumentReferences(db, optional(caseID), optional(clientID)); err != nil {
			return nil, err
		}
	}
	return updateRecord[models.Document](db, id, updates, "document")
}

// DeleteDocument removes a document row only; see RemoveDocument for the file
func DeleteDocument(db *gorm.DB, id string) error {
	return deleteRecord[models.Document](db, id, "document")
}

// DocumentUpload is the metadata sent alongside an uploaded file
type DocumentUpload struct {
	Title        string
	DocumentType string
	CaseID       *string
	ClientID     *string
	UploadedBy   string
}

// StoreDocument validates the file, writes it to storage and then inserts the row.
// When the insert fails the stored file is removed again.
func StoreDocument(ctx context.Context, db *gorm.DB, storage StorageProvider, file *multipart.FileHeader, meta DocumentUpload) (*models.Document, error) {
	if err := ValidateDocumentUpload(file); err != nil {
		return nil, err
	}
	if err := checkDocumentReferences(db, meta.CaseID, meta.ClientID); err != nil {
		return nil, err
	}

	key := GenerateDocumentKey(file.Filename)
	result, err := storage.Upload(ctx, file, key)
	if err != nil {
		return nil, fmt.Errorf("failed to store file: %w", err)
	}

	title := meta.Title
	if title == "" {
		title = file.Filename
	}
	docType := meta.DocumentType
	if docType == "" {
		docType = models.DocumentTypeOther
	}

	doc := &models.Document{
		Title:        title,
		Filename:     file.Filename,
		FileSize:     result.FileSize,
		MimeType:     result.MimeType,
		FilePath:     result.Key,
		DocumentType: docType,
		CaseID:       meta.CaseID,
		ClientID:     meta.ClientID,
		UploadedBy:   meta.UploadedBy,
	}
	if err := db.Create(doc).Error; err != nil {
		if delErr := storage.Delete(ctx, result.Key); delErr != nil {
			zap.L().Error("failed to remove orphaned upload", zap.String("key", result.Key), zap.Error(delErr))
		}
		return nil, translateError(err, "document")
	}
	return doc, nil
}

// RemoveDocument deletes the stored file and then the row. A file that is already
// gone is logged and the row is still deleted; any other storage error keeps the row.
func RemoveDocument(ctx context.Context, db *gorm.DB, storage StorageProvider, id string) (*models.Document, error) {
	doc, err := GetDocument(db, id)
	if err != nil {
		return nil, err
	}

	if err := storage.Delete(ctx, doc.FilePath); err != nil {
		if !errors.Is(err, ErrFileNotFound) {
			return nil, fmt.Errorf("failed to delete document file: %w", err)
		}
		zap.L().Warn("document file already missing, deleting record",
			zap.String("document_id", doc.ID),
			zap.String("key", doc.FilePath),
		)
	}

	if err := DeleteDocument(db, id); err != nil {
		return nil, err
	}
	return doc, nil
}

func checkDocumentReferences(db *gorm.DB, caseID, clientID *string) error {
	if caseID != nil && *caseID != "" {
		if _, err := GetCase(db, *caseID); err != nil {
			if errors.Is(err, ErrNotFound) {
				return fmt.Errorf("case %s: %w", *caseID, ErrInvalidReference)
			}
			return err
		}
	}
	if clientID != nil && *clientID != "" {
		if _, err := GetClient(db, *clientID); err != nil {
			if errors.Is(err, ErrNotFound) {
				return fmt.Errorf("client %s: %w", *clientID, ErrInvalidReference)
			}
			return err
		}
	}
	return nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
