package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Document type constants
const (
	DocumentTypeCaseFile             = "case_file"
	DocumentTypeClientCorrespondence = "client_correspondence"
	DocumentTypeCourtDocument        = "court_document"
	DocumentTypeContract             = "contract"
	DocumentTypeOther                = "other"
)

var ValidDocumentTypes = []string{
	DocumentTypeCaseFile,
	DocumentTypeClientCorrespondence,
	DocumentTypeCourtDocument,
	DocumentTypeContract,
	DocumentTypeOther,
}

// Document is an uploaded file. Case and client links are optional.
type Document struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `gorm:"index" json:"createdAt"`

	Title        string `gorm:"not null" json:"title"`
	Filename     string `gorm:"not null" json:"filename"` // Original filename
	FileSize     int64  `gorm:"not null" json:"fileSize"`
	MimeType     string `gorm:"not null" json:"mimeType"`
	FilePath     string `gorm:"not null" json:"filePath"` // Storage key
	DocumentType string `gorm:"not null;default:other" json:"documentType"`

	CaseID *string `gorm:"type:uuid;index" json:"caseId"`
	Case   *Case   `gorm:"foreignKey:CaseID;constraint:OnDelete:SET NULL" json:"-"`

	ClientID *string `gorm:"type:uuid;index" json:"clientId"`
	Client   *Client `gorm:"foreignKey:ClientID;constraint:OnDelete:SET NULL" json:"-"`

	UploadedBy string `gorm:"type:uuid;not null" json:"uploadedBy"`
	Uploader   *User  `gorm:"foreignKey:UploadedBy;constraint:OnDelete:RESTRICT" json:"-"`
}

// BeforeCreate hook to generate UUID
func (d *Document) BeforeCreate(tx *gorm.DB) error {
	if d.ID == "" {
		d.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name for Document model
func (Document) TableName() string {
	return "documents"
}

// IsValidDocumentType checks if a document type is valid
func IsValidDocumentType(documentType string) bool {
	return contains(ValidDocumentTypes, documentType)
}
