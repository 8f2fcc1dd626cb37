package services

import (
	"errors"
	"fmt"
	"mime"
	"mime/multipart"
	"path/filepath"
	"strings"
)

const MaxUploadSize = 10 * 1024 * 1024 // 10MB

// AllowedExtensions are the document extensions accepted on upload
var AllowedExtensions = []string{".pdf", ".doc", ".docx", ".txt", ".jpg", ".jpeg", ".png"}

var (
	// ErrFileTooLarge is returned for uploads above MaxUploadSize
	ErrFileTooLarge = errors.New("file size exceeds maximum allowed size of 10MB")
	// ErrFileTypeNotAllowed is returned for extensions outside AllowedExtensions
	ErrFileTypeNotAllowed = errors.New("file type not allowed. Accepted formats: PDF, DOC, DOCX, TXT, JPG, JPEG, PNG")
)

// ValidateDocumentUpload checks size and extension before anything is stored
func ValidateDocumentUpload(fileHeader *multipart.FileHeader) error {
	if fileHeader == nil {
		return errors.New("no file uploaded")
	}
	if fileHeader.Size > MaxUploadSize {
		return ErrFileTooLarge
	}
	if !IsAllowedExtension(fileHeader.Filename) {
		return ErrFileTypeNotAllowed
	}
	return nil
}

// IsAllowedExtension matches the filename extension case-insensitively
func IsAllowedExtension(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	for _, allowed := range AllowedExtensions {
		if ext == allowed {
			return true
		}
	}
	return false
}

// MimeTypeForExtension maps an allowed extension to its content type
func MimeTypeForExtension(ext string) string {
	switch strings.ToLower(ext) {
	case ".pdf":
		return "application/pdf"
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".txt":
		return "text/plain"
	case ".doc":
		return "application/msword"
	case ".docx":
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	default:
		return "application/octet-stream"
	}
}

// ContentDisposition builds an attachment header value carrying the original filename.
// Non-ASCII names get an ASCII filename fallback plus an RFC 6266 filename* parameter.
func ContentDisposition(filename string) string {
	safe := strings.NewReplacer(`"`, "", "\r", "", "\n", "").Replace(filepath.Base(filename))
	fallback := asciiFilename(safe)
	if fallback == safe {
		return fmt.Sprintf(`attachment; filename="%s"`, safe)
	}

	encoded := mime.FormatMediaType("attachment", map[string]string{"filename": safe})
	if encoded == "" {
		return fmt.Sprintf(`attachment; filename="%s"`, fallback)
	}
	return fmt.Sprintf(`attachment; filename="%s"; %s`, fallback, strings.TrimPrefix(encoded, "attachment; "))
}

// asciiFilename replaces every rune outside printable ASCII with an underscore
func asciiFilename(name string) string {
	return strings.Map(func(r rune) rune {
		if r < 0x20 || r > 0x7e {
			return '_'
		}
		return r
	}, name)
}
