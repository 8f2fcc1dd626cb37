package services

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"law_office_app_go/models"

	"gorm.io/gorm"
)

// CaseNumberPrefix starts every generated case number
const CaseNumberPrefix = "CASE"

// CaseFilters narrows GetCases; empty fields are ignored
type CaseFilters struct {
	Search   string
	ClientID string
	LawyerID string
}

// GetCase returns the case with the given id
func GetCase(db *gorm.DB, id string) (*models.Case, error) {
	var c models.Case
	if err := db.Where("id = ?", id).First(&c).Error; err != nil {
		return nil, translateError(err, "case")
	}
	return &c, nil
}

// GetCases lists cases newest first, optionally filtered
func GetCases(db *gorm.DB, filters CaseFilters) ([]models.Case, error) {
	query := db.Model(&models.Case{})
	if filters.Search != "" {
		pattern := likePattern(filters.Search)
		query = query.Where(likeClause(db, "case_number", "title", "description"), pattern, pattern, pattern)
	}
	if filters.ClientID != "" {
		query = query.Where("client_id = ?", filters.ClientID)
	}
	if filters.LawyerID != "" {
		query = query.Where("assigned_lawyer_id = ?", filters.LawyerID)
	}

	var cases []models.Case
	if err := query.Order("created_at DESC").Find(&cases).Error; err != nil {
		return nil, fmt.Errorf("failed to list cases: %w", err)
	}
	return cases, nil
}

// GetCasesByClient lists the cases of one client
func GetCasesByClient(db *gorm.DB, clientID string) ([]models.Case, error) {
	return GetCases(db, CaseFilters{ClientID: clientID})
}

// GetCasesByLawyer lists the cases assigned to one lawyer
func GetCasesByLawyer(db *gorm.DB, lawyerID string) ([]models.Case, error) {
	return GetCases(db, CaseFilters{LawyerID: lawyerID})
}

// SearchCases matches the query against case number, title and description
func SearchCases(db *gorm.DB, query string) ([]models.Case, error) {
	return GetCases(db, CaseFilters{Search: query})
}

// CreateCase inserts a case after checking its client and lawyer exist.
// A case number is generated when none is supplied.
func CreateCase(db *gorm.DB, c *models.Case) (*models.Case, error) {
	if err := checkCaseReferences(db, c.ClientID, c.AssignedLawyerID); err != nil {
		return nil, err
	}

	if c.CaseNumber == "" {
		number, err := EnsureUniqueCaseNumber(db, time.Now())
		if err != nil {
			return nil, err
		}
		c.CaseNumber = number
	}

	if err := db.Create(c).Error; err != nil {
		return nil, translateError(err, "case")
	}
	return c, nil
}

// UpdateCase applies a partial update and returns the stored row
func UpdateCase(db *gorm.DB, id string, updates map[string]interface{}) (*models.Case, error) {
	clientID, _ := updates["client_id"].(string)
	lawyerID, _ := updates["assigned_lawyer_id"].(string)
	if clientID != "" || lawyerID != "" {
		if _, err := GetCase(db, id); err != nil {
			return nil, err
		}
		if err := checkCaseReferences(db, clientID, lawyerID); err != nil {
			return nil, err
		}
	}
	return updateRecord[models.Case](db, id, updates, "case")
}

// DeleteCase removes a case; its tasks and documents stay, unlinked
func DeleteCase(db *gorm.DB, id string) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if _, err := GetCase(tx, id); err != nil {
			return err
		}
		if err := tx.Model(&models.Task{}).Where("case_id = ?", id).Update("case_id", nil).Error; err != nil {
			return fmt.Errorf("failed to detach case tasks: %w", err)
		}
		if err := tx.Model(&models.Document{}).Where("case_id = ?", id).Update("case_id", nil).Error; err != nil {
			return fmt.Errorf("failed to detach case documents: %w", err)
		}
		return deleteRecord[models.Case](tx, id, "case")
	})
}

func checkCaseReferences(db *gorm.DB, clientID, lawyerID string) error {
	if clientID != "" {
		if _, err := GetClient(db, clientID); err != nil {
			if errors.Is(err, ErrNotFound) {
				return fmt.Errorf("client %s: %w", clientID, ErrInvalidReference)
			}
			return err
		}
	}
	if lawyerID != "" {
		if _, err := GetUser(db, lawyerID); err != nil {
			if errors.Is(err, ErrNotFound) {
				return fmt.Errorf("assigned lawyer %s: %w", lawyerID, ErrInvalidReference)
			}
			return err
		}
	}
	return nil
}

// generatedSequence matches the numeric tail of a generated case number
var generatedSequence = regexp.MustCompile(`^[0-9]{5,}$`)

// GenerateCaseNumber returns the next case number for the year of now.
// Format: CASE-{YEAR}-{SEQUENCE}, e.g. CASE-2026-00042
func GenerateCaseNumber(db *gorm.DB, now time.Time) (string, error) {
	prefix := caseNumberPrefix(now)
	sequence, err := nextCaseSequence(db, prefix)
	if err != nil {
		return "", err
	}
	return formatCaseNumber(prefix, sequence), nil
}

// EnsureUniqueCaseNumber generates a case number and moves to the next
// sequence while the candidate is taken
func EnsureUniqueCaseNumber(db *gorm.DB, now time.Time) (string, error) {
	const maxRetries = 10

	prefix := caseNumberPrefix(now)
	sequence, err := nextCaseSequence(db, prefix)
	if err != nil {
		return "", err
	}

	for i := 0; i < maxRetries; i++ {
		caseNumber := formatCaseNumber(prefix, sequence+i)

		var count int64
		if err := db.Model(&models.Case{}).Where("case_number = ?", caseNumber).Count(&count).Error; err != nil {
			return "", fmt.Errorf("failed to check case number uniqueness: %w", err)
		}
		if count == 0 {
			return caseNumber, nil
		}
	}

	return "", fmt.Errorf("failed to generate unique case number after %d retries", maxRetries)
}

func caseNumberPrefix(now time.Time) string {
	return fmt.Sprintf("%s-%d-", CaseNumberPrefix, now.Year())
}

func formatCaseNumber(prefix string, sequence int) string {
	return fmt.Sprintf("%s%05d", prefix, sequence)
}

// nextCaseSequence returns one past the highest generated sequence under prefix.
// Hand-entered numbers that share the prefix, like CASE-2026-REF, are ignored.
func nextCaseSequence(db *gorm.DB, prefix string) (int, error) {
	var numbers []string
	if err := db.Model(&models.Case{}).
		Where("case_number LIKE ?", prefix+"%").
		Pluck("case_number", &numbers).Error; err != nil {
		return 0, fmt.Errorf("failed to query case numbers: %w", err)
	}

	highest := 0
	for _, number := range numbers {
		if !strings.HasPrefix(number, prefix) {
			continue
		}
		tail := strings.TrimPrefix(number, prefix)
		if !generatedSequence.MatchString(tail) {
			continue
		}
		if seq, err := strconv.Atoi(tail); err == nil && seq > highest {
			highest = seq
		}
	}
	return highest + 1, nil
}
