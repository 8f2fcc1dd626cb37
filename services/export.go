package services

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"law_office_app_go/models"

	"github.com/xuri/excelize/v2"
)

// XLSXContentType is the media type of generated workbooks
const XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

const exportTimeLayout = "2006-01-02 15:04:05"

// ExportCasesXLSX renders the cases into a single-sheet workbook
func ExportCasesXLSX(cases []models.Case) (*bytes.Buffer, error) {
	headers := []string{
		"Case Number", "Title", "Status", "Priority", "Case Type", "Court", "Judge",
		"Opposing Party", "Client ID", "Assigned Lawyer ID", "Created At", "Updated At",
	}
	rows := make([][]interface{}, 0, len(cases))
	for _, c := range cases {
		rows = append(rows, []interface{}{
			c.CaseNumber, c.Title, c.Status, c.Priority, c.CaseType,
			deref(c.Court), deref(c.Judge), deref(c.OpposingParty),
			c.ClientID, c.AssignedLawyerID,
			c.CreatedAt.UTC().Format(exportTimeLayout), c.UpdatedAt.UTC().Format(exportTimeLayout),
		})
	}
	return writeSheet("Cases", headers, rows)
}

// ExportAuditLogsXLSX renders audit logs into a single-sheet workbook
func ExportAuditLogsXLSX(logs []models.AuditLog) (*bytes.Buffer, error) {
	headers := []string{
		"Timestamp", "User ID", "Action", "Table", "Record ID",
		"Old Values", "New Values", "Changes", "IP Address", "User Agent",
	}
	rows := make([][]interface{}, 0, len(logs))
	for _, l := range logs {
		rows = append(rows, []interface{}{
			l.CreatedAt.UTC().Format(exportTimeLayout), deref(l.UserID), string(l.Action), l.Table,
			deref(l.RecordID), string(l.OldValues), string(l.NewValues), formatChanges(l.Changes()), l.IPAddress, l.UserAgent,
		})
	}
	return writeSheet("Audit Log", headers, rows)
}

func writeSheet(sheet string, headers []string, rows [][]interface{}) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, header)
	}
	lastCol, _ := excelize.ColumnNumberToName(len(headers))
	f.SetCellStyle(sheet, "A1", lastCol+"1", headerStyle)
	f.SetColWidth(sheet, "A", lastCol, 20)

	for r, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, r+2)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", r+2, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf, nil
}

// ExportFilename builds a dated download name such as cases_20260115.xlsx
func ExportFilename(prefix string, now time.Time) string {
	return fmt.Sprintf("%s_%s.xlsx", prefix, now.Format("20060102"))
}

// formatChanges renders field changes as "field: old -> new" separated by semicolons
func formatChanges(changes []models.AuditChange) string {
	parts := make([]string, len(changes))
	for i, c := range changes {
		parts[i] = fmt.Sprintf("%s: %s -> %s", c.Field, changeValue(c.Old), changeValue(c.New))
	}
	return strings.Join(parts, "; ")
}

func changeValue(v interface{}) string {
	if v == nil {
		return "(empty)"
	}
	return fmt.Sprint(v)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
