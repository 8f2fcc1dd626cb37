package handlers

import (
	"fmt"
	"net/http"
	"regexp"
	"testing"
	"time"

	"law_office_app_go/models"
	"law_office_app_go/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateCase(t *testing.T) {
	s := newTestServer(t)
	lawyer, cookie := s.userWithSession(t, "lex", models.RoleLawyer)
	client := createTestClient(t, s.db, "Acme", lawyer.ID)

	t.Run("Generates a case number", func(t *testing.T) {
		rec := s.do(t, http.MethodPost, "/api/cases", map[string]interface{}{
			"title":            "Lease dispute",
			"caseType":         "civil",
			"clientId":         client.ID,
			"assignedLawyerId": lawyer.ID,
		}, cookie)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		kase := decode[models.Case](t, rec)
		pattern := fmt.Sprintf(`^CASE-%d-\d{5}$`, time.Now().Year())
		assert.Regexp(t, regexp.MustCompile(pattern), kase.CaseNumber)
		assert.Equal(t, models.CaseStatusActive, kase.Status)
		assert.Equal(t, models.PriorityMedium, kase.Priority)
		assert.Equal(t, lawyer.ID, kase.CreatedBy)
		assert.Equal(t, int64(1), auditCount(t, s.db, models.AuditActionCaseCreated))
	})

	t.Run("Missing client is a validation error", func(t *testing.T) {
		rec := s.do(t, http.MethodPost, "/api/cases", map[string]interface{}{
			"title": "x", "caseType": "civil", "clientId": "missing", "assignedLawyerId": lawyer.ID,
		}, cookie)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("Missing lawyer is a validation error", func(t *testing.T) {
		rec := s.do(t, http.MethodPost, "/api/cases", map[string]interface{}{
			"title": "x", "caseType": "civil", "clientId": client.ID, "assignedLawyerId": "missing",
		}, cookie)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("Unknown status", func(t *testing.T) {
		rec := s.do(t, http.MethodPost, "/api/cases", map[string]interface{}{
			"title": "x", "caseType": "civil", "status": "won", "priority": "asap", "clientId": client.ID, "assignedLawyerId": lawyer.ID,
		}, cookie)
		require.Equal(t, http.StatusBadRequest, rec.Code)

		messages := map[string]string{}
		for _, f := range decode[errorResponse](t, rec).Errors {
			messages[f.Field] = f.Message
		}
		assert.Equal(t, "must be one of: active, pending, closed, archived", messages["status"])
		assert.Equal(t, "must be one of: low, medium, high, urgent", messages["priority"])
	})

	t.Run("Duplicate case number", func(t *testing.T) {
		body := map[string]interface{}{
			"caseNumber": "FIXED-1", "title": "x", "caseType": "civil", "clientId": client.ID, "assignedLawyerId": lawyer.ID,
		}
		require.Equal(t, http.StatusCreated, s.do(t, http.MethodPost, "/api/cases", body, cookie).Code)
		assert.Equal(t, http.StatusBadRequest, s.do(t, http.MethodPost, "/api/cases", body, cookie).Code)
	})

	t.Run("Hand-entered number in the generated range", func(t *testing.T) {
		manual := map[string]interface{}{
			"caseNumber": fmt.Sprintf("CASE-%d-REF", time.Now().Year()), "title": "x", "caseType": "civil",
			"clientId": client.ID, "assignedLawyerId": lawyer.ID,
		}
		require.Equal(t, http.StatusCreated, s.do(t, http.MethodPost, "/api/cases", manual, cookie).Code)

		for i := 0; i < 2; i++ {
			rec := s.do(t, http.MethodPost, "/api/cases", map[string]interface{}{
				"title": "auto", "caseType": "civil", "clientId": client.ID, "assignedLawyerId": lawyer.ID,
			}, cookie)
			require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		}
	})
}

func TestUpdateCaseStatusIsFlat(t *testing.T) {
	s := newTestServer(t)
	lawyer, cookie := s.userWithSession(t, "lex", models.RoleLawyer)
	client := createTestClient(t, s.db, "Acme", lawyer.ID)
	kase := createTestCase(t, s.db, "Matter", client.ID, lawyer.ID)

	for _, status := range []string{models.CaseStatusArchived, models.CaseStatusActive, models.CaseStatusClosed, models.CaseStatusPending} {
		rec := s.do(t, http.MethodPut, "/api/cases/"+kase.ID, map[string]interface{}{"status": status}, cookie)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Equal(t, status, decode[models.Case](t, rec).Status)
	}
	assert.Equal(t, int64(4), auditCount(t, s.db, models.AuditActionCaseUpdated))

	rec := s.do(t, http.MethodPut, "/api/cases/"+kase.ID, map[string]interface{}{"assignedLawyerId": "missing"}, cookie)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodPut, "/api/cases/missing", map[string]interface{}{"status": "closed"}, cookie)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, int64(4), auditCount(t, s.db, models.AuditActionCaseUpdated))
}

func TestReassignCase(t *testing.T) {
	s := newTestServer(t)
	lawyer, cookie := s.userWithSession(t, "lex", models.RoleLawyer)
	other := createTestUser(t, s.db, "other", models.RoleLawyer)
	client := createTestClient(t, s.db, "Acme", lawyer.ID)
	kase := createTestCase(t, s.db, "Matter", client.ID, lawyer.ID)

	rec := s.do(t, http.MethodPut, "/api/cases/"+kase.ID, map[string]interface{}{"assignedLawyerId": other.ID}, cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, other.ID, decode[models.Case](t, rec).AssignedLawyerID)
}

func TestListCasesFilters(t *testing.T) {
	s := newTestServer(t)
	lex, cookie := s.userWithSession(t, "lex", models.RoleLawyer)
	ada := createTestUser(t, s.db, "ada", models.RoleLawyer)
	acme := createTestClient(t, s.db, "Acme", lex.ID)
	globex := createTestClient(t, s.db, "Globex", lex.ID)
	createTestCase(t, s.db, "Patent filing", acme.ID, lex.ID)
	createTestCase(t, s.db, "Merger review", globex.ID, ada.ID)

	all := decode[[]models.Case](t, s.do(t, http.MethodGet, "/api/cases", nil, cookie))
	assert.Len(t, all, 2)

	byClient := decode[[]models.Case](t, s.do(t, http.MethodGet, "/api/cases?client="+acme.ID, nil, cookie))
	require.Len(t, byClient, 1)
	assert.Equal(t, "Patent filing", byClient[0].Title)

	byLawyer := decode[[]models.Case](t, s.do(t, http.MethodGet, "/api/cases?lawyer="+ada.ID, nil, cookie))
	require.Len(t, byLawyer, 1)
	assert.Equal(t, "Merger review", byLawyer[0].Title)

	searched := decode[[]models.Case](t, s.do(t, http.MethodGet, "/api/cases?search=merger", nil, cookie))
	require.Len(t, searched, 1)
}

func TestDeleteCaseDetachesDependents(t *testing.T) {
	s := newTestServer(t)
	lawyer, cookie := s.userWithSession(t, "lex", models.RoleLawyer)
	client := createTestClient(t, s.db, "Acme", lawyer.ID)
	kase := createTestCase(t, s.db, "Matter", client.ID, lawyer.ID)
	task, err := services.CreateTask(s.db, &models.Task{
		Title: "Draft", Status: models.TaskStatusPending, Priority: models.PriorityLow,
		CaseID: &kase.ID, AssignedToID: lawyer.ID, CreatedBy: lawyer.ID,
	})
	require.NoError(t, err)

	rec := s.do(t, http.MethodDelete, "/api/cases/"+kase.ID, nil, cookie)
	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())

	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodGet, "/api/cases/"+kase.ID, nil, cookie).Code)

	rec = s.do(t, http.MethodGet, "/api/tasks/"+task.ID, nil, cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, decode[models.Task](t, rec).CaseID)

	var entry models.AuditLog
	require.NoError(t, s.db.Where("action = ?", models.AuditActionCaseDeleted).First(&entry).Error)
	assert.Contains(t, string(entry.OldValues), kase.CaseNumber)
}

func TestExportCases(t *testing.T) {
	s := newTestServer(t)
	lawyer, cookie := s.userWithSession(t, "lex", models.RoleLawyer)
	client := createTestClient(t, s.db, "Acme", lawyer.ID)
	createTestCase(t, s.db, "Matter", client.ID, lawyer.ID)

	rec := s.do(t, http.MethodGet, "/api/cases/export", nil, cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, services.XLSXContentType, rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "cases_")
	assert.NotZero(t, rec.Body.Len())
}
