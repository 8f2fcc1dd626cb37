package handlers

import (
	"net/http"
	"testing"
	"time"

	"law_office_app_go/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientCRUD(t *testing.T) {
	s := newTestServer(t)
	user, cookie := s.userWithSession(t, "sec", models.RoleSecretary)

	rec := s.do(t, http.MethodPost, "/api/clients", map[string]interface{}{
		"name":  "Acme <script>x</script>Corp",
		"email": "legal@acme.test",
		"phone": "555-0100",
	}, cookie)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[models.Client](t, rec)
	assert.Equal(t, "Acme Corp", created.Name)
	assert.Equal(t, user.ID, created.CreatedBy)
	assert.Equal(t, int64(1), auditCount(t, s.db, models.AuditActionClientCreated))

	rec = s.do(t, http.MethodGet, "/api/clients/"+created.ID, nil, cookie)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, http.MethodPut, "/api/clients/"+created.ID, map[string]interface{}{"phone": "555-0199", "email": ""}, cookie)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	updated := decode[models.Client](t, rec)
	assert.Equal(t, "Acme Corp", updated.Name, "absent fields are kept")
	require.NotNil(t, updated.Phone)
	assert.Equal(t, "555-0199", *updated.Phone)
	assert.Nil(t, updated.Email, "empty string clears an optional field")
	assert.False(t, updated.UpdatedAt.Before(created.UpdatedAt))

	var entry models.AuditLog
	require.NoError(t, s.db.Where("action = ?", models.AuditActionClientUpdated).First(&entry).Error)
	assert.Contains(t, string(entry.OldValues), "555-0100")
	assert.Contains(t, string(entry.NewValues), "555-0199")

	rec = s.do(t, http.MethodDelete, "/api/clients/"+created.ID, nil, cookie)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodGet, "/api/clients/"+created.ID, nil, cookie).Code)
	assert.Equal(t, int64(1), auditCount(t, s.db, models.AuditActionClientDeleted))
}

func TestClientNotFoundWritesNoAudit(t *testing.T) {
	s := newTestServer(t)
	_, cookie := s.userWithSession(t, "sec", models.RoleSecretary)

	rec := s.do(t, http.MethodPut, "/api/clients/missing", map[string]interface{}{"name": "x"}, cookie)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"message":"Client not found"}`, rec.Body.String())

	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodDelete, "/api/clients/missing", nil, cookie).Code)

	var n int64
	require.NoError(t, s.db.Model(&models.AuditLog{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestClientValidation(t *testing.T) {
	s := newTestServer(t)
	user, cookie := s.userWithSession(t, "sec", models.RoleSecretary)

	assert.Equal(t, http.StatusBadRequest, s.do(t, http.MethodPost, "/api/clients", map[string]interface{}{"name": ""}, cookie).Code)
	assert.Equal(t, http.StatusBadRequest, s.do(t, http.MethodPost, "/api/clients", map[string]interface{}{"name": "A", "email": "nope"}, cookie).Code)

	client := createTestClient(t, s.db, "Keep", user.ID)
	rec := s.do(t, http.MethodPut, "/api/clients/"+client.ID, map[string]interface{}{"name": "  "}, cookie)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestClientSearch(t *testing.T) {
	s := newTestServer(t)
	user, cookie := s.userWithSession(t, "sec", models.RoleSecretary)
	createTestClient(t, s.db, "Smith & Sons", user.ID)
	createTestClient(t, s.db, "École Martin", user.ID)
	time.Sleep(10 * time.Millisecond)
	createTestClient(t, s.db, "Jones LLC", user.ID)

	all := decode[[]models.Client](t, s.do(t, http.MethodGet, "/api/clients", nil, cookie))
	require.Len(t, all, 3)
	assert.Equal(t, "Jones LLC", all[0].Name, "newest first")

	for _, q := range []string{"%C3%89cole", "%C3%A9cole", "MARTIN"} {
		accented := decode[[]models.Client](t, s.do(t, http.MethodGet, "/api/clients?search="+q, nil, cookie))
		require.Len(t, accented, 1, q)
		assert.Equal(t, "École Martin", accented[0].Name)
	}

	found := decode[[]models.Client](t, s.do(t, http.MethodGet, "/api/clients?search=SMITH", nil, cookie))
	require.Len(t, found, 1)
	assert.Equal(t, "Smith & Sons", found[0].Name)

	none := decode[[]models.Client](t, s.do(t, http.MethodGet, "/api/clients?search=100%25", nil, cookie))
	assert.Empty(t, none)
}

func TestDeleteClientWithCases(t *testing.T) {
	s := newTestServer(t)
	lawyer, cookie := s.userWithSession(t, "lex", models.RoleLawyer)
	client := createTestClient(t, s.db, "Busy", lawyer.ID)
	createTestCase(t, s.db, "Open matter", client.ID, lawyer.ID)

	rec := s.do(t, http.MethodDelete, "/api/clients/"+client.ID, nil, cookie)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/api/clients/"+client.ID, nil, cookie).Code)
	assert.Zero(t, auditCount(t, s.db, models.AuditActionClientDeleted))
}

func TestClientsRequireAuth(t *testing.T) {
	s := newTestServer(t)
	assert.Equal(t, http.StatusUnauthorized, s.do(t, http.MethodGet, "/api/clients", nil, nil).Code)
	assert.Equal(t, http.StatusUnauthorized, s.do(t, http.MethodPost, "/api/clients", map[string]string{"name": "x"}, nil).Code)
}
