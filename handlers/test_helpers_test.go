package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"law_office_app_go/config"
	"law_office_app_go/db"
	"law_office_app_go/middleware"
	"law_office_app_go/models"
	"law_office_app_go/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testPassword = "password123"

func setupTestDB(t *testing.T) *gorm.DB {
	// Use unique shared memory name to isolate tests while allowing shared cache for async tasks
	dbName := "mem_" + uuid.New().String()
	testDB, err := gorm.Open(db.OpenSQLite("file:"+dbName+"?mode=memory&cache=shared&_busy_timeout=5000&_foreign_keys=on"), db.GormConfig(logger.Silent))
	require.NoError(t, err)
	require.NoError(t, testDB.AutoMigrate(models.All()...))

	// Set global DB and a per-test upload directory
	db.DB = testDB
	services.Storage = services.NewLocalStorage(t.TempDir())

	t.Cleanup(func() {
		if sqlDB, err := testDB.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return testDB
}

func testConfig() *config.Config {
	return &config.Config{
		Environment:   "test",
		EmailTestMode: true,
		AppURL:        "http://localhost:8080",
	}
}

// testServer is the full router over a fresh database
type testServer struct {
	e        *echo.Echo
	db       *gorm.DB
	sessions *services.SessionManager
}

func newTestServer(t *testing.T) *testServer {
	testDB := setupTestDB(t)
	sessions := services.NewSessionManager(services.NewMemorySessionStore(), "test-secret", time.Hour)
	return &testServer{
		e:        NewServer(testConfig(), sessions, zap.NewNop()),
		db:       testDB,
		sessions: sessions,
	}
}

// do sends a JSON request, attaching the session cookie when one is given
func (s *testServer) do(t *testing.T, method, path string, body interface{}, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

// login signs the user in through the API and returns the session cookie
func (s *testServer) login(t *testing.T, email string) *http.Cookie {
	t.Helper()
	rec := s.do(t, http.MethodPost, "/api/login", map[string]string{"email": email, "password": testPassword}, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	return sessionCookie(t, rec)
}

// userWithSession creates a user and returns a cookie for a session started directly
func (s *testServer) userWithSession(t *testing.T, username, role string) (*models.User, *http.Cookie) {
	t.Helper()
	user := createTestUser(t, s.db, username, role)
	token, _, err := s.sessions.Start(t.Context(), user.ID, "127.0.0.1", "test")
	require.NoError(t, err)
	return user, &http.Cookie{Name: middleware.SessionCookieName, Value: token}
}

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == middleware.SessionCookieName {
			return c
		}
	}
	t.Fatalf("no %s cookie in response", middleware.SessionCookieName)
	return nil
}

func createTestUser(t *testing.T, testDB *gorm.DB, username, role string) *models.User {
	t.Helper()
	user, err := services.RegisterUser(testDB, services.RegisterInput{
		Email:    username + "@office.test",
		Password: testPassword,
		FullName: "Test " + username,
		Username: username,
		Role:     role,
	})
	require.NoError(t, err)
	return user
}

func createTestClient(t *testing.T, testDB *gorm.DB, name, createdBy string) *models.Client {
	t.Helper()
	client, err := services.CreateClient(testDB, &models.Client{Name: name, CreatedBy: createdBy})
	require.NoError(t, err)
	return client
}

func createTestCase(t *testing.T, testDB *gorm.DB, title, clientID, lawyerID string) *models.Case {
	t.Helper()
	kase, err := services.CreateCase(testDB, &models.Case{
		Title:            title,
		CaseType:         "civil",
		Status:           models.CaseStatusActive,
		Priority:         models.PriorityMedium,
		ClientID:         clientID,
		AssignedLawyerID: lawyerID,
		CreatedBy:        lawyerID,
	})
	require.NoError(t, err)
	return kase
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func auditCount(t *testing.T, testDB *gorm.DB, action models.AuditAction) int64 {
	t.Helper()
	var n int64
	require.NoError(t, testDB.Model(&models.AuditLog{}).Where("action = ?", action).Count(&n).Error)
	return n
}

// multipartBody builds an upload body with a "file" part and extra form fields
func multipartBody(t *testing.T, filename string, content []byte, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for k, v := range fields {
		require.NoError(t, writer.WriteField(k, v))
	}
	if filename != "" {
		part, err := writer.CreateFormFile("file", filename)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}

func setupEcho(method, path string, body io.Reader) (*echo.Echo, echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()
	req := httptest.NewRequest(method, path, body)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	// Add config to context
	c.Set("config", testConfig())

	return e, c, rec
}

func stringPtr(s string) *string {
	return &s
}
