package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"crm-service/internal/events"
	"crm-service/internal/importer"
	"crm-service/internal/models"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

type MockLeadStore struct {
	mock.Mock
}

func (m *MockLeadStore) ExistsByMPAN(tenantID, mpanMPR string) (bool, error) {
	args := m.Called(tenantID, mpanMPR)
	return args.Bool(0), args.Error(1)
}

func (m *MockLeadStore) Create(tenantID string, lead *models.Lead) error {
	args := m.Called(tenantID, lead)
	return args.Error(0)
}

func setupImportRouter(store importer.LeadStore) *gin.Engine {
	gin.SetMode(gin.TestMode)

	handler := NewImportHandler(importer.NewService(store), events.NewPublisher(testLogger()))

	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set("tenant_id", "tenant1")
		c.Set("user_id", "f4b9e7ce-1f0a-4a2e-9a5c-3d8f1b2c4d5e")
	})
	router.POST("/leads/import/preview", handler.PreviewImport)
	router.POST("/leads/import/confirm", handler.ConfirmImport)
	router.GET("/leads/import/template", handler.GetImportTemplate)
	return router
}

func multipartFile(t *testing.T, filename, content string) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", filename)
	assert.NoError(t, err)
	_, err = part.Write([]byte(content))
	assert.NoError(t, err)
	assert.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}

func TestPreviewImportEndpoint(t *testing.T) {
	router := setupImportRouter(new(MockLeadStore))

	csvData := "MPAN_MPR,Business_Name,Tel_Number,Start_Date,End_Date\n" +
		"1234567890123,ABC Limited,07700900000,2024-01-01,2024-12-31\n" +
		",Missing MPAN Ltd,07700900001,2024-01-01,2024-12-31\n"
	body, contentType := multipartFile(t, "leads.csv", csvData)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/leads/import/preview", body)
	req.Header.Set("Content-Type", contentType)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var preview models.ImportPreview
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &preview))
	assert.True(t, preview.Success)
	assert.Equal(t, 2, preview.TotalRows)
	assert.Equal(t, 1, preview.ValidRows)
	assert.Equal(t, 1, preview.InvalidRows)
	assert.Equal(t, []string{importer.MsgMPANRequired}, preview.Rows[1].Errors)
}

func TestPreviewImportNoFile(t *testing.T) {
	router := setupImportRouter(new(MockLeadStore))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/leads/import/preview", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "NO_FILE")
}

func TestPreviewImportUnsupportedType(t *testing.T) {
	router := setupImportRouter(new(MockLeadStore))

	body, contentType := multipartFile(t, "leads.pdf", "not a spreadsheet")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/leads/import/preview", body)
	req.Header.Set("Content-Type", contentType)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "UNSUPPORTED_FILE_TYPE")
}

func TestPreviewImportMissingColumn(t *testing.T) {
	router := setupImportRouter(new(MockLeadStore))

	body, contentType := multipartFile(t, "leads.csv", "Business_Name,Tel_Number\nABC Limited,07700900000\n")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/leads/import/preview", body)
	req.Header.Set("Content-Type", contentType)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "MISSING_COLUMN")
}

func TestPreviewImportEmptyFile(t *testing.T) {
	router := setupImportRouter(new(MockLeadStore))

	body, contentType := multipartFile(t, "leads.csv", "MPAN_MPR,Business_Name\n")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/leads/import/preview", body)
	req.Header.Set("Content-Type", contentType)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "EMPTY_FILE")
}

func TestConfirmImportEndpoint(t *testing.T) {
	store := new(MockLeadStore)
	store.On("ExistsByMPAN", "tenant1", "1234567890123").Return(false, nil)
	store.On("ExistsByMPAN", "tenant1", "9876543210987").Return(true, nil)
	store.On("Create", "tenant1", mock.AnythingOfType("*models.Lead")).Return(nil)

	router := setupImportRouter(store)

	mpan1 := "1234567890123"
	mpan2 := "9876543210987"
	name := "ABC Limited"
	tel := "07700900000"
	start := "2024-01-01"
	end := "2024-12-31"

	rowData := func(mpan string) map[string]*string {
		return map[string]*string{
			"MPAN_MPR":      &mpan,
			"Business_Name": &name,
			"Tel_Number":    &tel,
			"Start_Date":    &start,
			"End_Date":      &end,
		}
	}

	payload, err := json.Marshal([]models.ImportRow{
		{RowNumber: 1, Data: rowData(mpan1), IsValid: true, Errors: []string{}},
		{RowNumber: 2, Data: rowData(mpan2), IsValid: true, Errors: []string{}},
	})
	assert.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/leads/import/confirm", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var outcome models.ImportOutcome
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &outcome))
	assert.Equal(t, 1, outcome.Inserted)
	assert.Equal(t, 1, outcome.Skipped)
	assert.Empty(t, outcome.Errors)
}

func TestConfirmImportRejectsNonArrayBody(t *testing.T) {
	router := setupImportRouter(new(MockLeadStore))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/leads/import/confirm", bytes.NewReader([]byte("{}")))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Expected a JSON array")
}

func TestConfirmImportRejectsEmptyArray(t *testing.T) {
	store := new(MockLeadStore)
	router := setupImportRouter(store)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/leads/import/confirm", bytes.NewReader([]byte("[]")))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Expected a JSON array")
	store.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestGetImportTemplateJSON(t *testing.T) {
	router := setupImportRouter(new(MockLeadStore))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/leads/import/template", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "MPAN_MPR")
	assert.Contains(t, w.Body.String(), "lead")
}

func TestGetImportTemplateCSV(t *testing.T) {
	router := setupImportRouter(new(MockLeadStore))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/leads/import/template?format=csv", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Body.String(), "MPAN_MPR,Business_Name")
}
