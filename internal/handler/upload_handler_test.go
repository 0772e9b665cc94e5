package handler

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/examify-api/internal/config"
	"github.com/yourusername/examify-api/internal/service"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// newMultipartContext создает *gin.Context с multipart-телом.
// fileField пустой — файл не прикладывается.
func newMultipartContext(t *testing.T, fileField string, fileContent []byte, fields map[string]string) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	if fileField != "" {
		part, err := writer.CreateFormFile(fileField, "document.pdf")
		require.NoError(t, err)
		_, err = part.Write(fileContent)
		require.NoError(t, err)
	}
	for k, v := range fields {
		require.NoError(t, writer.WriteField(k, v))
	}
	require.NoError(t, writer.Close())

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/api/upload-pdf", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	c, _ := gin.CreateTestContext(w)
	c.Request = req
	return c, w
}

func parseJSONBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp),
		"Response body should be valid JSON: %s", w.Body.String())
	return resp
}

// ============================================================================
// Проверки входных данных — не доходят до сервиса извлечения
// ============================================================================

func TestUploadPDF_NoFile(t *testing.T) {
	handler := NewUploadHandler(nil, config.ExtractionConfig{})

	c, w := newMultipartContext(t, "", nil, map[string]string{"numQuestions": "5"})
	handler.UploadPDF(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	resp := parseJSONBody(t, w)
	assert.Equal(t, "No PDF file uploaded.", resp["error"])
}

func TestUploadPDF_WrongFieldName(t *testing.T) {
	handler := NewUploadHandler(nil, config.ExtractionConfig{})

	c, w := newMultipartContext(t, "document", []byte("%PDF-1.4"), nil)
	handler.UploadPDF(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	resp := parseJSONBody(t, w)
	assert.Equal(t, "No PDF file uploaded.", resp["error"])
}

func TestUploadPDF_FileTooLarge(t *testing.T) {
	handler := NewUploadHandler(nil, config.ExtractionConfig{MaxFileSizeMB: 1})

	big := bytes.Repeat([]byte("x"), 2*1024*1024)
	c, w := newMultipartContext(t, "pdf", big, nil)
	handler.UploadPDF(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	resp := parseJSONBody(t, w)
	assert.Equal(t, "PDF file is too large.", resp["error"])
}

func TestUploadPDF_InvalidDifficulty(t *testing.T) {
	extraction := service.NewExtractionService(config.ExtractionConfig{
		ScriptPath: "does-not-matter.py",
	})
	handler := NewUploadHandler(extraction, config.ExtractionConfig{
		UploadsDir: t.TempDir(),
	})

	c, w := newMultipartContext(t, "pdf", []byte("%PDF-1.4"),
		map[string]string{"difficulty": "nightmare"})
	handler.UploadPDF(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	resp := parseJSONBody(t, w)
	assert.Contains(t, resp["error"], "difficulty")
}

func TestAtoiOrZero(t *testing.T) {
	assert.Equal(t, 0, atoiOrZero(""))
	assert.Equal(t, 0, atoiOrZero("abc"))
	assert.Equal(t, 7, atoiOrZero("7"))
	assert.Equal(t, -1, atoiOrZero("-1"))
}
