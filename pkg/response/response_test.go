package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestErrorCarriesMessageInErrorField(t *testing.T) {
	rec := httptest.NewRecorder()
	NotFound(rec, "Evento não encontrado")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	body := decode(t, rec)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Evento não encontrado", body["error"])
	assert.NotContains(t, body, "data")
}

func TestValidationErrorDefaults(t *testing.T) {
	rec := httptest.NewRecorder()
	ValidationError(rec, "", map[string]string{"email": "email is required"})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "Dados inválidos", body["error"])
	assert.Equal(t, "email is required", body["details"].(map[string]interface{})["email"])
}

func TestSuccessWithMeta(t *testing.T) {
	rec := httptest.NewRecorder()
	SuccessWithMeta(rec, http.StatusOK, "", []int{1}, &Meta{Total: 3, Returned: 1})

	body := decode(t, rec)
	assert.Equal(t, true, body["success"])
	assert.NotContains(t, body, "message")
	meta := body["meta"].(map[string]interface{})
	assert.Equal(t, float64(3), meta["total"])
}
