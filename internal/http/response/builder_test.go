package response

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResponseHasCommonHeaders(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		New(w, r).Write()
	})

	handler.ServeHTTP(w, r)
	resp := w.Result()

	headers := map[string]string{
		"X-Content-Type-Options": "nosniff",
		"X-Frame-Options":        "DENY",
	}

	for header, expected := range headers {
		assert.Equal(t, expected, resp.Header.Get(header), header)
	}
}

func TestBuildResponseWithStatusAndBody(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()

	New(w, r).WithStatus(http.StatusConflict).WithHeader("X-Test", "yes").WithBody([]byte("body")).Write()

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "yes", w.Header().Get("X-Test"))
	assert.Equal(t, "body", w.Body.String())
}

func TestHTMLResponse(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()

	HTML(w, r, http.StatusBadRequest, []byte("<p>oops</p>"))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, htmlContentType, w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Cache-Control"), "no-store")
	assert.Equal(t, "<p>oops</p>", w.Body.String())
}

func TestJSONResponses(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/api/v1/books", nil)

	w := httptest.NewRecorder()
	OK(w, r, map[string]int{"count": 2})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, jsonContentType, w.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"count":2}`, w.Body.String())

	w = httptest.NewRecorder()
	ServerError(w, r, errors.New("database is locked"))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error_message":"Internal Server Error"}`, w.Body.String())

	w = httptest.NewRecorder()
	NotFound(w, r)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error_message":"resource not found"}`, w.Body.String())
}
