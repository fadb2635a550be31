package test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Format of Request helper ExecuteAPITest() handles
type RequestAPITest struct {
	Method       string            // Method of API request - [GET, POST, PUT, DELETE . . .]
	Path         string            // API Path
	Body         io.Reader         // Request Body
	WantResponse []int             // Expected Response according to request
	Headers      map[string]string // Request headers
}

// Helper to execute API tests in JackStatz, the recorder is returned for further assertions on the body.
func ExecuteAPITest(t *testing.T, router *gin.Engine, request RequestAPITest) *httptest.ResponseRecorder {
	t.Helper()
	// Setup the test request
	req, reqerr := http.NewRequest(request.Method, request.Path, request.Body)
	require.NoError(t, reqerr)
	for key, val := range request.Headers {
		req.Header.Set(key, val)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	// Assert the response
	assert.Contains(t, request.WantResponse, w.Code, w.Body.String())
	return w
}

// JSONBody marshals v into a request body.
func JSONBody(t *testing.T, v interface{}) io.Reader {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewReader(b)
}

// FormBody url-encodes values into a request body.
func FormBody(values map[string]string) io.Reader {
	form := url.Values{}
	for k, v := range values {
		form.Set(k, v)
	}
	return strings.NewReader(form.Encode())
}

var (
	JSONHeaders = map[string]string{"Content-Type": "application/json"}
	FormHeaders = map[string]string{"Content-Type": "application/x-www-form-urlencoded"}
)
