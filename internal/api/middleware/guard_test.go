package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	mw "github.com/donaldgifford/partsearch/internal/api/middleware"
)

func okHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{"id": 4174})
}

func TestAPIKey(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		key        string
		target     string
		wantStatus int
	}{
		{name: "check disabled", key: "", target: "/api/v2/categories/get", wantStatus: http.StatusOK},
		{name: "matching key", key: "92bdca1b", target: "/api/v2/categories/get?apikey=92bdca1b", wantStatus: http.StatusOK},
		{name: "missing key", key: "92bdca1b", target: "/api/v2/categories/get", wantStatus: http.StatusUnauthorized},
		{name: "wrong key", key: "92bdca1b", target: "/api/v2/categories/get?apikey=nope", wantStatus: http.StatusUnauthorized},
		{name: "operational path unchecked", key: "92bdca1b", target: "/healthz", wantStatus: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, tt.target, http.NoBody)
			rec := httptest.NewRecorder()

			err := mw.APIKey(tt.key)(okHandler)(e.NewContext(req, rec))
			assert.NoError(t, err)
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestMaintenance(t *testing.T) {
	t.Parallel()

	var down atomic.Bool
	e := echo.New()
	handler := mw.Maintenance(&down)(okHandler)

	call := func(target string) int {
		req := httptest.NewRequest(http.MethodGet, target, http.NoBody)
		rec := httptest.NewRecorder()
		assert.NoError(t, handler(e.NewContext(req, rec)))
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, call("/api/v2/parts/search"))

	down.Store(true)
	assert.Equal(t, http.StatusServiceUnavailable, call("/api/v2/parts/search"))
	assert.Equal(t, http.StatusOK, call("/healthz"))

	down.Store(false)
	assert.Equal(t, http.StatusOK, call("/api/v2/parts/search"))
}

func TestFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		target      string
		handler     echo.HandlerFunc
		wantStatus  int
		wantBody    string
		wantType    string
		wantContain string
	}{
		{
			name:       "plain response untouched",
			target:     "/api/v2/categories/get",
			handler:    okHandler,
			wantStatus: http.StatusOK,
			wantBody:   "{\"id\":4174}\n",
		},
		{
			name:       "callback wraps body",
			target:     "/api/v2/categories/get?callback=handle",
			handler:    okHandler,
			wantStatus: http.StatusOK,
			wantBody:   "handle({\"id\":4174})",
			wantType:   "application/javascript",
		},
		{
			name:        "pretty print indents body",
			target:      "/api/v2/categories/get?pretty_print=1",
			handler:     okHandler,
			wantStatus:  http.StatusOK,
			wantContain: "{\n  \"id\": 4174\n}",
		},
		{
			name:   "error responses are not wrapped",
			target: "/api/v2/categories/get?callback=handle",
			handler: func(c echo.Context) error {
				return c.JSON(http.StatusNotFound, map[string]string{"error": "not found"})
			},
			wantStatus:  http.StatusNotFound,
			wantContain: `{"error":"not found"}`,
		},
		{
			name:       "invalid callback rejected",
			target:     "/api/v2/categories/get?callback=alert(1)",
			handler:    okHandler,
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, tt.target, http.NoBody)
			rec := httptest.NewRecorder()

			assert.NoError(t, mw.Format()(tt.handler)(e.NewContext(req, rec)))
			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantBody != "" {
				assert.Equal(t, tt.wantBody, rec.Body.String())
			}
			if tt.wantType != "" {
				assert.Equal(t, tt.wantType, rec.Header().Get(echo.HeaderContentType))
			}
			if tt.wantContain != "" {
				assert.Contains(t, rec.Body.String(), tt.wantContain)
			}
			if tt.wantStatus == http.StatusNotFound {
				assert.NotContains(t, rec.Body.String(), "handle(")
			}
		})
	}
}
