package http

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRequestID_IncomingHeaderIsEchoed(t *testing.T) {
	env := newTestEnv(t, regularUser(), false)
	req := httptest.NewRequest("GET", "/health", nil)
	req.Header.Set("X-Request-Id", "req-abc-123")
	recorder := httptest.NewRecorder()

	env.router.ServeHTTP(recorder, req)

	assert.Equal(t, "req-abc-123", recorder.Header().Get("X-Request-ID"))
}

func TestRequestID_GeneratedWhenMissing(t *testing.T) {
	env := newTestEnv(t, regularUser(), false)
	req := httptest.NewRequest("GET", "/health", nil)
	recorder := httptest.NewRecorder()

	env.router.ServeHTTP(recorder, req)

	assert.NotEmpty(t, recorder.Header().Get("X-Request-ID"))
}
