package httpx

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"bookquery/internal/auth"
	"bookquery/internal/testutil"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func TestRequestIDMiddleware(t *testing.T) {
	var logs bytes.Buffer
	var seen string
	handler := RequestIDMiddleware(zerolog.New(&logs))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestIDFrom(r)
		zerolog.Ctx(r.Context()).Info().Msg("inside")
	}))

	t.Run("generated", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.NotEmpty(t, seen)
		assert.Equal(t, seen, w.Header().Get("X-Request-Id"))
		assert.Contains(t, logs.String(), `"request_id":"`+seen+`"`)
	})

	t.Run("propagated", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Request-Id", "abc-123")
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		assert.Equal(t, "abc-123", seen)
		assert.Equal(t, "abc-123", w.Header().Get("X-Request-Id"))
	})
}

func TestAccessLogMiddleware(t *testing.T) {
	var logs bytes.Buffer
	handler := Chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte("short and stout"))
	}), RequestIDMiddleware(zerolog.New(&logs)), AccessLogMiddleware)

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/stats/decades", nil))

	var line map[string]any
	require.NoError(t, json.Unmarshal(logs.Bytes(), &line))
	assert.Equal(t, "access", line["message"])
	assert.Equal(t, "/stats/decades", line["path"])
	assert.Equal(t, float64(http.StatusTeapot), line["status"])
	assert.Equal(t, float64(len("short and stout")), line["bytes"])
	assert.NotEmpty(t, line["request_id"])
}

func TestRecoveryMiddleware(t *testing.T) {
	var logs bytes.Buffer
	handler := Chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}), RequestIDMiddleware(zerolog.New(&logs)), AccessLogMiddleware, RecoveryMiddleware)

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "INTERNAL_ERROR")
	assert.Contains(t, logs.String(), "panic recovered")
}

func TestSecurityHeadersMiddleware(t *testing.T) {
	w := httptest.NewRecorder()
	SecurityHeadersMiddleware(okHandler).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
	assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))
}

func TestRequestSizeLimitMiddleware(t *testing.T) {
	handler := RequestSizeLimitMiddleware(16)(okHandler)

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodPatch, "/", strings.NewReader(`{"price":1}`)))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodPatch, "/", strings.NewReader(`{"price":14.99,"x":"yyyy"}`)))
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}

func TestRateLimitMiddleware(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rl := NewRateLimitMiddleware(ctx, 1, 2)
	handler := rl.Middleware(okHandler)

	request := func(addr string) int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = addr
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, request("10.0.0.1:1000"))
	assert.Equal(t, http.StatusOK, request("10.0.0.1:1000"))
	assert.Equal(t, http.StatusTooManyRequests, request("10.0.0.1:1000"))
	assert.Equal(t, http.StatusOK, request("10.0.0.2:1000"), "buckets are per client")

	rl.evictIdle(time.Now().Add(time.Hour))
	rl.mu.Lock()
	assert.Empty(t, rl.limiters)
	rl.mu.Unlock()
}

func TestRateLimitMiddleware_ClientKey(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rl := NewRateLimitMiddleware(ctx, 1, 1, "10.0.0.100")

	tests := []struct {
		name       string
		remoteAddr string
		forwarded  string
		want       string
	}{
		{"peer port ignored", "10.0.0.1:1000", "", "10.0.0.1"},
		{"untrusted peer header ignored", "10.0.0.1:1000", "203.0.113.7", "10.0.0.1"},
		{"trusted proxy", "10.0.0.100:443", "203.0.113.7", "203.0.113.7"},
		{"nearest untrusted hop", "10.0.0.100:443", "198.51.100.1, 203.0.113.7, 10.0.0.100", "203.0.113.7"},
		{"trusted proxy without header", "10.0.0.100:443", "", "10.0.0.100"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remoteAddr
			if tt.forwarded != "" {
				req.Header.Set("X-Forwarded-For", tt.forwarded)
			}
			assert.Equal(t, tt.want, rl.clientKey(req))
		})
	}
}

func TestRateLimitMiddleware_ForwardedForSpoofing(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	handler := NewRateLimitMiddleware(ctx, 1, 1).Middleware(okHandler)

	codes := make([]int, 0, 3)
	for i, addr := range []string{"10.0.0.1:1000", "10.0.0.1:1001", "10.0.0.1:1002"} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = addr
		req.Header.Set("X-Forwarded-For", fmt.Sprintf("198.51.100.%d", i))
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusTooManyRequests, http.StatusTooManyRequests}, codes)
}

func TestAuthMiddleware(t *testing.T) {
	const secret = "test-secret"
	var subject string
	handler := AuthMiddleware(secret, auth.RoleAdmin)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		subject = UserIDFrom(r)
		w.WriteHeader(http.StatusOK)
	}))

	admin := testutil.GenerateTestToken(secret, "ops", auth.RoleAdmin)
	reader := testutil.GenerateTestToken(secret, "guest", "READER")
	forged := testutil.GenerateTestToken("other-secret", "ops", auth.RoleAdmin)
	expired := testutil.GenerateExpiredToken(secret, "ops", auth.RoleAdmin)

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"missing", "", http.StatusUnauthorized},
		{"not bearer", "Basic b3BzOm9wcw==", http.StatusUnauthorized},
		{"forged", "Bearer " + forged, http.StatusUnauthorized},
		{"expired", "Bearer " + expired, http.StatusUnauthorized},
		{"wrong role", "Bearer " + reader, http.StatusForbidden},
		{"admin", "Bearer " + admin, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/admin/indexes", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)
			assert.Equal(t, tt.want, w.Code)
		})
	}
	assert.Equal(t, "ops", subject)
}

func TestJSONEnvelope(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	w := httptest.NewRecorder()
	JSONSuccessWithRequest(req, w, []string{"a"}, nil)
	assert.JSONEq(t, `{"success":true,"data":["a"]}`, w.Body.String())
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	req = req.WithContext(ContextWithRequestID(req.Context(), "rid"))
	w = httptest.NewRecorder()
	JSONSuccessWithRequest(req, w, []string{}, map[string]any{"page": 1})
	assert.JSONEq(t, `{"success":true,"data":[],"meta":{"request_id":"rid","page":1}}`, w.Body.String())

	w = httptest.NewRecorder()
	JSONErrorWithRequest(req, w, http.StatusBadRequest, "INVALID_ARGUMENT", "bad", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"success":false,"error":{"code":"INVALID_ARGUMENT","message":"bad"},"meta":{"request_id":"rid"}}`, w.Body.String())
}
