package main

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"bookquery/internal/auth"
	"bookquery/internal/book"
	"bookquery/internal/httpx"
	"bookquery/internal/metrics"
	"bookquery/internal/testutil"

	"github.com/golang/mock/gomock"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func newTestServer(t *testing.T) (*httptest.Server, *book.MockRepository) {
	ctrl := gomock.NewController(t)
	repo := book.NewMockRepository(ctrl)

	reg := prometheus.NewRegistry()
	collector, err := metrics.NewCollector(reg)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	srv := httptest.NewServer(newRouter(routerDeps{
		runner:    book.NewQueryRunner(repo, book.WithMetrics(collector)),
		logger:    zerolog.Nop(),
		gatherer:  reg,
		jwtSecret: testSecret,
		limiter:   httpx.NewRateLimitMiddleware(ctx, 100, 100),
	}))
	t.Cleanup(srv.Close)
	return srv, repo
}

func do(t *testing.T, req *http.Request) *http.Response {
	t.Helper()
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func TestRouter_HealthEndpoints(t *testing.T) {
	srv, repo := newTestServer(t)

	resp := do(t, mustRequest(t, http.MethodGet, srv.URL+"/healthz", ""))
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	gomock.InOrder(
		repo.EXPECT().Ping(gomock.Any()).Return(nil),
		repo.EXPECT().Ping(gomock.Any()).Return(errors.Join(book.ErrConnectivity, context.DeadlineExceeded)),
	)
	resp = do(t, mustRequest(t, http.MethodGet, srv.URL+"/readyz", ""))
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = do(t, mustRequest(t, http.MethodGet, srv.URL+"/readyz", ""))
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestRouter_ReadRouteCarriesRequestIDAndHeaders(t *testing.T) {
	srv, repo := newTestServer(t)
	repo.EXPECT().CountByDecade(gomock.Any()).Return([]book.DecadeCount{}, nil)

	req := mustRequest(t, http.MethodGet, srv.URL+"/stats/decades", "")
	req.Header.Set("X-Request-Id", "rid-1")
	resp := do(t, req)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "rid-1", resp.Header.Get("X-Request-Id"))
	assert.Equal(t, "nosniff", resp.Header.Get("X-Content-Type-Options"))
}

func TestRouter_AdminRoutesRequireAdminToken(t *testing.T) {
	srv, repo := newTestServer(t)

	resp := do(t, mustRequest(t, http.MethodPost, srv.URL+"/admin/indexes", ""))
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	req := mustRequest(t, http.MethodPost, srv.URL+"/admin/indexes", "")
	req.Header.Set("Authorization", "Bearer "+testutil.GenerateTestToken(testSecret, "guest", "READER"))
	assert.Equal(t, http.StatusForbidden, do(t, req).StatusCode)

	repo.EXPECT().UpdatePrice(gomock.Any(), "1984", 14.99).Return(int64(1), nil)
	req = mustRequest(t, http.MethodPatch, srv.URL+"/books/1984/price", `{"price":14.99}`)
	req.Header.Set("Authorization", "Bearer "+testutil.GenerateTestToken(testSecret, "ops", auth.RoleAdmin))
	assert.Equal(t, http.StatusOK, do(t, req).StatusCode)
}

func TestRouter_MetricsExposeOperations(t *testing.T) {
	srv, repo := newTestServer(t)
	repo.EXPECT().FindTitles(gomock.Any(), gomock.Any()).Return([]string{"The Hobbit"}, nil)

	do(t, mustRequest(t, http.MethodGet, srv.URL+"/books/genre/Fantasy", ""))

	resp := do(t, mustRequest(t, http.MethodGet, srv.URL+"/metrics", ""))
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `bookquery_operations_total{operation="find_by_genre",outcome="ok"} 1`)
}

func mustRequest(t *testing.T, method, url, body string) *http.Request {
	t.Helper()
	var req *http.Request
	var err error
	if body == "" {
		req, err = http.NewRequest(method, url, nil)
	} else {
		req, err = http.NewRequest(method, url, strings.NewReader(body))
	}
	require.NoError(t, err)
	return req
}
