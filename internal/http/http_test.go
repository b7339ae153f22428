package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/allisson/certify/internal/config"
	issuanceDomain "github.com/allisson/certify/internal/issuance/domain"
	issuanceHTTP "github.com/allisson/certify/internal/issuance/http"
	"github.com/allisson/certify/internal/issuance/usecase/mocks"
	"github.com/allisson/certify/internal/metrics"
	throttleService "github.com/allisson/certify/internal/throttle/service"
	throttleStore "github.com/allisson/certify/internal/throttle/store"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

type routerMocks struct {
	organizers   *mocks.MockOrganizerUseCase
	events       *mocks.MockEventUseCase
	certificates *mocks.MockCertificateUseCase
	stats        *mocks.MockStatsUseCase
}

func testConfig() *config.Config {
	rule := config.RateLimitRule{MaxRequests: 100, Window: time.Minute}
	return &config.Config{
		RateLimitEnabled:        true,
		RateLimitOrganizer:      config.RateLimitRule{MaxRequests: 1, Window: time.Minute},
		RateLimitEvent:          rule,
		RateLimitCertificate:    rule,
		RateLimitCertificateGet: rule,
		RateLimitDownload:       config.RateLimitRule{MaxRequests: 2, Window: time.Minute},
		MetricsNamespace:        "certify_test",
	}
}

func newTestServer(t *testing.T, cfg *config.Config, provider *metrics.Provider) (*Server, *routerMocks) {
	t.Helper()
	logger := discardLogger()

	m := &routerMocks{
		organizers:   &mocks.MockOrganizerUseCase{},
		events:       &mocks.MockEventUseCase{},
		certificates: &mocks.MockCertificateUseCase{},
		stats:        &mocks.MockStatsUseCase{},
	}
	t.Cleanup(func() {
		m.organizers.AssertExpectations(t)
		m.events.AssertExpectations(t)
		m.certificates.AssertExpectations(t)
		m.stats.AssertExpectations(t)
	})

	limiter := throttleService.NewLimiter(throttleStore.NewMemoryCounterStore(), logger)

	server := NewServer(nil, "localhost", 0, logger)
	server.SetupRouter(cfg, Handlers{
		Organizer:   issuanceHTTP.NewOrganizerHandler(m.organizers, logger),
		Event:       issuanceHTTP.NewEventHandler(m.events, logger),
		Certificate: issuanceHTTP.NewCertificateHandler(m.certificates, logger),
		Stats:       issuanceHTTP.NewStatsHandler(m.stats, logger),
	}, limiter, provider)

	return server, m
}

func serveRequest(server *Server, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, nil)
	req.Header.Set("X-Forwarded-For", "203.0.113.10")
	server.Router().ServeHTTP(w, req)
	return w
}

func TestHealthHandler(t *testing.T) {
	server, _ := newTestServer(t, testConfig(), nil)

	w := serveRequest(server, http.MethodGet, "/health")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"healthy"}`, w.Body.String())

	requestID, err := uuid.Parse(w.Header().Get("X-Request-Id"))
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(7), requestID.Version())
}

func TestReadinessHandler(t *testing.T) {
	t.Run("not ready without database", func(t *testing.T) {
		server, _ := newTestServer(t, testConfig(), nil)

		w := serveRequest(server, http.MethodGet, "/ready")

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		var body map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "not_ready", body["status"])
		assert.Equal(t, map[string]any{"database": "error"}, body["components"])
	})

	t.Run("ready when database answers", func(t *testing.T) {
		db, sqlMock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
		require.NoError(t, err)
		defer func() { _ = db.Close() }()
		sqlMock.ExpectPing()

		server := NewServer(db, "localhost", 0, discardLogger())
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/ready", nil)

		server.readinessHandler(c)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"status":"ready","components":{"database":"ok"}}`, w.Body.String())
		assert.NoError(t, sqlMock.ExpectationsWereMet())
	})
}

func TestRouter_Routes(t *testing.T) {
	server, m := newTestServer(t, testConfig(), nil)

	m.organizers.On("Get", mock.Anything, "ORG-1").
		Return(nil, issuanceDomain.ErrOrganizerNotFound).Once()
	m.stats.On("Get", mock.Anything).Return(&issuanceDomain.Stats{Organizers: 2}, nil).Once()

	assert.Equal(t, http.StatusNotFound, serveRequest(server, http.MethodGet, "/v1/organizers/ORG-1").Code)
	assert.Equal(t, http.StatusOK, serveRequest(server, http.MethodGet, "/v1/stats").Code)
	assert.Equal(t, http.StatusNotFound, serveRequest(server, http.MethodGet, "/metrics").Code)
	assert.Equal(t, http.StatusNotFound, serveRequest(server, http.MethodGet, "/nonexistent").Code)
}

func TestRouter_DownloadIsNotAReferenceID(t *testing.T) {
	server, _ := newTestServer(t, testConfig(), nil)

	// Missing query parameters are rejected before the use case is reached.
	w := serveRequest(server, http.MethodGet, "/v1/certificates/download")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "2", w.Header().Get("X-RateLimit-Limit"))
}

func TestRouter_RateLimitPerScope(t *testing.T) {
	server, _ := newTestServer(t, testConfig(), nil)

	first := serveRequest(server, http.MethodPost, "/v1/organizers")
	assert.Equal(t, http.StatusBadRequest, first.Code)
	assert.Equal(t, "0", first.Header().Get("X-RateLimit-Remaining"))

	second := serveRequest(server, http.MethodPost, "/v1/organizers")
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.NotEmpty(t, second.Header().Get("Retry-After"))

	// A full organizer window does not affect the download scope.
	assert.Equal(t, http.StatusBadRequest, serveRequest(server, http.MethodGet, "/v1/certificates/download").Code)
}

func TestRouter_RateLimitDisabled(t *testing.T) {
	cfg := testConfig()
	cfg.RateLimitEnabled = false
	server, _ := newTestServer(t, cfg, nil)

	for i := 0; i < 3; i++ {
		w := serveRequest(server, http.MethodPost, "/v1/organizers")
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Empty(t, w.Header().Get("X-RateLimit-Limit"))
	}
}

func TestRouter_RecordsHTTPMetrics(t *testing.T) {
	provider, err := metrics.NewProvider("certify_test")
	require.NoError(t, err)
	defer func() {
		assert.NoError(t, provider.Shutdown(context.Background()))
	}()

	server, _ := newTestServer(t, testConfig(), provider)
	serveRequest(server, http.MethodGet, "/health")
	serveRequest(server, http.MethodGet, "/v1/certificates/download")

	w := httptest.NewRecorder()
	provider.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Contains(t, w.Body.String(), `path="/v1/certificates/download"`)
	assert.NotContains(t, w.Body.String(), `path="/health"`)
}

func TestRecovery(t *testing.T) {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(CustomLoggerMiddleware(discardLogger()))
	router.GET("/panic", func(c *gin.Context) {
		panic("boom")
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestServer_StartWithoutRouter(t *testing.T) {
	server := NewServer(nil, "localhost", 0, discardLogger())
	assert.Error(t, server.Start(context.Background()))
}

func TestServer_ShutdownGracefully(t *testing.T) {
	server, _ := newTestServer(t, testConfig(), nil)

	errChan := make(chan error, 1)
	go func() {
		errChan <- server.Start(context.Background())
	}()

	time.Sleep(100 * time.Millisecond)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, server.Shutdown(shutdownCtx))

	select {
	case err := <-errChan:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestMetricsServer_Endpoints(t *testing.T) {
	provider, err := metrics.NewProvider("certify_test")
	require.NoError(t, err)
	defer func() {
		assert.NoError(t, provider.Shutdown(context.Background()))
	}()

	metricsServer := NewMetricsServer("localhost", 0, discardLogger(), provider)

	w := httptest.NewRecorder()
	metricsServer.GetHandler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/plain")
}
