package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/GroomCloudTeam2/e-commerce-v3-sub000/internal/clock"
	"github.com/GroomCloudTeam2/e-commerce-v3-sub000/internal/metrics"
	"github.com/GroomCloudTeam2/e-commerce-v3-sub000/internal/order/domain"
	orderHTTP "github.com/GroomCloudTeam2/e-commerce-v3-sub000/internal/order/http"
	"github.com/GroomCloudTeam2/e-commerce-v3-sub000/internal/order/usecase/mocks"
	revenueHTTP "github.com/GroomCloudTeam2/e-commerce-v3-sub000/internal/revenue/http"
	revenueRepository "github.com/GroomCloudTeam2/e-commerce-v3-sub000/internal/revenue/repository"
	revenueUseCase "github.com/GroomCloudTeam2/e-commerce-v3-sub000/internal/revenue/usecase"
)

// TestMain sets Gin to test mode for all tests in this package.
func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// createTestServer creates a test server without a database.
func createTestServer() *Server {
	return NewServer(nil, "localhost", 8080, discardLogger())
}

// createPingableServer creates a server backed by sqlmock with ping monitoring.
func createPingableServer(t *testing.T) (*Server, sqlmock.Sqlmock) {
	t.Helper()

	db, mockDB, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return NewServer(db, "localhost", 8080, discardLogger()), mockDB
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	return response
}

func TestHealthHandler(t *testing.T) {
	server := createTestServer()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/health", nil)

	server.healthHandler(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "healthy", decodeBody(t, w)["status"])
}

func TestReadinessHandler(t *testing.T) {
	t.Run("not ready without database", func(t *testing.T) {
		server := createTestServer()

		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/ready", nil)

		server.readinessHandler(c)

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		response := decodeBody(t, w)
		assert.Equal(t, "not_ready", response["status"])
		components, ok := response["components"].(map[string]interface{})
		require.True(t, ok)
		assert.Equal(t, "error", components["database"])
	})

	t.Run("ready when database pings", func(t *testing.T) {
		server, mockDB := createPingableServer(t)
		mockDB.ExpectPing()

		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/ready", nil)

		server.readinessHandler(c)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "ready", decodeBody(t, w)["status"])
		assert.NoError(t, mockDB.ExpectationsWereMet())
	})

	t.Run("not ready when a registered component fails", func(t *testing.T) {
		server, mockDB := createPingableServer(t)
		mockDB.ExpectPing()
		server.AddReadinessCheck("broker", func(ctx context.Context) error {
			return errors.New("dial tcp: connection refused")
		})
		server.AddReadinessCheck("inbox", func(ctx context.Context) error { return nil })

		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/ready", nil)

		server.readinessHandler(c)

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		components := decodeBody(t, w)["components"].(map[string]interface{})
		assert.Equal(t, "ok", components["database"])
		assert.Equal(t, "error", components["broker"])
		assert.Equal(t, "ok", components["inbox"])
	})
}

func TestCustomLoggerMiddleware(t *testing.T) {
	router := gin.New()
	router.Use(requestid.New(requestid.WithGenerator(func() string {
		return uuid.Must(uuid.NewV7()).String()
	})))
	router.Use(CustomLoggerMiddleware(discardLogger()))
	router.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "test"})
	})
	router.GET("/error", func(c *gin.Context) {
		_ = c.Error(errors.New("boom"))
		c.JSON(http.StatusInternalServerError, gin.H{})
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "test", decodeBody(t, w)["message"])

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/error", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

// createOrderRouter builds the full router with a mocked order use case.
func createOrderRouter(t *testing.T, cfg RouterConfig) (*Server, *mocks.MockOrderUseCase) {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	server := createTestServer()
	mockUseCase := &mocks.MockOrderUseCase{}
	t.Cleanup(func() { mockUseCase.AssertExpectations(t) })

	revenue := revenueUseCase.NewRevenueUseCase(
		revenueRepository.NewMemoryRevenueRepository(time.Hour),
		clock.NewRealClock(),
	)
	server.SetupRouter(ctx, cfg,
		orderHTTP.NewOrderHandler(mockUseCase, server.logger),
		revenueHTTP.NewRevenueHandler(revenue, server.logger),
		nil,
	)
	return server, mockUseCase
}

func TestRouter_OrderRoutes(t *testing.T) {
	server, mockUseCase := createOrderRouter(t, RouterConfig{})
	productID := uuid.Must(uuid.NewV7())
	orderID := uuid.Must(uuid.NewV7())

	mockUseCase.On("ListByProduct", mock.Anything, productID, 0, 50).Return([]*domain.Order{}, nil).Once()
	mockUseCase.On("GetOrder", mock.Anything, orderID).Return(nil, domain.ErrOrderNotFound).Once()

	tests := []struct {
		name       string
		method     string
		path       string
		wantStatus int
	}{
		{"health", http.MethodGet, "/health", http.StatusOK},
		{"orders by product", http.MethodGet, "/v1/products/" + productID.String() + "/orders", http.StatusOK},
		{"unknown order", http.MethodGet, "/v1/orders/" + orderID.String(), http.StatusNotFound},
		{"place without buyer", http.MethodPost, "/v1/orders", http.StatusUnauthorized},
		{"cancel without buyer", http.MethodPost, "/v1/orders/" + orderID.String() + "/cancel", http.StatusUnauthorized},
		{"list without buyer", http.MethodGet, "/v1/orders", http.StatusUnauthorized},
		{"store revenue", http.MethodGet, "/v1/revenue/" + productID.String(), http.StatusOK},
		{"store revenue with bad id", http.MethodGet, "/v1/revenue/store-1", http.StatusBadRequest},
		{"no metrics endpoint", http.MethodGet, "/metrics", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			server.GetHandler().ServeHTTP(w, httptest.NewRequest(tt.method, tt.path, nil))
			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}

func TestRouter_RequestIDHeader(t *testing.T) {
	server, _ := createOrderRouter(t, RouterConfig{})

	w := httptest.NewRecorder()
	server.GetHandler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	requestID := w.Header().Get("X-Request-Id")
	parsed, err := uuid.Parse(requestID)
	require.NoError(t, err, "X-Request-Id should be a valid UUID")
	assert.NotEqual(t, uuid.Nil, parsed)
}

func TestRouter_RateLimitAppliesToAPIOnly(t *testing.T) {
	server, _ := createOrderRouter(t, RouterConfig{
		RateLimitEnabled:        true,
		RateLimitRequestsPerSec: 1,
		RateLimitBurst:          1,
	})

	w := httptest.NewRecorder()
	server.GetHandler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/orders", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = httptest.NewRecorder()
	server.GetHandler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/orders", nil))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))

	for i := 0; i < 3; i++ {
		w = httptest.NewRecorder()
		server.GetHandler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	}
}

func TestServer_ShutdownGracefully(t *testing.T) {
	server, _ := createOrderRouter(t, RouterConfig{})
	server.server.Addr = "127.0.0.1:0"

	errChan := make(chan error, 1)
	go func() {
		errChan <- server.Start(context.Background())
	}()

	time.Sleep(100 * time.Millisecond)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	require.NoError(t, server.Shutdown(shutdownCtx))
	assert.NoError(t, <-errChan)
}

func TestMetricsServer_Endpoints(t *testing.T) {
	provider, err := metrics.NewProvider("test_order")
	require.NoError(t, err)
	defer func() {
		assert.NoError(t, provider.Shutdown(context.Background()))
	}()

	metricsServer := NewMetricsServer("localhost", 8081, discardLogger(), provider)
	require.NotNil(t, metricsServer)

	w := httptest.NewRecorder()
	metricsServer.GetHandler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/plain")
}

func TestMetricsServer_Readiness(t *testing.T) {
	metricsServer := NewMetricsServer("localhost", 8081, discardLogger(), nil)

	w := httptest.NewRecorder()
	metricsServer.GetHandler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	metricsServer.GetHandler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	metricsServer.AddReadinessCheck("database", func(context.Context) error { return nil })
	w = httptest.NewRecorder()
	metricsServer.GetHandler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	metricsServer.AddReadinessCheck("broker", func(context.Context) error { return errors.New("dial tcp: refused") })
	w = httptest.NewRecorder()
	metricsServer.GetHandler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "not_ready", body["status"])
	assert.Equal(t, map[string]interface{}{"database": "ok", "broker": "error"}, body["components"])
}
