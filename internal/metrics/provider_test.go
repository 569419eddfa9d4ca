package metrics

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scrape(t *testing.T, provider *Provider) string {
	t.Helper()
	w := httptest.NewRecorder()
	provider.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	body, err := io.ReadAll(w.Body)
	require.NoError(t, err)
	return string(body)
}

func TestNewProvider(t *testing.T) {
	t.Run("Success_RuntimeCollectors", func(t *testing.T) {
		provider, err := NewProvider("order")
		require.NoError(t, err)
		t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

		body := scrape(t, provider)

		assert.Contains(t, body, "go_goroutines")
	})

	t.Run("Success_WithoutRuntimeMetrics", func(t *testing.T) {
		provider, err := NewProvider("order", WithoutRuntimeMetrics())
		require.NoError(t, err)
		t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

		assert.NotContains(t, scrape(t, provider), "go_goroutines")
	})

	t.Run("Success_ServiceNameOnTargetInfo", func(t *testing.T) {
		provider, err := NewProvider("order", WithServiceName("service-order"), WithoutRuntimeMetrics())
		require.NoError(t, err)
		t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

		business, err := NewBusinessMetrics(provider.MeterProvider(), "order")
		require.NoError(t, err)
		business.RecordOperation(context.Background(), "outbox", "publish_batch", StatusSuccess)

		body := scrape(t, provider)

		assert.Contains(t, body, "target_info")
		assert.Contains(t, body, `service_name="service-order"`)
		assert.Contains(t, body, "order_operations_total")
	})
}

func TestProvider_Shutdown(t *testing.T) {
	t.Run("Success_ShutdownProvider", func(t *testing.T) {
		provider, err := NewProvider("order", WithoutRuntimeMetrics())
		require.NoError(t, err)

		assert.NoError(t, provider.Shutdown(context.Background()))
	})

	t.Run("Success_ShutdownNilProvider", func(t *testing.T) {
		provider := &Provider{meterProvider: nil}

		assert.NoError(t, provider.Shutdown(context.Background()))
	})
}
