// Package metrics provides OpenTelemetry metrics instrumentation with Prometheus export.
// Supports business operation metrics and HTTP request metrics for observability.
package metrics

import (
	"context"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel/attribute"
	promexporter "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
)

// Provider owns the meter provider and the Prometheus registry scraped on /metrics.
// The api server and the worker each run one.
type Provider struct {
	meterProvider *metric.MeterProvider
	exporter      *promexporter.Exporter
	registry      *prometheus.Registry
}

type providerOptions struct {
	serviceName string
	runtime     bool
}

// ProviderOption customizes NewProvider.
type ProviderOption func(*providerOptions)

// WithServiceName labels every series through target_info with service_name.
func WithServiceName(name string) ProviderOption {
	return func(o *providerOptions) { o.serviceName = name }
}

// WithoutRuntimeMetrics leaves the Go runtime and process collectors out of the registry.
func WithoutRuntimeMetrics() ProviderOption {
	return func(o *providerOptions) { o.runtime = false }
}

// NewProvider creates a meter provider exporting to a private Prometheus registry. The
// namespace prefixes the process collector series (e.g. "order_process_open_fds"); business
// and HTTP metrics apply it themselves.
func NewProvider(namespace string, opts ...ProviderOption) (*Provider, error) {
	options := providerOptions{runtime: true}
	for _, opt := range opts {
		opt(&options)
	}

	registry := prometheus.NewRegistry()
	if options.runtime {
		if err := registry.Register(collectors.NewGoCollector()); err != nil {
			return nil, fmt.Errorf("failed to register go collector: %w", err)
		}
		processCollector := collectors.NewProcessCollector(collectors.ProcessCollectorOpts{Namespace: namespace})
		if err := registry.Register(processCollector); err != nil {
			return nil, fmt.Errorf("failed to register process collector: %w", err)
		}
	}

	exporter, err := promexporter.New(promexporter.WithRegisterer(registry))
	if err != nil {
		return nil, fmt.Errorf("failed to create prometheus exporter: %w", err)
	}

	providerOpts := []metric.Option{metric.WithReader(exporter)}
	if options.serviceName != "" {
		providerOpts = append(providerOpts, metric.WithResource(
			resource.NewSchemaless(attribute.String("service.name", options.serviceName)),
		))
	}

	return &Provider{
		meterProvider: metric.NewMeterProvider(providerOpts...),
		exporter:      exporter,
		registry:      registry,
	}, nil
}

// Handler serves the registry in Prometheus exposition format.
func (p *Provider) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	})
}

// MeterProvider returns the OpenTelemetry meter provider for creating meters.
func (p *Provider) MeterProvider() *metric.MeterProvider {
	return p.meterProvider
}

// Shutdown flushes and stops the meter provider.
func (p *Provider) Shutdown(ctx context.Context) error {
	if p.meterProvider == nil {
		return nil
	}
	return p.meterProvider.Shutdown(ctx)
}
