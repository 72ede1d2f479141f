// Package telemetry configures the OpenTelemetry tracer provider and ties its
// flush to the lifecycle coordinator.
package telemetry

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/JaimeStill/steward/pkg/lifecycle"
)

// System hands out tracers and flushes pending spans on shutdown.
type System interface {
	Start(lc *lifecycle.Coordinator) error
	Tracer(name string) trace.Tracer
}

// Option customizes New.
type Option func(*options)

type options struct {
	exporter sdktrace.SpanExporter
}

// WithExporter replaces the configured exporter. Tests use it with an
// in-memory exporter.
func WithExporter(exp sdktrace.SpanExporter) Option {
	return func(o *options) {
		o.exporter = exp
	}
}

// New builds the tracer provider described by cfg and installs it as the
// global provider. With the "none" exporter and no override, tracers are no-ops.
func New(cfg *Config, logger *slog.Logger, opts ...Option) (System, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	logger = logger.With("system", "telemetry")

	exp := o.exporter
	if exp == nil {
		var err error
		if exp, err = newExporter(cfg); err != nil {
			return nil, fmt.Errorf("create span exporter: %w", err)
		}
	}

	if exp == nil {
		return &disabled{provider: noop.NewTracerProvider(), logger: logger}, nil
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exp, sdktrace.WithBatchTimeout(5*time.Second)),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(cfg.SampleRatio))),
		sdktrace.WithResource(resource.NewSchemaless(
			attribute.String("service.name", cfg.ServiceName),
		)),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	return &tracing{
		provider: tp,
		exporter: cfg.Exporter,
		logger:   logger,
	}, nil
}

func newExporter(cfg *Config) (sdktrace.SpanExporter, error) {
	switch cfg.Exporter {
	case ExporterStdout:
		return stdouttrace.New(stdouttrace.WithWriter(os.Stdout))
	case ExporterOTLP:
		opts := []otlptracehttp.Option{
			otlptracehttp.WithEndpoint(stripScheme(cfg.Endpoint)),
		}
		if cfg.Insecure {
			opts = append(opts, otlptracehttp.WithInsecure())
		}
		return otlptracehttp.New(context.Background(), opts...)
	default:
		return nil, nil
	}
}

// otlptracehttp expects host:port, not a URL.
func stripScheme(endpoint string) string {
	endpoint = strings.TrimPrefix(endpoint, "https://")
	return strings.TrimPrefix(endpoint, "http://")
}

type tracing struct {
	provider *sdktrace.TracerProvider
	exporter string
	logger   *slog.Logger
}

func (t *tracing) Tracer(name string) trace.Tracer {
	return t.provider.Tracer(name)
}

func (t *tracing) Start(lc *lifecycle.Coordinator) error {
	t.logger.Info("tracing enabled", "exporter", t.exporter)

	lc.OnShutdown(func() {
		<-lc.Context().Done()

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := t.provider.Shutdown(ctx); err != nil {
			t.logger.Error("tracer provider shutdown failed", "error", err)
			return
		}
		t.logger.Info("tracer provider flushed")
	})

	return nil
}

type disabled struct {
	provider trace.TracerProvider
	logger   *slog.Logger
}

func (d *disabled) Tracer(name string) trace.Tracer {
	return d.provider.Tracer(name)
}

func (d *disabled) Start(lc *lifecycle.Coordinator) error {
	d.logger.Info("tracing disabled")
	return nil
}
