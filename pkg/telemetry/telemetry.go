// Package telemetry provides OpenTelemetry-based tracing and metrics
// for the EQC authority core: RED metrics plus OTLP export, scoped to
// the Decide/Execute hot paths rather than generic request handling.
package telemetry

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
)

// Config configures the OpenTelemetry providers for the gate/engine.
type Config struct {
	ServiceName  string
	OTLPEndpoint string
	Enabled      bool
	Insecure     bool
}

// DefaultConfig disables telemetry unless explicitly turned on —
// the core must function identically with no sink wired.
func DefaultConfig() *Config {
	return &Config{
		ServiceName:  "eqc-gate",
		OTLPEndpoint: "localhost:4317",
		Enabled:      false,
		Insecure:     true,
	}
}

// Provider holds the decision/execution RED metrics: decisions by
// verdict kind, blocked-execution errors by eqcerrors.Kind, and the
// Decide/Execute latency histograms.
type Provider struct {
	config         *Config
	tracerProvider *sdktrace.TracerProvider
	meterProvider  *sdkmetric.MeterProvider
	tracer         trace.Tracer
	meter          metric.Meter
	logger         *slog.Logger

	decisionCounter  metric.Int64Counter
	blockedCounter   metric.Int64Counter
	decideDuration   metric.Float64Histogram
	executeDuration  metric.Float64Histogram
	activeExecutions metric.Int64UpDownCounter
}

// New creates a telemetry provider. When cfg.Enabled is false the
// returned Provider is a harmless no-op — every Start* method
// checks for nil instruments before touching them.
func New(ctx context.Context, cfg *Config) (*Provider, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	p := &Provider{
		config: cfg,
		logger: slog.Default().With("component", "telemetry"),
	}

	if !cfg.Enabled {
		p.logger.InfoContext(ctx, "telemetry disabled")
		return p, nil
	}

	res, err := resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(cfg.ServiceName),
			attribute.String("eqc.component", "gate"),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("telemetry: build resource: %w", err)
	}

	if err := p.initTraceProvider(ctx, cfg, res); err != nil {
		return nil, fmt.Errorf("telemetry: init trace provider: %w", err)
	}
	if err := p.initMetricProvider(ctx, cfg, res); err != nil {
		return nil, fmt.Errorf("telemetry: init metric provider: %w", err)
	}

	p.tracer = otel.Tracer("eqc.gate")
	p.meter = otel.Meter("eqc.gate")

	if err := p.initMetrics(); err != nil {
		return nil, fmt.Errorf("telemetry: init metrics: %w", err)
	}

	p.logger.InfoContext(ctx, "telemetry initialized", "endpoint", cfg.OTLPEndpoint)
	return p, nil
}

func (p *Provider) initTraceProvider(ctx context.Context, cfg *Config, res *resource.Resource) error {
	opts := []otlptracegrpc.Option{otlptracegrpc.WithEndpoint(cfg.OTLPEndpoint)}
	if cfg.Insecure {
		opts = append(opts, otlptracegrpc.WithInsecure())
	}

	exporter, err := otlptracegrpc.New(ctx, opts...)
	if err != nil {
		return err
	}

	p.tracerProvider = sdktrace.NewTracerProvider(
		sdktrace.WithResource(res),
		sdktrace.WithBatcher(exporter),
	)
	otel.SetTracerProvider(p.tracerProvider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{}, propagation.Baggage{},
	))
	return nil
}

func (p *Provider) initMetricProvider(ctx context.Context, cfg *Config, res *resource.Resource) error {
	opts := []otlpmetricgrpc.Option{otlpmetricgrpc.WithEndpoint(cfg.OTLPEndpoint)}
	if cfg.Insecure {
		opts = append(opts, otlpmetricgrpc.WithInsecure())
	}

	exporter, err := otlpmetricgrpc.New(ctx, opts...)
	if err != nil {
		return err
	}

	p.meterProvider = sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(15*time.Second))),
	)
	otel.SetMeterProvider(p.meterProvider)
	return nil
}

func (p *Provider) initMetrics() error {
	var err error

	p.decisionCounter, err = p.meter.Int64Counter("eqc.decisions.total",
		metric.WithDescription("Total EQC decisions by verdict kind"),
		metric.WithUnit("{decision}"))
	if err != nil {
		return err
	}

	p.blockedCounter, err = p.meter.Int64Counter("eqc.executions.blocked.total",
		metric.WithDescription("Total guarded executions blocked by error kind"),
		metric.WithUnit("{execution}"))
	if err != nil {
		return err
	}

	p.decideDuration, err = p.meter.Float64Histogram("eqc.decide.duration",
		metric.WithDescription("Engine.Decide latency in seconds"),
		metric.WithUnit("s"))
	if err != nil {
		return err
	}

	p.executeDuration, err = p.meter.Float64Histogram("eqc.execute.duration",
		metric.WithDescription("GuardedExecutor.Execute latency in seconds"),
		metric.WithUnit("s"))
	if err != nil {
		return err
	}

	p.activeExecutions, err = p.meter.Int64UpDownCounter("eqc.executions.active",
		metric.WithDescription("Currently in-flight guarded executions"),
		metric.WithUnit("{execution}"))
	if err != nil {
		return err
	}

	return nil
}

// Shutdown flushes and closes the providers.
func (p *Provider) Shutdown(ctx context.Context) error {
	if p.tracerProvider != nil {
		if err := p.tracerProvider.Shutdown(ctx); err != nil {
			p.logger.ErrorContext(ctx, "shutdown trace provider failed", "error", err)
		}
	}
	if p.meterProvider != nil {
		if err := p.meterProvider.Shutdown(ctx); err != nil {
			p.logger.ErrorContext(ctx, "shutdown metric provider failed", "error", err)
		}
	}
	return nil
}

// StartDecide starts a span around an Engine.Decide call and returns a
// closer recording its duration and resulting verdict kind.
func (p *Provider) StartDecide(ctx context.Context, walletID string) (context.Context, func(verdictKind string, err error)) {
	start := time.Now()
	var span trace.Span
	if p.tracer != nil {
		ctx, span = p.tracer.Start(ctx, "eqc.decide", trace.WithAttributes(attribute.String("wallet_id", walletID)))
	}
	return ctx, func(verdictKind string, err error) {
		if p.decideDuration != nil {
			p.decideDuration.Record(ctx, time.Since(start).Seconds())
		}
		if p.decisionCounter != nil {
			p.decisionCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("verdict", verdictKind)))
		}
		if span != nil {
			if err != nil {
				span.RecordError(err)
			}
			span.SetAttributes(attribute.String("verdict", verdictKind))
			span.End()
		}
	}
}

// StartExecute starts a span around a GuardedExecutor.Execute call.
func (p *Provider) StartExecute(ctx context.Context, walletID, action string) (context.Context, func(blockedKind string, err error)) {
	start := time.Now()
	var span trace.Span
	if p.tracer != nil {
		ctx, span = p.tracer.Start(ctx, "eqc.execute", trace.WithAttributes(
			attribute.String("wallet_id", walletID),
			attribute.String("action", action),
		))
	}
	if p.activeExecutions != nil {
		p.activeExecutions.Add(ctx, 1)
	}
	return ctx, func(blockedKind string, err error) {
		if p.activeExecutions != nil {
			p.activeExecutions.Add(ctx, -1)
		}
		if p.executeDuration != nil {
			p.executeDuration.Record(ctx, time.Since(start).Seconds())
		}
		if err != nil && p.blockedCounter != nil {
			p.blockedCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("kind", blockedKind)))
		}
		if span != nil {
			if err != nil {
				span.RecordError(err)
			}
			span.End()
		}
	}
}
