// Package observability provides OpenTelemetry integration for distributed
// tracing.
//
// Spans are exported over OTLP HTTP to a local Datadog Agent. The agent mode
// is deliberate: it buffers and retries locally, handles authentication, and
// keeps the application free of API keys. Tracing is optional; when the
// exporter cannot be created the service runs untraced.
//
// Configuration (config.yaml):
//
//	datadog:
//	  enabled: true
//	  agent_host: "localhost:4318"
//	  environment: "dev"
//	  service_name: "ai-platform"
package observability

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// Config for the OTLP trace exporter.
type Config struct {
	// AgentHost is the agent's OTLP endpoint (default: localhost:4318)
	AgentHost string
	// Environment is the deployment environment (dev, staging, prod)
	Environment string
	// ServiceName is the service name shown in APM
	ServiceName string
}

// DefaultAgentHost is the default agent OTLP HTTP endpoint.
const DefaultAgentHost = "localhost:4318"

// Setup installs a global TracerProvider exporting to the local agent.
//
// Returns a shutdown function that flushes pending spans. Setup never fails
// the caller: if the exporter cannot be created, tracing is disabled and the
// shutdown function is a no-op.
func Setup(ctx context.Context, cfg Config) (shutdown func(context.Context) error, err error) {
	agentHost := cfg.AgentHost
	if agentHost == "" {
		agentHost = DefaultAgentHost
	}

	exporter, err := otlptracehttp.New(ctx,
		otlptracehttp.WithEndpoint(agentHost),
		otlptracehttp.WithInsecure(), // localhost doesn't need TLS
	)
	if err != nil {
		slog.Warn("failed to create trace exporter, tracing disabled", "error", err)
		return func(context.Context) error { return nil }, nil
	}

	attrs := []attribute.KeyValue{}
	if cfg.ServiceName != "" {
		attrs = append(attrs, attribute.String("service.name", cfg.ServiceName))
	}
	if cfg.Environment != "" {
		attrs = append(attrs, attribute.String("deployment.environment", cfg.Environment))
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(resource.NewSchemaless(attrs...)),
	)
	otel.SetTracerProvider(tp)

	slog.Debug("tracing enabled",
		"agent", agentHost,
		"service", cfg.ServiceName,
		"environment", cfg.Environment,
	)

	return tp.Shutdown, nil
}
