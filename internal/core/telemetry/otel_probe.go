package telemetry

import (
	"context"
	"fmt"
	"time"

	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"taskapp/internal/core/domain"
	"taskapp/internal/core/port"
	appctx "taskapp/pkg/context"
	"taskapp/pkg/tracing"
)

// OTELProbe implements port.Telemetry with OpenTelemetry spans, otelzap
// logging and the Prometheus counters in AppMetrics.
type OTELProbe struct {
	logger  *otelzap.Logger
	metrics *tracing.AppMetrics
}

func NewOTELProbe(logger *otelzap.Logger, metrics *tracing.AppMetrics) port.Telemetry {
	return &OTELProbe{
		logger:  logger,
		metrics: metrics,
	}
}

// OTelSpan adapts trace.Span to port.Span.
type OTelSpan struct {
	span trace.Span
}

func (s *OTelSpan) End() {
	s.span.End()
}

func (s *OTelSpan) SetAttributes(attrs map[string]interface{}) {
	s.span.SetAttributes(toAttributes(attrs)...)
}

func (s *OTelSpan) SetStatus(code string, message string) {
	var statusCode codes.Code

	switch code {
	case "ok":
		statusCode = codes.Ok
	case "error":
		statusCode = codes.Error
	default:
		statusCode = codes.Unset
	}

	s.span.SetStatus(statusCode, message)
}

func (s *OTelSpan) RecordError(err error) {
	s.span.RecordError(err)
}

func toAttributes(attrs map[string]interface{}) []attribute.KeyValue {
	kvs := make([]attribute.KeyValue, 0, len(attrs))

	for key, value := range attrs {
		switch v := value.(type) {
		case string:
			kvs = append(kvs, attribute.String(key, v))
		case int:
			kvs = append(kvs, attribute.Int(key, v))
		case int64:
			kvs = append(kvs, attribute.Int64(key, v))
		case float64:
			kvs = append(kvs, attribute.Float64(key, v))
		case bool:
			kvs = append(kvs, attribute.Bool(key, v))
		default:
			kvs = append(kvs, attribute.String(key, fmt.Sprintf("%v", v)))
		}
	}

	return kvs
}

func (p *OTELProbe) startSpan(ctx context.Context, name string, standard []attribute.KeyValue, attrs map[string]interface{}) (context.Context, port.Span) {
	standard = append(standard, toAttributes(attrs)...)

	ctx, span := otel.Tracer(tracing.TracerName).Start(ctx, name, trace.WithAttributes(standard...))
	return ctx, &OTelSpan{span: span}
}

func (p *OTELProbe) StartRepositorySpan(ctx context.Context, operation string, entity string, attrs map[string]interface{}) (context.Context, port.Span) {
	return p.startSpan(ctx, fmt.Sprintf("repository.%s.%s", entity, operation), []attribute.KeyValue{
		attribute.String("repository.entity", entity),
		attribute.String("repository.operation", operation),
		attribute.String("component", "repository"),
	}, attrs)
}

func (p *OTELProbe) StartServiceSpan(ctx context.Context, service string, operation string, attrs map[string]interface{}) (context.Context, port.Span) {
	return p.startSpan(ctx, fmt.Sprintf("service.%s.%s", service, operation), []attribute.KeyValue{
		attribute.String("service.name", service),
		attribute.String("service.operation", operation),
		attribute.String("component", "service"),
	}, attrs)
}

func outcome(err error) string {
	if err == nil {
		return "success"
	}

	return domain.KindOf(err).String()
}

// recordOutcome only flags the span as failed for internal errors; client
// mistakes are expected outcomes.
func (p *OTELProbe) recordOutcome(ctx context.Context, msg string, duration time.Duration, err error, fields ...zap.Field) {
	span := trace.SpanFromContext(ctx)

	span.SetAttributes(
		attribute.Int64("duration_ns", duration.Nanoseconds()),
		attribute.String("outcome", outcome(err)),
	)

	if err == nil {
		span.SetStatus(codes.Ok, "")
		return
	}

	if domain.KindOf(err) != domain.KindInternal {
		tracing.AddSpanEvent(span, "rejected", []attribute.KeyValue{attribute.String("reason", err.Error())})
		return
	}

	tracing.AddSpanError(span, err)

	fields = append(fields,
		zap.String("request_id", appctx.RequestID(ctx)),
		zap.Duration("duration", duration),
		zap.Error(err))
	p.logger.Ctx(ctx).Error(msg, fields...)
}

func (p *OTELProbe) RecordRepositoryOperation(ctx context.Context, operation string, entity string, duration time.Duration, err error) {
	if p.metrics != nil {
		p.metrics.RecordDatabaseOperation(ctx, operation, entity, outcome(err))
	}

	p.recordOutcome(ctx, "Repository operation failed", duration, err,
		zap.String("operation", operation),
		zap.String("entity", entity))
}

func (p *OTELProbe) RecordServiceOperation(ctx context.Context, service string, operation string, duration time.Duration, err error) {
	if p.metrics != nil {
		p.metrics.RecordTaskOperation(ctx, operation, outcome(err))
	}

	p.recordOutcome(ctx, "Service operation failed", duration, err,
		zap.String("service", service),
		zap.String("operation", operation))
}

func (p *OTELProbe) RecordBusinessEvent(ctx context.Context, event string, entity string, entityID string, metadata map[string]interface{}) {
	span := trace.SpanFromContext(ctx)

	attrs := append([]attribute.KeyValue{
		attribute.String("entity", entity),
		attribute.String("entity_id", entityID),
	}, toAttributes(metadata)...)

	span.AddEvent(event, trace.WithAttributes(attrs...))

	p.logger.Ctx(ctx).Info("Business event recorded",
		zap.String("event", event),
		zap.String("entity", entity),
		zap.String("entity_id", entityID),
		zap.String("request_id", appctx.RequestID(ctx)),
		zap.Any("metadata", metadata))
}
