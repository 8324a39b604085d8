package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var businessTracer = otel.Tracer("curlmap.business")

// TraceCreateTopic starts a span around topic creation
func TraceCreateTopic(ctx context.Context, tags []string) (context.Context, trace.Span) {
	return businessTracer.Start(ctx, "forum.create_topic",
		trace.WithAttributes(attribute.StringSlice("forum.tags", tags)),
	)
}

// TraceCreateReply starts a span around reply creation
func TraceCreateReply(ctx context.Context, topicID uint, nested bool) (context.Context, trace.Span) {
	return businessTracer.Start(ctx, "forum.create_reply",
		trace.WithAttributes(
			attribute.Int64("forum.topic_id", int64(topicID)),
			attribute.Bool("forum.nested", nested),
		),
	)
}

// TraceDirectoryRebuild starts a span around a directory cache rebuild
func TraceDirectoryRebuild(ctx context.Context) (context.Context, trace.Span) {
	return businessTracer.Start(ctx, "directory.rebuild")
}

// TraceEnrichment starts a span around enrichment of one salon
func TraceEnrichment(ctx context.Context, salonID, step string) (context.Context, trace.Span) {
	return businessTracer.Start(ctx, "enrichment."+step,
		trace.WithAttributes(attribute.String("salon.id", salonID)),
	)
}

// RecordSpanError marks a span as failed
func RecordSpanError(span trace.Span, err error) {
	if err == nil {
		return
	}
	span.SetStatus(codes.Error, err.Error())
	span.RecordError(err)
}
