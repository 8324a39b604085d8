package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/zfogg/curlmap/backend/internal/util"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TracingMiddleware traces requests with otelgin and annotates the span with
// the request id, listing parameters and handler errors. Install it with
// router.Use(TracingMiddleware(name)...).
func TracingMiddleware(serviceName string) gin.HandlersChain {
	return gin.HandlersChain{otelgin.Middleware(serviceName), annotateSpan}
}

func annotateSpan(c *gin.Context) {
	span := trace.SpanFromContext(c.Request.Context())
	if !span.IsRecording() {
		c.Next()
		return
	}

	if requestID := util.GetRequestID(c); requestID != "" {
		span.SetAttributes(attribute.String("request.id", requestID))
	}
	for _, param := range []string{"sortBy", "search", "limit", "offset"} {
		if v := c.Query(param); v != "" {
			span.SetAttributes(attribute.String("query."+param, v))
		}
	}

	c.Next()

	if cacheStatus := c.Writer.Header().Get("X-Cache"); cacheStatus != "" {
		span.SetAttributes(attribute.String("cache.status", cacheStatus))
	}
	for _, ginErr := range c.Errors {
		if ginErr.Err != nil {
			span.RecordError(ginErr.Err, trace.WithStackTrace(true))
			span.SetStatus(codes.Error, ginErr.Error())
		}
	}
}
