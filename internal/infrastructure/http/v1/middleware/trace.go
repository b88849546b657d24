package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	appctx "bizdesk/internal/core/context"
)

const (
	HeaderRequestID = "X-Request-ID"
	HeaderTraceID   = "X-Trace-ID"

	ctxRequestID = "request_id"
	ctxTraceID   = "trace_id"
)

// Trace reads or generates request and trace ids, stores them in the
// request context and echoes them in the response headers.
func Trace() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(HeaderRequestID)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		traceID := c.GetHeader(HeaderTraceID)
		if traceID == "" {
			traceID = uuid.NewString()
		}

		trace := &appctx.TraceContext{
			TraceID:   traceID,
			SpanID:    uuid.NewString()[:16],
			RequestID: requestID,
		}
		c.Request = c.Request.WithContext(appctx.WithTrace(c.Request.Context(), trace))

		c.Set(ctxTraceID, traceID)
		c.Set(ctxRequestID, requestID)
		c.Header(HeaderRequestID, requestID)
		c.Header(HeaderTraceID, traceID)

		c.Next()
	}
}
