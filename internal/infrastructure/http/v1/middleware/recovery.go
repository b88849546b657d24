// Package middleware provides HTTP middleware components.
package middleware

import (
	"fmt"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"bizdesk/internal/core/apperror"
	"bizdesk/pkg/logger"
)

// Recovery turns a panic into a 500 rendered by ErrorHandler.
// The stack trace goes to the log only.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				logger.Error(c.Request.Context(), "panic recovered",
					"error", err,
					"stack", string(debug.Stack()),
				)

				_ = c.Error(
					apperror.NewInternal(fmt.Errorf("panic: %v", err)).
						WithDetail("request_id", c.GetString(ctxRequestID)),
				)
				c.Abort()
			}
		}()
		c.Next()
	}
}
