package middleware

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// CORS lets browser clients on origins call the API. An empty list allows
// any origin.
func CORS(origins []string) gin.HandlerFunc {
	cfg := cors.DefaultConfig()
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	cfg.AddAllowHeaders(HeaderOwnerID, HeaderUserID, HeaderRequestID)
	cfg.AddExposeHeaders(HeaderRequestID, HeaderTraceID)
	return cors.New(cfg)
}
