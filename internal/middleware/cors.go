package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// corsHeaders applied to every response. The PDV front end runs on a
// different origin in development, so the default is permissive; production
// deployments sit behind a proxy that overrides Allow-Origin.
var corsHeaders = map[string]string{
	"Access-Control-Allow-Origin":   "*",
	"Access-Control-Allow-Methods":  "GET, POST, PUT, DELETE, OPTIONS",
	"Access-Control-Allow-Headers":  "Authorization, Content-Type, X-Request-ID",
	"Access-Control-Expose-Headers": "X-Request-ID",
	"Access-Control-Max-Age":        "3600",
}

func CORS() gin.HandlerFunc {
	return func(c *gin.Context) {
		for k, v := range corsHeaders {
			c.Header(k, v)
		}
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
