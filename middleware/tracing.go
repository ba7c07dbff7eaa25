// Package middleware provides request filters for the HTTP surface.
// File: middleware/tracing.go
package middleware

import (
	"strings"

	"github.com/aws/aws-xray-sdk-go/xray"
	"github.com/gin-gonic/gin"
	"go-patient-caller/logger"
)

// -------------- X-Ray tracing --------------

// Tracing opens an X-Ray segment named serviceName for every request whose
// path does not start with one of the skip prefixes. The segment travels in
// the request context and is closed with the response status once the rest
// of the chain has run.
//
// Usage:
//
//	router.Use(middleware.Tracing("patient-caller", "/ws"))
func Tracing(serviceName string, skip ...string) gin.HandlerFunc {
	logger.Info.Printf("[Tracing] X-Ray tracing enabled as %q", serviceName)
	return func(c *gin.Context) {
		for _, prefix := range skip {
			if strings.HasPrefix(c.Request.URL.Path, prefix) {
				c.Next()
				return
			}
		}

		ctx, seg := xray.BeginSegment(c.Request.Context(), serviceName)
		seg.Lock()
		req := seg.GetHTTP().GetRequest()
		req.Method = c.Request.Method
		req.URL = c.Request.URL.String()
		req.ClientIP = c.ClientIP()
		req.UserAgent = c.Request.UserAgent()
		seg.Unlock()

		c.Request = c.Request.WithContext(ctx)
		c.Next()

		status := c.Writer.Status()
		seg.Lock()
		resp := seg.GetHTTP().GetResponse()
		resp.Status = status
		resp.ContentLength = c.Writer.Size()
		switch {
		case status >= 500:
			seg.Fault = true
		case status == 429:
			seg.Throttle = true
			seg.Error = true
		case status >= 400:
			seg.Error = true
		}
		seg.Unlock()
		seg.Close(nil)
	}
}
