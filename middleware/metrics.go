package middleware

import (
	"context"
	"time"

	aws_pkg "github.com/Jaypatel0924/Sweet-Shop-Management-System/pkg/aws"
	"github.com/gin-gonic/gin"
)

// HTTPMetricsRecorder is the subset of *aws.MetricsClient used for request metrics.
type HTTPMetricsRecorder interface {
	IsEnabled() bool
	RecordCount(ctx context.Context, metricName string, dimensions map[string]string) error
	RecordLatency(ctx context.Context, metricName string, duration time.Duration, dimensions map[string]string) error
}

// Metrics records request count, latency and errors per route. Recording runs
// off the request path.
func Metrics(client HTTPMetricsRecorder, serviceName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if client == nil || !client.IsEnabled() {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		duration := time.Since(start)
		status := c.Writer.Status()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		dims := map[string]string{
			"Service": serviceName,
			"Method":  c.Request.Method,
			"Route":   route,
			"Status":  statusCodeToRange(status),
		}

		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			_ = client.RecordCount(ctx, aws_pkg.MetricHTTPRequests, dims)
			_ = client.RecordLatency(ctx, aws_pkg.MetricHTTPLatency, duration, dims)
			if status >= 400 {
				_ = client.RecordCount(ctx, aws_pkg.MetricHTTPErrors, dims)
			}
		}()
	}
}

func statusCodeToRange(statusCode int) string {
	switch {
	case statusCode >= 200 && statusCode < 300:
		return "2xx"
	case statusCode >= 300 && statusCode < 400:
		return "3xx"
	case statusCode >= 400 && statusCode < 500:
		return "4xx"
	case statusCode >= 500:
		return "5xx"
	default:
		return "unknown"
	}
}
