package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"careers-portal/internal/core/metrics"
)

func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		path := c.FullPath()
		if path == "" {
			path = "unmatched" // 避免未知路径撑爆标签基数
		}
		metrics.HTTPRequests.WithLabelValues(path, c.Request.Method, strconv.Itoa(c.Writer.Status())).Inc()
		metrics.HTTPLatency.WithLabelValues(path, c.Request.Method).Observe(time.Since(start).Seconds())
	}
}
