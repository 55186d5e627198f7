package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/xiebiao/coursebook/pkg/metrics"
)

// Metrics HTTP指标中间件
// path取路由模板（c.FullPath），未匹配的路由统一记为"unmatched"
func Metrics(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		m.HTTPRequestsInProgress.Inc()
		start := time.Now()

		c.Next()

		m.HTTPRequestsInProgress.Dec()
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		m.ObserveHTTP(c.Request.Method, path, c.Writer.Status(), time.Since(start))
	}
}
