package gateway

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-ddd-campus/pkg/response"
)

// Register mounts the gateway's own endpoints and proxies everything else.
func Register(r *gin.Engine, monitor *Monitor, proxy *Proxy, metrics *Metrics) {
	r.GET("/health/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/health", func(c *gin.Context) {
		results := monitor.Snapshot()
		overall, healthy := "ok", 0
		for _, res := range results {
			if res.Status == StatusOK {
				healthy++
			} else {
				overall = "degraded"
			}
		}
		response.Success(c, http.StatusOK, results, "upstream health", gin.H{
			"status":    overall,
			"healthy":   healthy,
			"upstreams": len(results),
		})
	})
	if metrics != nil {
		r.GET("/metrics", gin.WrapH(metrics.Handler()))
	}
	r.NoRoute(proxy.Handle)
}
