package middlewares

import (
	"github.com/gin-gonic/gin"
	"github.com/maypok86/otter/v2"
	"golang.org/x/time/rate"
	"selfchat/internal/app/adapters/metrics"
	"selfchat/pkg/logger"
	"strconv"
	"time"
)

// limiterIdle is how long an idle client's limiter is kept.
const limiterIdle = 10 * time.Minute

type Middlewares struct {
	log      logger.Logger
	limiters *otter.Cache[string, *rate.Limiter]
}

func New(log logger.Logger) *Middlewares {
	return &Middlewares{
		log: log,
		limiters: otter.Must(&otter.Options[string, *rate.Limiter]{
			ExpiryCalculator: otter.ExpiryAccessing[string, *rate.Limiter](limiterIdle),
		}),
	}
}

func (m *Middlewares) Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		args := []any{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", status,
			"latency", time.Since(start).String(),
			"ip", c.ClientIP(),
		}
		if status >= 500 {
			m.log.Warn("Request failed", args...)
			return
		}
		m.log.Debug("Request served", args...)
	}
}

func (m *Middlewares) Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metrics.RequestDuration.
			WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).
			Observe(time.Since(start).Seconds())
	}
}
