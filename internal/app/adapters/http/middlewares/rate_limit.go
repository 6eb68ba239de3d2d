package middlewares

import (
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
	"net/http"
	"selfchat/internal/app/adapters/metrics"
	"selfchat/internal/app/infrastructure/config"
	"time"
)

// RateLimit allows each client IP l.Requests requests per l.Per. A zero limiter disables it.
func (m *Middlewares) RateLimit(l config.Limiter) gin.HandlerFunc {
	if l.Requests <= 0 || l.Per <= 0 {
		return func(c *gin.Context) { c.Next() }
	}

	return func(c *gin.Context) {
		if !m.limiter(c.ClientIP(), l).Allow() {
			metrics.RateLimited.Inc()
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Too many requests"})
			return
		}
		c.Next()
	}
}

func (m *Middlewares) limiter(key string, l config.Limiter) *rate.Limiter {
	if lim, ok := m.limiters.GetIfPresent(key); ok {
		return lim
	}

	lim := rate.NewLimiter(rate.Every(l.Per/time.Duration(l.Requests)), l.Requests)
	if existing, inserted := m.limiters.SetIfAbsent(key, lim); !inserted && existing != nil {
		return existing
	}
	return lim
}
