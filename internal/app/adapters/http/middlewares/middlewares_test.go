package middlewares

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"selfchat/internal/app/infrastructure/config"
	"selfchat/pkg/logger"
)

func newEngine(m *Middlewares, l config.Limiter) *gin.Engine {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(m.Logger(), m.Metrics(), m.RateLimit(l))
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	return r
}

func serve(r *gin.Engine, remote string) int {
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.RemoteAddr = remote
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w.Code
}

func TestRateLimit(t *testing.T) {
	r := newEngine(New(logger.Discard()), config.Limiter{Requests: 2, Per: time.Hour})

	assert.Equal(t, http.StatusOK, serve(r, "10.0.0.1:1000"))
	assert.Equal(t, http.StatusOK, serve(r, "10.0.0.1:1001"))
	assert.Equal(t, http.StatusTooManyRequests, serve(r, "10.0.0.1:1002"))

	assert.Equal(t, http.StatusOK, serve(r, "10.0.0.2:1000"), "limits are per client")
}

func TestRateLimit_Disabled(t *testing.T) {
	r := newEngine(New(logger.Discard()), config.Limiter{})

	for range 50 {
		assert.Equal(t, http.StatusOK, serve(r, "10.0.0.1:1000"))
	}
}
