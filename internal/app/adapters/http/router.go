package http

import (
	"context"
	"errors"
	"fmt"
	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/pprof"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"net/http"
	"selfchat/internal/app/adapters/http/handlers"
	"selfchat/internal/app/adapters/http/middlewares"
	"selfchat/internal/app/infrastructure/config"
	"selfchat/internal/app/ports"
	"selfchat/pkg/logger"
	"slices"
	"time"
)

type Router struct {
	router      *gin.Engine
	server      *http.Server
	handlers    *handlers.Handlers
	middlewares *middlewares.Middlewares

	log     logger.Logger
	manager *config.Manager
}

func NewRouter(log logger.Logger, manager *config.Manager, chat ports.ChatPort) *Router {
	r := &Router{
		router:      gin.New(),
		handlers:    handlers.New(log, manager, chat),
		middlewares: middlewares.New(log),
		log:         log,
		manager:     manager,
	}
	cfg := manager.Get()

	r.router.Use(gin.Recovery(), r.middlewares.Logger(), r.middlewares.Metrics(), cors.New(corsConfig(cfg.CORS)))
	r.router.SetHTMLTemplate(handlers.Template())

	if cfg.App.AuthToken != "" {
		pprofGroup := r.router.Group("/", gin.BasicAuth(gin.Accounts{
			"admin": cfg.App.AuthToken,
		}))
		pprof.RouteRegister(pprofGroup)

		r.router.GET("/metrics", gin.BasicAuth(gin.Accounts{
			"admin": cfg.App.AuthToken,
		}), gin.WrapH(promhttp.Handler()))
	}

	r.router.GET("/", r.handlers.IndexHandler)
	r.router.GET("/healthz", r.handlers.HealthHandler)

	api := r.router.Group("/api", r.middlewares.RateLimit(cfg.Limiter))
	api.GET("/config", r.handlers.ConfigHandler)

	messages := api.Group("/messages")
	messages.GET("", r.handlers.ListMessages)
	messages.POST("", r.handlers.CreateMessage)
	messages.PUT("/:id", r.handlers.UpdateMessage)
	messages.DELETE("/:id", r.handlers.DeleteMessage)

	r.server = r.newServer(fmt.Sprintf(":%d", cfg.App.Port), r.router)
	return r
}

func (r *Router) Handler() http.Handler {
	return r.router
}

// Run serves until Shutdown is called.
func (r *Router) Run() error {
	r.log.Info("Server listening", "addr", r.server.Addr)
	if err := r.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (r *Router) Shutdown(ctx context.Context) error {
	return r.server.Shutdown(ctx)
}

func (r *Router) newServer(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       30 * time.Second,
	}
}

func corsConfig(c config.CORS) cors.Config {
	cfg := cors.Config{
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept"},
		MaxAge:       12 * time.Hour,
	}
	if len(c.AllowOrigins) == 0 || slices.Contains(c.AllowOrigins, "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = c.AllowOrigins
	}
	return cfg
}
