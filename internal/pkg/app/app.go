package app

import (
	"context"
	"github.com/gin-gonic/gin"
	"os"
	router "selfchat/internal/app/adapters/http"
	"selfchat/internal/app/adapters/metrics"
	"selfchat/internal/app/domain/chat"
	"selfchat/internal/app/infrastructure/config"
	"selfchat/internal/app/infrastructure/storage"
	"selfchat/internal/app/ports"
	"selfchat/pkg/logger"
	"time"
)

const (
	configPath      = "config.json"
	envConfigPath   = "CONFIG_PATH"
	shutdownTimeout = 10 * time.Second
)

// New boots the service and blocks until ctx is cancelled, then shuts the server and the store down.
func New(ctx context.Context) error {
	path := configPath
	if p, ok := os.LookupEnv(envConfigPath); ok && p != "" {
		path = p
	}

	manager, err := config.New(path)
	if err != nil {
		logger.New(logger.DefaultLogFile).Fatal("Error loading config", err)
	}
	if err := manager.ApplyEnv(); err != nil {
		logger.New(logger.DefaultLogFile).Fatal("Error applying environment overrides", err)
	}

	cfg := manager.Get()
	log := logger.New(cfg.App.LogFile)
	log.SetLogLevel(cfg.App.LogLevel)
	gin.SetMode(cfg.App.GinMode)

	store := openStore(ctx, log, cfg)
	if err := store.Initialize(ctx, cfg.TTL()); err != nil {
		_ = store.Close(context.Background())
		log.Fatal("Error initializing message store", err)
	}

	metrics.MessageTTL.Set(float64(cfg.Messages.TTLSeconds))
	metrics.ExpiryIndexReconciliations.WithLabelValues(cfg.Store.Driver).Inc()
	go metrics.CollectSystem(ctx, 15*time.Second)

	r := router.NewRouter(logger.NewPrefixedLogger(log, "http"), manager, chat.New(log, store))

	errCh := make(chan error, 1)
	go func() {
		errCh <- r.Run()
	}()

	select {
	case err = <-errCh:
		log.Error("Server stopped", err)
	case <-ctx.Done():
		log.Info("Shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if serr := r.Shutdown(shutdownCtx); serr != nil {
		log.Error("Error shutting down server", serr)
	}
	if cerr := store.Close(shutdownCtx); cerr != nil {
		log.Error("Error closing message store", cerr)
	}

	return err
}

func openStore(ctx context.Context, log logger.Logger, cfg *config.Config) ports.MessageStorePort {
	switch cfg.Store.Driver {
	case config.DriverMemory:
		store, err := storage.NewMemoryStore(logger.NewPrefixedLogger(log, "memory"), cfg.Store.SnapshotPath)
		if err != nil {
			log.Fatal("Error opening memory store", err)
		}
		return store
	default:
		store, err := storage.Connect(ctx, logger.NewPrefixedLogger(log, "mongo"), cfg.Store, cfg.ConnectTimeout())
		if err != nil {
			log.Fatal("Error connecting to MongoDB", err)
		}
		return store
	}
}
