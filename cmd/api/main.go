package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/geocoder89/friendhub/internal/config"
	"github.com/geocoder89/friendhub/internal/db"
	httpx "github.com/geocoder89/friendhub/internal/http"
	"github.com/geocoder89/friendhub/internal/observability"
	"github.com/geocoder89/friendhub/internal/security"
	"github.com/geocoder89/friendhub/internal/service"
)

func main() {
	cfg := config.Load()

	log := observability.NewLogger(cfg.Env)

	if err := cfg.Validate(); err != nil {
		log.Error("invalid config", "err", err)
		os.Exit(1)
	}

	if cfg.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx := context.Background()

	shutdownTracer, err := observability.InitTracer(ctx, observability.TracingConfig{
		Enabled:  cfg.OTelEnabled,
		Endpoint: cfg.OTelEndpoint,
	})
	if err != nil {
		log.Error("tracer init failed", "err", err)
		os.Exit(1)
	}

	prom := observability.NewProm()

	store, err := db.OpenStore(ctx, cfg, prom, log)
	if err != nil {
		log.Error("store init failed", "driver", cfg.StoreDriver, "err", err)
		os.Exit(1)
	}

	hasher := security.NewHasher(cfg.BcryptCost)

	svc, err := service.NewFriendsService(store.Store, hasher, log)
	if err != nil {
		log.Error("service init failed", "err", err)
		os.Exit(1)
	}

	if cfg.SeedDemo {
		seedCtx, cancel := config.WithTimeout(10 * time.Second)
		n, err := db.SeedFriends(seedCtx, store.Store, hasher, log)
		cancel()
		if err != nil {
			log.Error("seeding failed", "err", err)
			os.Exit(1)
		}
		log.Info("demo data ready", "created", n)
	}

	router := httpx.NewRouter(httpx.Deps{
		Config:  cfg,
		Log:     log,
		Prom:    prom,
		Service: svc,
		Store:   store.Store,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info("server starting", "port", cfg.Port, "env", cfg.Env, "store", store.Driver)
		err := srv.ListenAndServe()

		if err != nil && err != http.ErrServerClosed {
			log.Error("server failed", "err", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	log.Info("server shutting down")

	shutdownCh := make(chan struct{})

	go func() {
		defer close(shutdownCh)

		ctx, cancel := config.WithTimeout(10 * time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Error("graceful shutdown failed", "err", err)
		}
		if err := store.Close(ctx); err != nil {
			log.Error("store close failed", "err", err)
		}
		if err := shutdownTracer(ctx); err != nil {
			log.Error("tracer shutdown failed", "err", err)
		}
	}()

	select {
	case <-shutdownCh:
		log.Info("shutdown complete")

	case <-time.After(12 * time.Second):
		log.Error("shutdown timed out")
	}
}
