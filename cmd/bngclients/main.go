package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/mohit83k/bngclients/internal/config"
	"github.com/mohit83k/bngclients/internal/export"
	"github.com/mohit83k/bngclients/internal/gatewaymap"
	"github.com/mohit83k/bngclients/internal/ingest"
	"github.com/mohit83k/bngclients/internal/logger"
	"github.com/mohit83k/bngclients/internal/redisclient"
	"github.com/mohit83k/bngclients/internal/server"
	"github.com/mohit83k/bngclients/internal/sweeper"
	"github.com/mohit83k/bngclients/internal/web"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		ch := make(chan os.Signal, 1)
		signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
		<-ch
		cancel()
	}()

	cfg := config.Load()

	log, err := logger.NewLogrusLogger(cfg.LogFilePath)
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}

	store := redisclient.NewRedisStore(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	defer store.Close()

	if err := store.Ping(ctx); err != nil {
		log.WithFields(map[string]any{"addr": cfg.RedisAddr}).Warn("Redis not reachable at startup: " + err.Error())
	}

	rejects, err := ingest.NewDirSink(cfg.UploadDir)
	if err != nil {
		log.Error(err)
		os.Exit(1)
	}

	ingestSvc := ingest.NewService(store, rejects, log)
	exportSvc := export.NewService(store)

	go sweeper.Run(ctx, store, cfg.SweepInterval, log)

	fatal := make(chan error, 1)

	if cfg.RadiusEnabled {
		var gateways *gatewaymap.Map
		if cfg.GatewayMapFile != "" {
			gateways, err = gatewaymap.Load(cfg.GatewayMapFile)
			if err != nil {
				log.Error(err)
				os.Exit(1)
			}
			log.WithFields(map[string]any{"entries": gateways.Len()}).Info("Loaded gateway map")
		}

		radiusServer := server.NewServer(":"+cfg.RadiusPort, cfg.RadiusSecret, ingestSvc, gateways, log)
		go func() {
			if err := radiusServer.ListenAndServe(ctx); err != nil {
				log.Error(err)
				fatal <- err
				cancel()
			}
		}()
	}

	httpServer := web.NewServer(web.Options{
		Ingest:         ingestSvc,
		Export:         exportSvc,
		Rejects:        rejects,
		Store:          store,
		Logger:         log,
		MaxUploadBytes: cfg.MaxUploadBytes,
	})

	drained := make(chan struct{})
	go func() {
		defer close(drained)
		<-ctx.Done()
		shutdownCtx, stop := context.WithTimeout(context.Background(), 15*time.Second)
		defer stop()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Error(err)
		}
	}()

	if err := httpServer.Start(":" + cfg.HTTPPort); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error(err)
		os.Exit(1)
	}
	<-drained
	log.Info("HTTP server stopped")

	select {
	case <-fatal:
		os.Exit(1)
	default:
	}
}
