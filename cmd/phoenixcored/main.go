package main

import (
	"context"
	"fmt"
	nethttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/lightningco/nodecore/config"
	"github.com/lightningco/nodecore/constants"
	"github.com/lightningco/nodecore/db"
	"github.com/lightningco/nodecore/db/migrations"
	"github.com/lightningco/nodecore/events"
	"github.com/lightningco/nodecore/httpapi"
	"github.com/lightningco/nodecore/lnengine"
	"github.com/lightningco/nodecore/logger"
	"github.com/lightningco/nodecore/payments"
	"github.com/lightningco/nodecore/peer"
	"github.com/lightningco/nodecore/resolver"
	"github.com/lightningco/nodecore/webhook"
)

func main() {
	_ = godotenv.Load()

	var env config.AppConfig
	if err := envconfig.Process("PHOENIX", &env); err != nil {
		fmt.Fprintln(os.Stderr, "failed to load configuration:", err)
		os.Exit(1)
	}

	logger.Init(env.LogLevel)
	logger.Logger.Info().Str("version", constants.Version).Msg("phoenixcored starting")

	cfg, err := config.NewConfig(&env)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("invalid configuration")
	}

	if err := os.MkdirAll(cfg.Workdir(), 0700); err != nil {
		logger.Logger.Fatal().Err(err).Msg("failed to create data directory")
	}
	if err := os.MkdirAll(cfg.ExportsDir(), 0700); err != nil {
		logger.Logger.Fatal().Err(err).Msg("failed to create exports directory")
	}
	if env.LogToFile {
		if err := logger.AddFileLogger(cfg.Workdir()); err != nil {
			logger.Logger.Fatal().Err(err).Msg("failed to attach file logger")
		}
	}

	dbPath := cfg.DatabasePath(env.NodeIdPrefix6)
	gormDB, err := db.Open(dbPath, env.LogDBQueries)
	if err != nil {
		logger.Logger.Fatal().Err(err).Str("path", dbPath).Msg("failed to open database")
	}
	if err := migrations.Migrate(gormDB); err != nil {
		logger.Logger.Fatal().Err(err).Msg("failed to run database migrations")
	}

	store := payments.NewStore(gormDB, &logger.Logger)
	if err := store.EnsureNodeRecord(env.Chain, env.NodeIdPrefix6); err != nil {
		logger.Logger.Fatal().Err(err).Msg("node identity check failed")
	}
	publisher := events.NewPublisher(&logger.Logger)
	defer publisher.Close()
	dispatcher := webhook.NewDispatcher(env.WebhookSecret, &logger.Logger)

	engine, err := lnengine.Open(env.EngineDriver, env.EngineDSN)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("failed to open protocol engine driver")
	}
	addressResolver, err := resolver.Open(env.ResolverDriver, env.ResolverDSN)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("failed to open address/LNURL resolver driver")
	}

	supervisor := peer.NewSupervisor(engine, store, cfg.Policy(), publisher, dispatcher, cfg.LspPubkey(), cfg.LspHost(), env.WebhookUrl, &logger.Logger)

	osSignalChannel := make(chan os.Signal, 1)
	signal.Notify(osSignalChannel, os.Interrupt, syscall.SIGTERM, syscall.SIGPIPE)

	ctx, cancel := context.WithCancel(context.Background())

	var receivedSignal os.Signal
	go func() {
		for {
			receivedSignal = <-osSignalChannel
			logger.Logger.Info().Interface("signal", receivedSignal).Msg("received OS signal")

			if receivedSignal == syscall.SIGPIPE {
				logger.Logger.Warn().Msg("ignoring SIGPIPE signal")
				continue
			}

			cancel()
			break
		}
	}()

	go supervisor.Run(ctx)

	e := httpapi.NewRouter(engine, addressResolver, store, cfg, publisher, dispatcher, &logger.Logger)
	go func() {
		addr := ":" + env.Port
		if err := e.Start(addr); err != nil && err != nethttp.ErrServerClosed {
			logger.Logger.Error().Err(err).Msg("HTTP server failed to start")
			cancel()
		}
	}()

	<-ctx.Done()
	logger.Logger.Info().Msg("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Logger.Error().Err(err).Msg("failed to shut down HTTP server")
	}

	logger.Logger.Info().Msg("phoenixcored exited")
}
