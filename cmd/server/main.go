package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/sync/errgroup"

	"ctchen222/Prompt-Benchmark/internal/app"
	"ctchen222/Prompt-Benchmark/internal/config"
	"ctchen222/Prompt-Benchmark/internal/db"
	"ctchen222/Prompt-Benchmark/internal/logger"
	"ctchen222/Prompt-Benchmark/internal/telemetry"
)

func main() {
	dev := flag.Bool("dev", false, "use a development JWT secret when JWT_SECRET is unset")
	flag.Parse()

	// A missing .env file is fine; the environment may already be set.
	_ = godotenv.Load()

	load := config.Load
	if *dev {
		load = config.LoadWithDefaults
	}
	cfg, err := load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize telemetry before the logger so the otelslog bridge picks up the provider.
	shutdownTelemetry, err := telemetry.InitOtel(ctx, cfg.Telemetry)
	if err != nil {
		log.Fatalf("failed to initialize telemetry: %v", err)
	}
	defer func() {
		if err := shutdownTelemetry(context.Background()); err != nil {
			log.Printf("Error shutting down telemetry: %v", err)
		}
	}()

	logger.Init(cfg.Log.Level)
	gin.SetMode(cfg.Server.GinMode)
	slog.Info("Configuration loaded", "config", cfg.String())

	if err := run(ctx, cfg); err != nil {
		slog.Error("Server exited with error", "error", err)
		os.Exit(1)
	}
	slog.Info("Server exiting")
}

func run(ctx context.Context, cfg *config.Config) error {
	conn, err := db.Connect(ctx, cfg.Database.Driver, cfg.Database.DSN)
	if err != nil {
		return err
	}
	defer conn.Close()

	if err := db.InitializeDB(ctx, conn); err != nil {
		return err
	}

	var rdb *redis.Client
	if cfg.Redis.Address != "" {
		rdb, err = db.NewRedisClient(ctx, cfg.Redis.Address)
		if err != nil {
			return err
		}
		defer rdb.Close()
		slog.Info("Publishing evaluation events to redis", "redis.addr", cfg.Redis.Address)
	}

	application, err := app.New(cfg, conn, rdb)
	if err != nil {
		return err
	}

	httpServer := &http.Server{
		Addr:    cfg.Server.Address,
		Handler: otelhttp.NewHandler(application.Server.Handler(), "http.server"),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("http server started", "http.addr", cfg.Server.Address)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		slog.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
