package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"maturity.app/assessor/common/id"
	"maturity.app/assessor/common/logger"
	"maturity.app/assessor/common/otel"
	"maturity.app/assessor/core/config"
	"maturity.app/assessor/internal/catalog"
	"maturity.app/assessor/internal/http/middleware"
	httprouter "maturity.app/assessor/internal/http/router"
	"maturity.app/assessor/internal/maturity"
	"maturity.app/assessor/internal/metrics"
	"maturity.app/assessor/internal/service"
	"maturity.app/assessor/internal/session"
	"maturity.app/assessor/internal/store"
)

func main() {
	fmt.Printf("%s\n", banner)
	if err := run(context.Background()); err != nil {
		slog.Error("assessor exited", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := config.Load(config.ServiceTypeServer)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// the production log handler exports through the OTel log provider
	telemetry, err := otel.Setup(ctx, cfg.OTel, cfg.Env)
	if err != nil {
		return fmt.Errorf("initializing otel: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := telemetry.Shutdown(shutdownCtx); err != nil {
			slog.Error("otel shutdown error", "error", err)
		}
	}()

	logger.Setup(cfg)
	slog.InfoContext(ctx, "assessor starting",
		"env", cfg.Env,
		"otel", cfg.OTel.Enabled(),
		"backend", cfg.Store.Backend,
	)

	if err := id.Init(cfg.SnowflakeNodeID); err != nil {
		return err
	}

	engine, err := buildEngine(ctx, cfg)
	if err != nil {
		return err
	}

	var m *metrics.Metrics
	if cfg.MetricsEnabled {
		m = metrics.New()
	}

	snapshots, err := openStore(ctx, cfg, m)
	if err != nil {
		return err
	}
	defer snapshots.Close()

	services := service.NewServices(engine, snapshots, m)

	sess := session.New(engine, services.Snapshots())
	if _, err := sess.Load(ctx); err != nil {
		// a bad latest snapshot should not keep the server down
		slog.WarnContext(ctx, "could not restore latest snapshot into session", "error", err)
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           setupRouter(cfg, services, sess, m),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		slog.InfoContext(ctx, "http server starting", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	sigCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-serveErr:
		return fmt.Errorf("http server: %w", err)
	case <-sigCtx.Done():
	}

	slog.InfoContext(ctx, "shutting down")
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http server shutdown: %w", err)
	}
	slog.InfoContext(ctx, "shutdown complete")
	return nil
}

func buildEngine(ctx context.Context, cfg config.Config) (*maturity.Engine, error) {
	cat, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		return nil, fmt.Errorf("loading catalog: %w", err)
	}
	policy, err := maturity.PolicyByName(cfg.Scoring.Policy, cfg.Scoring.Floor)
	if err != nil {
		return nil, err
	}
	engine, err := maturity.NewEngine(cat, policy)
	if err != nil {
		return nil, err
	}
	attrs := []any{
		"path", cfg.CatalogPath,
		"dimensions", len(cat.Dimensions),
		"sub_dimensions", cat.SubDimensionCount(),
		"policy", policy.Name(),
	}
	if l, ok := cat.UniformMaxLevel(); ok {
		attrs = append(attrs, "levels", l)
	} else {
		attrs = append(attrs, "levels", "mixed")
	}
	slog.InfoContext(ctx, "catalog loaded", attrs...)
	return engine, nil
}

func openStore(ctx context.Context, cfg config.Config, m *metrics.Metrics) (store.SnapshotStore, error) {
	snapshots, err := store.Open(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("opening %s snapshot store: %w", cfg.Store.Backend, err)
	}
	if m != nil {
		snapshots = store.NewInstrumented(snapshots, m)
	}
	slog.InfoContext(ctx, "snapshot store ready", "backend", snapshots.Backend())
	return snapshots, nil
}

func setupRouter(cfg config.Config, services *service.Services, sess *session.Session, m *metrics.Metrics) *gin.Engine {
	router := gin.New()

	// otelgin first so recovery and access logs see the request span
	if cfg.OTel.Enabled() {
		router.Use(otelgin.Middleware(cfg.OTel.ServiceName))
	}
	router.Use(middleware.Recovery())
	router.Use(middleware.Logger())
	if m != nil {
		router.Use(middleware.Metrics(m))
	}

	httprouter.SetupRoutes(router, services, sess, httprouter.RouterConfig{
		MetricsEnabled: cfg.MetricsEnabled,
		Backend:        cfg.Store.Backend,
	})

	return router
}

const banner = `
 █████╗ ███████╗███████╗███████╗███████╗███████╗ ██████╗ ██████╗
██╔══██╗██╔════╝██╔════╝██╔════╝██╔════╝██╔════╝██╔═══██╗██╔══██╗
███████║███████╗███████╗█████╗  ███████╗███████╗██║   ██║██████╔╝
██╔══██║╚════██║╚════██║██╔══╝  ╚════██║╚════██║██║   ██║██╔══██╗
██║  ██║███████║███████║███████╗███████║███████║╚██████╔╝██║  ██║
╚═╝  ╚═╝╚══════╝╚══════╝╚══════╝╚══════╝╚══════╝ ╚═════╝ ╚═╝  ╚═╝
`
