package bootstrap

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

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"

	"github.com/folioworks/folio/config"
	"github.com/folioworks/folio/internal/adapters/backend"
	"github.com/folioworks/folio/internal/observability/metrics"
	"github.com/folioworks/folio/internal/ports"
	"github.com/folioworks/folio/internal/service"
	"github.com/folioworks/folio/internal/token"
)

// ServiceContainer holds all application services.
type ServiceContainer struct {
	Sessions *service.SessionRegistry
	Limiter  *service.LoginLimiter // nil when login throttling is disabled
	Login    *service.LoginService
	Projects *service.ProjectService
	Contact  *service.ContactService
	Metrics  MetricsContainer
}

// MetricsContainer groups the Prometheus registry and the recorder writing to it.
type MetricsContainer struct {
	Registry  *prometheus.Registry
	Collector *metrics.Collector
	Config    config.ObservabilityMetricsConfig
}

// Handler returns the scrape handler, or nil when the endpoint is disabled.
func (m MetricsContainer) Handler() http.Handler {
	if m.Registry == nil || !m.Config.IsEnabled() {
		return nil
	}
	return metrics.Handler(m.Registry)
}

// ServiceDeps groups dependencies for service initialization.
type ServiceDeps struct {
	Config *config.AppConfig
	KV     ports.KVStore
	// Verifier is optional; nil trusts backend-issued tokens unchecked.
	Verifier ports.TokenVerifier
	Logger   *slog.Logger
}

// buildMetrics registers the application collector plus Go runtime metrics.
func buildMetrics(cfg config.ObservabilityMetricsConfig) MetricsContainer {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return MetricsContainer{
		Registry:  reg,
		Collector: metrics.NewCollector(reg),
		Config:    cfg,
	}
}

func newBackendClient(cfg config.BackendConfig, rec metrics.Recorder, logger *slog.Logger) (*backend.Client, error) {
	client, err := backend.New(backend.Options{
		BaseURL:          cfg.URL,
		Timeout:          cfg.Timeout,
		ErrorMessageExpr: cfg.ErrorMessageExpr,
		Logger:           logger,
		Metrics:          rec,
	})
	if err != nil {
		return nil, fmt.Errorf("create backend client: %w", err)
	}
	return client, nil
}

func newLoginLimiter(cfg config.RateLimitConfig) *service.LoginLimiter {
	if !cfg.Enabled {
		return nil
	}
	return service.NewLoginLimiter(service.LoginLimiterOptions{
		PerMinute: cfg.PerMinute,
		Burst:     cfg.Burst,
	})
}

// NewServices wires every service over the given record store.
func NewServices(deps *ServiceDeps) (ServiceContainer, error) {
	if deps == nil || deps.Config == nil {
		return ServiceContainer{}, errors.New("service config is required")
	}
	if deps.KV == nil {
		return ServiceContainer{}, errors.New("record store is required")
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	cfg := deps.Config

	mc := buildMetrics(cfg.Observability.Metrics)
	rec := mc.Collector

	client, err := newBackendClient(cfg.Backend, rec, logger)
	if err != nil {
		return ServiceContainer{}, err
	}

	sessions, err := service.NewSessionRegistry(service.SessionRegistryOptions{
		KV:      deps.KV,
		Decoder: token.NewDecoder(nil),
		Logger:  logger,
		Metrics: rec,
		IdleTTL: cfg.Session.IdleTTL,
	})
	if err != nil {
		return ServiceContainer{}, fmt.Errorf("create session registry: %w", err)
	}

	limiter := newLoginLimiter(cfg.RateLimit)
	login, err := service.NewLoginService(service.LoginServiceOptions{
		Auth:     backend.NewAuth(client),
		Verifier: deps.Verifier,
		Limiter:  limiter,
		Timeout:  cfg.Backend.Timeout,
		Logger:   logger,
		Metrics:  rec,
	})
	if err != nil {
		return ServiceContainer{}, fmt.Errorf("create login service: %w", err)
	}

	projects, err := service.NewProjectService(service.ProjectServiceOptions{
		API:    backend.NewProjects(client),
		Logger: logger,
	})
	if err != nil {
		return ServiceContainer{}, fmt.Errorf("create project service: %w", err)
	}

	return ServiceContainer{
		Sessions: sessions,
		Limiter:  limiter,
		Login:    login,
		Projects: projects,
		Contact:  service.NewContactService(logger),
		Metrics:  mc,
	}, nil
}

// shutdownWaitTimeout is the maximum time to wait for services to stop gracefully.
const shutdownWaitTimeout = 15 * time.Second

// ServiceOrchestrationConfig contains what RunServicesWithShutdown needs.
type ServiceOrchestrationConfig struct {
	Config   *config.AppConfig
	Services ServiceContainer
	Logger   *slog.Logger
}

// backgroundService describes a startable background component.
type backgroundService struct {
	name  string
	start func(context.Context) error
}

func buildBackgroundServices(cfg *ServiceOrchestrationConfig) []backgroundService {
	svcs := []backgroundService{{
		name: "session sweeper",
		start: func(ctx context.Context) error {
			return cfg.Services.Sessions.Run(ctx, cfg.Config.Session.SweepInterval)
		},
	}}
	if cfg.Services.Limiter != nil {
		svcs = append(svcs, backgroundService{
			name: "login limiter cleanup",
			start: func(ctx context.Context) error {
				return cfg.Services.Limiter.Run(ctx, time.Minute)
			},
		})
	}
	return svcs
}

// RunServicesWithShutdown starts the HTTP server and background services and
// blocks until a shutdown signal is received or one of them fails.
func RunServicesWithShutdown(cfg *ServiceOrchestrationConfig) error {
	if cfg == nil || cfg.Config == nil {
		return errors.New("service orchestration config is required")
	}
	if cfg.Services.Sessions == nil {
		return errors.New("service orchestration config missing session registry")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	handler, err := BuildHTTPHandler(HTTPHandlerConfig{Config: cfg.Config, Services: cfg.Services, Logger: logger})
	if err != nil {
		return err
	}
	server := NewHTTPServer(cfg.Config.HTTP.Addr, handler)

	g, ctx := errgroup.WithContext(sigCtx)
	for _, svc := range buildBackgroundServices(cfg) {
		g.Go(func() error {
			logger.InfoContext(ctx, "background service started", "service", svc.name)
			if runErr := svc.start(ctx); runErr != nil {
				return fmt.Errorf("%s failed: %w", svc.name, runErr)
			}
			logger.InfoContext(ctx, svc.name+" stopped")
			return nil
		})
	}
	g.Go(func() error {
		logger.InfoContext(ctx, "starting HTTP server", "addr", server.Addr)
		if serveErr := server.ListenAndServe(); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server failed: %w", serveErr)
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		logger.Info("shutting down services...")
		return ShutdownHTTPServer(ShutdownConfig{
			Server:  server,
			Timeout: cfg.Config.HTTP.ShutdownTimeout,
			Logger:  logger,
		})
	})

	done := make(chan error, 1)
	go func() { done <- g.Wait() }()

	select {
	case err := <-done:
		return err
	case <-sigCtx.Done():
		// Signal received; give the group a bounded window to drain.
		select {
		case err := <-done:
			return err
		case <-time.After(shutdownWaitTimeout):
			logger.Warn("timeout waiting for services to stop")
			return nil
		}
	}
}
