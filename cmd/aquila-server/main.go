// Command aquila-server serves the Aquila flight preparation web application.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/signalsfoundry/aquila-performance/core"
	"github.com/signalsfoundry/aquila-performance/internal/logging"
	"github.com/signalsfoundry/aquila-performance/internal/observability"
	"github.com/signalsfoundry/aquila-performance/internal/web"
)

// Config is the server configuration. Every flag falls back to an
// environment variable.
type Config struct {
	ListenAddress   string
	MetricsAddress  string
	GRPCAddress     string
	LogLevel        string
	LogFormat       string
	LogFile         string
	CacheSize       int
	ShutdownTimeout time.Duration
}

func parseConfig(args []string) (Config, error) {
	var cfg Config
	fs := flag.NewFlagSet("aquila-server", flag.ContinueOnError)
	fs.StringVar(&cfg.ListenAddress, "listen-addr", getEnv("AQUILA_LISTEN_ADDR", ":8080"), "HTTP address the web application listens on")
	fs.StringVar(&cfg.MetricsAddress, "metrics-addr", getEnv("AQUILA_METRICS_ADDR", ":9090"), "HTTP address for Prometheus /metrics; empty serves it on the main listener")
	fs.StringVar(&cfg.GRPCAddress, "grpc-addr", getEnv("AQUILA_GRPC_ADDR", ""), "TCP address for the gRPC health service; empty disables it")
	fs.StringVar(&cfg.LogLevel, "log-level", getEnv("LOG_LEVEL", "info"), "debug, info, warn or error")
	fs.StringVar(&cfg.LogFormat, "log-format", getEnv("LOG_FORMAT", "text"), "text or json")
	fs.StringVar(&cfg.LogFile, "log-file", getEnv("LOG_FILE", ""), "rotate logs into this file instead of stderr")
	fs.IntVar(&cfg.CacheSize, "cache-size", getEnvInt("AQUILA_CACHE_SIZE", web.DefaultCacheSize), "rendered charts and reports kept in memory")
	fs.DurationVar(&cfg.ShutdownTimeout, "shutdown-timeout", getEnvDuration("AQUILA_SHUTDOWN_TIMEOUT", 10*time.Second), "grace period for in-flight requests")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	if cfg.ListenAddress == "" {
		return Config{}, errors.New("listen-addr must not be empty")
	}
	if cfg.CacheSize <= 0 {
		return Config{}, fmt.Errorf("cache-size must be positive, got %d", cfg.CacheSize)
	}
	return cfg, nil
}

func main() {
	cfg, err := parseConfig(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	log := logging.New(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat, File: cfg.LogFile})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := observability.InitTracing(ctx, tracingConfig(), log)
	if err != nil {
		log.Error(ctx, "failed to initialise tracing", logging.Err(err))
		os.Exit(1)
	}

	lis, err := net.Listen("tcp", cfg.ListenAddress)
	if err != nil {
		log.Error(ctx, "failed to listen", logging.String("addr", cfg.ListenAddress), logging.Err(err))
		os.Exit(1)
	}

	err = run(ctx, cfg, log, lis)
	observability.ShutdownWithTimeout(context.Background(), shutdownTracing, log)
	if err != nil {
		log.Error(ctx, "server exited", logging.Err(err))
		os.Exit(1)
	}
}

// tracingConfig reads tracing from the environment and tags the resource with
// the aircraft and charts this build serves.
func tracingConfig() observability.TracingConfig {
	cfg := observability.TracingConfigFromEnv()
	cfg.Attributes = append(cfg.Attributes,
		attribute.String("aquila.aircraft", "A210"),
		attribute.StringSlice("aquila.charts", []string{core.ChartTakeoff.String(), core.ChartLanding.String()}),
	)
	return cfg
}

// run serves the web application on lis until ctx is cancelled, then drains
// every listener.
func run(ctx context.Context, cfg Config, log logging.Logger, lis net.Listener) error {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	svc, err := observability.NewServiceCollector(reg)
	if err != nil {
		return fmt.Errorf("service metrics: %w", err)
	}
	calc, err := observability.NewCalculationCollector(reg)
	if err != nil {
		return fmt.Errorf("calculation metrics: %w", err)
	}

	opts := web.Options{Log: log, Metrics: svc, Calculation: calc, CacheSize: cfg.CacheSize}
	if cfg.MetricsAddress == "" {
		opts.MetricsHandler = svc.Handler()
	}
	app, err := web.NewServer(opts)
	if err != nil {
		return err
	}

	var glis net.Listener
	if cfg.GRPCAddress != "" {
		if glis, err = net.Listen("tcp", cfg.GRPCAddress); err != nil {
			return fmt.Errorf("listen for gRPC on %s: %w", cfg.GRPCAddress, err)
		}
	}

	httpSrv := &http.Server{Handler: app.Handler(), ReadHeaderTimeout: 5 * time.Second}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return ignoreClosed(httpSrv.Serve(lis))
	})

	metricsSrv := serveMetrics(g, cfg.MetricsAddress, svc, log)

	healthSrv := health.NewServer()
	var grpcSrv *grpc.Server
	if glis != nil {
		grpcSrv = newGRPCServer(log, svc, healthSrv)
		g.Go(func() error { return grpcSrv.Serve(glis) })
		log.Info(ctx, "serving gRPC health", logging.String("addr", glis.Addr().String()))
	}

	app.SetReady(true)
	healthSrv.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	log.Info(ctx, "serving web application", logging.String("addr", lis.Addr().String()))

	g.Go(func() error {
		<-gctx.Done()
		log.Info(context.Background(), "shutting down")
		app.SetReady(false)
		healthSrv.Shutdown()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if grpcSrv != nil {
			grpcSrv.GracefulStop()
		}
		if metricsSrv != nil {
			_ = metricsSrv.Shutdown(shutdownCtx)
		}
		return httpSrv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// newGRPCServer builds the gRPC server exposing the standard health service.
func newGRPCServer(log logging.Logger, svc *observability.ServiceCollector, hs *health.Server) *grpc.Server {
	s := grpc.NewServer(
		grpc.StatsHandler(otelgrpc.NewServerHandler()),
		grpc.ChainUnaryInterceptor(
			observability.RequestIDUnaryServerInterceptor(log),
			svc.UnaryServerInterceptor(),
		),
	)
	healthpb.RegisterHealthServer(s, hs)
	return s
}

func serveMetrics(g *errgroup.Group, addr string, collector *observability.ServiceCollector, log logging.Logger) *http.Server {
	if addr == "" {
		return nil
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", collector.Handler())

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	g.Go(func() error {
		if err := ignoreClosed(srv.ListenAndServe()); err != nil {
			log.Warn(context.Background(), "metrics server exited", logging.Err(err))
		}
		return nil
	})

	log.Info(context.Background(), "serving Prometheus metrics", logging.String("addr", addr))
	return srv
}

func ignoreClosed(err error) error {
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultVal
}
