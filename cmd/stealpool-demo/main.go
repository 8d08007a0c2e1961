// Command stealpool-demo multiplies small numbers on a work-stealing pool.
package main

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"net/http"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
	"go.uber.org/automaxprocs/maxprocs"
	"golang.org/x/sync/errgroup"

	"github.com/ygrebnov/stealpool"
	"github.com/ygrebnov/stealpool/internal/config"
	"github.com/ygrebnov/stealpool/metrics"
)

var (
	configFile  string
	workers     uint
	idle        string
	delay       time.Duration
	debug       bool
	metricsAddr string
)

func main() {
	pflag.StringVarP(&configFile, "config", "c", "", "config file path (yaml or json)")
	pflag.UintVarP(&workers, "workers", "w", 3, "number of pool workers")
	pflag.StringVarP(&idle, "idle", "i", "", "idle policy: blocking or spinning")
	pflag.DurationVar(&delay, "delay", 200*time.Millisecond, "simulated computation time per task, jittered by 50%")
	pflag.BoolVarP(&debug, "debug", "d", false, "set log level to DEBUG")
	pflag.StringVar(&metricsAddr, "metrics-addr", "", "serve prometheus metrics on this address")
	pflag.Parse()

	if err := run(); err != nil {
		log.WithError(err).Error("demo failed")
		os.Exit(1)
	}
}

func run() error {
	cfg := config.Default()
	if configFile != "" {
		var err error
		if cfg, err = config.LoadFile(configFile); err != nil {
			return err
		}
	}

	log.SetLevel(cfg.Logging.LogLevel())
	if debug {
		log.SetLevel(log.DebugLevel)
	}
	logger := log.WithField("component", "stealpool-demo")

	if _, err := maxprocs.Set(maxprocs.Logger(logger.Debugf)); err != nil {
		logger.WithError(err).Warn("cannot adjust GOMAXPROCS")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := append(cfg.Pool.Options(), stealpool.WithLogger(log.WithField("component", stealpool.Namespace)))
	// flags override the file
	if pflag.CommandLine.Changed("workers") || cfg.Pool.Workers == 0 {
		opts = append(opts, stealpool.WithWorkers(workers))
	}
	if idle != "" {
		policy, err := stealpool.ParseIdlePolicy(idle)
		if err != nil {
			return err
		}
		opts = append(opts, stealpool.WithIdlePolicy(policy))
	}

	addr := metricsAddr
	if addr == "" && cfg.Metrics.Enabled {
		addr = cfg.Metrics.Address
	}
	if addr != "" {
		reg := prometheus.NewRegistry()
		opts = append(opts, stealpool.WithMetrics(metrics.NewPrometheusProvider(reg, cfg.Metrics.Namespace, "")))
		srv := serveMetrics(addr, reg, logger)
		defer func() { _ = srv.Close() }()
	}

	pool, err := stealpool.New(ctx, opts...)
	if err != nil {
		return err
	}

	shutdown := func() error {
		sctx, cancel := context.WithTimeout(context.Background(), cfg.Pool.ShutdownTimeoutDuration())
		defer cancel()
		return pool.ShutdownContext(sctx)
	}

	if err := multiplyAll(ctx, pool, logger); err != nil {
		return errors.Join(err, shutdown())
	}

	var out int
	f, err := pool.Go(ctx, func(ctx context.Context) error {
		v, err := multiply(ctx, 5, 6)
		out = v
		return err
	})
	if err != nil {
		return errors.Join(err, shutdown())
	}
	if _, err := f.Await(ctx); err != nil {
		return errors.Join(err, shutdown())
	}
	fmt.Printf("multiply_output: 5 * 6 = %d\n", out)

	g, err := stealpool.Submit(ctx, pool, stealpool.TaskFunc(func(ctx context.Context) (int, error) {
		return multiply(ctx, 5, 3)
	}))
	if err != nil {
		return errors.Join(err, shutdown())
	}
	v, err := g.Await(ctx)
	if err != nil {
		return errors.Join(err, shutdown())
	}
	fmt.Printf("multiply_return: 5 * 3 = %d\n", v)

	return shutdown()
}

// multiplyAll submits i*j for i in 1..3 and j in 1..10 and awaits the futures concurrently.
func multiplyAll(ctx context.Context, pool *stealpool.Pool, logger log.FieldLogger) error {
	type product struct{ i, j, v int }

	futures := make([]*stealpool.Future[product], 0, 30)
	for i := 1; i <= 3; i++ {
		for j := 1; j <= 10; j++ {
			f, err := stealpool.Submit(ctx, pool, stealpool.TaskFunc(func(ctx context.Context) (product, error) {
				v, err := multiply(ctx, i, j)
				return product{i: i, j: j, v: v}, err
			}))
			if err != nil {
				return err
			}
			futures = append(futures, f)
		}
	}

	products := make([]product, len(futures))
	eg, egCtx := errgroup.WithContext(ctx)
	for k, f := range futures {
		eg.Go(func() error {
			p, err := f.Await(egCtx)
			products[k] = p
			return err
		})
	}
	if err := eg.Wait(); err != nil {
		return err
	}

	sort.Slice(products, func(a, b int) bool {
		if products[a].i != products[b].i {
			return products[a].i < products[b].i
		}
		return products[a].j < products[b].j
	})
	lines := make([]string, 0, len(products))
	for _, p := range products {
		lines = append(lines, fmt.Sprintf("%d * %d = %d", p.i, p.j, p.v))
	}
	fmt.Println(strings.Join(lines, "\n"))
	logger.WithField("tasks", len(products)).Info("multiplication table done")
	return nil
}

// multiply simulates a slow computation.
func multiply(ctx context.Context, a, b int) (int, error) {
	if delay > 0 {
		jitter := time.Duration(rand.Int64N(int64(delay))) - delay/2
		select {
		case <-time.After(delay + jitter):
		case <-ctx.Done():
			return 0, ctx.Err()
		}
	}
	return a * b, nil
}

func serveMetrics(addr string, reg *prometheus.Registry, logger log.FieldLogger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		logger.WithField("address", addr).Info("metrics server started")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Error("metrics server failed")
		}
	}()
	return srv
}
