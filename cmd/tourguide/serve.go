package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aretw0/tourguide"
	"github.com/aretw0/tourguide/internal/scenario"
	httpAdapter "github.com/aretw0/tourguide/pkg/adapters/http"
	redisAdapter "github.com/aretw0/tourguide/pkg/adapters/redis"
	"github.com/aretw0/tourguide/pkg/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve <scenario.yaml>",
	Short: "Serve the scenario's tours over HTTP",
	Long: `Mounts the scenario's steps on a wall-clock engine and exposes tour control,
server-sent events and Prometheus metrics over HTTP. With --redis, tour events
are also published to Redis pub/sub.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := scenario.Load(args[0])
		if err != nil {
			return err
		}
		cfg, logger, err := settings(cmd, s)
		if err != nil {
			return err
		}
		addr, _ := cmd.Flags().GetString("addr")
		redisAddr, _ := cmd.Flags().GetString("redis")
		prefix, _ := cmd.Flags().GetString("redis-prefix")

		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		metrics := observability.NewMetrics(reg)

		g := tourguide.New(
			tourguide.WithConfig(cfg),
			tourguide.WithLogger(logger),
			tourguide.WithLifecycleHooks(metrics.Hooks()),
		)
		defer g.Close()

		ctx := cmd.Context()
		mount(ctx, g, s, nil)

		if redisAddr != "" {
			client := redis.NewClient(&redis.Options{Addr: redisAddr})
			defer client.Close()
			if err := client.Ping(ctx).Err(); err != nil {
				return fmt.Errorf("redis %s: %w", redisAddr, err)
			}
			pub := redisAdapter.NewPublisher(client, redisAdapter.WithPrefix(prefix), redisAdapter.WithLogger(logger))
			for _, key := range g.Tours() {
				stop := pub.Attach(g.Controller(key).Events())
				defer stop()
			}
			logger.Info("publishing tour events", "redis", redisAddr, "prefix", prefix)
		}

		srv := &http.Server{
			Addr: addr,
			Handler: httpAdapter.NewHandler(g.Store(),
				httpAdapter.WithLogger(logger),
				httpAdapter.WithGatherer(reg),
			),
			ReadHeaderTimeout: 5 * time.Second,
		}

		serverErrors := make(chan error, 1)
		go func() {
			logger.Info("serving tours", "addr", addr, "scenario", s.Name, "tours", g.Tours())
			serverErrors <- srv.ListenAndServe()
		}()

		shutdown := make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

		select {
		case err := <-serverErrors:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return fmt.Errorf("server: %w", err)
		case sig := <-shutdown:
			logger.Info("shutting down", "signal", sig.String())
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			// Event streams never finish on their own.
			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Warn("graceful shutdown incomplete", "err", err)
				return srv.Close()
			}
			return nil
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("addr", ":8080", "Address to listen on")
	serveCmd.Flags().String("redis", "", "Redis address to publish tour events to")
	serveCmd.Flags().String("redis-prefix", "tourguide:", "Redis channel prefix")
}
