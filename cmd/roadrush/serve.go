package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/vovakirdan/roadrush/internal/metrics"
	"github.com/vovakirdan/roadrush/internal/platform/tui"
	"github.com/vovakirdan/roadrush/internal/ratelimit"
	"github.com/vovakirdan/roadrush/internal/storage"
)

var (
	flagSSHAddr     string
	flagHostKey     string
	flagIdleTimeout int
	flagHTTPAddr    string
	flagRate        float64
	flagBurst       int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the Road Rush SSH server",
	Long: `Start an SSH server that allows users to connect and play.

Each SSH connection gets its own session with a game picker menu.
Scores are stored per-server (all users share the same leaderboard).
New connections are rate limited per client IP.

With --http, an HTTP server is started alongside that exposes:
  /health                  - liveness probe
  /metrics                 - Prometheus metrics
  /api/scores/{game}       - top scores and stats as JSON

Every flag may also come from the environment or a .env file in the
working directory (ROADRUSH_SSH_ADDR, ROADRUSH_HTTP_ADDR, ROADRUSH_HOST_KEY,
ROADRUSH_DB, ROADRUSH_IDLE_TIMEOUT, ROADRUSH_RATE, ROADRUSH_BURST,
ROADRUSH_FPS). Flags given on the command line take precedence.

Host key handling:
  - If --host-key is provided, uses that key file
  - Otherwise, auto-generates a key at ~/.roadrush/host_key

Examples:
  roadrush serve                           # Listen on :23234 with auto-generated key
  roadrush serve --ssh :2222               # Listen on port 2222
  roadrush serve --http :8080              # Also serve metrics and the scores API
  roadrush serve --rate 1 --burst 3        # Stricter connection limits

Users can connect with:
  ssh localhost -p 23234`,
	RunE: runServe,
}

func init() {
	defaults := ratelimit.DefaultConfig()
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", ":23234", "SSH server address (host:port)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file (auto-generated if not specified)")
	serveCmd.Flags().IntVar(&flagIdleTimeout, "idle-timeout", 30, "Idle timeout in minutes before disconnecting")
	serveCmd.Flags().StringVar(&flagHTTPAddr, "http", "", "HTTP address for metrics and the scores API (disabled if empty)")
	serveCmd.Flags().Float64Var(&flagRate, "rate", defaults.PerSecond, "Connections per second allowed per client IP")
	serveCmd.Flags().IntVar(&flagBurst, "burst", defaults.Burst, "Connection burst allowed per client IP")
}

func runServe(cmd *cobra.Command, _ []string) error {
	if err := loadEnv(cmd); err != nil {
		return err
	}

	logger := newLogger("roadrush-server")
	if err := applyGameFlags(); err != nil {
		return err
	}

	store := openStore(logger)
	if store != nil {
		defer store.Close()
	}

	limits := ratelimit.DefaultConfig()
	limits.PerSecond = flagRate
	limits.Burst = flagBurst

	cfg := tui.DefaultSSHServerConfig()
	cfg.Address = flagSSHAddr
	cfg.HostKeyPath = flagHostKey
	cfg.IdleTimeout = time.Duration(flagIdleTimeout) * time.Minute
	cfg.RateLimit = limits
	cfg.TickRate = flagFPS

	server, err := tui.NewSSHServer(cfg, store, logger)
	if err != nil {
		return fmt.Errorf("create ssh server: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return server.ListenAndServe(ctx)
	})

	if flagHTTPAddr != "" {
		apiLimiter := ratelimit.New(limits, nil)
		go apiLimiter.Run(ctx.Done())
		if err := metrics.WatchLimiter("http", apiLimiter); err != nil {
			logger.Warn("rate limiter metrics unavailable", "error", err)
		}

		router := metrics.NewRouter(metrics.RouterConfig{
			Scores:  scoreSource(store),
			Limiter: apiLimiter,
			Logger:  logger.WithPrefix("roadrush-http"),
		})
		g.Go(func() error {
			return metrics.Serve(ctx, flagHTTPAddr, router, logger)
		})
	}

	logger.Info("connect with: ssh localhost -p <port>", "ssh", server.Addr(), "http", flagHTTPAddr)

	if err := g.Wait(); err != nil {
		logger.Error("server stopped", "error", err)
		return err
	}
	logger.Info("server stopped")
	return nil
}

// scoreSource avoids handing the router a typed nil store.
func scoreSource(store *storage.Store) metrics.ScoreSource {
	if store == nil {
		return nil
	}
	return store
}
