package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/bubbletea"
	"github.com/muesli/termenv"

	"github.com/vovakirdan/roadrush/internal/core"
	"github.com/vovakirdan/roadrush/internal/metrics"
	"github.com/vovakirdan/roadrush/internal/ratelimit"
	"github.com/vovakirdan/roadrush/internal/storage"
)

// shutdownGrace bounds how long open sessions get to finish on shutdown.
const shutdownGrace = 10 * time.Second

// SSHServerConfig configures the SSH front end.
type SSHServerConfig struct {
	Address string // host:port, e.g. ":23234"

	// HostKeyPath is generated on first start if missing.
	// Empty means ~/.roadrush/host_key.
	HostKeyPath string

	IdleTimeout time.Duration    // Sessions without input are dropped after this
	RateLimit   ratelimit.Config // New sessions per client IP
	TickRate    int              // Simulation rate for every session
}

// DefaultSSHServerConfig returns the settings used by `roadrush serve`.
func DefaultSSHServerConfig() SSHServerConfig {
	return SSHServerConfig{
		Address:     ":23234",
		IdleTimeout: 30 * time.Minute,
		RateLimit:   ratelimit.DefaultConfig(),
		TickRate:    defaultTickRate,
	}
}

// SSHServer serves Road Rush over SSH. Every session runs its own
// SessionModel and game instances; sessions share only the store.
type SSHServer struct {
	config  SSHServerConfig
	server  *ssh.Server
	store   *storage.Store
	limiter *ratelimit.IPLimiter
	logger  *log.Logger
}

// NewSSHServer prepares the host key directory and the wish middleware
// chain. store may be nil, in which case sessions play without persistence.
func NewSSHServer(cfg SSHServerConfig, store *storage.Store, logger *log.Logger) (*SSHServer, error) {
	if logger == nil {
		logger = log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: true, Prefix: "roadrush-ssh"})
	}
	if cfg.TickRate <= 0 {
		cfg.TickRate = defaultTickRate
	}

	keyPath, err := hostKeyPath(cfg.HostKeyPath)
	if err != nil {
		return nil, err
	}

	s := &SSHServer{
		config:  cfg,
		store:   store,
		limiter: ratelimit.New(cfg.RateLimit, nil),
		logger:  logger,
	}
	if err := metrics.WatchLimiter("ssh", s.limiter); err != nil {
		logger.Warn("rate limiter metrics unavailable", "error", err)
	}

	// wish runs middleware last to first: rate limit, logging, then the game
	server, err := wish.NewServer(
		wish.WithAddress(cfg.Address),
		wish.WithHostKeyPath(keyPath),
		wish.WithIdleTimeout(cfg.IdleTimeout),
		wish.WithMiddleware(
			bubbletea.Middleware(s.teaHandler),
			s.loggingMiddleware,
			s.rateLimitMiddleware,
		),
	)
	if err != nil {
		return nil, fmt.Errorf("tui: cannot create SSH server: %w", err)
	}
	s.server = server

	return s, nil
}

// hostKeyPath resolves the key location and makes sure its directory exists.
func hostKeyPath(path string) (string, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("tui: cannot locate host key: %w", err)
		}
		path = filepath.Join(home, ".roadrush", "host_key")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return "", fmt.Errorf("tui: cannot create host key directory: %w", err)
	}
	return path, nil
}

// teaHandler builds the session model for a new connection. Sessions without
// a PTY are turned away since nothing could be drawn.
func (s *SSHServer) teaHandler(sess ssh.Session) (tea.Model, []tea.ProgramOption) {
	pty, _, ok := sess.Pty()
	if !ok {
		s.logger.Warn("session rejected", "user", sess.User(), "reason", metrics.ReasonNoPTY)
		metrics.RecordRejected(metrics.ReasonNoPTY)
		wish.Fatalln(sess, "roadrush needs an interactive terminal, try: ssh -t")
		return nil, nil
	}

	logger := s.logger.With("user", sess.User())
	renderer := bubbletea.MakeRenderer(sess)
	if renderer.ColorProfile() == termenv.Ascii {
		logger.Debug("client has no color support, drawing glyphs only", "term", pty.Term)
	}

	model := NewSessionModel(s.store, logger, core.RuntimeConfig{
		ScreenW:  pty.Window.Width,
		ScreenH:  pty.Window.Height,
		TickRate: s.config.TickRate,
		Seed:     time.Now().UnixNano(),
	}).WithRenderer(renderer)

	return model, []tea.ProgramOption{tea.WithAltScreen()}
}

// loggingMiddleware logs each session and tracks the active-session gauge.
func (s *SSHServer) loggingMiddleware(next ssh.Handler) ssh.Handler {
	return func(sess ssh.Session) {
		logger := s.logger.With("user", sess.User(), "remote", sess.RemoteAddr().String())
		start := time.Now()

		logger.Info("session started")
		metrics.SessionStarted()
		defer func() {
			metrics.SessionEnded()
			logger.Info("session ended", "duration", time.Since(start).Round(time.Second))
		}()

		next(sess)
	}
}

// rateLimitMiddleware turns away clients that reconnect too quickly.
func (s *SSHServer) rateLimitMiddleware(next ssh.Handler) ssh.Handler {
	return func(sess ssh.Session) {
		if !s.limiter.AllowAddr(sess.RemoteAddr()) {
			s.logger.Warn("session rejected", "remote", sess.RemoteAddr().String(), "reason", metrics.ReasonRateLimit)
			metrics.RecordRejected(metrics.ReasonRateLimit)
			wish.Fatalln(sess, "too many connections, try again in a moment")
			return
		}
		next(sess)
	}
}

// ListenAndServe accepts sessions until ctx is cancelled, then shuts down
// gracefully. It returns early if the listener fails.
func (s *SSHServer) ListenAndServe(ctx context.Context) error {
	s.logger.Info("ssh server listening", "address", s.config.Address)

	go s.limiter.Run(ctx.Done())

	serveErr := make(chan error, 1)
	go func() {
		err := s.server.ListenAndServe()
		if errors.Is(err, ssh.ErrServerClosed) {
			err = nil
		}
		serveErr <- err
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("tui: ssh server: %w", err)
		}
		return nil
	case <-ctx.Done():
		s.logger.Info("ssh server shutting down")
		return s.Shutdown()
	}
}

// Shutdown stops accepting sessions and waits up to shutdownGrace for open
// ones. The store is owned by the caller.
func (s *SSHServer) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	return s.server.Shutdown(ctx)
}

// Addr returns the configured listen address.
func (s *SSHServer) Addr() string {
	return s.config.Address
}
