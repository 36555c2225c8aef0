package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	stdhttp "net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/vovakirdan/roomrelay/internal/auth"
	"github.com/vovakirdan/roomrelay/internal/config"
	"github.com/vovakirdan/roomrelay/internal/core"
	transporthttp "github.com/vovakirdan/roomrelay/internal/transport/http"
	"github.com/vovakirdan/roomrelay/internal/utils"
)

// App wires together core and transport layers.
type App struct {
	server          *stdhttp.Server
	shutdownTimeout time.Duration
	hub             *core.Hub
	log             *zerolog.Logger
}

// New constructs the application with provided configuration.
func New(cfg *config.Config, logger *zerolog.Logger) (*App, error) {
	grant, err := core.ParseAdminGrant(cfg.AdminGrant)
	if err != nil {
		return nil, fmt.Errorf("admin grant: %w", err)
	}

	secret := cfg.SessionSecret
	if secret == "" {
		secret = utils.NewSecret()
		logger.Warn().Msg("session_secret not set; session tokens will not survive a restart")
	}

	sessions := auth.NewService(&auth.JWTConfig{
		Secret: []byte(secret),
		Issuer: cfg.SessionIssuer,
		TTL:    cfg.SessionTTL,
	})

	hub := core.NewHub(core.Policy{Grant: grant}, logger)
	server := transporthttp.NewServer(hub, sessions, cfg, logger)

	logger.Info().
		Str("admin_grant", string(grant)).
		Bool("static", cfg.StaticDir != "").
		Msg("relay configured")

	return &App{
		server:          server,
		shutdownTimeout: cfg.ShutdownTimeout,
		hub:             hub,
		log:             logger,
	}, nil
}

// Run starts the HTTP server and blocks until context cancellation or fatal error.
func (a *App) Run(ctx context.Context) error {
	serverErr := make(chan error, 1)

	hubCtx, stopHub := context.WithCancel(context.Background())
	defer stopHub()
	go a.hub.Run(hubCtx)

	// Hijacked websocket connections are not tracked by Shutdown; they end
	// when their request context is cancelled.
	connCtx, closeConns := context.WithCancel(context.Background())
	defer closeConns()
	a.server.BaseContext = func(net.Listener) context.Context { return connCtx }
	a.server.RegisterOnShutdown(closeConns)

	go func() {
		a.log.Info().Str("addr", a.server.Addr).Msg("http server listening")
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, stdhttp.ErrServerClosed) {
			serverErr <- err
			return
		}
		serverErr <- nil
	}()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.shutdownTimeout)
		defer cancel()

		a.log.Info().Msg("shutting down http server")
		if err := a.server.Shutdown(shutdownCtx); err != nil {
			a.log.Warn().Err(err).Msg("graceful shutdown incomplete")
			_ = a.server.Close()
		}
		return <-serverErr
	}
}
