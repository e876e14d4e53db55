// Package server exposes a trained model over HTTP.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/haskel/pricefit/internal/config"
	"github.com/haskel/pricefit/internal/server/middleware"
)

type Server struct {
	httpServer *http.Server
	model      *Model
	creds      *middleware.Credentials
	logger     *slog.Logger
	version    string
}

func New(cfg *config.Config, model *Model, logger *slog.Logger, version string) *Server {
	s := &Server{
		model:   model,
		creds:   middleware.NewCredentials(cfg.Auth.Enabled, cfg.Auth.User, cfg.Auth.Password),
		logger:  logger,
		version: version,
	}

	handler := middleware.Chain(
		s.routes(),
		middleware.Recovery(logger),
		middleware.Logging(logger),
		middleware.SecurityHeaders(),
		middleware.MaxBody(cfg.Server.MaxBodyBytes),
		middleware.RateLimit(middleware.RateLimitConfig{
			Enabled:           cfg.Server.RateLimit.Enabled,
			RequestsPerSecond: cfg.Server.RateLimit.RequestsPerSecond,
			Burst:             cfg.Server.RateLimit.Burst,
			PerClient:         cfg.Server.RateLimit.PerClient,
		}),
		middleware.Auth(s.creds, "/health"),
	)

	s.httpServer = &http.Server{
		Addr:              net.JoinHostPort(cfg.Server.Host, fmt.Sprint(cfg.Server.Port)),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	return s
}

// Handler returns the full middleware chain.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Reload re-reads the weights and applies the runtime-changeable parts of
// cfg. Listen address changes need a restart.
func (s *Server) Reload(cfg *config.Config) ModelState {
	if cfg != nil {
		s.creds.Update(cfg.Auth.Enabled, cfg.Auth.User, cfg.Auth.Password)
	}
	return s.model.Reload()
}

func (s *Server) Start() error {
	s.logger.Info("server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("server shutting down")
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) Addr() string {
	return s.httpServer.Addr
}
