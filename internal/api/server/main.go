package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/bz888/saturday/internal/api/server/client"
	"github.com/bz888/saturday/internal/api/server/handlers"
	"github.com/bz888/saturday/internal/config"
	"github.com/bz888/saturday/internal/logger"
)

const shutdownTimeout = 5 * time.Second

type Server struct {
	httpServer *http.Server
	log        *logger.Logger
}

// New wires the relay for cfg. ollama may be nil, in which case a client for
// cfg.Ollama.Host is created.
func New(cfg *config.Config, ollama client.OllamaClientInterface) (*Server, error) {
	if ollama == nil {
		c, err := client.NewOllamaClient(cfg.Ollama.Host)
		if err != nil {
			return nil, fmt.Errorf("ollama client: %w", err)
		}
		ollama = c
	}

	mux := http.NewServeMux()
	registerRoutes(mux, handlers.NewHandler(ollama, cfg.Ollama.Model))

	return &Server{
		httpServer: &http.Server{
			Addr:              cfg.Relay.Addr,
			Handler:           mux,
			ReadHeaderTimeout: 10 * time.Second,
		},
		log: logger.NewLogger("Server"),
	}, nil
}

// Handler exposes the routed handler, mostly for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Run listens on the configured address and serves until ctx ends, then
// shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.httpServer.Addr, err)
	}
	return s.Serve(ctx, ln)
}

func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	s.log.Info("Server started on http://", ln.Addr().String(), "/")

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.httpServer.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		s.log.Info("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	}
}
