package stub

import (
	"context"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

// Server manages the stub backend's HTTP lifecycle.
type Server struct {
	echo   *echo.Echo
	addr   string
	logger *zap.Logger
}

// NewServer creates an echo server with the contract routes mounted.
func NewServer(addr string, h *Handler, logger *zap.Logger) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())
	h.Register(e)

	return &Server{echo: e, addr: addr, logger: logger}
}

// Echo exposes the underlying handler, mainly so tests can mount it on an
// httptest server.
func (s *Server) Echo() *echo.Echo { return s.echo }

// Start begins serving requests. Blocks until stopped.
func (s *Server) Start() error {
	s.logger.Info("stub backend starting", zap.String("addr", s.addr))
	err := s.echo.Start(s.addr)
	if err == http.ErrServerClosed {
		return nil
	}
	if err != nil {
		return fmt.Errorf("serve: %w", err)
	}
	return nil
}

// Stop performs a graceful shutdown.
func (s *Server) Stop(ctx context.Context) {
	s.logger.Info("stub backend stopping")
	if err := s.echo.Shutdown(ctx); err != nil {
		s.logger.Warn("shutdown error", zap.Error(err))
	}
}
