// Package inspect implements the optional HTTP debug/inspection server:
// a read-only Gin API (plus embedded static UI and Swagger docs) over a
// single decoded capture held in memory. It exists for interactively
// poking at a capture while developing against the codec; it is never
// required for Decode/Encode to function.
package inspect

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jroosing/cdns/internal/cdns"
	"github.com/jroosing/cdns/internal/config"
	"github.com/jroosing/cdns/internal/inspect/handlers"
	"github.com/jroosing/cdns/internal/inspect/middleware"
)

// Server is the inspection HTTP server.
type Server struct {
	cfg        *config.Config
	logger     *slog.Logger
	engine     *gin.Engine
	handler    *handlers.Handler
	httpServer *http.Server
}

// New builds a Server from cfg. cfg.Inspect.Enabled is the caller's
// responsibility to check; New always builds a usable server.
func New(cfg *config.Config, logger *slog.Logger) *Server {
	if cfg == nil {
		panic("inspect.New: cfg is nil")
	}

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(middleware.SlogRequestLogger(logger))

	h := handlers.New(logger)
	registerRoutes(engine, h, cfg)
	mountUI(engine, logger)

	addr := net.JoinHostPort(cfg.Inspect.Host, strconv.Itoa(cfg.Inspect.Port))
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           engine,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	return &Server{cfg: cfg, logger: logger, engine: engine, handler: h, httpServer: httpServer}
}

// LoadFile makes file (read from path) the capture served by the API.
func (s *Server) LoadFile(path string, file *cdns.File) {
	s.handler.SetFile(path, file)
}

func (s *Server) Addr() string {
	if s.httpServer == nil {
		return ""
	}
	return s.httpServer.Addr
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) ListenAndServe() error {
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
