// Package health serves the liveness endpoint polled by the hosting
// platform. It shares nothing with the bot.
package health

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"go.uber.org/fx"

	"github.com/j0lvera/kickoff/internal/config"
)

// NewRouter returns an engine answering GET and HEAD / with message and
// nothing else. Uptime checkers often probe with HEAD.
func NewRouter(message string) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	alive := func(c *gin.Context) {
		c.String(http.StatusOK, message)
	}
	r.GET("/", alive)
	r.HEAD("/", alive)
	return r
}

// Server runs the router on its own goroutine.
type Server struct {
	srv    *http.Server
	addr   string
	logger zerolog.Logger
}

func NewServer(addr, message string, logger zerolog.Logger) *Server {
	return &Server{
		srv: &http.Server{
			Addr:              addr,
			Handler:           NewRouter(message),
			ReadHeaderTimeout: 5 * time.Second,
		},
		logger: logger,
	}
}

// Start binds the address and serves in the background. Bind errors are
// returned so startup fails.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.srv.Addr)
	if err != nil {
		return fmt.Errorf("health listen on %s: %w", s.srv.Addr, err)
	}

	s.addr = ln.Addr().String()
	s.logger.Info().Str("addr", s.addr).Msg("health endpoint listening")
	go func() {
		if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error().Err(err).Msg("health endpoint stopped")
		}
	}()
	return nil
}

// Addr is the bound address once started.
func (s *Server) Addr() string {
	return s.addr
}

func (s *Server) Stop(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

type Params struct {
	fx.In

	Config *config.Config
	Logger zerolog.Logger
}

func New(lc fx.Lifecycle, p Params) *Server {
	s := NewServer(p.Config.HealthAddr, p.Config.HealthMessage, p.Logger)

	lc.Append(
		fx.Hook{
			OnStart: func(ctx context.Context) error {
				return s.Start()
			},
			OnStop: func(ctx context.Context) error {
				p.Logger.Info().Msg("stopping health endpoint")
				return s.Stop(ctx)
			},
		},
	)

	return s
}

func Module() fx.Option {
	return fx.Module(
		"health",
		fx.Provide(
			New,
		),
		fx.Invoke(
			func(*Server) {},
		),
	)
}
