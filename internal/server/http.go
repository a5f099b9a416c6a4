package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/spotify-relay/internal/services"
	"github.com/desertthunder/spotify-relay/internal/shared"
)

const (
	// Port is the fixed listening port.
	Port = 8888

	shutdownTimeout = 5 * time.Second
)

// Server runs the relay's HTTP surface.
type Server struct {
	addr   string
	router *BasicRouter
	logger *log.Logger
}

// Opts contains the dependencies for creating a [Server].
type Opts struct {
	Config  *shared.Config
	Service services.OAuthService
	Logger  *log.Logger
}

// New creates a Server with /login and /callback registered behind the logging, recovery and
// CORS middleware.
func New(opts Opts) *Server {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}

	router := NewBasicRouter()
	router.Use(RequestLogger(opts.Logger), Recoverer(opts.Logger), CORS)
	router.Handler(NewLoginHandler(opts.Service))
	router.Handler(NewCallbackHandler(CallbackOpts{
		Service:     opts.Service,
		FrontendURI: opts.Config.Frontend.URI,
		RequireCode: opts.Config.Callback.RequireCode,
		Logger:      opts.Logger,
	}))

	return &Server{
		addr:   fmt.Sprintf(":%d", Port),
		router: router,
		logger: opts.Logger,
	}
}

// Handler returns the routed and wrapped [http.Handler].
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run listens on the fixed port and serves until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is cancelled, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	httpServer := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("server running", "addr", ln.Addr().String(), "routes", s.router.Routes())
		if err := httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrors <- err
		}
		close(serverErrors)
	}()

	select {
	case err := <-serverErrors:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("error shutting down server: %w", err)
	}

	s.logger.Info("server stopped")
	return nil
}
