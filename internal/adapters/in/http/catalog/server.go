package catalog

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/logilab/onyxia-composer/internal/adapters/in/http/middleware"
	"github.com/logilab/onyxia-composer/internal/boundaries/in"
	"github.com/logilab/onyxia-composer/internal/boundaries/out"
)

const (
	defaultMaxBody  = 1 << 20
	shutdownTimeout = 10 * time.Second
)

// Options configures a Server.
type Options struct {
	Namespace      string
	GlobalLimiter  out.RateLimiter
	IPLimiter      out.RateLimiter
	TrustedProxies []string
	// MaxBodyBytes caps request bodies; zero means 1MB.
	MaxBodyBytes int64
	Logger       *log.Logger
}

// Server is the reference registry.
type Server struct {
	echo      *echo.Echo
	namespace string
	log       *log.Logger
}

// NewServer builds the echo instance and mounts the handler under /<namespace>.
func NewServer(svc in.CatalogService, opts Options) *Server {
	l := opts.Logger
	if l == nil {
		l = log.Default()
	}
	namespace := strings.Trim(opts.Namespace, "/")
	maxBody := opts.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = defaultMaxBody
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	nets, invalid := middleware.ParseTrustedProxies(opts.TrustedProxies)
	for _, entry := range invalid {
		l.Warn("ignoring invalid trusted proxy", "entry", entry)
	}
	e.IPExtractor = middleware.IPExtractor(nets)

	e.Use(
		middleware.RequestID(),
		middleware.RequestLogger(l),
		echomw.Recover(),
		middleware.SecurityHeaders(),
		middleware.BodyLimit(maxBody),
		middleware.RateLimit(opts.GlobalLimiter, opts.IPLimiter),
	)

	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	g := e.Group("/" + namespace)
	NewHandler(svc, l).Register(g)

	return &Server{echo: e, namespace: namespace, log: l}
}

// ServeHTTP lets the server be driven by httptest.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.echo.ServeHTTP(w, r)
}

// Run listens on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	errCh := make(chan error, 1)
	go func() {
		s.log.Info("registry listening", "addr", addr, "namespace", "/"+s.namespace)
		if err := s.echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("registry server: %w", err)
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	s.log.Info("shutting down registry")
	if err := s.echo.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("registry shutdown: %w", err)
	}
	return nil
}
