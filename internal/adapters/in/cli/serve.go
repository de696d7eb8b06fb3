package cli

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	catalogapi "github.com/logilab/onyxia-composer/internal/adapters/in/http/catalog"
	"github.com/logilab/onyxia-composer/internal/adapters/out/gitcloner"
	"github.com/logilab/onyxia-composer/internal/adapters/out/ratelimit"
	"github.com/logilab/onyxia-composer/internal/adapters/out/sqlitecatalog"
	"github.com/logilab/onyxia-composer/internal/config"
	"github.com/logilab/onyxia-composer/internal/usecase/catalog"
	"github.com/logilab/onyxia-composer/pkg/logger"
)

const (
	// globalRateFactor sizes the shared bucket relative to the per-IP one.
	globalRateFactor = 10
	limiterSweep     = time.Minute
	limiterIdle      = 10 * time.Minute
)

// newServeCmd creates the serve command.
func newServeCmd(root *rootOptions) *cobra.Command {
	var listen string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the reference service registry",
		Long: `Runs a registry implementing the composer endpoints under /<namespace>/.
Services are stored in a sqlite catalog and clone requests are checked out
into the configured work directory. Nothing is built or deployed.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := *root.cfg
			if listen != "" {
				cfg.Server.Listen = listen
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, &cfg)
		},
	}

	cmd.Flags().StringVarP(&listen, "listen", "l", "", "Listen address (overrides server.listen)")
	return cmd
}

func runServe(ctx context.Context, cfg *config.Config) error {
	log := logger.GetLogger().WithPrefix("registry")

	store, err := sqlitecatalog.Open(ctx, cfg.Server.Database)
	if err != nil {
		return fmt.Errorf("failed to open catalog: %w", err)
	}
	defer store.Close()

	svc := catalog.NewService(store, gitcloner.New(cfg.Server.Workdir))

	ipLimiter := ratelimit.NewMemoryStore(cfg.Server.RateLimit, 0)
	globalLimiter := ratelimit.NewMemoryStore(cfg.Server.RateLimit*globalRateFactor, 0)

	server := catalogapi.NewServer(svc, catalogapi.Options{
		Namespace:      cfg.Registry.Namespace,
		GlobalLimiter:  globalLimiter,
		IPLimiter:      ipLimiter,
		TrustedProxies: cfg.Server.TrustedProxies,
		MaxBodyBytes:   cfg.Server.MaxBodyBytes,
		Logger:         log,
	})

	log.Info("catalog opened", "database", cfg.Server.Database, "workdir", cfg.Server.Workdir)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return server.Run(gctx, cfg.Server.Listen)
	})
	g.Go(func() error {
		ipLimiter.Run(gctx, limiterSweep, limiterIdle)
		return nil
	})
	return g.Wait()
}
