// Package cli implements the composer's cobra commands.
package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/logilab/onyxia-composer/internal/adapters/out/logreporter"
	"github.com/logilab/onyxia-composer/internal/adapters/out/registryhttp"
	"github.com/logilab/onyxia-composer/internal/boundaries/out"
	"github.com/logilab/onyxia-composer/internal/config"
	"github.com/logilab/onyxia-composer/internal/usecase/composer"
	"github.com/logilab/onyxia-composer/pkg/logger"
	"github.com/logilab/onyxia-composer/pkg/version"
)

// rootOptions carries the persistent flags and the configuration they resolve to.
type rootOptions struct {
	cfgFile     string
	envFile     string
	registryURL string
	namespace   string
	timeout     time.Duration
	logLevel    string

	cfg *config.Config

	// newRegistry is swapped in tests.
	newRegistry func(cfg *config.Config) out.Registry
}

// NewRootCmd creates the composer command tree.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{newRegistry: defaultRegistry}

	rootCmd := &cobra.Command{
		Use:   "composer",
		Short: "Publish Jupyter apps to an Onyxia service registry",
		Long: `composer describes a Jupyter/Voila app (name, version, notebook and
build source) and registers it with an Onyxia service registry.

It validates names and versions against the registry as you type, lists and
deletes published services, and can run a local reference registry.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       version.Version(),
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return opts.load(cmd)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&opts.cfgFile, "config", "c", "", "Path to config file")
	flags.StringVar(&opts.envFile, "env-file", "", "Path to a .env file")
	flags.StringVar(&opts.registryURL, "registry", "", "Registry base URL (overrides registry.url)")
	flags.StringVar(&opts.namespace, "namespace", "", "Registry path namespace (overrides registry.namespace)")
	flags.DurationVar(&opts.timeout, "timeout", 0, "Per-request timeout (overrides registry.timeout)")
	flags.StringVar(&opts.logLevel, "log-level", "", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(newComposeCmd(opts))
	rootCmd.AddCommand(newCreateCmd(opts))
	rootCmd.AddCommand(newCheckCmd(opts))
	rootCmd.AddCommand(newListCmd(opts))
	rootCmd.AddCommand(newDeleteCmd(opts))
	rootCmd.AddCommand(newCloneCmd(opts))
	rootCmd.AddCommand(newServeCmd(opts))
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

// load resolves configuration, then applies flag overrides.
func (o *rootOptions) load(cmd *cobra.Command) error {
	if err := config.Init(o.cfgFile, o.envFile); err != nil {
		return err
	}
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	if o.registryURL != "" {
		cfg.Registry.URL = o.registryURL
	}
	if o.namespace != "" {
		cfg.Registry.Namespace = o.namespace
	}
	if o.timeout > 0 {
		cfg.Registry.Timeout = o.timeout
	}
	if o.logLevel != "" {
		cfg.Log.Level = o.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	l := logger.GetLogger()
	l.SetLogLevel(cfg.Log.Level)
	l.ConfigureFromEnv()
	logger.Debug("configuration loaded", "command", cmd.Name(), "registry", cfg.Registry.URL)

	o.cfg = cfg
	return nil
}

func defaultRegistry(cfg *config.Config) out.Registry {
	return registryhttp.NewClient(cfg.Registry.URL,
		registryhttp.WithNamespace(cfg.Registry.Namespace),
		registryhttp.WithTimeout(cfg.Registry.Timeout),
	)
}

// composerParts wires a fresh session against the configured registry.
type composerParts struct {
	session    *composer.Session
	validator  *composer.Validator
	controller *composer.Controller
}

func (o *rootOptions) composer() composerParts {
	registry := o.newRegistry(o.cfg)
	session := composer.NewSession(logreporter.New(nil))
	return composerParts{
		session:    session,
		validator:  composer.NewValidator(session, registry),
		controller: composer.NewController(session, registry),
	}
}

// SetVersionInfo sets the version information reported by the CLI.
func SetVersionInfo(v, commit, date string) {
	version.Set(v, commit, date)
}
