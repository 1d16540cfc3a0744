// Package commands implements the fintrack command line.
package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"fintrack/internal/amqp"
	"fintrack/internal/backend"
	"fintrack/internal/buildinfo"
	"fintrack/internal/config"
	"fintrack/internal/ledger"
	"fintrack/internal/log"
)

// app is the state shared by every subcommand once the root has run.
type app struct {
	configPath string
	cfg        *config.Config
	logger     *log.Logger
	now        func() time.Time
}

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	return newRootCommand(time.Now)
}

func newRootCommand(now func() time.Time) *cobra.Command {
	a := &app{now: now}

	rootCmd := &cobra.Command{
		Use:     "fintrack",
		Short:   "Personal income and expense tracker",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", buildinfo.Version, buildinfo.Commit, buildinfo.Date),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}

	rootCmd.PersistentFlags().StringVar(&a.configPath, "config", "", "YAML file overlaying the environment")

	rootCmd.AddCommand(
		newServeCommand(a),
		newSummaryCommand(a),
		newListCommand(a),
		newAddCommand(a),
		newExportCommand(a),
		newImportCommand(a),
		newSeedCommand(a),
		newResetCommand(a),
		newWatchCommand(a),
	)

	return rootCmd
}

// setup loads .env, the configuration and the logger.
func (a *app) setup(cmd *cobra.Command) error {
	// .env is optional outside development.
	_ = godotenv.Load()

	var err error
	if a.configPath != "" {
		a.cfg, err = config.LoadFile(a.configPath)
		if err != nil {
			return err
		}
	} else {
		a.cfg = config.Load()
	}
	if err := a.cfg.Validate(); err != nil {
		return err
	}

	level, err := log.ParseLevel(a.cfg.LogLevel)
	if err != nil {
		return err
	}
	a.logger = log.New(log.Config{
		Level:     level,
		Format:    a.cfg.LogFormat,
		Component: log.ComponentCLI,
		Output:    cmd.ErrOrStderr(),
	})
	log.SetDefault(a.logger)
	return nil
}

// openStore creates the configured backend and loads the ledger from it.
// With an AMQP URL configured the store publishes its changes; a broker that
// cannot be reached only disables publishing.
func (a *app) openStore(ctx context.Context) (*ledger.Store, func(), error) {
	bcfg, err := backend.FromAppConfig(a.cfg)
	if err != nil {
		return nil, nil, err
	}
	res, err := backend.NewFactory(a.logger.WithComponent(log.ComponentBackend).Logger).CreateBackend(ctx, bcfg)
	if err != nil {
		return nil, nil, err
	}

	opts := []ledger.Option{
		ledger.WithKey(a.cfg.StorageKey),
		ledger.WithLogger(a.logger),
		ledger.WithClock(a.now),
	}

	var client *amqp.Client
	if a.cfg.AMQPURL != "" {
		client, err = amqp.NewClient(a.cfg.AMQPURL, a.cfg.AMQPExchange, a.cfg.AMQPQueue)
		if err != nil {
			a.logger.WarnContext(ctx, "AMQP unavailable, change notifications disabled", log.FieldError, err)
		} else {
			opts = append(opts, ledger.WithNotifier(client))
		}
	}

	store := ledger.Open(ctx, res.Store, opts...)
	closeFn := func() {
		if client != nil {
			if err := client.Close(); err != nil {
				a.logger.Warn("Failed to close AMQP client", log.FieldError, err)
			}
		}
		if err := res.Cleanup(); err != nil {
			a.logger.Warn("Failed to close storage", log.FieldError, err)
		}
	}
	return store, closeFn, nil
}
