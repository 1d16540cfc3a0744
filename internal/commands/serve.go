package commands

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	apphttp "fintrack/internal/http"
	"fintrack/internal/ledger"
	"fintrack/internal/log"
	"fintrack/internal/seed"
)

const shutdownTimeout = 30 * time.Second

func newServeCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the dashboard web server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return a.serve(ctx)
		},
	}
}

func (a *app) serve(ctx context.Context) error {
	store, closeStore, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	defer closeStore()

	src := seed.New(a.cfg.SeedSource)
	a.seedIfFresh(ctx, store, src)

	srv := apphttp.NewServer(apphttp.Config{
		Addr:               ":" + a.cfg.Port,
		RateLimitPerSecond: a.cfg.RateLimitPerSecond,
		RateLimitBurst:     a.cfg.RateLimitBurst,
		Logger:             a.logger,
		Clock:              a.now,
	}, store, src)

	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.logger.InfoContext(gctx, "Starting fintrack server",
			"port", a.cfg.Port, "backend", a.cfg.DataBackend, log.FieldCount, store.Len())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		a.logger.Info("Shutdown signal received", log.FieldOperation, log.OpShutdown)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			a.logger.Error("Server shutdown error", log.FieldError, err)
			return err
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}
	a.logger.Info("Server stopped gracefully")
	return nil
}

// seedIfFresh loads the demo data on a first start, when nothing has ever
// been stored. A store the user reset stays empty. A source that cannot be
// fetched leaves the store empty.
func (a *app) seedIfFresh(ctx context.Context, store *ledger.Store, src *seed.Source) {
	if !store.Fresh() {
		return
	}
	txs, err := src.LoadOrEmpty(ctx)
	if err != nil {
		a.logger.WarnContext(ctx, "Demo data unavailable, starting empty",
			log.FieldOperation, log.OpSeed, log.FieldSource, src.Location, log.FieldError, err)
	}
	if len(txs) == 0 {
		return
	}
	if err := store.Replace(ctx, txs); err != nil {
		a.logger.WarnContext(ctx, "Failed to store demo data", log.FieldOperation, log.OpSeed, log.FieldError, err)
		return
	}
	a.logger.InfoContext(ctx, "Demo data loaded", log.FieldOperation, log.OpSeed, log.FieldCount, len(txs))
}
