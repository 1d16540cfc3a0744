package commands

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"fintrack/internal/core"
	"fintrack/internal/seed"
	"fintrack/internal/transfer"
)

func newAddCommand(a *app) *cobra.Command {
	var form core.TransactionForm

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a transaction",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tx, err := core.ValidateForm(form, a.now())
			if err != nil {
				return describeValidation(err)
			}

			store, closeStore, err := a.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer closeStore()

			added, err := store.Add(cmd.Context(), tx)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Added %s %s %s (id %d)\n", added.Type, added.Name, added.Amount, added.ID)
			return err
		},
	}

	f := cmd.Flags()
	f.StringVar(&form.Name, "name", "", "transaction name (required)")
	f.StringVar(&form.Type, "type", string(core.Expense), "income or expense")
	f.StringVar(&form.Date, "date", "", "date YYYY-MM-DD (required)")
	f.StringVar(&form.Time, "time", "", "time HH:MM, defaults to now")
	f.StringVar(&form.Category, "category", "", "category (required)")
	f.StringVar(&form.Amount, "amount", "", "amount with at most 2 decimals (required)")
	f.StringVar(&form.Card, "card", "", "MOMO, CARD or CASH (required)")
	f.StringVar(&form.Description, "description", "", "optional description")

	return cmd
}

// describeValidation flattens ValidationErrors into one line per field.
func describeValidation(err error) error {
	var verrs core.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	fields := verrs.Fields()
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)

	lines := make([]string, len(names))
	for i, name := range names {
		lines[i] = fmt.Sprintf("  %s: %s", name, fields[name])
	}
	return fmt.Errorf("invalid transaction:\n%s", strings.Join(lines, "\n"))
}

func newExportCommand(a *app) *cobra.Command {
	var format, out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export every transaction as JSON or CSV",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := transfer.ParseFormat(format)
			if err != nil {
				return err
			}

			store, closeStore, err := a.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer closeStore()

			if out == "" || out == "-" {
				return transfer.Write(cmd.OutOrStdout(), f, store.Snapshot())
			}

			file, err := os.Create(out)
			if err != nil {
				return fmt.Errorf("creating export file: %w", err)
			}
			if err := transfer.Write(file, f, store.Snapshot()); err != nil {
				file.Close()
				return err
			}
			if err := file.Close(); err != nil {
				return fmt.Errorf("closing export file: %w", err)
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Exported %d transactions to %s\n", store.Len(), out)
			return err
		},
	}

	cmd.Flags().StringVar(&format, "format", string(transfer.FormatJSON), "json or csv")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file, stdout when empty")

	return cmd
}

func newImportCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE",
		Short: "Replace every transaction with a JSON export (- reads stdin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var r io.Reader = cmd.InOrStdin()
			if args[0] != "-" {
				file, err := os.Open(args[0])
				if err != nil {
					return fmt.Errorf("opening import file: %w", err)
				}
				defer file.Close()
				r = file
			}

			// Parse before opening the store so a bad file changes nothing.
			txs, err := transfer.ReadJSON(r)
			if err != nil {
				return err
			}

			store, closeStore, err := a.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer closeStore()

			if err := store.Replace(cmd.Context(), txs); err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Imported %d transactions\n", len(txs))
			return err
		},
	}
}

func newSeedCommand(a *app) *cobra.Command {
	var source string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Replace every transaction with the demo data",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if source == "" {
				source = a.cfg.SeedSource
			}
			txs, err := seed.New(source).Fetch(cmd.Context())
			if err != nil {
				return err
			}

			store, closeStore, err := a.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer closeStore()

			if err := store.Replace(cmd.Context(), txs); err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Loaded %d demo transactions\n", len(txs))
			return err
		},
	}

	cmd.Flags().StringVar(&source, "source", "", "file path or http(s) URL, defaults to SEED_SOURCE")

	return cmd
}

func newResetCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Delete every transaction",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, closeStore, err := a.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer closeStore()

			if err := store.Clear(cmd.Context()); err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), "All transactions cleared")
			return err
		},
	}
}
