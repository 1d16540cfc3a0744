package commands

import (
	"fmt"
	"io"
	"net/url"
	"slices"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"fintrack/internal/aggregate"
	"fintrack/internal/core"
	"fintrack/internal/dashboard"
)

func newSummaryCommand(a *app) *cobra.Command {
	var rangeLabel, breakdown string

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Print totals, the monthly cashflow and the category breakdown",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(dashboard.Ranges, rangeLabel) {
				return fmt.Errorf("invalid range %q: must be one of %s", rangeLabel, strings.Join(dashboard.Ranges, ", "))
			}
			txType, ok := core.ParseTxType(breakdown)
			if !ok {
				return fmt.Errorf("invalid breakdown %q: %w", breakdown, core.ErrInvalidType)
			}

			store, closeStore, err := a.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer closeStore()

			view := dashboard.Build(store.Snapshot(), dashboard.State{
				BreakdownType:  txType,
				CashflowRange:  rangeLabel,
				BreakdownRange: rangeLabel,
			}, a.now())
			return writeSummary(cmd.OutOrStdout(), view)
		},
	}

	cmd.Flags().StringVar(&rangeLabel, "range", aggregate.OneYear, `chart range: "3 months", "6 months" or "1 year"`)
	cmd.Flags().StringVar(&breakdown, "breakdown", string(core.Income), "breakdown type: income or expense")

	return cmd
}

func writeSummary(out io.Writer, view dashboard.View) error {
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintf(tw, "Income\t%s\t%.1f%%\t\n", view.Summary.Income, view.IncomeShare)
	fmt.Fprintf(tw, "Expense\t%s\t%.1f%%\t\n", view.Summary.Expense, view.ExpenseShare)
	fmt.Fprintf(tw, "Balance\t%s\t\t\n", view.Summary.Balance)
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(out, "\nCashflow (%s)\n", view.Cashflow.Range)
	tw = tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "MONTH\tINCOME\tEXPENSE\t")
	for i, label := range view.Cashflow.Labels {
		fmt.Fprintf(tw, "%s\t%.2f\t%.2f\t\n", label, view.Cashflow.Income[i], view.Cashflow.Expense[i])
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(out, "\n%s by category (%s)\n", titleCase(string(view.Breakdown.Type)), view.Breakdown.Range)
	if len(view.Breakdown.Labels) == 0 {
		fmt.Fprintln(out, "no transactions")
		return nil
	}
	tw = tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "CATEGORY\tAMOUNT\tCOUNT")
	for i, label := range view.Breakdown.Labels {
		fmt.Fprintf(tw, "%s\t%.2f\t%d\n", label, view.Breakdown.Values[i], view.Breakdown.Counts[i])
	}
	return tw.Flush()
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func newListCommand(a *app) *cobra.Command {
	var search, txType, date, category, minAmount, card string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List transactions matching the filters, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, closeStore, err := a.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer closeStore()

			criteria := aggregate.ParseCriteria(url.Values{
				"search":    {search},
				"type":      {txType},
				"date":      {date},
				"category":  {category},
				"minAmount": {minAmount},
				"card":      {card},
			})
			txs := store.Snapshot()
			return writeRows(cmd.OutOrStdout(), aggregate.Filter(criteria, txs), len(txs))
		},
	}

	cmd.Flags().StringVar(&search, "search", "", "case-insensitive name substring")
	cmd.Flags().StringVar(&txType, "type", aggregate.Wildcard, "income, expense or All")
	cmd.Flags().StringVar(&date, "date", "", "exact date YYYY-MM-DD")
	cmd.Flags().StringVar(&category, "category", aggregate.Wildcard, "exact category or All")
	cmd.Flags().StringVar(&minAmount, "min-amount", "", "minimum amount")
	cmd.Flags().StringVar(&card, "card", aggregate.Wildcard, "exact card or All")

	return cmd
}

func writeRows(out io.Writer, rows []core.Transaction, total int) error {
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tDATE\tTIME\tNAME\tCATEGORY\tCARD\tTYPE\tAMOUNT")
	for _, tx := range rows {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			tx.ID, tx.Date, tx.Time, tx.Name, tx.Category, tx.Card, tx.Type, tx.Amount)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(out, "%d of %d transactions\n", len(rows), total)
	return err
}
