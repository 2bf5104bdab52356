package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/iho/ledgerdash/internal/adapter/repository/memory"
	"github.com/iho/ledgerdash/internal/adapter/spreadsheet"
	"github.com/iho/ledgerdash/internal/domain"
	"github.com/iho/ledgerdash/internal/infrastructure/config"
	"github.com/iho/ledgerdash/internal/presenter"
	"github.com/iho/ledgerdash/internal/usecase"
)

const cliSession = "cli"

// options are the flags shared by every command.
type options struct {
	profile string
	chart   string
	start   string
	end     string
	group   string
	account string
	asJSON  bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:           "ledgerdash",
		Short:         "Ledger dashboard CLI tool",
		Long:          `Runs the ledger dashboard pipeline against a local spreadsheet.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.profile, "profile", "", "Dashboard profile YAML (aliases and named accounts)")
	flags.StringVar(&opts.chart, "chart", "", "Chart of accounts file joined by account code")
	flags.StringVar(&opts.start, "start", "", "Start date (YYYY-MM-DD or DD/MM/YYYY)")
	flags.StringVar(&opts.end, "end", "", "End date (YYYY-MM-DD or DD/MM/YYYY)")
	flags.StringVar(&opts.group, "group", "", "Account group")
	flags.StringVar(&opts.account, "q", "", "Account name substring")
	flags.BoolVar(&opts.asJSON, "json", false, "Print JSON instead of tables")

	rootCmd.AddCommand(summaryCmd(opts), exportCmd(opts), checkCmd(opts))
	return rootCmd
}

func summaryCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "summary <file>",
		Short: "Print the dashboard metrics and pivot of a ledger",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			uc, filter, err := load(ctx, opts, args[0])
			if err != nil {
				return err
			}

			dashboard, err := uc.Dashboard(ctx, cliSession, filter)
			if err != nil {
				return err
			}
			pivot, err := uc.Pivot(ctx, cliSession, filter, true)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if opts.asJSON {
				return printJSON(out, map[string]any{"dashboard": dashboard, "pivot": pivot})
			}
			printSummary(out, dashboard, pivot)
			return nil
		},
	}
}

func exportCmd(opts *options) *cobra.Command {
	var output string
	var grandTotal bool

	cmd := &cobra.Command{
		Use:   "export <file>",
		Short: "Write the pivot of a ledger as CSV or XLSX",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			format, err := presenter.ParseExportFormat(strings.TrimPrefix(filepath.Ext(output), "."))
			if err != nil {
				return err
			}

			uc, filter, err := load(ctx, opts, args[0])
			if err != nil {
				return err
			}

			result, err := uc.Export(ctx, cliSession, usecase.ExportInput{
				Filter:         filter,
				Format:         format,
				WithGrandTotal: grandTotal,
			})
			if err != nil {
				return err
			}

			if err := os.WriteFile(output, result.Data, 0o644); err != nil {
				return fmt.Errorf("failed to write %s: %w", output, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d bytes)\n", output, len(result.Data))
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "pivot.csv", "Output file (.csv or .xlsx)")
	cmd.Flags().BoolVar(&grandTotal, "grand-total", true, "Append the Total Geral row")
	return cmd
}

func checkCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "check <file>",
		Short: "Verify that Saldo, pivot and waterfall totals agree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			uc, filter, err := load(ctx, opts, args[0])
			if err != nil {
				return err
			}

			report, err := uc.Check(ctx, cliSession, filter)
			out := cmd.OutOrStdout()
			if report != nil {
				if opts.asJSON {
					if perr := printJSON(out, report); perr != nil {
						return perr
					}
				} else {
					printConsistency(out, report)
				}
			}
			if err != nil {
				return fmt.Errorf("consistency check FAILED: %w", err)
			}

			fmt.Fprintln(out, "Consistency check PASSED")
			return nil
		},
	}
}

// load parses the ledger (and chart, when given) into an in-memory session.
func load(ctx context.Context, opts *options, path string) (*usecase.DashboardUseCase, domain.Filter, error) {
	filter, err := opts.filter()
	if err != nil {
		return nil, filter, err
	}

	profile, err := config.LoadProfile(opts.profile)
	if err != nil {
		return nil, filter, err
	}

	parser := spreadsheet.NewParser(spreadsheet.DefaultAliases().Merge(profile.Aliases))
	uc := usecase.NewDashboardUseCase(memory.NewSessionStore(time.Hour, nil), parser, profile.Accounts, nil)

	if opts.chart != "" {
		data, err := os.ReadFile(opts.chart)
		if err != nil {
			return nil, filter, fmt.Errorf("failed to read chart of accounts: %w", err)
		}
		if _, err := uc.UploadChartOfAccounts(ctx, usecase.UploadInput{SessionID: cliSession, FileName: filepath.Base(opts.chart), Data: data}); err != nil {
			return nil, filter, err
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, filter, fmt.Errorf("failed to read ledger: %w", err)
	}
	if _, err := uc.Upload(ctx, usecase.UploadInput{SessionID: cliSession, FileName: filepath.Base(path), Data: data}); err != nil {
		return nil, filter, err
	}

	return uc, filter, nil
}

func (o *options) filter() (domain.Filter, error) {
	f := domain.Filter{Group: o.group, Account: strings.TrimSpace(o.account)}

	var err error
	if f.Start, err = parseDate(o.start); err != nil {
		return f, err
	}
	if f.End, err = parseDate(o.end); err != nil {
		return f, err
	}
	return f, f.Validate()
}

func parseDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	for _, layout := range []string{time.DateOnly, "02/01/2006"} {
		if t, err := time.Parse(layout, s); err == nil {
			return &t, nil
		}
	}
	return nil, fmt.Errorf("%w: cannot parse date %q", domain.ErrInvalidFilter, s)
}

func printSummary(w io.Writer, d *presenter.Dashboard, p *domain.Pivot) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)

	for _, m := range d.Metrics {
		fmt.Fprintf(tw, "%s\t%s\t\n", truncate(m.Label, 40), m.Display)
	}
	fmt.Fprintln(tw)

	if p.Empty() {
		fmt.Fprintln(tw, "Sem dados")
		_ = tw.Flush()
		return
	}

	header := append(append([]string{"Conta Contábil"}, p.Months...), "Total")
	fmt.Fprintln(tw, strings.Join(header, "\t")+"\t")
	rows := p.Rows
	if p.GrandTotal != nil {
		rows = append(append([]domain.PivotRow(nil), rows...), *p.GrandTotal)
	}
	for _, r := range rows {
		cells := []string{truncate(r.Account, 40)}
		for _, v := range r.Values {
			cells = append(cells, presenter.FormatBRL(v))
		}
		cells = append(cells, presenter.FormatBRL(r.Total))
		fmt.Fprintln(tw, strings.Join(cells, "\t")+"\t")
	}
	_ = tw.Flush()
}

func printConsistency(w io.Writer, r *usecase.ConsistencyReport) {
	fmt.Fprintf(w, "Total:       %s\n", presenter.FormatBRL(r.Total))
	fmt.Fprintf(w, "Saldo:       %s\n", presenter.FormatBRL(r.Saldo))
	fmt.Fprintf(w, "Pivot total: %s\n", presenter.FormatBRL(r.PivotTotal))
	fmt.Fprintf(w, "Accounts:    %s\n", presenter.FormatBRL(r.Accounts))
	fmt.Fprintf(w, "Waterfall:   %s\n", presenter.FormatBRL(r.Waterfall))
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
