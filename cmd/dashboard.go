package cmd

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/ignitionstack/fnctl/cmd/function"
	"github.com/ignitionstack/fnctl/internal/config"
	"github.com/ignitionstack/fnctl/internal/services"
	"github.com/ignitionstack/fnctl/internal/ui"
	"github.com/ignitionstack/fnctl/internal/ui/operations"
	"github.com/ignitionstack/fnctl/pkg/metrics"
	"github.com/ignitionstack/fnctl/pkg/types"
	"github.com/spf13/cobra"
)

const barWidth = 40

type dashboardOptions struct {
	runtime string
	success string
	showLog bool
	limit   int
}

func NewDashboardCommand() *cobra.Command {
	var opts dashboardOptions

	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Show function performance",
		Long: `Show the function catalog together with a summary of the execution history:
total executions, executions per runtime, successes and failures, and the
average duration.

The execution history is fetched once per invocation. When the backend is
unreachable the last fetched history is shown and marked as stale.`,
		Example: `  fnctl dashboard
  fnctl dashboard --runtime python --success false --log`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			query, err := opts.query()
			if err != nil {
				return err
			}

			c, err := getContainer()
			if err != nil {
				return err
			}
			dashboard, err := c.GetDashboardController()
			if err != nil {
				return err
			}

			if !config.Plain {
				ui.PrintLogo()
			}

			loadErrs := loadDashboard(cmd.Context(), dashboard)

			view := dashboard.View()
			if len(loadErrs) == 2 && len(view.Metrics) == 0 && len(view.Functions) == 0 {
				return fmt.Errorf("could not load the dashboard: %w", loadErrs[0])
			}
			for _, err := range loadErrs {
				ui.PrintWarning(err.Error())
			}

			if !query.IsZero() {
				view.Metrics = metrics.Filter(view.Metrics, query)
				view.Summary = metrics.Aggregate(view.Metrics)
			}

			if config.Plain {
				renderDashboardPlain(view, opts)
			} else {
				renderDashboard(view, opts)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.runtime, "runtime", "", "Only count executions of this runtime")
	cmd.Flags().StringVar(&opts.success, "success", "", "Only count successful (true) or failed (false) executions")
	cmd.Flags().BoolVar(&opts.showLog, "log", false, "Show the execution log")
	cmd.Flags().IntVar(&opts.limit, "limit", 20, "Number of log entries to show with --log (0 for all)")
	return cmd
}

func (o dashboardOptions) query() (types.MetricsQuery, error) {
	query := types.MetricsQuery{Runtime: o.runtime}
	if o.success != "" {
		success, err := strconv.ParseBool(o.success)
		if err != nil {
			return query, fmt.Errorf("invalid --success value %q: expected true or false", o.success)
		}
		query.Success = &success
	}
	return query, nil
}

// loadDashboard loads the catalog and the one metrics snapshot. Failures
// are returned for display; whatever loaded is still shown.
func loadDashboard(ctx context.Context, dashboard *services.DashboardController) []error {
	var errs []error

	_ = operations.WithSpinner("Loading dashboard...", func() (interface{}, error) {
		registry := dashboard.Registry()
		if err := registry.Load(ctx); err != nil {
			if registry.Restore() {
				err = fmt.Errorf("%w (showing cached catalog)", err)
			}
			errs = append(errs, err)
		}
		if err := dashboard.Init(ctx); err != nil {
			errs = append(errs, err)
		}
		return nil, nil
	}, nil)

	return errs
}

func renderDashboard(view services.DashboardView, opts dashboardOptions) {
	summary := view.Summary

	ui.PrintSection("Summary")
	if !view.FetchedAt.IsZero() {
		fetched := view.FetchedAt.Local().Format("2006-01-02 15:04:05")
		if view.Stale {
			ui.PrintWarning("Metrics are from a cached snapshot taken " + fetched)
		} else {
			ui.PrintInfo("Fetched", fetched)
		}
	}
	ui.PrintInfo("Total executions", strconv.Itoa(summary.Total))
	ui.PrintInfo("Successful", fmt.Sprintf("%d (%.1f%%)", summary.SuccessCount, summary.SuccessRate))
	ui.PrintInfo("Failed", strconv.Itoa(summary.FailureCount))
	ui.PrintInfo("Average duration", metrics.FormatAverage(summary.AverageDuration)+"s")
	fmt.Fprintln(ui.Output, ui.RenderRatio(summary.SuccessCount, summary.FailureCount, barWidth))

	ui.PrintSection("Executions by runtime")
	if summary.Total == 0 {
		ui.PrintEmptyState("No executions recorded yet.")
	} else {
		items := make([]ui.BarItem, 0, len(summary.RuntimeCounts))
		for _, rc := range summary.RuntimeCounts {
			items = append(items, ui.BarItem{Label: rc.Runtime, Value: rc.Count})
		}
		fmt.Fprintln(ui.Output, ui.RenderBars(items, barWidth))
	}

	ui.PrintSection("Functions")
	function.RenderFunctions(view.Functions, false)

	if opts.showLog {
		ui.PrintSection("Execution log")
		if len(view.Metrics) == 0 {
			ui.PrintEmptyState("No executions recorded yet.")
			return
		}
		fmt.Fprint(ui.Output, ui.RenderTable(logTable(view.Metrics, opts.limit, true)))
	}
}

func renderDashboardPlain(view services.DashboardView, opts dashboardOptions) {
	summary := view.Summary

	fmt.Fprintf(ui.Output, "total\t%d\n", summary.Total)
	fmt.Fprintf(ui.Output, "success\t%d\n", summary.SuccessCount)
	fmt.Fprintf(ui.Output, "failure\t%d\n", summary.FailureCount)
	fmt.Fprintf(ui.Output, "average_duration\t%s\n", metrics.FormatAverage(summary.AverageDuration))
	for _, rc := range summary.RuntimeCounts {
		fmt.Fprintf(ui.Output, "runtime.%s\t%d\n", rc.Runtime, rc.Count)
	}
	fmt.Fprintf(ui.Output, "stale\t%t\n", view.Stale)

	function.RenderFunctions(view.Functions, true)

	if opts.showLog {
		fmt.Fprint(ui.Output, ui.RenderPlainTable(logTable(view.Metrics, opts.limit, false)))
	}
}

// logTable lists the last limit records in log order
func logTable(records []types.ExecutionMetric, limit int, styled bool) *ui.Table {
	if limit > 0 && len(records) > limit {
		records = records[len(records)-limit:]
	}

	table := ui.NewTable([]string{"TIME", "RUNTIME", "DURATION", "RESULT"})
	for _, record := range records {
		result := strconv.FormatBool(record.Success)
		if styled {
			result = ui.StyleSuccessValue(record.Success)
		}
		table.AddRow(
			metrics.FormatTimestamp(record.Timestamp, time.Local),
			record.Runtime,
			fmt.Sprintf("%.2fs", record.Duration),
			result,
		)
	}
	return table
}
