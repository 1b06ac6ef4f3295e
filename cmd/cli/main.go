package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"datalens/adapters/insight"
	"datalens/adapters/profiling"
	"datalens/adapters/tabular"
	"datalens/adapters/viz"
	"datalens/domain/table"
	"datalens/internal/testkit"
	"datalens/ports"

	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "datalens-cli",
		Short: "DataLens CLI for offline dataset profiling and insights",
	}

	rootCmd.AddCommand(
		newSampleCmd(),
		newProfileCmd(),
		newInsightsCmd(),
		newChartCmd(),
		newExportCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newSampleCmd() *cobra.Command {
	var rows int
	var seed int64

	cmd := &cobra.Command{
		Use:   "sample [out.csv]",
		Short: "Write a synthetic online-retail dataset to a CSV file",
		Long: `Generate a deterministic synthetic retail dataset and write it as CSV.

Example: datalens-cli sample retail.csv --rows 5000 --seed 42`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := testkit.DefaultRetailConfig()
			cfg.Rows = rows
			cfg.Seed = seed
			if err := testkit.NewRetailGenerator(cfg).WriteCSV(args[0]); err != nil {
				return err
			}
			fmt.Printf("Wrote %d rows to %s (seed %d)\n", rows, args[0], seed)
			return nil
		},
	}

	cmd.Flags().IntVar(&rows, "rows", 5000, "Number of rows to generate")
	cmd.Flags().Int64Var(&seed, "seed", 42, "Random seed for deterministic generation")

	return cmd
}

func newProfileCmd() *cobra.Command {
	var strategy string

	cmd := &cobra.Command{
		Use:   "profile [file]",
		Short: "Run profiling strategies against a CSV or Excel file",
		Long: `Run one or all profiling strategies and print the reports as JSON.

Example: datalens-cli profile sales.csv --strategy numeric_summary`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := loadTable(args[0])
			if err != nil {
				return err
			}

			engine := profiling.NewEngine()
			if strategy != "" {
				report, err := engine.Run(strategy, t)
				if err != nil {
					return err
				}
				return printJSON(map[string]any{"strategy": strategy, "report": report})
			}

			reports, err := engine.RunAll(t)
			if err != nil {
				return err
			}
			out := make([]map[string]any, len(reports))
			for i, r := range reports {
				out[i] = map[string]any{"strategy": r.Strategy(), "report": r}
			}
			return printJSON(map[string]any{"reports": out})
		},
	}

	cmd.Flags().StringVar(&strategy, "strategy", "", "Run a single strategy by name (default: all)")

	return cmd
}

func newInsightsCmd() *cobra.Command {
	var category, value string

	cmd := &cobra.Command{
		Use:   "insights [file]",
		Short: "Generate the insight Markdown for a dataset",
		Long: `Run every insight strategy and print the joined Markdown.

Example: datalens-cli insights sales.csv --category Region --value Sales`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := loadTable(args[0])
			if err != nil {
				return err
			}

			md, err := insight.NewEngine().RunAll(t, ports.InsightOptions{
				CategoryColumn: category,
				ValueColumn:    value,
			})
			if err != nil {
				return err
			}
			fmt.Println(md)
			return nil
		},
	}

	cmd.Flags().StringVar(&category, "category", "", "Category column (default: first categorical)")
	cmd.Flags().StringVar(&value, "value", "", "Value column (default: first numeric)")

	return cmd
}

func newChartCmd() *cobra.Command {
	var x, y, aggregation string

	cmd := &cobra.Command{
		Use:   "chart [file] [kind]",
		Short: "Print the data payload a chart kind would consume",
		Long: `Run one chart data selector and print its payload as JSON.

Kinds: time_series, distribution, category, correlation.

Example: datalens-cli chart sales.csv category --x Region --y Sales --aggregation sum`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := loadTable(args[0])
			if err != nil {
				return err
			}

			data, err := viz.NewEngine().Run(args[1], t, ports.ChartOptions{
				XColumn:     x,
				YColumn:     y,
				Aggregation: aggregation,
			})
			if err != nil {
				return err
			}
			return printJSON(map[string]any{"kind": args[1], "data": data})
		},
	}

	cmd.Flags().StringVar(&x, "x", "", "X column (default: first of the required kind)")
	cmd.Flags().StringVar(&y, "y", "", "Y column (default: first of the required kind)")
	cmd.Flags().StringVar(&aggregation, "aggregation", "", "Category aggregation: count, sum or mean")

	return cmd
}

func newExportCmd() *cobra.Command {
	var format, filter string

	cmd := &cobra.Command{
		Use:   "export [file] [out-dir]",
		Short: "Load a dataset, optionally filter it, and export the view",
		Long: `Load a dataset, apply an optional column:op:value filter, and write the
result into out-dir as a timestamped export file.

Example: datalens-cli export sales.csv ./exports --format xlsx --filter Country:equals:USA`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := loadTable(args[0])
			if err != nil {
				return err
			}

			if filter != "" {
				parts := strings.SplitN(filter, ":", 3)
				if len(parts) != 3 {
					return fmt.Errorf("invalid filter %q (want column:op:value)", filter)
				}
				op, err := table.ParseOp(parts[1])
				if err != nil {
					return err
				}
				if t, err = table.Filter(t, parts[0], op, parts[2]); err != nil {
					return err
				}
			}

			exporter := tabular.NewExporter()
			var path string
			switch strings.ToLower(format) {
			case "csv":
				path, err = exporter.ExportCSV(t, args[1])
			case "xlsx":
				path, err = exporter.ExportXLSX(t, args[1])
			default:
				return fmt.Errorf("unsupported export format %q (want csv or xlsx)", format)
			}
			if err != nil {
				return err
			}
			fmt.Printf("Wrote %d rows to %s\n", t.Len(), path)
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "csv", "Export format: csv or xlsx")
	cmd.Flags().StringVar(&filter, "filter", "", "Optional column:op:value row filter")

	return cmd
}

func loadTable(path string) (*table.Table, error) {
	return tabular.NewLoader().LoadFile(path)
}

func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}
