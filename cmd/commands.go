package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"momentumlab/internal/app"
	"momentumlab/internal/data"
	"momentumlab/internal/logger"
	"momentumlab/internal/report"
	"momentumlab/internal/robustness"
	"momentumlab/internal/util"

	"github.com/spf13/cobra"
)

func NewRootCommand() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "lab",
		Short:         "momentum, regime and vol-target backtests with a robustness battery",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", os.Getenv("LAB_CONFIG"), "path to yaml config")

	root.AddCommand(
		newRunCommand(&configPath),
		newRobustCommand(&configPath),
		newServeCommand(&configPath),
		newIngestCommand(),
	)
	return root
}

// Execute runs the root command and exits non-zero on failure
func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRunCommand(configPath *string) *cobra.Command {
	var (
		skipBattery bool
		output      string
	)
	c := &cobra.Command{
		Use:   "run",
		Short: "run the primary simulation and the full battery, then write the report",
		RunE: func(c *cobra.Command, args []string) error {
			return runLab(c.Context(), *configPath, output, app.RunInput{SkipBattery: skipBattery})
		},
	}
	c.Flags().BoolVar(&skipBattery, "skip-battery", false, "only run the primary simulation")
	c.Flags().StringVar(&output, "out", "", "report path, defaults to data.output_path")
	return c
}

func newRobustCommand(configPath *string) *cobra.Command {
	var (
		tests  string
		output string
	)
	c := &cobra.Command{
		Use:   "robust",
		Short: "run a subset of the robustness battery",
		RunE: func(c *cobra.Command, args []string) error {
			names := splitList(tests)
			if len(names) == 0 {
				return fmt.Errorf("--tests is required, one of: %s", strings.Join(robustness.TestNames(), ", "))
			}
			return runLab(c.Context(), *configPath, output, app.RunInput{Tests: names})
		},
	}
	c.Flags().StringVar(&tests, "tests", "", "comma separated test names")
	c.Flags().StringVar(&output, "out", "", "report path, defaults to data.output_path")
	return c
}

func newServeCommand(configPath *string) *cobra.Command {
	var port int
	c := &cobra.Command{
		Use:   "serve",
		Short: "serve the latest report over http",
		RunE: func(c *cobra.Command, args []string) error {
			deps, err := InitializeDependencies(*configPath)
			if err != nil {
				return err
			}
			if port != 0 {
				deps.Config.Server.Port = port
			}
			deps.Logger.Infof("listening on :%d", deps.Config.Server.Port)
			return deps.NewApiHandler().StartApi(deps.Config.Server.Port)
		},
	}
	c.Flags().IntVar(&port, "port", 0, "overrides server.port")
	return c
}

func newIngestCommand() *cobra.Command {
	var (
		symbols string
		start   string
		end     string
		out     string
		workers int
	)
	c := &cobra.Command{
		Use:   "ingest",
		Short: "download daily adjusted closes into a parquet file",
		RunE: func(c *cobra.Command, args []string) error {
			startDate, err := util.ParseDate(start)
			if err != nil {
				return fmt.Errorf("invalid --start: %w", err)
			}
			endDate := time.Now().UTC()
			if end != "" {
				endDate, err = util.ParseDate(end)
				if err != nil {
					return fmt.Errorf("invalid --end: %w", err)
				}
			}

			log := logger.New()
			ctx := logger.WithLogger(contextOrBackground(c.Context()), log)
			n, err := data.Ingest(ctx, data.FetchYahooPrices, data.IngestInput{
				Symbols:    splitList(symbols),
				Start:      startDate,
				End:        endDate,
				OutPath:    out,
				MaxWorkers: workers,
			})
			if err != nil {
				return err
			}
			log.Infof("wrote %d prices to %s", n, out)
			return nil
		},
	}
	c.Flags().StringVar(&symbols, "symbols", "", "comma separated symbols")
	c.Flags().StringVar(&start, "start", "2005-01-01", "first date, YYYY-MM-DD")
	c.Flags().StringVar(&end, "end", "", "last date, YYYY-MM-DD, defaults to today")
	c.Flags().StringVar(&out, "out", "prices.parquet", "parquet output path")
	c.Flags().IntVar(&workers, "workers", 4, "concurrent downloads")
	return c
}

func runLab(ctx context.Context, configPath, output string, in app.RunInput) error {
	deps, err := InitializeDependencies(configPath)
	if err != nil {
		return err
	}
	ctx = logger.WithLogger(contextOrBackground(ctx), deps.Logger)

	out, err := deps.LabHandler.Run(ctx, in)
	if err != nil {
		return err
	}

	if output == "" {
		output = deps.Config.Data.OutputPath
	}
	if output == "" {
		return util.Pprint(os.Stdout, out.Report)
	}
	if err := report.Write(output, out.Report); err != nil {
		return err
	}
	deps.Logger.Infof("wrote report to %s", output)

	if out.Battery != nil {
		for name, msg := range out.Battery.Errors {
			deps.Logger.Warnf("%s failed: %s", name, msg)
		}
	}
	return nil
}

func splitList(s string) []string {
	out := []string{}
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func contextOrBackground(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return ctx
}
