package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"startupcli/internal/app"
	"startupcli/internal/config"
	"startupcli/internal/infrastructure"
	"startupcli/internal/services"
	"startupcli/pkg/contracts"
)

// skipApp marks commands that run without loading the dataset.
const skipApp = "skip-app"

// cli holds the state shared by every subcommand of one invocation.
type cli struct {
	opts    app.Options
	json    bool
	regions []string

	ctx context.Context
	app *app.Application
}

func (c *cli) filter() services.Filter {
	return services.Filter{Regions: c.regions}
}

func (c *cli) printer(cmd *cobra.Command) printer {
	return printer{out: cmd.OutOrStdout(), json: c.json}
}

// run executes one command line. The application is closed even when the
// command fails so logs and metrics are flushed.
func run(ctx context.Context, args []string, out io.Writer) error {
	c := &cli{}
	root := newRootCmd(c)
	root.SetArgs(args)
	root.SetOut(out)

	err := root.ExecuteContext(ctx)
	if c.app != nil {
		if cerr := c.app.Close(); err == nil {
			err = cerr
		}
	}
	return err
}

func newRootCmd(c *cli) *cobra.Command {
	root := &cobra.Command{
		Use:           "startupcli",
		Short:         "Explore startup valuations by region, industry and investor",
		Version:       contracts.GetFullVersionString(),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Annotations[skipApp] != "" {
				return nil
			}
			c.ctx = infrastructure.EnsureRunID(cmd.Context())
			application, err := app.NewApplication(c.ctx, c.opts)
			if err != nil {
				return err
			}
			c.app = application
			c.app.Logger.DebugContext(c.ctx, "Command started", slog.String("command", cmd.CommandPath()))
			return nil
		},
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&c.opts.ConfigFile, "config", "c", "", "config file (default: ./startupcli.yaml or $STARTUP_CONFIG_FILE)")
	flags.StringVarP(&c.opts.DataFile, "data", "d", "", "startup dataset CSV (overrides data.file)")
	flags.StringVar(&c.opts.LogLevel, "log-level", "", "log level: debug, info, warn or error")
	flags.BoolVar(&c.json, "json", false, "print results as JSON")
	flags.StringSliceVarP(&c.regions, "region", "r", nil, "restrict to regions (repeatable; All and Other are accepted alone)")

	root.AddCommand(
		newSummaryCmd(c),
		newAggregateCmd(c),
		newTopCmd(c),
		newBinsCmd(c),
		newInvestorsCmd(c),
		newCompareCmd(c),
		newViewCmd(c),
		newChartsCmd(c),
		newExportCmd(c),
		newMapCmd(c),
		newVersionCmd(c),
	)

	return root
}

func newVersionCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:         "version",
		Short:       "Print version information",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{skipApp: "true"},
		RunE: func(cmd *cobra.Command, _ []string) error {
			if c.json {
				return c.printer(cmd).print(contracts.GetVersionInfo())
			}
			_, err := fmt.Fprintln(cmd.OutOrStdout(), config.AppName, contracts.GetFullVersionString())
			return err
		},
	}
}
