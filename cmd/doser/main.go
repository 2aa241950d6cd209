package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"doser/internal/bootstrap"
	"doser/internal/platform/config"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type rootFlags struct {
	envFile  string
	methods  string
	logFile  string
	logLevel string
	interval time.Duration
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	root := &cobra.Command{
		Use:           "doser",
		Short:         "Track dose phases in the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&flags.envFile, "env", ".env", "dotenv file with DOSER_* settings")
	root.PersistentFlags().StringVar(&flags.methods, "methods", "", "YAML file with extra ingestion methods")
	root.PersistentFlags().StringVar(&flags.logFile, "log-file", "", "log file path, - to discard logs")
	root.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "log level: debug|info|warn|error")
	root.PersistentFlags().DurationVar(&flags.interval, "interval", 0, "poll interval (default 300ms)")

	root.AddCommand(newTUICmd(flags))
	root.AddCommand(newWatchCmd(flags))
	root.AddCommand(newStatusCmd(flags))
	root.AddCommand(newMethodsCmd(flags))
	return root
}

func loadApp(flags *rootFlags) (*bootstrap.App, error) {
	cfg, err := config.Load(flags.envFile, config.Overrides{
		MethodsFile:  flags.methods,
		LogFile:      flags.logFile,
		LogLevel:     flags.logLevel,
		PollInterval: flags.interval,
	})
	if err != nil {
		return nil, err
	}
	return bootstrap.New(cfg)
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func newTUICmd(flags *rootFlags) *cobra.Command {
	var demo bool
	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Run the interactive dose table",
		RunE: func(_ *cobra.Command, _ []string) error {
			app, err := loadApp(flags)
			if err != nil {
				return err
			}
			defer func() { _ = app.Close() }()

			ctx, cancel := signalContext()
			defer cancel()
			if demo {
				if err := app.SeedDemo(ctx); err != nil {
					return err
				}
			}
			return bootstrap.RunTUI(ctx, app)
		},
	}
	cmd.Flags().BoolVar(&demo, "demo", false, "start with one fresh and ten expired test doses")
	return cmd
}

func newWatchCmd(flags *rootFlags) *cobra.Command {
	var method, strain string
	var ago time.Duration
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Add a dose and print its phase every poll until it expires",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(flags)
			if err != nil {
				return err
			}
			defer func() { _ = app.Close() }()

			ctx, cancel := signalContext()
			defer cancel()
			if _, err := app.DoseCLI.Add(ctx, strain, method, ago); err != nil {
				return err
			}
			return bootstrap.RunWatch(ctx, app, cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVar(&method, "method", "", "ingestion method key")
	cmd.Flags().StringVar(&strain, "strain", "", "strain name")
	cmd.Flags().DurationVar(&ago, "ago", 0, "how long ago the dose was taken")
	_ = cmd.MarkFlagRequired("method")
	_ = cmd.MarkFlagRequired("strain")
	return cmd
}

func newStatusCmd(flags *rootFlags) *cobra.Command {
	var method, strain string
	var ago time.Duration
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the phase of a dose taken some time ago",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(flags)
			if err != nil {
				return err
			}
			defer func() { _ = app.Close() }()

			row, err := app.DoseCLI.Preview(context.Background(), strain, method, ago)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s (%s)\t%s\t%s\t%.0f%%\n",
				row.Strain, row.Method, row.StatusLabel, row.TimeLeft, row.Progress*100)
			return nil
		},
	}
	cmd.Flags().StringVar(&method, "method", "", "ingestion method key")
	cmd.Flags().StringVar(&strain, "strain", "", "strain name (defaults to the method name)")
	cmd.Flags().DurationVar(&ago, "ago", 0, "how long ago the dose was taken")
	_ = cmd.MarkFlagRequired("method")
	return cmd
}

func newMethodsCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "methods",
		Short: "List known ingestion methods",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(flags)
			if err != nil {
				return err
			}
			defer func() { _ = app.Close() }()

			methods, err := app.DoseCLI.Methods(context.Background())
			if err != nil {
				return err
			}
			for _, m := range methods {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\tonset=%s\tduration=%s\n", m.Key, m.Name, m.Onset, m.Duration)
			}
			return nil
		},
	}
}
