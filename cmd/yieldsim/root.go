package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/warp/yield-engine/bootstrap"
	"github.com/warp/yield-engine/cli"
	"github.com/warp/yield-engine/config"
	"github.com/warp/yield-engine/logger"
)

type rootOptions struct {
	configPath string
	offline    bool
	dbPath     string
	verbose    bool

	// now is replaced in tests.
	now func() time.Time
}

// Execute is the main entry point called from main.go.
func Execute() {
	cmd := newRootCmd()
	if err := cmd.Execute(); err != nil {
		reportError(cmd.ErrOrStderr(), err)
		os.Exit(1)
	}
}

func reportError(w io.Writer, err error) {
	fmt.Fprintln(w, cli.RenderError(err.Error()))
}

func newRootCmd() *cobra.Command {
	return newRootCmdAt(time.Now)
}

// newRootCmdAt builds the command tree with a fixed clock for the default
// investment date.
func newRootCmdAt(now func() time.Time) *cobra.Command {
	opts := &rootOptions{now: now}

	cmd := &cobra.Command{
		Use:          "yieldsim",
		Short:        "CDI yield simulator",
		Long:         "Project a CDI-indexed investment over business days, skipping weekends and Brazilian holidays.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "yield.toml", "TOML config file")
	cmd.PersistentFlags().BoolVar(&opts.offline, "offline", false, "Use the computed calendar and the fixed daily rate")
	cmd.PersistentFlags().StringVar(&opts.dbPath, "db", "", "SQLite cache path (overrides config)")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Log provider activity to stderr")

	cmd.AddCommand(
		newSimulateCmd(opts),
		newHolidaysCmd(opts),
		newRateCmd(opts),
		newAnnualizeCmd(),
	)
	return cmd
}

// loadApp is the shared setup path used by every command that needs
// providers. The returned cleanup closes the store and the log file.
func (o *rootOptions) loadApp(errOut io.Writer) (*bootstrap.App, func(), error) {
	if err := config.LoadEnv(); err != nil {
		return nil, nil, err
	}
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, nil, err
	}
	if o.offline {
		cfg.Providers.Offline = true
	}
	if o.dbPath != "" {
		cfg.Server.DBPath = o.dbPath
	}

	logCfg := logger.Config{Level: "warn", Format: "text", Output: errOut}
	if o.verbose {
		logCfg.Level = "debug"
	}
	closeLog, err := logger.Setup(logCfg)
	if err != nil {
		return nil, nil, err
	}

	app, err := bootstrap.New(cfg, logger.L())
	if err != nil {
		_ = closeLog()
		return nil, nil, err
	}

	cleanup := func() {
		app.Close()
		_ = closeLog()
	}
	return app, cleanup, nil
}

func parseYear(arg string) (int, error) {
	var year int
	if _, err := fmt.Sscanf(arg, "%d", &year); err != nil || year < 1900 || year > 9999 {
		return 0, fmt.Errorf("%q is not a year", arg)
	}
	return year, nil
}
