package main

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/warp/yield-engine/api"
	"github.com/warp/yield-engine/cli"
	"github.com/warp/yield-engine/generic"
)

type simulateOptions struct {
	principal string
	start     string
	days      int
	maxRows   int
	noChart   bool
	json      bool
}

func newSimulateCmd(root *rootOptions) *cobra.Command {
	opts := &simulateOptions{}

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Project an investment over business days",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSimulate(cmd, root, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.principal, "principal", "p", "", `Amount invested, e.g. "R$ 1.000,00"`)
	cmd.Flags().StringVarP(&opts.start, "start", "s", "", "Investment date YYYY-MM-DD (default today)")
	cmd.Flags().IntVarP(&opts.days, "days", "n", 0, "Business days to project")
	cmd.Flags().IntVar(&opts.maxRows, "max-rows", 30, "Daily rows to print (0 prints all)")
	cmd.Flags().BoolVar(&opts.noChart, "no-chart", false, "Hide the balance sparkline")
	cmd.Flags().BoolVar(&opts.json, "json", false, "Print the result as JSON")
	_ = cmd.MarkFlagRequired("principal")
	_ = cmd.MarkFlagRequired("days")

	return cmd
}

func runSimulate(cmd *cobra.Command, root *rootOptions, opts *simulateOptions) error {
	principal, err := cli.ParseBRL(opts.principal)
	if err != nil {
		return err
	}

	start := generic.DateOf(root.now())
	if opts.start != "" {
		start, err = generic.ParseDate(opts.start)
		if err != nil {
			return err
		}
	}

	app, cleanup, err := root.loadApp(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer cleanup()

	if limit := app.Config.Server.MaxBusinessDays; opts.days > limit {
		return &generic.InputError{Field: "days", Reason: fmt.Sprintf("must be at most %d", limit)}
	}

	result, err := app.Simulator.Simulate(cmd.Context(), generic.SimulationInput{
		Principal:          principal,
		StartDate:          start,
		TargetBusinessDays: opts.days,
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if opts.json {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(api.NewSimulationDTO(uuid.NewString(), result, root.now().UTC().Truncate(time.Second)))
	}

	fmt.Fprintln(out)
	fmt.Fprint(out, cli.RenderSimulation(result, cli.SimulationView{
		MaxRows:   opts.maxRows,
		HideChart: opts.noChart,
	}))
	return nil
}
