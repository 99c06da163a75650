package main

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/warp/yield-engine/cli"
	"github.com/warp/yield-engine/generic"
)

func newHolidaysCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "holidays <year>",
		Short: "List the holidays skipped in a year",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			year, err := parseYear(args[0])
			if err != nil {
				return err
			}

			app, cleanup, err := root.loadApp(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer cleanup()

			holidays, err := app.Holidays.Holidays(cmd.Context(), year)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out)
			if len(holidays) == 0 {
				fmt.Fprintln(out, cli.RenderWarning(fmt.Sprintf("Nenhum feriado em %d", year)))
				return nil
			}
			fmt.Fprint(out, cli.RenderHolidays(fmt.Sprintf("Feriados %d", year), holidays))
			return nil
		},
	}
}

func newRateCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "rate <year>",
		Short: "Show the daily rate used for a start year",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			year, err := parseYear(args[0])
			if err != nil {
				return err
			}

			app, cleanup, err := root.loadApp(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer cleanup()

			rate, err := app.Simulator.Rate(cmd.Context(), year)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout())
			fmt.Fprint(cmd.OutOrStdout(), renderRate(fmt.Sprintf("CDI %d", year), app.Source, rate))
			return nil
		},
	}
}

func newAnnualizeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "annualize <daily-rate>",
		Short: "Convert a daily rate into its annual equivalent",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rate, err := decimal.NewFromString(args[0])
			if err != nil {
				return &generic.InputError{Field: "daily-rate", Reason: fmt.Sprintf("%q is not a decimal number", args[0])}
			}
			if rate.IsNegative() {
				return &generic.InputError{Field: "daily-rate", Reason: "must not be negative"}
			}

			fmt.Fprintln(cmd.OutOrStdout())
			fmt.Fprint(cmd.OutOrStdout(), renderRate("TAXA", "", rate))
			return nil
		},
	}
}

func renderRate(title, source string, daily decimal.Decimal) string {
	pairs := [][2]string{
		{"Taxa diária", cli.FormatPercent(daily, 4)},
		{"Taxa anual (252 d.u.)", cli.FormatPercent(generic.Annualize(daily), 2)},
	}
	if source != "" {
		pairs = append(pairs, [2]string{"Fonte", source})
	}
	return cli.RenderTitle(title) + "\n\n" + cli.RenderKeyValues(pairs)
}
