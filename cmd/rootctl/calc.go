package main

import (
	"fmt"
	"io"

	"github.com/aman-churiwal/root-panel/internal/shooting"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func calcCmd() *cobra.Command {
	var p shooting.Params

	cmd := &cobra.Command{
		Use:   "calc",
		Short: "Compute the daily shots of a burst/rest cycle without calling the API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			printPreview(cmd.OutOrStdout(), p)
			return nil
		},
	}

	cmd.Flags().IntVar(&p.NumberShots, "shots", 1, "shots per burst")
	cmd.Flags().Float64Var(&p.TimeBetweenShots, "between", 0, "seconds between shots in a burst")
	cmd.Flags().Float64Var(&p.TimeRest, "rest", 0, "seconds of rest after each burst")

	return cmd
}

func printPreview(w io.Writer, p shooting.Params) {
	daily := shooting.DailyShots(p)

	_, _ = fmt.Fprintf(w, "cycle:  %gs\n", shooting.CycleTime(p))
	_, _ = fmt.Fprintf(w, "daily:  %s\n", color.CyanString("%d", daily))
	_, _ = fmt.Fprintf(w, "hourly: %.2f\n", shooting.HourlyAverage(daily))
}
