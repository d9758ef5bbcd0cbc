package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"pullrefresh/internal/trace"
)

func newTraceCommand(flags *globalFlags) *cobra.Command {
	var (
		offsets string
		peak    float64
		steps   int
		ticks   int
		fail    bool
	)

	cmd := &cobra.Command{
		Use:   "trace",
		Short: "Replay a scripted pull gesture and print every state and frame",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, closeLog, err := loadConfig(flags, io.Discard)
			if err != nil {
				return err
			}
			defer closeLog()

			script := trace.Script{Ticks: ticks, Fail: fail, Release: []float64{0}}
			if offsets != "" {
				if script.Offsets, err = trace.ParseOffsets(offsets); err != nil {
					return err
				}
			} else {
				if peak == 0 {
					peak = 1.25 * cfg.Refresh.TriggerDistance
				}
				script.Offsets = trace.Ramp(peak, steps)
			}

			res, err := trace.Run(cmd.Context(), cfg.SurfaceOptions("trace"), script)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if err := res.Table().Print(out, ""); err != nil {
				return err
			}
			_, err = fmt.Fprintf(out, "\n%d events, %d refresh(es)\n", len(res.Events), res.Refreshes)
			return err
		},
	}

	cmd.Flags().StringVar(&offsets, "offsets", "", "Comma separated offsets to submit (overrides --peak/--steps)")
	cmd.Flags().Float64Var(&peak, "peak", 0, "Peak offset of the default ramp (default: 1.25x trigger distance)")
	cmd.Flags().IntVar(&steps, "steps", 5, "Samples per direction of the default ramp")
	cmd.Flags().IntVar(&ticks, "ticks", 12, "Spin ticks to play while refreshing")
	cmd.Flags().BoolVar(&fail, "fail", false, "Make the scripted refresh fail")
	return cmd
}
