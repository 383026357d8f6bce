package commands

import (
	"github.com/spf13/cobra"
)

func newPlayCommand(a *app) *cobra.Command {
	var (
		scenarioPath string
		arg          string
		opts         playOptions
	)

	cmd := &cobra.Command{
		Use:   "play [<module> <op> [values...]]",
		Short: "Run operations and print their steps",
		Long: `Run one operation, or every step of a scenario file, and print the
recorded steps with the structure's state after each one.

Single-value operations given several values run once per value.

Examples:
  algoviz play avl insert 10 20 30 40 50 25
  algoviz play bst traverse --arg pre
  algoviz play --scenario rotations.yaml --live
  algoviz play heap build 3 9 2 7 --format json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.resolvePlan(scenarioPath, args, arg)
			if err != nil {
				return err
			}

			if a.cfg.Playback.Autoplay {
				opts.live = true
			}

			return a.execute(cmd.Context(), cmd.OutOrStdout(), p, opts)
		},
	}

	cmd.Flags().StringVarP(&scenarioPath, "scenario", "s", "", "scenario file to run instead of a single command")
	cmd.Flags().StringVar(&arg, "arg", "", "traversal order (in, pre, post) or heap mode (max, min)")
	registerPlayFlags(cmd, &opts)

	return cmd
}

func registerPlayFlags(cmd *cobra.Command, opts *playOptions) {
	cmd.Flags().BoolVar(&opts.live, "live", false, "animate steps at the playback speed")
	cmd.Flags().BoolVar(&opts.diff, "diff", false, "show state changes as diffs")
	cmd.Flags().StringVarP(&opts.format, "format", "f", formatTable, "output format: table or json")
	cmd.Flags().IntVar(&opts.maxSteps, "max-steps", 0, "rows per transcript (0 uses render.max_steps)")
}
