package commands

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/algoviz/pkg/scenario"
)

func newDemoCommand(a *app) *cobra.Command {
	var opts playOptions

	cmd := &cobra.Command{
		Use:   "demo [name]",
		Short: "Run a built-in scenario",
		Long: `Run one of the built-in scenarios. Without a name, list them.

Examples:
  algoviz demo
  algoviz demo avl-rotations --live
  algoviz demo heapsort --diff`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return listDemos(cmd)
			}

			sc, err := scenario.Demo(args[0])
			if err != nil {
				return err
			}

			if !a.quiet && opts.format == formatTable {
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n\n", sc.Name, sc.Description)
			}

			p, err := a.scenarioPlan(sc)
			if err != nil {
				return err
			}

			return a.execute(cmd.Context(), cmd.OutOrStdout(), p, opts)
		},
	}

	registerPlayFlags(cmd, &opts)

	return cmd
}

func listDemos(cmd *cobra.Command) error {
	tbl := table.NewWriter()
	tbl.SetStyle(table.StyleLight)
	tbl.AppendHeader(table.Row{"Demo", "Steps", "Description"})

	for _, name := range scenario.Demos() {
		sc, err := scenario.Demo(name)
		if err != nil {
			return err
		}

		tbl.AppendRow(table.Row{sc.Name, len(sc.Steps), sc.Description})
	}

	fmt.Fprintln(cmd.OutOrStdout(), tbl.Render())

	return nil
}
