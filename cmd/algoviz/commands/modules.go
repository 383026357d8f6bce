package commands

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/algoviz/pkg/session"
)

func newModulesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "modules",
		Short: "List modules and operations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tbl := table.NewWriter()
			tbl.SetStyle(table.StyleLight)
			tbl.AppendHeader(table.Row{"Module", "Op", "Takes", "Arg", "Description"})

			for _, m := range session.Catalog() {
				for _, op := range m.Ops {
					tbl.AppendRow(table.Row{m.Name, op.Name, op.Arity, op.Arg, op.Description})
				}

				tbl.AppendSeparator()
			}

			fmt.Fprintln(cmd.OutOrStdout(), tbl.Render())

			return nil
		},
	}
}
