package commands

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/algoviz/pkg/render"
	"github.com/Sumatoshi-tech/algoviz/pkg/report"
	"github.com/Sumatoshi-tech/algoviz/pkg/scenario"
	"github.com/Sumatoshi-tech/algoviz/pkg/session"
)

// ErrConflictingSource indicates both --scenario and --demo were given.
var ErrConflictingSource = errors.New("--scenario and --demo are mutually exclusive")

func newReportCommand(a *app) *cobra.Command {
	var (
		scenarioPath string
		demoName     string
		arg          string
		output       string
		maxFrames    int
	)

	cmd := &cobra.Command{
		Use:   "report [<module> <op> [values...]]",
		Short: "Render an HTML report with per-step charts",
		Long: `Record a command, scenario or demo and write a self-contained HTML page:
one bar chart per state change for arrays, heaps and heapsort, and the final
tree drawing for BST and AVL runs.

Examples:
  algoviz report --demo heapsort -o heapsort.html
  algoviz report --scenario growth.yaml -o growth.html
  algoviz report heap build 3 9 2 7 5 8 > heap.html`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if scenarioPath != "" && demoName != "" {
				return ErrConflictingSource
			}

			title, description, p, err := a.reportPlan(scenarioPath, demoName, args, arg)
			if err != nil {
				return err
			}

			sess := session.New(a.sessionOptions(p.speed, p.extra...)...)

			transcripts, err := render.RecordAll(cmd.Context(), sess, p.commands...)
			if err != nil {
				return err
			}

			page := report.Build(transcripts, report.Options{
				Title:       title,
				Description: description,
				MaxFrames:   maxFrames,
			})

			if output == "" || output == "-" {
				return page.Render(cmd.OutOrStdout())
			}

			f, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("create report: %w", err)
			}

			renderErr := page.Render(f)
			closeErr := f.Close()

			if renderErr != nil {
				return renderErr
			}

			if closeErr != nil {
				return fmt.Errorf("close report: %w", closeErr)
			}

			if !a.quiet {
				render.Status(cmd.ErrOrStderr(), true, "wrote %s (%d transcripts)", output, len(transcripts))
			}

			return nil
		},
	}

	cmd.Flags().StringVarP(&scenarioPath, "scenario", "s", "", "scenario file to report on")
	cmd.Flags().StringVar(&demoName, "demo", "", "built-in demo to report on")
	cmd.Flags().StringVar(&arg, "arg", "", "traversal order (in, pre, post) or heap mode (max, min)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().IntVar(&maxFrames, "max-frames", report.DefaultMaxFrames, "charts per transcript")

	return cmd
}

func (a *app) reportPlan(scenarioPath, demoName string, args []string, arg string) (string, string, plan, error) {
	if demoName != "" {
		sc, err := scenario.Demo(demoName)
		if err != nil {
			return "", "", plan{}, err
		}

		p, err := a.scenarioPlan(sc)

		return sc.Name, sc.Description, p, err
	}

	if scenarioPath != "" {
		sc, err := scenario.Load(scenarioPath)
		if err != nil {
			return "", "", plan{}, err
		}

		p, err := a.scenarioPlan(sc)

		return sc.Name, sc.Description, p, err
	}

	p, err := a.resolvePlan("", args, arg)
	if err != nil {
		return "", "", plan{}, err
	}

	return p.commands[0].String(), "", p, nil
}
