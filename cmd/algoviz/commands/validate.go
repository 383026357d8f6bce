package commands

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/algoviz/pkg/render"
	"github.com/Sumatoshi-tech/algoviz/pkg/scenario"
)

// ErrValidationFailed is returned when a scenario file is invalid.
var ErrValidationFailed = errors.New("scenario validation failed")

func newValidateCommand() *cobra.Command {
	var printSchema bool

	cmd := &cobra.Command{
		Use:   "validate <file.yaml|->",
		Short: "Check a scenario file",
		Long: `Validate a scenario file against the scenario JSON schema and check each
step against the module catalog.

Examples:
  algoviz validate rotations.yaml
  algoviz validate - < rotations.yaml
  algoviz validate --schema`,
		Args: cobra.RangeArgs(0, 1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if printSchema {
				_, err := cmd.OutOrStdout().Write(scenario.Schema())
				if err != nil {
					return fmt.Errorf("write schema: %w", err)
				}

				return nil
			}

			if len(args) == 0 {
				return ErrMissingCommand
			}

			return runValidate(cmd.InOrStdin(), cmd.OutOrStdout(), args[0])
		},
	}

	cmd.Flags().BoolVar(&printSchema, "schema", false, "print the scenario JSON schema")

	return cmd
}

func runValidate(stdin io.Reader, w io.Writer, inputPath string) error {
	data, label, err := readInput(stdin, inputPath)
	if err != nil {
		return err
	}

	sc, err := scenario.Parse(label, data)
	if err == nil {
		render.Status(w, true, "scenario %q is valid (%s): %d steps", sc.Name, label, len(sc.Steps))

		return nil
	}

	var verr *scenario.ValidationError
	if !errors.As(err, &verr) {
		render.Status(w, false, "%s: %v", label, err)

		return fmt.Errorf("%w: %w", ErrValidationFailed, err)
	}

	render.Status(w, false, "scenario validation failed (%s)", label)

	fmt.Fprintf(w, "\nErrors:\n")

	for _, issue := range verr.Issues {
		color.New(color.FgRed).Fprintf(w, "  - %s\n", issue)
	}

	return fmt.Errorf("%w: %d issues in %s", ErrValidationFailed, len(verr.Issues), label)
}

func readInput(stdin io.Reader, inputPath string) ([]byte, string, error) {
	if inputPath == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, "", fmt.Errorf("read stdin: %w", err)
		}

		return data, "stdin", nil
	}

	data, err := os.ReadFile(inputPath)
	if err != nil {
		return nil, "", fmt.Errorf("read %s: %w", inputPath, err)
	}

	return data, inputPath, nil
}
