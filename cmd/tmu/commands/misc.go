package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tatsh/tmu/pkg/adp"
	"github.com/tatsh/tmu/pkg/todos"
)

// NewADPCmd creates the adp command.
func NewADPCmd(opts *RootOpts) *cobra.Command {
	var (
		hours   int
		payRate float64
		state   string
	)
	cmd := &cobra.Command{
		Use:     "adp",
		Short:   "Calculate US hourly salary information",
		GroupID: "misc",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			calc := &adp.Calculator{}
			salary, err := calc.Calculate(cmd.Context(), hours, payRate, state)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), salary)
			return nil
		},
	}
	cmd.Flags().IntVarP(&hours, "hours", "H", 160, "hours worked in the month")
	cmd.Flags().Float64VarP(&payRate, "pay-rate", "r", 70.0, "hourly pay rate")
	cmd.Flags().StringVarP(&state, "state", "s", "FL", "two letter state code")
	return cmd
}

// NewTodosCmd creates the todos command.
func NewTodosCmd(opts *RootOpts) *cobra.Command {
	var (
		ignores    []string
		jsonOutput bool
	)
	cmd := &cobra.Command{
		Use:     "todos [path]",
		Short:   "List TODO-like comments under a directory",
		GroupID: "misc",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := "."
			if len(args) == 1 {
				root = args[0]
			}
			items, err := todos.Scan(cmd.Context(), root, &todos.Options{Ignores: ignores})
			if err != nil {
				return err
			}
			if jsonOutput {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(items)
			}
			for _, item := range items {
				fmt.Fprintf(cmd.OutOrStdout(), "%s:%d %s %s\n",
					item.Path, item.Line, item.Marker, item.Text)
			}
			return nil
		},
	}
	cmd.Flags().StringArrayVar(&ignores, "ignore", nil, "glob pattern of paths to skip")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "output as JSON")
	return cmd
}
