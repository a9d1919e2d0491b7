package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fluorine-dev/fluorine/pkg/sheet"
)

func evalCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "eval [formula]...",
		Short: "Evaluate cell formulas once and print the grid",
		Long: `Evaluate the given formulas as cells $0, $1, ... and print the
resulting grid. Formulas may reference each other:

  fluor eval '10' '$0 * 2' '$0 + $1'`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := sheet.New(len(args))
			for i, src := range args {
				if err := s.SetSource(i, src); err != nil {
					return err
				}
			}

			for _, state := range s.Snapshot(s.Dep().Ctx()) {
				value := state.Value
				if !state.Valid && state.Src == "" {
					value = "(empty)"
				}
				fmt.Printf("$%d = %-20s => %s\n", state.Index, state.Src, value)
			}
			return nil
		},
	}
	return cmd
}
