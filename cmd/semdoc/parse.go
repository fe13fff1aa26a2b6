package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/k0kubun/pp"
	"github.com/spf13/cobra"

	"semdoc/internal/diag"
	"semdoc/internal/markdown"
)

var parseCmd = &cobra.Command{
	Use:   "parse [file|-]",
	Short: "Dump the block tree of a Markdown note",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		src, err := readInput(cmd, args)
		if err != nil {
			return err
		}
		subject := "<stdin>"
		if len(args) > 0 && args[0] != "-" {
			subject = args[0]
		}

		bag := diag.NewBag(0)
		blocks := markdown.ParseWithOptions(src, markdown.Options{
			Reporter: diag.BagReporter{Bag: bag, Subject: subject},
		})

		pp.ColoringEnabled = !color.NoColor
		fmt.Fprintln(cmd.OutOrStdout(), pp.Sprint(blocks))

		printDiagnostics(cmd, bag)
		return nil
	},
}
