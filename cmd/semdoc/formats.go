package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"semdoc/internal/comment"
	"semdoc/internal/formats"
)

var formatsCmd = &cobra.Command{
	Use:   "formats",
	Short: "List the available comment formats",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		catalogs, _ := cmd.Flags().GetStringSlice("formats")
		reg, err := formats.Load(catalogs...)
		if err != nil {
			return err
		}
		rows := [][]string{{"NAME", "WIDTH", "MARKUP", "OPEN", "PREFIX", "CLOSE"}}
		for _, name := range reg.Names() {
			d, err := reg.Lookup(name)
			if err != nil {
				return err
			}
			rows = append(rows, formatRow(d))
		}
		fmt.Fprint(cmd.OutOrStdout(), table(rows))
		return nil
	},
}

func init() {
	formatsCmd.Flags().StringSlice("formats", nil, "extra comment format catalogs (TOML)")
}

func formatRow(d *comment.Descriptor) []string {
	cfg := d.Config()
	return []string{
		d.Name(),
		strconv.Itoa(d.MaxWidth()),
		cfg.Markup,
		quoteOrDash(d.BlockOpen()),
		quoteOrDash(d.LinePrefix()),
		quoteOrDash(d.BlockClose()),
	}
}

func quoteOrDash(s string) string {
	if s == "" {
		return "-"
	}
	return strconv.Quote(s)
}

// table aligns rows into columns by display width.
func table(rows [][]string) string {
	var widths []int
	for _, row := range rows {
		for i, cell := range row {
			if i >= len(widths) {
				widths = append(widths, 0)
			}
			widths[i] = max(widths[i], runewidth.StringWidth(cell))
		}
	}
	var b strings.Builder
	for _, row := range rows {
		for i, cell := range row {
			if i == len(row)-1 {
				b.WriteString(cell)
				break
			}
			b.WriteString(runewidth.FillRight(cell, widths[i]+2))
		}
		b.WriteByte('\n')
	}
	return b.String()
}
