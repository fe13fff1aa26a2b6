package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"semdoc/internal/driver"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect or clear the render cache",
}

var cacheInfoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show the cache location and size",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := driver.OpenDiskCache("semdoc")
		if err != nil {
			return err
		}
		n, size, err := c.Stats()
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\n%s entries, %s\n", c.Dir(), humanize.Comma(int64(n)), humanize.Bytes(uint64(size)))
		return nil
	},
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Drop every cached render",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := driver.OpenDiskCache("semdoc")
		if err != nil {
			return err
		}
		return c.DropAll()
	},
}

func init() {
	cacheCmd.AddCommand(cacheInfoCmd)
	cacheCmd.AddCommand(cacheClearCmd)
}
