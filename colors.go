package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/kastheco/hisect/config"
	"github.com/kastheco/hisect/log"
)

func printColors(out io.Writer, c config.Colors) {
	fmt.Fprintf(out, "foreground            %s\n", c.Foreground)
	fmt.Fprintf(out, "background            %s\n", c.Background)
	fmt.Fprintf(out, "highlight_foreground  %s\n", c.HighlightForeground)
	fmt.Fprintf(out, "highlight_background  %s\n", c.HighlightBackground)
}

func newColorsCmd() *cobra.Command {
	colorsCmd := &cobra.Command{
		Use:   "colors",
		Short: "Print the marker row palette",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			log.Initialize(false)
			defer log.Close()
			printColors(cmd.OutOrStdout(), config.LoadConfig().Colors)
			return nil
		},
	}
	colorsCmd.AddCommand(&cobra.Command{
		Use:   "reset",
		Short: "Restore the default palette in config.json",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			log.Initialize(false)
			defer log.Close()
			cfg := config.LoadConfig()
			cfg.ResetColors()
			if err := config.SaveConfig(cfg); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "colors reset to defaults")
			printColors(cmd.OutOrStdout(), cfg.Colors)
			return nil
		},
	})
	return colorsCmd
}
