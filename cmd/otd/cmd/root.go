package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/OpenTraceDXF/pkg/dxf"
)

var (
	// Global flags
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "otd",
	Short: "OpenTraceDXF - DXF board geometry tools",
	Long: `OpenTraceDXF (otd) reads and writes board geometry in DXF form:
  - Import fab-house DXF outlines into JITX board definitions
  - Convert JITX board design XML to layered DXF
  - Inspect, render, and interactively view DXF contents

Examples:
  otd import board.dxf -o board_def.py    # Generate a Board class
  otd convert design.xml -o design.dxf    # XML to DXF
  otd inspect board.dxf                   # Show file contents
  otd view board.dxf                      # Interactive viewer`,
	Version: "0.3.0",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose {
			dxf.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
				Level: slog.LevelDebug,
			})))
		}
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
