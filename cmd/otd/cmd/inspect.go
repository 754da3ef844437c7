package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/OpenTraceDXF/pkg/dxf"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <dxf_file>",
	Short: "Summarize the contents of a DXF file",
	Long: `Parses a DXF file and prints its declared version and units, the raw
bounding box, and per-layer and per-type entity counts. Useful for a
first look at an export before importing it.`,
	Args: cobra.ExactArgs(1),
	RunE: runInspect,
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}

func runInspect(cmd *cobra.Command, args []string) error {
	doc, err := dxf.ParseFile(args[0])
	if err != nil {
		return err
	}

	inv := doc.Inventory()
	fmt.Printf("File: %s\n", args[0])
	fmt.Print(inv.String())

	total := 0
	for _, n := range inv.EntityCounts {
		total += n
	}
	fmt.Printf("Total entities: %d\n", total)
	return nil
}
