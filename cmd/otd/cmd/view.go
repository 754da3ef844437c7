package cmd

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"gioui.org/app"
	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/OpenTraceDXF/pkg/viewer"
)

var (
	viewUnit     string
	viewLayerMap []string
	viewRuleFile string
)

var viewCmd = &cobra.Command{
	Use:   "view <dxf_file>",
	Short: "Open an interactive viewer on a classified DXF board",
	Long: `Classifies a DXF file and opens a window showing the reconstructed
board geometry.

Controls:
  Left Click / R    - Rotate 90 degrees
  Right Click / F   - Flip board
  Scroll Wheel      - Zoom in/out
  Space             - Fit board to window
  Q / Escape        - Quit`,
	Args: cobra.ExactArgs(1),
	RunE: runView,
}

func init() {
	rootCmd.AddCommand(viewCmd)
	viewCmd.Flags().StringVar(&viewUnit, "unit", "", "force drawing unit (mm, cm, m, in, ft, mil, yd)")
	viewCmd.Flags().StringArrayVar(&viewLayerMap, "layer-map", nil, "explicit LAYER=ROLE mapping (repeatable)")
	viewCmd.Flags().StringVar(&viewRuleFile, "rules", "", "layer-map rule file")
}

func runView(cmd *cobra.Command, args []string) error {
	input := args[0]

	classified, err := classifyInput(input, viewUnit, viewRuleFile, viewLayerMap, 0)
	if err != nil {
		return err
	}

	outlineState := "not found"
	if classified.Outline != nil {
		outlineState = "found"
	}
	fmt.Printf("Loaded board: %s\n", input)
	fmt.Printf("  Outline: %s\n", outlineState)
	fmt.Printf("  Cutouts: %d, Holes: %d\n", len(classified.Cutouts), len(classified.Holes))

	go func() {
		title := "Board Viewer - " + filepath.Base(input)
		if err := viewer.Show(classified, title); err != nil {
			log.Fatal(err)
		}
		os.Exit(0)
	}()
	app.Main()
	return nil
}
