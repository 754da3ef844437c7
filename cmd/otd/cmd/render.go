package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/OpenTraceDXF/pkg/render"
)

var (
	renderOutput           string
	renderWidth            int
	renderHeight           int
	renderUnit             string
	renderLayerMap         []string
	renderRuleFile         string
	renderHideUnclassified bool
)

var renderCmd = &cobra.Command{
	Use:   "render <dxf_file>",
	Short: "Render a classified DXF board to a PNG image",
	Args:  cobra.ExactArgs(1),
	RunE:  runRender,
}

func init() {
	rootCmd.AddCommand(renderCmd)
	renderCmd.Flags().StringVarP(&renderOutput, "output", "o", "", "output PNG file (default: input name with .png suffix)")
	renderCmd.Flags().IntVar(&renderWidth, "width", 0, "image width in pixels (default 1024)")
	renderCmd.Flags().IntVar(&renderHeight, "height", 0, "image height in pixels (default 768)")
	renderCmd.Flags().StringVar(&renderUnit, "unit", "", "force drawing unit (mm, cm, m, in, ft, mil, yd)")
	renderCmd.Flags().StringArrayVar(&renderLayerMap, "layer-map", nil, "explicit LAYER=ROLE mapping (repeatable)")
	renderCmd.Flags().StringVar(&renderRuleFile, "rules", "", "layer-map rule file")
	renderCmd.Flags().BoolVar(&renderHideUnclassified, "hide-unclassified", false, "do not draw unclassified geometry")
}

func runRender(cmd *cobra.Command, args []string) error {
	input := args[0]

	classified, err := classifyInput(input, renderUnit, renderRuleFile, renderLayerMap, 0)
	if err != nil {
		return err
	}

	output := renderOutput
	if output == "" {
		output = strings.TrimSuffix(input, ".dxf") + ".png"
	}

	opts := render.Options{
		Width:            renderWidth,
		Height:           renderHeight,
		HideUnclassified: renderHideUnclassified,
	}
	if err := render.SavePNG(classified, output, opts); err != nil {
		return err
	}

	fmt.Printf("Written: %s\n", output)
	return nil
}
