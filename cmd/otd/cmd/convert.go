package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/OpenTraceDXF/pkg/jitx"
)

var (
	convertOutput     string
	convertLayers     []string
	convertListLayers bool
)

var convertCmd = &cobra.Command{
	Use:   "convert <xml_file>",
	Short: "Convert a JITX design XML export to DXF",
	Long: `Reads a JITX design XML file and writes a DXF drawing with the board
boundary, component pads, silkscreen, copper shapes, and vias on
separate layers.

Use --list-layers to see which layers the design would produce, and
--layers to emit only a subset of them.`,
	Args: cobra.ExactArgs(1),
	RunE: runConvert,
}

func init() {
	rootCmd.AddCommand(convertCmd)
	convertCmd.Flags().StringVarP(&convertOutput, "output", "o", "", "output DXF file (default: input name with .dxf suffix)")
	convertCmd.Flags().StringArrayVar(&convertLayers, "layers", nil, "emit only these layers (repeatable, comma separated)")
	convertCmd.Flags().BoolVar(&convertListLayers, "list-layers", false, "list the layers the design would produce and exit")
}

func runConvert(cmd *cobra.Command, args []string) error {
	input := args[0]

	data, err := jitx.ParseFile(input)
	if err != nil {
		return err
	}

	if convertListLayers {
		for _, name := range jitx.LayerNames(data) {
			fmt.Println(name)
		}
		return nil
	}

	var opts jitx.EmitOptions
	if len(convertLayers) > 0 {
		opts.Layers = map[string]bool{}
		for _, arg := range convertLayers {
			for _, name := range strings.Split(arg, ",") {
				name = strings.TrimSpace(name)
				if name != "" {
					opts.Layers[name] = true
				}
			}
		}
	}

	output := convertOutput
	if output == "" {
		output = strings.TrimSuffix(input, ".xml") + ".dxf"
	}

	drawing := jitx.BuildDrawing(data, opts)
	if err := drawing.WriteFile(output); err != nil {
		return err
	}

	fmt.Printf("Parsed design: %d instances, %d packages, %d copper shapes, %d vias\n",
		len(data.Instances), len(data.Packages), len(data.Tracks)+len(data.Fills), len(data.Vias))
	fmt.Printf("Written: %s\n", output)
	return nil
}
