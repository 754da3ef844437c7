package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/OpenTraceDXF/pkg/board"
	"github.com/OpenTraceLab/OpenTraceDXF/pkg/dxf"
	"github.com/OpenTraceLab/OpenTraceDXF/pkg/jitx/codegen"
	"github.com/OpenTraceLab/OpenTraceDXF/pkg/rules"
)

var (
	importOutput     string
	importClassName  string
	importSnippet    bool
	importNoRecenter bool
	importUnit       string
	importLayerMap   []string
	importRuleFile   string
	importTolerance  float64
)

var importCmd = &cobra.Command{
	Use:   "import <dxf_file>",
	Short: "Import a DXF board outline into a JITX Board class",
	Long: `Reads a DXF file, reconstructs closed contours from its entities,
classifies them into board roles (outline, cutouts, holes, ...), and
generates a JITX Board class definition.

Layer routing uses keyword heuristics by default. Pass --layer-map
LAYER=ROLE pairs or a --rules file for explicit routing.`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	rootCmd.AddCommand(importCmd)
	importCmd.Flags().StringVarP(&importOutput, "output", "o", "", "output file (default: stdout)")
	importCmd.Flags().StringVar(&importClassName, "class-name", "ImportedBoard", "name of the generated Board class")
	importCmd.Flags().BoolVar(&importSnippet, "snippet", false, "print shape snippets instead of a full class")
	importCmd.Flags().BoolVar(&importNoRecenter, "no-recenter", false, "keep original coordinates instead of centering on the origin")
	importCmd.Flags().StringVar(&importUnit, "unit", "", "force drawing unit (mm, cm, m, in, ft, mil, yd)")
	importCmd.Flags().StringArrayVar(&importLayerMap, "layer-map", nil, "explicit LAYER=ROLE mapping (repeatable)")
	importCmd.Flags().StringVar(&importRuleFile, "rules", "", "layer-map rule file")
	importCmd.Flags().Float64Var(&importTolerance, "tolerance", 0, "endpoint matching tolerance in mm (default 0.001)")
}

// loadLayerMap combines the --rules file and --layer-map pairs; inline
// pairs win on conflict.
func loadLayerMap(ruleFile string, pairs []string) (map[string]board.Role, error) {
	if ruleFile == "" && len(pairs) == 0 {
		return nil, nil
	}

	layerMap := map[string]board.Role{}
	if ruleFile != "" {
		fromFile, err := rules.LoadFile(ruleFile)
		if err != nil {
			return nil, err
		}
		for name, role := range fromFile {
			layerMap[name] = role
		}
	}
	if len(pairs) > 0 {
		fromPairs, err := rules.ParsePairs(pairs)
		if err != nil {
			return nil, err
		}
		for name, role := range fromPairs {
			layerMap[name] = role
		}
	}
	return layerMap, nil
}

func classifyInput(path, unit, ruleFile string, pairs []string, tolerance float64) (*board.Classified, error) {
	layerMap, err := loadLayerMap(ruleFile, pairs)
	if err != nil {
		return nil, err
	}
	return dxf.ReadBoard(path, dxf.ReadOptions{
		ForcedUnit: unit,
		LayerMap:   layerMap,
		Tolerance:  tolerance,
	})
}

func runImport(cmd *cobra.Command, args []string) error {
	input := args[0]

	classified, err := classifyInput(input, importUnit, importRuleFile, importLayerMap, importTolerance)
	if err != nil {
		return err
	}

	outlineState := "not found"
	if classified.Outline != nil {
		outlineState = "found"
	}
	unclassified := len(classified.UnclassifiedPaths) + len(classified.UnclassifiedCircles)
	fmt.Fprintf(os.Stderr, "Classified DXF entities from: %s\n", filepath.Base(input))
	fmt.Fprintf(os.Stderr, "  Outline:      %s\n", outlineState)
	fmt.Fprintf(os.Stderr, "  Cutouts:      %d\n", len(classified.Cutouts))
	fmt.Fprintf(os.Stderr, "  Holes:        %d\n", len(classified.Holes))
	fmt.Fprintf(os.Stderr, "  Unclassified: %d\n", unclassified)

	opts := codegen.Options{
		ClassName:  importClassName,
		ModuleName: filepath.Base(input),
		NoRecenter: importNoRecenter,
	}

	if importSnippet {
		fmt.Println(codegen.OutlineSnippet(classified, opts))
		if len(classified.Cutouts) > 0 || len(classified.Holes) > 0 {
			fmt.Println()
			fmt.Println(codegen.CutoutsSnippet(classified, opts))
		}
		return nil
	}

	code := codegen.Generate(classified, opts)
	if importOutput == "" {
		fmt.Print(code)
		return nil
	}
	if err := os.WriteFile(importOutput, []byte(code), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", importOutput, err)
	}
	fmt.Fprintf(os.Stderr, "Written: %s\n", importOutput)
	return nil
}
