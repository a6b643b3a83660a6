package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/conneroisu/deckgen/internal/compiler"
	"github.com/conneroisu/deckgen/internal/structure"
)

var structureCmd = &cobra.Command{
	Use:   "structure [expression]",
	Short: "Validate and inspect a deck structure expression",
	Long: `Parse a structure expression (or a plain slide count) and report the
resulting layout without creating anything on disk.

Examples:
  deckgen structure 1,d,3,1
  deckgen structure --slides 8
  deckgen structure 1,d,3,1 --format yaml
  deckgen structure 1,d,3,1 --format markup   # print the compiled markup`,
	Args: cobra.MaximumNArgs(1),
	RunE: runStructure,
}

var (
	structureSlides int
	structureFormat string
)

func init() {
	rootCmd.AddCommand(structureCmd)

	structureCmd.Flags().IntVarP(&structureSlides, "slides", "n", 0, "Number of single slides (mutually exclusive with an expression)")
	structureCmd.Flags().StringVarP(&structureFormat, "format", "f", "table", "Output format (table|json|yaml|markup)")
}

// layoutInfo is the serializable inspection result.
type layoutInfo struct {
	Tokens     string      `json:"tokens" yaml:"tokens"`
	SlideCount int         `json:"slide_count" yaml:"slide_count"`
	Groups     []groupInfo `json:"groups" yaml:"groups"`
}

type groupInfo struct {
	Kind string `json:"kind" yaml:"kind"`
	Size int    `json:"size" yaml:"size"`
}

func runStructure(cmd *cobra.Command, args []string) error {
	if err := validateFormat(structureFormat, []string{"table", "json", "yaml", "markup"}); err != nil {
		return err
	}

	expr := ""
	if len(args) == 1 {
		expr = args[0]
	}

	layout, err := structure.Parse(structureSlides, cmd.Flags().Changed("slides"), expr)
	if err != nil {
		return err
	}

	info := layoutInfo{
		Tokens:     layout.Tokens(),
		SlideCount: layout.SlideCount(),
	}
	for _, group := range layout {
		info.Groups = append(info.Groups, groupInfo{
			Kind: group.Kind.String(),
			Size: group.Size,
		})
	}

	switch structureFormat {
	case "json":
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(info)
	case "yaml":
		encoder := yaml.NewEncoder(os.Stdout)
		defer encoder.Close()
		return encoder.Encode(info)
	case "markup":
		fmt.Print(compiler.Compile(layout).Markup)
		return nil
	default:
		fmt.Printf("structure: %s\n", info.Tokens)
		fmt.Printf("slides:    %d\n", info.SlideCount)
		for i, group := range info.Groups {
			fmt.Printf("  %2d. %-8s size=%d\n", i+1, group.Kind, group.Size)
		}
		return nil
	}
}
