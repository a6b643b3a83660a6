package cmd

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/conneroisu/deckgen/internal/config"
	"github.com/conneroisu/deckgen/internal/customize"
	"github.com/conneroisu/deckgen/internal/materializer"
	"github.com/conneroisu/deckgen/internal/structure"
)

var newCmd = &cobra.Command{
	Use:     "new",
	Aliases: []string{"n"},
	Short:   "Create a new slide-deck project from the packaged template",
	Long: `Create a new slide-deck project directory from the packaged template
archive, then customize its markup with the requested structure, title, and
slug.

The --slides and --structure flags are mutually exclusive. With neither, the
deck gets five single slides.

Examples:
  deckgen new --title "My Talk"              # five single slides
  deckgen new --slides 8                     # eight single slides
  deckgen new --structure 1,d,3,1            # title, divider, stack of 3, one more
  deckgen new --slug demo --output ./decks   # fixed slug, explicit output dir`,
	Args: cobra.NoArgs,
	RunE: runNew,
}

var (
	newSlides    int
	newStructure string
	newTitle     string
	newSlug      string
	newOutput    string
	newArchive   string
)

func init() {
	rootCmd.AddCommand(newCmd)

	newCmd.Flags().IntVarP(&newSlides, "slides", "n", 0, "Number of single slides (mutually exclusive with --structure)")
	newCmd.Flags().StringVarP(&newStructure, "structure", "s", "", "Structure expression, e.g. 1,d,3,1")
	newCmd.Flags().StringVarP(&newTitle, "title", "t", "", "Deck title (defaults to one derived from the slug)")
	newCmd.Flags().StringVar(&newSlug, "slug", "", "Deck slug (defaults to a random token)")
	newCmd.Flags().StringVarP(&newOutput, "output", "o", "", "Output directory (overrides output.dir from config)")
	newCmd.Flags().StringVar(&newArchive, "template", "", "Template archive path (overrides template.archive from config)")
}

func runNew(cmd *cobra.Command, args []string) error {
	if err := exclusiveFlags(cmd.Flags(), "slides", "structure"); err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	layout, err := structure.Parse(newSlides, cmd.Flags().Changed("slides"), newStructure)
	if err != nil {
		return err
	}

	slug := newSlug
	if slug == "" {
		slug = shortSlug()
	}

	title := newTitle
	if title == "" {
		title = cfg.Deck.Title
	}
	if title == "" {
		title = titleFromSlug(slug)
	}

	outputDir := cfg.Output.Dir
	if newOutput != "" {
		outputDir = newOutput
	}
	archive := cfg.Template.Archive
	if newArchive != "" {
		archive = newArchive
	}

	logger := newLogger(cfg)
	ctx := cmd.Context()

	mat := materializer.New(archive, outputDir, logger)
	handle, err := mat.Materialize(ctx, slug)
	if err != nil {
		return err
	}

	cust := customize.New(logger)
	if err := cust.Apply(ctx, handle, customize.Options{
		Title:  title,
		Slug:   slug,
		Layout: layout,
	}); err != nil {
		return err
	}

	fmt.Printf("✓ Created deck %q in %s\n", title, handle.Dir)
	fmt.Printf("  structure: %s (%d slides)\n", layout.Tokens(), layout.SlideCount())
	fmt.Println("\nNext steps:")
	fmt.Printf("  1. Edit %s\n", handle.MarkupPath())
	fmt.Printf("  2. deckgen finalize %s\n", handle.Dir)

	return nil
}

// shortSlug returns a short random token disambiguating decks on disk.
func shortSlug() string {
	return strings.Split(uuid.NewString(), "-")[0]
}

// titleFromSlug derives a presentable default title from the slug.
func titleFromSlug(slug string) string {
	words := strings.NewReplacer("-", " ", "_", " ").Replace(slug)

	return cases.Title(language.English).String(words)
}
