// Package project defines the on-disk layout of a materialized deck.
package project

import "path/filepath"

// Fixed entries inside every deck directory. The markup entry and the asset
// library come from the template archive; the assets directory is created by
// finalization.
const (
	MarkupEntry     = "index.html"
	AssetLibraryDir = "reveal"
	AssetsDir       = "assets"

	// ScreenshotsDir and RenderedPDF are ephemeral build outputs stripped by
	// finalization.
	ScreenshotsDir = "screenshots"
	RenderedPDF    = "slides.pdf"
)

// CanonicalStylesheet is the deck-relative path of the single stylesheet all
// loose styling is consolidated into.
var CanonicalStylesheet = filepath.Join(AssetLibraryDir, "css", "slides.css")

// DirName returns the directory name for a deck with the given slug.
func DirName(slug string) string {
	return "deck-" + slug
}

// Handle is a materialized deck directory. It is created once by the
// materializer and mutated in place by the customizer and the finalization
// pipeline; deletion is a caller concern.
type Handle struct {
	Slug string
	Dir  string
}

// New returns a handle rooted at outputDir for the given slug.
func New(outputDir, slug string) *Handle {
	return &Handle{
		Slug: slug,
		Dir:  filepath.Join(outputDir, DirName(slug)),
	}
}

// Open wraps an existing deck directory without any slug bookkeeping, for
// operations like finalization that run against any materialized deck.
func Open(dir string) *Handle {
	return &Handle{Dir: dir}
}

// MarkupPath returns the absolute path of the markup entry file.
func (h *Handle) MarkupPath() string {
	return filepath.Join(h.Dir, MarkupEntry)
}

// AssetLibraryPath returns the absolute path of the asset-library subtree.
func (h *Handle) AssetLibraryPath() string {
	return filepath.Join(h.Dir, AssetLibraryDir)
}

// AssetsPath returns the absolute path of the standard assets directory.
func (h *Handle) AssetsPath() string {
	return filepath.Join(h.Dir, AssetsDir)
}

// StylesheetPath returns the absolute path of the canonical stylesheet.
func (h *Handle) StylesheetPath() string {
	return filepath.Join(h.Dir, CanonicalStylesheet)
}
