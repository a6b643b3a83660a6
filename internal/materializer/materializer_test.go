package materializer

import (
	"archive/zip"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	deckerrors "github.com/conneroisu/deckgen/internal/errors"
	"github.com/conneroisu/deckgen/internal/logging"
	"github.com/conneroisu/deckgen/internal/project"
)

// templateFiles is the minimal archive content: the two whitelisted entries
// plus top-level scaffolding that must be discarded.
var templateFiles = map[string]string{
	"index.html":            "<html><head></head><body><div class=\"slides\"></div></body></html>",
	"reveal/css/slides.css": "body { margin: 0; }\n",
	"reveal/js/deck.js":     "// engine\n",
	"README.md":             "template scaffolding, not shipped\n",
	"build/notes.txt":       "extraction scratch\n",
}

// writeArchive builds a template zip fixture.
func writeArchive(t *testing.T, files map[string]string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "template.zip")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	w := zip.NewWriter(f)
	for name, content := range files {
		entry, err := w.Create(name)
		require.NoError(t, err)
		_, err = entry.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	return path
}

func TestMaterialize(t *testing.T) {
	archive := writeArchive(t, templateFiles)
	outputDir := t.TempDir()

	m := New(archive, outputDir, logging.NopLogger{})
	handle, err := m.Materialize(context.Background(), "demo")
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(outputDir, "deck-demo"), handle.Dir)

	// Whitelisted entries are in place.
	assert.FileExists(t, handle.MarkupPath())
	assert.FileExists(t, handle.StylesheetPath())
	assert.FileExists(t, filepath.Join(handle.AssetLibraryPath(), "js", "deck.js"))

	// Non-whitelisted top-level scaffolding was discarded.
	assert.NoFileExists(t, filepath.Join(handle.Dir, "README.md"))
	assert.NoDirExists(t, filepath.Join(handle.Dir, "build"))

	// No extraction scratch left behind in the output directory.
	entries, err := os.ReadDir(outputDir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "deck-demo", entries[0].Name())
}

func TestMaterializeConflict(t *testing.T) {
	archive := writeArchive(t, templateFiles)
	outputDir := t.TempDir()

	m := New(archive, outputDir, logging.NopLogger{})

	handle, err := m.Materialize(context.Background(), "demo")
	require.NoError(t, err)

	// Mark the first deck so we can prove it survived the second attempt.
	marker := filepath.Join(handle.Dir, "marker.txt")
	require.NoError(t, os.WriteFile(marker, []byte("first"), 0644))

	_, err = m.Materialize(context.Background(), "demo")
	require.Error(t, err)
	assert.True(t, deckerrors.IsConflictError(err))
	assert.Contains(t, err.Error(), handle.Dir)

	content, err := os.ReadFile(marker)
	require.NoError(t, err)
	assert.Equal(t, "first", string(content))
}

func TestMaterializeArchiveMissing(t *testing.T) {
	m := New(filepath.Join(t.TempDir(), "nope.zip"), t.TempDir(), logging.NopLogger{})

	_, err := m.Materialize(context.Background(), "demo")
	require.Error(t, err)
	assert.True(t, deckerrors.IsConfigError(err))
}

func TestMaterializeArchiveMissingWhitelistedEntry(t *testing.T) {
	archive := writeArchive(t, map[string]string{
		"index.html": "<html></html>",
		// no asset library
	})

	m := New(archive, t.TempDir(), logging.NopLogger{})

	_, err := m.Materialize(context.Background(), "demo")
	require.Error(t, err)
	assert.True(t, deckerrors.IsConfigError(err))
	assert.Contains(t, err.Error(), project.AssetLibraryDir)
}

func TestMaterializeBadArchiveLeavesNoDeckDir(t *testing.T) {
	badArchive := writeArchive(t, map[string]string{
		"index.html": "<html></html>",
		// no asset library
	})
	outputDir := t.TempDir()

	m := New(badArchive, outputDir, logging.NopLogger{})

	_, err := m.Materialize(context.Background(), "demo")
	require.Error(t, err)
	assert.True(t, deckerrors.IsConfigError(err))

	// The failed run mutated nothing: no deck directory, no scratch.
	entries, err := os.ReadDir(outputDir)
	require.NoError(t, err)
	assert.Empty(t, entries)

	// A retry with a corrected archive succeeds instead of hitting the
	// conflict guard.
	m = New(writeArchive(t, templateFiles), outputDir, logging.NopLogger{})
	handle, err := m.Materialize(context.Background(), "demo")
	require.NoError(t, err)
	assert.FileExists(t, handle.MarkupPath())
}

func TestMaterializeCorruptArchive(t *testing.T) {
	archive := filepath.Join(t.TempDir(), "template.zip")
	require.NoError(t, os.WriteFile(archive, []byte("not a zip"), 0644))
	outputDir := t.TempDir()

	m := New(archive, outputDir, logging.NopLogger{})

	_, err := m.Materialize(context.Background(), "demo")
	require.Error(t, err)

	var de *deckerrors.DeckError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, deckerrors.ErrorTypeIO, de.Type)
	assert.Equal(t, deckerrors.ErrCodeExtractFailed, de.Code)

	entries, err := os.ReadDir(outputDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestMaterializeCreatesOutputDir(t *testing.T) {
	archive := writeArchive(t, templateFiles)
	outputDir := filepath.Join(t.TempDir(), "decks", "nested")

	m := New(archive, outputDir, logging.NopLogger{})

	handle, err := m.Materialize(context.Background(), "demo")
	require.NoError(t, err)
	assert.FileExists(t, handle.MarkupPath())
}

func TestMaterializeDistinctSlugs(t *testing.T) {
	archive := writeArchive(t, templateFiles)
	outputDir := t.TempDir()

	m := New(archive, outputDir, logging.NopLogger{})

	first, err := m.Materialize(context.Background(), "one")
	require.NoError(t, err)
	second, err := m.Materialize(context.Background(), "two")
	require.NoError(t, err)

	assert.NotEqual(t, first.Dir, second.Dir)
	assert.FileExists(t, first.MarkupPath())
	assert.FileExists(t, second.MarkupPath())
}

func TestSanitizeArchivePath(t *testing.T) {
	dest := t.TempDir()

	_, err := sanitizeArchivePath(dest, "../escape.txt")
	assert.Error(t, err)

	target, err := sanitizeArchivePath(dest, "reveal/css/slides.css")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dest, "reveal", "css", "slides.css"), target)
}
