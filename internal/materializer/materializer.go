// Package materializer unpacks the packaged template archive into a fresh
// deck directory.
//
// Extraction happens in a scratch directory created next to the target so the
// whitelisted entries can be moved with a rename. Only the markup entry file
// and the asset-library subtree ship; any other top-level scaffolding in the
// archive is discarded with the scratch space. Scratch removal runs on every
// exit path and is never fatal: a leftover scratch directory does not affect
// the correctness of a produced deck, so failures are logged as warnings.
package materializer

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/conneroisu/deckgen/internal/errors"
	"github.com/conneroisu/deckgen/internal/logging"
	"github.com/conneroisu/deckgen/internal/project"
)

// whitelist names the top-level archive entries that make it into the deck.
var whitelist = []string{project.MarkupEntry, project.AssetLibraryDir}

// Materializer extracts the template archive into deck directories. The
// archive path is injected so tests can point it at fixtures.
type Materializer struct {
	archivePath string
	outputDir   string
	logger      logging.Logger
}

// New creates a materializer for the given archive and output directory.
func New(archivePath, outputDir string, logger logging.Logger) *Materializer {
	return &Materializer{
		archivePath: archivePath,
		outputDir:   outputDir,
		logger:      logger.WithComponent("materializer"),
	}
}

// Materialize produces a new deck directory for slug.
//
// Creation is deliberately not idempotent: if the target directory already
// exists the call fails with a conflict error and the existing deck is left
// untouched. The exists-check doubles as the single-host concurrency guard
// between two runs racing on the same slug.
func (m *Materializer) Materialize(ctx context.Context, slug string) (*project.Handle, error) {
	if _, err := os.Stat(m.archivePath); err != nil {
		return nil, errors.ErrArchiveMissing(m.archivePath)
	}

	handle := project.New(m.outputDir, slug)
	if _, err := os.Stat(handle.Dir); err == nil {
		return nil, errors.ErrDeckExists(handle.Dir)
	}

	if err := os.MkdirAll(m.outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	// Scratch lives inside the output directory so the whitelisted entries
	// can be moved into place with a rename.
	scratch, err := os.MkdirTemp(m.outputDir, ".deckgen-extract-")
	if err != nil {
		return nil, fmt.Errorf("failed to create scratch directory: %w", err)
	}
	defer func() {
		if rmErr := os.RemoveAll(scratch); rmErr != nil {
			m.logger.Warn(ctx, rmErr, "failed to remove scratch directory", "path", scratch)
		}
	}()

	if err := extractArchive(m.archivePath, scratch); err != nil {
		return nil, errors.NewIOError(
			errors.ErrCodeExtractFailed,
			"failed to extract template archive",
			err,
		).WithPath(m.archivePath)
	}

	// Validate the extracted content before the deck directory exists, so a
	// bad archive aborts without leaving a half-built deck that would turn
	// every retry into a conflict.
	for _, entry := range whitelist {
		if _, err := os.Stat(filepath.Join(scratch, entry)); err != nil {
			return nil, errors.NewConfigError(
				errors.ErrCodeEntryMissing,
				"template archive is missing required entry: "+entry,
			).WithPath(m.archivePath)
		}
	}

	if err := os.Mkdir(handle.Dir, 0755); err != nil {
		if os.IsExist(err) {
			return nil, errors.ErrDeckExists(handle.Dir)
		}
		return nil, fmt.Errorf("failed to create deck directory: %w", err)
	}

	for _, entry := range whitelist {
		if err := os.Rename(filepath.Join(scratch, entry), filepath.Join(handle.Dir, entry)); err != nil {
			if rmErr := os.RemoveAll(handle.Dir); rmErr != nil {
				m.logger.Warn(ctx, rmErr, "failed to remove partial deck directory", "path", handle.Dir)
			}
			return nil, errors.NewIOError(
				errors.ErrCodeExtractFailed,
				"failed to move template entry into deck directory",
				err,
			).WithContext("entry", entry).WithPath(handle.Dir)
		}
	}

	m.logger.Info(ctx, "materialized deck from template",
		"slug", slug,
		"dir", handle.Dir)

	return handle, nil
}

// extractArchive unpacks a zip archive into dest, refusing entries that would
// escape it.
func extractArchive(archivePath, dest string) error {
	reader, err := zip.OpenReader(archivePath)
	if err != nil {
		return fmt.Errorf("failed to open archive: %w", err)
	}
	defer reader.Close()

	for _, file := range reader.File {
		target, err := sanitizeArchivePath(dest, file.Name)
		if err != nil {
			return err
		}

		if file.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0755); err != nil {
				return fmt.Errorf("failed to create directory %s: %w", file.Name, err)
			}
			continue
		}

		if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
			return fmt.Errorf("failed to create parent of %s: %w", file.Name, err)
		}

		if err := extractFile(file, target); err != nil {
			return err
		}
	}

	return nil
}

func extractFile(file *zip.File, target string) error {
	src, err := file.Open()
	if err != nil {
		return fmt.Errorf("failed to open archive entry %s: %w", file.Name, err)
	}
	defer src.Close()

	dst, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, file.Mode())
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", target, err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return fmt.Errorf("failed to write %s: %w", target, err)
	}

	return nil
}

// sanitizeArchivePath rejects zip entries that resolve outside dest.
func sanitizeArchivePath(dest, name string) (string, error) {
	target := filepath.Join(dest, filepath.FromSlash(name))
	if !strings.HasPrefix(target, filepath.Clean(dest)+string(os.PathSeparator)) {
		return "", fmt.Errorf("archive entry escapes extraction root: %s", name)
	}

	return target, nil
}
