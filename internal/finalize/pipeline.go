// Package finalize post-processes a materialized deck for distribution.
//
// Four steps run in order against the deck directory: ensure the standard
// assets directory exists, merge loose stylesheets into the canonical one,
// prune dangling stylesheet links from the markup, and remove ephemeral build
// artifacts. The steps are failure-isolated: one step failing never prevents
// the rest from running, and re-running the whole pipeline on an already
// finalized deck is a no-op.
package finalize

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/natefinch/atomic"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/conneroisu/deckgen/internal/logging"
	"github.com/conneroisu/deckgen/internal/project"
)

// Step names as they appear in reports.
const (
	StepAssets      = "ensure-assets-dir"
	StepStylesheets = "merge-stylesheets"
	StepLinks       = "prune-stylesheet-links"
	StepArtifacts   = "remove-artifacts"
)

// StepResult is the outcome of one pipeline step.
type StepResult struct {
	Name     string
	Changed  bool
	Warnings []string
	Err      error
}

// Report collects the outcome of every step of a run.
type Report struct {
	Steps []StepResult
}

// Failed reports whether any step errored.
func (r *Report) Failed() bool {
	for _, s := range r.Steps {
		if s.Err != nil {
			return true
		}
	}

	return false
}

// Changed reports whether any step mutated the deck.
func (r *Report) Changed() bool {
	for _, s := range r.Steps {
		if s.Changed {
			return true
		}
	}

	return false
}

// Pipeline runs the finalization steps.
type Pipeline struct {
	logger logging.Logger
}

// New creates a pipeline.
func New(logger logging.Logger) *Pipeline {
	return &Pipeline{logger: logger.WithComponent("finalize")}
}

// Run executes every step against the deck directory, in order, isolating
// failures per step.
func (p *Pipeline) Run(ctx context.Context, dir string) *Report {
	handle := project.Open(dir)

	steps := []struct {
		name string
		fn   func(context.Context, *project.Handle) StepResult
	}{
		{StepAssets, p.ensureAssetsDir},
		{StepStylesheets, p.mergeStylesheets},
		{StepLinks, p.pruneStylesheetLinks},
		{StepArtifacts, p.removeArtifacts},
	}

	report := &Report{}
	for _, step := range steps {
		result := step.fn(ctx, handle)
		result.Name = step.name
		report.Steps = append(report.Steps, result)

		for _, w := range result.Warnings {
			p.logger.Warn(ctx, nil, w, "step", step.name, "dir", dir)
		}
		if result.Err != nil {
			p.logger.Error(ctx, result.Err, "finalize step failed", "step", step.name, "dir", dir)
			continue
		}
		p.logger.Debug(ctx, "finalize step done",
			"step", step.name,
			"changed", result.Changed)
	}

	return report
}

// ensureAssetsDir creates the standard assets directory if absent.
func (p *Pipeline) ensureAssetsDir(_ context.Context, handle *project.Handle) StepResult {
	var result StepResult

	if _, err := os.Stat(handle.AssetsPath()); err == nil {
		return result
	}

	if err := os.MkdirAll(handle.AssetsPath(), 0755); err != nil {
		result.Err = fmt.Errorf("failed to create assets directory: %w", err)
		return result
	}

	result.Changed = true

	return result
}

// mergeStylesheets appends every loose stylesheet directly inside the deck
// root into the canonical stylesheet, each block preceded by a banner naming
// its origin, then deletes the source. The scan is deliberately non-recursive:
// subdirectories, the asset library included, are not touched. Discovery
// order follows the directory listing; stylesheet rules are independent of
// concatenation order in the common case.
func (p *Pipeline) mergeStylesheets(_ context.Context, handle *project.Handle) StepResult {
	var result StepResult

	canonical := handle.StylesheetPath()
	if _, err := os.Stat(canonical); err != nil {
		result.Warnings = append(result.Warnings,
			"canonical stylesheet missing, skipping stylesheet merge")
		return result
	}

	loose, err := looseStylesheets(handle.Dir)
	if err != nil {
		result.Err = err
		return result
	}
	if len(loose) == 0 {
		return result
	}

	content, err := os.ReadFile(canonical)
	if err != nil {
		result.Err = fmt.Errorf("failed to read canonical stylesheet: %w", err)
		return result
	}

	var buf bytes.Buffer
	buf.Write(content)

	merged := make([]string, 0, len(loose))
	for _, name := range loose {
		css, err := os.ReadFile(filepath.Join(handle.Dir, name))
		if err != nil {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("failed to read loose stylesheet %s: %v", name, err))
			continue
		}

		if buf.Len() > 0 && !bytes.HasSuffix(buf.Bytes(), []byte("\n")) {
			buf.WriteByte('\n')
		}
		fmt.Fprintf(&buf, "\n/* merged from %s */\n", name)
		buf.Write(css)
		merged = append(merged, name)
	}

	if len(merged) == 0 {
		return result
	}

	if err := atomic.WriteFile(canonical, &buf); err != nil {
		result.Err = fmt.Errorf("failed to update canonical stylesheet: %w", err)
		return result
	}

	for _, name := range merged {
		if err := os.Remove(filepath.Join(handle.Dir, name)); err != nil {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("failed to remove merged stylesheet %s: %v", name, err))
		}
	}

	result.Changed = true

	return result
}

// looseStylesheets lists stylesheet files directly inside dir, excluding the
// canonical stylesheet by name.
func looseStylesheets(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list deck directory: %w", err)
	}

	var loose []string
	canonicalName := filepath.Base(project.CanonicalStylesheet)
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".css") || name == canonicalName {
			continue
		}
		loose = append(loose, name)
	}

	return loose, nil
}

// pruneStylesheetLinks strips every stylesheet link from the markup whose
// target is not the canonical stylesheet. The markup is rewritten only when
// something was actually removed.
func (p *Pipeline) pruneStylesheetLinks(_ context.Context, handle *project.Handle) StepResult {
	var result StepResult

	raw, err := os.ReadFile(handle.MarkupPath())
	if err != nil {
		result.Warnings = append(result.Warnings,
			"markup entry missing, skipping stylesheet link prune")
		return result
	}

	doc, err := html.Parse(bytes.NewReader(raw))
	if err != nil {
		result.Err = fmt.Errorf("failed to parse markup entry: %w", err)
		return result
	}

	removed := pruneLinks(doc)
	if removed == 0 {
		return result
	}

	var buf bytes.Buffer
	if err := html.Render(&buf, doc); err != nil {
		result.Err = fmt.Errorf("failed to render markup: %w", err)
		return result
	}

	if err := atomic.WriteFile(handle.MarkupPath(), &buf); err != nil {
		result.Err = fmt.Errorf("failed to write markup entry: %w", err)
		return result
	}

	result.Changed = true

	return result
}

// pruneLinks removes non-canonical stylesheet links, returning how many.
func pruneLinks(n *html.Node) int {
	removed := 0

	for child := n.FirstChild; child != nil; {
		next := child.NextSibling
		if isDanglingStylesheetLink(child) {
			n.RemoveChild(child)
			removed++
		} else {
			removed += pruneLinks(child)
		}
		child = next
	}

	return removed
}

func isDanglingStylesheetLink(n *html.Node) bool {
	if n.Type != html.ElementNode || n.DataAtom != atom.Link {
		return false
	}

	var rel, href string
	for _, attr := range n.Attr {
		switch attr.Key {
		case "rel":
			rel = attr.Val
		case "href":
			href = attr.Val
		}
	}

	if !strings.EqualFold(rel, "stylesheet") {
		return false
	}

	canonical := filepath.ToSlash(project.CanonicalStylesheet)

	return path.Clean(href) != canonical
}

// removeArtifacts deletes the fixed set of ephemeral build outputs.
func (p *Pipeline) removeArtifacts(_ context.Context, handle *project.Handle) StepResult {
	var result StepResult

	screenshots := filepath.Join(handle.Dir, project.ScreenshotsDir)
	if _, err := os.Stat(screenshots); err == nil {
		if err := os.RemoveAll(screenshots); err != nil {
			result.Err = fmt.Errorf("failed to remove screenshots directory: %w", err)
			return result
		}
		result.Changed = true
	}

	pdf := filepath.Join(handle.Dir, project.RenderedPDF)
	if _, err := os.Stat(pdf); err == nil {
		if err := os.Remove(pdf); err != nil {
			result.Err = fmt.Errorf("failed to remove rendered PDF: %w", err)
			return result
		}
		result.Changed = true
	}

	return result
}
