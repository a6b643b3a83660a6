// Package customize rewrites a materialized deck's markup entry in place:
// the template's placeholder slides are replaced with compiled markup, the
// document title is set, and the embedded configuration block is brought in
// line with the deck's slug, title, and slide count.
package customize

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/natefinch/atomic"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/conneroisu/deckgen/internal/compiler"
	"github.com/conneroisu/deckgen/internal/errors"
	"github.com/conneroisu/deckgen/internal/logging"
	"github.com/conneroisu/deckgen/internal/project"
	"github.com/conneroisu/deckgen/internal/structure"
)

// SlidesContainerClass marks the element holding the deck's slides in the
// template markup.
const SlidesContainerClass = "slides"

// Options carries the deck identity applied to the template.
type Options struct {
	Title  string
	Slug   string
	Layout structure.Layout
}

// Customizer applies deck options to a materialized template.
type Customizer struct {
	logger logging.Logger
}

// New creates a customizer.
func New(logger logging.Logger) *Customizer {
	return &Customizer{logger: logger.WithComponent("customizer")}
}

// Apply rewrites the handle's markup entry. It is idempotent on the title and
// slug fields: running it twice with identical inputs yields stable output.
func (c *Customizer) Apply(ctx context.Context, handle *project.Handle, opts Options) error {
	raw, err := os.ReadFile(handle.MarkupPath())
	if err != nil {
		return fmt.Errorf("failed to read markup entry: %w", err)
	}

	doc, err := html.Parse(bytes.NewReader(raw))
	if err != nil {
		return errors.NewInternalError(
			errors.ErrCodeMarkupUnparsed,
			"failed to parse markup entry",
			err,
		).WithPath(handle.MarkupPath())
	}

	deck := compiler.Compile(opts.Layout)

	if err := c.replaceSlides(doc, deck.Markup); err != nil {
		return err
	}

	setDocumentTitle(doc, opts.Title)

	c.rewriteEmbeddedConfig(ctx, doc, opts, deck.SlideCount)

	var buf bytes.Buffer
	if err := html.Render(&buf, doc); err != nil {
		return fmt.Errorf("failed to render markup: %w", err)
	}

	if err := atomic.WriteFile(handle.MarkupPath(), &buf); err != nil {
		return fmt.Errorf("failed to write markup entry: %w", err)
	}

	c.logger.Info(ctx, "customized deck markup",
		"slug", opts.Slug,
		"title", opts.Title,
		"slide_count", deck.SlideCount)

	return nil
}

// replaceSlides clears the slide container and inserts the compiled markup.
func (c *Customizer) replaceSlides(doc *html.Node, markup string) error {
	container := findNode(doc, func(n *html.Node) bool {
		return n.Type == html.ElementNode && hasClass(n, SlidesContainerClass)
	})
	if container == nil {
		return errors.NewInternalError(
			errors.ErrCodeMarkupUnparsed,
			"markup entry has no slide container",
			nil,
		)
	}

	for container.FirstChild != nil {
		container.RemoveChild(container.FirstChild)
	}

	nodes, err := html.ParseFragment(strings.NewReader(markup), &html.Node{
		Type:     html.ElementNode,
		Data:     "div",
		DataAtom: atom.Div,
	})
	if err != nil {
		return fmt.Errorf("failed to parse compiled markup: %w", err)
	}

	for _, n := range nodes {
		container.AppendChild(n)
	}

	return nil
}

// rewriteEmbeddedConfig updates the script block carrying the deck config.
// A missing block is tolerated: templates without one simply do not get the
// metadata, and the parse-failure tier never fails the run.
func (c *Customizer) rewriteEmbeddedConfig(ctx context.Context, doc *html.Node, opts Options, slideCount int) {
	script := findNode(doc, func(n *html.Node) bool {
		return n.Type == html.ElementNode && n.DataAtom == atom.Script &&
			strings.Contains(textContent(n), ConfigMarker)
	})
	if script == nil {
		c.logger.Warn(ctx, nil, "markup entry has no embedded config block")
		return
	}

	cfg := parseEmbeddedConfig(textContent(script))
	if !cfg.structured() {
		c.logger.Warn(ctx, nil,
			"embedded config is not valid JSON, falling back to literal substitution",
			"slug", opts.Slug)
	}

	setTextContent(script, cfg.rewrite(opts.Slug, opts.Title, slideCount))
}

// setDocumentTitle sets the <title> text, creating the element under <head>
// when the template lacks one.
func setDocumentTitle(doc *html.Node, title string) {
	node := findNode(doc, func(n *html.Node) bool {
		return n.Type == html.ElementNode && n.DataAtom == atom.Title
	})
	if node == nil {
		head := findNode(doc, func(n *html.Node) bool {
			return n.Type == html.ElementNode && n.DataAtom == atom.Head
		})
		if head == nil {
			return
		}
		node = &html.Node{Type: html.ElementNode, Data: "title", DataAtom: atom.Title}
		head.AppendChild(node)
	}

	setTextContent(node, title)
}

// DOM helpers.

func findNode(n *html.Node, pred func(*html.Node) bool) *html.Node {
	if pred(n) {
		return n
	}
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		if found := findNode(child, pred); found != nil {
			return found
		}
	}

	return nil
}

func hasClass(n *html.Node, class string) bool {
	for _, attr := range n.Attr {
		if attr.Key != "class" {
			continue
		}
		for _, c := range strings.Fields(attr.Val) {
			if c == class {
				return true
			}
		}
	}

	return false
}

func textContent(n *html.Node) string {
	var b strings.Builder
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		if child.Type == html.TextNode {
			b.WriteString(child.Data)
		}
	}

	return b.String()
}

func setTextContent(n *html.Node, text string) {
	for n.FirstChild != nil {
		n.RemoveChild(n.FirstChild)
	}
	n.AppendChild(&html.Node{Type: html.TextNode, Data: text})
}
