package compiler

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/conneroisu/deckgen/internal/structure"
)

// parseMarkup parses compiled markup the way it gets inserted: as a fragment
// inside the slide container.
func parseMarkup(t *testing.T, markup string) []*html.Node {
	t.Helper()

	nodes, err := html.ParseFragment(strings.NewReader(markup), &html.Node{
		Type:     html.ElementNode,
		Data:     "div",
		DataAtom: atom.Div,
	})
	require.NoError(t, err)

	return nodes
}

func walk(nodes []*html.Node, visit func(*html.Node)) {
	var rec func(*html.Node)
	rec = func(n *html.Node) {
		visit(n)
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			rec(child)
		}
	}
	for _, n := range nodes {
		rec(n)
	}
}

// leafSections counts section elements with no section children — the actual
// slides of the deck.
func leafSections(nodes []*html.Node) int {
	count := 0
	walk(nodes, func(n *html.Node) {
		if n.Type != html.ElementNode || n.DataAtom != atom.Section {
			return
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			if child.Type == html.ElementNode && child.DataAtom == atom.Section {
				return
			}
		}
		count++
	})

	return count
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}

	return ""
}

func sectionsByClass(nodes []*html.Node, class string) []*html.Node {
	var found []*html.Node
	walk(nodes, func(n *html.Node) {
		if n.Type == html.ElementNode && n.DataAtom == atom.Section {
			for _, c := range strings.Fields(attr(n, "class")) {
				if c == class {
					found = append(found, n)
				}
			}
		}
	})

	return found
}

func mustParse(t *testing.T, expr string) structure.Layout {
	t.Helper()

	layout, err := structure.Parse(0, false, expr)
	require.NoError(t, err)

	return layout
}

func TestCompileReferenceStructure(t *testing.T) {
	// "1,d,3,1" is the canonical mixed layout: title, divider, stack of
	// three, one ordinary slide.
	deck := Compile(mustParse(t, "1,d,3,1"))

	assert.Equal(t, 6, deck.SlideCount)

	nodes := parseMarkup(t, deck.Markup)
	assert.Equal(t, 6, leafSections(nodes))
	assert.Len(t, sectionsByClass(nodes, "divider-slide"), 1)
	assert.Len(t, sectionsByClass(nodes, "title-slide"), 1)

	stacks := sectionsByClass(nodes, "stack")
	require.Len(t, stacks, 1)
	assert.Equal(t, "slide-3", attr(stacks[0], "id"))
	assert.Equal(t, 3, leafSections([]*html.Node{stacks[0]}))
}

func TestCompileSlideCountMatchesLeafSections(t *testing.T) {
	exprs := []string{"1", "5", "d", "1,d,3,1", "2,2,2", "d,1,d,1", "1,10"}

	for _, expr := range exprs {
		t.Run(expr, func(t *testing.T) {
			layout := mustParse(t, expr)
			deck := Compile(layout)

			assert.Equal(t, layout.SlideCount(), deck.SlideCount)
			assert.Equal(t, deck.SlideCount, leafSections(parseMarkup(t, deck.Markup)))
		})
	}
}

func TestCompileTitleSlideOnlyAtFirstPosition(t *testing.T) {
	// First single gets the title styling.
	nodes := parseMarkup(t, Compile(mustParse(t, "1,1,1")).Markup)
	titles := sectionsByClass(nodes, "title-slide")
	require.Len(t, titles, 1)
	assert.Equal(t, "slide-1", attr(titles[0], "id"))

	// A single not at horizontal position 1 is an ordinary slide.
	nodes = parseMarkup(t, Compile(mustParse(t, "d,1")).Markup)
	assert.Empty(t, sectionsByClass(nodes, "title-slide"))

	// A stack at position 1 is not a title slide either.
	nodes = parseMarkup(t, Compile(mustParse(t, "3,1")).Markup)
	assert.Empty(t, sectionsByClass(nodes, "title-slide"))
}

func TestCompileDividerNumbering(t *testing.T) {
	nodes := parseMarkup(t, Compile(mustParse(t, "d,1,d,d")).Markup)

	dividers := sectionsByClass(nodes, "divider-slide")
	require.Len(t, dividers, 3)
	for i, divider := range dividers {
		assert.Equal(t, "divider-"+string(rune('1'+i)), attr(divider, "id"))
	}
}

func TestCompileStackIdentifiers(t *testing.T) {
	nodes := parseMarkup(t, Compile(mustParse(t, "1,3")).Markup)

	stacks := sectionsByClass(nodes, "stack")
	require.Len(t, stacks, 1)
	assert.Equal(t, "slide-2", attr(stacks[0], "id"))

	var ids []string
	walk([]*html.Node{stacks[0]}, func(n *html.Node) {
		if n.Type == html.ElementNode && n.DataAtom == atom.Section && n != stacks[0] {
			ids = append(ids, attr(n, "id"))
		}
	})
	assert.Equal(t, []string{"slide-2-1", "slide-2-2", "slide-2-3"}, ids)
}

func TestCompileIdentifiersUnique(t *testing.T) {
	nodes := parseMarkup(t, Compile(mustParse(t, "1,d,3,2,1,d")).Markup)

	seen := make(map[string]bool)
	walk(nodes, func(n *html.Node) {
		if n.Type != html.ElementNode || n.DataAtom != atom.Section {
			return
		}
		id := attr(n, "id")
		assert.NotEmpty(t, id)
		assert.False(t, seen[id], "duplicate identifier %s", id)
		seen[id] = true
	})
}

func TestCompileDeterministic(t *testing.T) {
	layout := mustParse(t, "1,d,3,1")

	first := Compile(layout)
	second := Compile(layout)

	assert.Equal(t, first, second)
}

func TestCompileEmptyLayout(t *testing.T) {
	deck := Compile(structure.Layout{})

	assert.Zero(t, deck.SlideCount)
	assert.Empty(t, deck.Markup)
}
