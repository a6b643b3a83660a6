// Package compiler renders a deck layout into nested slide markup.
//
// The emitted markup is the interior of the deck's slide container: one
// top-level <section> per horizontal position, with vertical stacks nested as
// inner sections. Identifiers are stable across re-renders of the same
// layout: slide-<h> for horizontal units, slide-<h>-<v> for stacked slides,
// divider-<k> for section breaks.
package compiler

import (
	"fmt"
	"strings"

	"github.com/conneroisu/deckgen/internal/structure"
)

// CompiledDeck is the rendered markup plus the derived slide count.
type CompiledDeck struct {
	Markup     string
	SlideCount int
}

// Compile renders a layout into deck markup. It is a deterministic pure
// function of its input; layouts are validated by the structure package
// before they get here.
func Compile(layout structure.Layout) CompiledDeck {
	var b strings.Builder

	horizontal := 1
	divider := 1

	for _, group := range layout {
		switch group.Kind {
		case structure.KindDivider:
			writeDivider(&b, divider)
			divider++
			horizontal++
		case structure.KindStack:
			writeStack(&b, horizontal, group.Size)
			horizontal++
		default:
			// The first horizontal position is the title slide. This is a
			// structural rule, not a configurable one.
			if horizontal == 1 {
				writeTitle(&b)
			} else {
				writeSingle(&b, horizontal)
			}
			horizontal++
		}
	}

	return CompiledDeck{
		Markup:     b.String(),
		SlideCount: layout.SlideCount(),
	}
}

func writeTitle(b *strings.Builder) {
	b.WriteString("<section id=\"slide-1\" class=\"title-slide\">\n")
	b.WriteString("  <h1>Title</h1>\n")
	b.WriteString("  <p class=\"subtitle\">Subtitle</p>\n")
	b.WriteString("</section>\n")
}

func writeDivider(b *strings.Builder, k int) {
	fmt.Fprintf(b, "<section id=\"divider-%d\" class=\"divider-slide\">\n", k)
	fmt.Fprintf(b, "  <h2>Section %d</h2>\n", k)
	b.WriteString("</section>\n")
}

func writeSingle(b *strings.Builder, h int) {
	fmt.Fprintf(b, "<section id=\"slide-%d\">\n", h)
	fmt.Fprintf(b, "  <h2>Slide %d</h2>\n", h)
	b.WriteString("</section>\n")
}

func writeStack(b *strings.Builder, h, n int) {
	fmt.Fprintf(b, "<section id=\"slide-%d\" class=\"stack\">\n", h)
	for v := 1; v <= n; v++ {
		fmt.Fprintf(b, "  <section id=\"slide-%d-%d\">\n", h, v)
		fmt.Fprintf(b, "    <h3>Slide %d.%d</h3>\n", h, v)
		b.WriteString("  </section>\n")
	}
	b.WriteString("</section>\n")
}
