// Package structure parses the declarative deck layout grammar into a typed
// sequence of slide groups.
//
// The grammar accepts either a plain slide count (sugar for that many single
// slides) or a comma-separated token list where "d" marks a section divider
// and a positive integer n produces a single slide (n == 1) or a vertical
// stack of n slides. The two forms are mutually exclusive; supplying neither
// yields the default layout of five single slides.
package structure

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/conneroisu/deckgen/internal/errors"
)

// DividerToken is the literal grammar token marking a section divider.
const DividerToken = "d"

// DefaultSlideCount is the layout used when neither a count nor an explicit
// structure expression is supplied.
const DefaultSlideCount = 5

// GroupKind discriminates the slide group variants.
type GroupKind int

const (
	// KindSingle is one horizontal slide. The first single in a deck is
	// rendered as the title slide.
	KindSingle GroupKind = iota
	// KindDivider is a section-break slide carrying a sequential number.
	KindDivider
	// KindStack is a vertical group of slides under one horizontal position.
	KindStack
)

// String returns the grammar-facing name of the kind.
func (k GroupKind) String() string {
	switch k {
	case KindSingle:
		return "single"
	case KindDivider:
		return "divider"
	case KindStack:
		return "stack"
	default:
		return "unknown"
	}
}

// SlideGroup is one element of a deck layout.
type SlideGroup struct {
	Kind GroupKind
	// Size is the number of slides in a stack. It is 1 for singles and
	// dividers.
	Size int
}

// Single returns a one-slide group.
func Single() SlideGroup {
	return SlideGroup{Kind: KindSingle, Size: 1}
}

// Divider returns a section-break group.
func Divider() SlideGroup {
	return SlideGroup{Kind: KindDivider, Size: 1}
}

// Stack returns a vertical group of n slides. n must be >= 1.
func Stack(n int) SlideGroup {
	return SlideGroup{Kind: KindStack, Size: n}
}

// Layout is the ordered sequence of slide groups describing a deck.
type Layout []SlideGroup

// SlideCount returns the structural sum of leaf slides: one per single or
// divider, n per stack of n.
func (l Layout) SlideCount() int {
	total := 0
	for _, g := range l {
		total += g.Size
	}

	return total
}

// Tokens renders the layout back into its grammar form, e.g. "1,d,3,1".
func (l Layout) Tokens() string {
	parts := make([]string, 0, len(l))
	for _, g := range l {
		if g.Kind == KindDivider {
			parts = append(parts, DividerToken)
			continue
		}
		parts = append(parts, strconv.Itoa(g.Size))
	}

	return strings.Join(parts, ",")
}

// Parse produces a Layout from a plain slide count or an explicit structure
// expression. count is honored only when countSet is true, so an explicit
// "--slides 0" is an error rather than a silent fall back to the default.
func Parse(count int, countSet bool, expr string) (Layout, error) {
	if countSet && expr != "" {
		return nil, errors.ErrExclusiveOptions("slides", "structure")
	}

	if expr != "" {
		return parseExpr(expr)
	}

	if !countSet {
		count = DefaultSlideCount
	}
	if count <= 0 {
		return nil, errors.NewConfigError(
			errors.ErrCodeBadToken,
			fmt.Sprintf("slide count must be a positive integer, got %d", count),
		)
	}

	layout := make(Layout, 0, count)
	for i := 0; i < count; i++ {
		layout = append(layout, Single())
	}

	return layout, nil
}

// parseExpr validates and converts a comma-separated token list.
func parseExpr(expr string) (Layout, error) {
	tokens := strings.Split(expr, ",")
	layout := make(Layout, 0, len(tokens))

	for _, raw := range tokens {
		token := strings.TrimSpace(raw)
		if token == DividerToken {
			layout = append(layout, Divider())
			continue
		}

		n, err := strconv.Atoi(token)
		if err != nil || n <= 0 {
			return nil, errors.ErrBadToken(token)
		}

		if n == 1 {
			layout = append(layout, Single())
		} else {
			layout = append(layout, Stack(n))
		}
	}

	return layout, nil
}
