//go:build property
// +build property

package structure

import (
	"strconv"
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// TestStructureProperties tests grammar parsing properties
func TestStructureProperties(t *testing.T) {
	properties := gopter.NewProperties(nil)

	// Property: any list of valid tokens parses, and the slide count equals
	// the sum of the numeric tokens with dividers counting one.
	properties.Property("valid token lists parse with correct count", prop.ForAll(
		func(sizes []int) bool {
			if len(sizes) == 0 {
				return true
			}

			tokens := make([]string, 0, len(sizes))
			want := 0
			for _, size := range sizes {
				if size == 0 {
					tokens = append(tokens, DividerToken)
					want++
					continue
				}
				tokens = append(tokens, strconv.Itoa(size))
				want += size
			}

			layout, err := Parse(0, false, strings.Join(tokens, ","))
			if err != nil {
				return false
			}

			return layout.SlideCount() == want
		},
		gen.SliceOfN(8, gen.IntRange(0, 9)), // 0 encodes a divider token
	))

	// Property: parsing is stable — Tokens() of a parsed layout reparses to
	// the same layout.
	properties.Property("token rendering round-trips", prop.ForAll(
		func(sizes []int) bool {
			tokens := make([]string, 0, len(sizes))
			for _, size := range sizes {
				if size == 0 {
					tokens = append(tokens, DividerToken)
					continue
				}
				tokens = append(tokens, strconv.Itoa(size))
			}
			if len(tokens) == 0 {
				return true
			}

			first, err := Parse(0, false, strings.Join(tokens, ","))
			if err != nil {
				return false
			}

			second, err := Parse(0, false, first.Tokens())
			if err != nil {
				return false
			}

			if len(first) != len(second) {
				return false
			}
			for i := range first {
				if first[i] != second[i] {
					return false
				}
			}

			return true
		},
		gen.SliceOfN(6, gen.IntRange(0, 9)),
	))

	// Property: plain-count sugar always yields that many singles.
	properties.Property("plain count expands to singles", prop.ForAll(
		func(count int) bool {
			layout, err := Parse(count, true, "")
			if err != nil {
				return false
			}
			if len(layout) != count || layout.SlideCount() != count {
				return false
			}
			for _, group := range layout {
				if group.Kind != KindSingle {
					return false
				}
			}

			return true
		},
		gen.IntRange(1, 64),
	))

	properties.TestingRun(t)
}
