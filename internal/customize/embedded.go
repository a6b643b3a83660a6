package customize

import (
	"regexp"
	"strings"

	"github.com/ohler55/ojg/oj"
)

// ConfigMarker identifies the script block carrying the embedded deck
// configuration. The payload is a JSON-like object assigned to this name,
// with at least deck.slug, deck.title, and deck.slide_count fields.
const ConfigMarker = "var deckConfig"

var (
	slugFieldRe  = regexp.MustCompile(`"slug"\s*:\s*"(?:[^"\\]|\\.)*"`)
	titleFieldRe = regexp.MustCompile(`"title"\s*:\s*"(?:[^"\\]|\\.)*"`)
)

// embeddedConfig is the tagged result of parsing the config payload: either
// a structured record (the surrounding assignment text preserved in prefix
// and suffix) or the raw script text when the payload is not valid JSON.
//
// The raw tier carries reduced guarantees: only the slug and title fields are
// substituted, and the slide count stays stale. That degradation is the
// price of never hard-failing a run over a malformed template.
type embeddedConfig struct {
	record map[string]interface{} // nil in the raw tier
	prefix string
	suffix string
	raw    string
}

// structured reports whether the payload parsed as a JSON object.
func (c embeddedConfig) structured() bool {
	return c.record != nil
}

// parseEmbeddedConfig extracts the JSON object assigned inside the script
// text. Anything that does not parse as an object drops to the raw tier.
func parseEmbeddedConfig(text string) embeddedConfig {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return embeddedConfig{raw: text}
	}

	val, err := oj.ParseString(text[start : end+1])
	if err != nil {
		return embeddedConfig{raw: text}
	}

	record, ok := val.(map[string]interface{})
	if !ok {
		return embeddedConfig{raw: text}
	}

	return embeddedConfig{
		record: record,
		prefix: text[:start],
		suffix: text[end+1:],
	}
}

// rewrite produces the new script text with the deck identity applied.
func (c embeddedConfig) rewrite(slug, title string, slideCount int) string {
	if !c.structured() {
		// ReplaceAllStringFunc keeps $ in titles from being read as a
		// capture-group reference.
		out := slugFieldRe.ReplaceAllStringFunc(c.raw, func(string) string {
			return `"slug": ` + oj.JSON(slug)
		})
		out = titleFieldRe.ReplaceAllStringFunc(out, func(string) string {
			return `"title": ` + oj.JSON(title)
		})

		return out
	}

	deck, ok := c.record["deck"].(map[string]interface{})
	if !ok {
		deck = make(map[string]interface{})
		c.record["deck"] = deck
	}

	deck["slug"] = slug
	deck["title"] = title
	deck["slide_count"] = int64(slideCount)

	// Sorted keys keep re-runs byte-stable.
	return c.prefix + oj.JSON(c.record, &oj.Options{Sort: true, Indent: 2}) + c.suffix
}
