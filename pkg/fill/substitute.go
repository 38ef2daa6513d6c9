package fill

import (
	"regexp"
	"sort"
	"strings"
)

// BreakSpec names the element pair used to rewrite embedded newlines for one
// container family. Breaks are siblings of text elements inside a run, so a
// newline closes the current text element, emits a break, and opens a new
// text element.
type BreakSpec struct {
	TextTag  string
	BreakTag string
}

// Sequence returns the markup inserted in place of one newline.
func (b BreakSpec) Sequence() string {
	return "</" + b.TextTag + "><" + b.BreakTag + "/><" + b.TextTag + ">"
}

var (
	// WordBreaks is the element pair for Word-family documents.
	WordBreaks = BreakSpec{TextTag: "w:t", BreakTag: "w:br"}
	// DeckBreaks is the element pair for slide decks.
	DeckBreaks = BreakSpec{TextTag: "a:t", BreakTag: "a:br"}
)

var (
	xmlEscaper    = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;", "'", "&apos;")
	blankLineRuns = regexp.MustCompile(`\n{2,}`)
)

// EscapeXML escapes the five XML metacharacters.
func EscapeXML(s string) string {
	return xmlEscaper.Replace(s)
}

// NormalizeValue trims newline and whitespace edges and collapses runs of
// two or more newlines into one, so a multi-paragraph value never produces
// stacked blank lines in the output.
func NormalizeValue(s string) string {
	s = strings.Trim(s, "\n\r \t")
	return blankLineRuns.ReplaceAllString(s, "\n")
}

// RenderValue prepares a replacement value for splicing into markup:
// escaped, edge-trimmed, blank-run collapsed, with each remaining newline
// rewritten into the break sequence.
func RenderValue(value string, br BreakSpec) string {
	value = NormalizeValue(EscapeXML(value))
	return strings.ReplaceAll(value, "\n", br.Sequence())
}

// Substitute resolves placeholders in one XML text buffer against the
// replacement map and returns the new text plus the sorted distinct names
// that matched. Names match exactly and case-sensitively; a region whose
// logical name has no entry is left untouched for Cleanup.
//
// The literal form {{name}} is tried first for every key, which covers the
// common case where the authoring tool kept the placeholder contiguous. A
// scanner pass then resolves occurrences split by markup, splicing
// right-to-left so pending offsets stay valid.
func Substitute(text string, vals Values, br BreakSpec) (string, []string) {
	matched := make(map[string]bool)

	names := make([]string, 0, len(vals))
	for name := range vals {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		literal := "{{" + name + "}}"
		if strings.Contains(text, literal) {
			text = strings.ReplaceAll(text, literal, RenderValue(vals[name], br))
			matched[name] = true
		}
	}

	starts := scanStarts(text)
	for i := len(starts) - 1; i >= 0; i-- {
		r, ok := matchRegion(text, starts[i])
		if !ok {
			continue
		}
		value, ok := vals[r.Name]
		if !ok {
			continue
		}
		text = text[:r.Start] + RenderValue(value, br) + text[r.End:]
		matched[r.Name] = true
	}

	result := make([]string, 0, len(matched))
	for name := range matched {
		result = append(result, name)
	}
	sort.Strings(result)
	return text, result
}
