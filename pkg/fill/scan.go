package fill

import "regexp"

// Region is one {{...}} placeholder span inside a text buffer. Start and End
// delimit the half-open byte range including both delimiter pairs; Name is
// the span's content with every markup tag removed.
type Region struct {
	Start int
	End   int
	Name  string
}

var tagPattern = regexp.MustCompile(`<[^>]+>`)

// StripTags removes every <...> tag from a raw span, recovering the logical
// text that the authoring tool may have split across formatting elements.
func StripTags(s string) string {
	return tagPattern.ReplaceAllString(s, "")
}

// scanStarts returns the index of every literal "{{" in text, including
// overlapping runs of braces.
func scanStarts(text string) []int {
	var starts []int
	for i := 0; i+1 < len(text); i++ {
		if text[i] == '{' && text[i+1] == '{' {
			starts = append(starts, i)
		}
	}
	return starts
}

// matchRegion walks forward from the opening delimiter at start, tracking a
// nesting depth counter: an inner "{{" increments, an inner "}}" decrements,
// and a "}}" at depth zero closes the region. An opening with no matching
// close is not a region. The walk always runs against the caller's current
// buffer, so passes that splice text right-to-left may reuse start indexes
// collected up front.
func matchRegion(text string, start int) (Region, bool) {
	depth := 0
	pos := start + 2
	for pos+1 < len(text) {
		if text[pos] == '}' && text[pos+1] == '}' {
			if depth == 0 {
				end := pos + 2
				return Region{
					Start: start,
					End:   end,
					Name:  StripTags(text[start+2 : end-2]),
				}, true
			}
			depth--
		} else if text[pos] == '{' && text[pos+1] == '{' {
			depth++
		}
		pos++
	}
	return Region{}, false
}

// Scan returns every complete placeholder region in text, in source order.
// Callers that mutate the buffer must process regions in reverse source
// order so earlier offsets stay valid.
//
// Depth balancing is a compatibility constraint: nested braces such as
// {{{{name}}}} yield overlapping candidates, and the innermost complete
// pair carries the resolvable name.
func Scan(text string) []Region {
	var regions []Region
	for _, start := range scanStarts(text) {
		if r, ok := matchRegion(text, start); ok {
			regions = append(regions, r)
		}
	}
	return regions
}
