package fill

import (
	"regexp"
	"strings"
)

// Cleanup normalizes break markup left behind by substitution and removes
// every remaining placeholder region whose logical name is not a key of
// vals, splicing regions out with no stray braces or markup. Running it a
// second time on its own output is a no-op.
func Cleanup(text string, vals Values, br BreakSpec) string {
	// Deleting a region can join the surrounding markup into a new break
	// run, and dropping an empty text pair can join surrounding braces
	// into a region no earlier scan saw. Each phase can hand the other
	// new work, so both repeat until the text is stable; every rule
	// strictly shrinks the buffer, so the loop terminates.
	for {
		prev := text
		text = normalizeBreaks(text, br)

		starts := scanStarts(text)
		for i := len(starts) - 1; i >= 0; i-- {
			r, ok := matchRegion(text, starts[i])
			if !ok {
				continue
			}
			if _, used := vals[r.Name]; used {
				continue
			}
			text = text[:r.Start] + text[r.End:]
		}

		if text == prev {
			return text
		}
	}
}

// normalizeBreaks collapses runs of consecutive break sequences to one,
// drops breaks surrounded by empty text pairs, and trims break sequences
// from both ends of the buffer. Each removal can expose another candidate,
// so the rules loop until the text is stable.
func normalizeBreaks(text string, br BreakSpec) string {
	seq := br.Sequence()
	quoted := regexp.QuoteMeta(seq)
	repeated := regexp.MustCompile("(" + quoted + "){2,}")
	leading := regexp.MustCompile("^(" + quoted + ")+")
	trailing := regexp.MustCompile("(" + quoted + ")+$")
	emptyPair := "<" + br.TextTag + "></" + br.TextTag + "><" + br.BreakTag + "/><" + br.TextTag + "></" + br.TextTag + ">"

	for {
		prev := text
		text = repeated.ReplaceAllString(text, seq)
		text = strings.ReplaceAll(text, emptyPair, "")
		text = leading.ReplaceAllString(text, "")
		text = trailing.ReplaceAllString(text, "")
		if text == prev {
			return text
		}
	}
}
