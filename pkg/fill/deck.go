package fill

import (
	"sort"
	"strings"

	"reportfill/pkg/opc"
)

// DeckTextFiller is the raw-text strategy for slide decks: substitution and
// cleanup over every XML part, then pruning of slides left without visible
// text. It is the guaranteed fallback when the structured strategy is
// unavailable.
type DeckTextFiller struct {
	Logger *Logger
}

func (f *DeckTextFiller) Strategy() string { return StrategyDeckText }

// Fill substitutes vals into every XML part of the deck in place, removes
// unresolved placeholders, and prunes slides whose visible text is gone.
func (f *DeckTextFiller) Fill(pkg *opc.Package, vals Values) (*Outcome, error) {
	logger := f.Logger
	if logger == nil {
		logger = DefaultLogger()
	}

	matched := make(map[string]bool)
	for _, name := range pkg.Names() {
		if !strings.HasSuffix(name, ".xml") {
			continue
		}
		text, err := pkg.Text(name)
		if err != nil {
			// part is not UTF-8 text; copy through unmodified
			continue
		}
		out, names := Substitute(text, vals, DeckBreaks)
		out = Cleanup(out, vals, DeckBreaks)
		if out != text {
			pkg.SetText(name, out)
		}
		for _, n := range names {
			matched[n] = true
		}
	}

	pruned, err := Prune(pkg, EmptySlides(pkg))
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(matched))
	for n := range matched {
		names = append(names, n)
	}
	sort.Strings(names)

	logger.WithFields(Fields{
		"matched": len(names),
		"values":  len(vals),
		"pruned":  pruned,
	}).Debug("deck parts filled")

	return &Outcome{Strategy: f.Strategy(), Matched: names, PrunedSlides: pruned}, nil
}
