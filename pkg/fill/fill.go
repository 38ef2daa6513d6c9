package fill

import (
	"os"
	"sort"

	"reportfill/pkg/opc"
)

// Values is the replacement map for one fill operation: logical placeholder
// name to replacement text. Matching is exact and case-sensitive; values may
// contain embedded newlines.
type Values map[string]string

// Names returns the map's keys in sorted order.
func (v Values) Names() []string {
	names := make([]string, 0, len(v))
	for name := range v {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Strategy names reported in Outcome.Strategy.
const (
	StrategyDocumentText = "document-text"
	StrategyDeckText     = "deck-text"
	StrategyDeckTree     = "deck-tree"
)

// Outcome describes one completed fill operation.
type Outcome struct {
	Strategy     string   // which filler produced the output
	Matched      []string // distinct placeholder names that were substituted
	PrunedSlides int      // slides removed because their content became empty
}

// Filler substitutes a replacement map into an opened package in place.
// Implementations cover the two container families and the two slide-deck
// strategies.
type Filler interface {
	Fill(pkg *opc.Package, vals Values) (*Outcome, error)
	Strategy() string
}

// Template is a validated template package ready to be filled. Every Fill
// starts over from the original archive bytes, so one Template is safe to
// share across goroutines.
type Template struct {
	source []byte
	kind   opc.Kind
	logger *Logger
}

// Prepare validates the archive and detects its container family. It fails
// with a CorruptArchiveError for unreadable input and a MissingPartError
// when neither primary part is present.
func Prepare(b []byte) (*Template, error) {
	return PrepareWithLogger(b, DefaultLogger())
}

// PrepareWithLogger is Prepare with an injected logger.
func PrepareWithLogger(b []byte, logger *Logger) (*Template, error) {
	pkg, err := opc.Open(b)
	if err != nil {
		return nil, err
	}
	kind, err := pkg.Kind()
	if err != nil {
		return nil, err
	}
	source := make([]byte, len(b))
	copy(source, b)
	if logger == nil {
		logger = DefaultLogger()
	}
	return &Template{source: source, kind: kind, logger: logger}, nil
}

// Kind reports the detected container family.
func (t *Template) Kind() opc.Kind {
	return t.kind
}

// fill runs one complete operation and returns the mutated package. Slide
// decks try the structured run-level strategy first; any error on that path
// degrades to the raw-text strategy against the pristine source.
func (t *Template) fill(vals Values) (*opc.Package, *Outcome, error) {
	pkg, err := opc.Open(t.source)
	if err != nil {
		return nil, nil, err
	}

	if t.kind == opc.KindSlideDeck {
		tree := &DeckTreeFiller{Logger: t.logger}
		outcome, err := tree.Fill(pkg, vals)
		if err == nil {
			return pkg, outcome, nil
		}
		t.logger.WithField("reason", err.Error()).Warn("structured slide strategy unavailable, using text strategy")

		if pkg, err = opc.Open(t.source); err != nil {
			return nil, nil, err
		}
		outcome, err = (&DeckTextFiller{Logger: t.logger}).Fill(pkg, vals)
		if err != nil {
			return nil, nil, err
		}
		return pkg, outcome, nil
	}

	outcome, err := (&DocumentFiller{Logger: t.logger}).Fill(pkg, vals)
	if err != nil {
		return nil, nil, err
	}
	return pkg, outcome, nil
}

// Fill substitutes vals into a fresh copy of the template and returns the
// serialized archive.
func (t *Template) Fill(vals Values) ([]byte, *Outcome, error) {
	pkg, outcome, err := t.fill(vals)
	if err != nil {
		return nil, nil, err
	}
	out, err := pkg.Bytes()
	if err != nil {
		return nil, nil, err
	}
	return out, outcome, nil
}

// FillToFile fills the template and publishes the archive atomically at
// path. On any failure no partial output is visible at path.
func (t *Template) FillToFile(path string, vals Values) (*Outcome, error) {
	pkg, outcome, err := t.fill(vals)
	if err != nil {
		return nil, err
	}
	if err := pkg.WriteFile(path); err != nil {
		return nil, err
	}
	return outcome, nil
}

// FillFile reads a template archive, fills it with vals, and atomically
// writes the result to outputPath.
func FillFile(templatePath, outputPath string, vals Values) (*Outcome, error) {
	b, err := os.ReadFile(templatePath)
	if err != nil {
		return nil, opc.NewIOError("read", templatePath, err)
	}
	t, err := Prepare(b)
	if err != nil {
		return nil, err
	}
	return t.FillToFile(outputPath, vals)
}
