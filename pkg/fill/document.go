package fill

import (
	"reportfill/pkg/opc"
)

// DocumentFiller is the raw-text strategy for Word-style packages: one
// substitution pass and one cleanup pass over the primary document part.
type DocumentFiller struct {
	Logger *Logger
}

func (f *DocumentFiller) Strategy() string { return StrategyDocumentText }

// Fill substitutes vals into word/document.xml in place.
func (f *DocumentFiller) Fill(pkg *opc.Package, vals Values) (*Outcome, error) {
	logger := f.Logger
	if logger == nil {
		logger = DefaultLogger()
	}

	text, err := pkg.Text(opc.DocumentPart)
	if err != nil {
		return nil, err
	}

	out, matched := Substitute(text, vals, WordBreaks)
	out = Cleanup(out, vals, WordBreaks)
	pkg.SetText(opc.DocumentPart, out)

	logger.WithFields(Fields{
		"matched": len(matched),
		"values":  len(vals),
	}).Debug("document part filled")

	return &Outcome{Strategy: f.Strategy(), Matched: matched}, nil
}
