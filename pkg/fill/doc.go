// Package fill provides a placeholder-filling engine for zipped Office
// documents (DOCX word documents and PPTX slide decks).
//
// The engine locates placeholders of the form {{name}}, substitutes them from
// a flat replacement map, converts embedded newlines into the format's native
// break elements, cleans up placeholders that no value was supplied for, and,
// in slide decks, removes slides whose visible content became empty.
//
// # Quick Start
//
// The simplest way to fill a template on disk is the package-level function:
//
//	vals := fill.Values{
//	    "date_range": "Aug 15 - Aug 21",
//	    "highlight":  "Regulators tightened disclosure rules.",
//	}
//
//	outcome, err := fill.FillFile("template.docx", "output.docx", vals)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	log.Printf("filled %d placeholders", len(outcome.Matched))
//
// For repeated fills, prepare once and fill many times. Every Fill starts
// from the pristine template bytes, so one Template can serve concurrent
// fills with different values:
//
//	tmpl, err := fill.Prepare(templateBytes)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	output, outcome, err := tmpl.Fill(vals)
//
// # Placeholder Syntax
//
// Placeholders are literal names in double curly braces:
//
//	{{date_range}}
//	{{environmental_news_title_1}}
//
// There are no expressions, functions, or control structures; a placeholder
// either has a value in the map or it does not. The scanner tolerates
// placeholders that the editing application split across formatting runs
// ({{da</w:t>...<w:t>te}} still matches), and values are XML-escaped before
// insertion. Newlines inside a value become native break elements (<w:br/>
// in word documents, <a:br/> in slides) so multi-line values render as
// multi-line text. Placeholders without a value are deleted, and filling an
// already-filled document changes nothing.
//
// # Fill Strategies
//
// Word documents are always filled by rewriting the main document part
// (Outcome.Strategy reports "document-text"). Slide decks are parsed into an
// XML tree and filled run by run, which preserves run formatting around
// substitutions ("deck-tree"); when a slide cannot be parsed the deck falls
// back to the same textual rewrite used for word documents ("deck-text").
//
// # Slide Pruning
//
// After substitution, slides that carry no visible text are removed from the
// deck along with every reference to them: the slide part and its
// relationships, the presentation's slide list entry and relationship, the
// content-type override, and the slide count in the application properties.
// Outcome.PrunedSlides reports how many slides were removed.
//
// # Logging
//
// The package logs through a leveled logger. The default logger writes to
// stderr at Info level; replace it with SetDefaultLogger or silence it:
//
//	fill.SetDefaultLogger(fill.NewLogger(os.Stderr, fill.LogDebug))
package fill
