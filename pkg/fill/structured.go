package fill

import (
	"encoding/xml"
	"fmt"
	"sort"
	"strings"

	"reportfill/pkg/opc"
)

const drawingMLNamespace = "http://schemas.openxmlformats.org/drawingml/2006/main"

// DeckTreeFiller is the structured run-level strategy for slide decks. Each
// slide is parsed into a node tree and placeholders are resolved per
// paragraph across run boundaries, so a split {{name}} is rejoined without
// certain raw-text hazards. Any parse, encode, or round-trip failure is
// returned as an error; the caller degrades to DeckTextFiller against the
// pristine source.
type DeckTreeFiller struct {
	Logger *Logger
}

func (f *DeckTreeFiller) Strategy() string { return StrategyDeckTree }

// Fill substitutes vals into every slide via its node tree, runs the
// raw-text pass over the remaining XML parts, and prunes slides whose
// visible text is gone.
func (f *DeckTreeFiller) Fill(pkg *opc.Package, vals Values) (*Outcome, error) {
	logger := f.Logger
	if logger == nil {
		logger = DefaultLogger()
	}

	var slideNames []string
	for _, name := range pkg.Names() {
		if isSlidePart(name) {
			slideNames = append(slideNames, name)
		}
	}

	// availability probe: every slide must round-trip through the node
	// tree with its visible text intact before any edit is made
	trees := make(map[string]*slideTree, len(slideNames))
	for _, name := range slideNames {
		text, err := pkg.Text(name)
		if err != nil {
			return nil, err
		}
		tree, err := parseSlideTree(text)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		encoded, err := tree.encode()
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", name, err)
		}
		want, err := ExtractText(text)
		if err != nil {
			return nil, fmt.Errorf("extract %s: %w", name, err)
		}
		got, err := ExtractText(encoded)
		if err != nil {
			return nil, fmt.Errorf("extract re-encoded %s: %w", name, err)
		}
		if got != want {
			return nil, fmt.Errorf("round-trip text drift in %s", name)
		}
		trees[name] = tree
	}

	matched := make(map[string]bool)
	for _, name := range slideNames {
		for _, n := range fillTree(trees[name], vals) {
			matched[n] = true
		}
		encoded, err := trees[name].encode()
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", name, err)
		}
		pkg.SetText(name, encoded)
	}

	// placeholders outside the slides themselves still go through the
	// raw-text pass, so the whole package comes out clean
	for _, name := range pkg.Names() {
		if isSlidePart(name) || !strings.HasSuffix(name, ".xml") {
			continue
		}
		text, err := pkg.Text(name)
		if err != nil {
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
		"slides":  len(slideNames),
		"matched": len(names),
		"pruned":  pruned,
	}).Debug("deck slide trees filled")

	return &Outcome{Strategy: f.Strategy(), Matched: names, PrunedSlides: pruned}, nil
}

// fillTree resolves placeholders in every paragraph of one slide tree and
// returns the names that matched.
func fillTree(tree *slideTree, vals Values) []string {
	var matched []string
	walkNodes(tree.root, func(n *xmlNode) bool {
		if isNamed(n, drawingMLNamespace, "p") {
			matched = append(matched, fillParagraph(n, vals)...)
			return false
		}
		return true
	})
	return matched
}

// runSlot tracks one text run of a paragraph while placeholder spans are
// spliced across run boundaries.
type runSlot struct {
	run  *xmlNode // the run element, a direct child of the paragraph
	text *xmlNode // its text element
	val  string   // working text
}

// fillParagraph concatenates the paragraph's run texts, resolves every
// placeholder region against vals, and redistributes the result: the first
// affected run takes the replacement, intermediate runs are blanked, the
// last keeps its suffix. Unresolved regions are spliced out. Embedded
// newlines become break nodes between cloned sibling runs.
func fillParagraph(p *xmlNode, vals Values) []string {
	var slots []*runSlot
	for _, child := range p.Children {
		if !isNamed(child, drawingMLNamespace, "r") {
			continue
		}
		t := findChild(child, drawingMLNamespace, "t")
		if t == nil {
			continue
		}
		slots = append(slots, &runSlot{run: child, text: t, val: nodeText(t)})
	}
	if len(slots) == 0 {
		return nil
	}

	combined := ""
	for _, s := range slots {
		combined += s.val
	}
	if !strings.Contains(combined, "{{") {
		return nil
	}

	var matched []string
	starts := scanStarts(combined)
	for i := len(starts) - 1; i >= 0; i-- {
		reg, ok := matchRegion(combined, starts[i])
		if !ok {
			continue
		}
		rendered := ""
		if value, ok := vals[reg.Name]; ok {
			rendered = NormalizeValue(value)
			matched = append(matched, reg.Name)
		}
		combined = spliceSlots(slots, reg, rendered)
	}

	// write texts back, last run first so insertion points stay stable
	for i := len(slots) - 1; i >= 0; i-- {
		s := slots[i]
		segments := strings.Split(s.val, "\n")
		setNodeText(s.text, segments[0])
		if len(segments) == 1 {
			continue
		}
		runIdx := childIndex(p, s.run)
		if runIdx == -1 {
			continue
		}
		var inserted []*xmlNode
		for _, seg := range segments[1:] {
			br := &xmlNode{Name: xml.Name{Space: drawingMLNamespace, Local: "br"}}
			twin := cloneNode(s.run)
			if twinText := findChild(twin, drawingMLNamespace, "t"); twinText != nil {
				setNodeText(twinText, seg)
			}
			inserted = append(inserted, br, twin)
		}
		children := make([]*xmlNode, 0, len(p.Children)+len(inserted))
		children = append(children, p.Children[:runIdx+1]...)
		children = append(children, inserted...)
		children = append(children, p.Children[runIdx+1:]...)
		p.Children = children
	}
	return matched
}

// spliceSlots replaces the region's span with rendered across the slots it
// covers and returns the rebuilt combined text.
func spliceSlots(slots []*runSlot, reg Region, rendered string) string {
	offset := 0
	first, last := -1, -1
	firstOff, lastOff := 0, 0
	for i, s := range slots {
		next := offset + len(s.val)
		if first == -1 && reg.Start < next {
			first, firstOff = i, offset
		}
		if reg.End-1 < next {
			last, lastOff = i, offset
			break
		}
		offset = next
	}

	if first != -1 && last != -1 {
		prefix := slots[first].val[:reg.Start-firstOff]
		suffix := slots[last].val[reg.End-lastOff:]
		if first == last {
			slots[first].val = prefix + rendered + suffix
		} else {
			slots[first].val = prefix + rendered
			for k := first + 1; k < last; k++ {
				slots[k].val = ""
			}
			slots[last].val = suffix
		}
	}

	var rebuilt strings.Builder
	for _, s := range slots {
		rebuilt.WriteString(s.val)
	}
	return rebuilt.String()
}
