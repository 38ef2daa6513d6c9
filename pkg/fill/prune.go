package fill

import (
	"encoding/xml"
	"fmt"
	"path"
	"regexp"
	"strconv"
	"strings"

	"reportfill/pkg/opc"
)

const (
	relationshipsNamespace = "http://schemas.openxmlformats.org/package/2006/relationships"
	contentTypesNamespace  = "http://schemas.openxmlformats.org/package/2006/content-types"
)

// xmlHeader is written back on every re-marshaled manifest part. The
// standalone attribute is required by the authoring tools.
const xmlHeader = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n"

// Relationship is one entry of a package relationship manifest.
type Relationship struct {
	ID         string `xml:"Id,attr"`
	Type       string `xml:"Type,attr"`
	Target     string `xml:"Target,attr"`
	TargetMode string `xml:"TargetMode,attr,omitempty"`
}

// Relationships is the collection of relationships of one manifest part.
type Relationships struct {
	XMLName      xml.Name       `xml:"Relationships"`
	Namespace    string         `xml:"xmlns,attr"`
	Relationship []Relationship `xml:"Relationship"`
}

// ContentTypeDefault maps a file extension to a content type.
type ContentTypeDefault struct {
	Extension   string `xml:"Extension,attr"`
	ContentType string `xml:"ContentType,attr"`
}

// ContentTypeOverride maps one part name to a content type.
type ContentTypeOverride struct {
	PartName    string `xml:"PartName,attr"`
	ContentType string `xml:"ContentType,attr"`
}

// ContentTypes is the package content-type manifest.
type ContentTypes struct {
	XMLName   xml.Name              `xml:"Types"`
	Namespace string                `xml:"xmlns,attr"`
	Default   []ContentTypeDefault  `xml:"Default"`
	Override  []ContentTypeOverride `xml:"Override"`
}

// slideIDEntry is one parsed element of the presentation's slide-order list,
// carrying its byte span so deletions can splice the surrounding XML without
// disturbing anything else.
type slideIDEntry struct {
	id    string
	rid   string
	start int
	end   int
}

var (
	slideIDPattern    = regexp.MustCompile(`<p:sldId\b[^>]*?(?:/>|>\s*</p:sldId>)`)
	slideRIDPattern   = regexp.MustCompile(`r:id="([^"]*)"`)
	slideNumPattern   = regexp.MustCompile(`\sid="([^"]*)"`)
	slideCountPattern = regexp.MustCompile(`<Slides>(\d+)</Slides>`)
)

func parseSlideIDList(text string) []slideIDEntry {
	var entries []slideIDEntry
	for _, loc := range slideIDPattern.FindAllStringIndex(text, -1) {
		raw := text[loc[0]:loc[1]]
		e := slideIDEntry{start: loc[0], end: loc[1]}
		if m := slideRIDPattern.FindStringSubmatch(raw); m != nil {
			e.rid = m[1]
		}
		if m := slideNumPattern.FindStringSubmatch(raw); m != nil {
			e.id = m[1]
		}
		entries = append(entries, e)
	}
	return entries
}

// isSlidePart reports whether name is a slide XML part (a direct child of
// ppt/slides/, not a relationship sub-part).
func isSlidePart(name string) bool {
	if !strings.HasPrefix(name, opc.SlideDir) || !strings.HasSuffix(name, ".xml") {
		return false
	}
	return !strings.Contains(name[len(opc.SlideDir):], "/")
}

// slideRelsPart returns the relationship sub-part name of a slide part.
func slideRelsPart(part string) string {
	return opc.SlideRelsDir + path.Base(part) + ".rels"
}

// resolveRelTarget resolves a relationship target against the directory of
// the part that declares it. Absolute targets are package-rooted.
func resolveRelTarget(base, target string) string {
	if strings.HasPrefix(target, "/") {
		return strings.TrimPrefix(target, "/")
	}
	return path.Join(base, target)
}

// EmptySlides returns the slide parts whose visible text is empty, in
// archive order. Slides that cannot be decoded are never considered empty.
func EmptySlides(pkg *opc.Package) []string {
	var empty []string
	for _, name := range pkg.Names() {
		if !isSlidePart(name) {
			continue
		}
		text, err := pkg.Text(name)
		if err != nil {
			continue
		}
		if !HasVisibleText(text) {
			empty = append(empty, name)
		}
	}
	return empty
}

// Prune removes the given slide parts and every cross-reference to them: the
// slide-order entry, the presentation relationship, the slide's own
// relationship sub-part, the content-type override, and the cached slide
// count. The whole deletion set is computed before any edit is applied, and
// the resulting relationship graph is validated before Prune returns.
func Prune(pkg *opc.Package, slides []string) (int, error) {
	if len(slides) == 0 {
		return 0, nil
	}

	relsText, err := pkg.Text(opc.PresentationRels)
	if err != nil {
		return 0, err
	}
	var rels Relationships
	if err := xml.Unmarshal([]byte(relsText), &rels); err != nil {
		return 0, NewStructuralIntegrityError(opc.PresentationRels, "unreadable relationship manifest: "+err.Error())
	}

	presText, err := pkg.Text(opc.PresentationPart)
	if err != nil {
		return 0, err
	}
	entries := parseSlideIDList(presText)

	doomedParts := make(map[string]bool, len(slides))
	doomedRIDs := make(map[string]bool, len(slides))
	for _, part := range slides {
		doomedParts[part] = true
	}
	for _, rel := range rels.Relationship {
		if rel.TargetMode == "External" {
			continue
		}
		if doomedParts[resolveRelTarget("ppt", rel.Target)] {
			doomedRIDs[rel.ID] = true
		}
	}

	// slide-order list: splice doomed entries right-to-left so earlier
	// spans stay valid
	for i := len(entries) - 1; i >= 0; i-- {
		if doomedRIDs[entries[i].rid] {
			presText = presText[:entries[i].start] + presText[entries[i].end:]
		}
	}
	pkg.SetText(opc.PresentationPart, presText)

	kept := make([]Relationship, 0, len(rels.Relationship))
	for _, rel := range rels.Relationship {
		if !doomedRIDs[rel.ID] {
			kept = append(kept, rel)
		}
	}
	out, err := xml.Marshal(&Relationships{
		Namespace:    relationshipsNamespace,
		Relationship: kept,
	})
	if err != nil {
		return 0, NewStructuralIntegrityError(opc.PresentationRels, "marshal relationship manifest: "+err.Error())
	}
	pkg.SetText(opc.PresentationRels, xmlHeader+string(out))

	for _, part := range slides {
		pkg.Remove(part)
		pkg.Remove(slideRelsPart(part))
	}

	if err := removeContentTypeOverrides(pkg, slides); err != nil {
		return 0, err
	}
	decrementSlideCount(pkg, len(slides))

	if err := validateDeck(pkg); err != nil {
		return 0, err
	}
	return len(slides), nil
}

func removeContentTypeOverrides(pkg *opc.Package, parts []string) error {
	text, err := pkg.Text(opc.ContentTypesPart)
	if err != nil {
		return err
	}
	var types ContentTypes
	if err := xml.Unmarshal([]byte(text), &types); err != nil {
		return NewStructuralIntegrityError(opc.ContentTypesPart, "unreadable content-type manifest: "+err.Error())
	}

	doomed := make(map[string]bool, len(parts))
	for _, part := range parts {
		doomed["/"+part] = true
	}
	kept := make([]ContentTypeOverride, 0, len(types.Override))
	for _, o := range types.Override {
		if !doomed[o.PartName] {
			kept = append(kept, o)
		}
	}

	out, err := xml.Marshal(&ContentTypes{
		Namespace: contentTypesNamespace,
		Default:   types.Default,
		Override:  kept,
	})
	if err != nil {
		return NewStructuralIntegrityError(opc.ContentTypesPart, "marshal content-type manifest: "+err.Error())
	}
	pkg.SetText(opc.ContentTypesPart, xmlHeader+string(out))
	return nil
}

// decrementSlideCount lowers the cached <Slides> count in the application
// properties part, when that part exists and carries one.
func decrementSlideCount(pkg *opc.Package, n int) {
	text, err := pkg.Text(opc.AppPropsPart)
	if err != nil {
		return
	}
	m := slideCountPattern.FindStringSubmatch(text)
	if m == nil {
		return
	}
	count, err := strconv.Atoi(m[1])
	if err != nil {
		return
	}
	count -= n
	if count < 0 {
		count = 0
	}
	updated := strings.Replace(text, m[0], "<Slides>"+strconv.Itoa(count)+"</Slides>", 1)
	pkg.SetText(opc.AppPropsPart, updated)
}

// validateDeck checks the relationship graph after pruning: every internal
// relationship target and every content-type override resolves to an
// existing part, and every slide-order entry resolves to a relationship.
func validateDeck(pkg *opc.Package) error {
	relsText, err := pkg.Text(opc.PresentationRels)
	if err != nil {
		return err
	}
	var rels Relationships
	if err := xml.Unmarshal([]byte(relsText), &rels); err != nil {
		return NewStructuralIntegrityError(opc.PresentationRels, "unreadable relationship manifest: "+err.Error())
	}
	byID := make(map[string]Relationship, len(rels.Relationship))
	for _, rel := range rels.Relationship {
		byID[rel.ID] = rel
		if rel.TargetMode == "External" {
			continue
		}
		if target := resolveRelTarget("ppt", rel.Target); !pkg.Has(target) {
			return NewStructuralIntegrityError(opc.PresentationRels,
				fmt.Sprintf("relationship %s targets missing part %s", rel.ID, target))
		}
	}

	presText, err := pkg.Text(opc.PresentationPart)
	if err != nil {
		return err
	}
	for _, e := range parseSlideIDList(presText) {
		if _, ok := byID[e.rid]; !ok {
			return NewStructuralIntegrityError(opc.PresentationPart,
				fmt.Sprintf("slide entry %s references missing relationship %s", e.id, e.rid))
		}
	}

	typesText, err := pkg.Text(opc.ContentTypesPart)
	if err != nil {
		return err
	}
	var types ContentTypes
	if err := xml.Unmarshal([]byte(typesText), &types); err != nil {
		return NewStructuralIntegrityError(opc.ContentTypesPart, "unreadable content-type manifest: "+err.Error())
	}
	for _, o := range types.Override {
		if !pkg.Has(strings.TrimPrefix(o.PartName, "/")) {
			return NewStructuralIntegrityError(opc.ContentTypesPart,
				"override names missing part "+o.PartName)
		}
	}
	return nil
}
