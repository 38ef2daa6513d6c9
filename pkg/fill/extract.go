package fill

import (
	"encoding/xml"
	"io"
	"strings"
)

// ExtractText returns the visible text of an OOXML part: the concatenated
// character data of every text element (<w:t> in documents, <a:t> in
// slides), with one newline appended per closed paragraph.
func ExtractText(xmlText string) (string, error) {
	decoder := xml.NewDecoder(strings.NewReader(xmlText))
	var (
		inText bool
		output strings.Builder
	)

	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}

		switch tokElem := tok.(type) {
		case xml.StartElement:
			if tokElem.Name.Local == "t" {
				inText = true
			}
		case xml.CharData:
			if inText {
				output.Write(tokElem)
			}
		case xml.EndElement:
			if tokElem.Name.Local == "t" {
				inText = false
			}
			if tokElem.Name.Local == "p" {
				output.WriteString("\n")
			}
		}
	}
	return output.String(), nil
}

// HasVisibleText reports whether any text element in the part carries
// non-whitespace content. Parts that cannot be parsed are treated as
// non-empty so that a malformed slide is never deleted.
func HasVisibleText(xmlText string) bool {
	decoder := xml.NewDecoder(strings.NewReader(xmlText))
	inText := false

	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			return false
		}
		if err != nil {
			return true
		}

		switch tokElem := tok.(type) {
		case xml.StartElement:
			if tokElem.Name.Local == "t" {
				inText = true
			}
		case xml.CharData:
			if inText && strings.TrimSpace(string(tokElem)) != "" {
				return true
			}
		case xml.EndElement:
			if tokElem.Name.Local == "t" {
				inText = false
			}
		}
	}
}
