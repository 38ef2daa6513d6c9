package fill

import (
	"bytes"
	"encoding/xml"
	"errors"
	"io"
	"regexp"
	"strings"
)

// xmlNode is one element or text node of a parsed slide part. The tree keeps
// element order, attributes, and namespace information so a slide can be
// re-serialized without disturbing markup the engine does not touch.
type xmlNode struct {
	Name     xml.Name
	Attr     []xml.Attr
	Children []*xmlNode
	Text     string
	IsText   bool
}

// slideTree is a parsed slide part. The XML declaration and the root
// element's start and end tags are kept verbatim; only the root's children
// are re-encoded, with namespace prefixes re-applied from the root's
// declarations.
type slideTree struct {
	header    string
	rootStart string
	rootEnd   string
	root      *xmlNode
	prefixes  map[string]string // namespace URI -> declared prefix
}

var xmlDeclPattern = regexp.MustCompile(`(?s)^\s*(<\?xml[^>]+\?>)`)

func parseSlideTree(xmlText string) (*slideTree, error) {
	header := ""
	body := xmlText
	if m := xmlDeclPattern.FindStringSubmatch(xmlText); len(m) > 0 {
		header = m[1]
		body = strings.TrimSpace(xmlText[len(m[0]):])
	}

	rootStart, rootEnd, err := extractRootTags(body)
	if err != nil {
		return nil, err
	}
	root, err := parseNodeTree(body)
	if err != nil {
		return nil, err
	}

	return &slideTree{
		header:    header,
		rootStart: rootStart,
		rootEnd:   rootEnd,
		root:      root,
		prefixes:  prefixMapFromRoot(root),
	}, nil
}

func parseNodeTree(body string) (*xmlNode, error) {
	decoder := xml.NewDecoder(strings.NewReader(body))
	var stack []*xmlNode
	var root *xmlNode

	for {
		token, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		switch t := token.(type) {
		case xml.StartElement:
			node := &xmlNode{Name: t.Name, Attr: append([]xml.Attr(nil), t.Attr...)}
			if len(stack) == 0 {
				root = node
			} else {
				parent := stack[len(stack)-1]
				parent.Children = append(parent.Children, node)
			}
			stack = append(stack, node)
		case xml.EndElement:
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		case xml.CharData:
			if len(stack) == 0 {
				continue
			}
			text := string([]byte(t))
			if text == "" {
				continue
			}
			parent := stack[len(stack)-1]
			parent.Children = append(parent.Children, &xmlNode{IsText: true, Text: text})
		}
	}

	if root == nil {
		return nil, errors.New("slide has no root element")
	}
	return root, nil
}

func (t *slideTree) encode() (string, error) {
	var buf bytes.Buffer
	if t.header != "" {
		buf.WriteString(t.header)
		if !strings.HasSuffix(t.header, "\n") {
			buf.WriteByte('\n')
		}
	}

	clone := cloneNode(t.root)
	normalizeXMLNSAttrs(clone)
	applyPrefixMap(clone, t.prefixes)

	buf.WriteString(t.rootStart)
	encoder := xml.NewEncoder(&buf)
	for _, child := range clone.Children {
		if err := encodeNode(encoder, child); err != nil {
			return "", err
		}
	}
	if err := encoder.Flush(); err != nil {
		return "", err
	}
	buf.WriteString(t.rootEnd)
	return buf.String(), nil
}

func encodeNode(encoder *xml.Encoder, node *xmlNode) error {
	if node.IsText {
		return encoder.EncodeToken(xml.CharData([]byte(node.Text)))
	}
	start := xml.StartElement{Name: node.Name, Attr: node.Attr}
	if err := encoder.EncodeToken(start); err != nil {
		return err
	}
	for _, child := range node.Children {
		if err := encodeNode(encoder, child); err != nil {
			return err
		}
	}
	return encoder.EncodeToken(start.End())
}

func cloneNode(node *xmlNode) *xmlNode {
	if node == nil {
		return nil
	}
	cloned := &xmlNode{
		Name:   node.Name,
		Attr:   append([]xml.Attr(nil), node.Attr...),
		Text:   node.Text,
		IsText: node.IsText,
	}
	if len(node.Children) > 0 {
		cloned.Children = make([]*xmlNode, 0, len(node.Children))
		for _, child := range node.Children {
			cloned.Children = append(cloned.Children, cloneNode(child))
		}
	}
	return cloned
}

// walkNodes visits node and its descendants in document order. Returning
// false from visit skips the node's children.
func walkNodes(node *xmlNode, visit func(*xmlNode) bool) {
	if node == nil {
		return
	}
	if !visit(node) {
		return
	}
	for _, child := range node.Children {
		walkNodes(child, visit)
	}
}

func isNamed(node *xmlNode, space, local string) bool {
	return node != nil && !node.IsText && node.Name.Local == local && node.Name.Space == space
}

func findChild(node *xmlNode, space, local string) *xmlNode {
	for _, child := range node.Children {
		if isNamed(child, space, local) {
			return child
		}
	}
	return nil
}

func childIndex(parent *xmlNode, node *xmlNode) int {
	for i, child := range parent.Children {
		if child == node {
			return i
		}
	}
	return -1
}

func nodeText(node *xmlNode) string {
	var b strings.Builder
	for _, child := range node.Children {
		if child.IsText {
			b.WriteString(child.Text)
		}
	}
	return b.String()
}

func setNodeText(node *xmlNode, text string) {
	node.Children = node.Children[:0]
	if text == "" {
		return
	}
	node.Children = append(node.Children, &xmlNode{IsText: true, Text: text})
}

// prefixMapFromRoot recovers the prefix declared for each namespace URI from
// the root element's xmlns attributes.
func prefixMapFromRoot(root *xmlNode) map[string]string {
	if root == nil {
		return nil
	}
	out := make(map[string]string)
	for _, attr := range root.Attr {
		if attr.Name.Space == "xmlns" {
			out[attr.Value] = attr.Name.Local
			continue
		}
		if attr.Name.Space == "" && attr.Name.Local == "xmlns" {
			out[attr.Value] = ""
			continue
		}
		if attr.Name.Space == "" && strings.HasPrefix(attr.Name.Local, "xmlns:") {
			out[attr.Value] = strings.TrimPrefix(attr.Name.Local, "xmlns:")
		}
	}
	return out
}

// applyPrefixMap rewrites resolved namespace URIs back into the prefixed
// names the source declared, so the encoder emits them verbatim instead of
// synthesizing its own declarations.
func applyPrefixMap(node *xmlNode, prefixes map[string]string) {
	if node == nil || len(prefixes) == 0 {
		return
	}
	if !node.IsText {
		if prefix, ok := prefixes[node.Name.Space]; ok && prefix != "" {
			node.Name.Local = prefix + ":" + node.Name.Local
			node.Name.Space = ""
		}
		for i, attr := range node.Attr {
			if attr.Name.Space == "xmlns" || (attr.Name.Space == "" && attr.Name.Local == "xmlns") || (attr.Name.Space == "" && strings.HasPrefix(attr.Name.Local, "xmlns:")) {
				continue
			}
			if prefix, ok := prefixes[attr.Name.Space]; ok && prefix != "" {
				attr.Name.Local = prefix + ":" + attr.Name.Local
				attr.Name.Space = ""
				node.Attr[i] = attr
			}
		}
	}
	for _, child := range node.Children {
		applyPrefixMap(child, prefixes)
	}
}

// normalizeXMLNSAttrs rewrites parsed xmlns declarations on inner elements
// into literal attribute names so they re-encode as written.
func normalizeXMLNSAttrs(node *xmlNode) {
	if node == nil {
		return
	}
	if !node.IsText {
		for i, attr := range node.Attr {
			if attr.Name.Space != "xmlns" {
				continue
			}
			attr.Name.Space = ""
			if attr.Name.Local == "" {
				attr.Name.Local = "xmlns"
			} else {
				attr.Name.Local = "xmlns:" + attr.Name.Local
			}
			node.Attr[i] = attr
		}
	}
	for _, child := range node.Children {
		normalizeXMLNSAttrs(child)
	}
}

// extractRootTags returns the root element's start and end tags verbatim.
func extractRootTags(xmlText string) (string, string, error) {
	startIdx, endIdx, name, err := findRootStartTag(xmlText)
	if err != nil {
		return "", "", err
	}
	rootStart := xmlText[startIdx : endIdx+1]
	endTag := "</" + name + ">"
	endPos := strings.LastIndex(xmlText, endTag)
	if endPos == -1 {
		return "", "", errors.New("root end tag not found")
	}
	return rootStart, xmlText[endPos : endPos+len(endTag)], nil
}

func findRootStartTag(xmlText string) (int, int, string, error) {
	i := 0
	for i < len(xmlText) {
		idx := strings.IndexByte(xmlText[i:], '<')
		if idx == -1 {
			return 0, 0, "", errors.New("root start tag not found")
		}
		i += idx
		if strings.HasPrefix(xmlText[i:], "<?") {
			end := strings.Index(xmlText[i:], "?>")
			if end == -1 {
				return 0, 0, "", errors.New("xml declaration not terminated")
			}
			i += end + 2
			continue
		}
		if strings.HasPrefix(xmlText[i:], "<!--") {
			end := strings.Index(xmlText[i:], "-->")
			if end == -1 {
				return 0, 0, "", errors.New("xml comment not terminated")
			}
			i += end + 3
			continue
		}
		if strings.HasPrefix(xmlText[i:], "<!") {
			end := strings.IndexByte(xmlText[i:], '>')
			if end == -1 {
				return 0, 0, "", errors.New("doctype not terminated")
			}
			i += end + 1
			continue
		}
		break
	}
	start := i
	inQuote := byte(0)
	for i = start + 1; i < len(xmlText); i++ {
		c := xmlText[i]
		if inQuote != 0 {
			if c == inQuote {
				inQuote = 0
			}
			continue
		}
		if c == '"' || c == '\'' {
			inQuote = c
			continue
		}
		if c == '>' {
			name := rootTagName(xmlText[start+1 : i])
			if name == "" {
				return 0, 0, "", errors.New("root tag name missing")
			}
			return start, i, name, nil
		}
	}
	return 0, 0, "", errors.New("root start tag not terminated")
}

func rootTagName(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw[0] == '/' {
		return ""
	}
	end := len(raw)
	for i := 0; i < len(raw); i++ {
		if raw[i] == ' ' || raw[i] == '\t' || raw[i] == '\n' || raw[i] == '\r' || raw[i] == '/' {
			end = i
			break
		}
	}
	return raw[:end]
}
