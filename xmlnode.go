package gopresentation

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

// Node is the document-ordered view of a parsed XML element: its tag name,
// its attributes in source order, and its element children in source
// order. This is the view z-order and custom-geometry path-segment order
// are derived from — spec invariant: ordered-view children are a stable
// permutation of map-view children, same multiset, same document order.
type Node struct {
	Name     string // prefixed name as written, e.g. "p:sp"
	Attrs    map[string]string
	Children []*Node
	Text     string // concatenated character data that is a direct child
}

// attrPrefix is the key prefix used when attributes are exposed through the
// map view, mirroring the fast-xml-parser convention the corpus's JS/TS
// relatives use ("@_name" style keys) so callers who have seen that shape
// recognize it immediately.
const attrPrefix = "@_"

// alwaysArrayTags is the whitelist of child tag names that must be forced
// to a sequence even when only one child is present. Dropping any of these
// silently breaks z-order (shape-tree primitives), multi-series chart
// parsing (gradient stops, path segments), or slide ordering (sldId).
// Encoded as a static set per the design note in spec.md §9.
var alwaysArrayTags = map[string]bool{
	"p:sp":          true,
	"p:pic":         true,
	"p:grpSp":       true,
	"p:cxnSp":       true,
	"p:graphicFrame": true,
	"a:p":           true,
	"a:r":           true,
	"a:gs":          true,
	"p:sldId":       true,
	"Relationship":  true,
	"a:path":        true,
	"a:moveTo":      true,
	"a:lnTo":        true,
	"a:cubicBezTo":  true,
	"a:arcTo":       true,
	"a:close":       true,
}

// ParseOrdered parses text into the document-ordered tree rooted at the
// outermost element. Namespace prefixes are preserved verbatim in Name
// (e.g. "p:sp", "a:off") since OOXML consumers dispatch on the prefixed
// name; this parser does not resolve namespace URIs.
func ParseOrdered(text string) (*Node, error) {
	dec := xml.NewDecoder(strings.NewReader(text))
	dec.Strict = false
	var stack []*Node
	var root *Node
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrXMLParseFailed, err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			n := &Node{Name: qualifiedName(t.Name), Attrs: make(map[string]string, len(t.Attr))}
			for _, a := range t.Attr {
				n.Attrs[qualifiedName(a.Name)] = a.Value
			}
			if len(stack) > 0 {
				parent := stack[len(stack)-1]
				parent.Children = append(parent.Children, n)
			} else if root == nil {
				root = n
			}
			stack = append(stack, n)
		case xml.EndElement:
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		case xml.CharData:
			if len(stack) > 0 {
				stack[len(stack)-1].Text += string(t)
			}
		}
	}
	if root == nil {
		return nil, fmt.Errorf("%w: empty document", ErrXMLParseFailed)
	}
	return root, nil
}

// qualifiedName reconstructs a "prefix:local" name from an xml.Name the way
// encoding/xml hands it back when namespace resolution is left disabled
// (Decoder.Strict=false does not stop Go from splitting prefixes into
// Space); OOXML documents declare prefixes as constant namespace bindings,
// so we special-case the couple of spellings encoding/xml can produce.
func qualifiedName(n xml.Name) string {
	if n.Space == "" {
		return n.Local
	}
	if prefix, ok := knownNamespacePrefixes[n.Space]; ok {
		if prefix == "" {
			return n.Local
		}
		return prefix + ":" + n.Local
	}
	// Space already looks like a prefix (encoding/xml left it unresolved
	// because the document never registered an xmlns for it at the root).
	return n.Space + ":" + n.Local
}

var knownNamespacePrefixes = map[string]string{
	"http://schemas.openxmlformats.org/presentationml/2006/main": "p",
	"http://schemas.openxmlformats.org/drawingml/2006/main":      "a",
	"http://schemas.openxmlformats.org/drawingml/2006/chart":     "c",
	"http://schemas.openxmlformats.org/markup-compatibility/2006": "mc",
	"http://schemas.openxmlformats.org/officeDocument/2006/relationships": "r",
	// .rels parts bind this as the default namespace; their names stay bare.
	"http://schemas.openxmlformats.org/package/2006/relationships": "",
}

// Child returns the first direct child named name, or nil.
func (n *Node) Child(name string) *Node {
	if n == nil {
		return nil
	}
	for _, c := range n.Children {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// ChildrenNamed returns all direct children named name, in document order.
// Combined with alwaysArrayTags, this is how callers get the "sequence of
// one" guarantee for singleton shape-tree primitives etc.
func (n *Node) ChildrenNamed(name string) []*Node {
	if n == nil {
		return nil
	}
	var out []*Node
	for _, c := range n.Children {
		if c.Name == name {
			out = append(out, c)
		}
	}
	return out
}

// Attr returns an attribute value and whether it was present.
func (n *Node) Attr(name string) (string, bool) {
	if n == nil || n.Attrs == nil {
		return "", false
	}
	v, ok := n.Attrs[name]
	return v, ok
}

// AttrOr returns an attribute value or def when absent.
func (n *Node) AttrOr(name, def string) string {
	if v, ok := n.Attr(name); ok {
		return v
	}
	return def
}

// MapNode is the unordered, attribute+child map view over the same source:
// a tag's attributes under attrPrefix-keyed entries, and its children keyed
// by tag name — a single *MapNode when one child exists, a []*MapNode when
// alwaysArrayTags forces a sequence or more than one sibling shares a tag.
type MapNode struct {
	Name  string
	Attrs map[string]string
	// Children holds either *MapNode or []*MapNode values, keyed by tag.
	Children map[string]interface{}
	Text     string
}

// ToMap derives the map view from an ordered Node, applying the
// always-array whitelist. The two views are kept coherent by construction:
// ToMap never reorders or drops a child, it only regroups by tag name.
func (n *Node) ToMap() *MapNode {
	if n == nil {
		return nil
	}
	m := &MapNode{Name: n.Name, Attrs: n.Attrs, Children: make(map[string]interface{}), Text: n.Text}
	grouped := make(map[string][]*MapNode)
	order := make([]string, 0, len(n.Children))
	for _, c := range n.Children {
		if _, seen := grouped[c.Name]; !seen {
			order = append(order, c.Name)
		}
		grouped[c.Name] = append(grouped[c.Name], c.ToMap())
	}
	for _, name := range order {
		kids := grouped[name]
		if len(kids) > 1 || alwaysArrayTags[name] {
			m.Children[name] = kids
		} else {
			m.Children[name] = kids[0]
		}
	}
	return m
}

// One returns a single *MapNode for key, whether the underlying value is a
// lone node or the first element of a forced sequence.
func (m *MapNode) One(key string) *MapNode {
	if m == nil {
		return nil
	}
	switch v := m.Children[key].(type) {
	case *MapNode:
		return v
	case []*MapNode:
		if len(v) > 0 {
			return v[0]
		}
	}
	return nil
}

// Seq returns a sequence for key regardless of whether the source had one
// child or many — the normalized access pattern consumers should prefer
// over inspecting the interface{} directly.
func (m *MapNode) Seq(key string) []*MapNode {
	if m == nil {
		return nil
	}
	switch v := m.Children[key].(type) {
	case *MapNode:
		return []*MapNode{v}
	case []*MapNode:
		return v
	}
	return nil
}
