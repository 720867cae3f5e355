package xmlnode

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
)

// ErrNoRoot is returned when a document contains no element at all.
var ErrNoRoot = errors.New("document has no root element")

// Document is a parsed XML document.
type Document struct {
	source string
	root   *Element
}

// Root returns the document element.
func (d *Document) Root() Node {
	return d.root
}

// Source returns the name the document was parsed from, if any.
func (d *Document) Source() string {
	return d.source
}

// ParseBytes parses an in-memory document.
func ParseBytes(data []byte, source string) (*Document, error) {
	return Parse(bytes.NewReader(data), source)
}

// Parse reads an XML document into an element tree. Only elements and their
// attributes are kept; character data, comments and processing instructions
// are dropped. Attribute names are taken without namespace prefixes.
func Parse(r io.Reader, source string) (*Document, error) {
	dec := xml.NewDecoder(r)
	var (
		root  *Element
		stack []*Element
	)
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", describe(source), err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			el := &Element{tag: t.Name.Local}
			for _, a := range t.Attr {
				el.setAttr(a.Name.Local, a.Value)
			}
			if len(stack) == 0 {
				if root != nil {
					return nil, fmt.Errorf("failed to parse %s: multiple root elements", describe(source))
				}
				root = el
			} else {
				parent := stack[len(stack)-1]
				parent.children = append(parent.children, el)
			}
			stack = append(stack, el)
		case xml.EndElement:
			stack = stack[:len(stack)-1]
		}
	}
	if root == nil {
		return nil, fmt.Errorf("failed to parse %s: %w", describe(source), ErrNoRoot)
	}
	return &Document{source: source, root: root}, nil
}

func describe(source string) string {
	if source == "" {
		return "document"
	}
	return fmt.Sprintf("document %q", source)
}
