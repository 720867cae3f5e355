// Package xmlnode exposes a small read-only view over an XML element tree.
//
// The stream engine only needs attribute lookups and tag-filtered children,
// so Node is the capability the engine consumes. Element is the in-memory
// implementation produced by Parse; tests and other backends can provide
// their own implementations of Node.
package xmlnode

// Node is a read-only XML element.
type Node interface {
	// Name returns the element tag, e.g. "stream" or "immutable_stream".
	Name() string
	// Attribute returns the attribute value, or an empty string when absent.
	Attribute(key string) string
	HasAttribute(key string) bool
	// Attributes returns a copy of every attribute on the element.
	Attributes() map[string]string
	// Children returns the direct children with the given tag in document order.
	Children(tag string) []Node
}

// Attr is a single attribute in source order.
type Attr struct {
	Key   string
	Value string
}

// Element is the in-memory Node built by Parse.
type Element struct {
	tag      string
	attrs    []Attr
	children []*Element
}

// NewElement creates a detached element. Attributes keep the given order;
// a repeated key overrides the earlier value.
func NewElement(tag string, attrs ...Attr) *Element {
	e := &Element{tag: tag}
	for _, a := range attrs {
		e.setAttr(a.Key, a.Value)
	}
	return e
}

// Append adds children to the element and returns it for chaining.
func (e *Element) Append(children ...*Element) *Element {
	e.children = append(e.children, children...)
	return e
}

func (e *Element) setAttr(key, value string) {
	for i := range e.attrs {
		if e.attrs[i].Key == key {
			e.attrs[i].Value = value
			return
		}
	}
	e.attrs = append(e.attrs, Attr{Key: key, Value: value})
}

func (e *Element) Name() string {
	return e.tag
}

func (e *Element) Attribute(key string) string {
	for _, a := range e.attrs {
		if a.Key == key {
			return a.Value
		}
	}
	return ""
}

func (e *Element) HasAttribute(key string) bool {
	for _, a := range e.attrs {
		if a.Key == key {
			return true
		}
	}
	return false
}

func (e *Element) Attributes() map[string]string {
	out := make(map[string]string, len(e.attrs))
	for _, a := range e.attrs {
		out[a.Key] = a.Value
	}
	return out
}

func (e *Element) Children(tag string) []Node {
	var out []Node
	for _, c := range e.children {
		if c.tag == tag {
			out = append(out, c)
		}
	}
	return out
}
