package stream

import (
	"slices"
	"strings"

	"github.com/amstokely/xml-stream-parser/pkg/xmlnode"
)

// referencePrefix marks an interval value that points at another stream.
const referencePrefix = "stream:"

// IntervalKind names an interval attribute that may be referenced.
type IntervalKind string

const (
	IntervalInput  IntervalKind = AttrInputInterval
	IntervalOutput IntervalKind = AttrOutputInterval
)

// referenceableAttributes is the closed set of attributes a reference may target.
var referenceableAttributes = []IntervalKind{IntervalInput, IntervalOutput}

// IsReference reports whether text is a "stream:" reference.
func IsReference(text string) bool {
	return strings.HasPrefix(text, referencePrefix)
}

// Catalog gives name-based access to every stream record under a document
// root. It never modifies the underlying nodes.
type Catalog struct {
	root xmlnode.Node
}

// NewCatalog wraps a streams document root.
func NewCatalog(root xmlnode.Node) *Catalog {
	return &Catalog{root: root}
}

// Records returns every stream record: immutable streams first, then mutable
// streams, each group in document order.
func (c *Catalog) Records() []xmlnode.Node {
	if c == nil || c.root == nil {
		return nil
	}
	return slices.Concat(c.root.Children(TagImmutableStream), c.root.Children(TagStream))
}

// Lookup finds a stream by name. Immutable streams are searched before
// mutable ones and the first match wins, so duplicate names are allowed.
func (c *Catalog) Lookup(name string) (xmlnode.Node, bool) {
	if c == nil || c.root == nil {
		return nil, false
	}
	for _, tag := range []string{TagImmutableStream, TagStream} {
		for _, child := range c.root.Children(tag) {
			if child.HasAttribute(AttrName) && child.Attribute(AttrName) == name {
				return child, true
			}
		}
	}
	return nil, false
}

// ResolveInterval resolves the interval text of attribute kind on stream
// owner. Literals are returned unchanged. A "stream:<name>:<attribute>"
// reference is replaced by the referenced attribute's raw value, which must
// itself be a literal: chains are rejected, never followed.
func ResolveInterval(text string, kind IntervalKind, owner string, catalog *Catalog) (string, error) {
	if !IsReference(text) {
		return text, nil
	}
	target, attr, ok := strings.Cut(strings.TrimPrefix(text, referencePrefix), ":")
	if !ok {
		return "", newReferenceError(CodeMalformedReference, owner, kind, text)
	}
	targetAttr := IntervalKind(attr)
	if !slices.Contains(referenceableAttributes, targetAttr) {
		return "", newReferenceError(CodeInvalidAttribute, owner, kind, text)
	}
	if target == owner && targetAttr == kind {
		return "", newReferenceError(CodeSelfReference, owner, kind, text)
	}
	node, found := catalog.Lookup(target)
	if !found {
		return "", newReferenceError(CodeStreamNotFound, owner, kind, text)
	}
	if !node.HasAttribute(attr) {
		return "", newReferenceError(CodeMissingAttribute, owner, kind, text)
	}
	candidate := node.Attribute(attr)
	if slices.Contains(referenceableAttributes, IntervalKind(candidate)) || IsReference(candidate) {
		return "", newReferenceError(CodeUnresolvableReference, owner, kind, text)
	}
	return candidate, nil
}
