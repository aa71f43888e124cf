package ftparser

import (
	"iter"
	"slices"
)

// Attribute is a key-value pair owned by a Node or Document.
type Attribute struct {
	Key   string
	Value Value
}

// scope holds the child nodes and attributes shared by Document and Node.
// Names and keys are unique within a scope and iterate in insertion order.
type scope struct {
	nodeNames []string
	nodes     map[string]*Node
	attrKeys  []string
	attrs     map[string]Value
}

// InsertNode creates a new empty child node. An existing child with the
// same name is replaced, and the new node takes over its position.
func (s *scope) InsertNode(name string) *Node {
	n := &Node{name: name}
	if s.nodes == nil {
		s.nodes = make(map[string]*Node)
	}
	if _, ok := s.nodes[name]; !ok {
		s.nodeNames = append(s.nodeNames, name)
	}
	s.nodes[name] = n
	return n
}

// NewNodeOrGet returns the child node with the given name, creating it if
// it does not exist yet.
func (s *scope) NewNodeOrGet(name string) *Node {
	if n, ok := s.nodes[name]; ok {
		return n
	}
	return s.InsertNode(name)
}

// Node returns the child node with the given name, or nil if not found.
// Check the result before chaining calls on it.
func (s *scope) Node(name string) *Node {
	return s.nodes[name]
}

// DeleteNode detaches the named child node and returns it, or returns nil
// if there is no such node.
func (s *scope) DeleteNode(name string) *Node {
	n, ok := s.nodes[name]
	if !ok {
		return nil
	}
	delete(s.nodes, name)
	i := slices.Index(s.nodeNames, name)
	s.nodeNames = slices.Delete(s.nodeNames, i, i+1)
	return n
}

// HasNode reports whether a child node with the given name exists.
func (s *scope) HasNode(name string) bool {
	_, ok := s.nodes[name]
	return ok
}

// HasNodes reports whether the scope has any child nodes.
func (s *scope) HasNodes() bool { return len(s.nodeNames) > 0 }

// NodeCount returns the number of child nodes.
func (s *scope) NodeCount() int { return len(s.nodeNames) }

// NodeNames returns the child node names in insertion order.
func (s *scope) NodeNames() []string { return slices.Clone(s.nodeNames) }

// Nodes iterates over the child nodes in insertion order. The scope must not
// be modified during iteration.
func (s *scope) Nodes() iter.Seq[*Node] {
	return func(yield func(*Node) bool) {
		for _, name := range s.nodeNames {
			if !yield(s.nodes[name]) {
				return
			}
		}
	}
}

// InsertAttr sets an attribute. An existing attribute with the same key is
// overwritten in place.
func (s *scope) InsertAttr(key string, v Value) {
	if s.attrs == nil {
		s.attrs = make(map[string]Value)
	}
	if _, ok := s.attrs[key]; !ok {
		s.attrKeys = append(s.attrKeys, key)
	}
	s.attrs[key] = v
}

// Attr looks up an attribute by key. Returns the value and true if found.
func (s *scope) Attr(key string) (Value, bool) {
	v, ok := s.attrs[key]
	return v, ok
}

// DeleteAttr removes an attribute and returns its value and true, or false
// if there was no such attribute.
func (s *scope) DeleteAttr(key string) (Value, bool) {
	v, ok := s.attrs[key]
	if !ok {
		return Value{}, false
	}
	delete(s.attrs, key)
	i := slices.Index(s.attrKeys, key)
	s.attrKeys = slices.Delete(s.attrKeys, i, i+1)
	return v, true
}

// HasAttr reports whether an attribute with the given key exists.
func (s *scope) HasAttr(key string) bool {
	_, ok := s.attrs[key]
	return ok
}

// HasAttrs reports whether the scope has any attributes.
func (s *scope) HasAttrs() bool { return len(s.attrKeys) > 0 }

// AttrCount returns the number of attributes.
func (s *scope) AttrCount() int { return len(s.attrKeys) }

// Attrs iterates over the attributes in insertion order. The scope must not
// be modified during iteration.
func (s *scope) Attrs() iter.Seq2[string, Value] {
	return func(yield func(string, Value) bool) {
		for _, key := range s.attrKeys {
			if !yield(key, s.attrs[key]) {
				return
			}
		}
	}
}

// Attributes returns a snapshot of the attributes in insertion order.
func (s *scope) Attributes() []Attribute {
	attrs := make([]Attribute, 0, len(s.attrKeys))
	for key, v := range s.Attrs() {
		attrs = append(attrs, Attribute{Key: key, Value: v})
	}
	return attrs
}

// IsEmpty reports whether the scope has neither nodes nor attributes.
func (s *scope) IsEmpty() bool {
	return len(s.nodeNames) == 0 && len(s.attrKeys) == 0
}

// equal compares two scopes by the presence and content of their children;
// insertion order is not significant.
func (s *scope) equal(other *scope) bool {
	if s.NodeCount() != other.NodeCount() || s.AttrCount() != other.AttrCount() {
		return false
	}
	for key, v := range s.attrs {
		ov, ok := other.attrs[key]
		if !ok || !v.Equal(ov) {
			return false
		}
	}
	for name, n := range s.nodes {
		on, ok := other.nodes[name]
		if !ok || !n.scope.equal(&on.scope) {
			return false
		}
	}
	return true
}

// Node is a named container of attributes and child nodes. A Node is owned
// by exactly one parent and is only created through its parent's InsertNode
// or NewNodeOrGet.
type Node struct {
	name string
	scope
}

// Name returns the identifier the node was created under.
func (n *Node) Name() string { return n.name }

// Equal reports whether two nodes have the same name and structurally equal
// contents.
func (n *Node) Equal(other *Node) bool {
	if n == nil || other == nil {
		return n == other
	}
	return n.name == other.name && n.scope.equal(&other.scope)
}

// Document is the root of a parsed Figtree file. It holds top-level nodes
// and, optionally, top-level attributes.
type Document struct {
	scope
}

// NewDocument returns an empty document.
func NewDocument() *Document {
	return &Document{}
}

// RemoveNode detaches the named top-level node and returns it, or returns
// nil if there is no such node.
func (d *Document) RemoveNode(name string) *Node {
	return d.DeleteNode(name)
}

// Equal reports whether two documents are structurally equal.
func (d *Document) Equal(other *Document) bool {
	if d == nil || other == nil {
		return d == other
	}
	return d.scope.equal(&other.scope)
}
