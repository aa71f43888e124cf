package ftparser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDocumentIsEmpty(t *testing.T) {
	doc := NewDocument()
	assert.True(t, doc.IsEmpty())
	assert.Equal(t, 0, doc.NodeCount())
	assert.Equal(t, 0, doc.AttrCount())
	assert.False(t, doc.HasNodes())
	assert.False(t, doc.HasAttrs())
	assert.Nil(t, doc.Node("missing"))
}

func TestMissingNodeLookupReturnsNil(t *testing.T) {
	doc := NewDocument()
	doc.InsertNode("present").InsertNode("child")

	assert.Nil(t, doc.Node("missing"))
	present := doc.Node("present")
	require.NotNil(t, present)
	assert.Nil(t, present.Node("missing"))
	assert.NotNil(t, present.Node("child"))
}

func TestInsertAndDeleteNode(t *testing.T) {
	doc := NewDocument()
	node := doc.InsertNode("x")
	require.NotNil(t, node)
	assert.Equal(t, "x", node.Name())
	assert.True(t, doc.HasNode("x"))
	assert.True(t, doc.HasNodes())
	assert.False(t, doc.IsEmpty())

	removed := doc.DeleteNode("x")
	assert.Same(t, node, removed)
	assert.False(t, doc.HasNode("x"))
	assert.Equal(t, 0, doc.NodeCount())

	assert.Nil(t, doc.DeleteNode("x"))
	assert.Nil(t, doc.RemoveNode("x"))
}

func TestNewNodeOrGetReusesNode(t *testing.T) {
	doc := NewDocument()
	first := doc.NewNodeOrGet("x")
	first.InsertAttr("k", IntValue(1))
	second := doc.NewNodeOrGet("x")

	assert.Same(t, first, second)
	assert.Equal(t, 1, doc.NodeCount())
	assert.True(t, second.HasAttr("k"))
}

func TestInsertNodeReplacesInPlace(t *testing.T) {
	doc := NewDocument()
	doc.InsertNode("a").InsertAttr("old", BoolValue(true))
	doc.InsertNode("b")

	replacement := doc.InsertNode("a")
	assert.Equal(t, 2, doc.NodeCount())
	assert.Same(t, replacement, doc.Node("a"))
	assert.False(t, replacement.HasAttr("old"))
	assert.Equal(t, []string{"a", "b"}, doc.NodeNames())
}

func TestNodeOrderFollowsInsertion(t *testing.T) {
	node := NewDocument().InsertNode("root")
	for _, name := range []string{"zeta", "alpha", "mid"} {
		node.InsertNode(name)
	}
	node.DeleteNode("alpha")
	node.InsertNode("alpha")

	var names []string
	for child := range node.Nodes() {
		names = append(names, child.Name())
	}
	assert.Equal(t, []string{"zeta", "mid", "alpha"}, names)
	assert.Equal(t, names, node.NodeNames())
}

func TestNodesIterationStopsEarly(t *testing.T) {
	doc := NewDocument()
	doc.InsertNode("a")
	doc.InsertNode("b")
	count := 0
	for range doc.Nodes() {
		count++
		break
	}
	assert.Equal(t, 1, count)
}

func TestAttributes(t *testing.T) {
	node := NewDocument().InsertNode("n")
	node.InsertAttr("b", IntValue(1))
	node.InsertAttr("a", IntValue(2))
	node.InsertAttr("b", IntValue(3))

	assert.Equal(t, 2, node.AttrCount())
	assert.True(t, node.HasAttrs())
	v, ok := node.Attr("b")
	require.True(t, ok)
	assert.True(t, v.Equal(IntValue(3)))

	assert.Equal(t, []Attribute{
		{Key: "b", Value: IntValue(3)},
		{Key: "a", Value: IntValue(2)},
	}, node.Attributes())

	var keys []string
	for key := range node.Attrs() {
		keys = append(keys, key)
	}
	assert.Equal(t, []string{"b", "a"}, keys)

	old, ok := node.DeleteAttr("b")
	assert.True(t, ok)
	assert.True(t, old.Equal(IntValue(3)))
	assert.False(t, node.HasAttr("b"))
	assert.Equal(t, 1, node.AttrCount())

	_, ok = node.DeleteAttr("b")
	assert.False(t, ok)
	_, ok = node.Attr("b")
	assert.False(t, ok)
}

func TestDeletedSubtreeIsDetached(t *testing.T) {
	doc := NewDocument()
	parent := doc.InsertNode("parent")
	child := parent.InsertNode("child")
	child.InsertAttr("k", StringValue("v"))

	detached := doc.RemoveNode("parent")
	require.NotNil(t, detached)
	assert.True(t, doc.IsEmpty())
	assert.Same(t, child, detached.Node("child"))

	// Recreating the name yields a fresh node, not the detached one.
	fresh := doc.NewNodeOrGet("parent")
	assert.NotSame(t, detached, fresh)
	assert.False(t, fresh.HasNodes())
}

func TestDocumentAttributes(t *testing.T) {
	doc := NewDocument()
	doc.InsertAttr("version", IntValue(2))
	assert.False(t, doc.IsEmpty())
	assert.Equal(t, 1, doc.AttrCount())
	assert.Equal(t, 0, doc.NodeCount())
}

func TestEqualIgnoresOrder(t *testing.T) {
	a := NewDocument()
	an := a.InsertNode("n")
	an.InsertAttr("x", IntValue(1))
	an.InsertAttr("y", ListValue(IntValue(1), IntValue(2)))
	an.InsertNode("sub").InsertAttr("z", BoolValue(true))
	a.InsertNode("m")

	b := NewDocument()
	b.InsertNode("m")
	bn := b.InsertNode("n")
	bn.InsertNode("sub").InsertAttr("z", BoolValue(true))
	bn.InsertAttr("y", ListValue(IntValue(1), IntValue(2)))
	bn.InsertAttr("x", IntValue(1))

	assert.True(t, a.Equal(b))
	assert.True(t, b.Equal(a))
	assert.True(t, an.Equal(bn))

	bn.Node("sub").InsertAttr("z", BoolValue(false))
	assert.False(t, a.Equal(b))

	bn.Node("sub").InsertAttr("z", BoolValue(true))
	bn.InsertNode("extra")
	assert.False(t, a.Equal(b))
}

func TestEqualNodeNames(t *testing.T) {
	doc := NewDocument()
	assert.False(t, doc.InsertNode("a").Equal(doc.InsertNode("b")))
	assert.False(t, doc.Node("a").Equal(nil))
	assert.True(t, (*Node)(nil).Equal(nil))
	assert.False(t, doc.Equal(nil))
}
