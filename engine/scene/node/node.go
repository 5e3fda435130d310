// Package node implements the transform hierarchy: each node owns a local transform
// and a derived world transform, and world transforms cascade from the root down.
package node

import (
	"sync"

	"github.com/Carmen-Shannon/orrery/common"
)

// Node is a single element of the scene graph.
// A node owns its local transform and an ordered list of children. Its world transform is
// derived: parent.World × Local for non-root nodes and Local for roots. World transforms
// are only refreshed by UpdateWorldTransform, so callers mutating local transforms must run
// an update from the root before reading world transforms.
// Thread-safe for concurrent access.
type Node interface {
	// Name returns the node's display name. May be empty.
	Name() string

	// Parent returns the node's parent, or nil for a root.
	// The back-reference does not own the parent.
	Parent() Node

	// Children returns a copy of the node's ordered child list.
	//
	// Returns:
	//   - []Node: the children in insertion order
	Children() []Node

	// LocalTransform returns the node's transform relative to its parent.
	//
	// Returns:
	//   - [16]float32: column-major local matrix
	LocalTransform() [16]float32

	// SetLocalTransform replaces the node's local transform. The world transform is not
	// recomputed until the next UpdateWorldTransform.
	//
	// Parameters:
	//   - m: column-major local matrix
	SetLocalTransform(m [16]float32)

	// WorldTransform returns the world transform computed by the last UpdateWorldTransform.
	//
	// Returns:
	//   - [16]float32: column-major world matrix
	WorldTransform() [16]float32

	// UpdateWorldTransform recomputes this node's world transform and recurses into every
	// child, passing the new world transform down.
	//
	// Parameters:
	//   - parentWorld: the parent's world transform, or nil when this node is a root
	UpdateWorldTransform(parentWorld *[16]float32)

	// Payload returns the node's draw payload, or nil for non-drawable nodes.
	Payload() *common.RenderPayload

	// SetPayload attaches or clears the node's draw payload.
	//
	// Parameters:
	//   - p: the payload, or nil to make the node non-drawable
	SetPayload(p *common.RenderPayload)

	attach(child Node)
	detach(child Node)
	setParentRef(parent Node)
}

// node is the implementation of the Node interface.
type node struct {
	mu *sync.Mutex

	name     string
	parent   Node
	children []Node

	local [16]float32
	world [16]float32

	payload *common.RenderPayload
}

var _ Node = &node{}

// NewNode creates a root node with identity local and world transforms.
//
// Parameters:
//   - options: functional options to configure the node
//
// Returns:
//   - Node: the newly created node
func NewNode(options ...NodeBuilderOption) Node {
	n := &node{
		mu:    &sync.Mutex{},
		local: common.IdentityMatrix(),
		world: common.IdentityMatrix(),
	}

	for _, option := range options {
		option(n)
	}

	n.world = n.local
	return n
}

// SetParent moves n under parent. n is removed from its previous parent's child list
// (no-op if it had none) and appended to parent's child list. A nil parent turns n into a root.
// Reparenting a node under one of its own descendants creates a cycle; this is a
// precondition violation and is not checked.
//
// Parameters:
//   - n: the node to move
//   - parent: the new parent, or nil
func SetParent(n, parent Node) {
	if n == nil {
		return
	}
	if old := n.Parent(); old != nil {
		old.detach(n)
	}
	if parent != nil {
		parent.attach(n)
	}
	n.setParentRef(parent)
}

// Walk visits n and its descendants depth-first, parents before children.
// Returning false from fn skips the visited node's subtree.
//
// Parameters:
//   - n: the subtree root
//   - fn: visitor called once per node
func Walk(n Node, fn func(Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	for _, c := range n.Children() {
		Walk(c, fn)
	}
}

func (n *node) Name() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.name
}

func (n *node) Parent() Node {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.parent
}

func (n *node) Children() []Node {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]Node, len(n.children))
	copy(out, n.children)
	return out
}

func (n *node) LocalTransform() [16]float32 {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.local
}

func (n *node) SetLocalTransform(m [16]float32) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.local = m
}

func (n *node) WorldTransform() [16]float32 {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.world
}

func (n *node) UpdateWorldTransform(parentWorld *[16]float32) {
	n.mu.Lock()
	if parentWorld != nil {
		common.Mul4(n.world[:], parentWorld[:], n.local[:])
	} else {
		n.world = n.local
	}
	world := n.world
	children := make([]Node, len(n.children))
	copy(children, n.children)
	n.mu.Unlock()

	// Children lock themselves; recurse without holding this node's lock.
	for _, c := range children {
		c.UpdateWorldTransform(&world)
	}
}

func (n *node) Payload() *common.RenderPayload {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.payload
}

func (n *node) SetPayload(p *common.RenderPayload) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.payload = p
}

func (n *node) attach(child Node) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.children = append(n.children, child)
}

func (n *node) detach(child Node) {
	n.mu.Lock()
	defer n.mu.Unlock()
	for i, c := range n.children {
		if c == child {
			n.children = append(n.children[:i], n.children[i+1:]...)
			return
		}
	}
}

func (n *node) setParentRef(parent Node) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.parent = parent
}
