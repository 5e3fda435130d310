package node

import "github.com/Carmen-Shannon/orrery/common"

// NodeBuilderOption is a functional option for configuring a Node.
type NodeBuilderOption func(n *node)

// WithName sets the node's display name.
//
// Parameters:
//   - name: the display name
//
// Returns:
//   - NodeBuilderOption: option function to apply
func WithName(name string) NodeBuilderOption {
	return func(n *node) {
		n.name = name
	}
}

// WithLocalTransform sets the node's initial local transform.
//
// Parameters:
//   - m: column-major local matrix
//
// Returns:
//   - NodeBuilderOption: option function to apply
func WithLocalTransform(m [16]float32) NodeBuilderOption {
	return func(n *node) {
		n.local = m
	}
}

// WithPayload marks the node as drawable.
//
// Parameters:
//   - p: the draw payload
//
// Returns:
//   - NodeBuilderOption: option function to apply
func WithPayload(p *common.RenderPayload) NodeBuilderOption {
	return func(n *node) {
		n.payload = p
	}
}

// WithParent attaches the node under parent at construction time.
//
// Parameters:
//   - parent: the parent node
//
// Returns:
//   - NodeBuilderOption: option function to apply
func WithParent(parent Node) NodeBuilderOption {
	return func(n *node) {
		if parent == nil {
			return
		}
		parent.attach(n)
		n.parent = parent
	}
}
