// Package console is the host side of the widget framework: an element tree
// widgets render text into, a capability-to-constructor registry filled in by
// plugins at bootstrap, and the panel that keeps one widget alive per tracked
// object. Widgets only ever mutate the subtree handed to them; the console
// snapshots the tree for delivery to connected clients.
package console

import "sync"

// Node is one element in the console's render tree. A node holds a text
// value and an ordered list of children.
type Node struct {
	mu       sync.Mutex
	text     string
	children []*Node
}

// NewNode creates an empty root node.
func NewNode() *Node {
	return &Node{}
}

// AppendChild adds and returns a new empty child element.
func (n *Node) AppendChild() *Node {
	child := &Node{}
	n.mu.Lock()
	n.children = append(n.children, child)
	n.mu.Unlock()
	return child
}

// RemoveChild detaches child from n. Unknown children are ignored.
func (n *Node) RemoveChild(child *Node) {
	n.mu.Lock()
	defer n.mu.Unlock()
	for i, c := range n.children {
		if c == child {
			n.children = append(n.children[:i], n.children[i+1:]...)
			return
		}
	}
}

// SetText replaces the node's text value.
func (n *Node) SetText(s string) {
	n.mu.Lock()
	n.text = s
	n.mu.Unlock()
}

// Text returns the node's text value.
func (n *Node) Text() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.text
}

// Snapshot is an immutable copy of a node subtree, shaped for JSON delivery.
type Snapshot struct {
	Text     string     `json:"text,omitempty"`
	Children []Snapshot `json:"children,omitempty"`
}

// Snapshot copies the subtree rooted at n.
func (n *Node) Snapshot() Snapshot {
	n.mu.Lock()
	text := n.text
	children := make([]*Node, len(n.children))
	copy(children, n.children)
	n.mu.Unlock()

	snap := Snapshot{Text: text}
	for _, c := range children {
		snap.Children = append(snap.Children, c.Snapshot())
	}
	return snap
}
