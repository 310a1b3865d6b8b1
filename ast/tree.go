// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package ast

// Tree is the node arena of one shader.
type Tree struct {
	nodes []*Node

	// Root is the translation unit.
	Root Handle

	// Extensions records #extension directives: name to behavior.
	Extensions map[string]string
}

// NewTree creates an empty tree with a translation unit root.
func NewTree() *Tree {
	t := &Tree{
		nodes:      make([]*Node, 0, 256),
		Extensions: make(map[string]string),
	}
	t.Root = t.New(KindTranslationUnit, Position{Line: 1, Column: 1})
	return t
}

// New allocates a detached node.
func (t *Tree) New(kind Kind, pos Position) Handle {
	h := Handle(len(t.nodes))
	t.nodes = append(t.nodes, &Node{
		Kind:   kind,
		Pos:    pos,
		Parent: InvalidHandle,
		Sem:    Semantic{Info: NoInfo, Field: -1},
	})
	return h
}

// Node returns the node for h, or nil for an invalid handle.
func (t *Tree) Node(h Handle) *Node {
	if h < 0 || int(h) >= len(t.nodes) {
		return nil
	}
	return t.nodes[h]
}

// Len returns the number of allocated nodes, including detached ones.
func (t *Tree) Len() int { return len(t.nodes) }

// Kind returns the kind of h.
func (t *Tree) Kind(h Handle) Kind {
	if n := t.Node(h); n != nil {
		return n.Kind
	}
	return KindInvalid
}

// Parent returns the parent of h.
func (t *Tree) Parent(h Handle) Handle {
	if n := t.Node(h); n != nil {
		return n.Parent
	}
	return InvalidHandle
}

// Child returns the i-th child of h, or InvalidHandle when out of range.
func (t *Tree) Child(h Handle, i int) Handle {
	n := t.Node(h)
	if n == nil || i < 0 || i >= len(n.Children) {
		return InvalidHandle
	}
	return n.Children[i]
}

// Children returns the child list of h. The slice is owned by the tree.
func (t *Tree) Children(h Handle) []Handle {
	if n := t.Node(h); n != nil {
		return n.Children
	}
	return nil
}

// IndexOf returns the position of child in parent's child list, or -1.
func (t *Tree) IndexOf(parent, child Handle) int {
	for i, c := range t.Children(parent) {
		if c == child {
			return i
		}
	}
	return -1
}

// Append adds child as the last child of parent, detaching it first.
func (t *Tree) Append(parent, child Handle) {
	t.Detach(child)
	p := t.nodes[parent]
	p.Children = append(p.Children, child)
	t.nodes[child].Parent = parent
}

// Insert adds child at index in parent's child list, detaching it first.
func (t *Tree) Insert(parent Handle, index int, child Handle) {
	t.Detach(child)
	p := t.nodes[parent]
	if index >= len(p.Children) {
		p.Children = append(p.Children, child)
	} else {
		p.Children = append(p.Children, InvalidHandle)
		copy(p.Children[index+1:], p.Children[index:])
		p.Children[index] = child
	}
	t.nodes[child].Parent = parent
}

// Detach removes h from its parent's child list and returns the index it
// occupied, or -1 if it had no parent.
func (t *Tree) Detach(h Handle) int {
	n := t.nodes[h]
	if n.Parent == InvalidHandle {
		return -1
	}
	p := t.nodes[n.Parent]
	idx := -1
	for i, c := range p.Children {
		if c == h {
			idx = i
			break
		}
	}
	if idx >= 0 {
		p.Children = append(p.Children[:idx], p.Children[idx+1:]...)
	}
	n.Parent = InvalidHandle
	return idx
}

// Replace puts repl in old's slot. old is left detached.
func (t *Tree) Replace(old, repl Handle) {
	parent := t.nodes[old].Parent
	if parent == InvalidHandle {
		return
	}
	t.Detach(repl)
	p := t.nodes[parent]
	for i, c := range p.Children {
		if c == old {
			p.Children[i] = repl
			break
		}
	}
	t.nodes[repl].Parent = parent
	t.nodes[old].Parent = InvalidHandle
}

// Walk visits the subtree rooted at h in pre-order. Returning false from
// fn skips the node's children.
func (t *Tree) Walk(h Handle, fn func(Handle) bool) {
	if !fn(h) {
		return
	}
	// Children may be edited by fn's caller between visits; copy the list.
	children := append([]Handle(nil), t.nodes[h].Children...)
	for _, c := range children {
		t.Walk(c, fn)
	}
}

// Ancestor returns the nearest ancestor of h (excluding h) whose kind is
// one of kinds.
func (t *Tree) Ancestor(h Handle, kinds ...Kind) Handle {
	for p := t.Parent(h); p != InvalidHandle; p = t.Parent(p) {
		k := t.nodes[p].Kind
		for _, want := range kinds {
			if k == want {
				return p
			}
		}
	}
	return InvalidHandle
}

// Contains reports whether h is root or a descendant of root.
func (t *Tree) Contains(root, h Handle) bool {
	for ; h != InvalidHandle; h = t.Parent(h) {
		if h == root {
			return true
		}
	}
	return false
}
