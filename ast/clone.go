// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package ast

// Clone deep-copies the subtree rooted at h, annotations included, and
// returns the detached copy.
func (t *Tree) Clone(h Handle) Handle {
	src := t.nodes[h]
	c := t.New(src.Kind, src.Pos)
	dst := t.nodes[c]

	dst.Depth = src.Depth
	dst.Verified = src.Verified
	dst.Name = src.Name
	dst.Op = src.Op
	dst.Token = src.Token
	dst.Int = src.Int
	dst.Float = src.Float
	dst.Bool = src.Bool
	dst.Storage = src.Storage
	dst.Param = src.Param
	dst.Precision = src.Precision
	dst.Flags = src.Flags
	dst.Sem = src.Sem
	if src.Sem.Swizzle != nil {
		dst.Sem.Swizzle = append([]int(nil), src.Sem.Swizzle...)
	}

	for _, child := range src.Children {
		t.Append(c, t.Clone(child))
	}
	return c
}
