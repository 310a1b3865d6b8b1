// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package ast

import (
	"strings"
	"testing"

	"github.com/gogpu/essl/types"
)

var pos = Position{Line: 1, Column: 1}

func TestAppendInsertDetach(t *testing.T) {
	tree := NewTree()
	block := tree.NewBlock(pos)
	a := tree.New(KindBreak, pos)
	b := tree.New(KindContinue, pos)
	c := tree.New(KindDiscard, pos)

	tree.Append(block, a)
	tree.Append(block, c)
	tree.Insert(block, 1, b)

	got := tree.Children(block)
	if len(got) != 3 || got[0] != a || got[1] != b || got[2] != c {
		t.Fatalf("children = %v, want [%d %d %d]", got, a, b, c)
	}
	if tree.Parent(b) != block {
		t.Errorf("Parent(b) = %d, want %d", tree.Parent(b), block)
	}

	if idx := tree.Detach(b); idx != 1 {
		t.Errorf("Detach index = %d, want 1", idx)
	}
	if tree.Parent(b) != InvalidHandle {
		t.Error("detached node should have no parent")
	}
	if n := len(tree.Children(block)); n != 2 {
		t.Errorf("children after detach = %d, want 2", n)
	}
}

func TestAppendMovesNode(t *testing.T) {
	tree := NewTree()
	from := tree.NewBlock(pos)
	to := tree.NewBlock(pos)
	stmt := tree.New(KindBreak, pos)

	tree.Append(from, stmt)
	tree.Append(to, stmt)

	if len(tree.Children(from)) != 0 {
		t.Error("node should have been removed from the old parent")
	}
	if tree.Parent(stmt) != to {
		t.Error("node should belong to the new parent")
	}
}

func TestReplace(t *testing.T) {
	tree := NewTree()
	left := tree.NewIdentifier(pos, "a")
	right := tree.NewIdentifier(pos, "b")
	bin := tree.NewBinary(pos, OpAdd, left, right)
	repl := tree.NewIntLiteral(pos, 7)

	tree.Replace(right, repl)

	if tree.Child(bin, 1) != repl {
		t.Error("replacement should occupy the old slot")
	}
	if tree.Parent(right) != InvalidHandle {
		t.Error("replaced node should be detached")
	}
}

func TestCloneCopiesAnnotations(t *testing.T) {
	tree := NewTree()
	ident := tree.NewIdentifier(pos, "v")
	sel := tree.NewFieldSelection(pos, ident, "xy")
	n := tree.Node(sel)
	n.Verified = true
	n.Sem.Type = types.NewBasic(types.Vec2)
	n.Sem.Swizzle = []int{0, 1}

	c := tree.Clone(sel)
	cn := tree.Node(c)
	if !cn.Verified || !cn.Sem.Type.Equals(types.NewBasic(types.Vec2)) {
		t.Error("clone should carry verification annotations")
	}
	cn.Sem.Swizzle[0] = 3
	if n.Sem.Swizzle[0] != 0 {
		t.Error("clone should not share the swizzle slice")
	}
	if tree.Child(c, 0) == ident {
		t.Error("clone should deep-copy children")
	}
	if tree.Node(tree.Child(c, 0)).Name != "v" {
		t.Error("cloned child should keep its name")
	}
}

func TestDeclaratorAccessors(t *testing.T) {
	tree := NewTree()
	size := tree.NewIntLiteral(pos, 4)
	d := tree.NewDeclarator(pos, "arr", size, InvalidHandle)
	if tree.ArraySize(d) != size {
		t.Error("ArraySize should return the size child")
	}
	if tree.Initializer(d) != InvalidHandle {
		t.Error("declarator has no initializer")
	}

	init := tree.NewFloatLiteral(pos, 1)
	d2 := tree.NewDeclarator(pos, "x", InvalidHandle, init)
	if tree.Initializer(d2) != init {
		t.Error("Initializer should return the initializer child")
	}
}

func TestScopeOwners(t *testing.T) {
	tree := NewTree()
	ret := tree.NewTypeSpecifier(pos, types.Void, types.PrecisionUndefined)
	proto := tree.NewPrototype(pos, "main", ret)
	inner := tree.NewBlock(pos)
	body := tree.NewBlock(pos, inner)
	def := tree.NewFunctionDefinition(pos, proto, body)
	tree.Append(tree.Root, def)

	if tree.IsScopeOwner(body) {
		t.Error("function body block shares the definition's scope")
	}
	if tree.IsScopeOwner(proto) {
		t.Error("a prototype inside a definition is not a scope owner")
	}
	if got := tree.ScopeOwner(inner); got != def {
		t.Errorf("ScopeOwner(inner) = %d, want definition %d", got, def)
	}
	if !tree.IsScopeOwner(inner) {
		t.Error("nested block owns a scope")
	}
}

func TestDump(t *testing.T) {
	tree := NewTree()
	sum := tree.NewBinary(pos, OpAdd, tree.NewIdentifier(pos, "a"), tree.NewIntLiteral(pos, 2))
	got := tree.Dump(sum)
	for _, want := range []string{"Binary +", `Identifier "a"`, "IntLiteral 2"} {
		if !strings.Contains(got, want) {
			t.Errorf("Dump missing %q:\n%s", want, got)
		}
	}
}
