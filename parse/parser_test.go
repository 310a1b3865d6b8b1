// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package parse

import (
	"strings"
	"testing"

	"github.com/gogpu/essl/ast"
	"github.com/gogpu/essl/types"
)

func mustParse(t *testing.T, src string) *ast.Tree {
	t.Helper()
	tree, err := Parse(src)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	return tree
}

func TestParseFunctionDefinition(t *testing.T) {
	tree := mustParse(t, `
precision mediump float;
uniform vec4 color;
void main() {
    gl_FragColor = color;
}`)

	top := tree.Children(tree.Root)
	if len(top) != 3 {
		t.Fatalf("got %d top-level nodes, want 3", len(top))
	}
	if k := tree.Kind(top[0]); k != ast.KindPrecisionStatement {
		t.Errorf("node 0 = %v, want PrecisionStatement", k)
	}
	decl := tree.Node(top[1])
	if decl.Kind != ast.KindDeclaration || decl.Storage != ast.StorageUniform {
		t.Errorf("node 1 = %v %v, want uniform Declaration", decl.Kind, decl.Storage)
	}
	def := top[2]
	if tree.Kind(def) != ast.KindFunctionDefinition {
		t.Fatalf("node 2 = %v, want FunctionDefinition", tree.Kind(def))
	}
	if name := tree.Node(tree.Prototype(def)).Name; name != "main" {
		t.Errorf("function name = %q, want main", name)
	}
	body := tree.Node(tree.Body(def))
	if !body.Flags.Has(ast.FlagFunctionBody) {
		t.Error("definition body should be flagged as function body")
	}
}

func TestParseVoidParameterList(t *testing.T) {
	tree := mustParse(t, "float f(void);")
	proto := tree.Child(tree.Root, 0)
	if n := len(tree.Params(proto)); n != 0 {
		t.Errorf("got %d params, want 0", n)
	}
}

func TestParseParameters(t *testing.T) {
	tree := mustParse(t, "void f(const in float a, out vec3 b[2], inout int c);")
	params := tree.Params(tree.Child(tree.Root, 0))
	if len(params) != 3 {
		t.Fatalf("got %d params, want 3", len(params))
	}
	a, b, c := tree.Node(params[0]), tree.Node(params[1]), tree.Node(params[2])
	if a.Storage != ast.StorageConst || a.Param != ast.ParamIn {
		t.Errorf("a qualifiers = %v %v", a.Storage, a.Param)
	}
	if b.Param != ast.ParamOut || !b.Flags.Has(ast.FlagArraySize) {
		t.Errorf("b should be an out array parameter")
	}
	if c.Param != ast.ParamInOut || c.Name != "c" {
		t.Errorf("c = %q %v", c.Name, c.Param)
	}
}

func TestParseDeclaratorList(t *testing.T) {
	tree := mustParse(t, "void main() { float a = 1.0, b[3], c = a; }")
	body := tree.Body(tree.Child(tree.Root, 0))
	decl := tree.Child(body, 0)
	ds := tree.Declarators(decl)
	if len(ds) != 3 {
		t.Fatalf("got %d declarators, want 3", len(ds))
	}
	if tree.Initializer(ds[0]) == ast.InvalidHandle {
		t.Error("a should have an initializer")
	}
	if tree.ArraySize(ds[1]) == ast.InvalidHandle {
		t.Error("b should have an array size")
	}
}

func TestParseStruct(t *testing.T) {
	tree := mustParse(t, "struct Light { vec3 dir; float power; } sun;")
	decl := tree.Child(tree.Root, 0)
	spec := tree.TypeSpec(decl)
	st := tree.StructSpec(spec)
	if st == ast.InvalidHandle {
		t.Fatal("type specifier should hold a struct specifier")
	}
	if name := tree.Node(st).Name; name != "Light" {
		t.Errorf("struct name = %q, want Light", name)
	}
	if n := len(tree.Children(st)); n != 2 {
		t.Errorf("got %d member declarations, want 2", n)
	}
	if n := len(tree.Declarators(decl)); n != 1 {
		t.Errorf("got %d declarators, want 1", n)
	}
}

func TestParsePrecedence(t *testing.T) {
	tree := mustParse(t, "void main() { x = a + b * c; }")
	body := tree.Body(tree.Child(tree.Root, 0))
	assign := tree.Child(tree.Child(body, 0), 0)
	if op := tree.Node(assign).Op; op != ast.OpAssign {
		t.Fatalf("root op = %v, want =", op)
	}
	add := tree.Child(assign, 1)
	if op := tree.Node(add).Op; op != ast.OpAdd {
		t.Errorf("rhs op = %v, want +", op)
	}
	if op := tree.Node(tree.Child(add, 1)).Op; op != ast.OpMul {
		t.Errorf("nested op = %v, want *", op)
	}
}

func TestParseStatementForms(t *testing.T) {
	src := `
void main() {
    vec3 v = vec3(1.0);
    S s;
    for (int i = 0; i < 4; i++) { if (i == 2) break; else continue; }
    while (true) {}
    do { discard; } while (false);
    v.xy = c ? v.yx : v.xx;
    return;
}`
	tree := mustParse(t, src)
	body := tree.Body(tree.Child(tree.Root, 0))
	want := []ast.Kind{
		ast.KindDeclaration,
		ast.KindDeclaration,
		ast.KindFor,
		ast.KindWhile,
		ast.KindDoWhile,
		ast.KindExpressionStatement,
		ast.KindReturn,
	}
	got := tree.Children(body)
	if len(got) != len(want) {
		t.Fatalf("got %d statements, want %d:\n%s", len(got), len(want), tree.Dump(body))
	}
	for i, k := range want {
		if tree.Kind(got[i]) != k {
			t.Errorf("statement %d = %v, want %v", i, tree.Kind(got[i]), k)
		}
	}

	ctor := tree.Initializer(tree.Declarators(got[0])[0])
	if n := tree.Node(ctor); n.Kind != ast.KindCall || n.Token != types.Vec3 || n.Name != "" {
		t.Errorf("initializer should be a vec3 constructor, got %v", n.Kind)
	}
}

func TestParseIntLiterals(t *testing.T) {
	tests := []struct {
		input string
		want  int32
	}{
		{"10", 10},
		{"010", 8},
		{"0x10", 16},
		{"0xFFFFFFFF", -1},
	}
	for _, tt := range tests {
		got, err := parseInt(tt.input)
		if err != nil {
			t.Errorf("parseInt(%q) error: %v", tt.input, err)
			continue
		}
		if got != tt.want {
			t.Errorf("parseInt(%q) = %d, want %d", tt.input, got, tt.want)
		}
	}
	if _, err := parseInt("2147483648"); err == nil {
		t.Error("parseInt should reject decimal literals above INT_MAX")
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"missing semicolon", "float x\nfloat y;", "expected ';'"},
		{"reserved keyword", "void main() { goto x; }", "reserved keyword"},
		{"unsized array", "uniform float a[];", "unsized arrays"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.input)
			if err == nil {
				t.Fatal("expected a parse error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %q, want substring %q", err.Error(), tt.want)
			}
			if _, ok := err.(Errors); !ok {
				t.Errorf("error type = %T, want Errors", err)
			}
		})
	}
}

func TestParseRecordsExtensions(t *testing.T) {
	tree := mustParse(t, "#extension GL_EXT_frag_depth : enable\nvoid main() {}")
	if tree.Extensions["GL_EXT_frag_depth"] != "enable" {
		t.Errorf("extensions = %v", tree.Extensions)
	}
}
