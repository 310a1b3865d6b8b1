// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package rewrite

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/gogpu/essl/ast"
	"github.com/gogpu/essl/parse"
	"github.com/gogpu/essl/sema"
	"github.com/gogpu/essl/types"
)

func mustRewrite(t *testing.T, stage sema.Stage, src string) *sema.Context {
	t.Helper()
	tree, err := parse.Parse(src)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	c := sema.NewContext(tree, sema.DefaultOptions(stage))
	if err := c.VerifyTree(); err != nil {
		t.Fatalf("VerifyTree failed: %v", err)
	}
	if err := Run(c); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	return c
}

// mainBody returns the statements of main.
func mainBody(c *sema.Context) []ast.Handle {
	def := c.Registry.Function(c.Main).Definition
	return c.Tree.Children(c.Tree.Body(def))
}

func kinds(tree *ast.Tree, hs []ast.Handle) []ast.Kind {
	out := make([]ast.Kind, len(hs))
	for i, h := range hs {
		out[i] = tree.Kind(h)
	}
	return out
}

// count returns the number of nodes under root matching pred.
func count(tree *ast.Tree, root ast.Handle, pred func(*ast.Node) bool) int {
	n := 0
	tree.Walk(root, func(h ast.Handle) bool {
		if pred(tree.Node(h)) {
			n++
		}
		return true
	})
	return n
}

func isShortCircuit(n *ast.Node) bool {
	return n.Kind == ast.KindTernary || (n.Kind == ast.KindBinary && n.Op.IsShortCircuit())
}

func TestDeferGlobalInitializers(t *testing.T) {
	c := mustRewrite(t, sema.StageVertex, `
uniform float u;
float g = 2.0;
float h = g * u, k;
void main() { gl_Position = vec4(g, h, k, 1.0); }`)
	tree := c.Tree

	if c.InitGlobals == ast.NoInfo {
		t.Fatal("InitGlobals not set")
	}
	fn := c.Registry.Function(c.InitGlobals)
	if !fn.Defined || !fn.Called {
		t.Errorf("webgl_init_globals: defined=%v called=%v", fn.Defined, fn.Called)
	}

	top := tree.Children(tree.Root)
	last := top[len(top)-1]
	if tree.Node(tree.Prototype(last)).Name != InitGlobalsName {
		t.Errorf("last definition is %q, want %q", tree.Node(tree.Prototype(last)).Name, InitGlobalsName)
	}
	if got := len(tree.Children(tree.Body(last))); got != 2 {
		t.Errorf("webgl_init_globals has %d statements, want 2", got)
	}

	mainIdx := tree.IndexOf(tree.Root, c.Registry.Function(c.Main).Definition)
	proto := top[mainIdx-1]
	if tree.Kind(proto) != ast.KindFunctionPrototype || tree.Node(proto).Name != InitGlobalsName {
		t.Errorf("no webgl_init_globals prototype before main")
	}

	first := mainBody(c)[0]
	call := tree.Child(first, 0)
	if tree.Kind(call) != ast.KindCall || tree.Node(call).Name != InitGlobalsName {
		t.Errorf("main does not start with a call to webgl_init_globals:\n%s", tree.Dump(first))
	}

	for _, v := range c.Registry.Variables {
		d := c.Registry.Variable(v).Decl
		if tree.Initializer(d) != ast.InvalidHandle {
			t.Errorf("%s keeps its initializer", c.SourceName(c.Registry.Variable(v)))
		}
	}
}

func TestDeferGlobalInitializersKeepsConstants(t *testing.T) {
	c := mustRewrite(t, sema.StageVertex, `
const float scale = 2.0;
void main() { gl_Position = vec4(scale); }`)

	if c.InitGlobals != ast.NoInfo {
		t.Error("InitGlobals set for a shader with only constant globals")
	}
	if got := len(c.Tree.Children(c.Tree.Root)); got != 2 {
		t.Errorf("translation unit has %d children, want 2", got)
	}
}

func TestEliminateLogicalAnd(t *testing.T) {
	c := mustRewrite(t, sema.StageVertex, `void main() { bool b = true && false; }`)
	tree := c.Tree

	body := mainBody(c)
	want := []ast.Kind{ast.KindDeclaration, ast.KindIf, ast.KindDeclaration}
	if diff := cmp.Diff(want, kinds(tree, body)); diff != "" {
		t.Fatalf("main body mismatch (-want +got):\n%s", diff)
	}

	temp := tree.Node(tree.Declarators(body[0])[0])
	if temp.Name != "webgl_sc0" || !types.IsToken(temp.Sem.Type, types.Bool) {
		t.Errorf("placeholder is %s %q, want bool webgl_sc0", temp.Sem.Type, temp.Name)
	}

	// if (true) { webgl_sc0 = false; } else { webgl_sc0 = false; }
	els := tree.Child(body[1], 2)
	assign := tree.Child(tree.Child(els, 0), 0)
	value := tree.Node(tree.Child(assign, 1))
	if value.Kind != ast.KindBoolLiteral || value.Bool {
		t.Errorf("else branch assigns %s, want false", tree.Dump(assign))
	}

	init := tree.Node(tree.Initializer(tree.Declarators(body[2])[0]))
	if init.Kind != ast.KindIdentifier || init.Name != "webgl_sc0" {
		t.Errorf("b is initialized with %s, want webgl_sc0", tree.Dump(tree.Initializer(tree.Declarators(body[2])[0])))
	}
	if n := count(tree, tree.Root, isShortCircuit); n != 0 {
		t.Errorf("%d short circuits remain", n)
	}
}

func TestEliminateLogicalOr(t *testing.T) {
	c := mustRewrite(t, sema.StageVertex, `
void main() {
    bool a = false;
    bool b = a || !a;
}`)
	tree := c.Tree
	body := mainBody(c)

	ifStmt := body[2]
	then := tree.Child(tree.Child(tree.Child(ifStmt, 1), 0), 0)
	value := tree.Node(tree.Child(then, 1))
	if value.Kind != ast.KindBoolLiteral || !value.Bool {
		t.Errorf("then branch assigns %s, want true", tree.Dump(then))
	}
	els := tree.Child(tree.Child(tree.Child(ifStmt, 2), 0), 0)
	if op := tree.Node(tree.Child(els, 1)); op.Kind != ast.KindUnary || op.Op != ast.OpNot {
		t.Errorf("else branch assigns %s, want !a", tree.Dump(els))
	}
}

func TestNestedShortCircuits(t *testing.T) {
	c := mustRewrite(t, sema.StageVertex, `
void main() {
    bool a = true;
    bool b = false;
    float f = (a && (b || a)) ? 1.0 : 0.0;
}`)
	if n := count(c.Tree, c.Tree.Root, isShortCircuit); n != 0 {
		t.Errorf("%d short circuits remain", n)
	}
	temps := 0
	for _, id := range c.Registry.Variables {
		if strings.HasPrefix(c.SourceName(c.Registry.Variable(id)), "webgl_") {
			temps++
		}
	}
	if temps != 3 {
		t.Errorf("got %d temporaries, want 3", temps)
	}
}

func TestShortCircuitCapturesEarlierOperands(t *testing.T) {
	c := mustRewrite(t, sema.StageVertex, `
float f(float x) { return x * 2.0; }
void main() {
    float a = 1.0;
    float r = f(a + 1.0) + (a > 0.0 ? 1.0 : 2.0);
}`)
	tree := c.Tree
	body := mainBody(c)

	want := []ast.Kind{
		ast.KindDeclaration,         // a
		ast.KindDeclaration,         // webgl_sc0
		ast.KindExpressionStatement, // webgl_sc0 = f(a + 1.0)
		ast.KindDeclaration,         // webgl_sc1
		ast.KindIf,
		ast.KindDeclaration, // r
	}
	if diff := cmp.Diff(want, kinds(tree, body)); diff != "" {
		t.Fatalf("main body mismatch (-want +got):\n%s", diff)
	}

	captured := tree.Node(tree.Child(tree.Child(body[2], 0), 1))
	if captured.Kind != ast.KindCall || captured.Name != "f" {
		t.Errorf("captured %s, want the call to f", captured.Kind)
	}

	sum := tree.Initializer(tree.Declarators(body[5])[0])
	var names []string
	for _, op := range tree.Children(sum) {
		names = append(names, tree.Node(op).Name)
	}
	if diff := cmp.Diff([]string{"webgl_sc0", "webgl_sc1"}, names); diff != "" {
		t.Errorf("operands mismatch (-want +got):\n%s", diff)
	}
}

func TestShortCircuitSplitsDeclarations(t *testing.T) {
	c := mustRewrite(t, sema.StageVertex, `
void main() {
    float x = 1.0, y = x > 0.0 ? 2.0 : 3.0;
}`)
	tree := c.Tree
	body := mainBody(c)

	want := []ast.Kind{ast.KindDeclaration, ast.KindDeclaration, ast.KindIf, ast.KindDeclaration}
	if diff := cmp.Diff(want, kinds(tree, body)); diff != "" {
		t.Fatalf("main body mismatch (-want +got):\n%s", diff)
	}
	if got := tree.Node(tree.Declarators(body[0])[0]).Name; got != "x" {
		t.Errorf("first declaration declares %q, want x", got)
	}
	if got := tree.Node(tree.Declarators(body[3])[0]).Name; got != "y" {
		t.Errorf("split declaration declares %q, want y", got)
	}
}

func TestShortCircuitWrapsNestedBodies(t *testing.T) {
	c := mustRewrite(t, sema.StageVertex, `
void main() {
    bool c = true;
    if (c) gl_Position = vec4(c ? 1.0 : 0.0);
}`)
	tree := c.Tree
	then := tree.Child(mainBody(c)[1], 1)

	want := []ast.Kind{ast.KindDeclaration, ast.KindIf, ast.KindExpressionStatement}
	if diff := cmp.Diff(want, kinds(tree, tree.Children(then))); diff != "" {
		t.Errorf("if body mismatch (-want +got):\n%s", diff)
	}
}

func TestShortCircuitAtGlobalScope(t *testing.T) {
	c := mustRewrite(t, sema.StageVertex, `
const float k = true ? 1.0 : 2.0;
void main() { gl_Position = vec4(k); }`)
	if n := count(c.Tree, c.Tree.Root, isShortCircuit); n != 1 {
		t.Errorf("%d short circuits remain, want the global one", n)
	}
}

func TestHoistStructs(t *testing.T) {
	c := mustRewrite(t, sema.StageVertex, `
struct Light { vec3 color; };
void main() {
    struct S { float a; } s;
    s.a = 1.0;
    Light l;
}`)
	tree := c.Tree

	if len(c.Structs) != 2 {
		t.Fatalf("hoisted %d structs, want 2", len(c.Structs))
	}
	var names []string
	for _, st := range c.Structs {
		names = append(names, tree.Node(st).Name)
		if tree.Parent(st) != ast.InvalidHandle {
			t.Errorf("struct %s is still attached", tree.Node(st).Name)
		}
	}
	if diff := cmp.Diff([]string{"Light", "S"}, names); diff != "" {
		t.Errorf("hoisted structs mismatch (-want +got):\n%s", diff)
	}

	if n := count(tree, tree.Root, func(n *ast.Node) bool { return n.Kind == ast.KindStructSpecifier }); n != 0 {
		t.Errorf("%d struct specifiers remain in the tree", n)
	}

	spec := tree.Node(tree.TypeSpec(mainBody(c)[0]))
	if !spec.Flags.Has(ast.FlagTypeRef) || !spec.Verified {
		t.Errorf("declaration of s lost its type: %s", tree.Dump(tree.TypeSpec(mainBody(c)[0])))
	}
	if st, ok := spec.Sem.Type.(*types.Struct); !ok || st.Name != "S" {
		t.Errorf("declaration of s has type %v, want S", spec.Sem.Type)
	}
}

func TestSplitSamplers(t *testing.T) {
	c := mustRewrite(t, sema.StageFragment, `
precision mediump float;
uniform sampler2D s;
uniform sampler2D arr[2];
uniform samplerCube env;
vec4 fetch(sampler2D x) { return texture2D(x, vec2(0.0)); }
void main() {
    gl_FragColor = fetch(s) + texture2D(arr[1], vec2(0.0)) + textureCube(env, vec3(1.0));
}`)
	tree := c.Tree

	var objects []string
	for _, h := range tree.Children(tree.Root) {
		n := tree.Node(h)
		if n.Kind != ast.KindDeclaration {
			continue
		}
		switch {
		case n.Flags.Has(ast.FlagSamplerObject):
			objects = append(objects, "sampler "+tree.Node(tree.Declarators(h)[0]).Name)
		case n.Flags.Has(ast.FlagTextureObject):
			objects = append(objects, "texture "+tree.Node(tree.Declarators(h)[0]).Name)
		}
	}
	want := []string{
		"sampler s", "texture s",
		"sampler arr", "texture arr",
		"sampler env", "texture env",
	}
	if diff := cmp.Diff(want, objects); diff != "" {
		t.Errorf("global declarations mismatch (-want +got):\n%s", diff)
	}

	registers := map[string]int{}
	for _, id := range c.Registry.Variables {
		v := c.Registry.Variable(id)
		if v.IsGlobal() && types.IsSampler(v.Type) {
			registers[c.SourceName(v)] = v.Register
			if v.Name(sema.SlotSampler) == v.Name(sema.SlotTexture) {
				t.Errorf("%s has one name for both objects", c.SourceName(v))
			}
		}
	}
	if diff := cmp.Diff(map[string]int{"s": 0, "arr": 1, "env": 3}, registers); diff != "" {
		t.Errorf("registers mismatch (-want +got):\n%s", diff)
	}
	if c.SamplerRegisters != 4 {
		t.Errorf("SamplerRegisters = %d, want 4", c.SamplerRegisters)
	}

	fn := c.Registry.Function(c.Registry.Functions[0])
	params := tree.Params(tree.Prototype(fn.Definition))
	if len(params) != 2 ||
		!tree.Node(params[0]).Flags.Has(ast.FlagSamplerObject) ||
		!tree.Node(params[1]).Flags.Has(ast.FlagTextureObject) {
		t.Errorf("sampler parameter not split:\n%s", tree.Dump(tree.Prototype(fn.Definition)))
	}
}

func TestRunRefusesDiagnostics(t *testing.T) {
	tree, err := parse.Parse("void main() { x = 1.0; }")
	if err != nil {
		t.Fatal(err)
	}
	c := sema.NewContext(tree, sema.DefaultOptions(sema.StageVertex))
	if c.VerifyTree() == nil {
		t.Fatal("VerifyTree succeeded on an undeclared identifier")
	}
	before := tree.Len()
	if err := Run(c); err == nil {
		t.Error("Run succeeded after diagnostics")
	}
	if tree.Len() != before {
		t.Error("Run modified a tree with diagnostics")
	}
}
