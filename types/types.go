// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package types implements the GLSL ES 1.00 type model: basic types,
// single-dimension arrays and structs, plus constant-expression values.
package types

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// NotArray is the array size passed to WrapArray for a non-array declarator.
const NotArray = -1

// MaxStructNesting is the deepest allowed struct-in-struct chain.
const MaxStructNesting = 4

var (
	// ErrNestedArray is returned when wrapping an array in another array.
	ErrNestedArray = errors.New("arrays of arrays are not supported")

	// ErrArraySize is returned for array sizes below one.
	ErrArraySize = errors.New("array size must be greater than zero")

	// ErrStructNesting is returned when struct nesting exceeds MaxStructNesting.
	ErrStructNesting = errors.New("struct nesting exceeds maximum depth")
)

// Type is one of *Basic, *Array or *Struct.
type Type interface {
	// String returns the GLSL spelling.
	String() string

	// Equals is the type identity used by verification.
	Equals(other Type) bool

	// Compatible is structural equality used to match declarations
	// across the vertex and fragment shaders.
	Compatible(other Type) bool

	isType()
}

// Basic is a scalar, vector, matrix, sampler or void type.
type Basic struct {
	Token Token
}

var basics [numTokens]*Basic

func init() {
	for i := range basics {
		basics[i] = &Basic{Token: Token(i)}
	}
}

// NewBasic returns the shared instance for tok.
func NewBasic(tok Token) *Basic {
	if tok >= numTokens {
		return basics[Void]
	}
	return basics[tok]
}

func (b *Basic) isType() {}

func (b *Basic) String() string { return b.Token.String() }

func (b *Basic) Equals(other Type) bool {
	o, ok := other.(*Basic)
	return ok && o.Token == b.Token
}

func (b *Basic) Compatible(other Type) bool { return b.Equals(other) }

// Array is a fixed-size array of a non-array element type.
type Array struct {
	Elem Type
	Size int
}

// WrapArray returns t wrapped in an array of the given size. A size of
// NotArray returns t itself.
func WrapArray(t Type, size int) (Type, error) {
	if size == NotArray {
		return t, nil
	}
	if size < 1 {
		return nil, errors.Wrapf(ErrArraySize, "size %d", size)
	}
	if _, ok := t.(*Array); ok {
		return nil, ErrNestedArray
	}
	return &Array{Elem: t, Size: size}, nil
}

func (a *Array) isType() {}

func (a *Array) String() string { return fmt.Sprintf("%s[%d]", a.Elem, a.Size) }

func (a *Array) Equals(other Type) bool {
	o, ok := other.(*Array)
	return ok && o.Size == a.Size && o.Elem.Equals(a.Elem)
}

func (a *Array) Compatible(other Type) bool {
	o, ok := other.(*Array)
	return ok && o.Size == a.Size && o.Elem.Compatible(a.Elem)
}

// Field is a struct member.
type Field struct {
	Name      string
	Type      Type
	Precision Precision
}

// Struct is a user-defined struct type. Two structs are equal only when
// they are the same declaration.
type Struct struct {
	// ID is assigned by the registry that owns the struct's type name.
	ID int

	// Name is the declared name, empty for anonymous structs.
	Name string

	Fields []Field

	constructorUsed bool
	equalityUsed    bool
}

// NewStruct creates a struct type, enforcing MaxStructNesting.
func NewStruct(name string, fields []Field) (*Struct, error) {
	s := &Struct{Name: name, Fields: fields}
	if s.Depth() > MaxStructNesting {
		return nil, errors.Wrapf(ErrStructNesting, "struct %q", name)
	}
	return s, nil
}

func (s *Struct) isType() {}

func (s *Struct) String() string {
	if s.Name == "" {
		return "struct <anonymous>"
	}
	return s.Name
}

func (s *Struct) Equals(other Type) bool {
	o, ok := other.(*Struct)
	return ok && o == s
}

func (s *Struct) Compatible(other Type) bool {
	o, ok := other.(*Struct)
	if !ok {
		return false
	}
	if o == s {
		return true
	}
	if o.Name != s.Name || len(o.Fields) != len(s.Fields) {
		return false
	}
	for i, f := range s.Fields {
		g := o.Fields[i]
		if f.Name != g.Name || f.Precision != g.Precision || !f.Type.Compatible(g.Type) {
			return false
		}
	}
	return true
}

// Depth returns the struct nesting depth; a struct of basic fields is 1.
func (s *Struct) Depth() int {
	depth := 0
	for _, f := range s.Fields {
		if inner, ok := Elem(f.Type).(*Struct); ok {
			if d := inner.Depth(); d > depth {
				depth = d
			}
		}
	}
	return depth + 1
}

// Field returns the index of the named field.
func (s *Struct) Field(name string) (int, bool) {
	for i, f := range s.Fields {
		if f.Name == name {
			return i, true
		}
	}
	return -1, false
}

// HasArrays reports whether the struct contains an array at any depth.
func (s *Struct) HasArrays() bool {
	for _, f := range s.Fields {
		if _, ok := f.Type.(*Array); ok {
			return true
		}
		if inner, ok := f.Type.(*Struct); ok && inner.HasArrays() {
			return true
		}
	}
	return false
}

// MarkConstructorUsed records that a constructor call for s was verified.
func (s *Struct) MarkConstructorUsed() { s.constructorUsed = true }

// ConstructorUsed reports whether a constructor function must be emitted.
func (s *Struct) ConstructorUsed() bool { return s.constructorUsed }

// MarkEqualityUsed records that s is compared. Nested struct fields are
// marked too since the equality function compares them recursively.
func (s *Struct) MarkEqualityUsed() {
	s.equalityUsed = true
	for _, f := range s.Fields {
		if inner, ok := f.Type.(*Struct); ok {
			inner.MarkEqualityUsed()
		}
	}
}

// EqualityUsed reports whether an equality function must be emitted.
func (s *Struct) EqualityUsed() bool { return s.equalityUsed }

// AsBasic returns the basic token of t when t is a *Basic.
func AsBasic(t Type) (Token, bool) {
	if b, ok := t.(*Basic); ok {
		return b.Token, true
	}
	return Void, false
}

// IsToken reports whether t is the basic type tok.
func IsToken(t Type, tok Token) bool {
	got, ok := AsBasic(t)
	return ok && got == tok
}

// Elem returns the element type of an array, or t itself.
func Elem(t Type) Type {
	if a, ok := t.(*Array); ok {
		return a.Elem
	}
	return t
}

// ArraySize returns the array size of t, or NotArray.
func ArraySize(t Type) int {
	if a, ok := t.(*Array); ok {
		return a.Size
	}
	return NotArray
}

// ElementCount returns the number of elements of t: its array size, or 1.
func ElementCount(t Type) int {
	if a, ok := t.(*Array); ok {
		return a.Size
	}
	return 1
}

// IsSampler reports whether t is a sampler or an array of samplers.
func IsSampler(t Type) bool {
	tok, ok := AsBasic(Elem(t))
	return ok && tok.IsSampler()
}

// ContainsSampler reports whether a sampler occurs anywhere within t.
func ContainsSampler(t Type) bool {
	switch t := Elem(t).(type) {
	case *Basic:
		return t.Token.IsSampler()
	case *Struct:
		for _, f := range t.Fields {
			if ContainsSampler(f.Type) {
				return true
			}
		}
	}
	return false
}

// IsVoid reports whether t is void.
func IsVoid(t Type) bool { return IsToken(t, Void) }

// RegisterCount returns the number of four-component registers needed to
// hold a value of type t, used for uniform and varying budgets.
func RegisterCount(t Type) int {
	switch t := t.(type) {
	case *Basic:
		return t.Token.Rows()
	case *Array:
		return t.Size * RegisterCount(t.Elem)
	case *Struct:
		n := 0
		for _, f := range t.Fields {
			n += RegisterCount(f.Type)
		}
		return n
	}
	return 0
}

// Leaf is one basic-typed element reachable from a variable, as reported
// by uniform reflection.
type Leaf struct {
	// Suffix is appended to the variable name, e.g. "[1].f2".
	Suffix string

	Token Token

	// ArraySize is NotArray unless the leaf is an array of basic types.
	ArraySize int

	// Offset is the first register of the leaf relative to the variable,
	// counted as RegisterCount counts.
	Offset int

	// Precision is the struct field precision; undefined outside structs.
	Precision Precision
}

// ActiveLeaves enumerates the basic-typed leaves of t in declaration order.
// Arrays of structs enumerate the struct once and then duplicate the list
// for each element.
func ActiveLeaves(t Type) []Leaf {
	switch t := t.(type) {
	case *Basic:
		return []Leaf{{Token: t.Token, ArraySize: NotArray}}
	case *Array:
		switch elem := t.Elem.(type) {
		case *Basic:
			return []Leaf{{Suffix: "[0]", Token: elem.Token, ArraySize: t.Size}}
		default:
			inner := ActiveLeaves(elem)
			stride := RegisterCount(elem)
			leaves := make([]Leaf, 0, len(inner)*t.Size)
			for i := 0; i < t.Size; i++ {
				prefix := fmt.Sprintf("[%d]", i)
				for _, l := range inner {
					l.Suffix = prefix + l.Suffix
					l.Offset += i * stride
					leaves = append(leaves, l)
				}
			}
			return leaves
		}
	case *Struct:
		var leaves []Leaf
		offset := 0
		for _, f := range t.Fields {
			for _, l := range ActiveLeaves(f.Type) {
				l.Suffix = "." + f.Name + l.Suffix
				l.Offset += offset
				if l.Precision == PrecisionUndefined {
					l.Precision = f.Precision
				}
				leaves = append(leaves, l)
			}
			offset += RegisterCount(f.Type)
		}
		return leaves
	}
	return nil
}

// Describe returns a short description used in diagnostics, such as
// "highp vec3" or "S[4]".
func Describe(t Type, p Precision) string {
	var b strings.Builder
	if p != PrecisionUndefined {
		b.WriteString(p.String())
		b.WriteByte(' ')
	}
	if t == nil {
		b.WriteString("<nil>")
	} else {
		b.WriteString(t.String())
	}
	return b.String()
}
