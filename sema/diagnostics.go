// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package sema

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"github.com/gogpu/essl/ast"
)

// ErrKnown is returned by verification after a diagnostic was recorded.
// Callers propagate it unchanged to abort the current subtree.
var ErrKnown = errors.New("shader has errors")

// DiagnosticKind classifies a diagnostic.
type DiagnosticKind uint8

const (
	DiagInternal DiagnosticKind = iota
	DiagSyntax
	DiagTooComplex
	DiagShaderTooLarge

	// Names and scopes
	DiagUndeclaredIdentifier
	DiagRedeclaration
	DiagReservedIdentifier
	DiagNotAFunction
	DiagNotAVariable
	DiagNotAType

	// Expressions
	DiagReservedOperator
	DiagTypeMismatch
	DiagInvalidOperand
	DiagLvalueRequired
	DiagLoopIndexModified
	DiagNoMatchingOverload
	DiagConstructorArity
	DiagConstructorType
	DiagConstructorMatrixArgs
	DiagInvalidSwizzle
	DiagNoSuchField
	DiagInvalidFieldSelection
	DiagIndexOutOfRange
	DiagInvalidIndex
	DiagDivideByZero
	DiagIntegerOverflow

	// Declarations
	DiagArraySize
	DiagConstRequiresInitializer
	DiagConstNotConstant
	DiagInvalidQualifier
	DiagInitializerNotAllowed
	DiagMissingPrecision
	DiagInvalidPrecision
	DiagSamplerNotUniform
	DiagSamplerInStruct
	DiagStructNesting
	DiagEmbeddedStruct
	DiagDuplicateField
	DiagVoidVariable
	DiagParameterQualifier
	DiagInvariantMisuse

	// Functions and statements
	DiagReturnType
	DiagBreakOutsideLoop
	DiagDiscardOutsideFragment
	DiagUnsupportedLoop
	DiagLoopForm
	DiagMainSignature
	DiagMissingMain
	DiagFunctionRedefinition
	DiagFunctionReturnMismatch
	DiagBuiltinRedefinition
	DiagUndefinedFunction
	DiagRecursion
	DiagExtensionNotEnabled

	// Resource budgets
	DiagTooManyUniforms
	DiagTooManyVaryings
	DiagTooManyAttributes
	DiagTooManySamplers

	// Linking
	DiagLinkMissingVarying
	DiagLinkTypeMismatch
	DiagLinkPrecisionMismatch

	numDiagnosticKinds
)

var diagnosticMessages = [numDiagnosticKinds]string{
	DiagInternal:                 "internal error",
	DiagSyntax:                   "syntax error",
	DiagTooComplex:               "expression too complex",
	DiagShaderTooLarge:           "shader too large",
	DiagUndeclaredIdentifier:     "undeclared identifier",
	DiagRedeclaration:            "redefinition",
	DiagReservedIdentifier:       "reserved identifier",
	DiagNotAFunction:             "not a function",
	DiagNotAVariable:             "not a variable",
	DiagNotAType:                 "not a type name",
	DiagReservedOperator:         "reserved operator",
	DiagTypeMismatch:             "type mismatch",
	DiagInvalidOperand:           "invalid operand",
	DiagLvalueRequired:           "l-value required",
	DiagLoopIndexModified:        "loop index cannot be modified",
	DiagNoMatchingOverload:       "no matching overloaded function found",
	DiagConstructorArity:         "wrong number of constructor arguments",
	DiagConstructorType:          "invalid constructor argument",
	DiagConstructorMatrixArgs:    "a matrix argument to a matrix constructor must be the only argument",
	DiagInvalidSwizzle:           "invalid swizzle",
	DiagNoSuchField:              "no such field",
	DiagInvalidFieldSelection:    "field selection requires a struct or vector",
	DiagIndexOutOfRange:          "index out of range",
	DiagInvalidIndex:             "invalid index",
	DiagDivideByZero:             "division by zero",
	DiagIntegerOverflow:          "integer overflow",
	DiagArraySize:                "array size must be a positive constant integer",
	DiagConstRequiresInitializer: "const variable requires an initializer",
	DiagConstNotConstant:         "const initializer must be a constant expression",
	DiagInvalidQualifier:         "invalid qualifier",
	DiagInitializerNotAllowed:    "initializer not allowed",
	DiagMissingPrecision:         "no default precision defined",
	DiagInvalidPrecision:         "precision cannot be applied to this type",
	DiagSamplerNotUniform:        "samplers must be uniform",
	DiagSamplerInStruct:          "samplers in structs are not supported",
	DiagStructNesting:            "struct nesting exceeds maximum depth",
	DiagEmbeddedStruct:           "embedded struct definitions are not supported",
	DiagDuplicateField:           "duplicate field name",
	DiagVoidVariable:             "variables cannot be void",
	DiagParameterQualifier:       "invalid parameter qualifier",
	DiagInvariantMisuse:          "invariant can only qualify shader outputs",
	DiagReturnType:               "return type mismatch",
	DiagBreakOutsideLoop:         "break or continue outside a loop",
	DiagDiscardOutsideFragment:   "discard is only allowed in fragment shaders",
	DiagUnsupportedLoop:          "only for loops are supported",
	DiagLoopForm:                 "for loop does not have the required form",
	DiagMainSignature:            "main must be declared as void main()",
	DiagMissingMain:              "missing main function",
	DiagFunctionRedefinition:     "function already has a body",
	DiagFunctionReturnMismatch:   "overloads differ only in return type",
	DiagBuiltinRedefinition:      "cannot redefine a builtin function",
	DiagUndefinedFunction:        "function is called but never defined",
	DiagRecursion:                "recursion is not allowed",
	DiagExtensionNotEnabled:      "extension is not enabled",
	DiagTooManyUniforms:          "too many uniforms",
	DiagTooManyVaryings:          "too many varyings",
	DiagTooManyAttributes:        "too many attributes",
	DiagTooManySamplers:          "too many samplers",
	DiagLinkMissingVarying:       "varying is not declared by the vertex shader",
	DiagLinkTypeMismatch:         "declarations differ between shaders",
	DiagLinkPrecisionMismatch:    "precisions differ between shaders",
}

func (k DiagnosticKind) String() string {
	if k < numDiagnosticKinds {
		return diagnosticMessages[k]
	}
	return fmt.Sprintf("DiagnosticKind(%d)", uint8(k))
}

// Diagnostic is one reported problem.
type Diagnostic struct {
	Pos  ast.Position
	Kind DiagnosticKind

	// Context is optional free text, usually the offending name.
	Context string
}

// Error implements the error interface.
func (d Diagnostic) Error() string {
	msg := d.Kind.String()
	if d.Context != "" {
		msg = fmt.Sprintf("'%s' : %s", d.Context, msg)
	}
	if d.Pos.Line == 0 {
		return msg
	}
	return fmt.Sprintf("%s: %s", d.Pos, msg)
}

// FormatWithContext returns the diagnostic with the offending source line
// and a caret under the reported column.
func (d Diagnostic) FormatWithContext(source string) string {
	if source == "" || d.Pos.Line == 0 {
		return d.Error()
	}

	lines := strings.Split(source, "\n")
	lineNum := d.Pos.Line
	if lineNum < 1 || lineNum > len(lines) {
		return d.Error()
	}

	line := lines[lineNum-1]
	col := d.Pos.Column
	if col < 1 {
		col = 1
	}
	if col > len(line)+1 {
		col = len(line) + 1
	}

	msg := d.Kind.String()
	if d.Context != "" {
		msg = fmt.Sprintf("'%s' : %s", d.Context, msg)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "error: %s\n", msg)
	fmt.Fprintf(&sb, "  --> line %d:%d\n", lineNum, col)
	sb.WriteString("   |\n")
	fmt.Fprintf(&sb, "%3d| %s\n", lineNum, line)
	fmt.Fprintf(&sb, "   | %s^\n", strings.Repeat(" ", col-1))
	return sb.String()
}

// Diagnostics is the ordered list of problems found in a shader.
type Diagnostics []Diagnostic

// Error implements the error interface.
func (ds Diagnostics) Error() string {
	switch len(ds) {
	case 0:
		return "no errors"
	case 1:
		return ds[0].Error()
	}
	return fmt.Sprintf("%s (and %d more errors)", ds[0].Error(), len(ds)-1)
}

// FormatWithContext formats every diagnostic with its source excerpt.
func (ds Diagnostics) FormatWithContext(source string) string {
	var sb strings.Builder
	for i, d := range ds {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(d.FormatWithContext(source))
	}
	return sb.String()
}

// Kinds returns the kind of each diagnostic, in order.
func (ds Diagnostics) Kinds() []DiagnosticKind {
	kinds := make([]DiagnosticKind, len(ds))
	for i, d := range ds {
		kinds[i] = d.Kind
	}
	return kinds
}

// Has reports whether a diagnostic of the given kind was recorded.
func (ds Diagnostics) Has(kind DiagnosticKind) bool {
	for _, d := range ds {
		if d.Kind == kind {
			return true
		}
	}
	return false
}
