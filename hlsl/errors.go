// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package hlsl

import (
	"fmt"

	"github.com/gogpu/essl/ast"
)

// ErrorKind categorizes HLSL emission errors.
type ErrorKind uint8

const (
	// ErrUnverifiedTree indicates the context was not verified, or
	// verification left diagnostics.
	ErrUnverifiedTree ErrorKind = iota

	// ErrMissingEntryPoint indicates the shader has no main definition.
	ErrMissingEntryPoint

	// ErrUnsupportedFeature indicates a construct the target cannot express.
	ErrUnsupportedFeature

	// ErrInternalError indicates an inconsistent tree.
	ErrInternalError
)

// String returns a human-readable error kind name.
func (k ErrorKind) String() string {
	switch k {
	case ErrUnverifiedTree:
		return "UnverifiedTree"
	case ErrMissingEntryPoint:
		return "MissingEntryPoint"
	case ErrUnsupportedFeature:
		return "UnsupportedFeature"
	case ErrInternalError:
		return "InternalError"
	default:
		return "Unknown"
	}
}

// Error represents an HLSL emission error.
type Error struct {
	Kind    ErrorKind
	Message string

	// Pos optionally locates the offending node.
	Pos *ast.Position
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Pos != nil {
		return fmt.Sprintf("hlsl %s at %s: %s", e.Kind, e.Pos, e.Message)
	}
	return fmt.Sprintf("hlsl %s: %s", e.Kind, e.Message)
}

// NewError creates an error without position.
func NewError(kind ErrorKind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// NewErrorAt creates an error located at pos.
func NewErrorAt(kind ErrorKind, pos ast.Position, message string) *Error {
	return &Error{Kind: kind, Message: message, Pos: &pos}
}
