// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package hlsl

import (
	"github.com/gogpu/essl/ast"
)

// =============================================================================
// Block and Statement Dispatch
// =============================================================================

// writeBlock writes a braced block at the current indentation.
func (w *Writer) writeBlock(h ast.Handle) error {
	w.writeLine("{")
	w.pushIndent()
	if err := w.writeStatements(h); err != nil {
		return err
	}
	w.popIndent()
	w.writeLine("}")
	return nil
}

// writeStatements writes the statements of a block.
func (w *Writer) writeStatements(h ast.Handle) error {
	for _, s := range w.tree.Children(h) {
		if err := w.writeStatement(s); err != nil {
			return err
		}
	}
	return nil
}

// writeStatement dispatches to the appropriate statement writer.
func (w *Writer) writeStatement(h ast.Handle) error {
	switch w.tree.Kind(h) {
	case ast.KindBlock:
		return w.writeBlock(h)
	case ast.KindDeclaration:
		w.writeIndent()
		if err := w.writeLocalDeclarators(h); err != nil {
			return err
		}
		w.write(";\n")
	case ast.KindExpressionStatement:
		w.writeIndent()
		if err := w.writeStatementExpression(w.tree.Child(h, 0)); err != nil {
			return err
		}
		w.write(";\n")
	case ast.KindIf:
		w.writeIndent()
		return w.writeIf(h)
	case ast.KindFor:
		return w.writeFor(h)
	case ast.KindWhile:
		return w.writeWhile(h)
	case ast.KindDoWhile:
		return w.writeDoWhile(h)
	case ast.KindReturn:
		return w.writeReturn(h)
	case ast.KindBreak:
		w.writeLine("break;")
	case ast.KindContinue:
		w.writeLine("continue;")
	case ast.KindDiscard:
		w.writeLine("discard;")
	case ast.KindEmpty, ast.KindPrecisionStatement, ast.KindInvariantStatement:
	default:
		return w.unexpected(h)
	}
	return nil
}

// writeBody writes the body of a control statement after its header,
// which ends with " {". Single statements get braces too.
func (w *Writer) writeBody(h ast.Handle) error {
	w.pushIndent()
	var err error
	if w.tree.Kind(h) == ast.KindBlock {
		err = w.writeStatements(h)
	} else {
		err = w.writeStatement(h)
	}
	w.popIndent()
	return err
}

// =============================================================================
// Control Flow
// =============================================================================

// writeIf writes an if statement; the caller has written the indentation
// so else-if chains stay on one line.
func (w *Writer) writeIf(h ast.Handle) error {
	children := w.tree.Children(h)
	w.write("if (")
	if err := w.writeExpression(children[0]); err != nil {
		return err
	}
	w.write(") {\n")
	if err := w.writeBody(children[1]); err != nil {
		return err
	}
	if len(children) < 3 {
		w.writeLine("}")
		return nil
	}

	els := children[2]
	if w.tree.Kind(els) == ast.KindIf {
		w.writeIndent()
		w.write("} else ")
		return w.writeIf(els)
	}
	w.writeLine("} else {")
	if err := w.writeBody(els); err != nil {
		return err
	}
	w.writeLine("}")
	return nil
}

// writeFor writes "for (init; cond; incr) {". Every part may be Empty.
func (w *Writer) writeFor(h ast.Handle) error {
	children := w.tree.Children(h)
	init, cond, incr := children[0], children[1], children[2]

	w.writeIndent()
	w.write("for (")
	switch w.tree.Kind(init) {
	case ast.KindDeclaration:
		if err := w.writeLocalDeclarators(init); err != nil {
			return err
		}
	case ast.KindExpressionStatement:
		if err := w.writeStatementExpression(w.tree.Child(init, 0)); err != nil {
			return err
		}
	}
	w.write("; ")
	if w.tree.Kind(cond) != ast.KindEmpty {
		if err := w.writeExpression(cond); err != nil {
			return err
		}
	}
	w.write("; ")
	if w.tree.Kind(incr) != ast.KindEmpty {
		if err := w.writeStatementExpression(incr); err != nil {
			return err
		}
	}
	w.write(") {\n")
	if err := w.writeBody(children[3]); err != nil {
		return err
	}
	w.writeLine("}")
	return nil
}

func (w *Writer) writeWhile(h ast.Handle) error {
	w.writeIndent()
	w.write("while (")
	if err := w.writeExpression(w.tree.Child(h, 0)); err != nil {
		return err
	}
	w.write(") {\n")
	if err := w.writeBody(w.tree.Body(h)); err != nil {
		return err
	}
	w.writeLine("}")
	return nil
}

func (w *Writer) writeDoWhile(h ast.Handle) error {
	w.writeLine("do {")
	if err := w.writeBody(w.tree.Body(h)); err != nil {
		return err
	}
	w.writeIndent()
	w.write("} while (")
	if err := w.writeExpression(w.tree.Child(h, 1)); err != nil {
		return err
	}
	w.write(");\n")
	return nil
}

func (w *Writer) writeReturn(h ast.Handle) error {
	n := w.tree.Node(h)
	if len(n.Children) == 0 {
		w.writeLine("return;")
		return nil
	}
	w.writeIndent()
	w.write("return ")
	if err := w.writeExpression(n.Children[0]); err != nil {
		return err
	}
	w.write(";\n")
	return nil
}
