// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package ast

import (
	"fmt"
	"strings"
)

// Dump renders the subtree rooted at h, one node per line, for debugging
// and tests.
func (t *Tree) Dump(h Handle) string {
	var b strings.Builder
	t.dump(&b, h, 0)
	return b.String()
}

func (t *Tree) dump(b *strings.Builder, h Handle, indent int) {
	n := t.Node(h)
	if n == nil {
		return
	}
	b.WriteString(strings.Repeat("  ", indent))
	b.WriteString(n.Kind.String())

	switch n.Kind {
	case KindIntLiteral:
		fmt.Fprintf(b, " %d", n.Int)
	case KindFloatLiteral:
		fmt.Fprintf(b, " %g", n.Float)
	case KindBoolLiteral:
		fmt.Fprintf(b, " %t", n.Bool)
	case KindBinary, KindUnary, KindPostfix:
		fmt.Fprintf(b, " %s", n.Op)
	case KindTypeSpecifier:
		if n.Name == "" && len(n.Children) == 0 {
			fmt.Fprintf(b, " %s", n.Token)
		}
	case KindCall:
		if n.Name == "" {
			fmt.Fprintf(b, " %s", n.Token)
		}
	case KindDeclaration:
		if n.Storage != StorageNone {
			fmt.Fprintf(b, " %s", n.Storage)
		}
	}
	if n.Name != "" {
		fmt.Fprintf(b, " %q", n.Name)
	}
	if n.Sem.Type != nil {
		fmt.Fprintf(b, " : %s", n.Sem.Type)
	}
	b.WriteByte('\n')

	for _, c := range n.Children {
		t.dump(b, c, indent+1)
	}
}
