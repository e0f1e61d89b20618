package ast

import (
	"fmt"
	"io"
	"strings"
)

// Print writes a depth-indented dump of the subtree rooted at off to w,
// grounded in the teacher's PRINT_AST debug switch (pkg/vm/parsing.go)
// but driven directly off the arena instead of a goparsec Queryable tree.
func (a *Arena) Print(w io.Writer, off Ref, source []byte, depth int) {
	indent := strings.Repeat("  ", depth)
	switch a.KindOf(off) {
	case Integer:
		fmt.Fprintf(w, "%sInteger(%d)\n", indent, a.IntegerValue(off))
	case Float:
		fmt.Fprintf(w, "%sFloat(%g)\n", indent, a.FloatValue(off))
	case Bool:
		fmt.Fprintf(w, "%sBool(%t)\n", indent, a.BoolValue(off))
	case String:
		fmt.Fprintf(w, "%sString(%q)\n", indent, a.Text(off, source))
	case Identifier:
		fmt.Fprintf(w, "%sIdentifier(%s)\n", indent, a.Text(off, source))
	case BinOp:
		op, l, r := a.BinOpParts(off)
		fmt.Fprintf(w, "%sBinOp(%s)\n", indent, op)
		a.Print(w, l, source, depth+1)
		a.Print(w, r, source, depth+1)
	case UnOp:
		op, operand := a.UnOpParts(off)
		fmt.Fprintf(w, "%sUnOp(%s)\n", indent, op)
		a.Print(w, operand, source, depth+1)
	case Grouping:
		fmt.Fprintf(w, "%sGrouping\n", indent)
		a.Print(w, a.GroupingInner(off), source, depth+1)
	case StatementList:
		fmt.Fprintf(w, "%sStatementList\n", indent)
		for _, c := range a.StatementListChildren(off) {
			a.Print(w, c, source, depth+1)
		}
	case Print:
		breakLine, expr := a.PrintParts(off)
		fmt.Fprintf(w, "%sPrint(newline=%t)\n", indent, breakLine)
		a.Print(w, expr, source, depth+1)
	case Assignment:
		lhs, rhs := a.AssignmentParts(off)
		fmt.Fprintf(w, "%sAssignment\n", indent)
		a.Print(w, lhs, source, depth+1)
		a.Print(w, rhs, source, depth+1)
	case If:
		cond, then, els := a.IfParts(off)
		fmt.Fprintf(w, "%sIf\n", indent)
		a.Print(w, cond, source, depth+1)
		a.Print(w, then, source, depth+1)
		if els != NoRef {
			a.Print(w, els, source, depth+1)
		}
	case While:
		cond, body := a.WhileParts(off)
		fmt.Fprintf(w, "%sWhile\n", indent)
		a.Print(w, cond, source, depth+1)
		a.Print(w, body, source, depth+1)
	case For:
		init, stop, step, body := a.ForParts(off)
		fmt.Fprintf(w, "%sFor\n", indent)
		a.Print(w, init, source, depth+1)
		a.Print(w, stop, source, depth+1)
		if step != NoRef {
			a.Print(w, step, source, depth+1)
		}
		a.Print(w, body, source, depth+1)
	}
}
