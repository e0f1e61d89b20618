package parser_test

import (
	"testing"

	"github.com/lgleznah/pinCky/pkg/ast"
	"github.com/lgleznah/pinCky/pkg/lexer"
	"github.com/lgleznah/pinCky/pkg/parser"
	"github.com/lgleznah/pinCky/pkg/token"
)

func parse(t *testing.T, source string) (*ast.Arena, ast.Ref) {
	t.Helper()
	tokens, err := lexer.Scan([]byte(source))
	if err != nil {
		t.Fatalf("lex error: %v", err)
	}
	tree, root, err := parser.Parse(tokens, []byte(source))
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	return tree, root
}

// singleExprStmt parses source (a one-statement program whose statement is
// a bare expression) and returns the expression's Ref.
func singleExprStmt(t *testing.T, source string) (*ast.Arena, ast.Ref) {
	t.Helper()
	tree, root := parse(t, source)
	children := tree.StatementListChildren(root)
	if len(children) != 1 {
		t.Fatalf("expected exactly one statement, got %d", len(children))
	}
	return tree, children[0]
}

func TestExponentIsRightAssociative(t *testing.T) {
	tree, expr := singleExprStmt(t, "2^3^2")
	if tree.KindOf(expr) != ast.BinOp {
		t.Fatalf("expected a BinOp root, got %v", tree.KindOf(expr))
	}
	op, left, right := tree.BinOpParts(expr)
	if op != token.CARET {
		t.Fatalf("expected the outer operator to be '^', got %v", op)
	}
	if tree.KindOf(left) != ast.Integer || tree.IntegerValue(left) != 2 {
		t.Fatalf("expected left operand to be the literal 2")
	}
	if tree.KindOf(right) != ast.BinOp {
		t.Fatalf("expected right operand to itself be a BinOp (right-associativity), got %v", tree.KindOf(right))
	}
}

func TestMultiplicationBindsTighterThanAddition(t *testing.T) {
	tree, expr := singleExprStmt(t, "1+2*3")
	if tree.KindOf(expr) != ast.BinOp {
		t.Fatalf("expected a BinOp root, got %v", tree.KindOf(expr))
	}
	op, left, right := tree.BinOpParts(expr)
	if op != token.PLUS {
		t.Fatalf("expected the outer operator to be '+', got %v", op)
	}
	if tree.KindOf(left) != ast.Integer {
		t.Fatalf("expected left operand to be a bare literal, got %v", tree.KindOf(left))
	}
	if tree.KindOf(right) != ast.BinOp {
		t.Fatalf("expected right operand to be the '2*3' BinOp, got %v", tree.KindOf(right))
	}
}

func TestAssignmentRequiresIdentifierLHS(t *testing.T) {
	tokens, err := lexer.Scan([]byte("1+2 := 3"))
	if err != nil {
		t.Fatalf("lex error: %v", err)
	}
	if _, _, err := parser.Parse(tokens, []byte("1+2 := 3")); err == nil {
		t.Fatalf("expected assigning to a non-identifier to fail")
	}
}

func TestForLoopInitMustBeAssignment(t *testing.T) {
	source := "for 1, 5 do println 1 end"
	tokens, err := lexer.Scan([]byte(source))
	if err != nil {
		t.Fatalf("lex error: %v", err)
	}
	if _, _, err := parser.Parse(tokens, []byte(source)); err == nil {
		t.Fatalf("expected a for-loop whose init clause is not an assignment to fail")
	}
}

func TestIfWithoutElseLeavesElseUnset(t *testing.T) {
	tree, root := parse(t, "if true then println 1 end")
	stmt := tree.StatementListChildren(root)[0]
	_, _, els := tree.IfParts(stmt)
	if els != ast.NoRef {
		t.Fatalf("expected no else branch, got ref %d", els)
	}
}

func TestEmptyStatementListIsSyntaxError(t *testing.T) {
	tokens, err := lexer.Scan([]byte("if true then end"))
	if err != nil {
		t.Fatalf("lex error: %v", err)
	}
	if _, _, err := parser.Parse(tokens, []byte("if true then end")); err == nil {
		t.Fatalf("expected an empty 'then' block to fail")
	}
}
