// Package parser is Pinky's recursive-descent, precedence-climbing parser
// (spec §4.2). It consumes a token.Token sequence and builds an AST
// directly in an ast.Arena, then resolves the root exactly once.
//
// The token-cursor shape (peek/advance/previous/check/match/expect) is
// original, grounded in original_source/parser.c's equivalent cursor
// functions; the per-construct dispatch (statement keyword switch,
// precedence-ladder expression methods) follows the same recursive-descent
// shape the teacher's jack parsing used at the statement level, minus
// goparsec (dropped — see DESIGN.md).
package parser

import (
	"fmt"
	"strconv"

	"github.com/lgleznah/pinCky/pkg/ast"
	"github.com/lgleznah/pinCky/pkg/diagnostics"
	"github.com/lgleznah/pinCky/pkg/token"
	"github.com/lgleznah/pinCky/pkg/utils"
)

// Parser holds the token cursor and the arena under construction.
type Parser struct {
	tokens []token.Token
	i      int
	arena  *ast.Arena
	source []byte
}

// New returns a Parser over tokens scanned from source.
func New(tokens []token.Token, source []byte) *Parser {
	return &Parser{tokens: tokens, arena: ast.NewArena(), source: source}
}

// Parse allocates a fresh arena, parses a full program, resolves the root,
// and returns both the arena and the root StatementList reference.
func Parse(tokens []token.Token, source []byte) (*ast.Arena, ast.Ref, error) {
	p := New(tokens, source)
	root, err := p.program()
	if err != nil {
		return nil, 0, err
	}
	p.arena.Resolve(root)
	return p.arena, root, nil
}

// --- token cursor -----------------------------------------------------------

func (p *Parser) peek() token.Token { return p.tokens[p.i] }

func (p *Parser) previous() token.Token { return p.tokens[p.i-1] }

func (p *Parser) advance() token.Token {
	tok := p.peek()
	if tok.Kind != token.EOF {
		p.i++
	}
	return tok
}

func (p *Parser) check(kind token.Kind) bool { return p.peek().Kind == kind }

func (p *Parser) match(kinds ...token.Kind) bool {
	for _, k := range kinds {
		if p.check(k) {
			p.advance()
			return true
		}
	}
	return false
}

func (p *Parser) expect(kind token.Kind) (token.Token, error) {
	if p.check(kind) {
		return p.advance(), nil
	}
	return token.Token{}, &diagnostics.SyntaxError{
		Line: p.peek().Line,
		Msg:  fmt.Sprintf("expected %s, got %s", kind, p.peek().Kind),
	}
}

// --- grammar ----------------------------------------------------------------

func (p *Parser) program() (ast.Ref, error) {
	return p.stmts()
}

// stmts parses one or more statements, halting on ELSE, END, or EOF, and
// returns them wrapped in a StatementList node.
func (p *Parser) stmts() (ast.Ref, error) {
	line := p.peek().Line
	children := utils.NewStack[ast.Ref]()

	for !p.check(token.ELSE) && !p.check(token.END) && !p.check(token.EOF) {
		stmt, err := p.stmt()
		if err != nil {
			return 0, err
		}
		children.Push(stmt)
	}

	if children.Count() == 0 {
		return 0, &diagnostics.SyntaxError{Line: line, Msg: "empty statement list"}
	}

	// utils.Stack iterates back-to-front; collect in source order instead.
	refs := make([]ast.Ref, children.Count())
	for i := len(refs) - 1; i >= 0; i-- {
		v, _ := children.Pop()
		refs[i] = v
	}

	return p.arena.InitStatementList(refs, int32(line)), nil
}

func (p *Parser) stmt() (ast.Ref, error) {
	switch p.peek().Kind {
	case token.PRINT, token.PRINTLN:
		return p.printStmt()
	case token.IF:
		return p.ifStmt()
	case token.WHILE:
		return p.whileStmt()
	case token.FOR:
		return p.forStmt()
	default:
		return p.assignmentOrExpr()
	}
}

func (p *Parser) printStmt() (ast.Ref, error) {
	tok := p.advance()
	expr, err := p.expr()
	if err != nil {
		return 0, err
	}
	return p.arena.InitPrint(tok.Kind == token.PRINTLN, expr, int32(tok.Line)), nil
}

func (p *Parser) ifStmt() (ast.Ref, error) {
	tok := p.advance() // IF
	cond, err := p.expr()
	if err != nil {
		return 0, err
	}
	if _, err := p.expect(token.THEN); err != nil {
		return 0, err
	}
	then, err := p.stmts()
	if err != nil {
		return 0, err
	}

	els := ast.NoRef
	if p.match(token.ELSE) {
		els, err = p.stmts()
		if err != nil {
			return 0, err
		}
	}

	if _, err := p.expect(token.END); err != nil {
		return 0, err
	}
	return p.arena.InitIf(cond, then, els, int32(tok.Line)), nil
}

func (p *Parser) whileStmt() (ast.Ref, error) {
	tok := p.advance() // WHILE
	cond, err := p.expr()
	if err != nil {
		return 0, err
	}
	if _, err := p.expect(token.DO); err != nil {
		return 0, err
	}
	body, err := p.stmts()
	if err != nil {
		return 0, err
	}
	if _, err := p.expect(token.END); err != nil {
		return 0, err
	}
	return p.arena.InitWhile(cond, body, int32(tok.Line)), nil
}

func (p *Parser) forStmt() (ast.Ref, error) {
	tok := p.advance() // FOR
	init, err := p.assignmentOrExpr()
	if err != nil {
		return 0, err
	}
	if p.arena.KindOf(init) != ast.Assignment {
		return 0, &diagnostics.SyntaxError{Line: tok.Line, Msg: "for-loop init must be an assignment"}
	}

	if _, err := p.expect(token.COMMA); err != nil {
		return 0, err
	}
	stop, err := p.expr()
	if err != nil {
		return 0, err
	}

	step := ast.NoRef
	if p.match(token.COMMA) {
		step, err = p.expr()
		if err != nil {
			return 0, err
		}
	}

	if _, err := p.expect(token.DO); err != nil {
		return 0, err
	}
	body, err := p.stmts()
	if err != nil {
		return 0, err
	}
	if _, err := p.expect(token.END); err != nil {
		return 0, err
	}
	return p.arena.InitFor(init, stop, step, body, int32(tok.Line)), nil
}

func (p *Parser) assignmentOrExpr() (ast.Ref, error) {
	line := p.peek().Line
	lhs, err := p.expr()
	if err != nil {
		return 0, err
	}

	if !p.match(token.ASSIGN) {
		return lhs, nil
	}

	if p.arena.KindOf(lhs) != ast.Identifier {
		return 0, &diagnostics.SyntaxError{Line: line, Msg: "assignment target must be an identifier"}
	}

	rhs, err := p.expr()
	if err != nil {
		return 0, err
	}
	return p.arena.InitAssignment(lhs, rhs, int32(line)), nil
}

func (p *Parser) expr() (ast.Ref, error) { return p.orLogical() }

// binaryLevel implements one left-associative precedence level: parse one
// `next` operand, then fold in `(op next)*` for as long as op matches one
// of kinds.
func (p *Parser) binaryLevel(next func() (ast.Ref, error), kinds ...token.Kind) (ast.Ref, error) {
	left, err := next()
	if err != nil {
		return 0, err
	}
	for p.match(kinds...) {
		op := p.previous()
		right, err := next()
		if err != nil {
			return 0, err
		}
		left = p.arena.InitBinOp(op.Kind, left, right, int32(op.Line))
	}
	return left, nil
}

func (p *Parser) orLogical() (ast.Ref, error) { return p.binaryLevel(p.andLogical, token.OR) }
func (p *Parser) andLogical() (ast.Ref, error) { return p.binaryLevel(p.equality, token.AND) }
func (p *Parser) equality() (ast.Ref, error) {
	return p.binaryLevel(p.comparison, token.NE, token.EQEQ)
}
func (p *Parser) comparison() (ast.Ref, error) {
	return p.binaryLevel(p.addition, token.GT, token.LT, token.GE, token.LE)
}
func (p *Parser) addition() (ast.Ref, error) {
	return p.binaryLevel(p.multiplication, token.PLUS, token.MINUS)
}
func (p *Parser) multiplication() (ast.Ref, error) {
	return p.binaryLevel(p.modulo, token.STAR, token.SLASH)
}
func (p *Parser) modulo() (ast.Ref, error) { return p.binaryLevel(p.exponent, token.PERCENT) }

// exponent is right-associative: it recurses into itself on the RHS
// instead of looping, so `2 ^ 3 ^ 2` parses as `2 ^ (3 ^ 2)`.
func (p *Parser) exponent() (ast.Ref, error) {
	left, err := p.unary()
	if err != nil {
		return 0, err
	}
	if p.match(token.CARET) {
		op := p.previous()
		right, err := p.exponent()
		if err != nil {
			return 0, err
		}
		return p.arena.InitBinOp(op.Kind, left, right, int32(op.Line)), nil
	}
	return left, nil
}

func (p *Parser) unary() (ast.Ref, error) {
	if p.match(token.TILDE, token.PLUS, token.MINUS) {
		op := p.previous()
		operand, err := p.unary()
		if err != nil {
			return 0, err
		}
		return p.arena.InitUnOp(op.Kind, operand, int32(op.Line)), nil
	}
	return p.primary()
}

func (p *Parser) primary() (ast.Ref, error) {
	tok := p.peek()

	switch {
	case p.match(token.INTEGER):
		value, err := strconv.ParseInt(tok.Slice, 10, 32)
		if err != nil {
			return 0, &diagnostics.SyntaxError{Line: tok.Line, Msg: "invalid integer literal: " + tok.Slice}
		}
		return p.arena.InitInteger(int32(value), int32(tok.Line)), nil

	case p.match(token.FLOAT):
		value, err := strconv.ParseFloat(tok.Slice, 64)
		if err != nil {
			return 0, &diagnostics.SyntaxError{Line: tok.Line, Msg: "invalid float literal: " + tok.Slice}
		}
		return p.arena.InitFloat(value, int32(tok.Line)), nil

	case p.match(token.TRUE):
		return p.arena.InitBool(true, int32(tok.Line)), nil

	case p.match(token.FALSE):
		return p.arena.InitBool(false, int32(tok.Line)), nil

	case p.match(token.STRING):
		return p.arena.InitString(uint32(tok.Start), uint32(len(tok.Slice)), int32(tok.Line)), nil

	case p.match(token.IDENTIFIER):
		return p.arena.InitIdentifier(uint32(tok.Start), uint32(len(tok.Slice)), int32(tok.Line)), nil

	case p.match(token.LPAREN):
		inner, err := p.expr()
		if err != nil {
			return 0, err
		}
		if _, err := p.expect(token.RPAREN); err != nil {
			return 0, err
		}
		return p.arena.InitGrouping(inner, p.arena.LineOf(inner)), nil
	}

	return 0, &diagnostics.SyntaxError{Line: tok.Line, Msg: "expected expression, got " + tok.Kind.String()}
}
