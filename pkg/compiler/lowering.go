package compiler

import (
	"fmt"

	"github.com/lgleznah/pinCky/pkg/ast"
	"github.com/lgleznah/pinCky/pkg/diagnostics"
	"github.com/lgleznah/pinCky/pkg/token"
	"github.com/lgleznah/pinCky/pkg/vm"
)

// ----------------------------------------------------------------------------
// AST lowering

// Adapted from what used to be pkg/jack/lowering.go's Lowerer: there,
// HandleClass/HandleSubroutine/HandleStatement/HandleExpression walked a
// Jack parse tree and emitted vm.Operation values, using an nRandomizer
// counter bumped per control-flow construct to mint unique labels for
// if/while. Pinky's tree is flatter (no classes/subroutines/functions — see
// DESIGN.md on func/ret), so this file keeps exactly that shape — one
// Handle-style method per ast.Kind, a monotonic label counter per construct —
// narrowed to the statement and expression kinds spec §4.3 actually lowers.

func (c *Compiler) lowerStatementList(ref ast.Ref) error {
	for _, child := range c.tree.StatementListChildren(ref) {
		if err := c.lowerStatement(child); err != nil {
			return err
		}
	}
	return nil
}

func (c *Compiler) lowerStatement(ref ast.Ref) error {
	switch c.tree.KindOf(ref) {
	case ast.Print:
		return c.lowerPrint(ref)
	case ast.Assignment:
		return c.lowerAssignment(ref)
	case ast.If:
		return c.lowerIf(ref)
	case ast.While:
		return c.lowerWhile(ref)
	case ast.For:
		return c.lowerFor(ref)
	case ast.StatementList:
		return c.lowerStatementList(ref)
	default:
		// The grammar's assignment_or_expr production also accepts a bare
		// expression with no assignment; its value has nowhere useful to go,
		// so it is stored into a synthesized, never-read global the same way
		// a for loop's stop bound gets a hidden symbol below — this keeps
		// the operand stack balanced without inventing a discard opcode.
		return c.lowerDiscardedExpression(ref)
	}
}

func (c *Compiler) lowerDiscardedExpression(ref ast.Ref) error {
	if err := c.lowerExpression(ref); err != nil {
		return err
	}
	id := c.symbols.Declare(fmt.Sprintf("$discard%d", c.nextDiscard))
	c.nextDiscard++
	c.emitOp(vm.STORE_GLOBAL, id)
	return nil
}

func (c *Compiler) lowerPrint(ref ast.Ref) error {
	breakLine, expr := c.tree.PrintParts(ref)
	if err := c.lowerExpression(expr); err != nil {
		return err
	}
	if breakLine {
		c.emitOp(vm.PRINTLN, 0)
	} else {
		c.emitOp(vm.PRINT, 0)
	}
	return nil
}

func (c *Compiler) lowerAssignment(ref ast.Ref) error {
	lhs, rhs := c.tree.AssignmentParts(ref)
	if err := c.lowerExpression(rhs); err != nil {
		return err
	}
	name := c.tree.Text(lhs, c.source)
	id := c.symbols.Declare(name)
	c.emitOp(vm.STORE_GLOBAL, id)
	return nil
}

// lowerIf implements spec §4.3's If row: evaluate the condition, JMPZ to
// the else branch (or past the whole statement when there is none), fall
// through to the then branch followed by an unconditional jump over the
// else branch, then the else branch itself.
func (c *Compiler) lowerIf(ref ast.Ref) error {
	cond, then, els := c.tree.IfParts(ref)
	if err := c.lowerExpression(cond); err != nil {
		return err
	}

	elseLabel, exitLabel := c.newLabel(), c.newLabel()
	c.emitJump(vm.JMPZ, elseLabel)
	if err := c.lowerStatementList(then); err != nil {
		return err
	}
	c.emitJump(vm.JMP, exitLabel)
	c.placeLabel(elseLabel)
	if els != ast.NoRef {
		if err := c.lowerStatementList(els); err != nil {
			return err
		}
	}
	c.placeLabel(exitLabel)
	return nil
}

// lowerWhile implements spec §4.3's While row: place the loop's top label,
// evaluate the condition, JMPZ past the loop, lower the body, jump back to
// the top, place the exit label.
func (c *Compiler) lowerWhile(ref ast.Ref) error {
	cond, body := c.tree.WhileParts(ref)

	topLabel, exitLabel := c.newLabel(), c.newLabel()
	c.placeLabel(topLabel)
	if err := c.lowerExpression(cond); err != nil {
		return err
	}
	c.emitJump(vm.JMPZ, exitLabel)
	if err := c.lowerStatementList(body); err != nil {
		return err
	}
	c.emitJump(vm.JMP, topLabel)
	c.placeLabel(exitLabel)
	return nil
}

// lowerFor implements spec §4.3's For row together with the resolved Open
// Question on the "stop" bound: the bytecode compiler evaluates stop once,
// immediately after init, and caches it in a hidden compiler-synthesized
// global ($for<N>.stop) rather than re-evaluating the stop expression on
// every iteration — the tree-walking interpreter in pkg/interp instead
// re-evaluates stop each time around, which is the documented divergence
// between the two execution paths.
func (c *Compiler) lowerFor(ref ast.Ref) error {
	init, stop, step, body := c.tree.ForParts(ref)

	if c.tree.KindOf(init) != ast.Assignment {
		return &diagnostics.CompilerError{Line: int(c.tree.LineOf(ref)), Msg: "for loop's init clause must be an assignment"}
	}
	if err := c.lowerAssignment(init); err != nil {
		return err
	}
	iterLHS, _ := c.tree.AssignmentParts(init)
	iterName := c.tree.Text(iterLHS, c.source)
	iterID, err := c.symbols.Resolve(iterName)
	if err != nil {
		return err
	}

	if err := c.lowerExpression(stop); err != nil {
		return err
	}
	stopID := c.symbols.Declare(fmt.Sprintf("$for%d.stop", c.nextForID))
	c.nextForID++
	c.emitOp(vm.STORE_GLOBAL, stopID)

	topLabel, exitLabel := c.newLabel(), c.newLabel()
	c.placeLabel(topLabel)
	c.emitOp(vm.LOAD_GLOBAL, iterID)
	c.emitOp(vm.LOAD_GLOBAL, stopID)
	c.emitOp(vm.LT, 0)
	c.emitJump(vm.JMPZ, exitLabel)

	if err := c.lowerStatementList(body); err != nil {
		return err
	}

	c.emitOp(vm.LOAD_GLOBAL, iterID)
	if step != ast.NoRef {
		if err := c.lowerExpression(step); err != nil {
			return err
		}
	} else {
		off := c.emitInteger(1)
		c.emitOp(vm.IPUSH, off)
	}
	c.emitOp(vm.ADD, 0)
	c.emitOp(vm.STORE_GLOBAL, iterID)
	c.emitJump(vm.JMP, topLabel)
	c.placeLabel(exitLabel)
	return nil
}

// lowerExpression implements spec §4.3's expression rows: literals push a
// constant-pool reference, identifiers resolve to LOAD_GLOBAL, groupings
// lower their inner expression directly (they exist only for the parser's
// benefit), and unary/binary operators lower their operand(s) before
// emitting the operator itself, left-to-right.
func (c *Compiler) lowerExpression(ref ast.Ref) error {
	switch c.tree.KindOf(ref) {
	case ast.Integer:
		off := c.emitInteger(c.tree.IntegerValue(ref))
		c.emitOp(vm.IPUSH, off)
	case ast.Float:
		off := c.emitFloat(c.tree.FloatValue(ref))
		c.emitOp(vm.FPUSH, off)
	case ast.Bool:
		off := c.emitBool(c.tree.BoolValue(ref))
		c.emitOp(vm.BPUSH, off)
	case ast.String:
		off := c.emitString(c.tree.Text(ref, c.source))
		c.emitOp(vm.SPUSH, off)
	case ast.Identifier:
		name := c.tree.Text(ref, c.source)
		id, err := c.symbols.Resolve(name)
		if err != nil {
			return &diagnostics.CompilerError{Line: int(c.tree.LineOf(ref)), Msg: err.Error()}
		}
		c.emitOp(vm.LOAD_GLOBAL, id)
	case ast.Grouping:
		return c.lowerExpression(c.tree.GroupingInner(ref))
	case ast.UnOp:
		return c.lowerUnOp(ref)
	case ast.BinOp:
		return c.lowerBinOp(ref)
	default:
		return &diagnostics.CompilerError{Line: int(c.tree.LineOf(ref)), Msg: fmt.Sprintf("cannot lower node kind %d as an expression", c.tree.KindOf(ref))}
	}
	return nil
}

func (c *Compiler) lowerUnOp(ref ast.Ref) error {
	op, operand := c.tree.UnOpParts(ref)
	if err := c.lowerExpression(operand); err != nil {
		return err
	}
	switch op {
	case token.MINUS:
		c.emitOp(vm.NUMNEG, 0)
	case token.TILDE:
		c.emitOp(vm.BOOLNEG, 0)
	case token.PLUS:
		// Unary '+' is a no-op: the operand is already on the stack exactly
		// as evaluated (spec's supplemented unary-plus rule).
	default:
		return &diagnostics.CompilerError{Line: int(c.tree.LineOf(ref)), Msg: fmt.Sprintf("unsupported unary operator '%s'", op)}
	}
	return nil
}

func (c *Compiler) lowerBinOp(ref ast.Ref) error {
	op, left, right := c.tree.BinOpParts(ref)
	if err := c.lowerExpression(left); err != nil {
		return err
	}
	if err := c.lowerExpression(right); err != nil {
		return err
	}
	opcode, ok := binOpcodes[op]
	if !ok {
		return &diagnostics.CompilerError{Line: int(c.tree.LineOf(ref)), Msg: fmt.Sprintf("unsupported binary operator '%s'", op)}
	}
	c.emitOp(opcode, 0)
	return nil
}

var binOpcodes = map[token.Kind]vm.Opcode{
	token.PLUS:    vm.ADD,
	token.MINUS:   vm.SUB,
	token.STAR:    vm.MUL,
	token.SLASH:   vm.DIV,
	token.PERCENT: vm.MOD,
	token.CARET:   vm.EXP,
	token.EQEQ:    vm.EQ,
	token.NE:      vm.NE,
	token.GT:      vm.GT,
	token.GE:      vm.GE,
	token.LT:      vm.LT,
	token.LE:      vm.LE,
	token.AND:     vm.AND,
	token.OR:      vm.OR,
}
