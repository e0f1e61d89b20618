// Package interp implements Pinky's alternative tree-walking execution path
// (the supplemented feature described in SPEC_FULL.md §C.1): the same
// language, evaluated directly against the *ast.Arena
// instead of going through pkg/compiler and pkg/vm.
//
// It shares pkg/value's Result type and reuses pkg/vm's binary-operator
// dispatch tables outright, so both execution paths agree on every cast and
// every operator's semantics by construction — the one place they're
// allowed to diverge is the For loop's "stop" bound (see execFor).
package interp

import (
	"fmt"
	"io"

	"github.com/lgleznah/pinCky/pkg/ast"
	"github.com/lgleznah/pinCky/pkg/diagnostics"
	"github.com/lgleznah/pinCky/pkg/token"
	"github.com/lgleznah/pinCky/pkg/value"
	"github.com/lgleznah/pinCky/pkg/vm"
)

// Interp walks an AST directly, keeping globals in a name-keyed map rather
// than the bytecode path's symbol-id-indexed slice — the tree-walker never
// needs a separate symbol-assignment pass, since every Identifier node
// already carries its name.
type Interp struct {
	tree    *ast.Arena
	source  []byte
	globals map[string]value.Result
	out     io.Writer
}

func New(tree *ast.Arena, source []byte, out io.Writer) *Interp {
	return &Interp{tree: tree, source: source, globals: map[string]value.Result{}, out: out}
}

// Run evaluates the program rooted at root (a resolved ast.StatementList).
func Run(tree *ast.Arena, root ast.Ref, source []byte, out io.Writer) error {
	return New(tree, source, out).execStatementList(root)
}

func (in *Interp) execStatementList(ref ast.Ref) error {
	for _, child := range in.tree.StatementListChildren(ref) {
		if err := in.execStatement(child); err != nil {
			return err
		}
	}
	return nil
}

func (in *Interp) execStatement(ref ast.Ref) error {
	switch in.tree.KindOf(ref) {
	case ast.Print:
		return in.execPrint(ref)
	case ast.Assignment:
		return in.execAssignment(ref)
	case ast.If:
		return in.execIf(ref)
	case ast.While:
		return in.execWhile(ref)
	case ast.For:
		return in.execFor(ref)
	case ast.StatementList:
		return in.execStatementList(ref)
	default:
		// A bare expression statement: evaluate for any side effects (there
		// are none in this language beyond what its sub-expressions already
		// performed) and discard the result — the tree-walker needs no
		// hidden discard symbol the way the bytecode compiler does, since
		// nothing here is pushed onto an operand stack.
		_, err := in.eval(ref)
		return err
	}
}

func (in *Interp) execPrint(ref ast.Ref) error {
	breakLine, expr := in.tree.PrintParts(ref)
	v, err := in.eval(expr)
	if err != nil {
		return err
	}
	if breakLine {
		fmt.Fprintln(in.out, v.ToString())
	} else {
		fmt.Fprint(in.out, v.ToString())
	}
	return nil
}

func (in *Interp) execAssignment(ref ast.Ref) error {
	lhs, rhs := in.tree.AssignmentParts(ref)
	v, err := in.eval(rhs)
	if err != nil {
		return err
	}
	in.globals[in.tree.Text(lhs, in.source)] = v
	return nil
}

func (in *Interp) execIf(ref ast.Ref) error {
	cond, then, els := in.tree.IfParts(ref)
	v, err := in.eval(cond)
	if err != nil {
		return err
	}
	if v.ToBool() {
		return in.execStatementList(then)
	}
	if els != ast.NoRef {
		return in.execStatementList(els)
	}
	return nil
}

func (in *Interp) execWhile(ref ast.Ref) error {
	cond, body := in.tree.WhileParts(ref)
	for {
		v, err := in.eval(cond)
		if err != nil {
			return err
		}
		if !v.ToBool() {
			return nil
		}
		if err := in.execStatementList(body); err != nil {
			return err
		}
	}
}

// execFor implements the documented divergence from pkg/compiler's lowerFor:
// the bytecode path caches the "stop" bound once in a hidden global right
// after init runs, but the tree-walker here simply re-evaluates the stop
// expression on every iteration, exactly as written. A stop expression that
// reads a global the loop body reassigns therefore yields a different
// number of iterations under the two execution paths.
func (in *Interp) execFor(ref ast.Ref) error {
	init, stop, step, body := in.tree.ForParts(ref)
	if in.tree.KindOf(init) != ast.Assignment {
		return &diagnostics.RuntimeError{Msg: "for loop's init clause must be an assignment"}
	}
	if err := in.execAssignment(init); err != nil {
		return err
	}
	iterLHS, _ := in.tree.AssignmentParts(init)
	iterName := in.tree.Text(iterLHS, in.source)

	for {
		stopVal, err := in.eval(stop)
		if err != nil {
			return err
		}
		lt, err := vm.TableFor(vm.LT)[in.globals[iterName].Kind][stopVal.Kind](in.globals[iterName], stopVal)
		if err != nil {
			return &diagnostics.RuntimeError{Msg: err.Error()}
		}
		if !lt.ToBool() {
			return nil
		}

		if err := in.execStatementList(body); err != nil {
			return err
		}

		var stepVal value.Result
		if step != ast.NoRef {
			stepVal, err = in.eval(step)
			if err != nil {
				return err
			}
		} else {
			stepVal = value.NewInt(1)
		}
		next, err := vm.TableFor(vm.ADD)[in.globals[iterName].Kind][stepVal.Kind](in.globals[iterName], stepVal)
		if err != nil {
			return &diagnostics.RuntimeError{Msg: err.Error()}
		}
		in.globals[iterName] = next
	}
}

func (in *Interp) eval(ref ast.Ref) (value.Result, error) {
	switch in.tree.KindOf(ref) {
	case ast.Integer:
		return value.NewInt(in.tree.IntegerValue(ref)), nil
	case ast.Float:
		return value.NewFloat(in.tree.FloatValue(ref)), nil
	case ast.Bool:
		return value.NewBool(in.tree.BoolValue(ref)), nil
	case ast.String:
		return value.NewString(in.tree.Text(ref, in.source)), nil
	case ast.Identifier:
		name := in.tree.Text(ref, in.source)
		v, ok := in.globals[name]
		if !ok {
			return value.Result{}, &diagnostics.RuntimeError{Msg: fmt.Sprintf("use of undeclared identifier '%s'", name)}
		}
		return v, nil
	case ast.Grouping:
		return in.eval(in.tree.GroupingInner(ref))
	case ast.UnOp:
		return in.evalUnOp(ref)
	case ast.BinOp:
		return in.evalBinOp(ref)
	default:
		return value.Result{}, &diagnostics.RuntimeError{Msg: fmt.Sprintf("cannot evaluate node kind %d", in.tree.KindOf(ref))}
	}
}

func (in *Interp) evalUnOp(ref ast.Ref) (value.Result, error) {
	op, operand := in.tree.UnOpParts(ref)
	v, err := in.eval(operand)
	if err != nil {
		return value.Result{}, err
	}
	switch op {
	case token.MINUS:
		switch v.Kind {
		case value.Int:
			return value.NewInt(-v.I), nil
		case value.Float:
			return value.NewFloat(-v.F), nil
		default:
			return value.Result{}, &diagnostics.RuntimeError{Msg: fmt.Sprintf("unsupported operand for unary '-': %s", v.Kind)}
		}
	case token.TILDE:
		return value.NewBool(!v.ToBool()), nil
	case token.PLUS:
		return v, nil
	default:
		return value.Result{}, &diagnostics.RuntimeError{Msg: fmt.Sprintf("unsupported unary operator '%s'", op)}
	}
}

func (in *Interp) evalBinOp(ref ast.Ref) (value.Result, error) {
	op, left, right := in.tree.BinOpParts(ref)
	l, err := in.eval(left)
	if err != nil {
		return value.Result{}, err
	}
	r, err := in.eval(right)
	if err != nil {
		return value.Result{}, err
	}

	if op == token.AND || op == token.OR {
		if op == token.AND {
			return value.NewBool(l.ToBool() && r.ToBool()), nil
		}
		return value.NewBool(l.ToBool() || r.ToBool()), nil
	}

	opcode, ok := binOpcodes[op]
	if !ok {
		return value.Result{}, &diagnostics.RuntimeError{Msg: fmt.Sprintf("unsupported binary operator '%s'", op)}
	}
	result, err := vm.TableFor(opcode)[l.Kind][r.Kind](l, r)
	if err != nil {
		return value.Result{}, &diagnostics.RuntimeError{Msg: err.Error()}
	}
	return result, nil
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
}
