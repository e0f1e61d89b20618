package vm

// ----------------------------------------------------------------------------
// Operator dispatch tables

// Adapted from what used to be pkg/hack/codegen.go's map-of-bit-patterns
// lookup-table style (BuiltInTable/CompTable/DestTable/JumpTable there);
// here the lookup key is a pair of value.Kind instead of a mnemonic string,
// and the payload is a Go closure instead of a bit pattern — spec §4.4's
// "5x5 function table indexed by operand kinds" made concrete. Exact
// per-pair semantics are grounded in original_source/vm_ops.c.

import (
	"fmt"
	"math"

	"github.com/lgleznah/pinCky/pkg/value"
)

// BinOpFn computes a binary operator's result given its already-evaluated
// operands, or an error if the combination is unsupported.
type BinOpFn func(lhs, rhs value.Result) (value.Result, error)

// Table is indexed [lhs.Kind][rhs.Kind], matching value.Kind's declared
// order: {None, Int, Float, Bool, String}.
type Table [5][5]BinOpFn

func unsupported(lhs, rhs value.Result) (value.Result, error) {
	return value.Result{}, fmt.Errorf("unsupported operand combination: %s, %s", lhs.Kind, rhs.Kind)
}

func filledTable() Table {
	var t Table
	for l := range t {
		for r := range t[l] {
			t[l][r] = unsupported
		}
	}
	return t
}

func isIntLike(k value.Kind) bool { return k == value.Int || k == value.Bool }
func isNumeric(k value.Kind) bool { return k == value.Int || k == value.Float || k == value.Bool }

func toInt(r value.Result) int32 {
	if r.Kind == value.Bool {
		if r.B {
			return 1
		}
		return 0
	}
	return r.I
}

func toFloat(r value.Result) float64 {
	switch r.Kind {
	case value.Int:
		return float64(r.I)
	case value.Bool:
		if r.B {
			return 1
		}
		return 0
	default:
		return r.F
	}
}

func stringConcat(lhs, rhs value.Result) (value.Result, error) {
	return value.NewString(lhs.ToString() + rhs.ToString()), nil
}

// AddTable implements spec §4.4's `+` rule: Int+Int→Int; any Int/Float mix
// widens to Float; any pair involving String stringifies the other operand
// and concatenates.
var AddTable = buildAddTable()

func buildAddTable() Table {
	t := filledTable()
	t[value.Int][value.Int] = func(l, r value.Result) (value.Result, error) { return value.NewInt(l.I + r.I), nil }
	t[value.Int][value.Float] = func(l, r value.Result) (value.Result, error) {
		return value.NewFloat(float64(l.I) + r.F), nil
	}
	t[value.Float][value.Int] = func(l, r value.Result) (value.Result, error) {
		return value.NewFloat(l.F + float64(r.I)), nil
	}
	t[value.Float][value.Float] = func(l, r value.Result) (value.Result, error) { return value.NewFloat(l.F + r.F), nil }
	for k := value.Kind(0); k < 5; k++ {
		t[value.String][k] = stringConcat
		t[k][value.String] = stringConcat
	}
	return t
}

// buildArithTable implements the `- * ^` family's rule: Int×Int→Int,
// Float/Int mixes widen to Float, everything else unsupported (spec
// §4.4's "- * / % ^" row, minus / and % which need their own zero checks).
func buildArithTable(intOp func(a, b int32) int32, floatOp func(a, b float64) float64) Table {
	t := filledTable()
	t[value.Int][value.Int] = func(l, r value.Result) (value.Result, error) { return value.NewInt(intOp(l.I, r.I)), nil }
	t[value.Int][value.Float] = func(l, r value.Result) (value.Result, error) {
		return value.NewFloat(floatOp(float64(l.I), r.F)), nil
	}
	t[value.Float][value.Int] = func(l, r value.Result) (value.Result, error) {
		return value.NewFloat(floatOp(l.F, float64(r.I))), nil
	}
	t[value.Float][value.Float] = func(l, r value.Result) (value.Result, error) {
		return value.NewFloat(floatOp(l.F, r.F)), nil
	}
	return t
}

var SubTable = buildArithTable(func(a, b int32) int32 { return a - b }, func(a, b float64) float64 { return a - b })
var MulTable = buildArithTable(func(a, b int32) int32 { return a * b }, func(a, b float64) float64 { return a * b })

// DivTable and ModTable are built by hand rather than through
// buildArithTable because both need a division-by-zero check that is
// fatal regardless of operand kind (spec §4.4).
var DivTable = buildDivTable()
var ModTable = buildModTable()

func buildDivTable() Table {
	t := filledTable()
	t[value.Int][value.Int] = func(l, r value.Result) (value.Result, error) {
		if r.I == 0 {
			return value.Result{}, fmt.Errorf("division by zero")
		}
		return value.NewInt(l.I / r.I), nil
	}
	t[value.Int][value.Float] = func(l, r value.Result) (value.Result, error) {
		if r.F == 0 {
			return value.Result{}, fmt.Errorf("division by zero")
		}
		return value.NewFloat(float64(l.I) / r.F), nil
	}
	t[value.Float][value.Int] = func(l, r value.Result) (value.Result, error) {
		if r.I == 0 {
			return value.Result{}, fmt.Errorf("division by zero")
		}
		return value.NewFloat(l.F / float64(r.I)), nil
	}
	t[value.Float][value.Float] = func(l, r value.Result) (value.Result, error) {
		if r.F == 0 {
			return value.Result{}, fmt.Errorf("division by zero")
		}
		return value.NewFloat(l.F / r.F), nil
	}
	return t
}

func buildModTable() Table {
	t := filledTable()
	t[value.Int][value.Int] = func(l, r value.Result) (value.Result, error) {
		if r.I == 0 {
			return value.Result{}, fmt.Errorf("modulo by zero")
		}
		return value.NewInt(l.I % r.I), nil
	}
	t[value.Int][value.Float] = func(l, r value.Result) (value.Result, error) {
		if r.F == 0 {
			return value.Result{}, fmt.Errorf("modulo by zero")
		}
		return value.NewFloat(math.Mod(float64(l.I), r.F)), nil
	}
	t[value.Float][value.Int] = func(l, r value.Result) (value.Result, error) {
		if r.I == 0 {
			return value.Result{}, fmt.Errorf("modulo by zero")
		}
		return value.NewFloat(math.Mod(l.F, float64(r.I))), nil
	}
	t[value.Float][value.Float] = func(l, r value.Result) (value.Result, error) {
		if r.F == 0 {
			return value.Result{}, fmt.Errorf("modulo by zero")
		}
		return value.NewFloat(math.Mod(l.F, r.F)), nil
	}
	return t
}

// ExpTable: Int,Int uses repeated-multiplication integer exponentiation
// (original_source's int_pow), everything else widens to math.Pow.
var ExpTable = buildExpTable()

func intPow(base, exp int32) int32 {
	result := int32(1)
	for i := int32(0); i < exp; i++ {
		result *= base
	}
	return result
}

func buildExpTable() Table {
	return buildArithTable(intPow, math.Pow)
}

// buildEqualityTable implements spec §4.4's `==`/`!=` rule: Int/Bool pairs
// compare as ints, Float widenings compare as floats, String/String
// compares lexicographically, any other cross-kind pair reports the given
// mismatch default (false for `==`, true for `!=`).
func buildEqualityTable(mismatch bool, flip bool) Table {
	t := filledTable()
	for l := value.Kind(0); l < 5; l++ {
		for r := value.Kind(0); r < 5; r++ {
			switch {
			case isIntLike(l) && isIntLike(r):
				t[l][r] = func(lhs, rhs value.Result) (value.Result, error) {
					return value.NewBool((toInt(lhs) == toInt(rhs)) != flip), nil
				}
			case isNumeric(l) && isNumeric(r) && (l == value.Float || r == value.Float):
				t[l][r] = func(lhs, rhs value.Result) (value.Result, error) {
					return value.NewBool((toFloat(lhs) == toFloat(rhs)) != flip), nil
				}
			case l == value.String && r == value.String:
				t[l][r] = func(lhs, rhs value.Result) (value.Result, error) {
					return value.NewBool((lhs.S == rhs.S) != flip), nil
				}
			default:
				t[l][r] = func(lhs, rhs value.Result) (value.Result, error) { return value.NewBool(mismatch), nil }
			}
		}
	}
	return t
}

var EqTable = buildEqualityTable(false, false)
var NeTable = buildEqualityTable(true, true)

// buildOrderTable implements spec §4.4's `< <= > >=` rule: Int/Bool pairs
// as ints, Float widenings as floats, String/String lexicographic with a
// length tiebreak (Go's native string `<` already does this); any other
// combination is unsupported (a runtime error, unlike equality's default).
func buildOrderTable(cmp func(a, b float64) bool, strCmp func(a, b string) bool) Table {
	t := filledTable()
	for l := value.Kind(0); l < 5; l++ {
		for r := value.Kind(0); r < 5; r++ {
			switch {
			case isIntLike(l) && isIntLike(r):
				t[l][r] = func(lhs, rhs value.Result) (value.Result, error) {
					return value.NewBool(cmp(float64(toInt(lhs)), float64(toInt(rhs)))), nil
				}
			case isNumeric(l) && isNumeric(r) && (l == value.Float || r == value.Float):
				t[l][r] = func(lhs, rhs value.Result) (value.Result, error) {
					return value.NewBool(cmp(toFloat(lhs), toFloat(rhs))), nil
				}
			case l == value.String && r == value.String:
				t[l][r] = func(lhs, rhs value.Result) (value.Result, error) {
					return value.NewBool(strCmp(lhs.S, rhs.S)), nil
				}
			}
		}
	}
	return t
}

var GtTable = buildOrderTable(func(a, b float64) bool { return a > b }, func(a, b string) bool { return a > b })
var GeTable = buildOrderTable(func(a, b float64) bool { return a >= b }, func(a, b string) bool { return a >= b })
var LtTable = buildOrderTable(func(a, b float64) bool { return a < b }, func(a, b string) bool { return a < b })
var LeTable = buildOrderTable(func(a, b float64) bool { return a <= b }, func(a, b string) bool { return a <= b })

// TableFor returns the dispatch table for a binary opcode, or a zero Table
// (every entry nil) if op does not dispatch through a 2-D table (AND/OR are handled directly by
// the VM, per spec §4.4's note that they are not kind-dependent).
func TableFor(op Opcode) Table {
	switch op {
	case ADD:
		return AddTable
	case SUB:
		return SubTable
	case MUL:
		return MulTable
	case DIV:
		return DivTable
	case MOD:
		return ModTable
	case EXP:
		return ExpTable
	case EQ:
		return EqTable
	case NE:
		return NeTable
	case GT:
		return GtTable
	case GE:
		return GeTable
	case LT:
		return LtTable
	case LE:
		return LeTable
	default:
		return Table{}
	}
}
