// Package value implements Pinky's runtime tagged union (spec §3
// "Expression result") and its casting rules (spec §4.4), shared
// verbatim between pkg/vm and pkg/interp so the two execution paths agree
// on every operator's semantics.
package value

import "fmt"

// Kind discriminates a Result's payload. Order matches spec §4.4's 5×5
// dispatch table index order: {None, Int, Float, Bool, String}.
type Kind uint8

const (
	None Kind = iota
	Int
	Float
	Bool
	String
)

func (k Kind) String() string {
	switch k {
	case None:
		return "none"
	case Int:
		return "int"
	case Float:
		return "float"
	case Bool:
		return "bool"
	case String:
		return "string"
	default:
		return "unknown"
	}
}

// Result is the tagged union produced by every expression evaluation, on
// both the VM operand stack and the tree-walking interpreter.
type Result struct {
	Kind Kind
	I    int32
	F    float64
	B    bool
	S    string
}

func NewNone() Result { return Result{Kind: None} }
func NewInt(v int32) Result { return Result{Kind: Int, I: v} }
func NewFloat(v float64) Result { return Result{Kind: Float, F: v} }
func NewBool(v bool) Result { return Result{Kind: Bool, B: v} }
func NewString(v string) Result { return Result{Kind: String, S: v} }

// ToBool implements spec §4.4's casting-to-bool rules, INCLUDING the
// intentional float quirk: Float casts as f >= 0, not f != 0. This is
// flagged as a likely bug in spec §9 but preserved for behavioral parity.
func (r Result) ToBool() bool {
	switch r.Kind {
	case None:
		return false
	case Int:
		return r.I != 0
	case Float:
		return r.F >= 0
	case Bool:
		return r.B
	case String:
		return len(r.S) != 0
	default:
		return false
	}
}

// ToString implements spec §4.4's casting-to-string rules.
func (r Result) ToString() string {
	switch r.Kind {
	case None:
		return "none"
	case Int:
		return fmt.Sprintf("%d", r.I)
	case Float:
		return fmt.Sprintf("%.6f", r.F)
	case Bool:
		if r.B {
			return "true"
		}
		return "false"
	case String:
		return r.S
	default:
		return ""
	}
}
