package sex

import (
	"strconv"
	"strings"
)

// Kind tags the dynamic type a Value currently holds.
type Kind int

const (
	KindString Kind = iota + 1
	KindInt
	KindReal
	KindBool
)

// Value is the dynamically-typed result of evaluating an expression, or a
// field's raw text lifted into the type system. Operators coerce between
// kinds per the rules in §4.2: numeric operators parse their operands as
// integers where possible, else as reals, treating anything unparseable as
// zero; equality additionally falls back to string comparison when neither
// side parses as a number at all.
type Value struct {
	Kind Kind
	Str  string
	Int  int64
	Real float64
	Bool bool
}

func StringValue(s string) Value { return Value{Kind: KindString, Str: s} }
func IntValue(i int64) Value     { return Value{Kind: KindInt, Int: i} }
func RealValue(f float64) Value  { return Value{Kind: KindReal, Real: f} }
func BoolValue(b bool) Value     { return Value{Kind: KindBool, Bool: b} }

// String renders v the way a record field displays it: bools as 1/0,
// numbers in their canonical textual form, strings verbatim.
func (v Value) String() string {
	switch v.Kind {
	case KindString:
		return v.Str
	case KindInt:
		return strconv.FormatInt(v.Int, 10)
	case KindReal:
		return strconv.FormatFloat(v.Real, 'g', -1, 64)
	case KindBool:
		if v.Bool {
			return "1"
		}
		return "0"
	default:
		return ""
	}
}

// Truthy applies the language's boolean coercion: empty string, zero, and
// false are false; everything else is true.
func (v Value) Truthy() bool {
	switch v.Kind {
	case KindString:
		return v.Str != ""
	case KindInt:
		return v.Int != 0
	case KindReal:
		return v.Real != 0
	case KindBool:
		return v.Bool
	default:
		return false
	}
}

// parseNumericLiteral accepts decimal, 0x-prefixed hex and leading-zero
// octal integers (base 0 in strconv's sense covers all three).
func parseNumericLiteral(s string) (int64, error) {
	return strconv.ParseInt(s, 0, 64)
}

// tryNumber reports whether v parses as a number at all, and if so its
// value. Used by equality, which falls back to string comparison only
// when neither operand is numeric; if just one side is numeric, the other
// is compared as zero.
func tryNumber(v Value) (ok bool, isInt bool, i int64, f float64) {
	switch v.Kind {
	case KindInt:
		return true, true, v.Int, float64(v.Int)
	case KindReal:
		return true, false, 0, v.Real
	case KindBool:
		if v.Bool {
			return true, true, 1, 1
		}
		return true, true, 0, 0
	case KindString:
		s := strings.TrimSpace(v.Str)
		if s == "" {
			return false, false, 0, 0
		}
		if iv, err := parseNumericLiteral(s); err == nil {
			return true, true, iv, float64(iv)
		}
		if fv, err := strconv.ParseFloat(s, 64); err == nil {
			return true, false, 0, fv
		}
		return false, false, 0, 0
	default:
		return false, false, 0, 0
	}
}

// toNumber is the always-succeeds counterpart used by the arithmetic and
// ordering operators: unparseable strings become 0, per §4.2.
func toNumber(v Value) (isInt bool, i int64, f float64) {
	ok, isInt, i, f := tryNumber(v)
	if !ok {
		return true, 0, 0
	}
	return isInt, i, f
}
