package sex

import (
	"regexp"
	"strings"
	"time"
)

// Options tunes evaluation. CaseInsensitive affects the ~ operator only;
// every other comparison is always case-sensitive per §4.2.
type Options struct {
	CaseInsensitive bool
}

// Eval walks expr against rec and returns its dynamically-typed result.
// Runtime errors (a malformed regexp, an unparseable date) never abort
// evaluation: per §4.2 they make the enclosing sub-expression false.
func Eval(expr Expr, rec FieldSource, opts Options) Value {
	switch e := expr.(type) {
	case Lit:
		return e.Value

	case FieldRef:
		var s string
		var ok bool
		if e.Index != nil {
			s, ok = rec.GetIndex(e.Name, *e.Index)
		} else {
			s, ok = rec.Get(e.Name)
		}
		if !ok {
			return StringValue("")
		}
		return StringValue(s)

	case FieldCount:
		return IntValue(int64(rec.Count(e.Name)))

	case Unary:
		return evalUnary(e, rec, opts)

	case Binary:
		return evalBinary(e, rec, opts)

	case Ternary:
		if Eval(e.Cond, rec, opts).Truthy() {
			return Eval(e.X, rec, opts)
		}
		return Eval(e.Y, rec, opts)
	}
	return StringValue("")
}

// EvalBool is the top-level entry point used by filters: the result of an
// evaluation is coerced to boolean by the truthiness rule.
func EvalBool(expr Expr, rec FieldSource, opts Options) bool {
	return Eval(expr, rec, opts).Truthy()
}

func evalUnary(e Unary, rec FieldSource, opts Options) Value {
	x := Eval(e.X, rec, opts)
	switch e.Op {
	case Not:
		return BoolValue(!x.Truthy())
	case Minus:
		isInt, i, f := toNumber(x)
		if isInt {
			return IntValue(-i)
		}
		return RealValue(-f)
	}
	return StringValue("")
}

func evalBinary(e Binary, rec FieldSource, opts Options) Value {
	switch e.Op {
	case Implies:
		a := Eval(e.X, rec, opts)
		if !a.Truthy() {
			return BoolValue(true)
		}
		return BoolValue(Eval(e.Y, rec, opts).Truthy())

	case OrOr:
		if Eval(e.X, rec, opts).Truthy() {
			return BoolValue(true)
		}
		return BoolValue(Eval(e.Y, rec, opts).Truthy())

	case AndAnd:
		if !Eval(e.X, rec, opts).Truthy() {
			return BoolValue(false)
		}
		return BoolValue(Eval(e.Y, rec, opts).Truthy())

	case Eq, Ne:
		a, b := Eval(e.X, rec, opts), Eval(e.Y, rec, opts)
		equal := compareEquality(a, b)
		if e.Op == Eq {
			return BoolValue(equal)
		}
		return BoolValue(!equal)

	case Lt, Le, Gt, Ge:
		a, b := Eval(e.X, rec, opts), Eval(e.Y, rec, opts)
		return BoolValue(compareOrder(e.Op, a, b))

	case DateBefore, DateAfter:
		a, b := Eval(e.X, rec, opts), Eval(e.Y, rec, opts)
		ta, ok1 := parseDate(a.String())
		tb, ok2 := parseDate(b.String())
		if !ok1 || !ok2 {
			return BoolValue(false)
		}
		if e.Op == DateBefore {
			return BoolValue(ta.Before(tb))
		}
		return BoolValue(ta.After(tb))

	case Match:
		a, b := Eval(e.X, rec, opts), Eval(e.Y, rec, opts)
		pattern := b.String()
		if opts.CaseInsensitive {
			pattern = "(?i)" + pattern
		}
		re, err := regexp.Compile(pattern)
		if err != nil {
			return BoolValue(false)
		}
		return BoolValue(re.MatchString(a.String()))

	case Amp:
		a, b := Eval(e.X, rec, opts), Eval(e.Y, rec, opts)
		return StringValue(a.String() + b.String())

	case Plus, Minus, Star, Slash, Percent:
		a, b := Eval(e.X, rec, opts), Eval(e.Y, rec, opts)
		return arithmetic(e.Op, a, b)
	}
	return StringValue("")
}

func compareEquality(a, b Value) bool {
	aOK, aInt, ai, af := tryNumber(a)
	bOK, bInt, bi, bf := tryNumber(b)
	if aOK || bOK {
		if !aOK {
			aInt, ai, af = true, 0, 0
		}
		if !bOK {
			bInt, bi, bf = true, 0, 0
		}
		if aInt && bInt {
			return ai == bi
		}
		return numAsFloat(aInt, ai, af) == numAsFloat(bInt, bi, bf)
	}
	return a.String() == b.String()
}

func compareOrder(op TokenType, a, b Value) bool {
	aInt, ai, af := toNumber(a)
	bInt, bi, bf := toNumber(b)
	var cmp int
	if aInt && bInt {
		switch {
		case ai < bi:
			cmp = -1
		case ai > bi:
			cmp = 1
		}
	} else {
		fa, fb := numAsFloat(aInt, ai, af), numAsFloat(bInt, bi, bf)
		switch {
		case fa < fb:
			cmp = -1
		case fa > fb:
			cmp = 1
		}
	}
	switch op {
	case Lt:
		return cmp < 0
	case Le:
		return cmp <= 0
	case Gt:
		return cmp > 0
	case Ge:
		return cmp >= 0
	}
	return false
}

func arithmetic(op TokenType, a, b Value) Value {
	aInt, ai, af := toNumber(a)
	bInt, bi, bf := toNumber(b)
	if aInt && bInt {
		switch op {
		case Plus:
			return IntValue(ai + bi)
		case Minus:
			return IntValue(ai - bi)
		case Star:
			return IntValue(ai * bi)
		case Slash:
			if bi == 0 {
				return IntValue(0)
			}
			return IntValue(ai / bi)
		case Percent:
			if bi == 0 {
				return IntValue(0)
			}
			return IntValue(ai % bi)
		}
	}
	fa, fb := numAsFloat(aInt, ai, af), numAsFloat(bInt, bi, bf)
	switch op {
	case Plus:
		return RealValue(fa + fb)
	case Minus:
		return RealValue(fa - fb)
	case Star:
		return RealValue(fa * fb)
	case Slash:
		if fb == 0 {
			return RealValue(0)
		}
		return RealValue(fa / fb)
	case Percent:
		if fb == 0 {
			return RealValue(0)
		}
		return RealValue(float64(int64(fa) % int64(fb)))
	}
	return IntValue(0)
}

func numAsFloat(isInt bool, i int64, f float64) float64 {
	if isInt {
		return float64(i)
	}
	return f
}

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
