package sex

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRecord map[string][]string

func (r fakeRecord) Get(name string) (string, bool) {
	vs, ok := r[name]
	if !ok || len(vs) == 0 {
		return "", false
	}
	return vs[0], true
}

func (r fakeRecord) GetIndex(name string, i int) (string, bool) {
	vs, ok := r[name]
	if !ok || i < 0 || i >= len(vs) {
		return "", false
	}
	return vs[i], true
}

func (r fakeRecord) Count(name string) int {
	return len(r[name])
}

func TestParse_Precedence(t *testing.T) {
	cases := []struct {
		name string
		expr string
		rec  fakeRecord
		want bool
	}{
		{"equality over concat", `a & "b" = "ab"`, fakeRecord{"a": {"a"}}, true},
		{"not binds looser than equality", `!Age = 10`, fakeRecord{"Age": {"10"}}, false},
		{"and before or", `1 || 0 && 0`, fakeRecord{}, true},
		{"arithmetic before comparison", `1 + 2 = 3`, fakeRecord{}, true},
		{"ternary", `Age > 18 ? 1 : 0`, fakeRecord{"Age": {"30"}}, true},
		{"implies", `Age > 18 => Status = "adult"`, fakeRecord{"Age": {"30"}, "Status": {"adult"}}, true},
		{"implies vacuously true", `Age > 18 => Status = "adult"`, fakeRecord{"Age": {"5"}, "Status": {"minor"}}, true},
		{"field count", `#Tag = 2`, fakeRecord{"Tag": {"a", "b"}}, true},
		{"subscript", `Tag[1] = "b"`, fakeRecord{"Tag": {"a", "b"}}, true},
		{"regexp match", `Name ~ "^Al"`, fakeRecord{"Name": {"Alice"}}, true},
		{"numeric equality coerces string", `Age = 10`, fakeRecord{"Age": {"10"}}, true},
		{"non numeric equality falls back to string compare", `Name = "Alice"`, fakeRecord{"Name": {"Alice"}}, true},
		{"parens override precedence", `(1 || 0) && 0`, fakeRecord{}, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			expr, err := Parse(tc.expr)
			require.NoError(t, err)
			got := EvalBool(expr, tc.rec, Options{})
			assert.Equal(t, tc.want, got, "expr=%s", tc.expr)
		})
	}
}

func TestParse_SyntaxErrors(t *testing.T) {
	cases := []string{
		"1 + ",
		"(1 + 2",
		"1 2",
		"#1",
	}
	for _, expr := range cases {
		_, err := Parse(expr)
		assert.Error(t, err, "expr=%s", expr)
	}
}

func TestEval_MissingFieldIsEmptyString(t *testing.T) {
	expr, err := Parse(`Missing = ""`)
	require.NoError(t, err)
	assert.True(t, EvalBool(expr, fakeRecord{}, Options{}))
}

func TestEval_RegexpCaseInsensitive(t *testing.T) {
	expr, err := Parse(`Name ~ "^alice$"`)
	require.NoError(t, err)
	rec := fakeRecord{"Name": {"Alice"}}

	assert.False(t, EvalBool(expr, rec, Options{CaseInsensitive: false}))
	assert.True(t, EvalBool(expr, rec, Options{CaseInsensitive: true}))
}

func TestEval_MalformedRegexpYieldsFalse(t *testing.T) {
	expr, err := Parse(`Name ~ "("`)
	require.NoError(t, err)
	assert.False(t, EvalBool(expr, fakeRecord{"Name": {"x"}}, Options{}))
}

func TestEval_DateComparison(t *testing.T) {
	expr, err := Parse(`Start << End`)
	require.NoError(t, err)
	rec := fakeRecord{"Start": {"2020-01-01"}, "End": {"2021-01-01"}}
	assert.True(t, EvalBool(expr, rec, Options{}))
}

func TestEval_DivisionByZeroIsZero(t *testing.T) {
	expr, err := Parse(`1 / 0 = 0`)
	require.NoError(t, err)
	assert.True(t, EvalBool(expr, fakeRecord{}, Options{}))
}
