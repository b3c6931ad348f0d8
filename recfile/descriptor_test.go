package recfile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompileSchema_Directives(t *testing.T) {
	input := "" +
		"%rec: Contact\n" +
		"%mandatory: Name Email\n" +
		"%allowed: Phone\n" +
		"%unique: Email\n" +
		"%key: Id\n" +
		"%type: Email email\n" +
		"%type: Age int\n" +
		"%size: <= 3\n" +
		"%constraint: Age > 0\n" +
		"%sort: Name\n" +
		"\n" +
		"Id: 1\nName: Alice\nEmail: alice@example.com\nAge: 30\n"

	db, diags := Parse("fixture", input)
	require.False(t, diags.HasErrors(), diags.Error())

	schema := db.Sets[0].Schema
	require.NotNil(t, schema)
	assert.ElementsMatch(t, []string{"Name", "Email"}, schema.Mandatory)
	assert.ElementsMatch(t, []string{"Phone"}, schema.Allowed)
	assert.ElementsMatch(t, []string{"Email"}, schema.Unique)
	assert.ElementsMatch(t, []string{"Id"}, schema.Key)
	require.NotNil(t, schema.Size)
	assert.Equal(t, "<=", schema.Size.Op)
	assert.Equal(t, 3, schema.Size.N)
	require.Len(t, schema.Constraints, 1)
	assert.Equal(t, []string{"Name"}, schema.Sort)

	ts, ok := schema.TypeOf("Email")
	require.True(t, ok)
	assert.Equal(t, "email", ts.Kind)
}

func TestCompileSchema_SortAccumulatesAcrossMultipleDirectives(t *testing.T) {
	input := "%rec: Contact\n%sort: Name\n%sort: Age\n\nName: A\nAge: 1\n"

	db, diags := Parse("fixture", input)
	require.False(t, diags.HasErrors(), diags.Error())
	assert.Equal(t, []string{"Name", "Age"}, db.Sets[0].Schema.Sort)
}

func TestCompileSchema_MalformedSizeIsDiagnosed(t *testing.T) {
	input := "%rec: Contact\n%size: not-a-number\n"

	_, diags := Parse("fixture", input)
	require.True(t, diags.HasErrors())
}

func TestCompileSchema_MalformedConstraintIsDiagnosed(t *testing.T) {
	input := "%rec: Contact\n%constraint: Age > (\n"

	_, diags := Parse("fixture", input)
	require.True(t, diags.HasErrors())
}

func TestCompileSchema_AutoIsAWhitespaceSeparatedFieldList(t *testing.T) {
	input := "%rec: Contact\n%auto: Id Seq\n\nName: A\n"

	db, diags := Parse("fixture", input)
	require.False(t, diags.HasErrors(), diags.Error())
	assert.Equal(t, []string{"Id", "Seq"}, db.Sets[0].Schema.Auto)
}

func TestCompileSchema_Typedef(t *testing.T) {
	input := "%rec: Contact\n%typedef: PosInt range 1 999999\n%type: Age PosInt\n\nAge: 5\n"

	db, diags := Parse("fixture", input)
	require.False(t, diags.HasErrors(), diags.Error())

	ts, ok := db.Sets[0].Schema.TypeOf("Age")
	require.True(t, ok)
	assert.Equal(t, "range", ts.Kind)
	assert.Equal(t, []string{"1", "999999"}, ts.Args)
}
