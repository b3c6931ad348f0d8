package recfile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_SimpleRecordSet(t *testing.T) {
	input := "%rec: Contact\n%mandatory: Name\n\nName: Alice\nEmail: alice@example.com\n\nName: Bob\n"

	db, diags := Parse("fixture", input)
	require.False(t, diags.HasErrors(), diags.Error())
	require.Len(t, db.Sets, 1)

	rs := db.Sets[0]
	assert.Equal(t, "Contact", rs.Type())
	require.Len(t, rs.Records, 2)

	name, ok := rs.Records[0].Get("Name")
	assert.True(t, ok)
	assert.Equal(t, "Alice", name)
}

func TestParse_PlusContinuation(t *testing.T) {
	input := "Name: Alice\nNote: first line\n+ second line\n+ third line\n"

	db, diags := Parse("fixture", input)
	require.False(t, diags.HasErrors(), diags.Error())
	require.Len(t, db.Sets, 1)

	note, ok := db.Sets[0].Records[0].Get("Note")
	require.True(t, ok)
	assert.Equal(t, "first line\nsecond line\nthird line", note)
}

func TestParse_BackslashContinuation(t *testing.T) {
	input := "Name: Alice \\\nSmith\n"

	db, diags := Parse("fixture", input)
	require.False(t, diags.HasErrors(), diags.Error())

	name, ok := db.Sets[0].Records[0].Get("Name")
	require.True(t, ok)
	assert.Equal(t, "Alice Smith", name)
}

func TestParse_DanglingContinuationIsDiagnosed(t *testing.T) {
	input := "Name: Alice\\\n"

	_, diags := Parse("fixture", input)
	require.True(t, diags.HasErrors())
}

func TestParse_CommentLineIsIgnored(t *testing.T) {
	input := "# a comment\nName: Alice\n"

	db, diags := Parse("fixture", input)
	require.False(t, diags.HasErrors(), diags.Error())
	require.Len(t, db.Sets, 1)
	require.Len(t, db.Sets[0].Records, 1)
}

func TestParse_MalformedLineResynchronises(t *testing.T) {
	input := "Name: Alice\nthis is not a field line\n\nName: Bob\n"

	db, diags := Parse("fixture", input)
	require.True(t, diags.HasErrors())
	require.Len(t, db.Sets, 1)
	// the malformed line aborts the record under construction but parsing
	// resumes cleanly after the next blank line.
	require.Len(t, db.Sets[0].Records, 1)
	name, _ := db.Sets[0].Records[0].Get("Name")
	assert.Equal(t, "Bob", name)
}

func TestParse_AnonymousSetOnlyKeptWithRecords(t *testing.T) {
	db, diags := Parse("fixture", "%rec: Contact\n\nName: Alice\n")
	require.False(t, diags.HasErrors(), diags.Error())
	require.Len(t, db.Sets, 1, "no anonymous record set should have been kept")
}

func TestParse_DescriptorKeptEvenWithZeroRecords(t *testing.T) {
	db, diags := Parse("fixture", "%rec: Contact\n%mandatory: Name\n")
	require.False(t, diags.HasErrors(), diags.Error())
	require.Len(t, db.Sets, 1)
	assert.Empty(t, db.Sets[0].Records)
}

func TestParse_MultipleRecordSets(t *testing.T) {
	input := "%rec: Contact\n\nName: Alice\n\n%rec: Address\n\nStreet: Main St\n"

	db, diags := Parse("fixture", input)
	require.False(t, diags.HasErrors(), diags.Error())
	require.Len(t, db.Sets, 2)
	assert.Equal(t, "Contact", db.Sets[0].Type())
	assert.Equal(t, "Address", db.Sets[1].Type())

	rs, ok := db.ByType("Address")
	require.True(t, ok)
	street, _ := rs.Records[0].Get("Street")
	assert.Equal(t, "Main St", street)
}
