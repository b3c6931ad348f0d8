package recfile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSerialize_RoundTrip(t *testing.T) {
	input := "%rec: Contact\n%mandatory: Name\n\nName: Alice\nNote: first\n+ second\n\nName: Bob\n"

	db, diags := Parse("fixture", input)
	require.False(t, diags.HasErrors(), diags.Error())

	out := Serialize(db)
	db2, diags2 := Parse("fixture", out)
	require.False(t, diags2.HasErrors(), diags2.Error())

	assert.Equal(t, db.Sets[0].Records, db2.Sets[0].Records)
	assert.Equal(t, db.Sets[0].Descriptor, db2.Sets[0].Descriptor)
}

func TestSerialize_MultilineValueUsesPlusContinuation(t *testing.T) {
	db := Database{Sets: []RecordSet{{
		Records: []Record{{Fields: []Field{{Name: "Note", Value: "a\nb"}}}},
	}}}
	out := Serialize(db)
	assert.Equal(t, "Note: a\n+ b\n", out)
}
