package selector_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relkit/recdb/recfile"
	"github.com/relkit/recdb/selector"
	"github.com/relkit/recdb/sex"
)

func mustParse(t *testing.T, input string) recfile.Database {
	t.Helper()
	db, diags := recfile.Parse(recfile.FileRef(t.Name()), input)
	require.False(t, diags.HasErrors(), diags.Error())
	return db
}

func names(records []recfile.Record) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i], _ = r.Get("Name")
	}
	return out
}

func TestRun_ExpressionFilter(t *testing.T) {
	db := mustParse(t, "%rec: Contact\n\nName: Alice\nAge: 30\n\nName: Bob\nAge: 10\n")
	expr, err := sex.Parse("Age > 18")
	require.NoError(t, err)

	result, err := selector.Run(db, selector.Options{Type: "Contact", Expr: expr})
	require.NoError(t, err)
	assert.Equal(t, []string{"Alice"}, names(result.Records))
}

func TestRun_QuickSearch(t *testing.T) {
	db := mustParse(t, "%rec: Contact\n\nName: Alice\nCity: Paris\n\nName: Bob\nCity: Berlin\n")
	result, err := selector.Run(db, selector.Options{Type: "Contact", Quick: "par"})
	require.NoError(t, err)
	assert.Empty(t, result.Records, "quick search is case sensitive by default")

	result, err = selector.Run(db, selector.Options{Type: "Contact", Quick: "par", CaseInsensitive: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"Alice"}, names(result.Records))
}

func TestRun_IndexFilterPreservesOriginalOrder(t *testing.T) {
	db := mustParse(t, "%rec: Contact\n\nName: A\n\nName: B\n\nName: C\n\nName: D\n")
	result, err := selector.Run(db, selector.Options{Type: "Contact", Indexes: []int{3, 0}})
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "D"}, names(result.Records), "list order must not affect output order")
}

func TestRun_GroupByMergesIntoSyntheticRecords(t *testing.T) {
	db := mustParse(t, "%rec: Contact\n\nName: A\nTeam: x\n\nName: B\nTeam: y\n\nName: C\nTeam: x\n")
	result, err := selector.Run(db, selector.Options{Type: "Contact", GroupBy: []string{"Team"}})
	require.NoError(t, err)
	require.Len(t, result.Records, 2, "one synthetic record per distinct Team value")

	first := result.Records[0]
	assert.Equal(t, []string{"A", "C"}, first.GetAll("Name"), "field order/multiplicity from both members is preserved")
}

func TestRun_UniqCollapsesConsecutiveDuplicateFieldsWithinRecord(t *testing.T) {
	db := mustParse(t, "%rec: Contact\n\nName: A\nTag: x\nTag: x\nTag: y\n")
	result, err := selector.Run(db, selector.Options{Type: "Contact", Uniq: true})
	require.NoError(t, err)
	require.Len(t, result.Records, 1)
	assert.Equal(t, []string{"x", "y"}, result.Records[0].GetAll("Tag"))
}

func TestRun_Count(t *testing.T) {
	db := mustParse(t, "%rec: Contact\n\nName: A\n\nName: B\n")
	result, err := selector.Run(db, selector.Options{Type: "Contact", Count: true})
	require.NoError(t, err)
	assert.Equal(t, 2, result.Count)
	assert.Nil(t, result.Records)
}

func TestRun_RandomSampleIsDeterministicForASeed(t *testing.T) {
	db := mustParse(t, "%rec: Contact\n\nName: A\n\nName: B\n\nName: C\n\nName: D\n")
	opts := selector.Options{Type: "Contact", Random: 2, Seed: 42}

	r1, err := selector.Run(db, opts)
	require.NoError(t, err)
	r2, err := selector.Run(db, opts)
	require.NoError(t, err)
	assert.Equal(t, names(r1.Records), names(r2.Records))
	assert.Len(t, r1.Records, 2)
}

func TestRun_UnknownTypeErrors(t *testing.T) {
	db := mustParse(t, "%rec: Contact\n\nName: A\n")
	_, err := selector.Run(db, selector.Options{Type: "Nope"})
	assert.Error(t, err)
}

func TestRun_NoTypeGivenSelectsSoleRecordSet(t *testing.T) {
	db := mustParse(t, "%rec: Contact\n\nName: A\n\nName: B\n")
	result, err := selector.Run(db, selector.Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, names(result.Records))
}

func TestRun_NoTypeGivenWithSeveralRecordSetsErrors(t *testing.T) {
	db := mustParse(t, "%rec: Contact\n\nName: A\n\n%rec: Company\n\nName: Acme\n")
	_, err := selector.Run(db, selector.Options{})
	assert.Error(t, err)
}

func TestRun_SortOverrideComparesNumericFieldsNumerically(t *testing.T) {
	db := mustParse(t, "%rec: Contact\n%type: Age int\n\nName: A\nAge: 10\n\nName: B\nAge: 9\n")
	result, err := selector.Run(db, selector.Options{Type: "Contact", SortFields: []string{"Age"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"B", "A"}, names(result.Records))
}

func TestRun_Projection(t *testing.T) {
	db := mustParse(t, "%rec: Contact\n\nName: A\nAge: 1\nCity: X\n")
	result, err := selector.Run(db, selector.Options{Type: "Contact", Fields: []string{"Name"}})
	require.NoError(t, err)
	require.Len(t, result.Records, 1)
	assert.Len(t, result.Records[0].Fields, 1)
	assert.Equal(t, "Name", result.Records[0].Fields[0].Name)
}

func TestRun_Collapse(t *testing.T) {
	db := mustParse(t, "%rec: Contact\n\nName: A\n\nName: A\n\nName: B\n")
	result, err := selector.Run(db, selector.Options{Type: "Contact", Collapse: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, names(result.Records))
}

func TestRun_IncludeDescriptor(t *testing.T) {
	db := mustParse(t, "%rec: Contact\n%mandatory: Name\n\nName: A\n")
	result, err := selector.Run(db, selector.Options{Type: "Contact", IncludeDescriptor: true})
	require.NoError(t, err)
	require.NotNil(t, result.Descriptor)
	rt, _ := result.Descriptor.Get("%rec")
	assert.Equal(t, "Contact", rt)
}
