package selector

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/relkit/recdb/recfile"
	"github.com/relkit/recdb/sex"
	"github.com/relkit/recdb/transform"
)

// Result is what a selector run produces: either a count, or the selected
// (filtered, sorted, grouped, projected) records ready to print.
type Result struct {
	Count      int
	Descriptor *recfile.Record
	Records    []recfile.Record
}

// Run executes the ten-stage pipeline against db and returns the result.
func Run(db recfile.Database, opts Options) (Result, error) {
	rs, err := chooseRecordSet(db, opts.Type)
	if err != nil {
		return Result{}, err
	}
	records := rs.Records

	records = filterExpr(records, opts)
	records = filterQuick(records, opts)
	records = filterIndexes(records, opts)
	records = sampleRandom(records, opts)
	records = applySort(records, rs, opts)
	records = groupBy(records, opts)
	records = uniqWithinRecord(records, opts)

	if opts.Count {
		return Result{Count: len(records)}, nil
	}

	records = project(records, opts.Fields)
	if opts.Collapse {
		records = collapseAdjacentDuplicates(records)
	}

	result := Result{Count: len(records), Records: records}
	if opts.IncludeDescriptor {
		result.Descriptor = rs.Descriptor
	}
	return result, nil
}

// chooseRecordSet implements stage 1: if recType is given, the set whose
// descriptor declares it; otherwise the sole record set in db, or an error
// if db holds more than one.
func chooseRecordSet(db recfile.Database, recType string) (recfile.RecordSet, error) {
	if recType != "" {
		rs, ok := db.ByType(recType)
		if !ok {
			return recfile.RecordSet{}, fmt.Errorf("selector: no record set of type %q", recType)
		}
		return rs, nil
	}
	if len(db.Sets) == 1 {
		return db.Sets[0], nil
	}
	return recfile.RecordSet{}, fmt.Errorf("selector: several record types, -t/--type is required")
}

func filterExpr(records []recfile.Record, opts Options) []recfile.Record {
	if opts.Expr == nil {
		return records
	}
	sexOpts := sex.Options{CaseInsensitive: opts.CaseInsensitive}
	var out []recfile.Record
	for _, rec := range records {
		if sex.EvalBool(opts.Expr, rec, sexOpts) {
			out = append(out, rec)
		}
	}
	return out
}

func filterQuick(records []recfile.Record, opts Options) []recfile.Record {
	if opts.Quick == "" {
		return records
	}
	needle := opts.Quick
	if opts.CaseInsensitive {
		needle = strings.ToLower(needle)
	}
	var out []recfile.Record
	for _, rec := range records {
		for _, f := range rec.Fields {
			hay := f.Value
			if opts.CaseInsensitive {
				hay = strings.ToLower(hay)
			}
			if strings.Contains(hay, needle) {
				out = append(out, rec)
				break
			}
		}
	}
	return out
}

// filterIndexes keeps only the records at the given positions, in their
// original relative order — the index list's own order is irrelevant,
// per §4.5's "preserve original order regardless of list order".
func filterIndexes(records []recfile.Record, opts Options) []recfile.Record {
	if opts.Indexes == nil {
		return records
	}
	keep := map[int]bool{}
	for _, idx := range opts.Indexes {
		keep[idx] = true
	}
	var out []recfile.Record
	for i, rec := range records {
		if keep[i] {
			out = append(out, rec)
		}
	}
	return out
}

func sampleRandom(records []recfile.Record, opts Options) []recfile.Record {
	if opts.Random <= 0 {
		return records
	}
	rnd := rand.New(rand.NewSource(opts.Seed))
	indexes := sampleIndices(rnd, len(records), opts.Random)
	out := make([]recfile.Record, len(indexes))
	for i, idx := range indexes {
		out[i] = records[idx]
	}
	return out
}

func applySort(records []recfile.Record, rs recfile.RecordSet, opts Options) []recfile.Record {
	sortFields := opts.SortFields
	if len(sortFields) == 0 {
		if rs.Schema == nil || len(rs.Schema.Sort) == 0 {
			return records
		}
		sortFields = rs.Schema.Sort
	}
	schema := &recfile.Schema{Sort: sortFields}
	if rs.Schema != nil {
		schema.Types = rs.Schema.Types
		schema.Typedefs = rs.Schema.Typedefs
	}
	tmp := recfile.RecordSet{
		Schema:  schema,
		Records: records,
	}
	return transform.Sort(tmp).Records
}

// groupBy partitions records by the tuple of values of the GroupBy
// fields, in first-seen order, and merges each group's records into one
// synthetic record whose fields are the union of every member's fields,
// preserving each field name's relative order and multiplicity.
func groupBy(records []recfile.Record, opts Options) []recfile.Record {
	if len(opts.GroupBy) == 0 {
		return records
	}

	var order []string
	groups := map[string][]recfile.Record{}
	for _, rec := range records {
		key := groupKey(rec, opts.GroupBy)
		if _, seen := groups[key]; !seen {
			order = append(order, key)
		}
		groups[key] = append(groups[key], rec)
	}

	out := make([]recfile.Record, 0, len(order))
	for _, key := range order {
		var fields []recfile.Field
		for _, rec := range groups[key] {
			fields = append(fields, rec.Fields...)
		}
		out = append(out, recfile.Record{Fields: fields})
	}
	return out
}

func groupKey(rec recfile.Record, fields []string) string {
	var b strings.Builder
	for _, f := range fields {
		v, _ := rec.Get(f)
		b.WriteString(v)
		b.WriteByte(0)
	}
	return b.String()
}

// uniqWithinRecord collapses consecutive fields of the same name that
// carry the same value, within each record independently.
func uniqWithinRecord(records []recfile.Record, opts Options) []recfile.Record {
	if !opts.Uniq {
		return records
	}
	out := make([]recfile.Record, len(records))
	for i, rec := range records {
		var fields []recfile.Field
		for j, f := range rec.Fields {
			if j > 0 {
				prev := fields[len(fields)-1]
				if prev.Name == f.Name && prev.Value == f.Value {
					continue
				}
			}
			fields = append(fields, f)
		}
		out[i] = recfile.Record{Fields: fields}
	}
	return out
}

// collapseAdjacentDuplicates merges adjacent output records that are
// field-for-field identical into one.
func collapseAdjacentDuplicates(records []recfile.Record) []recfile.Record {
	if len(records) == 0 {
		return records
	}
	out := make([]recfile.Record, 0, len(records))
	out = append(out, records[0])
	for _, rec := range records[1:] {
		last := out[len(out)-1]
		if recordsEqual(last, rec) {
			continue
		}
		out = append(out, rec)
	}
	return out
}

func recordsEqual(a, b recfile.Record) bool {
	if len(a.Fields) != len(b.Fields) {
		return false
	}
	for i := range a.Fields {
		if a.Fields[i] != b.Fields[i] {
			return false
		}
	}
	return true
}
