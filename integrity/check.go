package integrity

import (
	"fmt"

	"github.com/relkit/recdb/recfile"
	"github.com/relkit/recdb/sex"
)

// Check validates every record set in db against its compiled Schema and
// returns every violation found; it never stops at the first one, mirroring
// the parser's "accumulate, don't abort" discipline.
func Check(db recfile.Database) recfile.Diagnostics {
	var diags recfile.Diagnostics
	for _, rs := range db.Sets {
		diags = append(diags, checkRecordSet(db, rs)...)
	}
	return diags
}

func checkRecordSet(db recfile.Database, rs recfile.RecordSet) recfile.Diagnostics {
	schema := rs.Schema
	if schema == nil {
		return nil
	}
	var diags recfile.Diagnostics

	if schema.Size != nil {
		if !sizeSatisfies(*schema.Size, len(rs.Records)) {
			diags = append(diags, recfile.Diagnostic{
				Severity:   recfile.Error,
				Message:    fmt.Sprintf("record set has %d records, expected %s %d", len(rs.Records), schema.Size.Op, schema.Size.N),
				RecordType: rs.Type(),
				RecordIndex: -1,
			})
		}
	}

	for _, name := range schema.Singular {
		diags = append(diags, checkUniqueness(rs, name, false)...)
	}
	for _, name := range schema.Key {
		diags = append(diags, checkUniqueness(rs, name, true)...)
	}

	for i, rec := range rs.Records {
		diags = append(diags, checkRecord(db, rs, i, rec)...)
	}

	return diags
}

func sizeSatisfies(sc recfile.SizeConstraint, n int) bool {
	switch sc.Op {
	case "<":
		return n < sc.N
	case "<=":
		return n <= sc.N
	case ">":
		return n > sc.N
	case ">=":
		return n >= sc.N
	case "==":
		return n == sc.N
	case "!=":
		return n != sc.N
	}
	return true
}

// checkUniqueness is the cross-record value-uniqueness check shared by
// %singular (presence optional) and %key (presence mandatory).
func checkUniqueness(rs recfile.RecordSet, field string, isKey bool) recfile.Diagnostics {
	var diags recfile.Diagnostics
	seen := map[string]int{}
	label := "%singular"
	if isKey {
		label = "%key"
	}
	for i, rec := range rs.Records {
		v, ok := rec.Get(field)
		if !ok {
			if isKey {
				diags = append(diags, recfile.Diagnostic{
					Severity: recfile.Error, Message: "missing key field " + field,
					RecordType: rs.Type(), RecordIndex: i, FieldName: field,
				})
			}
			continue
		}
		if first, dup := seen[v]; dup {
			diags = append(diags, recfile.Diagnostic{
				Severity:   recfile.Error,
				Message:    fmt.Sprintf("duplicate value %q for %s field %s (first seen at record %d)", v, label, field, first),
				RecordType: rs.Type(), RecordIndex: i, FieldName: field,
			})
			continue
		}
		seen[v] = i
	}
	return diags
}

func checkRecord(db recfile.Database, rs recfile.RecordSet, index int, rec recfile.Record) recfile.Diagnostics {
	schema := rs.Schema
	var diags recfile.Diagnostics

	for _, name := range schema.Mandatory {
		if !rec.Has(name) {
			diags = append(diags, recfile.Diagnostic{
				Severity: recfile.Error, Message: "missing mandatory field " + name,
				RecordType: rs.Type(), RecordIndex: index, FieldName: name,
			})
		}
	}

	if len(schema.Allowed) > 0 {
		allowed := map[string]bool{}
		for _, a := range schema.Allowed {
			allowed[a] = true
		}
		for _, a := range schema.Mandatory {
			allowed[a] = true
		}
		for _, f := range rec.Fields {
			if !allowed[f.Name] {
				diags = append(diags, recfile.Diagnostic{
					Severity: recfile.Error, Message: "field " + f.Name + " is not in %allowed",
					RecordType: rs.Type(), RecordIndex: index, FieldName: f.Name,
				})
			}
		}
	}

	for _, name := range schema.Prohibited {
		if rec.Has(name) {
			diags = append(diags, recfile.Diagnostic{
				Severity: recfile.Error, Message: "field " + name + " is prohibited",
				RecordType: rs.Type(), RecordIndex: index, FieldName: name,
			})
		}
	}

	for _, name := range schema.Unique {
		if rec.Count(name) > 1 {
			diags = append(diags, recfile.Diagnostic{
				Severity: recfile.Error, Message: fmt.Sprintf("field %s appears %d times, must be unique within the record", name, rec.Count(name)),
				RecordType: rs.Type(), RecordIndex: index, FieldName: name,
			})
		}
	}

	for _, f := range rec.Fields {
		ts, ok := schema.TypeOf(f.Name)
		if !ok {
			continue
		}
		if err := validateType(db, ts.Kind, ts.Args, f.Value); err != nil {
			diags = append(diags, recfile.Diagnostic{
				Severity: recfile.Error, Message: err.Error(),
				RecordType: rs.Type(), RecordIndex: index, FieldName: f.Name,
			})
		}
	}

	for _, c := range schema.Constraints {
		if !sex.EvalBool(c.Expr, rec, sex.Options{}) {
			diags = append(diags, recfile.Diagnostic{
				Severity: recfile.Error, Message: "constraint violated: " + c.Source,
				RecordType: rs.Type(), RecordIndex: index,
			})
		}
	}

	return diags
}
