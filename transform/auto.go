package transform

import (
	"fmt"
	"strconv"
	"time"

	"github.com/gofrs/uuid"

	"github.com/relkit/recdb/recfile"
)

// Auto fills in every %auto field absent from a record across rs.Records,
// continuing any existing sequence so the operation is idempotent: a
// record that already carries a value for an %auto field is never
// touched, so re-running Auto after a manual edit preserves it.
func Auto(rs recfile.RecordSet) (recfile.RecordSet, recfile.Diagnostics) {
	if rs.Schema == nil || len(rs.Schema.Auto) == 0 {
		return rs, nil
	}

	var diags recfile.Diagnostics
	records := make([]recfile.Record, len(rs.Records))
	copy(records, rs.Records)

	for _, field := range rs.Schema.Auto {
		kind, args := "int", []string(nil)
		if ts, ok := rs.Schema.TypeOf(field); ok {
			kind, args = ts.Kind, ts.Args
		}

		switch kind {
		case "range":
			start, end := 1, 0
			if len(args) == 2 {
				if s, err := strconv.Atoi(args[0]); err == nil {
					start = s
				}
				if e, err := strconv.Atoi(args[1]); err == nil {
					end = e
				}
			}
			next := nextCounter(records, field, start)
			for i, rec := range records {
				if rec.Has(field) {
					continue
				}
				if next > end {
					diags = append(diags, recfile.Diagnostic{
						Severity:   recfile.Error,
						Message:    fmt.Sprintf("%%auto range exhausted for field %s", field),
						RecordType: rs.Type(), RecordIndex: i, FieldName: field,
					})
					continue
				}
				records[i] = rec.With(field, strconv.Itoa(next))
				next++
			}
		case "uuid":
			for i, rec := range records {
				if rec.Has(field) {
					continue
				}
				id, err := uuid.NewV4()
				if err != nil {
					diags = append(diags, recfile.Diagnostic{
						Severity: recfile.Error, Message: "could not generate uuid: " + err.Error(),
						RecordType: rs.Type(), RecordIndex: i, FieldName: field,
					})
					continue
				}
				records[i] = rec.With(field, id.String())
			}
		case "date":
			now := time.Now().UTC().Format(time.RFC3339)
			for i, rec := range records {
				if rec.Has(field) {
					continue
				}
				records[i] = rec.With(field, now)
			}
		default:
			next := nextCounter(records, field, 1)
			for i, rec := range records {
				if rec.Has(field) {
					continue
				}
				records[i] = rec.With(field, strconv.Itoa(next))
				next++
			}
		}
	}

	rs.Records = records
	return rs, diags
}

// nextCounter scans the existing field values for the highest integer
// already in use and returns one past it, or fallback if none parse.
func nextCounter(records []recfile.Record, field string, fallback int) int {
	max := fallback - 1
	found := false
	for _, rec := range records {
		v, ok := rec.Get(field)
		if !ok {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			continue
		}
		found = true
		if n > max {
			max = n
		}
	}
	if !found {
		return fallback
	}
	return max + 1
}
