package selector

import (
	"fmt"
	"io"
	"strings"

	"github.com/relkit/recdb/recfile"
)

// project narrows each record down to the requested fields, in the
// requested order, dropping fields the record doesn't have. An empty
// fields list is a no-op (every field is kept).
func project(records []recfile.Record, fields []string) []recfile.Record {
	if len(fields) == 0 {
		return records
	}
	out := make([]recfile.Record, len(records))
	for i, rec := range records {
		var kept []recfile.Field
		for _, name := range fields {
			for _, v := range rec.GetAll(name) {
				kept = append(kept, recfile.Field{Name: name, Value: v})
			}
		}
		out[i] = recfile.Record{Fields: kept}
	}
	return out
}

// Write renders a Result to w according to Options' output mode: the
// default NAME: VALUE form (recfile.Serialize on a bare record set),
// PrintValues (values only, one per line, blank line between records) or
// PrintRow (one comma-separated line per record). IncludeDescriptor, when
// set, prints the record set's descriptor first.
func Write(w io.Writer, result Result, opts Options) error {
	if opts.IncludeDescriptor && result.Descriptor != nil {
		db := recfile.Database{Sets: []recfile.RecordSet{{Descriptor: result.Descriptor}}}
		if _, err := io.WriteString(w, recfile.Serialize(db)); err != nil {
			return err
		}
	}

	records := result.Records
	switch {
	case opts.PrintRow:
		for _, rec := range records {
			values := make([]string, len(rec.Fields))
			for i, f := range rec.Fields {
				values[i] = f.Value
			}
			if _, err := fmt.Fprintln(w, strings.Join(values, ",")); err != nil {
				return err
			}
		}
		return nil

	case opts.PrintValues:
		for _, rec := range records {
			for _, f := range rec.Fields {
				if _, err := fmt.Fprintln(w, f.Value); err != nil {
					return err
				}
			}
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		return nil

	default:
		db := recfile.Database{Sets: []recfile.RecordSet{{Records: records}}}
		_, err := io.WriteString(w, recfile.Serialize(db))
		return err
	}
}
