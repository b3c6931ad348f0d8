// Package transform implements the rec format's mutating operations:
// sorting by %sort, %auto field generation, and confidential-field
// encryption/decryption.
package transform

import (
	"sort"
	"strconv"

	"github.com/relkit/recdb/recfile"
)

// Sort reorders rs.Records by the fields named in its Schema's %sort list,
// in the order given, using a stable sort so records with equal sort keys
// keep their relative source order. Values are compared numerically when
// both parse as numbers under the field's declared type (int, real, or
// range); otherwise the comparison falls back to lexicographic order.
func Sort(rs recfile.RecordSet) recfile.RecordSet {
	if rs.Schema == nil || len(rs.Schema.Sort) == 0 {
		return rs
	}
	records := make([]recfile.Record, len(rs.Records))
	copy(records, rs.Records)

	keys := rs.Schema.Sort
	sort.SliceStable(records, func(i, j int) bool {
		for _, key := range keys {
			vi, _ := records[i].Get(key)
			vj, _ := records[j].Get(key)
			if vi == vj {
				continue
			}
			if less, ok := compareNumeric(rs.Schema, key, vi, vj); ok {
				return less
			}
			return vi < vj
		}
		return false
	})

	rs.Records = records
	return rs
}

// compareNumeric reports whether key's declared type is numeric (int, real
// or range) and both vi, vj parse as numbers; if so, less is their
// numeric order and ok is true.
func compareNumeric(schema *recfile.Schema, key, vi, vj string) (less, ok bool) {
	ts, declared := schema.TypeOf(key)
	if !declared {
		return false, false
	}
	switch ts.Kind {
	case "int", "real", "range":
	default:
		return false, false
	}
	ni, erri := strconv.ParseFloat(vi, 64)
	nj, errj := strconv.ParseFloat(vj, 64)
	if erri != nil || errj != nil {
		return false, false
	}
	return ni < nj, true
}
