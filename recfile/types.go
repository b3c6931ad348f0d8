// Package recfile implements the plain-text "rec" record database format:
// parsing a text buffer into record sets, and rendering record sets back
// to the canonical text form.
package recfile

import "strings"

// Field is a single (name, value) pair. Name matches [A-Za-z%][A-Za-z0-9_]*;
// Value is an arbitrary string, possibly containing newlines.
type Field struct {
	Name  string
	Value string
}

// Record is an ordered sequence of fields. A record may contain several
// fields with the same name; their relative order is preserved.
type Record struct {
	Fields []Field
}

// Get returns the value of the first field named name, and whether it was
// present at all.
func (r Record) Get(name string) (string, bool) {
	for _, f := range r.Fields {
		if f.Name == name {
			return f.Value, true
		}
	}
	return "", false
}

// GetAll returns every value of fields named name, in their original order.
func (r Record) GetAll(name string) []string {
	var out []string
	for _, f := range r.Fields {
		if f.Name == name {
			out = append(out, f.Value)
		}
	}
	return out
}

// GetIndex returns the i-th (0-based) occurrence of a field named name.
func (r Record) GetIndex(name string, i int) (string, bool) {
	n := 0
	for _, f := range r.Fields {
		if f.Name == name {
			if n == i {
				return f.Value, true
			}
			n++
		}
	}
	return "", false
}

// Count returns the multiplicity of fields named name (>= 0).
func (r Record) Count(name string) int {
	n := 0
	for _, f := range r.Fields {
		if f.Name == name {
			n++
		}
	}
	return n
}

// Has reports whether at least one field named name is present.
func (r Record) Has(name string) bool {
	return r.Count(name) > 0
}

// With returns a new Record with an additional field appended. Records are
// never mutated in place; transforms build new ones.
func (r Record) With(name, value string) Record {
	fields := make([]Field, len(r.Fields), len(r.Fields)+1)
	copy(fields, r.Fields)
	fields = append(fields, Field{Name: name, Value: value})
	return Record{Fields: fields}
}

// IsDescriptorField reports whether a field name begins with the
// descriptor-directive marker '%'.
func IsDescriptorField(name string) bool {
	return strings.HasPrefix(name, "%")
}

// RecordSet is a descriptor paired with the records it governs. Descriptor
// is nil for the anonymous record set (records that precede any %rec).
type RecordSet struct {
	Descriptor *Record
	Schema     *Schema
	Records    []Record
}

// Type returns the record type declared by %rec, or "" for the anonymous
// record set.
func (rs RecordSet) Type() string {
	if rs.Descriptor == nil {
		return ""
	}
	t, _ := rs.Descriptor.Get("%rec")
	return t
}

// Database is an ordered list of record sets, in source order; the
// anonymous record set, if present, is first.
type Database struct {
	Sets []RecordSet
}

// ByType returns the record set whose descriptor declares %rec: name, and
// whether one was found.
func (db Database) ByType(name string) (RecordSet, bool) {
	for _, rs := range db.Sets {
		if rs.Type() == name {
			return rs, true
		}
	}
	return RecordSet{}, false
}
