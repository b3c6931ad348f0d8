package recfile

import "strings"

// Serialize renders a Database back to the canonical rec text form: one
// blank line between records, one blank line between a descriptor and its
// first record, and '+'-continuation lines for any value containing a
// newline.
func Serialize(db Database) string {
	var buf strings.Builder
	first := true

	writeRecord := func(r Record) {
		if !first {
			buf.WriteByte('\n')
		}
		first = false
		for _, f := range r.Fields {
			writeField(&buf, f)
		}
	}

	for _, rs := range db.Sets {
		if rs.Descriptor != nil {
			writeRecord(*rs.Descriptor)
		}
		for _, r := range rs.Records {
			writeRecord(r)
		}
	}
	return buf.String()
}

func writeField(buf *strings.Builder, f Field) {
	lines := strings.Split(f.Value, "\n")
	buf.WriteString(f.Name)
	buf.WriteString(": ")
	buf.WriteString(lines[0])
	buf.WriteByte('\n')
	for _, cont := range lines[1:] {
		buf.WriteString("+ ")
		buf.WriteString(cont)
		buf.WriteByte('\n')
	}
}

// String is a convenience wrapper so a Database can be used with %s/%v.
func (db Database) String() string {
	return Serialize(db)
}
