package recfile

import "fmt"

// builder accumulates the record set currently being parsed.
type builder struct {
	descriptor *Record
	records    []Record
}

func (b *builder) empty() bool {
	return b.descriptor == nil && len(b.records) == 0
}

// parseState walks the logical line stream and assembles record sets
// using an "accumulate, resynchronise on error, never abort" discipline.
type parseState struct {
	file FileRef

	sets []RecordSet
	cur  builder

	currentFields  []Field
	buildingDescr  bool // currentFields are descriptor directives
	lastFieldValid bool // true if a plus-continuation may extend currentFields' last field
	resyncing      bool
	diags          Diagnostics
}

// Parse turns a text buffer into a Database, per the format described in
// spec §4.1. Malformed lines are reported as diagnostics and the parser
// resynchronises at the next blank line rather than aborting.
func Parse(file FileRef, input string) (Database, Diagnostics) {
	lines, diags := resolveBackslashContinuations(file, input)

	st := &parseState{file: file, diags: diags}
	for _, ll := range lines {
		st.step(ll)
	}
	st.finish()

	schemaDiags := compileSchemas(st.sets)
	st.diags = append(st.diags, schemaDiags...)

	return Database{Sets: st.sets}, st.diags
}

func (st *parseState) step(ll logicalLine) {
	text := ll.text

	if st.resyncing {
		if isBlankLine(text) {
			st.resyncing = false
		}
		return
	}

	switch {
	case isCommentLine(text):
		st.lastFieldValid = false
		return

	case isBlankLine(text):
		st.endRecord()
		st.lastFieldValid = false
		return
	}

	if payload, ok := classifyPlusContinuation(text); ok {
		if !st.lastFieldValid || len(st.currentFields) == 0 {
			st.diags = append(st.diags, Diagnostic{
				Severity:    Error,
				Message:     "continuation line '+' with no preceding field",
				Pos:         Pos{File: st.file, Line: ll.line},
				RecordIndex: -1,
			})
			st.resyncing = true
			return
		}
		last := &st.currentFields[len(st.currentFields)-1]
		last.Value = last.Value + "\n" + payload
		return
	}

	if field, ok := classifyFieldLine(text); ok {
		if field.name == "%rec" {
			st.startRecordSet(field.value)
			return
		}
		st.currentFields = append(st.currentFields, Field{Name: field.name, Value: field.value})
		st.lastFieldValid = true
		return
	}

	st.diags = append(st.diags, Diagnostic{
		Severity:    Error,
		Message:     fmt.Sprintf("malformed line: %q", text),
		Pos:         Pos{File: st.file, Line: ll.line},
		RecordIndex: -1,
	})
	// Drop the record under construction; a descriptor keeps the
	// directives read so far.
	if st.buildingDescr {
		st.endRecord()
	} else {
		st.currentFields = nil
	}
	st.resyncing = true
	st.lastFieldValid = false
}

// startRecordSet closes whatever was being built (flushing a dangling
// record first, if the prior block had no trailing blank line) and opens
// a fresh descriptor beginning with %rec.
func (st *parseState) startRecordSet(recType string) {
	st.endRecord()
	st.flushBuilder()

	st.currentFields = []Field{{Name: "%rec", Value: recType}}
	st.buildingDescr = true
	st.lastFieldValid = true
}

// endRecord closes the record (or descriptor) currently accumulating in
// currentFields, as if a blank line had been seen.
func (st *parseState) endRecord() {
	if len(st.currentFields) == 0 {
		return
	}
	rec := Record{Fields: st.currentFields}
	if st.buildingDescr {
		st.cur.descriptor = &rec
	} else {
		st.cur.records = append(st.cur.records, rec)
	}
	st.currentFields = nil
	st.buildingDescr = false
}

// flushBuilder pushes the record set under construction onto st.sets. The
// anonymous record set (no descriptor) is only kept if it actually
// contains records; a descriptor-bearing record set is always kept, even
// with zero records.
func (st *parseState) flushBuilder() {
	if st.cur.descriptor == nil && len(st.cur.records) == 0 {
		st.cur = builder{}
		return
	}
	st.sets = append(st.sets, RecordSet{
		Descriptor: st.cur.descriptor,
		Records:    st.cur.records,
	})
	st.cur = builder{}
}

func (st *parseState) finish() {
	st.endRecord()
	st.flushBuilder()
}
