package recfile

import (
	"strconv"
	"strings"

	"github.com/relkit/recdb/sex"
)

// TypeSpec is a parsed %type (or %typedef) value: a type keyword plus its
// arguments, e.g. "range 1 10" -> {Kind: "range", Args: ["1","10"]}.
// "typedef" is a special Kind meaning Args[0] names an entry in the
// owning Schema's Typedefs map to resolve through.
type TypeSpec struct {
	Kind string
	Args []string
}

var typeKeywords = map[string]bool{
	"int": true, "bool": true, "range": true, "real": true, "size": true,
	"line": true, "regexp": true, "date": true, "email": true, "uuid": true,
	"word": true, "month": true, "enum": true, "field": true,
}

// SizeConstraint is a compiled %size directive: at most/exactly/at least N
// records in the set.
type SizeConstraint struct {
	Op string // "<", "<=", ">", ">=", "==", "!="
	N  int
}

// Constraint is a compiled %constraint directive: the source text kept
// around for diagnostics, plus the parsed expression.
type Constraint struct {
	Source string
	Expr   sex.Expr
}

// Schema is a record type's descriptor, compiled once from its %-prefixed
// fields (see compileSchema). It never changes; the integrity checker and the
// transform engine only read it.
type Schema struct {
	Type string

	Mandatory    []string
	Allowed      []string
	Prohibited   []string
	Unique       []string
	Key          []string
	Singular     []string
	Confidential []string
	Sort         []string
	Doc          []string

	Size        *SizeConstraint
	Constraints []Constraint
	Auto        []string // field names; each field's generator kind comes from its own %type, per TypeOf

	Types    map[string]TypeSpec
	Typedefs map[string]TypeSpec
}

// TypeOf resolves name's effective TypeSpec, following a single typedef
// indirection if present. ok is false if name has no %type entry.
func (s *Schema) TypeOf(name string) (TypeSpec, bool) {
	ts, ok := s.Types[name]
	if !ok {
		return TypeSpec{}, false
	}
	if ts.Kind == "typedef" && len(ts.Args) == 1 {
		if resolved, ok := s.Typedefs[ts.Args[0]]; ok {
			return resolved, true
		}
	}
	return ts, true
}

// compileSchemas compiles every record set's descriptor into a Schema,
// attaching it in place, and returns any diagnostics raised while doing
// so (a malformed %size, an unparseable %constraint, ...).
func compileSchemas(sets []RecordSet) Diagnostics {
	var diags Diagnostics
	for i := range sets {
		if sets[i].Descriptor == nil {
			continue
		}
		schema, d := compileSchema(sets[i].Type(), *sets[i].Descriptor)
		diags = append(diags, d...)
		sets[i].Schema = schema
	}
	return diags
}

func compileSchema(recType string, descriptor Record) (*Schema, Diagnostics) {
	s := &Schema{
		Type:     recType,
		Types:    map[string]TypeSpec{},
		Typedefs: map[string]TypeSpec{},
	}
	var diags Diagnostics

	for _, f := range descriptor.Fields {
		switch f.Name {
		case "%rec":
			// record type name; already captured by RecordSet.Type().
		case "%mandatory":
			s.Mandatory = append(s.Mandatory, fields(f.Value)...)
		case "%allowed":
			s.Allowed = append(s.Allowed, fields(f.Value)...)
		case "%prohibit":
			s.Prohibited = append(s.Prohibited, fields(f.Value)...)
		case "%unique":
			s.Unique = append(s.Unique, fields(f.Value)...)
		case "%key":
			s.Key = append(s.Key, fields(f.Value)...)
		case "%singular":
			s.Singular = append(s.Singular, fields(f.Value)...)
		case "%confidential":
			s.Confidential = append(s.Confidential, fields(f.Value)...)
		case "%sort":
			s.Sort = append(s.Sort, fields(f.Value)...)
		case "%doc":
			s.Doc = append(s.Doc, f.Value)

		case "%size":
			sc, err := parseSizeConstraint(f.Value)
			if err != nil {
				diags = append(diags, Diagnostic{
					Severity: Error, Message: "malformed %size: " + err.Error(),
					RecordType: recType, RecordIndex: -1, FieldName: "%size",
				})
				continue
			}
			s.Size = sc

		case "%constraint":
			expr, err := sex.Parse(f.Value)
			if err != nil {
				diags = append(diags, Diagnostic{
					Severity: Error, Message: "malformed %constraint: " + err.Error(),
					RecordType: recType, RecordIndex: -1, FieldName: "%constraint",
				})
				continue
			}
			s.Constraints = append(s.Constraints, Constraint{Source: f.Value, Expr: expr})

		case "%type":
			name, spec, err := parseTypeDirective(f.Value)
			if err != nil {
				diags = append(diags, Diagnostic{
					Severity: Error, Message: "malformed %type: " + err.Error(),
					RecordType: recType, RecordIndex: -1, FieldName: "%type",
				})
				continue
			}
			s.Types[name] = spec

		case "%typedef":
			name, spec, err := parseTypedefDirective(f.Value)
			if err != nil {
				diags = append(diags, Diagnostic{
					Severity: Error, Message: "malformed %typedef: " + err.Error(),
					RecordType: recType, RecordIndex: -1, FieldName: "%typedef",
				})
				continue
			}
			s.Typedefs[name] = spec

		case "%auto":
			s.Auto = append(s.Auto, fields(f.Value)...)
		}
	}

	return s, diags
}

func fields(value string) []string {
	return strings.Fields(value)
}

func parseSizeConstraint(value string) (*SizeConstraint, error) {
	toks := strings.Fields(value)
	op := "=="
	numTok := ""
	switch len(toks) {
	case 1:
		numTok = toks[0]
	case 2:
		op, numTok = toks[0], toks[1]
	default:
		return nil, &parseError{"expected '[OP] N'"}
	}
	switch op {
	case "<", "<=", ">", ">=", "==", "!=":
	default:
		return nil, &parseError{"unknown size operator " + op}
	}
	n, err := strconv.Atoi(numTok)
	if err != nil {
		return nil, &parseError{"expected an integer, got " + numTok}
	}
	return &SizeConstraint{Op: op, N: n}, nil
}

func parseTypeDirective(value string) (string, TypeSpec, error) {
	toks := strings.Fields(value)
	for i, t := range toks {
		if typeKeywords[t] {
			if i == 0 {
				return "", TypeSpec{}, &parseError{"missing field name before type keyword"}
			}
			// Only a single field name is supported per directive; callers
			// writing "%type: A B int" mean two directives in recutils, but
			// we accept the common one-field form plus trailing args.
			name := toks[0]
			return name, TypeSpec{Kind: t, Args: toks[i+1:]}, nil
		}
	}
	if len(toks) != 2 {
		return "", TypeSpec{}, &parseError{"expected 'FIELD TYPEDEF_NAME'"}
	}
	return toks[0], TypeSpec{Kind: "typedef", Args: []string{toks[1]}}, nil
}

func parseTypedefDirective(value string) (string, TypeSpec, error) {
	toks := strings.Fields(value)
	if len(toks) < 2 {
		return "", TypeSpec{}, &parseError{"expected 'NAME TYPE_SPEC'"}
	}
	name := toks[0]
	rest := toks[1:]
	for i, t := range rest {
		if typeKeywords[t] {
			return name, TypeSpec{Kind: t, Args: rest[i+1:]}, nil
		}
	}
	return "", TypeSpec{}, &parseError{"unknown type keyword in typedef"}
}

type parseError struct{ msg string }

func (e *parseError) Error() string { return e.msg }
