// Package selector implements recsel's ten-stage selection pipeline: type
// selection, expression filter, quick search, index filter, random
// sampling, sort, group-by, uniq, projection, and count.
package selector

import "github.com/relkit/recdb/sex"

// Options configures one selector run. A zero Options value means "select
// every record of the chosen type, unmodified".
type Options struct {
	Type string // -t/--type, the %rec type to select from; if empty, the database must hold exactly one record set

	Expr sex.Expr // -e/--expression filter, nil disables it

	Quick           string // -q/--quick substring search across every field
	CaseInsensitive bool   // -i/--case-insensitive, applies to Expr's ~ operator and Quick

	Indexes []int // -n/--number, positions into the pre-filter result (ranges already expanded); nil selects all

	Random int   // -m/--random, random sample size; 0 disables it
	Seed   int64 // seed for the random sampler, for reproducible tests

	SortFields []string // -S/--sort, overrides the descriptor's %sort when non-empty
	GroupBy    []string // -G/--group-by, merge records sharing this tuple of field values into one synthetic record
	Uniq       bool     // -U/--uniq, collapse consecutive duplicate values of the same field name within each record

	Fields            []string // -p/--print, fields to print; nil/empty prints every field
	PrintValues       bool     // -P/--print-values, print only values, one per line, no field names
	PrintRow          bool     // -R/--print-row, print each record as a single comma-separated row
	IncludeDescriptor bool     // -d/--include-descriptor, print the record set's descriptor before its records
	Collapse          bool     // -C/--collapse, merge adjacent output records that are field-for-field identical

	Count bool // -c/--count, report only the number of selected records
}
