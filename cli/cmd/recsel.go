package cmd

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/alecthomas/repr"
	"github.com/spf13/cobra"

	"github.com/relkit/recdb/recfile"
	"github.com/relkit/recdb/selector"
	"github.com/relkit/recdb/sex"
)

var selectOpts struct {
	recType     string
	expr        string
	quick       string
	numberArg   string
	random      int
	seed        int64
	sortFields  []string
	groupBy     []string
	uniq        bool
	fields      []string
	printValues bool
	printRow    bool
	includeDesc bool
	collapse    bool
	count       bool
	ci          bool
}

var recselCmd = &cobra.Command{
	Use:   "recsel [flags] FILE",
	Short: "Select and print records from a rec file",
	Args:  cobra.ExactArgs(1),
	RunE:  runRecsel,
}

func init() {
	f := recselCmd.Flags()
	f.StringVarP(&selectOpts.recType, "type", "t", "", "record type to select from (required unless the database has exactly one)")
	f.StringVarP(&selectOpts.expr, "expression", "e", "", "selection expression filter")
	f.StringVarP(&selectOpts.quick, "quick", "q", "", "quick substring search across every field")
	f.StringVarP(&selectOpts.numberArg, "number", "n", "", "comma-separated positions or ranges to keep, e.g. 0,2-4")
	f.IntVarP(&selectOpts.random, "random", "m", 0, "select a random sample of this many records")
	f.Int64Var(&selectOpts.seed, "seed", 1, "seed for --random, for reproducible output")
	f.StringSliceVarP(&selectOpts.sortFields, "sort", "S", nil, "sort by these fields, overriding %sort")
	f.StringSliceVarP(&selectOpts.groupBy, "group-by", "G", nil, "merge records sharing this tuple of field values into one")
	f.BoolVarP(&selectOpts.uniq, "uniq", "U", false, "collapse consecutive duplicate values of the same field within each record")
	f.StringSliceVarP(&selectOpts.fields, "print", "p", nil, "fields to print (default: all)")
	f.BoolVarP(&selectOpts.printValues, "print-values", "P", false, "print only field values, one per line")
	f.BoolVarP(&selectOpts.printRow, "print-row", "R", false, "print each record as one comma-separated line")
	f.BoolVarP(&selectOpts.includeDesc, "include-descriptor", "d", false, "print the record set's descriptor first")
	f.BoolVarP(&selectOpts.collapse, "collapse", "C", false, "merge adjacent output records that are field-for-field identical")
	f.BoolVarP(&selectOpts.count, "count", "c", false, "print only the number of selected records")
	f.BoolVarP(&selectOpts.ci, "case-insensitive", "i", false, "case-insensitive quick search and ~ matching")
	rootCmd.AddCommand(recselCmd)
}

func runRecsel(cmd *cobra.Command, args []string) error {
	path := args[0]
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	db, diags := recfile.Parse(recfile.FileRef(path), string(data))
	for _, d := range diags {
		log.Warn(d.String())
	}
	if diags.HasErrors() {
		return fmt.Errorf("%s: parse errors, not selecting", path)
	}

	opts := selector.Options{
		Type:              selectOpts.recType,
		Quick:             selectOpts.quick,
		CaseInsensitive:   cfg.CaseInsensitive || selectOpts.ci,
		Random:            selectOpts.random,
		Seed:              selectOpts.seed,
		SortFields:        selectOpts.sortFields,
		GroupBy:           selectOpts.groupBy,
		Uniq:              selectOpts.uniq,
		Fields:            selectOpts.fields,
		PrintValues:       selectOpts.printValues,
		PrintRow:          selectOpts.printRow,
		IncludeDescriptor: selectOpts.includeDesc,
		Collapse:          selectOpts.collapse,
		Count:             selectOpts.count,
	}

	if selectOpts.expr != "" {
		expr, err := sex.Parse(selectOpts.expr)
		if err != nil {
			return fmt.Errorf("invalid -e expression: %w", err)
		}
		opts.Expr = expr
	}

	if selectOpts.numberArg != "" {
		idxs, err := parseIndexes(selectOpts.numberArg)
		if err != nil {
			return err
		}
		opts.Indexes = idxs
	}

	if debug {
		log.Debug(repr.String(opts, repr.Indent("  ")))
	}

	result, err := selector.Run(db, opts)
	if err != nil {
		return err
	}

	if opts.Count {
		fmt.Println(result.Count)
		return nil
	}

	return selector.Write(os.Stdout, result, opts)
}

// parseIndexes expands a comma-separated list of positions and inclusive
// ranges ("0,2-4") into individual indexes.
func parseIndexes(arg string) ([]int, error) {
	var out []int
	for _, part := range strings.Split(arg, ",") {
		part = strings.TrimSpace(part)
		if lo, hi, ok := strings.Cut(part, "-"); ok {
			a, err1 := strconv.Atoi(strings.TrimSpace(lo))
			b, err2 := strconv.Atoi(strings.TrimSpace(hi))
			if err1 != nil || err2 != nil {
				return nil, fmt.Errorf("invalid -n range %q", part)
			}
			for i := a; i <= b; i++ {
				out = append(out, i)
			}
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("invalid -n position %q: %w", part, err)
		}
		out = append(out, n)
	}
	return out, nil
}
