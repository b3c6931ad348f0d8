// Package integrity implements the rec format's consistency checker:
// mandatory/allowed/prohibit, unique/key, singular, size, constraint and
// type/typedef validation, all surfaced as recfile.Diagnostics rather than
// Go errors. %confidential fields are not checked: Check does not report
// a confidential value that lacks the encrypted marker.
package integrity

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/relkit/recdb/recfile"
)

var (
	emailRegexp = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	uuidRegexp  = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)
	wordRegexp  = regexp.MustCompile(`^\w+$`)
)

var typeDateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// validateType checks value against a %type keyword/args pair. db is
// needed only by the "field" kind, which resolves a foreign reference
// against another record type's %key.
func validateType(db recfile.Database, kind string, args []string, value string) error {
	switch kind {
	case "int":
		if _, err := strconv.ParseInt(value, 0, 64); err != nil {
			return fmt.Errorf("%q is not an integer", value)
		}
	case "real":
		if _, err := strconv.ParseFloat(value, 64); err != nil {
			return fmt.Errorf("%q is not a real number", value)
		}
	case "bool":
		switch strings.ToLower(value) {
		case "0", "1", "true", "false", "yes", "no":
		default:
			return fmt.Errorf("%q is not a boolean", value)
		}
	case "line":
		if strings.Contains(value, "\n") {
			return fmt.Errorf("value spans multiple lines")
		}
	case "range":
		if len(args) != 2 {
			return fmt.Errorf("range type requires 2 bounds")
		}
		lo, err1 := strconv.Atoi(args[0])
		hi, err2 := strconv.Atoi(args[1])
		n, err3 := strconv.Atoi(value)
		if err1 != nil || err2 != nil {
			return fmt.Errorf("range bounds must be integers")
		}
		if err3 != nil || n < lo || n > hi {
			return fmt.Errorf("%q is not in range [%d, %d]", value, lo, hi)
		}
	case "size":
		if len(args) != 1 {
			return fmt.Errorf("size type requires a maximum length")
		}
		n, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("size bound must be an integer")
		}
		if len(value) > n {
			return fmt.Errorf("value exceeds maximum size %d", n)
		}
	case "regexp":
		if len(args) != 1 {
			return fmt.Errorf("regexp type requires one pattern")
		}
		pattern := strings.Trim(args[0], "/")
		re, err := regexp.Compile(pattern)
		if err != nil {
			return fmt.Errorf("invalid pattern %q: %w", args[0], err)
		}
		if !re.MatchString(value) {
			return fmt.Errorf("%q does not match %s", value, args[0])
		}
	case "date":
		if _, ok := parseDate(value); !ok {
			return fmt.Errorf("%q is not a recognised date", value)
		}
	case "email":
		if !emailRegexp.MatchString(value) {
			return fmt.Errorf("%q is not an email address", value)
		}
	case "uuid":
		if !uuidRegexp.MatchString(value) {
			return fmt.Errorf("%q is not a UUID", value)
		}
	case "word":
		if !wordRegexp.MatchString(value) {
			return fmt.Errorf("%q is not a single word", value)
		}
	case "month":
		n, err := strconv.Atoi(value)
		if err != nil || n < 1 || n > 12 {
			return fmt.Errorf("%q is not a month number 1-12", value)
		}
	case "enum":
		for _, allowed := range args {
			if value == allowed {
				return nil
			}
		}
		return fmt.Errorf("%q is not one of %v", value, args)
	case "field":
		if len(args) != 1 {
			return fmt.Errorf("field type requires a target record type")
		}
		target, ok := db.ByType(args[0])
		if !ok {
			return fmt.Errorf("unknown record type %q", args[0])
		}
		if target.Schema == nil || len(target.Schema.Key) == 0 {
			return fmt.Errorf("record type %q has no %%key to reference", args[0])
		}
		keyField := target.Schema.Key[0]
		for _, rec := range target.Records {
			if v, ok := rec.Get(keyField); ok && v == value {
				return nil
			}
		}
		return fmt.Errorf("%q does not match any %s.%s", value, args[0], keyField)
	default:
		return fmt.Errorf("unknown type keyword %q", kind)
	}
	return nil
}

func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range typeDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
