package recfile

import (
	"regexp"
	"strings"
)

// fieldNameRegexp matches a field name as defined in the rec format: a
// leading letter or '%' (reserved for descriptor directives), followed by
// letters, digits or underscore.
var fieldNameRegexp = regexp.MustCompile(`^[A-Za-z%][A-Za-z0-9_]*$`)

// logicalLine is one line of the rec format after backslash continuations
// have been resolved; Line is the 1-based physical line number on which it
// started (used for diagnostic positions).
type logicalLine struct {
	text string
	line int
}

// resolveBackslashContinuations joins any physical line ending in an
// unescaped '\' with the line(s) that follow it, per spec: "the backslash
// and trailing newline are removed and the next physical line is
// concatenated without an intervening newline". Comment lines are never
// joined. Returns the resulting logical line stream plus any diagnostics
// (a trailing, unterminated continuation at end-of-file).
func resolveBackslashContinuations(file FileRef, input string) ([]logicalLine, Diagnostics) {
	input = strings.ReplaceAll(input, "\r\n", "\n")
	input = strings.ReplaceAll(input, "\r", "\n")
	phys := strings.Split(input, "\n")

	var out []logicalLine
	var diags Diagnostics

	for i := 0; i < len(phys); i++ {
		start := i
		text := phys[i]
		for {
			if isCommentLine(text) {
				break
			}
			if !endsWithOddBackslashes(text) {
				break
			}
			// The empty element after a final newline is end of input,
			// not a line to join.
			if i+1 >= len(phys) || (i+1 == len(phys)-1 && phys[i+1] == "") {
				diags = append(diags, Diagnostic{
					Severity:    Error,
					Message:     "unexpected end of input: dangling line continuation",
					Pos:         Pos{File: file, Line: start + 1},
					RecordIndex: -1,
				})
				text = strings.TrimSuffix(text, `\`)
				break
			}
			text = strings.TrimSuffix(text, `\`) + phys[i+1]
			i++
		}
		out = append(out, logicalLine{text: text, line: start + 1})
	}
	return out, diags
}

func endsWithOddBackslashes(s string) bool {
	n := 0
	for i := len(s) - 1; i >= 0 && s[i] == '\\'; i-- {
		n++
	}
	return n%2 == 1
}

func isCommentLine(s string) bool {
	return strings.HasPrefix(strings.TrimLeft(s, " \t"), "#")
}

func isBlankLine(s string) bool {
	return strings.TrimSpace(s) == ""
}

// parsedFieldLine holds the result of successfully classifying a logical
// line as "NAME: VALUE?".
type parsedFieldLine struct {
	name  string
	value string
}

// classifyFieldLine attempts to parse text as a field line. A field line
// has no leading whitespace: the name runs up to the first ':', and
// everything after it (minus a single optional leading space) is the
// value, including any further colons.
func classifyFieldLine(text string) (parsedFieldLine, bool) {
	idx := strings.IndexByte(text, ':')
	if idx < 0 {
		return parsedFieldLine{}, false
	}
	name := text[:idx]
	if !fieldNameRegexp.MatchString(name) {
		return parsedFieldLine{}, false
	}
	rest := text[idx+1:]
	if strings.HasPrefix(rest, " ") {
		rest = rest[1:]
	}
	return parsedFieldLine{name: name, value: rest}, true
}

// classifyPlusContinuation reports whether text is a '+'-continuation
// line, and its (possibly space-stripped) payload.
func classifyPlusContinuation(text string) (string, bool) {
	if !strings.HasPrefix(text, "+") {
		return "", false
	}
	rest := text[1:]
	if strings.HasPrefix(rest, " ") {
		rest = rest[1:]
	}
	return rest, true
}
