// Package rectest provides small test helpers shared across the module's
// test suites: parsing fixtures and dumping values for assertion failures.
package rectest

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/relkit/recdb/recfile"
)

// MustParse parses input and fails the test immediately if any Error
// severity diagnostic is produced. Warnings are tolerated, so tests that
// exercise a still-lenient parse path can inspect them separately.
func MustParse(t *testing.T, input string) (recfile.Database, recfile.Diagnostics) {
	t.Helper()
	db, diags := recfile.Parse(recfile.FileRef(t.Name()), input)
	require.False(t, diags.HasErrors(), "unexpected parse errors: %s", diags.Error())
	return db, diags
}

// MustParseInvalid parses input and requires that it produced at least
// one Error severity diagnostic, returning the database (possibly
// partial) and the diagnostics for further inspection.
func MustParseInvalid(t *testing.T, input string) (recfile.Database, recfile.Diagnostics) {
	t.Helper()
	db, diags := recfile.Parse(recfile.FileRef(t.Name()), input)
	require.True(t, diags.HasErrors(), "expected parse errors, got none")
	return db, diags
}
