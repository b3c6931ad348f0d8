// Command recfix checks and repairs a rec file: integrity, sort, auto
// fields, and confidential-field encryption.
package main

import "github.com/relkit/recdb/cli/cmd"

func main() {
	cmd.Execute()
}
