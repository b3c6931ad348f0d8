// Command recsel selects and prints records from a rec file.
package main

import "github.com/relkit/recdb/cli/cmd"

func main() {
	cmd.Execute()
}
