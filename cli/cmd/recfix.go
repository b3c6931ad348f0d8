package cmd

import (
	"fmt"
	"os"

	"github.com/alecthomas/repr"
	"github.com/spf13/cobra"

	"github.com/relkit/recdb/integrity"
	"github.com/relkit/recdb/recfile"
	"github.com/relkit/recdb/transform"
)

var fixOpts struct {
	check    bool
	sort     bool
	auto     bool
	encrypt  bool
	decrypt  bool
	password string
	force    bool
}

var recfixCmd = &cobra.Command{
	Use:   "recfix [flags] FILE",
	Short: "Check and repair a rec file: integrity, sort, auto fields, encryption",
	Args:  cobra.ExactArgs(1),
	RunE:  runRecfix,
}

func init() {
	f := recfixCmd.Flags()
	f.BoolVar(&fixOpts.check, "check", true, "run the integrity checker and report diagnostics; alone, reports without rewriting")
	f.BoolVar(&fixOpts.sort, "sort", false, "apply %sort")
	f.BoolVar(&fixOpts.auto, "auto", false, "fill %auto fields")
	f.BoolVar(&fixOpts.encrypt, "encrypt", false, "encrypt %confidential fields")
	f.BoolVar(&fixOpts.decrypt, "decrypt", false, "decrypt %confidential fields")
	f.StringVar(&fixOpts.password, "password", "", "passphrase for --encrypt/--decrypt, overrides the configured one")
	f.BoolVar(&fixOpts.force, "force", false, "apply transforms even if the database fails the integrity check")
	rootCmd.AddCommand(recfixCmd)
}

func runRecfix(cmd *cobra.Command, args []string) error {
	path := args[0]
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	db, diags := recfile.Parse(recfile.FileRef(path), string(data))
	if debug {
		log.Debug(repr.String(db, repr.Indent("  ")))
	}
	printDiagnostics(diags)
	if diags.HasErrors() && !fixOpts.force {
		return fmt.Errorf("%s: parse errors, not fixing (use --force to override)", path)
	}

	checkDiags := integrity.Check(db)
	printDiagnostics(checkDiags)

	if fixOpts.encrypt && fixOpts.decrypt {
		return fmt.Errorf("--encrypt and --decrypt are mutually exclusive")
	}

	mutating := fixOpts.sort || fixOpts.auto || fixOpts.encrypt || fixOpts.decrypt
	if !mutating {
		if fixOpts.check && checkDiags.HasErrors() {
			return fmt.Errorf("%s: failed integrity check", path)
		}
		return nil
	}

	passphrase := cfg.Passphrase
	if fixOpts.password != "" {
		passphrase = fixOpts.password
	}

	if fixOpts.decrypt {
		out := transform.Decrypt(db, passphrase)
		_, err := fmt.Fprint(os.Stdout, recfile.Serialize(out))
		return err
	}

	applyOpts := transform.Options{
		Sort:       fixOpts.sort,
		Auto:       fixOpts.auto,
		Encrypt:    fixOpts.encrypt,
		Passphrase: passphrase,
		Force:      fixOpts.force || !fixOpts.check,
	}

	out, transformDiags := transform.Apply(db, applyOpts)
	printDiagnostics(transformDiags)
	if transformDiags.HasErrors() && !fixOpts.force {
		return fmt.Errorf("%s: failed integrity check, no changes written (use --force to override)", path)
	}

	_, err = fmt.Fprint(os.Stdout, recfile.Serialize(out))
	return err
}

func printDiagnostics(diags recfile.Diagnostics) {
	for _, d := range diags {
		if d.Severity == recfile.Error {
			log.Error(d.String())
		} else {
			log.Warn(d.String())
		}
	}
}
