package transform

import (
	"github.com/relkit/recdb/integrity"
	"github.com/relkit/recdb/recfile"
)

// Options configures a database-wide transform pass. Each of Sort, Auto and
// Encrypt enables its own stage independently, mirroring recfix's
// --sort, --auto and --encrypt flags — any combination, including all
// three at once, is valid.
type Options struct {
	Sort       bool   // apply %sort
	Auto       bool   // fill %auto fields
	Encrypt    bool   // encrypt %confidential fields
	Passphrase string // passphrase for Encrypt; empty raises a "password required" diagnostic per field
	Force      bool   // apply even if the database fails integrity checks; also forces re-encryption of already-encrypted fields
}

// Apply runs the stages enabled in opts — sort, %auto generation,
// confidential-field encryption, in that order — over every record set in
// db and returns the transformed database. If Force is false and the input
// database fails Check, Apply returns the diagnostics instead of mutating
// anything.
func Apply(db recfile.Database, opts Options) (recfile.Database, recfile.Diagnostics) {
	if !opts.Force {
		if diags := integrity.Check(db); diags.HasErrors() {
			return db, diags
		}
	}

	var diags recfile.Diagnostics
	sets := make([]recfile.RecordSet, len(db.Sets))
	for i, rs := range db.Sets {
		if opts.Sort {
			rs = Sort(rs)
		}
		if opts.Auto {
			var autoDiags recfile.Diagnostics
			rs, autoDiags = Auto(rs)
			diags = append(diags, autoDiags...)
		}
		if opts.Encrypt {
			var encDiags recfile.Diagnostics
			rs, encDiags = encryptSet(rs, opts.Passphrase, opts.Force)
			diags = append(diags, encDiags...)
		}
		sets[i] = rs
	}

	return recfile.Database{Sets: sets}, diags
}

// encryptSet encrypts every %confidential field across rs.Records. Without
// a passphrase, no value is changed and every confidential field present
// raises a "password required" diagnostic instead. A value already
// carrying the encrypted marker is left alone (and raises an "already
// encrypted" diagnostic) unless force is true, in which case it is
// decrypted and re-encrypted fresh.
func encryptSet(rs recfile.RecordSet, passphrase string, force bool) (recfile.RecordSet, recfile.Diagnostics) {
	if rs.Schema == nil || len(rs.Schema.Confidential) == 0 {
		return rs, nil
	}
	confidential := map[string]bool{}
	for _, name := range rs.Schema.Confidential {
		confidential[name] = true
	}

	var diags recfile.Diagnostics

	if passphrase == "" {
		for i, rec := range rs.Records {
			for _, f := range rec.Fields {
				if confidential[f.Name] {
					diags = append(diags, recfile.Diagnostic{
						Severity: recfile.Error, Message: "password required",
						RecordType: rs.Type(), RecordIndex: i, FieldName: f.Name,
					})
				}
			}
		}
		return rs, diags
	}

	records := make([]recfile.Record, len(rs.Records))
	for i, rec := range rs.Records {
		fields := make([]recfile.Field, len(rec.Fields))
		for j, f := range rec.Fields {
			if confidential[f.Name] {
				result, skipped := EncryptField(f.Value, passphrase, force)
				if skipped {
					diags = append(diags, recfile.Diagnostic{
						Severity: recfile.Error, Message: "already encrypted",
						RecordType: rs.Type(), RecordIndex: i, FieldName: f.Name,
					})
				}
				f.Value = result
			}
			fields[j] = f
		}
		records[i] = recfile.Record{Fields: fields}
	}
	rs.Records = records
	return rs, diags
}

// Decrypt reverses Apply's confidential-field encryption across every
// record set, leaving sort order and %auto fields untouched.
func Decrypt(db recfile.Database, passphrase string) recfile.Database {
	sets := make([]recfile.RecordSet, len(db.Sets))
	for i, rs := range db.Sets {
		sets[i] = decryptSet(rs, passphrase)
	}
	return recfile.Database{Sets: sets}
}

func decryptSet(rs recfile.RecordSet, passphrase string) recfile.RecordSet {
	if rs.Schema == nil || len(rs.Schema.Confidential) == 0 {
		return rs
	}
	confidential := map[string]bool{}
	for _, name := range rs.Schema.Confidential {
		confidential[name] = true
	}

	records := make([]recfile.Record, len(rs.Records))
	for i, rec := range rs.Records {
		fields := make([]recfile.Field, len(rec.Fields))
		for j, f := range rec.Fields {
			if confidential[f.Name] {
				f.Value = DecryptField(f.Value, passphrase)
			}
			fields[j] = f
		}
		records[i] = recfile.Record{Fields: fields}
	}
	rs.Records = records
	return rs
}
