package transform

import (
	"crypto/sha256"
	"encoding/base64"
	"strings"
)

// confidentialPrefix marks a field value as already encrypted, so Encrypt
// and Decrypt are both idempotent: running either twice is a no-op the
// second time.
const confidentialPrefix = "encrypted-"

// EncryptField obscures value under passphrase. This is not a general
// purpose cipher: it is the reversible keystream transform recfix
// applies to %confidential fields, deterministic so the same (value,
// passphrase) pair always serializes identically.
//
// If value is already encrypted, it is left untouched unless force is
// true, in which case it is decrypted first and re-encrypted fresh.
// skipped reports whether an already-encrypted value was left alone.
func EncryptField(value, passphrase string, force bool) (result string, skipped bool) {
	if strings.HasPrefix(value, confidentialPrefix) {
		if !force {
			return value, true
		}
		value = DecryptField(value, passphrase)
	}
	cipher := xorKeystream([]byte(value), passphrase)
	return confidentialPrefix + base64.StdEncoding.EncodeToString(cipher), false
}

// DecryptField reverses EncryptField. A value without the confidential
// marker is assumed already plaintext and is returned unchanged.
func DecryptField(value, passphrase string) string {
	if !strings.HasPrefix(value, confidentialPrefix) {
		return value
	}
	encoded := strings.TrimPrefix(value, confidentialPrefix)
	cipher, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return value
	}
	plain := xorKeystream(cipher, passphrase)
	return string(plain)
}

// xorKeystream XORs data against a keystream derived by repeatedly
// hashing passphrase with an incrementing block counter, long enough to
// cover data. XOR is its own inverse, so the same call encrypts and
// decrypts.
func xorKeystream(data []byte, passphrase string) []byte {
	out := make([]byte, len(data))
	block := 0
	var stream []byte
	for i := range data {
		if i%sha256.Size == 0 {
			h := sha256.Sum256(blockInput(passphrase, block))
			stream = h[:]
			block++
		}
		out[i] = data[i] ^ stream[i%sha256.Size]
	}
	return out
}

func blockInput(passphrase string, block int) []byte {
	b := make([]byte, 0, len(passphrase)+4)
	b = append(b, passphrase...)
	b = append(b, byte(block), byte(block>>8), byte(block>>16), byte(block>>24))
	return b
}
