// Package cryptoenc provides passphrase-based at-rest encryption of
// exported share bundles, using age with an scrypt-derived recipient.
// This is the "[ADDED] Encrypted share bundle" component SPEC_FULL.md
// §3 describes: export/import tooling around the core, not a change
// to the core's own wire format.
package cryptoenc

import (
	"bytes"
	"io"

	"filippo.io/age"

	"github.com/mrz1836/sskr/internal/secure"
)

// Encrypt encrypts plaintext (typically a JSON-serialized share
// bundle) using age with a passphrase-based, scrypt-derived recipient.
func Encrypt(plaintext []byte, passphrase string) ([]byte, error) {
	recipient, err := age.NewScryptRecipient(passphrase)
	if err != nil {
		return nil, err
	}

	buf := &bytes.Buffer{}
	w, err := age.Encrypt(buf, recipient)
	if err != nil {
		return nil, err
	}

	if _, err := w.Write(plaintext); err != nil {
		return nil, err
	}

	if err := w.Close(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// Decrypt decrypts ciphertext produced by Encrypt, given the same
// passphrase.
func Decrypt(ciphertext []byte, passphrase string) ([]byte, error) {
	identity, err := age.NewScryptIdentity(passphrase)
	if err != nil {
		return nil, err
	}

	r, err := age.Decrypt(bytes.NewReader(ciphertext), identity)
	if err != nil {
		return nil, err
	}

	return io.ReadAll(r)
}

// DecryptToSecure decrypts ciphertext directly into a locked secure.Bytes
// buffer, zeroing the intermediate plaintext slice once copied.
func DecryptToSecure(ciphertext []byte, passphrase string) (*secure.Bytes, error) {
	plaintext, err := Decrypt(ciphertext, passphrase)
	if err != nil {
		return nil, err
	}

	sb := secure.FromSlice(plaintext)
	secure.Zero(plaintext)
	return sb, nil
}
