// Package randsrc implements the random-source collaborator named in
// spec.md §6: byte-addressable cryptographic randomness of known
// lengths, consumed by Shamir.Split and SSKR.GenerateShares.
package randsrc

import "crypto/rand"

// Source fills buf with random bytes, returning an error the core maps
// to ResourceExhausted-adjacent failure if the source is unavailable.
type Source interface {
	Fill(buf []byte) error
}

// CryptoSource is the default Source, backed by crypto/rand.
type CryptoSource struct{}

// Fill reads len(buf) cryptographically secure random bytes into buf.
func (CryptoSource) Fill(buf []byte) error {
	_, err := rand.Read(buf)
	return err
}
