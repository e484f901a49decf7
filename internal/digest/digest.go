// Package digest computes the 4-byte integrity tag the Shamir layer
// embeds at the reserved x=254 evaluation point.
package digest

import (
	"crypto/hmac"
	"crypto/sha256"
)

// Size is the length in bytes of the digest4 output.
const Size = 4

// MAC is the keyed-MAC collaborator the spec names in §6: a correct
// HMAC-SHA-256 implementation. The core only ever consumes the leading 4
// bytes of its 32-byte output.
type MAC interface {
	Sum(key, data []byte) [sha256.Size]byte
}

// HMACSHA256 is the default MAC, backed by the standard library's
// crypto/hmac and crypto/sha256 — the literal primitive spec.md §6 names.
type HMACSHA256 struct{}

// Sum computes HMAC-SHA-256(key, data).
func (HMACSHA256) Sum(key, data []byte) [sha256.Size]byte {
	mac := hmac.New(sha256.New, key)
	mac.Write(data) //nolint:errcheck // hmac.Write never returns an error
	var out [sha256.Size]byte
	copy(out[:], mac.Sum(nil))
	return out
}

// Compute4 returns the leading 4 bytes of m.Sum(key, data): digest4(key,
// data) from spec.md §4.2.
func Compute4(m MAC, key, data []byte) [Size]byte {
	full := m.Sum(key, data)
	var out [Size]byte
	copy(out[:], full[:Size])
	return out
}
