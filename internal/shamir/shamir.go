// Package shamir implements single-level T-of-N Shamir secret sharing
// over GF(2^8) using the SLIP-39 evaluation-point convention: the secret
// sits at x=255 and a 4-byte integrity digest sits at x=254, with member
// share j placed at x=j. This is the "Shamir" component of spec.md §4.3.
package shamir

import (
	"crypto/subtle"

	"github.com/mrz1836/sskr/internal/corerr"
	"github.com/mrz1836/sskr/internal/digest"
	"github.com/mrz1836/sskr/internal/gf256"
	"github.com/mrz1836/sskr/internal/randsrc"
	"github.com/mrz1836/sskr/internal/secure"
)

const (
	// SecretX is the reserved x-coordinate carrying the secret itself.
	SecretX byte = 255

	// DigestX is the reserved x-coordinate carrying the integrity digest.
	DigestX byte = 254

	// MinLen and MaxLen bound the secret length spec.md §1 allows.
	MinLen = 16
	MaxLen = 32

	// MinParties and MaxParties bound threshold/count values.
	MinParties = 1
	MaxParties = 16
)

const opSplit = "shamir.Split"
const opCombine = "shamir.Combine"

func validateLength(op string, l int) error {
	if l < MinLen || l > MaxLen {
		return corerr.New(corerr.IllegalValue, op, "secret length out of range [16,32]")
	}
	if l%2 != 0 {
		return corerr.New(corerr.IllegalValue, op, "secret length must be even")
	}
	return nil
}

func validateThreshold(op string, t, n int) error {
	if t < MinParties || t > MaxParties {
		return corerr.New(corerr.IllegalValue, op, "threshold out of range [1,16]")
	}
	if n < MinParties || n > MaxParties {
		return corerr.New(corerr.IllegalValue, op, "count out of range [1,16]")
	}
	if t > n {
		return corerr.New(corerr.IllegalValue, op, "threshold exceeds count")
	}
	return nil
}

// Split divides secret into n shares, t of which reconstruct it. Each
// returned share is L bytes (L = len(secret)); share j's x-coordinate is
// byte(j), 0..n-1, matching spec.md §4.3's output layout (expressed here
// as n independent slices rather than one flat n*L buffer, since that is
// the natural Go shape — the SSKR layer copies each slice into its wire
// payload field unchanged).
func Split(t, n int, secret []byte, rng randsrc.Source, mac digest.MAC) ([][]byte, error) {
	if err := validateThreshold(opSplit, t, n); err != nil {
		return nil, err
	}
	if err := validateLength(opSplit, len(secret)); err != nil {
		return nil, err
	}

	l := len(secret)

	if t == 1 {
		shares := make([][]byte, n)
		for j := 0; j < n; j++ {
			shares[j] = append([]byte(nil), secret...)
		}
		return shares, nil
	}

	// Random draw order is significant for reproducibility under a
	// shared deterministic seed (spec.md §9): digest key first, then
	// the inner y-values, in index order.
	r := make([]byte, l-digest.Size)
	if err := rng.Fill(r); err != nil {
		return nil, corerr.Wrap(corerr.ResourceExhausted, opSplit, "failed to draw digest key randomness", err)
	}
	defer secure.Zero(r)

	d := digest.Compute4(mac, r, secret)
	digestL := make([]byte, l)
	copy(digestL, d[:])
	copy(digestL[digest.Size:], r)
	defer secure.Zero(digestL)

	innerCount := t - 2
	innerYs := make([][]byte, innerCount)
	if innerCount > 0 {
		innerRandom := make([]byte, innerCount*l)
		if err := rng.Fill(innerRandom); err != nil {
			return nil, corerr.Wrap(corerr.ResourceExhausted, opSplit, "failed to draw inner share randomness", err)
		}
		defer secure.Zero(innerRandom)

		for k := 0; k < innerCount; k++ {
			innerYs[k] = innerRandom[k*l : (k+1)*l]
		}
	}

	xs := make([]byte, 0, t)
	ys := make([][]byte, 0, t)
	for k := 0; k < innerCount; k++ {
		xs = append(xs, byte(k))
		ys = append(ys, innerYs[k])
	}
	xs = append(xs, DigestX, SecretX)
	ys = append(ys, digestL, secret)

	shares := make([][]byte, n)
	for j := 0; j < n; j++ {
		if j < innerCount {
			shares[j] = append([]byte(nil), innerYs[j]...)
			continue
		}
		shares[j] = gf256.InterpolateBytes(byte(j), xs, ys)
	}

	return shares, nil
}

// Combine reconstructs the secret from t shares at the given
// x-coordinates. ok is false (with secret nil and err nil) exactly when
// the reconstructed integrity digest does not match — spec.md §4.3 step
// 3 treats this as a non-exceptional "0 bytes written" result, not an
// error; the caller (SSKR) is the one that escalates a failed digest
// into an IllegalValue.
func Combine(t int, xs []byte, shares [][]byte, mac digest.MAC) (secret []byte, ok bool, err error) {
	if len(xs) != t || len(shares) != t {
		return nil, false, corerr.New(corerr.IllegalValue, opCombine, "x-coordinate/share count mismatch with threshold")
	}
	if t < MinParties || t > MaxParties {
		return nil, false, corerr.New(corerr.IllegalValue, opCombine, "threshold out of range [1,16]")
	}

	l := -1
	for _, s := range shares {
		if l == -1 {
			l = len(s)
			continue
		}
		if len(s) != l {
			return nil, false, corerr.New(corerr.IllegalValue, opCombine, "share length mismatch")
		}
	}
	if err := validateLength(opCombine, l); err != nil {
		return nil, false, err
	}

	if t == 1 {
		return append([]byte(nil), shares[0]...), true, nil
	}

	secretOut := gf256.InterpolateBytes(SecretX, xs, shares)
	digestL := gf256.InterpolateBytes(DigestX, xs, shares)
	defer secure.Zero(digestL)

	want := digestL[:digest.Size]
	got := digest.Compute4(mac, digestL[digest.Size:], secretOut)

	if subtle.ConstantTimeCompare(want, got[:]) != 1 {
		secure.Zero(secretOut)
		return nil, false, nil
	}

	return secretOut, true, nil
}
