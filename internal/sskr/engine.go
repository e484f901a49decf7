package sskr

import (
	"encoding/binary"

	"github.com/mrz1836/sskr/internal/corerr"
	"github.com/mrz1836/sskr/internal/digest"
	"github.com/mrz1836/sskr/internal/randsrc"
	"github.com/mrz1836/sskr/internal/secure"
	"github.com/mrz1836/sskr/internal/shamir"
)

// Engine is the two-level SSKR orchestrator spec.md §4.4 describes: it
// owns one Accumulator session and the random-source/MAC collaborators
// needed to split and combine. A single Engine must not be driven
// concurrently; spec.md §5 assigns serialization to the host (see
// internal/enclave for a mutex-serialized wrapper).
type Engine struct {
	rng randsrc.Source
	mac digest.MAC
	acc *Accumulator
}

// NewEngine constructs an Engine over the given random source and MAC
// collaborators, with a fresh, unpinned accumulator session.
func NewEngine(rng randsrc.Source, mac digest.MAC) *Engine {
	return &Engine{rng: rng, mac: mac, acc: NewAccumulator()}
}

const opGenerate = "sskr.GenerateShares"

// GenerateShares implements generateShares from spec.md §4.4: it draws
// a 16-bit share-set id, Shamir-splits secret into g group shares under
// policy.GroupThreshold, then Shamir-splits each group share into its
// member shares, returning the flattened, serialized list in group/
// member index order.
func (e *Engine) GenerateShares(policy Policy, secret []byte) ([]Share, error) {
	if err := policy.Validate(); err != nil {
		return nil, err
	}

	idBuf := make([]byte, 2)
	if err := e.rng.Fill(idBuf); err != nil {
		return nil, corerr.Wrap(corerr.ResourceExhausted, opGenerate, "failed to draw share-set id", err)
	}
	id := binary.BigEndian.Uint16(idBuf)

	g := len(policy.Groups)
	groupShares, err := shamir.Split(policy.GroupThreshold, g, secret, e.rng, e.mac)
	if err != nil {
		return nil, err
	}
	defer func() {
		for _, gs := range groupShares {
			secure.Zero(gs)
		}
	}()

	out := make([]Share, 0)
	for gi, spec := range policy.Groups {
		memberShares, err := shamir.Split(spec.Threshold, spec.Count, groupShares[gi], e.rng, e.mac)
		if err != nil {
			return nil, err
		}
		for mi, ms := range memberShares {
			out = append(out, Share{
				ID:              id,
				GroupThreshold:  policy.GroupThreshold,
				GroupCount:      g,
				GroupIndex:      gi,
				MemberThreshold: spec.Threshold,
				MemberIndex:     mi,
				Payload:         ms,
			})
		}
	}
	return out, nil
}

// CombineShares implements combineShares from spec.md §4.4: it feeds
// shares one at a time into the Engine's resumable accumulator session.
// It returns the recovered secret and its length as soon as some call
// completes reconstruction, or (nil, 0, nil) when more shares are
// required. Any error poisons the session; the caller must call Reset
// before the next CombineShares call.
func (e *Engine) CombineShares(shares []Share) (secret []byte, n int, err error) {
	for _, s := range shares {
		completed, sec, aerr := e.acc.addShare(s, e.mac)
		if aerr != nil {
			return nil, 0, aerr
		}
		if completed {
			return sec, len(sec), nil
		}
	}
	return nil, 0, nil
}

// Reset drops the accumulator session state, per spec.md §4.4's
// reset(). It must be called before starting a new combine session
// after either a completed reconstruction or an error.
func (e *Engine) Reset() {
	e.acc.Reset()
}
