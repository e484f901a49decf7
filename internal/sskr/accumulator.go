package sskr

import (
	"github.com/mrz1836/sskr/internal/corerr"
	"github.com/mrz1836/sskr/internal/digest"
	"github.com/mrz1836/sskr/internal/secure"
	"github.com/mrz1836/sskr/internal/shamir"
)

// groupBucket is the per-group arena from spec.md §9: a fixed-size
// x-vector pre-initialized to UnusedX and a parallel y-matrix, sized
// for that group's member threshold.
type groupBucket struct {
	mt    int
	xs    []byte
	ys    [][]byte
	count int
}

func newGroupBucket(mt int) *groupBucket {
	xs := make([]byte, mt)
	for i := range xs {
		xs[i] = UnusedX
	}
	return &groupBucket{mt: mt, xs: xs, ys: make([][]byte, mt)}
}

func (b *groupBucket) zero() {
	for _, y := range b.ys {
		secure.Zero(y)
	}
}

// topBucket is the top-level arena of recovered group shares, sized
// for the policy's group threshold.
type topBucket struct {
	gt    int
	xs    []byte
	ys    [][]byte
	count int
}

func newTopBucket(gt int) *topBucket {
	xs := make([]byte, gt)
	for i := range xs {
		xs[i] = UnusedX
	}
	return &topBucket{gt: gt, xs: xs, ys: make([][]byte, gt)}
}

func (b *topBucket) zero() {
	for _, y := range b.ys {
		secure.Zero(y)
	}
}

// Accumulator is the stateful, resumable SSKR combine session from
// spec.md §3/§4.4: a top-level bucket of recovered group shares plus
// one bucket per observed group index, pinned to a single (id, g, gt)
// once the first share is accepted. It is not safe for concurrent use;
// spec.md §5 assigns serialization to the host.
type Accumulator struct {
	pinned   bool
	id       uint16
	g        int
	gt       int
	top      *topBucket
	groups   map[int]*groupBucket
	poisoned bool
}

// NewAccumulator returns an empty, unpinned accumulator.
func NewAccumulator() *Accumulator {
	return &Accumulator{groups: make(map[int]*groupBucket)}
}

// Reset drops all buckets, wiping their contents, and clears the
// session pin — spec.md §4.4's reset().
func (a *Accumulator) Reset() {
	if a.top != nil {
		a.top.zero()
	}
	for _, gb := range a.groups {
		gb.zero()
	}
	a.pinned = false
	a.id = 0
	a.g = 0
	a.gt = 0
	a.top = nil
	a.groups = make(map[int]*groupBucket)
	a.poisoned = false
}

const opAdd = "sskr.CombineShares"

// addShare inserts a single share into the accumulator, per spec.md
// §4.4's algorithm. completed reports whether this call recovered the
// master secret; secret is non-nil only when completed is true. Any
// non-nil error poisons the session: every subsequent call returns
// IllegalUse until Reset runs, matching the "accumulator is considered
// poisoned" language in spec.md §7.
func (a *Accumulator) addShare(share Share, mac digest.MAC) (completed bool, secret []byte, err error) {
	if a.poisoned {
		return false, nil, corerr.New(corerr.IllegalUse, opAdd, "accumulator poisoned by a prior error; reset required")
	}

	if share.MemberIndex < 0 || share.MemberIndex > 15 || share.MemberThreshold < 1 || share.MemberThreshold > 16 {
		a.poisoned = true
		return false, nil, corerr.New(corerr.IllegalValue, opAdd, "member index/threshold out of range")
	}

	if !a.pinned {
		a.id = share.ID
		a.g = share.GroupCount
		a.gt = share.GroupThreshold
		a.top = newTopBucket(share.GroupThreshold)
		a.pinned = true
	} else if share.ID != a.id || share.GroupCount != a.g || share.GroupThreshold != a.gt {
		a.poisoned = true
		return false, nil, corerr.New(corerr.IllegalUse, opAdd, "share disagrees with pinned session id/g/gt")
	}

	gb, ok := a.groups[share.GroupIndex]
	if !ok {
		gb = newGroupBucket(share.MemberThreshold)
		a.groups[share.GroupIndex] = gb
	} else if gb.mt != share.MemberThreshold {
		a.poisoned = true
		return false, nil, corerr.New(corerr.IllegalValue, opAdd, "member threshold mismatch for reused group index")
	}

	if gb.count >= gb.mt {
		// Group already sealed: spec.md §9 says extraneous members for
		// a sealed group are silently ignored.
		return false, nil, nil
	}

	mi := byte(share.MemberIndex)
	dup, slot := scanSlot(gb.xs, mi)
	if dup {
		return false, nil, nil
	}
	if slot == -1 {
		return false, nil, nil
	}

	gb.xs[slot] = mi
	gb.ys[slot] = append([]byte(nil), share.Payload...)
	gb.count++

	if gb.count < gb.mt {
		return false, nil, nil
	}

	groupSecret, ok2, serr := shamir.Combine(gb.mt, gb.xs, gb.ys, mac)
	if serr != nil {
		a.poisoned = true
		return false, nil, serr
	}
	if !ok2 {
		a.poisoned = true
		gb.zero()
		return false, nil, corerr.New(corerr.IllegalValue, opAdd, "group share integrity check failed")
	}

	gi := byte(share.GroupIndex)
	dupTop, topSlot := scanSlot(a.top.xs, gi)
	if dupTop || topSlot == -1 {
		secure.Zero(groupSecret)
		return false, nil, nil
	}

	a.top.xs[topSlot] = gi
	a.top.ys[topSlot] = groupSecret
	a.top.count++

	if a.top.count < a.top.gt {
		return false, nil, nil
	}

	masterSecret, ok3, serr := shamir.Combine(a.top.gt, a.top.xs, a.top.ys, mac)
	if serr != nil {
		a.poisoned = true
		return false, nil, serr
	}
	if !ok3 {
		a.poisoned = true
		return false, nil, corerr.New(corerr.IllegalValue, opAdd, "master secret integrity check failed")
	}

	return true, masterSecret, nil
}

// scanSlot scans an x-vector left to right, reporting whether x is
// already present (duplicate, to be skipped) and otherwise the first
// UnusedX slot (-1 if the bucket is full).
func scanSlot(xs []byte, x byte) (dup bool, slot int) {
	slot = -1
	for i, v := range xs {
		if v == x {
			return true, -1
		}
		if v == UnusedX && slot == -1 {
			slot = i
		}
	}
	return false, slot
}
